package database

import (
	"fest-judging-system/config"
	"fest-judging-system/internal/global/sentry/tracing"
	"fest-judging-system/internal/model"
	"fest-judging-system/tools"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var DB *gorm.DB

// Models 需要自动迁移的模型，测试库也用这份列表建表
var Models = []any{
	&model.School{},
	&model.Student{},
	&model.Faculty{},
	&model.User{},
	&model.Event{},
	&model.Judge{},
	&model.EventJudge{},
	&model.Registration{},
	&model.RegistrationParticipant{},
	&model.Judgment{},
	&model.PositionReward{},
}

func Init() {
	c := config.Get().Mysql
	dsn := (&mysql.Config{
		User:                 c.Username,
		Passwd:               c.Password,
		Net:                  "tcp",
		Addr:                 c.Host + ":" + c.Port,
		DBName:               c.DBName,
		ParseTime:            true,
		AllowNativePasswords: true,
		Params:               map[string]string{"charset": "utf8mb4"},
	}).FormatDSN()

	db, err := Open(gormmysql.Open(dsn))
	tools.PanicOnErr(err)
	DB = db

	if tracing.IsEnabled() {
		tools.PanicOnErr(DB.Use(tracing.NewGormTracingPlugin()))
	}
	tools.PanicOnErr(DB.AutoMigrate(Models...))
}

// Open 按当前运行模式配置日志与命名策略
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true}, // 还是单数表名好
		TranslateError: true,
	}
	switch config.Get().Mode {
	case config.ModeDebug:
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	case config.ModeRelease:
		gormConfig.Logger = logger.Discard
	}
	return gorm.Open(dialector, gormConfig)
}
