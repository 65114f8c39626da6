package test

import (
	"testing"

	"fest-judging-system/config"
	"fest-judging-system/internal/global/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	c := config.Default()
	c.JWT.AccessSecret = "test-secret"
	config.Set(c)
}

// NewDB 每个测试一个独立的内存 SQLite，用生产模型列表建表
// 单连接：内存库每个连接各自独立，事务内查询必须使用 tx
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.Models...))
	database.DB = db
	return db
}

// NewRedis miniredis 上的真实 go-redis 客户端
func NewRedis(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}
