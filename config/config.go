package config

type Mode string

const (
	ModeDebug   Mode = "debug"
	ModeRelease Mode = "release"
)

type Config struct {
	Host        string      `envconfig:"HOST" mapstructure:"host"`
	Port        string      `envconfig:"PORT" mapstructure:"port"`
	Domain      string      `envconfig:"DOMAIN" mapstructure:"domain"`
	Prefix      string      `envconfig:"PREFIX" mapstructure:"prefix"`
	Mode        Mode        `envconfig:"MODE" mapstructure:"mode"`
	Mysql       Mysql       `envconfig:"MYSQL" mapstructure:"mysql"`
	Redis       Redis       `envconfig:"REDIS" mapstructure:"redis"`
	JWT         JWT         `envconfig:"JWT" mapstructure:"jwt"`
	Log         Log         `envconfig:"LOG" mapstructure:"log"`
	S3          S3          `envconfig:"S3" mapstructure:"s3"`
	Mail        Mail        `envconfig:"MAIL" mapstructure:"mail"`
	Sentry      Sentry      `envconfig:"SENTRY" mapstructure:"sentry"`
	OTel        OTel        `envconfig:"OTEL" mapstructure:"otel"`
	Leaderboard Leaderboard `envconfig:"LEADERBOARD" mapstructure:"leaderboard"`
}

type S3 struct {
	Endpoint        string `envconfig:"ENDPOINT" mapstructure:"endpoint"`
	BaseURL         string `envconfig:"BASE_URL" mapstructure:"base_url"`
	Bucket          string `envconfig:"BUCKET" mapstructure:"bucket"`
	Region          string `envconfig:"REGION" mapstructure:"region"`
	AccessKey       string `envconfig:"ACCESS_KEY" mapstructure:"access_key"`
	SecretAccessKey string `envconfig:"SECRET_KEY" mapstructure:"secret_key"`
	Prefix          string `envconfig:"PREFIX" mapstructure:"prefix"`
	UsePathStyle    bool   `envconfig:"PATH_STYLE" mapstructure:"path_style"`
}

type Mysql struct {
	Host     string `envconfig:"HOST" mapstructure:"host"`
	Port     string `envconfig:"PORT" mapstructure:"port"`
	Username string `envconfig:"USERNAME" mapstructure:"username"`
	Password string `envconfig:"PASSWORD" mapstructure:"password"`
	DBName   string `envconfig:"DB_NAME" mapstructure:"db_name"`
}

type Redis struct {
	Host     string `envconfig:"HOST" mapstructure:"host"`
	Port     string `envconfig:"PORT" mapstructure:"port"`
	Password string `envconfig:"PASSWORD" mapstructure:"password"`
	DB       int    `envconfig:"DB" mapstructure:"db"`
}

type JWT struct {
	AccessSecret string `envconfig:"ACCESS_SECRET" mapstructure:"access_secret"`
	AccessExpire int64  `envconfig:"ACCESS_EXPIRE" mapstructure:"access_expire"` // 秒
}

type Log struct {
	FilePath   string `envconfig:"FILE_PATH" mapstructure:"file_path"`     // 日志文件路径
	Level      string `envconfig:"LEVEL" mapstructure:"level"`             // 日志级别：debug, info, warn, error
	MaxSize    int    `envconfig:"MAX_SIZE" mapstructure:"max_size"`       // 日志文件最大大小（MB）
	MaxBackups int    `envconfig:"MAX_BACKUPS" mapstructure:"max_backups"` // 保留的旧日志文件数
	MaxAge     int    `envconfig:"MAX_AGE" mapstructure:"max_age"`         // 日志文件保留天数
	Compress   bool   `envconfig:"COMPRESS" mapstructure:"compress"`       // 是否压缩旧日志文件
}

// Mail 事务邮件服务（OTP 发送）
type Mail struct {
	Endpoint string `envconfig:"ENDPOINT" mapstructure:"endpoint"`
	APIKey   string `envconfig:"API_KEY" mapstructure:"api_key"`
	From     string `envconfig:"FROM" mapstructure:"from"`
}

type Sentry struct {
	Dsn         string        `envconfig:"DSN" mapstructure:"dsn"`
	Environment string        `envconfig:"ENVIRONMENT" mapstructure:"environment"`
	SampleRate  float64       `envconfig:"SAMPLE_RATE" mapstructure:"sample_rate"`
	Tracing     SentryTracing `envconfig:"TRACING" mapstructure:"tracing"`
}

type SentryTracing struct {
	DBSlowThresholdMs    int  `envconfig:"DB_SLOW_THRESHOLD_MS" mapstructure:"db_slow_threshold_ms"`
	RedisSlowThresholdMs int  `envconfig:"REDIS_SLOW_THRESHOLD_MS" mapstructure:"redis_slow_threshold_ms"`
	TraceHTTPCalls       bool `envconfig:"TRACE_HTTP_CALLS" mapstructure:"trace_http_calls"`
}

type OTel struct {
	Enable      bool   `envconfig:"ENABLE" mapstructure:"enable"`
	ServiceName string `envconfig:"SERVICE_NAME" mapstructure:"service_name"`
	AgentHost   string `envconfig:"AGENT_HOST" mapstructure:"agent_host"`
	AgentPort   string `envconfig:"AGENT_PORT" mapstructure:"agent_port"`
}

// Leaderboard 排行榜缓存与默认截断条数
type Leaderboard struct {
	CacheTTLSeconds int `envconfig:"CACHE_TTL_SECONDS" mapstructure:"cache_ttl_seconds"`
	ResultsLimit    int `envconfig:"RESULTS_LIMIT" mapstructure:"results_limit"`
}
