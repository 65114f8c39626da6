package redis

import (
	"context"
	"time"

	"fest-judging-system/config"
	"fest-judging-system/internal/global/sentry/tracing"
	"fest-judging-system/tools"

	goredis "github.com/redis/go-redis/v9"
)

var Client *goredis.Client

func Init() {
	c := config.Get().Redis
	Client = goredis.NewClient(&goredis.Options{
		Addr:     c.Host + ":" + c.Port,
		Password: c.Password,
		DB:       c.DB,
	})
	if tracing.IsEnabled() {
		Client.AddHook(tracing.NewRedisSentryHook())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tools.PanicOnErr(Client.Ping(ctx).Err())
}
