package user

import (
	"fest-judging-system/internal/global/logger"
	"fest-judging-system/internal/global/mailer"
	"fest-judging-system/internal/global/redis"

	goredis "github.com/redis/go-redis/v9"
)

var log = logger.New("User")

var (
	rdb    goredis.UniversalClient
	sender mailer.Sender
)

type ModuleUser struct{}

func (u *ModuleUser) GetName() string {
	return "User"
}

func (u *ModuleUser) Init() {
	rdb = redis.Client
	sender = mailer.Default
}
