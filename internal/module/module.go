package module

import (
	"fest-judging-system/internal/module/event"
	"fest-judging-system/internal/module/judge"
	"fest-judging-system/internal/module/judgment"
	"fest-judging-system/internal/module/leaderboard"
	"fest-judging-system/internal/module/ping"
	"fest-judging-system/internal/module/registration"
	"fest-judging-system/internal/module/result"
	"fest-judging-system/internal/module/school"
	"fest-judging-system/internal/module/user"

	"github.com/gin-gonic/gin"
)

type Module interface {
	GetName() string
	Init()
	InitRouter(r *gin.RouterGroup)
}

var Modules []Module

func registerModule(m []Module) {
	Modules = append(Modules, m...)
}

func init() {
	// Register your module here
	registerModule([]Module{
		&ping.ModulePing{},
		&user.ModuleUser{},
		&school.ModuleSchool{},
		&event.ModuleEvent{},
		&judge.ModuleJudge{},
		&judgment.ModuleJudgment{},
		&registration.ModuleRegistration{},
		&leaderboard.ModuleLeaderboard{},
		&result.ModuleResult{},
	})
}
