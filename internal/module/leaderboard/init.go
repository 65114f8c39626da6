package leaderboard

import (
	"time"

	"fest-judging-system/config"
	"fest-judging-system/internal/global/database"
	"fest-judging-system/internal/global/logger"
	"fest-judging-system/internal/global/redis"
)

var log = logger.New("Leaderboard")

var aggregator *Aggregator

type ModuleLeaderboard struct{}

func (m *ModuleLeaderboard) GetName() string {
	return "Leaderboard"
}

// Init 依赖 database 与 redis 先初始化
func (m *ModuleLeaderboard) Init() {
	cfg := config.Get().Leaderboard
	aggregator = NewAggregator(
		database.DB,
		NewRedisCache(redis.Client),
		time.Duration(cfg.CacheTTLSeconds)*time.Second,
		cfg.ResultsLimit,
	)
}

// Default 供其他模块在数据变更后清缓存，模块未初始化时为 nil
func Default() *Aggregator {
	return aggregator
}

// Use 替换模块使用的 Aggregator，测试用
func Use(a *Aggregator) {
	aggregator = a
}
