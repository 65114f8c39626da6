package judge

import "fest-judging-system/internal/global/logger"

var log = logger.New("Judge")

type ModuleJudge struct{}

func (m *ModuleJudge) GetName() string {
	return "Judge"
}

func (m *ModuleJudge) Init() {}
