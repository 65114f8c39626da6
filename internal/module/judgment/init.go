package judgment

import "fest-judging-system/internal/global/logger"

var log = logger.New("Judgment")

type ModuleJudgment struct{}

func (m *ModuleJudgment) GetName() string {
	return "Judgment"
}

func (m *ModuleJudgment) Init() {}
