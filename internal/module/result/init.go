package result

import "fest-judging-system/internal/global/logger"

var log = logger.New("Result")

type ModuleResult struct{}

func (m *ModuleResult) GetName() string {
	return "Result"
}

func (m *ModuleResult) Init() {}
