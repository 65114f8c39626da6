package event

import "fest-judging-system/internal/global/logger"

var log = logger.New("Event")

type ModuleEvent struct{}

func (m *ModuleEvent) GetName() string {
	return "Event"
}

func (m *ModuleEvent) Init() {}
