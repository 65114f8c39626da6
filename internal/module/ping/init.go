package ping

import "fest-judging-system/internal/global/logger"

var log = logger.New("Ping")

type ModulePing struct{}

func (p *ModulePing) GetName() string {
	return "Ping"
}

func (p *ModulePing) Init() {}
