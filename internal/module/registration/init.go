package registration

import "fest-judging-system/internal/global/logger"

var log = logger.New("Registration")

type ModuleRegistration struct{}

func (m *ModuleRegistration) GetName() string {
	return "Registration"
}

func (m *ModuleRegistration) Init() {}
