package school

import (
	"fest-judging-system/internal/global/logger"
	"fest-judging-system/internal/global/objectstore"
)

var log = logger.New("School")

// uploader 学生照片上传目标，测试中替换
var uploader objectstore.Uploader

type ModuleSchool struct{}

func (m *ModuleSchool) GetName() string {
	return "School"
}

func (m *ModuleSchool) Init() {
	uploader = objectstore.Default
}
