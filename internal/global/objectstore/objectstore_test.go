package objectstore

import (
	"regexp"
	"testing"

	appconfig "fest-judging-system/config"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	key := Key("/fest/", "students", "Aditya Rao", ".PNG")
	assert.Regexp(t, regexp.MustCompile(`^fest/students/aditya-rao-[0-9a-f-]{36}\.png$`), key)

	// 名字转不出 slug 时只用 uuid
	key = Key("", "students", "!!!", ".jpg")
	assert.Regexp(t, regexp.MustCompile(`^students/[0-9a-f-]{36}\.jpg$`), key)
}

func TestPublicURL(t *testing.T) {
	s := &Store{cfg: appconfig.S3{Endpoint: "https://s3.test/", Bucket: "fest", UsePathStyle: true}}
	assert.Equal(t, "https://s3.test/fest/students/a.png", s.PublicURL("students/a.png"))

	s.cfg.BaseURL = "https://cdn.test"
	s.cfg.UsePathStyle = false
	assert.Equal(t, "https://cdn.test/students/a.png", s.PublicURL("students/a.png"))
}
