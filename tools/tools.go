package tools

import (
	"golang.org/x/crypto/bcrypt"
)

func PanicOnErr(err error) {
	if err != nil {
		panic(err)
	}
}

// PasswordHash 使用 bcrypt 加密密码（评委 PIN 也走这里）
func PasswordHash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func PasswordCompare(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
