package jwt

import (
	"time"

	"fest-judging-system/config"

	"github.com/golang-jwt/jwt"
)

// Payload 令牌携带的身份信息；评委令牌只有 JudgeID
type Payload struct {
	UserID    uint `json:"user_id,omitempty"`
	RoleID    int  `json:"role_id"`
	SchoolID  uint `json:"school_id,omitempty"`
	FacultyID uint `json:"faculty_id,omitempty"`
	JudgeID   uint `json:"judge_id,omitempty"`
}

type Claims struct {
	Payload
	jwt.StandardClaims
}

func CreateToken(payload Payload) string {
	cfg := config.Get().JWT
	now := time.Now()
	claims := Claims{
		Payload: payload,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(time.Duration(cfg.AccessExpire) * time.Second).Unix(),
			Issuer:    "fest-judging-system",
		},
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.AccessSecret))
	return token
}

func ParseToken(token string) (*Claims, bool) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(config.Get().JWT.AccessSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, false
	}
	return claims, true
}
