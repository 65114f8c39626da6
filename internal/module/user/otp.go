package user

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"fest-judging-system/internal/global/mailer"
	"fest-judging-system/internal/global/response"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
)

const (
	otpTTL         = 5 * time.Minute
	otpCooldown    = time.Minute
	otpMaxAttempts = 5
)

func otpKey(email string) string { return "otp:code:" + email }
func cooldownKey(email string) string { return "otp:cooldown:" + email }
func attemptsKey(email string) string { return "otp:attempts:" + email }

type otpSendReq struct {
	Email string `json:"email" binding:"required,email"`
}

// SendOTP 给已注册邮箱发送 6 位验证码，一分钟内不能重复发送
func SendOTP(c *gin.Context) {
	var req otpSendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	email := strings.ToLower(req.Email)
	if _, err := findByEmail(email); err != nil {
		// 不暴露邮箱是否存在
		if errors.Is(err, response.ErrInvalidPassword) {
			response.Success(c)
			return
		}
		response.Fail(c, err)
		return
	}

	ctx := c.Request.Context()
	ok, err := rdb.SetNX(ctx, cooldownKey(email), 1, otpCooldown).Result()
	if err != nil {
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}
	if !ok {
		response.Fail(c, response.ErrInvalidRequest.WithTips("验证码发送过于频繁，请稍后再试"))
		return
	}

	code, err := generateCode()
	if err != nil {
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}
	pipe := rdb.TxPipeline()
	pipe.Set(ctx, otpKey(email), code, otpTTL)
	pipe.Del(ctx, attemptsKey(email))
	if _, err := pipe.Exec(ctx); err != nil {
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}

	content := mailer.OTPContent(code, int(otpTTL/time.Minute))
	if err := sender.Send(ctx, email, "Fest login code", content); err != nil {
		log.Error("发送验证码邮件失败", "error", err, "email", email)
		rdb.Del(ctx, otpKey(email), cooldownKey(email))
		response.Fail(c, response.ErrUpstream.WithOrigin(err))
		return
	}
	log.Info("验证码已发送", "email", email)
	response.Success(c)
}

type otpVerifyReq struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

// VerifyOTP 校验验证码并签发令牌，验证码只能使用一次
func VerifyOTP(c *gin.Context) {
	var req otpVerifyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	email := strings.ToLower(req.Email)
	ctx := c.Request.Context()

	stored, err := rdb.Get(ctx, otpKey(email)).Result()
	if errors.Is(err, goredis.Nil) {
		response.Fail(c, response.ErrInvalidPassword.WithTips("验证码已过期"))
		return
	}
	if err != nil {
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}

	if stored != req.Code {
		attempts, err := rdb.Incr(ctx, attemptsKey(email)).Result()
		if err != nil {
			response.Fail(c, response.ErrServerInternal.WithOrigin(err))
			return
		}
		rdb.Expire(ctx, attemptsKey(email), otpTTL)
		if attempts >= otpMaxAttempts {
			rdb.Del(ctx, otpKey(email))
			log.Warn("验证码错误次数过多", "email", email)
		}
		response.Fail(c, response.ErrInvalidPassword.WithTips("验证码错误"))
		return
	}
	rdb.Del(ctx, otpKey(email), attemptsKey(email))

	user, err := findByEmail(email)
	if err != nil {
		response.Fail(c, err)
		return
	}
	log.Info("验证码登录成功", "user_id", user.ID)
	response.Success(c, loginResult(user))
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
