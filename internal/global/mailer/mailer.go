// Package mailer 调用事务邮件服务的 HTTP 接口发送 OTP
package mailer

import (
	"context"
	"fmt"

	"fest-judging-system/config"
	"fest-judging-system/internal/global/httpclient"

	"github.com/go-resty/resty/v2"
)

// Sender 邮件发送方，测试中可替换
type Sender interface {
	Send(ctx context.Context, to, subject, content string) error
}

type Mailer struct {
	client *resty.Client
	cfg    config.Mail
}

var Default Sender

func Init() {
	Default = New(httpclient.Client, config.Get().Mail)
}

func New(client *resty.Client, cfg config.Mail) *Mailer {
	return &Mailer{client: client, cfg: cfg}
}

type sendReq struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

func (m *Mailer) Send(ctx context.Context, to, subject, content string) error {
	resp, err := m.client.R().
		SetContext(ctx).
		SetAuthToken(m.cfg.APIKey).
		SetBody(sendReq{From: m.cfg.From, To: to, Subject: subject, HTML: content}).
		Post(m.cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("邮件服务返回 %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// OTPContent 验证码邮件正文
func OTPContent(code string, minutes int) string {
	return fmt.Sprintf("<p>Your login code is <b>%s</b>. It expires in %d minutes.</p>", code, minutes)
}
