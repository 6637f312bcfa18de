package service

import (
	"fmt"

	"drouple_backend/internal/config"
	"drouple_backend/pkg/logger"

	sendgrid "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

type NotificationService struct {
	Cfg *config.Config
}

func NewNotificationService(cfg *config.Config) *NotificationService {
	return &NotificationService{Cfg: cfg}
}

// SendAnnouncementBlast emails an announcement to every recipient. Failures
// are logged per address and do not stop the rest of the blast.
func (s *NotificationService) SendAnnouncementBlast(recipients []string, title, body string) {
	if !s.Cfg.Mail.Enabled || s.Cfg.Mail.SendgridKey == "" {
		logger.Log.Debug("mail disabled, skipping announcement blast",
			zap.String("title", title))
		return
	}

	client := sendgrid.NewSendClient(s.Cfg.Mail.SendgridKey)
	from := mail.NewEmail(s.Cfg.Mail.FromName, s.Cfg.Mail.FromEmail)
	html := announcementTemplate(title, body)

	sent := 0
	for _, addr := range recipients {
		to := mail.NewEmail("", addr)
		message := mail.NewSingleEmail(from, title, to, body, html)
		resp, err := client.Send(message)
		if err != nil {
			logger.Log.Error("announcement mail failed",
				zap.String("to", addr), zap.Error(err))
			continue
		}
		if resp.StatusCode >= 400 {
			logger.Log.Error("announcement mail rejected",
				zap.String("to", addr), zap.Int("status", resp.StatusCode))
			continue
		}
		sent++
	}

	logger.Log.Info("announcement blast finished",
		zap.String("title", title),
		zap.Int("recipients", len(recipients)),
		zap.Int("sent", sent))
}

func announcementTemplate(title, body string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1F2937; padding: 24px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 22px; }
			.content { padding: 32px 24px; color: #1F2937; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 16px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>%s</h1></div>
			<div class="content">%s</div>
			<div class="footer">You are receiving this because you are a member of this church on Drouple.</div>
		</div>
	</body>
	</html>`, title, body)
}
