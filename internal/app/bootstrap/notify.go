package bootstrap

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/wolfman30/practice-voice-ai/internal/config"
	"github.com/wolfman30/practice-voice-ai/internal/notify"
	"github.com/wolfman30/practice-voice-ai/pkg/logging"
)

// BuildEmailSender selects the staff email transport by provider. "auto"
// prefers SendGrid when a key is configured; everything else falls back to
// the logging stub so notification paths stay exercisable in development.
func BuildEmailSender(cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) notify.EmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg == nil {
		return notify.NewStubEmailSender(logger)
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.EmailProvider))
	switch provider {
	case "ses":
		sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.NotifyFromEmail,
			FromName:  cfg.NotifyFromName,
		}, logger)
		if sender != nil {
			logger.Info("staff email via SES", "from", cfg.NotifyFromEmail)
			return sender
		}
	case "sendgrid", "auto", "":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.NotifyFromEmail,
			FromName:  cfg.NotifyFromName,
		}, logger)
		if sender != nil {
			logger.Info("staff email via SendGrid", "from", cfg.NotifyFromEmail)
			return sender
		}
		if provider == "sendgrid" {
			logger.Warn("sendgrid selected but SENDGRID_API_KEY empty, using stub")
		}
	case "none", "stub":
	default:
		logger.Warn("unknown email provider, using stub", "provider", provider)
	}
	return notify.NewStubEmailSender(logger)
}

// BuildNotifier wires the staff notification service.
func BuildNotifier(cfg *appconfig.Config, sender notify.EmailSender, logger *logging.Logger) *notify.Service {
	notifyCfg := notify.Config{}
	if cfg != nil {
		notifyCfg.Enabled = cfg.NotifyEnabled
		notifyCfg.Recipients = cfg.NotifyRecipients
	}
	return notify.NewService(sender, notifyCfg, logger)
}
