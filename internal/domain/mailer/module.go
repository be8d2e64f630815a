package mailer

import (
	"errors"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/mailer/handler"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/mailer/service"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/mailer/worker"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/config"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/middleware"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/registry"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/logger"
)

// MailerModule wires SendGrid campaigns. Skipped silently when no API key is
// configured; the payment module degrades the same way.
type MailerModule struct{}

func init() {
	registry.Register(&MailerModule{})
}

func (m *MailerModule) Name() string {
	return "mailer"
}

func (m *MailerModule) Priority() int {
	return 18
}

func (m *MailerModule) Init(ctx *registry.ModuleContext) error {
	svc, err := service.NewSendGridMailer(config.GlobalConfig.SendGrid, config.GlobalConfig.App)
	if err != nil {
		if errors.Is(err, service.ErrNotConfigured) {
			logger.Log.Warn("sendgrid not configured, campaign endpoints disabled")
			return nil
		}
		return err
	}

	dispatcher := worker.NewDispatcher(svc, 1000)
	dispatcher.Start()

	h := handler.NewCampaignHandler(dispatcher)

	admin := ctx.Router.Group("/admin/campaigns")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("/send", h.SendCampaign)
	}

	return nil
}
