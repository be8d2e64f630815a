package service

import (
	"errors"
	"fmt"

	orderModel "github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/order/model"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/pkg/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// ErrNotConfigured is returned when no SendGrid key is present.
var ErrNotConfigured = errors.New("sendgrid is not configured")

type MailerService interface {
	// Send delivers one email. Used directly by the campaign dispatcher.
	Send(toEmail, toName, subject, htmlBody string) error

	// SendOrderConfirmation emails the shopper after a payment is confirmed.
	SendOrderConfirmation(order *orderModel.Order) error
}

type sendgridMailer struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	storeName string
}

func NewSendGridMailer(cfg config.SendGridConfig, app config.AppConfig) (MailerService, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	return &sendgridMailer{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		storeName: app.StoreName,
	}, nil
}

func (m *sendgridMailer) Send(toEmail, toName, subject, htmlBody string) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	resp, err := m.client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func (m *sendgridMailer) SendOrderConfirmation(order *orderModel.Order) error {
	items, err := order.ParseItems()
	if err != nil {
		return fmt.Errorf("parse order items: %w", err)
	}

	rows := ""
	for _, item := range items {
		rows += fmt.Sprintf("<tr><td>%s</td><td>%d</td><td>R$ %.2f</td></tr>",
			item.Name, item.Quantity, item.UnitPrice*float64(item.Quantity))
	}

	html := fmt.Sprintf(`
		<h2>Pedido confirmado!</h2>
		<p>Olá %s, recebemos o pagamento do seu pedido <strong>%s</strong>.</p>
		<table border="0" cellpadding="4">
			<tr><th>Produto</th><th>Qtd</th><th>Valor</th></tr>
			%s
		</table>
		<p><strong>Total: R$ %.2f</strong></p>
		<p>%s</p>`,
		order.CustomerName, order.ID, rows, order.Total, m.storeName)

	subject := fmt.Sprintf("%s - Pedido %s confirmado", m.storeName, order.ID)
	return m.Send(order.CustomerEmail, order.CustomerName, subject, html)
}
