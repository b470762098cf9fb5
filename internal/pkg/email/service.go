// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/bayt-organic/storefront/internal/config"
	"github.com/sirupsen/logrus"
)

const orderConfirmationTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.SiteName}}</title></head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f6f3ec;">
  <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
    <h1 style="color: #3d5a2a;">{{.SiteName}}</h1>
    <p>Hello {{.UserName}},</p>
    <p>Thank you for your order <strong>{{.OrderNumber}}</strong> placed on {{.OrderDate}}.</p>
    <table style="width: 100%; border-collapse: collapse;">
      {{range .Items}}<tr><td>{{.Name}} &times; {{.Quantity}}</td><td style="text-align: right;">{{.Total}}</td></tr>
      {{end}}<tr><td>Subtotal</td><td style="text-align: right;">{{.Subtotal}}</td></tr>
      <tr><td>Shipping</td><td style="text-align: right;">{{.ShippingCost}}</td></tr>
      <tr><td>Discount</td><td style="text-align: right;">-{{.DiscountAmount}}</td></tr>
      <tr><td><strong>Total</strong></td><td style="text-align: right;"><strong>{{.OrderTotal}}</strong></td></tr>
    </table>
    <p>Payment: {{.PaymentMethod}}</p>
    <p>Shipping to:<br>{{.ShippingAddress.RecipientName}}<br>{{.ShippingAddress.Street}}<br>{{.ShippingAddress.City}}, {{.ShippingAddress.State}} {{.ShippingAddress.PostalCode}}<br>{{.ShippingAddress.Country}}</p>
    <p><a href="{{.OrderURL}}">View your order</a></p>
    <hr>
    <p style="font-size: 12px; color: #666;">&copy; {{.Year}} {{.SiteName}}. All rights reserved.</p>
  </div>
</body>
</html>`

// EmailService handles all email operations
type EmailService struct {
	config    config.EmailConfig
	templates map[string]*template.Template
	client    *http.Client
	endpoints map[string]string
	log       logrus.FieldLogger
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config, log logrus.FieldLogger) *EmailService {
	return &EmailService{
		config: cfg.External.Email,
		templates: map[string]*template.Template{
			string(EmailTypeOrderConfirmation): template.Must(template.New("order_confirmation").Parse(orderConfirmationTemplate)),
		},
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		endpoints: map[string]string{
			"resend":   "https://api.resend.com/emails",
			"sendgrid": "https://api.sendgrid.com/v3/mail/send",
		},
		log: log,
	}
}

// SendEmail sends an email using the configured provider
func (s *EmailService) SendEmail(ctx context.Context, email *Email) error {
	switch s.config.Provider {
	case "smtp":
		return s.sendSMTPEmail(ctx, email)
	case "resend":
		return s.sendResendEmail(ctx, email)
	case "sendgrid":
		return s.sendSendGridEmail(ctx, email)
	default:
		return fmt.Errorf("unsupported email provider: %s", s.config.Provider)
	}
}

// SendOrderConfirmationEmail sends order confirmation email
func (s *EmailService) SendOrderConfirmationEmail(ctx context.Context, data OrderConfirmationData) error {
	data.EmailTemplateData = GetBaseTemplateData(
		s.config.FromName,
		s.config.BaseURL,
		data.UserName,
		data.UserEmail,
	)
	if data.OrderURL == "" {
		data.OrderURL = fmt.Sprintf("%s/orders/%s", s.config.BaseURL, data.OrderNumber)
	}

	htmlContent, err := s.renderTemplate(string(EmailTypeOrderConfirmation), data)
	if err != nil {
		return fmt.Errorf("failed to render order confirmation template: %w", err)
	}

	email := &Email{
		To:          []string{data.UserEmail},
		Subject:     fmt.Sprintf("Order Confirmation - %s", data.OrderNumber),
		HTMLContent: htmlContent,
		Type:        EmailTypeOrderConfirmation,
	}

	if err := s.SendEmail(ctx, email); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"order_number": data.OrderNumber,
		"provider":     s.config.Provider,
	}).Info("order confirmation email sent")
	return nil
}

// renderTemplate renders an email template with data
func (s *EmailService) renderTemplate(templateName string, data interface{}) (string, error) {
	tmpl, exists := s.templates[templateName]
	if !exists {
		return "", fmt.Errorf("template %s not found", templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	return buf.String(), nil
}

func (s *EmailService) fromAddress() string {
	if s.config.FromName != "" {
		return fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	}
	return s.config.FromEmail
}
