package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bayt-organic/storefront/internal/config"
	"github.com/bayt-organic/storefront/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(provider, endpoint string) *EmailService {
	cfg := &config.Config{External: config.ExternalConfig{Email: config.EmailConfig{
		Provider:  provider,
		APIKey:    "key-123",
		FromEmail: "orders@baytorganic.com",
		FromName:  "Bayt Organic",
		BaseURL:   "https://baytorganic.com",
	}}}
	s := NewEmailService(cfg, logger.Discard())
	s.endpoints[provider] = endpoint
	return s
}

func confirmation() OrderConfirmationData {
	return OrderConfirmationData{
		EmailTemplateData: EmailTemplateData{UserName: "Huda", UserEmail: "huda@example.com"},
		OrderNumber:       "BO-20260315-ABC123",
		Items:             []OrderItem{{Name: "Sidr honey", Quantity: 2, Price: "450.00", Total: "900.00"}},
		OrderTotal:        "1050.00",
	}
}

func TestSendOrderConfirmationViaResend(t *testing.T) {
	var got ResendEmailRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key-123", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := newTestService("resend", server.URL)
	require.NoError(t, svc.SendOrderConfirmationEmail(context.Background(), confirmation()))

	assert.Equal(t, []string{"huda@example.com"}, got.To)
	assert.Equal(t, "Order Confirmation - BO-20260315-ABC123", got.Subject)
	assert.Equal(t, "Bayt Organic <orders@baytorganic.com>", got.From)
	assert.Contains(t, got.HTML, "Sidr honey")
	assert.Contains(t, got.HTML, "1050.00")
	assert.Contains(t, got.HTML, "https://baytorganic.com/orders/BO-20260315-ABC123")
}

func TestSendGridNonAcceptedStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	svc := newTestService("sendgrid", server.URL)
	err := svc.SendOrderConfirmationEmail(context.Background(), confirmation())
	assert.ErrorContains(t, err, "status 401")
}

func TestUnsupportedProvider(t *testing.T) {
	svc := newTestService("pigeon", "")
	assert.Error(t, svc.SendEmail(context.Background(), &Email{To: []string{"a@example.com"}}))
}

func TestBuildMIMEMessage(t *testing.T) {
	msg := string(buildMIMEMessage("Shop <shop@example.com>", "help@example.com", &Email{
		To:          []string{"a@example.com", "b@example.com"},
		Subject:     "Hello",
		HTMLContent: "<p>hi</p>",
	}))

	assert.True(t, strings.HasPrefix(msg, "From: Shop <shop@example.com>\r\nTo: a@example.com, b@example.com\r\nReply-To: help@example.com\r\n"))
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\n<p>hi</p>"))
}
