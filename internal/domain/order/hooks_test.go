package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bayt-organic/storefront/internal/domain/user"
	"github.com/bayt-organic/storefront/internal/infrastructure/cache"
	"github.com/bayt-organic/storefront/internal/pkg/email"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []email.OrderConfirmationData
	err  error
}

func (s *recordingSender) SendOrderConfirmationEmail(_ context.Context, data email.OrderConfirmationData) error {
	s.sent = append(s.sent, data)
	return s.err
}

type recordingPublisher struct {
	keys   []string
	events []any
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, v any) error {
	p.keys = append(p.keys, key)
	p.events = append(p.events, v)
	return nil
}

func placedOrder() *Order {
	userID := accountID
	return &Order{
		ID:             "9a0b1c2d-3e4f-4a5b-8c6d-7e8f9a0b1c2d",
		OrderNumber:    "BO-20260314-092653-ABC123",
		UserID:         &userID,
		Email:          "layla@example.com",
		Status:         StatusPending,
		PaymentStatus:  PaymentStatusPending,
		PaymentMethod:  "cod",
		Subtotal:       decimal.NewFromInt(2500),
		ShippingCost:   decimal.Zero,
		DiscountAmount: decimal.NewFromInt(250),
		Total:          decimal.NewFromInt(2250),
		CreatedAt:      time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		ShippingAddress: &user.Address{
			RecipientName: "Layla Haddad", Street: "Rainbow St", City: "Amman", Country: "JO",
		},
		Items: []OrderItem{
			{ProductID: honeyID, Name: "Sidr Honey", UnitPrice: decimal.NewFromInt(900), Quantity: 2},
			{ProductID: datesID, Name: "Medjool Dates", UnitPrice: decimal.NewFromInt(700), Quantity: 1},
		},
	}
}

func TestSendConfirmation(t *testing.T) {
	sender := &recordingSender{}
	hook := SendConfirmation(sender)

	require.NoError(t, hook.Run(context.Background(), placedOrder()))
	require.Len(t, sender.sent, 1)

	data := sender.sent[0]
	assert.Equal(t, "layla@example.com", data.UserEmail)
	assert.Equal(t, "Layla Haddad", data.UserName)
	assert.Equal(t, "2250.00", data.OrderTotal)
	assert.Equal(t, "250.00", data.DiscountAmount)
	assert.Equal(t, "March 14, 2026", data.OrderDate)
	require.Len(t, data.Items, 2)
	assert.Equal(t, "1800.00", data.Items[0].Total)
	assert.Equal(t, "Amman", data.ShippingAddress.City)
}

func TestSendConfirmationSkipsOrdersWithoutEmail(t *testing.T) {
	sender := &recordingSender{}
	o := placedOrder()
	o.Email = ""

	require.NoError(t, SendConfirmation(sender).Run(context.Background(), o))
	assert.Empty(t, sender.sent)
}

func TestSendConfirmationReturnsSenderError(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp timeout")}

	err := SendConfirmation(sender).Run(context.Background(), placedOrder())
	assert.Error(t, err)
}

func TestPublishCreated(t *testing.T) {
	publisher := &recordingPublisher{}

	require.NoError(t, PublishCreated(publisher).Run(context.Background(), placedOrder()))

	require.Len(t, publisher.events, 1)
	assert.Equal(t, []string{"BO-20260314-092653-ABC123"}, publisher.keys)

	event, ok := publisher.events[0].(CreatedEvent)
	require.True(t, ok)
	assert.Equal(t, "order.created", event.Type)
	assert.Equal(t, "2250.00", event.Total)
	require.Len(t, event.Items, 2)
	assert.Equal(t, honeyID, event.Items[0].ProductID)
	assert.Equal(t, 2, event.Items[0].Quantity)
}

func TestRevalidateListings(t *testing.T) {
	c := newMemCache()

	require.NoError(t, RevalidateListings(c).Run(context.Background(), placedOrder()))
	assert.Equal(t, [][]string{{cache.TagProducts, cache.TagOrders}}, c.revalidated)
}
