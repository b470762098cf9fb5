// internal/domain/order/hooks.go
package order

import (
	"context"
	"time"

	"github.com/bayt-organic/storefront/internal/infrastructure/cache"
	"github.com/bayt-organic/storefront/internal/pkg/email"
)

// PostCommitHook is a best-effort side effect of a placed order.
// Errors and panics are logged by the service and never reach the customer.
type PostCommitHook struct {
	Name string
	Run  func(ctx context.Context, o *Order) error
}

// ConfirmationSender delivers order confirmation emails
type ConfirmationSender interface {
	SendOrderConfirmationEmail(ctx context.Context, data email.OrderConfirmationData) error
}

// EventPublisher publishes JSON events keyed for partitioning
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// RevalidateListings drops cached product and order listings so stock and the
// admin order list reflect the new order
func RevalidateListings(listingCache ListingCache) PostCommitHook {
	return PostCommitHook{
		Name: "revalidate_listings",
		Run: func(ctx context.Context, _ *Order) error {
			return listingCache.Revalidate(ctx, cache.TagProducts, cache.TagOrders)
		},
	}
}

// SendConfirmation emails the order summary. Orders without an email are skipped.
func SendConfirmation(sender ConfirmationSender) PostCommitHook {
	return PostCommitHook{
		Name: "confirmation_email",
		Run: func(ctx context.Context, o *Order) error {
			if o.Email == "" {
				return nil
			}
			return sender.SendOrderConfirmationEmail(ctx, confirmationData(o))
		},
	}
}

// PublishCreated emits an order.created event keyed by order number
func PublishCreated(publisher EventPublisher) PostCommitHook {
	return PostCommitHook{
		Name: "order_created_event",
		Run: func(ctx context.Context, o *Order) error {
			return publisher.PublishJSON(ctx, o.OrderNumber, newCreatedEvent(o))
		},
	}
}

func confirmationData(o *Order) email.OrderConfirmationData {
	data := email.OrderConfirmationData{
		OrderNumber:    o.OrderNumber,
		OrderDate:      o.CreatedAt.Format("January 2, 2006"),
		Subtotal:       o.Subtotal.StringFixed(2),
		ShippingCost:   o.ShippingCost.StringFixed(2),
		DiscountAmount: o.DiscountAmount.StringFixed(2),
		OrderTotal:     o.Total.StringFixed(2),
		PaymentMethod:  o.PaymentMethod,
	}
	data.UserEmail = o.Email

	for _, item := range o.Items {
		data.Items = append(data.Items, email.OrderItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.UnitPrice.StringFixed(2),
			Total:    item.LineTotal().StringFixed(2),
		})
	}

	if a := o.ShippingAddress; a != nil {
		data.UserName = a.RecipientName
		data.ShippingAddress = email.Address{
			RecipientName: a.RecipientName,
			Street:        a.Street,
			City:          a.City,
			State:         a.State,
			PostalCode:    a.PostalCode,
			Country:       a.Country,
			Phone:         a.Phone,
		}
	}
	return data
}

// CreatedEvent is the payload published when an order is placed
type CreatedEvent struct {
	Type          string             `json:"type"`
	OrderID       string             `json:"order_id"`
	OrderNumber   string             `json:"order_number"`
	UserID        *string            `json:"user_id,omitempty"`
	Status        Status             `json:"status"`
	PaymentStatus PaymentStatus      `json:"payment_status"`
	PaymentMethod string             `json:"payment_method"`
	Total         string             `json:"total"`
	Items         []CreatedEventItem `json:"items"`
	CreatedAt     time.Time          `json:"created_at"`
}

// CreatedEventItem is one committed line of a placed order
type CreatedEventItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

func newCreatedEvent(o *Order) CreatedEvent {
	event := CreatedEvent{
		Type:          "order.created",
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		UserID:        o.UserID,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		PaymentMethod: o.PaymentMethod,
		Total:         o.Total.StringFixed(2),
		Items:         make([]CreatedEventItem, 0, len(o.Items)),
		CreatedAt:     o.CreatedAt,
	}
	for _, item := range o.Items {
		event.Items = append(event.Items, CreatedEventItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
		})
	}
	return event
}
