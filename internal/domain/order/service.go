// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bayt-organic/storefront/internal/domain/checkout"
	"github.com/bayt-organic/storefront/internal/domain/product"
	"github.com/bayt-organic/storefront/internal/domain/user"
	"github.com/bayt-organic/storefront/internal/infrastructure/cache"
	"github.com/bayt-organic/storefront/internal/pkg/entityid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrNoValidItems   = errors.New("NO_VALID_ITEMS")
	ErrAllItemsFailed = errors.New("no order items could be created")
	ErrTotalMismatch  = errors.New("total does not equal subtotal - discount + shipping")
	ErrInvalidStatus  = errors.New("invalid status")
)

// defaultHookTimeout bounds each post-commit hook so a slow side effect cannot
// hold the customer's response
const defaultHookTimeout = 5 * time.Second

// AddressResolver returns the shipping address for a checkout
type AddressResolver interface {
	Resolve(ctx context.Context, input user.ResolveInput) (*user.Address, error)
}

// ProductLookup finds catalogue products
type ProductLookup interface {
	GetByID(ctx context.Context, id string) (*product.Product, error)
}

// StockLedger decrements product stock for a sale
type StockLedger interface {
	Decrement(ctx context.Context, productID string, qty int, orderID string) error
}

// CartClearer empties a user's persisted cart
type CartClearer interface {
	ClearUserCart(ctx context.Context, userID string) error
}

// UserLookup finds account holders
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// ListingCache stores rendered order listings
type ListingCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, tag, key string, value any) error
	Revalidate(ctx context.Context, tags ...string) error
}

// Service handles order business logic
type Service struct {
	repo        Repository
	addresses   AddressResolver
	products    ProductLookup
	stock       StockLedger
	carts       CartClearer
	users       UserLookup
	cache       ListingCache
	hooks       []PostCommitHook
	hookTimeout time.Duration
	log         logrus.FieldLogger
	now         func() time.Time
}

// NewService creates a new order service
func NewService(
	repo Repository,
	addresses AddressResolver,
	products ProductLookup,
	stock StockLedger,
	carts CartClearer,
	users UserLookup,
	listingCache ListingCache,
	log logrus.FieldLogger,
) *Service {
	return &Service{
		repo:        repo,
		addresses:   addresses,
		products:    products,
		stock:       stock,
		carts:       carts,
		users:       users,
		cache:       listingCache,
		hookTimeout: defaultHookTimeout,
		log:         log,
		now:         time.Now,
	}
}

// Use registers hooks that run after an order is placed, in registration order
func (s *Service) Use(hooks ...PostCommitHook) {
	s.hooks = append(s.hooks, hooks...)
}

// ItemInput is one cart line submitted at checkout
type ItemInput struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// CreateOrderRequest represents order creation data.
// Amounts are those shown to the customer on the checkout summary.
type CreateOrderRequest struct {
	Items           []ItemInput        `json:"items"`
	SavedAddressID  string             `json:"saved_address_id,omitempty"`
	ShippingAddress user.AddressFields `json:"shipping_address"`
	Email           string             `json:"email,omitempty"`
	PaymentMethod   string             `json:"payment_method"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	ShippingCost    decimal.Decimal    `json:"shipping_cost"`
	DiscountAmount  decimal.Decimal    `json:"discount_amount"`
	Total           decimal.Decimal    `json:"total"`
	CouponCode      string             `json:"coupon_code,omitempty"`
	Notes           string             `json:"notes,omitempty"`
}

// OrderListRequest represents order list query parameters
type OrderListRequest struct {
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=20"`
	Status Status `form:"status"`
}

// OrderResponse represents orders with pagination
type OrderResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

type itemFailure struct {
	item   ItemInput
	reason error
}

type itemCommit struct {
	committed []OrderItem
	failed    []itemFailure
}

// CreateOrder places an order.
//
// Nothing is written until the items pass validation and the shipping address
// resolves. Once the header row exists the order is never rolled back: items
// that cannot be attached are logged and skipped, and only an order left with
// no items at all is reported as a failure. Cart clearing and post-commit
// hooks never change the outcome.
func (s *Service) CreateOrder(ctx context.Context, userID string, req *CreateOrderRequest) (*Order, error) {
	orderNumber := NewOrderNumber(s.now())
	log := s.log.WithField("order_number", orderNumber)

	if !req.Total.Equal(req.Subtotal.Sub(req.DiscountAmount).Add(req.ShippingCost)) {
		return nil, ErrTotalMismatch
	}

	if !entityid.IsValid(userID) {
		userID = ""
	}

	items := s.filterItems(log, req.Items)
	if len(items) == 0 {
		return nil, ErrNoValidItems
	}

	address, err := s.addresses.Resolve(ctx, user.ResolveInput{
		UserID:         userID,
		SavedAddressID: req.SavedAddressID,
		Fields:         req.ShippingAddress,
	})
	if err != nil {
		return nil, err
	}

	method := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if method == "" {
		method = checkout.PaymentMethodCOD
	}

	order := &Order{
		ID:                entityid.New(),
		OrderNumber:       orderNumber,
		Email:             s.recipientEmail(ctx, log, userID, req.Email),
		ShippingAddressID: address.ID,
		Status:            StatusPending,
		PaymentStatus:     PaymentStatusFor(method),
		PaymentMethod:     method,
		RequestedItems:    len(items),
		Subtotal:          req.Subtotal,
		ShippingCost:      req.ShippingCost,
		DiscountAmount:    req.DiscountAmount,
		Total:             req.Total,
		CouponCode:        strings.ToUpper(strings.TrimSpace(req.CouponCode)),
		Notes:             strings.TrimSpace(req.Notes),
	}
	if userID != "" {
		order.UserID = &userID
	}

	if err := s.repo.CreateHeader(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	result := s.commitItems(ctx, log, order.ID, items)
	if len(result.committed) == 0 {
		// The header row is left in place for an admin to reconcile.
		log.WithFields(logrus.Fields{
			"order_id":  order.ID,
			"attempted": len(items),
		}).Error("order header created but no items could be attached")
		return nil, fmt.Errorf("%w: %v", ErrAllItemsFailed, result.failed[0].reason)
	}
	if len(result.failed) > 0 {
		log.WithFields(logrus.Fields{
			"order_id":  order.ID,
			"committed": len(result.committed),
			"failed":    len(result.failed),
		}).Warn("order placed with missing items")
	}

	if userID != "" {
		if err := s.carts.ClearUserCart(ctx, userID); err != nil {
			log.WithError(err).Warn("failed to clear cart after order creation")
		}
	}

	complete, err := s.repo.GetByID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load placed order: %w", err)
	}

	s.runHooks(ctx, log, complete)

	log.WithFields(logrus.Fields{
		"order_id": complete.ID,
		"items":    len(complete.Items),
		"total":    complete.Total.StringFixed(2),
	}).Info("order placed")
	return complete, nil
}

// filterItems drops lines whose product id is malformed or whose quantity is below one
func (s *Service) filterItems(log logrus.FieldLogger, items []ItemInput) []ItemInput {
	valid := make([]ItemInput, 0, len(items))
	for _, item := range items {
		if !entityid.IsValid(item.ProductID) || item.Quantity < 1 {
			log.WithFields(logrus.Fields{
				"product_id": item.ProductID,
				"quantity":   item.Quantity,
			}).Warn("dropping invalid cart line")
			continue
		}
		valid = append(valid, item)
	}
	return valid
}

// commitItems attaches each item independently. A failed item never stops the loop.
func (s *Service) commitItems(ctx context.Context, log logrus.FieldLogger, orderID string, items []ItemInput) itemCommit {
	var result itemCommit

	for _, item := range items {
		itemLog := log.WithField("product_id", item.ProductID)

		p, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			itemLog.WithError(err).Warn("skipping order item: product lookup failed")
			result.failed = append(result.failed, itemFailure{item: item, reason: err})
			continue
		}

		unitPrice := item.UnitPrice
		if !unitPrice.IsPositive() {
			unitPrice = p.EffectivePrice()
		}

		orderItem := OrderItem{
			ID:        entityid.New(),
			OrderID:   orderID,
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: unitPrice,
			Quantity:  item.Quantity,
		}
		if err := s.repo.CreateItem(ctx, &orderItem); err != nil {
			itemLog.WithError(err).Warn("skipping order item: insert failed")
			result.failed = append(result.failed, itemFailure{item: item, reason: err})
			continue
		}
		result.committed = append(result.committed, orderItem)

		if err := s.stock.Decrement(ctx, p.ID, item.Quantity, orderID); err != nil {
			itemLog.WithError(err).Error("failed to decrement stock for order item")
		}
	}

	return result
}

// recipientEmail prefers the address typed at checkout, then the account email
func (s *Service) recipientEmail(ctx context.Context, log logrus.FieldLogger, userID, explicit string) string {
	if email := strings.TrimSpace(explicit); email != "" {
		return email
	}
	if userID == "" {
		return ""
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		log.WithError(err).Warn("failed to look up account email")
		return ""
	}
	return u.Email
}

func (s *Service) runHooks(ctx context.Context, log logrus.FieldLogger, o *Order) {
	for _, hook := range s.hooks {
		s.runHook(ctx, log.WithField("hook", hook.Name), hook, o)
	}
}

func (s *Service) runHook(ctx context.Context, log logrus.FieldLogger, hook PostCommitHook, o *Order) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("post-commit hook panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.hookTimeout)
	defer cancel()

	if err := hook.Run(ctx, o); err != nil {
		log.WithError(err).Warn("post-commit hook failed")
	}
}

// GetOrder retrieves a single order by ID
func (s *Service) GetOrder(ctx context.Context, id string) (*Order, error) {
	if !entityid.IsValid(id) {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// GetUserOrder retrieves an order only if it belongs to userID
func (s *Service) GetUserOrder(ctx context.Context, userID, id string) (*Order, error) {
	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID == nil || *o.UserID != userID {
		return nil, ErrNotFound
	}
	return o, nil
}

// GetOrderByNumber retrieves a single order by order number
func (s *Service) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, ErrNotFound
	}
	return s.repo.GetByNumber(ctx, orderNumber)
}

// GetUserOrders retrieves orders for a specific user
func (s *Service) GetUserOrders(ctx context.Context, userID string, page, limit int) (*OrderResponse, error) {
	if !entityid.IsValid(userID) {
		return nil, ErrNotFound
	}
	page, limit = normalisePage(page, limit)
	return s.list(ctx, ListFilter{UserID: userID, Page: page, Limit: limit})
}

// ListOrders retrieves orders for the back office, served from the listing cache when possible
func (s *Service) ListOrders(ctx context.Context, req *OrderListRequest) (*OrderResponse, error) {
	if req.Status != "" && !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	req.Page, req.Limit = normalisePage(req.Page, req.Limit)

	key := fmt.Sprintf("orders:page=%d:limit=%d:status=%s", req.Page, req.Limit, req.Status)

	var cached OrderResponse
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.WithError(err).Warn("order listing cache read failed")
	}
	if hit {
		return &cached, nil
	}

	resp, err := s.list(ctx, ListFilter{Status: req.Status, Page: req.Page, Limit: req.Limit})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cache.TagOrders, key, resp); err != nil {
		s.log.WithError(err).Warn("order listing cache write failed")
	}
	return resp, nil
}

func (s *Service) list(ctx context.Context, filter ListFilter) (*OrderResponse, error) {
	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &OrderResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       filter.Page,
			Limit:      filter.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    filter.Page < totalPages,
			HasPrev:    filter.Page > 1,
		},
	}, nil
}

// UpdateOrderStatus sets the order status. Any status may follow any other.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status Status, changedBy string) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return s.updateField(ctx, id, FieldStatus, string(status), changedBy)
}

// UpdatePaymentStatus sets the payment status independently of the order status
func (s *Service) UpdatePaymentStatus(ctx context.Context, id string, status PaymentStatus, changedBy string) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return s.updateField(ctx, id, FieldPaymentStatus, string(status), changedBy)
}

func (s *Service) updateField(ctx context.Context, id, field, value, changedBy string) error {
	if !entityid.IsValid(id) {
		return ErrNotFound
	}

	var by *string
	if entityid.IsValid(changedBy) {
		by = &changedBy
	}

	if err := s.repo.UpdateField(ctx, id, field, value, by); err != nil {
		return err
	}

	if err := s.cache.Revalidate(ctx, cache.TagOrders); err != nil {
		s.log.WithError(err).WithField("order_id", id).Warn("failed to revalidate order listings")
	}
	return nil
}

func normalisePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
