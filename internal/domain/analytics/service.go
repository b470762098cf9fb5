// internal/domain/analytics/service.go
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/bayt-organic/storefront/internal/domain/order"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service builds admin reports over orders and stock
type Service struct {
	db *gorm.DB
}

// NewService creates a new analytics service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ReconciliationReport lists the states an admin has to fix by hand: order
// headers left without items, orders holding fewer lines than were submitted
// and products sold below zero stock. Order counts and revenue cover orders
// with at least one item.
type ReconciliationReport struct {
	Since             time.Time      `json:"since"`
	OrdersByStatus    []StatusData   `json:"orders_by_status"`
	OrphanedOrders    []OrderSummary `json:"orphaned_orders"`
	PartialOrders     []PartialOrder `json:"partial_orders"`
	OversoldProducts  []StockData    `json:"oversold_products"`
	UnpaidCODRevenue  string         `json:"unpaid_cod_revenue"`
	TotalOrders       int64          `json:"total_orders"`
	TotalRevenue      string         `json:"total_revenue"`
	AverageOrderValue string         `json:"average_order_value"`
}

// StatusData is the order count and value for one status
type StatusData struct {
	Status string          `json:"status"`
	Count  int64           `json:"count"`
	Value  decimal.Decimal `json:"value"`
}

// OrderSummary identifies an order needing attention
type OrderSummary struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"order_number"`
	Email       string          `json:"email"`
	Total       decimal.Decimal `json:"total"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PartialOrder is an order that kept only some of its submitted lines
type PartialOrder struct {
	OrderSummary
	RequestedItems int `json:"requested_items"`
	AttachedItems  int `json:"attached_items"`
}

// StockData is a product whose stock went negative
type StockData struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Stock       int    `json:"stock"`
}

// GetReconciliationReport reports on orders placed within the last days
func (s *Service) GetReconciliationReport(ctx context.Context, days int) (*ReconciliationReport, error) {
	if days < 1 || days > 365 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	db := s.db.WithContext(ctx)

	report := &ReconciliationReport{
		Since:            since,
		OrdersByStatus:   []StatusData{},
		OrphanedOrders:   []OrderSummary{},
		PartialOrders:    []PartialOrder{},
		OversoldProducts: []StockData{},
	}

	err := db.Raw(`SELECT status, COUNT(*) AS count, COALESCE(SUM(total), 0) AS value
		FROM orders o
		WHERE o.created_at >= ?
		AND EXISTS (SELECT 1 FROM order_items i WHERE i.order_id = o.id)
		GROUP BY status ORDER BY status`, since).
		Scan(&report.OrdersByStatus).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}

	err = db.Raw(`SELECT o.id, o.order_number, o.email, o.total, o.created_at
		FROM orders o
		WHERE o.created_at >= ?
		AND NOT EXISTS (SELECT 1 FROM order_items i WHERE i.order_id = o.id)
		ORDER BY o.created_at DESC`, since).
		Scan(&report.OrphanedOrders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find orphaned orders: %w", err)
	}

	err = db.Raw(`SELECT o.id, o.order_number, o.email, o.total, o.created_at,
		o.requested_items, COUNT(i.id) AS attached_items
		FROM orders o
		JOIN order_items i ON i.order_id = o.id
		WHERE o.created_at >= ?
		GROUP BY o.id
		HAVING COUNT(i.id) < o.requested_items
		ORDER BY o.created_at DESC`, since).
		Scan(&report.PartialOrders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find partial orders: %w", err)
	}

	err = db.Raw(`SELECT id AS product_id, name AS product_name, stock
		FROM products WHERE stock < 0 ORDER BY stock`).
		Scan(&report.OversoldProducts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find oversold products: %w", err)
	}

	var unpaid struct{ Total decimal.Decimal }
	err = db.Raw(`SELECT COALESCE(SUM(total), 0) AS total FROM orders o
		WHERE o.created_at >= ? AND o.payment_method = 'cod' AND o.payment_status = 'PENDING' AND o.status <> 'CANCELLED'
		AND EXISTS (SELECT 1 FROM order_items i WHERE i.order_id = o.id)`, since).
		Scan(&unpaid).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum unpaid orders: %w", err)
	}
	report.UnpaidCODRevenue = unpaid.Total.StringFixed(2)

	revenue := decimal.Zero
	var counted int64
	for _, st := range report.OrdersByStatus {
		report.TotalOrders += st.Count
		if st.Status == string(order.StatusCancelled) {
			continue
		}
		revenue = revenue.Add(st.Value)
		counted += st.Count
	}
	report.TotalRevenue = revenue.StringFixed(2)

	report.AverageOrderValue = decimal.Zero.StringFixed(2)
	if counted > 0 {
		report.AverageOrderValue = revenue.Div(decimal.NewFromInt(counted)).StringFixed(2)
	}

	return report, nil
}
