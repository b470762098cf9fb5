package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewService(db), mock
}

func TestReconciliationReport(t *testing.T) {
	svc, mock := newMockService(t)
	placed := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)SELECT status, COUNT\(\*\).*AND EXISTS \(SELECT 1 FROM order_items`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count", "value"}).
			AddRow("CANCELLED", 1, "500.00").
			AddRow("DELIVERED", 2, "3000.00").
			AddRow("PENDING", 1, "2250.00"))
	mock.ExpectQuery(`NOT EXISTS \(SELECT 1 FROM order_items`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_number", "email", "total", "created_at"}).
			AddRow("a1", "BO-20261017-090000-ABC123", "layla@example.com", "950.00", placed))
	mock.ExpectQuery(`HAVING COUNT\(i.id\) < o.requested_items`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_number", "email", "total", "created_at", "requested_items", "attached_items"}).
			AddRow("b2", "BO-20261017-091500-DEF456", "omar@example.com", "2250.00", placed, 3, 2))
	mock.ExpectQuery(`FROM products WHERE stock < 0`).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "product_name", "stock"}).
			AddRow("p1", "Sidr Honey", -1))
	mock.ExpectQuery(`(?s)payment_method = 'cod'.*AND EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("2250.00"))

	report, err := svc.GetReconciliationReport(context.Background(), 7)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, int64(4), report.TotalOrders)
	assert.Equal(t, "5250.00", report.TotalRevenue)
	assert.Equal(t, "1750.00", report.AverageOrderValue)
	assert.Equal(t, "2250.00", report.UnpaidCODRevenue)

	require.Len(t, report.OrphanedOrders, 1)
	assert.Equal(t, "BO-20261017-090000-ABC123", report.OrphanedOrders[0].OrderNumber)
	require.Len(t, report.PartialOrders, 1)
	assert.Equal(t, "BO-20261017-091500-DEF456", report.PartialOrders[0].OrderNumber)
	assert.Equal(t, 3, report.PartialOrders[0].RequestedItems)
	assert.Equal(t, 2, report.PartialOrders[0].AttachedItems)
	require.Len(t, report.OversoldProducts, 1)
	assert.Equal(t, -1, report.OversoldProducts[0].Stock)
}

func TestReconciliationReportEmpty(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`SELECT status`).WillReturnRows(sqlmock.NewRows([]string{"status", "count", "value"}))
	mock.ExpectQuery(`NOT EXISTS`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`HAVING`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`stock < 0`).WillReturnRows(sqlmock.NewRows([]string{"product_id"}))
	mock.ExpectQuery(`payment_method`).WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("0"))

	report, err := svc.GetReconciliationReport(context.Background(), 0)
	require.NoError(t, err)

	assert.Zero(t, report.TotalOrders)
	assert.Equal(t, "0.00", report.AverageOrderValue)
	assert.Empty(t, report.OrphanedOrders)
	assert.Empty(t, report.PartialOrders)
}

func TestReconciliationReportQueryFailure(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`SELECT status`).WillReturnError(assert.AnError)

	_, err := svc.GetReconciliationReport(context.Background(), 30)
	assert.ErrorIs(t, err, assert.AnError)
}
