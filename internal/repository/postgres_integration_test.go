//go:build integration
// +build integration

package repository

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/o4o-platform/settlement/internal/constants"
	"github.com/o4o-platform/settlement/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.OrderItem{},
		&models.Order{},
		&models.VendorCommission{},
		&models.CommissionSettlement{},
		&models.OrganizationChannel{},
		&models.SignageContent{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := db.AutoMigrate(
		&models.Order{},
		&models.OrderItem{},
		&models.VendorCommission{},
		&models.CommissionSettlement{},
		&models.OrganizationChannel{},
	); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresSettlementAggregates(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	ctx := context.Background()
	startAt := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	endAt := startAt.AddDate(0, 1, 0)

	orders := []models.Order{
		{OrderNo: "PG-1", VendorID: 1, Status: constants.OrderStatusCompleted, TotalAmount: models.NewMoneyFromInt(120000), CreatedAt: startAt.Add(time.Hour)},
		{OrderNo: "PG-2", VendorID: 1, Status: constants.OrderStatusRefunded, TotalAmount: models.NewMoneyFromInt(30000), CreatedAt: startAt.AddDate(0, 0, 10)},
		{OrderNo: "PG-3", VendorID: 1, Status: constants.OrderStatusCancelled, TotalAmount: models.NewMoneyFromInt(5000), CreatedAt: startAt.AddDate(0, 0, 11)},
		{OrderNo: "PG-4", VendorID: 1, Status: constants.OrderStatusCompleted, TotalAmount: models.NewMoneyFromInt(99999), CreatedAt: endAt},
	}
	for i := range orders {
		if err := db.Create(&orders[i]).Error; err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}
	item := &models.OrderItem{
		OrderID:    orders[0].ID,
		ProductID:  10,
		SupplierID: 3,
		Quantity:   2,
		UnitPrice:  models.NewMoneyFromInt(60000),
		UnitCost:   models.NewMoneyFromInt(40000),
		TotalPrice: models.NewMoneyFromInt(120000),
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("create order item failed: %v", err)
	}

	sourceRepo := NewSettlementSourceRepository(db)
	vendorAgg, err := sourceRepo.AggregateVendorOrders(ctx, 1, startAt, endAt)
	if err != nil {
		t.Fatalf("aggregate vendor orders failed: %v", err)
	}
	if vendorAgg.TotalOrders != 3 || vendorAgg.RefundedOrders != 1 || vendorAgg.CancelledOrders != 1 {
		t.Fatalf("vendor counts mismatch: %+v", vendorAgg)
	}
	if !vendorAgg.RefundAmount.Equal(decimal.NewFromInt(30000)) {
		t.Fatalf("refund amount want 30000 got %s", vendorAgg.RefundAmount.String())
	}

	supplierAgg, err := sourceRepo.AggregateSupplierItems(ctx, 3, startAt, endAt)
	if err != nil {
		t.Fatalf("aggregate supplier items failed: %v", err)
	}
	if supplierAgg.TotalProductsSold != 2 || !supplierAgg.SupplierCost.Equal(decimal.NewFromInt(80000)) {
		t.Fatalf("supplier aggregate mismatch: %+v", supplierAgg)
	}
}

func TestPostgresErrorClassification(t *testing.T) {
	db := setupPostgresIntegrationDB(t)

	channelRepo := NewChannelRepository(db)
	first := &models.OrganizationChannel{OrganizationID: 1, ChannelType: constants.ChannelTypeKiosk, Status: constants.ChannelStatusPending}
	if err := channelRepo.Create(first); err != nil {
		t.Fatalf("create channel failed: %v", err)
	}
	dup := &models.OrganizationChannel{OrganizationID: 1, ChannelType: constants.ChannelTypeKiosk, Status: constants.ChannelStatusPending}
	err := channelRepo.Create(dup)
	if !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation from postgres, got %v", err)
	}

	// signage_contents 未迁移
	_, err = NewStoreHubRepository(db).CountSignage(context.Background(), 1, "")
	if !IsMissingRelation(err) {
		t.Fatalf("expected missing relation from postgres, got %v", err)
	}
	if reason := ClassifyQueryFailure(err); reason != FailureMissingRelation {
		t.Fatalf("classify want missing_relation got %s", reason)
	}
}
