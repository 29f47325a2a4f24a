package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/o4o-platform/settlement/internal/constants"
	"github.com/o4o-platform/settlement/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func openRepositoryTestDB(t *testing.T, tables ...interface{}) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if len(tables) > 0 {
		if err := db.AutoMigrate(tables...); err != nil {
			t.Fatalf("migrate failed: %v", err)
		}
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func money(raw string) models.Money {
	return models.NewMoneyFromDecimal(decimal.RequireFromString(raw))
}

func rate(raw string) models.Rate {
	return models.NewRateFromDecimal(decimal.RequireFromString(raw))
}

func TestFeePolicyRepositoryListAndToggle(t *testing.T) {
	db := openRepositoryTestDB(t, &models.FeePolicy{})
	repo := NewFeePolicyRepository(db)

	policies := []*models.FeePolicy{
		{Name: "기본 수수료", Type: constants.FeePolicyTypePlatform, BaseRate: rate("5"), IsActive: true, SortOrder: 1},
		{Name: "식품 카테고리", Type: constants.FeePolicyTypeCategory, BaseRate: rate("2"), IsActive: true, SortOrder: 9,
			Conditions: models.FeeConditions{{Key: constants.FeeConditionKeyCategoryID, Operator: constants.FeeConditionOpEquals, Value: "food"}}},
		{Name: "카드 결제", Type: constants.FeePolicyTypePaymentMethod, BaseRate: rate("1"), IsActive: true},
	}
	for _, policy := range policies {
		if err := repo.Create(policy); err != nil {
			t.Fatalf("create policy failed: %v", err)
		}
	}
	if err := repo.SetActive(policies[2].ID, false); err != nil {
		t.Fatalf("toggle policy failed: %v", err)
	}

	active, err := repo.ListActive()
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	if len(active) != 2 || active[0].ID != policies[1].ID {
		t.Fatalf("active policies should be sorted by sort_order desc, got %+v", active)
	}
	if len(active[0].Conditions) != 1 || active[0].Conditions[0].Value != "food" {
		t.Fatalf("conditions should round trip, got %+v", active[0].Conditions)
	}

	rows, total, err := repo.List(FeePolicyListFilter{Page: 1, PageSize: 10, Search: "카테고리"})
	if err != nil {
		t.Fatalf("list policies failed: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].Type != constants.FeePolicyTypeCategory {
		t.Fatalf("search result mismatch total=%d rows=%+v", total, rows)
	}

	if err := repo.Delete(policies[0].ID); err != nil {
		t.Fatalf("delete policy failed: %v", err)
	}
	deleted, err := repo.GetByID(policies[0].ID)
	if err != nil {
		t.Fatalf("get deleted policy failed: %v", err)
	}
	if deleted != nil {
		t.Fatalf("soft deleted policy should not be returned")
	}
}

func TestVendorCommissionRepositoryUniquePeriod(t *testing.T) {
	db := openRepositoryTestDB(t, &models.VendorCommission{})
	repo := NewVendorCommissionRepository(db)

	first := &models.VendorCommission{VendorID: 7, Period: "2024-05", Status: constants.CommissionStatusDraft, TotalPayable: money("1000")}
	if err := repo.Create(first); err != nil {
		t.Fatalf("create commission failed: %v", err)
	}
	err := repo.Create(&models.VendorCommission{VendorID: 7, Period: "2024-05", Status: constants.CommissionStatusDraft})
	if err == nil {
		t.Fatalf("duplicate vendor/period should fail")
	}
	if !IsUniqueViolation(err) {
		t.Fatalf("duplicate should be classified as unique violation, got %v", err)
	}

	approved := &models.VendorCommission{VendorID: 8, Period: "2024-05", Status: constants.CommissionStatusApproved, TotalPayable: money("250.50")}
	disputed := &models.VendorCommission{VendorID: 9, Period: "2024-05", Status: constants.CommissionStatusApproved, IsDisputed: true, TotalPayable: money("10")}
	for _, row := range []*models.VendorCommission{approved, disputed} {
		if err := repo.Create(row); err != nil {
			t.Fatalf("create commission failed: %v", err)
		}
	}

	payable, total, err := repo.ListPayable(1, 20)
	if err != nil {
		t.Fatalf("list payable failed: %v", err)
	}
	if total != 1 || payable[0].ID != approved.ID {
		t.Fatalf("payable should exclude disputed rows, got total=%d", total)
	}

	sum, err := repo.SumTotalPayable(context.Background(), "2024-05", nil)
	if err != nil {
		t.Fatalf("sum payable failed: %v", err)
	}
	if !sum.Equal(decimal.RequireFromString("1260.5")) {
		t.Fatalf("sum want 1260.50 got %s", sum.String())
	}
	empty, err := repo.SumTotalPayable(context.Background(), "2023-01", []string{constants.CommissionStatusApproved})
	if err != nil || !empty.IsZero() {
		t.Fatalf("empty sum want 0 got %s err=%v", empty.String(), err)
	}

	found, err := repo.GetByVendorPeriod(7, "2024-05")
	if err != nil || found == nil || found.ID != first.ID {
		t.Fatalf("get by vendor period mismatch: %+v err=%v", found, err)
	}
}

func TestSettlementSourceAggregates(t *testing.T) {
	db := openRepositoryTestDB(t, &models.Order{}, &models.OrderItem{})
	repo := NewSettlementSourceRepository(db)

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	inWindow := start.Add(48 * time.Hour)

	orders := []models.Order{
		{OrderNo: "O-1", VendorID: 1, Status: constants.OrderStatusCompleted, TotalAmount: money("10000"), CreatedAt: inWindow},
		{OrderNo: "O-2", VendorID: 1, Status: constants.OrderStatusCompleted, TotalAmount: money("5000.50"), CreatedAt: inWindow},
		{OrderNo: "O-3", VendorID: 1, Status: constants.OrderStatusRefunded, TotalAmount: money("2000"), CreatedAt: inWindow},
		{OrderNo: "O-4", VendorID: 1, Status: constants.OrderStatusCancelled, TotalAmount: money("700"), CreatedAt: inWindow},
		{OrderNo: "O-5", VendorID: 1, Status: constants.OrderStatusCompleted, TotalAmount: money("99999"), CreatedAt: end},
		{OrderNo: "O-6", VendorID: 2, Status: constants.OrderStatusCompleted, TotalAmount: money("88888"), CreatedAt: inWindow},
	}
	if err := db.Create(&orders).Error; err != nil {
		t.Fatalf("create orders failed: %v", err)
	}
	items := []models.OrderItem{
		{OrderID: orders[0].ID, ProductID: 100, SupplierID: 3, Quantity: 2, UnitPrice: money("3000"), UnitCost: money("2000")},
		{OrderID: orders[0].ID, ProductID: 101, SupplierID: 3, Quantity: 1, UnitPrice: money("4000"), UnitCost: money("1500")},
		{OrderID: orders[1].ID, ProductID: 100, SupplierID: 3, Quantity: 1, UnitPrice: money("3000"), UnitCost: money("2000")},
		{OrderID: orders[2].ID, ProductID: 100, SupplierID: 3, Quantity: 1, UnitPrice: money("3000"), UnitCost: money("2000")},
		{OrderID: orders[1].ID, ProductID: 200, SupplierID: 4, Quantity: 5, UnitPrice: money("1000"), UnitCost: money("100")},
	}
	if err := db.Create(&items).Error; err != nil {
		t.Fatalf("create items failed: %v", err)
	}

	vendor, err := repo.AggregateVendorOrders(context.Background(), 1, start, end)
	if err != nil {
		t.Fatalf("aggregate vendor failed: %v", err)
	}
	if vendor.TotalOrders != 4 || vendor.CompletedOrders != 2 || vendor.RefundedOrders != 1 || vendor.CancelledOrders != 1 {
		t.Fatalf("vendor counts mismatch: %+v", vendor)
	}
	if !vendor.GrossSales.Equal(decimal.RequireFromString("15000.5")) {
		t.Fatalf("gross sales want 15000.50 got %s", vendor.GrossSales.String())
	}
	if !vendor.RefundAmount.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("refund amount want 2000 got %s", vendor.RefundAmount.String())
	}

	supplier, err := repo.AggregateSupplierItems(context.Background(), 3, start, end)
	if err != nil {
		t.Fatalf("aggregate supplier failed: %v", err)
	}
	if supplier.CompletedOrders != 2 || supplier.ReturnedOrders != 1 || supplier.TotalOrders != 3 {
		t.Fatalf("supplier counts mismatch: %+v", supplier)
	}
	if supplier.TotalProductsSold != 4 || supplier.UniqueProductsSold != 2 {
		t.Fatalf("supplier product counts mismatch: %+v", supplier)
	}
	if !supplier.GrossRevenue.Equal(decimal.NewFromInt(13000)) || !supplier.SupplierCost.Equal(decimal.NewFromInt(7500)) {
		t.Fatalf("supplier revenue/cost mismatch: %s / %s", supplier.GrossRevenue.String(), supplier.SupplierCost.String())
	}
	if !supplier.Returns.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("supplier returns want 3000 got %s", supplier.Returns.String())
	}
}

func TestTimeWindowComparesInstants(t *testing.T) {
	db := openRepositoryTestDB(t, &models.Order{})
	repo := NewStoreHubRepository(db)
	ctx := context.Background()

	kst := time.FixedZone("KST", 9*60*60)
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, kst)
	end := start.AddDate(0, 0, 1)
	orders := []models.Order{
		// 2024-06-01 05:00 KST
		{OrderNo: "W-1", OrganizationID: 7, Status: constants.OrderStatusPaid, TotalAmount: money("100"), CreatedAt: time.Date(2024, 5, 31, 20, 0, 0, 0, time.UTC)},
		// 2024-05-31 23:59 KST
		{OrderNo: "W-2", OrganizationID: 7, Status: constants.OrderStatusPaid, TotalAmount: money("200"), CreatedAt: time.Date(2024, 5, 31, 23, 59, 0, 0, kst)},
		// 正好在 end，不计入
		{OrderNo: "W-3", OrganizationID: 7, Status: constants.OrderStatusPaid, TotalAmount: money("400"), CreatedAt: end.UTC()},
		{OrderNo: "W-4", OrganizationID: 7, Status: constants.OrderStatusPaid, TotalAmount: money("800"), CreatedAt: start},
	}
	if err := db.Create(&orders).Error; err != nil {
		t.Fatalf("create orders failed: %v", err)
	}

	count, err := repo.CountOrders(ctx, 7, start, end, nil)
	if err != nil || count != 2 {
		t.Fatalf("count orders want 2 got %d err=%v", count, err)
	}
	revenue, err := repo.SumRevenue(ctx, 7, start.UTC(), end.UTC(), nil)
	if err != nil || !revenue.Equal(decimal.NewFromInt(900)) {
		t.Fatalf("revenue want 900 got %s err=%v", revenue.String(), err)
	}
}

func TestStoreHubRepositoryCountsAndMissingTable(t *testing.T) {
	db := openRepositoryTestDB(t, &models.Order{}, &models.ContentSlot{})
	repo := NewStoreHubRepository(db)
	ctx := context.Background()

	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{OrderNo: "S-1", OrganizationID: 5, Status: constants.OrderStatusPaid, TotalAmount: money("1000"), CreatedAt: now},
		{OrderNo: "S-2", OrganizationID: 5, Status: constants.OrderStatusCancelled, TotalAmount: money("500"), CreatedAt: now},
		{OrderNo: "S-3", OrganizationID: 5, Status: constants.OrderStatusCompleted, TotalAmount: money("2500"), CreatedAt: now},
		{OrderNo: "S-4", OrganizationID: 6, Status: constants.OrderStatusPaid, TotalAmount: money("9999"), CreatedAt: now},
	}
	if err := db.Create(&orders).Error; err != nil {
		t.Fatalf("create orders failed: %v", err)
	}
	if err := db.Create(&[]models.ContentSlot{
		{OrganizationID: 5, SlotKey: "hero", IsActive: true},
		{OrganizationID: 5, SlotKey: "footer", IsActive: false},
	}).Error; err != nil {
		t.Fatalf("create slots failed: %v", err)
	}

	start := now.Add(-time.Hour)
	end := now.Add(time.Hour)
	count, err := repo.CountOrders(ctx, 5, start, end, []string{constants.OrderStatusCancelled})
	if err != nil || count != 2 {
		t.Fatalf("count orders want 2 got %d err=%v", count, err)
	}
	revenue, err := repo.SumRevenue(ctx, 5, start, end, []string{constants.OrderStatusPaid, constants.OrderStatusCompleted})
	if err != nil || !revenue.Equal(decimal.NewFromInt(3500)) {
		t.Fatalf("revenue want 3500 got %s err=%v", revenue.String(), err)
	}
	activeSlots, err := repo.CountContentSlots(ctx, 5, true)
	if err != nil || activeSlots != 1 {
		t.Fatalf("active slots want 1 got %d err=%v", activeSlots, err)
	}

	_, err = repo.CountSignage(ctx, 5, "")
	if err == nil {
		t.Fatalf("signage table is not migrated, query should fail")
	}
	if !IsMissingRelation(err) || ClassifyQueryFailure(err) != FailureMissingRelation {
		t.Fatalf("missing table should be classified, got %v", err)
	}
}

func TestChannelRepositoryDuplicateType(t *testing.T) {
	db := openRepositoryTestDB(t, &models.OrganizationChannel{})
	repo := NewChannelRepository(db)

	if err := repo.Create(&models.OrganizationChannel{OrganizationID: 1, ChannelType: constants.ChannelTypeKiosk, Status: constants.ChannelStatusPending}); err != nil {
		t.Fatalf("create channel failed: %v", err)
	}
	err := repo.Create(&models.OrganizationChannel{OrganizationID: 1, ChannelType: constants.ChannelTypeKiosk, Status: constants.ChannelStatusPending})
	if !IsUniqueViolation(err) {
		t.Fatalf("duplicate channel should be unique violation, got %v", err)
	}
	if err := repo.Create(&models.OrganizationChannel{OrganizationID: 2, ChannelType: constants.ChannelTypeKiosk, Status: constants.ChannelStatusPending}); err != nil {
		t.Fatalf("other organization should be allowed: %v", err)
	}
	channels, err := repo.ListByOrganization(1)
	if err != nil || len(channels) != 1 {
		t.Fatalf("list channels want 1 got %d err=%v", len(channels), err)
	}
}
