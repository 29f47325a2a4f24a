package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/o4o-platform/settlement/internal/config"
	"github.com/o4o-platform/settlement/internal/constants"
	"github.com/o4o-platform/settlement/internal/logger"
	"github.com/o4o-platform/settlement/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	var withDemo bool
	flag.BoolVar(&withDemo, "demo", false, "同时写入演示用商户、供应商与订单")
	flag.Parse()

	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.LogLevel, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(withDemo); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 默认费率策略
	for _, policy := range defaultFeePolicies() {
		var existing models.FeePolicy
		if err := models.DB.Where("name = ?", policy.Name).First(&existing).Error; err == nil {
			stdLog.Printf("Fee policy already exists: %s", policy.Name)
			continue
		}
		policy := policy
		if err := models.DB.Create(&policy).Error; err != nil {
			stdLog.Printf("Failed to create fee policy %s: %v", policy.Name, err)
			continue
		}
		stdLog.Printf("Created fee policy: %s", policy.Name)
	}

	if !withDemo {
		stdLog.Println("Seed completed")
		return
	}

	vendors := []models.Vendor{
		{ID: 1, Name: "서울 약국", Status: constants.PartnerStatusActive, Tier: "gold"},
		{ID: 2, Name: "부산 건강마켓", Status: constants.PartnerStatusActive, Tier: "standard", CommissionRate: models.NewRatePtr(decimal.NewFromInt(8))},
	}
	for _, vendor := range vendors {
		vendor := vendor
		if err := models.DB.FirstOrCreate(&vendor, models.Vendor{ID: vendor.ID}).Error; err != nil {
			stdLog.Printf("Failed to create vendor %s: %v", vendor.Name, err)
		}
	}
	suppliers := []models.Supplier{
		{ID: 1, Name: "한빛 제약", Status: constants.PartnerStatusActive},
		{ID: 2, Name: "그린 헬스케어", Status: constants.PartnerStatusActive, PlatformCommissionRate: models.NewRatePtr(decimal.NewFromInt(12))},
	}
	for _, supplier := range suppliers {
		supplier := supplier
		if err := models.DB.FirstOrCreate(&supplier, models.Supplier{ID: supplier.ID}).Error; err != nil {
			stdLog.Printf("Failed to create supplier %s: %v", supplier.Name, err)
		}
	}

	// 上月与本月各写入若干订单，便于直接演示关账
	now := time.Now()
	lastMonth := time.Date(now.Year(), now.Month(), 1, 10, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
	demoOrders := []struct {
		vendorID   uint
		supplierID uint
		status     string
		quantity   int
		price      int64
		cost       int64
		createdAt  time.Time
	}{
		{1, 1, constants.OrderStatusCompleted, 2, 35000, 21000, lastMonth.AddDate(0, 0, 2)},
		{1, 2, constants.OrderStatusCompleted, 1, 120000, 80000, lastMonth.AddDate(0, 0, 9)},
		{1, 1, constants.OrderStatusRefunded, 1, 35000, 21000, lastMonth.AddDate(0, 0, 12)},
		{2, 2, constants.OrderStatusPaid, 3, 15000, 9000, lastMonth.AddDate(0, 0, 20)},
		{2, 1, constants.OrderStatusCancelled, 1, 50000, 30000, lastMonth.AddDate(0, 0, 21)},
		{1, 1, constants.OrderStatusCompleted, 1, 35000, 21000, now},
	}
	for i, item := range demoOrders {
		orderNo := fmt.Sprintf("DEMO-%s-%02d", item.createdAt.Format("200601"), i+1)
		var existing models.Order
		if err := models.DB.Where("order_no = ?", orderNo).First(&existing).Error; err == nil {
			stdLog.Printf("Order already exists: %s", orderNo)
			continue
		}
		unitPrice := decimal.NewFromInt(item.price)
		total := unitPrice.Mul(decimal.NewFromInt(int64(item.quantity)))
		order := models.Order{
			OrderNo:        orderNo,
			OrganizationID: 1,
			VendorID:       item.vendorID,
			Status:         item.status,
			TotalAmount:    models.NewMoneyFromDecimal(total),
			Currency:       "KRW",
			CreatedAt:      item.createdAt,
			Items: []models.OrderItem{{
				ProductID:  uint(i + 1),
				SupplierID: item.supplierID,
				Quantity:   item.quantity,
				UnitPrice:  models.NewMoneyFromDecimal(unitPrice),
				UnitCost:   models.NewMoneyFromInt(item.cost),
				TotalPrice: models.NewMoneyFromDecimal(total),
			}},
		}
		if err := models.DB.Create(&order).Error; err != nil {
			stdLog.Printf("Failed to create order %s: %v", orderNo, err)
			continue
		}
		stdLog.Printf("Created order: %s", orderNo)
	}

	stdLog.Println("Seed completed (with demo data)")
}

func defaultFeePolicies() []models.FeePolicy {
	return []models.FeePolicy{
		{
			Name:        "기본 플랫폼 수수료",
			Type:        constants.FeePolicyTypePlatform,
			BaseRate:    models.NewRateFromInt(5),
			MinFee:      models.NewMoneyPtr(decimal.NewFromInt(100)),
			IsActive:    true,
			Description: "모든 주문에 적용되는 기본 수수료",
			SortOrder:   100,
		},
		{
			Name:     "골드 등급 할인",
			Type:     constants.FeePolicyTypeVendorTier,
			BaseRate: models.NewRateFromDecimal(decimal.RequireFromString("3.5")),
			IsActive: true,
			Conditions: models.FeeConditions{
				{Key: constants.FeeConditionKeyVendorTier, Operator: constants.FeeConditionOpEquals, Value: "gold", Label: "골드 등급"},
			},
			SortOrder: 50,
		},
		{
			Name:     "카드 결제 처리 수수료",
			Type:     constants.FeePolicyTypePaymentMethod,
			BaseRate: models.NewRateFromDecimal(decimal.RequireFromString("2.5")),
			MaxFee:   models.NewMoneyPtr(decimal.NewFromInt(50000)),
			IsActive: true,
			Conditions: models.FeeConditions{
				{Key: constants.FeeConditionKeyPaymentMethod, Operator: constants.FeeConditionOpIn, Value: []string{"card", "credit_card"}, Label: "카드"},
			},
			SortOrder: 10,
		},
	}
}
