package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/o4o-platform/settlement/internal/config"
	"github.com/o4o-platform/settlement/internal/constants"
	"github.com/o4o-platform/settlement/internal/models"
	"github.com/o4o-platform/settlement/internal/queue"
	"github.com/o4o-platform/settlement/internal/repository"
)

func setupPeriodCloseServiceTest(t *testing.T, cfg config.SettlementConfig) *PeriodCloseService {
	t.Helper()
	db := openServiceTestDB(t, "period_close_test",
		&models.Vendor{}, &models.Supplier{}, &models.Order{}, &models.OrderItem{},
		&models.VendorCommission{}, &models.CommissionSettlement{})
	for _, vendor := range []models.Vendor{
		{ID: 1, Name: "a", Status: constants.PartnerStatusActive},
		{ID: 2, Name: "b", Status: constants.PartnerStatusActive},
		{ID: 3, Name: "c", Status: constants.PartnerStatusInactive},
	} {
		vendor := vendor
		if err := db.Create(&vendor).Error; err != nil {
			t.Fatalf("create vendor failed: %v", err)
		}
	}
	if err := db.Create(&models.Supplier{ID: 1, Name: "s", Status: constants.PartnerStatusActive}).Error; err != nil {
		t.Fatalf("create supplier failed: %v", err)
	}

	partnerRepo := repository.NewPartnerRepository(db)
	sourceRepo := repository.NewSettlementSourceRepository(db)
	commissionService := NewCommissionService(repository.NewVendorCommissionRepository(db), partnerRepo, sourceRepo, cfg, nil)
	settlementService := NewSettlementService(repository.NewCommissionSettlementRepository(db), partnerRepo, sourceRepo, cfg, nil)
	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("create queue client failed: %v", err)
	}
	return NewPeriodCloseService(commissionService, settlementService, queueClient, cfg)
}

func TestRequestCloseRunsSynchronouslyWithoutQueue(t *testing.T) {
	svc := setupPeriodCloseServiceTest(t, testSettlementConfig())

	request, err := svc.RequestClose(context.Background(), "2024-05")
	if err != nil {
		t.Fatalf("request close failed: %v", err)
	}
	if request.Queued {
		t.Fatalf("disabled queue should run synchronously")
	}
	if request.Result == nil {
		t.Fatalf("synchronous close should return result")
	}
	if request.Result.Vendors.Total != 2 || request.Result.Vendors.Succeeded != 2 {
		t.Fatalf("vendors want 2/2 got %d/%d", request.Result.Vendors.Total, request.Result.Vendors.Succeeded)
	}
	if request.Result.Suppliers.Total != 1 || request.Result.Suppliers.Succeeded != 1 {
		t.Fatalf("suppliers want 1/1 got %d/%d", request.Result.Suppliers.Total, request.Result.Suppliers.Succeeded)
	}

	if _, err := svc.RequestClose(context.Background(), "202405"); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestDueAutoClosePeriod(t *testing.T) {
	cfg := testSettlementConfig()
	cfg.AutoClose = config.AutoCloseConfig{Enabled: true, Day: 3}
	svc := NewPeriodCloseService(nil, nil, nil, cfg)

	if _, due := svc.DueAutoClosePeriod(time.Date(2024, 6, 2, 23, 0, 0, 0, time.UTC)); due {
		t.Fatalf("auto close should wait until day 3")
	}
	period, due := svc.DueAutoClosePeriod(time.Date(2024, 6, 3, 0, 30, 0, 0, time.UTC))
	if !due || period != "2024-05" {
		t.Fatalf("auto close want 2024-05 due, got %s/%v", period, due)
	}
	period, due = svc.DueAutoClosePeriod(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))
	if !due || period != "2023-12" {
		t.Fatalf("auto close across year want 2023-12 got %s", period)
	}

	cfg.AutoClose.Enabled = false
	disabled := NewPeriodCloseService(nil, nil, nil, cfg)
	if _, due := disabled.DueAutoClosePeriod(time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)); due {
		t.Fatalf("disabled auto close should never be due")
	}
}
