package storehub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/o4o-platform/settlement/internal/config"
	"github.com/o4o-platform/settlement/internal/models"
	"github.com/o4o-platform/settlement/internal/provider"
	"github.com/o4o-platform/settlement/internal/repository"
	"github.com/o4o-platform/settlement/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
	ErrorCode  string          `json:"error_code"`
}

func setupStoreHubHandlerTest(t *testing.T, organizationID interface{}) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:storehub_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	// 不建 signage_contents，验证分区降级不会变成 500
	if err := db.AutoMigrate(&models.OrganizationChannel{}, &models.ChannelListing{}, &models.ContentSlot{}, &models.Order{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	h := New(&provider.Container{
		StoreHubService: service.NewStoreHubService(
			repository.NewStoreHubRepository(db),
			repository.NewChannelRepository(db),
			config.StoreHubConfig{},
			"UTC",
			nil,
		),
	})
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if organizationID != nil {
			c.Set("organization_id", organizationID)
		}
		c.Next()
	})
	r.GET("/store-hub/overview", h.GetOverview)
	r.GET("/store-hub/live-signals", h.GetLiveSignals)
	r.GET("/store-hub/channels", h.GetChannels)
	r.POST("/store-hub/channels", h.CreateChannel)
	return r
}

func serve(t *testing.T, r http.Handler, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	raw := []byte(nil)
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		raw = encoded
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "en-US")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v body=%s", err, w.Body.String())
	}
	return w.Code, resp
}

func TestStoreHubRequiresOrganization(t *testing.T) {
	r := setupStoreHubHandlerTest(t, uint(0))
	code, resp := serve(t, r, http.MethodGet, "/store-hub/overview", nil)
	if code != http.StatusBadRequest || resp.Msg != "Organization is required" {
		t.Fatalf("zero organization want 400 got %d/%s", code, resp.Msg)
	}
}

func TestStoreHubOverviewDegradesInsteadOfFailing(t *testing.T) {
	r := setupStoreHubHandlerTest(t, uint(7))
	code, resp := serve(t, r, http.MethodGet, "/store-hub/overview?force_refresh=true", nil)
	if code != http.StatusOK {
		t.Fatalf("overview want 200 got %d", code)
	}
	var overview service.StoreHubOverview
	if err := json.Unmarshal(resp.Data, &overview); err != nil {
		t.Fatalf("decode overview failed: %v", err)
	}
	if !overview.Products.Available || overview.Signage.Available {
		t.Fatalf("products should be available and signage degraded, got %+v", overview)
	}

	code, _ = serve(t, r, http.MethodGet, "/store-hub/live-signals", nil)
	if code != http.StatusOK {
		t.Fatalf("live signals want 200 got %d", code)
	}
}

func TestStoreHubChannelHandlers(t *testing.T) {
	r := setupStoreHubHandlerTest(t, uint(7))

	code, resp := serve(t, r, http.MethodPost, "/store-hub/channels", map[string]string{"channelType": "kiosk", "name": "입구 키오스크"})
	if code != http.StatusOK {
		t.Fatalf("create channel want 200 got %d/%s", code, resp.Msg)
	}
	var channel models.OrganizationChannel
	if err := json.Unmarshal(resp.Data, &channel); err != nil {
		t.Fatalf("decode channel failed: %v", err)
	}
	if channel.ChannelType != "KIOSK" || channel.Status != "PENDING" || channel.OrganizationID != 7 {
		t.Fatalf("channel mismatch: %+v", channel)
	}

	code, resp = serve(t, r, http.MethodPost, "/store-hub/channels", map[string]string{"channelType": "KIOSK"})
	if code != http.StatusConflict || resp.ErrorCode != "CONFLICT" {
		t.Fatalf("duplicate channel want 409 got %d/%s", code, resp.ErrorCode)
	}

	code, resp = serve(t, r, http.MethodPost, "/store-hub/channels", map[string]string{"channelType": "FAX"})
	if code != http.StatusBadRequest || resp.Msg != "Unsupported channel type" {
		t.Fatalf("invalid channel want 400 got %d/%s", code, resp.Msg)
	}

	code, resp = serve(t, r, http.MethodGet, "/store-hub/channels", nil)
	if code != http.StatusOK {
		t.Fatalf("list channels want 200 got %d", code)
	}
	var channels []models.OrganizationChannel
	if err := json.Unmarshal(resp.Data, &channels); err != nil {
		t.Fatalf("decode channels failed: %v", err)
	}
	if len(channels) != 1 {
		t.Fatalf("channels want 1 got %d", len(channels))
	}
}
