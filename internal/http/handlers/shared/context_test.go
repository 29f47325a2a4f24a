package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestRequireOrganizationID(t *testing.T) {
	c, _ := newTestContext("/")
	c.Set(ContextKeyOrganizationID, float64(12))
	id, ok := RequireOrganizationID(c)
	if !ok || id != 12 {
		t.Fatalf("organization id want 12 got %d ok=%v", id, ok)
	}

	c, w := newTestContext("/")
	if _, ok := RequireOrganizationID(c); ok {
		t.Fatalf("missing key should fail")
	}
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing key status want 401 got %d", w.Code)
	}

	c, w = newTestContext("/")
	c.Set(ContextKeyOrganizationID, uint(0))
	if _, ok := RequireOrganizationID(c); ok {
		t.Fatalf("zero organization should fail")
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("zero organization status want 400 got %d", w.Code)
	}
}

func TestOperatorFromUserID(t *testing.T) {
	c, _ := newTestContext("/")
	if Operator(c) != "" {
		t.Fatalf("anonymous operator should be empty")
	}
	c.Set(ContextKeyUserID, uint(7))
	if UserID(c) != 7 || Operator(c) != "7" {
		t.Fatalf("operator want 7 got %d/%q", UserID(c), Operator(c))
	}
}

func TestQueryAndPathParsing(t *testing.T) {
	c, _ := newTestContext("/?page=3&page_size=500&vendor_id=9")
	page, size := PageQuery(c)
	if page != 3 || size != 100 {
		t.Fatalf("page query want 3/100 got %d/%d", page, size)
	}
	if id, ok := QueryUint(c, "vendor_id"); !ok || id != 9 {
		t.Fatalf("query uint want 9 got %d ok=%v", id, ok)
	}
	if id, ok := QueryUint(c, "supplier_id"); !ok || id != 0 {
		t.Fatalf("absent query uint want 0 got %d ok=%v", id, ok)
	}

	c, w := newTestContext("/")
	c.Params = gin.Params{{Key: "id", Value: "0"}}
	if _, ok := PathUint(c, "id"); ok || w.Code != http.StatusBadRequest {
		t.Fatalf("zero path id should be rejected, code=%d", w.Code)
	}
}

func TestNormalizePagination(t *testing.T) {
	page, size := NormalizePagination(0, 0)
	if page != 1 || size != 20 {
		t.Fatalf("defaults want 1/20 got %d/%d", page, size)
	}
	if _, size = NormalizePagination(3, 500); size != 100 {
		t.Fatalf("page size cap want 100 got %d", size)
	}
	if p := PageOf(1, 20, 41); p.TotalPage != 3 {
		t.Fatalf("total page want 3 got %d", p.TotalPage)
	}
}
