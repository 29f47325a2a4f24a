package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorMirrorsHTTPStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		code      int
		errorCode string
	}{
		{CodeBadRequest, ErrorCodeValidation},
		{CodeNotFound, ErrorCodeNotFound},
		{CodeConflict, ErrorCodeConflict},
		{CodeInternal, ErrorCodeInternal},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("request_id", "req-1")
		Error(c, tc.code, "boom")

		if w.Code != tc.code {
			t.Fatalf("http status want %d got %d", tc.code, w.Code)
		}
		var body map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body failed: %v", err)
		}
		if body["error_code"] != tc.errorCode {
			t.Fatalf("error_code want %s got %v", tc.errorCode, body["error_code"])
		}
		if int(body["status_code"].(float64)) != tc.code {
			t.Fatalf("status_code want %d got %v", tc.code, body["status_code"])
		}
		if body["request_id"] != "req-1" || body["data"] != nil {
			t.Fatalf("request_id should be on the envelope with null data, got %v", body)
		}
	}
}

func TestSuccessOmitsErrorCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Success(c, gin.H{"ok": true})

	if w.Code != http.StatusOK {
		t.Fatalf("http status want 200 got %d", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if _, ok := body["error_code"]; ok {
		t.Fatalf("success response should not carry error_code")
	}
}

func TestSuccessWithPageCarriesPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	SuccessWithPage(c, []int{1, 2}, Pagination{Page: 2, PageSize: 2, Total: 5, TotalPage: 3})

	var body Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if body.Pagination == nil || body.Pagination.Total != 5 || body.Pagination.Page != 2 {
		t.Fatalf("pagination mismatch: %+v", body.Pagination)
	}
	if body.RequestID != "" {
		t.Fatalf("success response should not carry request_id")
	}
}
