package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newContext(target, acceptLanguage string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	if acceptLanguage != "" {
		c.Request.Header.Set("Accept-Language", acceptLanguage)
	}
	return c
}

func TestResolveLocale(t *testing.T) {
	cases := []struct {
		target string
		header string
		want   string
	}{
		{"/", "", LocaleKoKR},
		{"/", "en-US,en;q=0.9", LocaleEnUS},
		{"/", "en", LocaleEnUS},
		{"/", "fr-FR, ko;q=0.8", LocaleKoKR},
		{"/?lang=en_us", "ko-KR", LocaleEnUS},
		{"/?lang=xx", "en-GB", LocaleEnUS},
	}
	for _, tc := range cases {
		got := ResolveLocale(newContext(tc.target, tc.header))
		if got != tc.want {
			t.Fatalf("locale for %s/%q want %s got %s", tc.target, tc.header, tc.want, got)
		}
	}
	if got := ResolveLocale(nil); got != DefaultLocale {
		t.Fatalf("nil context want default got %s", got)
	}
}

func TestTFallsBack(t *testing.T) {
	if got := T(LocaleEnUS, "error.not_found"); got != "Resource not found" {
		t.Fatalf("en message got %s", got)
	}
	if got := T("ja-JP", "error.not_found"); got != catalog[DefaultLocale]["error.not_found"] {
		t.Fatalf("unknown locale should fall back to default, got %s", got)
	}
	if got := T(LocaleEnUS, "error.missing_key"); got != "error.missing_key" {
		t.Fatalf("missing key should return key, got %s", got)
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range catalog[DefaultLocale] {
		if _, ok := catalog[LocaleEnUS][key]; !ok {
			t.Fatalf("en-US missing key %s", key)
		}
	}
	if len(catalog[DefaultLocale]) != len(catalog[LocaleEnUS]) {
		t.Fatalf("catalog size mismatch")
	}
}
