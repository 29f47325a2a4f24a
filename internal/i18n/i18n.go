package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	LocaleKoKR = "ko-KR"
	LocaleEnUS = "en-US"

	// DefaultLocale 默认语言
	DefaultLocale = LocaleKoKR
)

var supportedLocales = []string{LocaleKoKR, LocaleEnUS}

// ResolveLocale 从请求解析语言，优先 query lang，其次 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		if locale, ok := matchLocale(lang); ok {
			return locale
		}
	}
	header := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		if locale, ok := matchLocale(tag); ok {
			return locale
		}
	}
	return DefaultLocale
}

func matchLocale(tag string) (string, bool) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(tag), "_", "-"))
	for _, locale := range supportedLocales {
		if strings.ToLower(locale) == normalized {
			return locale, true
		}
	}
	primary := strings.SplitN(normalized, "-", 2)[0]
	for _, locale := range supportedLocales {
		if strings.HasPrefix(strings.ToLower(locale), primary+"-") {
			return locale, true
		}
	}
	return "", false
}

// T 翻译消息 key，缺失时回退默认语言，再回退 key 本身
func T(locale, key string) string {
	if messages, ok := catalog[locale]; ok {
		if msg, ok := messages[key]; ok {
			return msg
		}
	}
	if msg, ok := catalog[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译后格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
