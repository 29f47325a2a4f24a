package router

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/o4o-platform/settlement/internal/http/response"
	"github.com/o4o-platform/settlement/internal/i18n"
	"github.com/o4o-platform/settlement/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 生成限流主体
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 固定窗口限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	MessageKey    string
}

// 返回 {当前计数, 剩余 TTL}
var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

// RateLimitMiddleware 基于 Redis 的固定窗口限流
// Redis 不可用时放行并记录告警，试算接口不改变任何状态
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || rule.WindowSeconds <= 0 || rule.MaxRequests <= 0 {
			c.Next()
			return
		}

		subject := ""
		if keyFunc != nil {
			subject = strings.TrimSpace(keyFunc(c))
		}
		if subject == "" {
			subject = c.ClientIP()
		}
		key := subject
		if rule.Prefix != "" {
			key = rule.Prefix + ":" + subject
		}

		count, ttl, err := incrWindow(c, client, key, rule.WindowSeconds)
		if err != nil {
			logger.Warnw("rate_limit_check_failed", "key", key, "error", err)
			c.Next()
			return
		}

		remaining := int64(rule.MaxRequests) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.MaxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(rule.MaxRequests) {
			wait := int(ttl)
			if wait < 1 {
				wait = rule.WindowSeconds
			}
			msgKey := strings.TrimSpace(rule.MessageKey)
			if msgKey == "" {
				msgKey = "error.rate_limited"
			}
			c.Header("Retry-After", strconv.Itoa(wait))
			response.Error(c, response.CodeTooManyRequests, i18n.Sprintf(i18n.ResolveLocale(c), msgKey, wait))
			c.Abort()
			return
		}

		c.Next()
	}
}

func incrWindow(c *gin.Context, client *redis.Client, key string, windowSeconds int) (int64, int64, error) {
	result, err := rateLimitScript.Run(c.Request.Context(), client, []string{key}, windowSeconds).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(result) < 2 {
		return 0, 0, fmt.Errorf("unexpected rate limit reply: %v", result)
	}
	return result[0], result[1], nil
}

// KeyBySubject 按 组织+用户 限流，未鉴权时回退客户端 IP
func KeyBySubject(c *gin.Context) string {
	userID := c.GetUint(userIDContextKey)
	if userID == 0 {
		return c.ClientIP()
	}
	if orgID := c.GetUint(organizationIDContextKey); orgID > 0 {
		return fmt.Sprintf("org:%d:user:%d", orgID, userID)
	}
	return fmt.Sprintf("user:%d", userID)
}
