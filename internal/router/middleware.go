package router

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/o4o-platform/settlement/internal/authz"
	"github.com/o4o-platform/settlement/internal/config"
	handlershared "github.com/o4o-platform/settlement/internal/http/handlers/shared"
	"github.com/o4o-platform/settlement/internal/http/response"
	"github.com/o4o-platform/settlement/internal/i18n"
	"github.com/o4o-platform/settlement/internal/logger"
	"github.com/o4o-platform/settlement/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDKey             = handlershared.ContextKeyRequestID
	requestIDHeader          = "X-Request-ID"
	maxRequestIDLength       = 64
	userIDContextKey         = handlershared.ContextKeyUserID
	organizationIDContextKey = handlershared.ContextKeyOrganizationID
	roleContextKey           = handlershared.ContextKeyRole
)

// CORSMiddleware 跨域处理，预检请求直接返回 204
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	policy := newOriginPolicy(cfg.AllowedOrigins, cfg.AllowCredentials)
	methods := strings.Join(orDefault(cfg.AllowedMethods, []string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}), ", ")
	headers := strings.Join(orDefault(cfg.AllowedHeaders, []string{
		"Content-Type", "Accept-Language", "Authorization", requestIDHeader,
	}), ", ")
	maxAge := ""
	if cfg.MaxAge > 0 {
		maxAge = strconv.Itoa(cfg.MaxAge)
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		if origin := policy.allow(c.GetHeader("Origin")); origin != "" {
			h.Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				h.Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		h.Set("Access-Control-Allow-Methods", methods)
		h.Set("Access-Control-Allow-Headers", headers)
		if maxAge != "" {
			h.Set("Access-Control-Max-Age", maxAge)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// originPolicy 未配置来源时放开全部
// 通配且携带凭证时回显请求来源，浏览器不接受 * 与凭证同时出现
type originPolicy struct {
	wildcard    bool
	credentials bool
	origins     map[string]struct{}
}

func newOriginPolicy(allowed []string, credentials bool) originPolicy {
	policy := originPolicy{credentials: credentials, origins: make(map[string]struct{}, len(allowed))}
	if len(allowed) == 0 {
		policy.wildcard = true
	}
	for _, origin := range allowed {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			policy.wildcard = true
			continue
		}
		if origin != "" {
			policy.origins[strings.ToLower(origin)] = struct{}{}
		}
	}
	return policy
}

func (p originPolicy) allow(origin string) string {
	if p.wildcard {
		if p.credentials && origin != "" {
			return origin
		}
		return "*"
	}
	if _, ok := p.origins[strings.ToLower(origin)]; ok && origin != "" {
		return origin
	}
	return ""
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}

// RequestIDMiddleware 透传上游 X-Request-ID，缺失或超长时重新生成
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 请求日志，4xx 记 warn，5xx 记 error
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		log := sugar.With(
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"organization_id", c.GetUint(organizationIDContextKey),
			"role", c.GetString(roleContextKey),
		)
		switch {
		case status >= http.StatusInternalServerError || len(c.Errors) > 0:
			log.Errorw("http_request", "errors", c.Errors.String())
		case status >= http.StatusBadRequest:
			log.Warnw("http_request")
		default:
			log.Infow("http_request")
		}
	}
}

// AccessClaims 访问令牌声明，令牌由上游身份服务签发
type AccessClaims struct {
	UserID         uint   `json:"user_id"`
	OrganizationID uint   `json:"organization_id"`
	Role           string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuthMiddleware JWT 鉴权中间件，只校验签名与有效期并写入上下文
func JWTAuthMiddleware(cfg config.JWTConfig) gin.HandlerFunc {
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer := strings.TrimSpace(cfg.Issuer); issuer != "" {
		options = append(options, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(options...)

	return func(c *gin.Context) {
		if cfg.SecretKey == "" {
			abortUnauthorized(c, "error.jwt_secret_missing")
			return
		}
		raw, key := bearerToken(c.GetHeader("Authorization"))
		if key != "" {
			abortUnauthorized(c, key)
			return
		}

		claims := &AccessClaims{}
		token, err := parser.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.SecretKey), nil
		})
		if err != nil || !token.Valid || claims.UserID == 0 || strings.TrimSpace(claims.Role) == "" {
			abortUnauthorized(c, "error.token_invalid")
			return
		}

		c.Set(userIDContextKey, claims.UserID)
		c.Set(organizationIDContextKey, claims.OrganizationID)
		c.Set(roleContextKey, strings.ToLower(strings.TrimSpace(claims.Role)))
		c.Next()
	}
}

// bearerToken 解析 Authorization 头，失败时返回错误文案 key
func bearerToken(header string) (string, string) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", "error.auth_header_missing"
	}
	scheme, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", "error.auth_header_invalid"
	}
	return token, ""
}

func abortUnauthorized(c *gin.Context, key string) {
	response.Unauthorized(c, i18n.T(i18n.ResolveLocale(c), key))
	c.Abort()
}

// RBACMiddleware 按令牌角色执行路由级授权
func RBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("rbac_service_unavailable")
			abortUnauthorized(c, "error.unauthorized")
			return
		}

		role := c.GetString(roleContextKey)
		if role == "" {
			abortUnauthorized(c, "error.unauthorized")
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := authzService.EnforceRole(role, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("rbac_enforce_failed",
				"role", role,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		if !allowed {
			logger.Warnw("rbac_permission_denied",
				"role", role,
				"user_id", c.GetUint(userIDContextKey),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"resource", authz.NormalizeObject(resource),
			)
			response.Forbidden(c, i18n.T(i18n.ResolveLocale(c), "error.forbidden"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// MetricsMiddleware 记录请求耗时，按路由模板聚合
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		m.ObserveHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
