package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/o4o-platform/settlement/internal/logger"
)

// Loader 缓存未命中时的数据加载函数
type Loader[T any] func(ctx context.Context) (T, error)

// Remember 旁路缓存读取：命中直接返回，未命中调用 loader 并回写。
// 缓存读写失败只记录日志，不影响主流程。
func Remember[T any](ctx context.Context, key string, ttl time.Duration, forceRefresh bool, loader Loader[T]) (T, error) {
	var cached T
	if !forceRefresh {
		hit, err := GetJSON(ctx, key, &cached)
		if err != nil {
			logger.Warnw("cache_remember_get_failed", "key", key, "error", err)
		} else if hit {
			return cached, nil
		}
	}

	value, err := loader(ctx)
	if err != nil {
		return value, err
	}
	if ttl > 0 {
		if err := SetJSON(ctx, key, value, ttl); err != nil {
			logger.Warnw("cache_remember_set_failed", "key", key, "error", err)
		}
	}
	return value, nil
}

// HashKey 根据命名空间、作用域与参数生成稳定的缓存 key
// 参数经 JSON 序列化（map 键有序）后取 sha256，保证相同参数得到相同 key。
func HashKey(namespace string, scope interface{}, params interface{}) string {
	if params == nil {
		params = map[string]interface{}{}
	}
	encoded, err := json.Marshal(params)
	if err != nil {
		encoded = []byte(fmt.Sprintf("%v", params))
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%v|%s", scope, encoded)))
	return fmt.Sprintf("%s:%s", namespace, hex.EncodeToString(sum[:]))
}
