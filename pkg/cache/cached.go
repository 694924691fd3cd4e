package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"schoolhub/pkg/logger"
)

// KeyFunc 自定义缓存键生成函数
type KeyFunc func(args ...interface{}) string

// ConditionFunc 缓存条件判断，返回false时本次调用完全绕过缓存
type ConditionFunc func(args ...interface{}) bool

// cachedOptions 记忆化包装配置
type cachedOptions struct {
	ttl       int
	keyFunc   KeyFunc
	condition ConditionFunc
}

// CachedOption 记忆化包装选项
type CachedOption func(*cachedOptions)

// WithTTL 指定缓存结果的TTL（秒）
func WithTTL(ttl int) CachedOption {
	return func(o *cachedOptions) { o.ttl = ttl }
}

// WithKeyFunc 指定自定义键生成函数
func WithKeyFunc(fn KeyFunc) CachedOption {
	return func(o *cachedOptions) { o.keyFunc = fn }
}

// WithCondition 指定缓存条件（如排除非幂等调用）
func WithCondition(fn ConditionFunc) CachedOption {
	return func(o *cachedOptions) { o.condition = fn }
}

// ArgsKey 根据参数生成确定性缓存键
// 参数先做规范化JSON编码（map键排序，与参数内部顺序无关）再取md5
func ArgsKey(args ...interface{}) string {
	data, err := json.Marshal(args)
	if err != nil {
		// 无法编码的参数退化为字符串表示
		data = []byte(fmt.Sprint(args...))
	}
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// Cached 将任意操作包装为带记忆化的操作
// 替代Python里的装饰器写法：显式高阶函数，接收操作返回包装后的操作。
//   - manager为nil或不可用时直接透传调用
//   - 命中缓存直接返回缓存值，不执行原操作
//   - 未命中时执行原操作，结果写入缓存后返回
//   - 原操作返回error时不缓存
//
// 注意：同一键并发未命中时可能重复执行原操作（缓存击穿），按设计接受。
func Cached[T any](manager *Manager, name string, fn func(args ...interface{}) (T, error), opts ...CachedOption) func(args ...interface{}) (T, error) {
	options := &cachedOptions{}
	for _, opt := range opts {
		opt(options)
	}

	return func(args ...interface{}) (T, error) {
		if !manager.Available() {
			return fn(args...)
		}

		// 缓存条件不满足时完全绕过缓存
		if options.condition != nil && !options.condition(args...) {
			return fn(args...)
		}

		// 生成缓存键
		var key string
		if options.keyFunc != nil {
			key = options.keyFunc(args...)
		} else {
			key = fmt.Sprintf("%s:%s", name, ArgsKey(args...))
		}

		// 尝试读取缓存
		var cached T
		if manager.Get(key, &cached) {
			logger.GetLogger().Debugf("缓存命中 key=%s", key)
			return cached, nil
		}

		// 执行原操作并缓存结果
		result, err := fn(args...)
		if err != nil {
			return result, err
		}

		manager.Set(key, result, options.ttl)
		logger.GetLogger().Debugf("缓存写入 key=%s", key)
		return result, nil
	}
}
