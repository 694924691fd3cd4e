package cache

import (
	"bytes"
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"schoolhub/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// 序列化方式常量
const (
	SerializeJSON = "json" // JSON文本，可与其他系统互通，但丢失非JSON原生类型
	SerializeGob  = "gob"  // Go二进制编码，保留任意Go值，不可互通
)

// Config 缓存配置
type Config struct {
	Host            string // Redis主机地址
	Port            int    // Redis端口
	Password        string // Redis密码
	DB              int    // Redis数据库编号
	DefaultTTL      int    // 默认过期时间（秒）
	KeyPrefix       string // 键前缀，隔离多应用共享的Redis键空间
	SerializeMethod string // json 或 gob
}

// Manager 缓存管理器
// 所有操作失败时降级为安全默认值（false/未命中/空列表），不向调用方抛错：
// 缓存只是性能优化，缓存整体不可用时系统必须保持功能正确，只是变慢。
type Manager struct {
	config *Config
	client *redis.Client
}

// NewManager 创建缓存管理器
// 连接失败不报错，返回的管理器所有操作都会降级为未命中
func NewManager(config *Config) *Manager {
	if config.SerializeMethod == "" {
		config.SerializeMethod = SerializeJSON
	}
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = 3600
	}

	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password:    config.Password,
		DB:          config.DB,
		DialTimeout: 5 * time.Second,
		ReadTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.GetLogger().Errorf("Redis连接失败，缓存降级为直通模式: %v", err)
		client.Close()
		return &Manager{config: config}
	}

	logger.GetLogger().Info("Redis缓存连接成功")
	return &Manager{config: config, client: client}
}

// NewManagerWithClient 用已有客户端创建管理器（测试用）
func NewManagerWithClient(client *redis.Client, config *Config) *Manager {
	if config.SerializeMethod == "" {
		config.SerializeMethod = SerializeJSON
	}
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = 3600
	}
	return &Manager{config: config, client: client}
}

// Close 关闭Redis连接
func (m *Manager) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}

// Available 缓存是否可用
func (m *Manager) Available() bool {
	return m != nil && m.client != nil
}

// GetClient 获取底层Redis客户端（供pub/sub等高级用法使用），不可用时返回nil
func (m *Manager) GetClient() *redis.Client {
	if m == nil {
		return nil
	}
	return m.client
}

// DefaultTTL 默认过期时间
func (m *Manager) DefaultTTL() time.Duration {
	return time.Duration(m.config.DefaultTTL) * time.Second
}

// fullKey 拼接完整缓存键
func (m *Manager) fullKey(key string) string {
	return m.config.KeyPrefix + key
}

// serialize 序列化值
func (m *Manager) serialize(value interface{}) ([]byte, error) {
	switch m.config.SerializeMethod {
	case SerializeJSON:
		return json.Marshal(value)
	case SerializeGob:
		var buf bytes.Buffer
		if err := gob.NewEncoder(&buf).Encode(value); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("不支持的序列化方式: %s", m.config.SerializeMethod)
	}
}

// deserialize 反序列化到dest（dest必须是指针）
func (m *Manager) deserialize(data []byte, dest interface{}) error {
	switch m.config.SerializeMethod {
	case SerializeJSON:
		return json.Unmarshal(data, dest)
	case SerializeGob:
		return gob.NewDecoder(bytes.NewReader(data)).Decode(dest)
	default:
		return fmt.Errorf("不支持的序列化方式: %s", m.config.SerializeMethod)
	}
}

// resolveTTL ttl<=0时使用默认TTL
func (m *Manager) resolveTTL(ttl int) time.Duration {
	if ttl <= 0 {
		ttl = m.config.DefaultTTL
	}
	return time.Duration(ttl) * time.Second
}

// ========== 基础操作 ==========

// Set 写入缓存，ttl单位秒，ttl<=0时使用默认TTL
func (m *Manager) Set(key string, value interface{}, ttl int) bool {
	if !m.Available() {
		return false
	}

	data, err := m.serialize(value)
	if err != nil {
		logger.GetLogger().Errorf("缓存序列化失败 key=%s: %v", key, err)
		return false
	}

	ctx := context.Background()
	if err := m.client.Set(ctx, m.fullKey(key), data, m.resolveTTL(ttl)).Err(); err != nil {
		logger.GetLogger().Errorf("缓存写入失败 key=%s: %v", key, err)
		return false
	}
	return true
}

// SetNX 仅当键不存在时写入（可用于分布式抢占）
func (m *Manager) SetNX(key string, value interface{}, ttl int) bool {
	if !m.Available() {
		return false
	}

	data, err := m.serialize(value)
	if err != nil {
		logger.GetLogger().Errorf("缓存序列化失败 key=%s: %v", key, err)
		return false
	}

	ctx := context.Background()
	ok, err := m.client.SetNX(ctx, m.fullKey(key), data, m.resolveTTL(ttl)).Result()
	if err != nil {
		logger.GetLogger().Errorf("缓存SetNX失败 key=%s: %v", key, err)
		return false
	}
	return ok
}

// SetXX 仅当键已存在时写入
func (m *Manager) SetXX(key string, value interface{}, ttl int) bool {
	if !m.Available() {
		return false
	}

	data, err := m.serialize(value)
	if err != nil {
		logger.GetLogger().Errorf("缓存序列化失败 key=%s: %v", key, err)
		return false
	}

	ctx := context.Background()
	ok, err := m.client.SetXX(ctx, m.fullKey(key), data, m.resolveTTL(ttl)).Result()
	if err != nil {
		logger.GetLogger().Errorf("缓存SetXX失败 key=%s: %v", key, err)
		return false
	}
	return ok
}

// Get 读取缓存并反序列化到dest，返回是否命中
// 未命中、解码失败、Redis异常统一按未命中处理
func (m *Manager) Get(key string, dest interface{}) bool {
	if !m.Available() {
		return false
	}

	ctx := context.Background()
	data, err := m.client.Get(ctx, m.fullKey(key)).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		logger.GetLogger().Errorf("缓存读取失败 key=%s: %v", key, err)
		return false
	}

	if err := m.deserialize(data, dest); err != nil {
		logger.GetLogger().Errorf("缓存反序列化失败 key=%s: %v", key, err)
		return false
	}
	return true
}

// Delete 删除缓存键，返回是否实际删除了键
func (m *Manager) Delete(key string) bool {
	if !m.Available() {
		return false
	}

	ctx := context.Background()
	n, err := m.client.Del(ctx, m.fullKey(key)).Result()
	if err != nil {
		logger.GetLogger().Errorf("缓存删除失败 key=%s: %v", key, err)
		return false
	}
	return n > 0
}

// Exists 判断键是否存在
func (m *Manager) Exists(key string) bool {
	if !m.Available() {
		return false
	}

	ctx := context.Background()
	n, err := m.client.Exists(ctx, m.fullKey(key)).Result()
	if err != nil {
		logger.GetLogger().Errorf("缓存Exists失败 key=%s: %v", key, err)
		return false
	}
	return n > 0
}

// Expire 更新已有键的过期时间（不重写值）
func (m *Manager) Expire(key string, ttl int) bool {
	if !m.Available() {
		return false
	}

	ctx := context.Background()
	ok, err := m.client.Expire(ctx, m.fullKey(key), time.Duration(ttl)*time.Second).Result()
	if err != nil {
		logger.GetLogger().Errorf("缓存Expire失败 key=%s: %v", key, err)
		return false
	}
	return ok
}

// TTL 获取键的剩余存活秒数
// 返回-1表示无TTL、键不存在或Redis不可用，调用方无法区分这三种情况
func (m *Manager) TTL(key string) int {
	if !m.Available() {
		return -1
	}

	ctx := context.Background()
	d, err := m.client.TTL(ctx, m.fullKey(key)).Result()
	if err != nil {
		logger.GetLogger().Errorf("缓存TTL查询失败 key=%s: %v", key, err)
		return -1
	}
	if d < 0 {
		return -1
	}
	return int(d.Seconds())
}

// Keys 按模式枚举本实例前缀下的键，返回时剥掉前缀
func (m *Manager) Keys(pattern string) []string {
	if !m.Available() {
		return []string{}
	}

	ctx := context.Background()
	fullKeys, err := m.client.Keys(ctx, m.fullKey(pattern)).Result()
	if err != nil {
		logger.GetLogger().Errorf("缓存Keys查询失败 pattern=%s: %v", pattern, err)
		return []string{}
	}

	keys := make([]string, 0, len(fullKeys))
	for _, k := range fullKeys {
		keys = append(keys, strings.TrimPrefix(k, m.config.KeyPrefix))
	}
	return keys
}

// Flush 清空本实例前缀下的全部键
// 只删除自己前缀的键，绝不触碰共享Redis中其他应用的键
func (m *Manager) Flush() bool {
	if !m.Available() {
		return false
	}

	ctx := context.Background()
	keys, err := m.client.Keys(ctx, m.fullKey("*")).Result()
	if err != nil {
		logger.GetLogger().Errorf("缓存Flush失败: %v", err)
		return false
	}
	if len(keys) == 0 {
		return true
	}

	if err := m.client.Del(ctx, keys...).Err(); err != nil {
		logger.GetLogger().Errorf("缓存Flush删除失败: %v", err)
		return false
	}
	return true
}

// ========== 批量操作 ==========

// MGet 批量读取，dests中每个元素为接收指针，返回每个键是否命中
func (m *Manager) MGet(keys []string, dests []interface{}) []bool {
	hits := make([]bool, len(keys))
	if !m.Available() || len(keys) == 0 || len(keys) != len(dests) {
		return hits
	}

	fullKeys := make([]string, len(keys))
	for i, k := range keys {
		fullKeys[i] = m.fullKey(k)
	}

	ctx := context.Background()
	values, err := m.client.MGet(ctx, fullKeys...).Result()
	if err != nil {
		logger.GetLogger().Errorf("缓存MGet失败: %v", err)
		return hits
	}

	for i, v := range values {
		if v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		if err := m.deserialize([]byte(s), dests[i]); err != nil {
			logger.GetLogger().Errorf("缓存反序列化失败 key=%s: %v", keys[i], err)
			continue
		}
		hits[i] = true
	}
	return hits
}

// MSet 批量写入，ttl>0时对每个键应用同一TTL
func (m *Manager) MSet(mapping map[string]interface{}, ttl int) bool {
	if !m.Available() || len(mapping) == 0 {
		return false
	}

	pairs := make([]interface{}, 0, len(mapping)*2)
	for k, v := range mapping {
		data, err := m.serialize(v)
		if err != nil {
			logger.GetLogger().Errorf("缓存序列化失败 key=%s: %v", k, err)
			return false
		}
		pairs = append(pairs, m.fullKey(k), data)
	}

	ctx := context.Background()
	if err := m.client.MSet(ctx, pairs...).Err(); err != nil {
		logger.GetLogger().Errorf("缓存MSet失败: %v", err)
		return false
	}

	if ttl > 0 {
		for k := range mapping {
			m.Expire(k, ttl)
		}
	}
	return true
}

// InvalidatePattern 删除匹配模式的全部键，返回删除数量
func (m *Manager) InvalidatePattern(pattern string) int {
	keys := m.Keys(pattern)
	count := 0
	for _, k := range keys {
		if m.Delete(k) {
			count++
		}
	}
	if count > 0 {
		logger.GetLogger().Infof("缓存失效 pattern=%s 删除%d个键", pattern, count)
	}
	return count
}
