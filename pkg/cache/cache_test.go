package cache

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestManager 启动miniredis并构建缓存管理器
func newTestManager(t *testing.T, cfg *Config) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	m := NewManagerWithClient(client, cfg)
	t.Cleanup(func() { _ = client.Close() })
	return m, mr
}

func TestSetGetRoundTrip(t *testing.T) {
	m, _ := newTestManager(t, &Config{KeyPrefix: "test:", DefaultTTL: 60})

	type student struct {
		Name  string  `json:"name"`
		Score float64 `json:"score"`
	}

	// 结构体
	require.True(t, m.Set("stu", student{Name: "张三", Score: 92.5}, 0))
	var got student
	require.True(t, m.Get("stu", &got))
	assert.Equal(t, student{Name: "张三", Score: 92.5}, got)

	// map
	require.True(t, m.Set("m", map[string]interface{}{"a": "b"}, 0))
	var gotMap map[string]interface{}
	require.True(t, m.Get("m", &gotMap))
	assert.Equal(t, "b", gotMap["a"])

	// 切片和标量
	require.True(t, m.Set("list", []int{1, 2, 3}, 0))
	var gotList []int
	require.True(t, m.Get("list", &gotList))
	assert.Equal(t, []int{1, 2, 3}, gotList)

	require.True(t, m.Set("n", 42, 0))
	var gotInt int
	require.True(t, m.Get("n", &gotInt))
	assert.Equal(t, 42, gotInt)
}

func TestGobSerialization(t *testing.T) {
	m, _ := newTestManager(t, &Config{KeyPrefix: "gob:", DefaultTTL: 60, SerializeMethod: SerializeGob})

	type record struct {
		ID   uint
		Blob []byte
	}

	// gob保留二进制字段，JSON做不到无损
	in := record{ID: 7, Blob: []byte{0x00, 0xff, 0x10}}
	require.True(t, m.Set("r", in, 0))
	var out record
	require.True(t, m.Get("r", &out))
	assert.Equal(t, in, out)
}

func TestKeyPrefix(t *testing.T) {
	m, mr := newTestManager(t, &Config{KeyPrefix: "app:", DefaultTTL: 60})

	require.True(t, m.Set("user:1", "alice", 60))

	// 存储键带前缀
	assert.True(t, mr.Exists("app:user:1"))

	// Keys返回剥掉前缀的键
	keys := m.Keys("user:*")
	assert.Equal(t, []string{"user:1"}, keys)
}

func TestTTLExpiry(t *testing.T) {
	m, mr := newTestManager(t, &Config{KeyPrefix: "t:", DefaultTTL: 60})

	require.True(t, m.Set("k", "v", 30))
	assert.Equal(t, 30, m.TTL("k"))

	// 时钟推进到TTL之后，读取表现为未命中
	mr.FastForward(31 * time.Second)
	var out string
	assert.False(t, m.Get("k", &out))
	assert.False(t, m.Exists("k"))
}

func TestTTLUnknownCases(t *testing.T) {
	m, mr := newTestManager(t, &Config{KeyPrefix: "t:", DefaultTTL: 60})

	// 不存在的键
	assert.Equal(t, -1, m.TTL("missing"))

	// 无TTL的键（绕过管理器直接写入）
	require.NoError(t, mr.Set("t:forever", "v"))
	assert.Equal(t, -1, m.TTL("forever"))
}

func TestExpireRefreshesTTLOnly(t *testing.T) {
	m, mr := newTestManager(t, &Config{KeyPrefix: "t:", DefaultTTL: 60})

	require.True(t, m.Set("k", "v", 10))
	require.True(t, m.Expire("k", 100))
	assert.Equal(t, 100, m.TTL("k"))

	// 值没有被重写
	var out string
	require.True(t, m.Get("k", &out))
	assert.Equal(t, "v", out)

	// 推进原TTL之后仍存活
	mr.FastForward(50 * time.Second)
	assert.True(t, m.Exists("k"))

	// 对不存在的键Expire返回false
	assert.False(t, m.Expire("missing", 10))
}

func TestDeleteAndExists(t *testing.T) {
	m, _ := newTestManager(t, &Config{KeyPrefix: "t:", DefaultTTL: 60})

	require.True(t, m.Set("k", "v", 0))
	assert.True(t, m.Exists("k"))
	assert.True(t, m.Delete("k"))
	assert.False(t, m.Exists("k"))

	// 重复删除返回false
	assert.False(t, m.Delete("k"))
}

func TestSetNXAndSetXX(t *testing.T) {
	m, _ := newTestManager(t, &Config{KeyPrefix: "t:", DefaultTTL: 60})

	// NX：不存在时才写入
	assert.True(t, m.SetNX("claim", "worker-1", 60))
	assert.False(t, m.SetNX("claim", "worker-2", 60))
	var owner string
	require.True(t, m.Get("claim", &owner))
	assert.Equal(t, "worker-1", owner)

	// XX：存在时才写入
	assert.False(t, m.SetXX("absent", "v", 60))
	assert.True(t, m.SetXX("claim", "worker-3", 60))
	require.True(t, m.Get("claim", &owner))
	assert.Equal(t, "worker-3", owner)
}

func TestFlushOnlyOwnPrefix(t *testing.T) {
	m, mr := newTestManager(t, &Config{KeyPrefix: "app:", DefaultTTL: 60})

	require.True(t, m.Set("a", 1, 0))
	require.True(t, m.Set("b", 2, 0))

	// 其他应用的键
	require.NoError(t, mr.Set("other:keep", "v"))

	assert.True(t, m.Flush())
	assert.False(t, m.Exists("a"))
	assert.False(t, m.Exists("b"))
	assert.True(t, mr.Exists("other:keep"))

	// 空前缀空间再次Flush也成功
	assert.True(t, m.Flush())
}

func TestMGetMSet(t *testing.T) {
	m, _ := newTestManager(t, &Config{KeyPrefix: "t:", DefaultTTL: 60})

	require.True(t, m.MSet(map[string]interface{}{
		"x": 1,
		"y": 2,
	}, 30))
	assert.Equal(t, 30, m.TTL("x"))
	assert.Equal(t, 30, m.TTL("y"))

	var x, y, z int
	hits := m.MGet([]string{"x", "y", "z"}, []interface{}{&x, &y, &z})
	assert.Equal(t, []bool{true, true, false}, hits)
	assert.Equal(t, 1, x)
	assert.Equal(t, 2, y)
}

func TestCorruptedValueIsMiss(t *testing.T) {
	m, mr := newTestManager(t, &Config{KeyPrefix: "t:", DefaultTTL: 60})

	// 直接写入非JSON内容
	require.NoError(t, mr.Set("t:bad", "{not-json"))
	var out map[string]interface{}
	assert.False(t, m.Get("bad", &out))
}

func TestUnavailableManagerFailsOpen(t *testing.T) {
	// 没有客户端的管理器：所有操作降级，不panic
	m := NewManagerWithClient(nil, &Config{KeyPrefix: "t:", DefaultTTL: 60})

	assert.False(t, m.Available())
	assert.False(t, m.Set("k", "v", 0))
	var out string
	assert.False(t, m.Get("k", &out))
	assert.False(t, m.Delete("k"))
	assert.False(t, m.Exists("k"))
	assert.False(t, m.Expire("k", 10))
	assert.Equal(t, -1, m.TTL("k"))
	assert.Empty(t, m.Keys("*"))
	assert.False(t, m.Flush())
	assert.Equal(t, []bool{false}, m.MGet([]string{"k"}, []interface{}{&out}))
	assert.False(t, m.MSet(map[string]interface{}{"k": "v"}, 0))
}

func TestInvalidatePattern(t *testing.T) {
	m, _ := newTestManager(t, &Config{KeyPrefix: "t:", DefaultTTL: 60})

	require.True(t, m.Set("student:1", "a", 0))
	require.True(t, m.Set("student:2", "b", 0))
	require.True(t, m.Set("teacher:1", "c", 0))

	assert.Equal(t, 2, m.InvalidatePattern("student:*"))
	assert.False(t, m.Exists("student:1"))
	assert.True(t, m.Exists("teacher:1"))
}
