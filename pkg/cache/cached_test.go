package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedMemoizesResult(t *testing.T) {
	m, _ := newTestManager(t, &Config{KeyPrefix: "t:", DefaultTTL: 60})

	calls := 0
	square := Cached(m, "square", func(args ...interface{}) (int, error) {
		calls++
		n := args[0].(int)
		return n * n, nil
	}, WithTTL(60))

	// TTL窗口内相同参数只执行一次
	r1, err := square(5)
	require.NoError(t, err)
	r2, err := square(5)
	require.NoError(t, err)
	assert.Equal(t, 25, r1)
	assert.Equal(t, 25, r2)
	assert.Equal(t, 1, calls)

	// 不同参数各自执行
	r3, err := square(6)
	require.NoError(t, err)
	assert.Equal(t, 36, r3)
	assert.Equal(t, 2, calls)
}

func TestCachedExpiry(t *testing.T) {
	m, mr := newTestManager(t, &Config{KeyPrefix: "t:", DefaultTTL: 60})

	calls := 0
	fn := Cached(m, "fn", func(args ...interface{}) (string, error) {
		calls++
		return "v", nil
	}, WithTTL(10))

	_, err := fn()
	require.NoError(t, err)
	mr.FastForward(11 * time.Second)
	_, err = fn()
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCachedConditionBypassesCache(t *testing.T) {
	m, _ := newTestManager(t, &Config{KeyPrefix: "t:", DefaultTTL: 60})

	calls := 0
	fn := Cached(m, "fn", func(args ...interface{}) (int, error) {
		calls++
		return calls, nil
	}, WithCondition(func(args ...interface{}) bool {
		// 只缓存正数参数
		return args[0].(int) > 0
	}))

	// 条件为false时每次都执行原操作
	_, _ = fn(-1)
	_, _ = fn(-1)
	assert.Equal(t, 2, calls)

	// 条件为true时正常记忆化
	_, _ = fn(1)
	_, _ = fn(1)
	assert.Equal(t, 3, calls)
}

func TestCachedCustomKeyFunc(t *testing.T) {
	m, _ := newTestManager(t, &Config{KeyPrefix: "t:", DefaultTTL: 60})

	fn := Cached(m, "fn", func(args ...interface{}) (string, error) {
		return fmt.Sprintf("result-%v", args[0]), nil
	}, WithKeyFunc(func(args ...interface{}) string {
		return fmt.Sprintf("custom:%v", args[0])
	}))

	_, err := fn(7)
	require.NoError(t, err)
	assert.True(t, m.Exists("custom:7"))
}

func TestCachedErrorNotCached(t *testing.T) {
	m, _ := newTestManager(t, &Config{KeyPrefix: "t:", DefaultTTL: 60})

	calls := 0
	fn := Cached(m, "fn", func(args ...interface{}) (int, error) {
		calls++
		if calls == 1 {
			return 0, fmt.Errorf("临时故障")
		}
		return 99, nil
	})

	_, err := fn()
	require.Error(t, err)

	// 失败结果没有进缓存，下一次重新执行
	v, err := fn()
	require.NoError(t, err)
	assert.Equal(t, 99, v)
	assert.Equal(t, 2, calls)
}

func TestCachedUnavailableManagerCallsThrough(t *testing.T) {
	m := NewManagerWithClient(nil, &Config{KeyPrefix: "t:", DefaultTTL: 60})

	calls := 0
	fn := Cached(m, "fn", func(args ...interface{}) (int, error) {
		calls++
		return calls, nil
	})

	v1, _ := fn()
	v2, _ := fn()
	assert.Equal(t, 1, v1)
	assert.Equal(t, 2, v2)
}

func TestArgsKeyDeterministic(t *testing.T) {
	// 相同参数生成相同键
	assert.Equal(t, ArgsKey(1, "a"), ArgsKey(1, "a"))
	// 不同参数生成不同键
	assert.NotEqual(t, ArgsKey(1, "a"), ArgsKey(1, "b"))
	// map参数与内部顺序无关（JSON编码按键排序）
	assert.Equal(t,
		ArgsKey(map[string]int{"a": 1, "b": 2}),
		ArgsKey(map[string]int{"b": 2, "a": 1}))
}
