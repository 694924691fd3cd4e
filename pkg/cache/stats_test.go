package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInfoFields(t *testing.T) {
	raw := "# Server\r\nredis_version:7.0.0\r\nuptime_in_seconds:3600\r\n\r\n# Clients\r\nconnected_clients:2\r\n# Stats\r\nkeyspace_hits:90\r\nkeyspace_misses:10\r\n"

	fields := parseInfoFields(raw)
	assert.Equal(t, "7.0.0", fields["redis_version"])
	assert.Equal(t, int64(3600), parseInfoInt(fields, "uptime_in_seconds"))
	assert.Equal(t, int64(2), parseInfoInt(fields, "connected_clients"))
	assert.Equal(t, int64(90), parseInfoInt(fields, "keyspace_hits"))

	// 节标题不产生字段，缺失字段解析为0
	assert.NotContains(t, fields, "# Server")
	assert.Equal(t, int64(0), parseInfoInt(fields, "nonexistent"))
}

func TestHitRate(t *testing.T) {
	assert.Equal(t, 90.0, hitRate(90, 10))
	assert.Equal(t, 0.0, hitRate(0, 0))
	assert.Equal(t, 100.0, hitRate(5, 0))
}

func TestStatsUnavailableManager(t *testing.T) {
	m := NewManagerWithClient(nil, &Config{KeyPrefix: "t:", DefaultTTL: 60})

	stats, err := m.Stats()
	assert.Error(t, err)
	assert.Nil(t, stats)
}
