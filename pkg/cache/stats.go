package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Stats Redis运行统计
type Stats struct {
	ConnectedClients int64   `json:"connected_clients"`
	UsedMemory       int64   `json:"used_memory"`
	UsedMemoryHuman  string  `json:"used_memory_human"`
	KeyspaceHits     int64   `json:"keyspace_hits"`
	KeyspaceMisses   int64   `json:"keyspace_misses"`
	HitRate          float64 `json:"hit_rate"`
	TotalKeys        int     `json:"total_keys"`
	UptimeSeconds    int64   `json:"uptime_seconds"`
}

// Stats 采集Redis服务端统计，TotalKeys只统计本前缀下的键
func (m *Manager) Stats() (*Stats, error) {
	if m.client == nil {
		return nil, fmt.Errorf("redis不可用")
	}

	raw, err := m.client.Info(context.Background()).Result()
	if err != nil {
		return nil, err
	}

	fields := parseInfoFields(raw)
	stats := &Stats{
		ConnectedClients: parseInfoInt(fields, "connected_clients"),
		UsedMemory:       parseInfoInt(fields, "used_memory"),
		UsedMemoryHuman:  fields["used_memory_human"],
		KeyspaceHits:     parseInfoInt(fields, "keyspace_hits"),
		KeyspaceMisses:   parseInfoInt(fields, "keyspace_misses"),
		TotalKeys:        len(m.Keys("*")),
		UptimeSeconds:    parseInfoInt(fields, "uptime_in_seconds"),
	}
	stats.HitRate = hitRate(stats.KeyspaceHits, stats.KeyspaceMisses)

	return stats, nil
}

// parseInfoFields 解析INFO命令的 key:value 行，忽略节标题和注释
func parseInfoFields(raw string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		fields[parts[0]] = parts[1]
	}
	return fields
}

func parseInfoInt(fields map[string]string, key string) int64 {
	v, err := strconv.ParseInt(fields[key], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// hitRate 命中率百分比，无访问记录时为0
func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}
