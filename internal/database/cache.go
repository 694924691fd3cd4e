package database

import (
	"sync"

	"schoolhub/pkg/cache"
	"schoolhub/pkg/config"
)

var (
	cacheManagerInstance *cache.Manager
	cacheManagerOnce     sync.Once
)

// GetCacheManager 获取缓存管理器的单例实例
func GetCacheManager() *cache.Manager {
	cacheManagerOnce.Do(func() {
		cfg := config.GetConfig()
		cacheManagerInstance = cache.NewManager(&cache.Config{
			Host:            cfg.Cache.Host,
			Port:            cfg.Cache.Port,
			Password:        cfg.Cache.Password,
			DB:              cfg.Cache.DB,
			DefaultTTL:      cfg.Cache.DefaultTTL,
			KeyPrefix:       cfg.Cache.KeyPrefix,
			SerializeMethod: cfg.Cache.SerializeMethod,
		})
	})
	return cacheManagerInstance
}

// CloseCacheManager 关闭Redis连接
func CloseCacheManager() error {
	if cacheManagerInstance != nil {
		return cacheManagerInstance.Close()
	}
	return nil
}
