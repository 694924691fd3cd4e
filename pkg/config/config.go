package config

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig `mapstructure:"jwt"`
	Log      LogConfig
	Cache    CacheConfig
	Backup   BackupConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey       string `mapstructure:"secret_key"`       // JWT密钥
	TokenDuration   string `mapstructure:"token_duration"`   // 令牌有效期，如 "24h"
	RefreshDuration string `mapstructure:"refresh_duration"` // 刷新令牌有效期
}

type LogConfig struct {
	Level      string
	FilePath   string
	MaxSize    int    // MB
	MaxBackups int    // 保留的备份文件数
	MaxAge     int    // 保留天数
	Compress   bool   // 是否压缩
	Format     string // json 或 text
}

type CacheConfig struct {
	Host            string // Redis主机地址
	Port            int    // Redis端口
	Password        string // Redis密码
	DB              int    // Redis数据库编号
	DefaultTTL      int    // 默认过期时间（秒）
	KeyPrefix       string // 缓存键前缀，用于和其他应用共享Redis时隔离键空间
	SerializeMethod string // 序列化方式：json 或 gob
}

type BackupConfig struct {
	Dir           string   // 备份文件存放目录
	RetentionDays int      // 备份保留天数
	Compression   bool     // 是否gzip压缩数据库备份
	PgDumpBin     string   // pg_dump可执行文件（测试时可替换）
	PsqlBin       string   // psql可执行文件
	FilePaths     []string // 需要备份的文件路径列表

	// S3镜像（可选，Bucket为空时不启用）
	S3Bucket     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string

	// 调度配置
	ScheduleEnabled bool   // 是否启动内置备份调度
	FullCron        string // 全量备份cron表达式
	IncrementalCron string // 增量备份cron表达式
	CleanupCron     string // 清理任务cron表达式
}

type CORSConfig struct {
	AllowOrigins     []string // 允许的源
	AllowMethods     []string // 允许的HTTP方法
	AllowHeaders     []string // 允许的请求头
	ExposeHeaders    []string // 暴露的响应头
	AllowCredentials bool     // 是否允许携带凭证
	MaxAge           int      // 预检请求缓存时间（小时）
}

// 全局配置实例和同步锁
var (
	globalConfig *Config
	once         sync.Once
)

func GetConfig() *Config {
	once.Do(func() {
		var err error
		globalConfig, err = LoadConfig()
		if err != nil {
			// 如果加载失败，可以panic或使用默认配置
			panic("Failed to load config: " + err.Error())
		}
	})
	return globalConfig
}

// 获取环境变量，如果不存在则使用默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// 获取环境变量转换为int
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// 获取环境变量转换为bool
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true"
	}
	return defaultValue
}

// 获取环境变量转换为字符串数组（逗号分隔）
func getEnvAsStringArray(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		// 处理逗号分隔的字符串，去除空格
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return defaultValue
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Mode: getEnv("SERVER_MODE", "debug"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "schoolhub"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey:       getEnv("JWT_SECRET_KEY", "default-secret-change-me"),
			TokenDuration:   getEnv("JWT_TOKEN_DURATION", "24h"),
			RefreshDuration: getEnv("JWT_REFRESH_DURATION", "7d"),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			FilePath:   getEnv("LOG_FILE_PATH", "logs/app.log"),
			MaxSize:    getEnvAsInt("LOG_MAX_SIZE", 100),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 7),
			MaxAge:     getEnvAsInt("LOG_MAX_AGE", 30),
			Compress:   getEnvAsBool("LOG_COMPRESS", true),
			Format:     getEnv("LOG_FORMAT", "json"),
		},
		Cache: CacheConfig{
			Host:            getEnv("REDIS_HOST", "localhost"),
			Port:            getEnvAsInt("REDIS_PORT", 6379),
			Password:        getEnv("REDIS_PASSWORD", ""),
			DB:              getEnvAsInt("REDIS_DB", 0),
			DefaultTTL:      getEnvAsInt("CACHE_DEFAULT_TTL", 3600),
			KeyPrefix:       getEnv("CACHE_KEY_PREFIX", "schoolhub:"),
			SerializeMethod: getEnv("CACHE_SERIALIZE_METHOD", "json"),
		},
		Backup: BackupConfig{
			Dir:             getEnv("BACKUP_DIR", "./backups"),
			RetentionDays:   getEnvAsInt("BACKUP_RETENTION_DAYS", 30),
			Compression:     getEnvAsBool("BACKUP_COMPRESSION", true),
			PgDumpBin:       getEnv("BACKUP_PG_DUMP_BIN", "pg_dump"),
			PsqlBin:         getEnv("BACKUP_PSQL_BIN", "psql"),
			FilePaths:       getEnvAsStringArray("BACKUP_FILE_PATHS", []string{"./uploads", "./static", "./logs"}),
			S3Bucket:        getEnv("BACKUP_S3_BUCKET", ""),
			S3Region:        getEnv("BACKUP_S3_REGION", "us-east-1"),
			AWSAccessKey:    getEnv("AWS_ACCESS_KEY_ID", ""),
			AWSSecretKey:    getEnv("AWS_SECRET_ACCESS_KEY", ""),
			ScheduleEnabled: getEnvAsBool("BACKUP_SCHEDULE_ENABLED", true),
			FullCron:        getEnv("BACKUP_FULL_CRON", "0 2 * * *"),
			IncrementalCron: getEnv("BACKUP_INCREMENTAL_CRON", "0 9-16 * * *"),
			CleanupCron:     getEnv("BACKUP_CLEANUP_CRON", "0 3 * * *"),
		},
		CORS: CORSConfig{
			AllowOrigins:     getEnvAsStringArray("CORS_ALLOW_ORIGINS", []string{"*"}),
			AllowMethods:     getEnvAsStringArray("CORS_ALLOW_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}),
			AllowHeaders:     getEnvAsStringArray("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"}),
			ExposeHeaders:    getEnvAsStringArray("CORS_EXPOSE_HEADERS", []string{"Content-Length", "Content-Type"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 12),
		},
	}

	return config, nil
}
