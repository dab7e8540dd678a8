package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Lock     LockConfig     `mapstructure:"lock"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Business BusinessConfig `mapstructure:"business"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// StoreConfig 存储后端选择
// memory: 带模拟延迟的内存表（默认，单机自包含）
// mysql:  gorm + MySQL
type StoreConfig struct {
	Driver         string        `mapstructure:"driver"`
	MemSelectDelay time.Duration `mapstructure:"mem_select_delay"`
	MemWriteDelay  time.Duration `mapstructure:"mem_write_delay"`
}

// LockConfig 用户锁提供方
// local: 进程内锁（默认）
// redis: 跨实例的 Redis 锁
type LockConfig struct {
	Provider string `mapstructure:"provider"`
}

type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Enabled bool             `mapstructure:"enabled"`
	Brokers []string         `mapstructure:"brokers"`
	Topic   KafkaTopicConfig `mapstructure:"topic"`
}

type KafkaTopicConfig struct {
	PointEvent string `mapstructure:"point_event"`
}

// BusinessConfig 业务规则开关
// 最低使用额度和"未充值用户能否扣减"两条规则在需求上有分歧，做成配置
type BusinessConfig struct {
	MinUsePoints           int64 `mapstructure:"min_use_points"`
	EnforceMinUse          bool  `mapstructure:"enforce_min_use"`
	AllowUseWithoutAccount bool  `mapstructure:"allow_use_without_account"`
	MaxRetryCount          int   `mapstructure:"max_retry_count"`
}

var GlobalConfig *Config

// LoadConfig 加载配置文件
func LoadConfig(configPath string) *Config {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.SetDefault("store.driver", "memory")
	viper.SetDefault("store.mem_select_delay", 200*time.Millisecond)
	viper.SetDefault("store.mem_write_delay", 300*time.Millisecond)
	viper.SetDefault("lock.provider", "local")
	viper.SetDefault("business.min_use_points", 100)
	viper.SetDefault("business.max_retry_count", 3)

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("读取配置文件失败: %v", err)
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	GlobalConfig = config
	return config
}
