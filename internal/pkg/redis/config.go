package redis

import (
	"errors"
	"time"
)

// Config Redis 配置
type Config struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`         // 节点地址 (host:port)
	Username string `mapstructure:"username" yaml:"username"` // 用户名（Redis 6.0+）
	Password string `mapstructure:"password" yaml:"password"` // 密码
	DB       int    `mapstructure:"db" yaml:"db"`             // 数据库编号

	// 连接池配置
	PoolSize     int `mapstructure:"pool_size" yaml:"pool_size"`           // 连接池大小
	MinIdleConns int `mapstructure:"min_idle_conns" yaml:"min_idle_conns"` // 最小空闲连接数

	// 超时配置
	DialTimeout  time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`   // 连接超时
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`   // 读超时
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"` // 写超时

	// 重试配置
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"` // 最大重试次数
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Addr:         "localhost:6379",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		MaxRetries:   3,
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("redis addr is required")
	}
	if c.DB < 0 || c.DB > 15 {
		return errors.New("redis db must be between 0 and 15")
	}
	return nil
}
