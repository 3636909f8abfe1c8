package conf

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	MinIO    MinIOConfig
	Log      LogConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

type LogConfig struct {
	Level            string        `mapstructure:"level"`
	Format           string        `mapstructure:"format"`
	Output           string        `mapstructure:"output"`
	File             FileLogConfig `mapstructure:"file"`
	EnableCaller     bool          `mapstructure:"enablecaller"`
	EnableStacktrace bool          `mapstructure:"enablestacktrace"`
}

type FileLogConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"maxsize"`
	MaxAge     int    `mapstructure:"maxage"`
	MaxBackups int    `mapstructure:"maxbackups"`
	Compress   bool   `mapstructure:"compress"`
}

// StorageConfig 存储策略配置（容量配额、文件名与扩展名规则）
type StorageConfig struct {
	// 总存储容量上限（字节）
	MaxTotalStorage int64 `mapstructure:"max_total_storage"`
	// 单文件大小上限（字节）
	MaxUploadSize int64 `mapstructure:"max_upload_size"`
	// 文件名（不含扩展名）最大长度
	MaxFilenameLength int `mapstructure:"max_filename_length"`
	// 单次批量上传的最大文件数
	MaxFilesPerUpload int `mapstructure:"max_files_per_upload"`
	// 禁止上传的扩展名（小写，带点）
	ForbiddenExtensions []string `mapstructure:"forbidden_extensions"`
	// 允许上传的扩展名白名单（为空表示允许所有类型）
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
}

// DefaultStorageConfig 返回默认存储策略
func DefaultStorageConfig() StorageConfig {
	return StorageConfig{
		MaxTotalStorage:   35 * 1024 * 1024 * 1024, // 35GB
		MaxUploadSize:     100 * 1024 * 1024,       // 100MB
		MaxFilenameLength: 100,
		MaxFilesPerUpload: 10,
		ForbiddenExtensions: []string{
			".exe", ".bat", ".cmd", ".com", ".pif", ".scr", ".vbs", ".js",
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := Config{Storage: DefaultStorageConfig()}
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
