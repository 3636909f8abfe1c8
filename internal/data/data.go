package data

import (
	"context"
	"fmt"
	"time"

	"github.com/lk2023060901/personal-cloud-backend/internal/conf"
	"github.com/lk2023060901/personal-cloud-backend/internal/pkg/database"
	"github.com/lk2023060901/personal-cloud-backend/internal/pkg/logger"
	pkgminio "github.com/lk2023060901/personal-cloud-backend/internal/pkg/minio"
	"github.com/lk2023060901/personal-cloud-backend/internal/pkg/redis"
	storagedata "github.com/lk2023060901/personal-cloud-backend/internal/storage/data"
	"go.uber.org/zap"
)

// Data 聚合全部外部资源
type Data struct {
	DB     *database.DB
	Redis  *redis.Client
	MinIO  *pkgminio.Client
	Logger *logger.Logger
}

// NewData 初始化数据库、Redis 与 MinIO，返回资源与清理函数
func NewData(config *conf.Config, log *logger.Logger) (*Data, func(), error) {
	db, err := initDB(config, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init database: %w", err)
	}

	redisClient, err := redis.NewClient(&redis.Config{
		Addr:     fmt.Sprintf("%s:%d", config.Redis.Host, config.Redis.Port),
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	}, log.Logger)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to init redis: %w", err)
	}

	minioClient, err := initMinIO(config, log)
	if err != nil {
		redisClient.Close()
		db.Close()
		return nil, nil, fmt.Errorf("failed to init minio: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := minioClient.EnsureBucket(ctx, config.MinIO.Bucket); err != nil {
		minioClient.Close()
		redisClient.Close()
		db.Close()
		return nil, nil, fmt.Errorf("failed to ensure bucket: %w", err)
	}

	d := &Data{
		DB:     db,
		Redis:  redisClient,
		MinIO:  minioClient,
		Logger: log,
	}

	cleanup := func() {
		log.Info("cleaning up data resources")

		if err := minioClient.Close(); err != nil {
			log.Warn("failed to close minio client", zap.Error(err))
		}
		if err := redisClient.Close(); err != nil {
			log.Warn("failed to close redis client", zap.Error(err))
		}
		if err := db.Close(); err != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
	}

	return d, cleanup, nil
}

func initDB(config *conf.Config, log *logger.Logger) (*database.DB, error) {
	dbCfg := database.DefaultConfig()
	dbCfg.Host = config.Database.Host
	dbCfg.Port = config.Database.Port
	dbCfg.User = config.Database.User
	dbCfg.Password = config.Database.Password
	dbCfg.DBName = config.Database.DBName
	dbCfg.SSLMode = config.Database.SSLMode

	db, err := database.New(dbCfg, log)
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&storagedata.FolderPO{},
		&storagedata.FilePO{},
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to auto migrate: %w", err)
	}

	log.Info("database initialized successfully")
	return db, nil
}

func initMinIO(config *conf.Config, log *logger.Logger) (*pkgminio.Client, error) {
	client, err := pkgminio.NewClient(&pkgminio.Config{
		Endpoint:        config.MinIO.Endpoint,
		AccessKeyID:     config.MinIO.AccessKey,
		SecretAccessKey: config.MinIO.SecretKey,
		UseSSL:          config.MinIO.UseSSL,
	}, log.Logger)
	if err != nil {
		return nil, err
	}

	return client, nil
}
