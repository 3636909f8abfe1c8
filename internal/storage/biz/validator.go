package biz

import (
	"context"

	"github.com/lk2023060901/personal-cloud-backend/internal/conf"
	"github.com/lk2023060901/personal-cloud-backend/internal/storage/fileutil"
)

// UploadValidator 上传前校验：配额、单文件大小、扩展名策略。
// 纯决策函数，无副作用。
type UploadValidator struct {
	quota *QuotaAccountant
	cfg   conf.StorageConfig
}

// NewUploadValidator 创建上传校验器
func NewUploadValidator(quota *QuotaAccountant, cfg conf.StorageConfig) *UploadValidator {
	return &UploadValidator{
		quota: quota,
		cfg:   cfg,
	}
}

// Validate 按顺序执行各项检查，遇到第一个失败立即返回。
// enforceTotalQuota 为 true 时检查总配额；为 false 时改为检查单文件大小
// 上限（总空间充足时不限制单文件大小，与线上行为保持一致）。
func (v *UploadValidator) Validate(ctx context.Context, filename string, size int64, enforceTotalQuota bool) error {
	if enforceTotalQuota {
		current, err := v.quota.CurrentUsage(ctx)
		if err != nil {
			return err
		}
		if current+size > v.cfg.MaxTotalStorage {
			return &QuotaExceededError{
				Used:      current,
				Available: v.cfg.MaxTotalStorage - current,
				Required:  size,
			}
		}
	}

	if !enforceTotalQuota && size > v.cfg.MaxUploadSize {
		return &FileTooLargeError{Size: size, Limit: v.cfg.MaxUploadSize}
	}

	ext := fileutil.Ext(filename)

	for _, forbidden := range v.cfg.ForbiddenExtensions {
		if ext == forbidden {
			return &ForbiddenExtensionError{Ext: ext}
		}
	}

	if len(v.cfg.AllowedExtensions) > 0 {
		allowed := false
		for _, a := range v.cfg.AllowedExtensions {
			if ext == a {
				allowed = true
				break
			}
		}
		if !allowed {
			return &ExtensionNotAllowedError{Ext: ext}
		}
	}

	return nil
}
