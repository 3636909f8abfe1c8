package biz

import (
	"context"

	"github.com/lk2023060901/personal-cloud-backend/internal/storage/fileutil"
)

// nearlyFullThreshold 使用率达到该百分比时视为接近满容量
const nearlyFullThreshold = 90.0

// QuotaAccountant 存储配额核算。每次调用都全量扫描文件记录并惰性读取
// blob 大小，不维护增量计数器。两个并发上传可能各自通过配额检查后合计
// 超出容量，这是已知并接受的竞态。
type QuotaAccountant struct {
	fileRepo   FileRepo
	blobs      BlobStore
	maxStorage int64
}

// NewQuotaAccountant 创建配额核算器
func NewQuotaAccountant(fileRepo FileRepo, blobs BlobStore, maxStorage int64) *QuotaAccountant {
	return &QuotaAccountant{
		fileRepo:   fileRepo,
		blobs:      blobs,
		maxStorage: maxStorage,
	}
}

// MaxStorage 返回配置的总容量上限
func (q *QuotaAccountant) MaxStorage() int64 {
	return q.maxStorage
}

// CurrentUsage 计算所有文件的总字节数。单个文件的 blob 大小读取失败时
// 按 0 计入，不中断求和。
func (q *QuotaAccountant) CurrentUsage(ctx context.Context) (int64, error) {
	entries, err := q.fileRepo.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, entry := range entries {
		size, err := q.blobs.Size(ctx, entry.ObjectKey)
		if err != nil {
			continue
		}
		total += size
	}

	return total, nil
}

// Snapshot 生成当前存储使用快照
func (q *QuotaAccountant) Snapshot(ctx context.Context) (*StorageSnapshot, error) {
	current, err := q.CurrentUsage(ctx)
	if err != nil {
		return nil, err
	}

	var percentage float64
	if q.maxStorage > 0 {
		percentage = float64(current) / float64(q.maxStorage) * 100
	}

	available := q.maxStorage - current

	return &StorageSnapshot{
		CurrentUsage:       current,
		MaxStorage:         q.maxStorage,
		UsagePercentage:    percentage,
		AvailableSpace:     available,
		FormattedCurrent:   fileutil.FormatSize(current),
		FormattedMax:       fileutil.FormatSize(q.maxStorage),
		FormattedAvailable: fileutil.FormatSize(available),
		IsFull:             current >= q.maxStorage,
		IsNearlyFull:       percentage >= nearlyFullThreshold,
	}, nil
}
