package biz

import (
	"context"
	"io"
	"time"
)

// Folder 文件夹模型
type Folder struct {
	ID        string
	Name      string
	ParentID  *string // nil 表示根目录
	CreatedAt time.Time
}

// IsRoot 判断是否为根级文件夹
func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}

// FileEntry 文件记录模型
type FileEntry struct {
	ID          string
	Filename    string  // 清理后的显示文件名
	ObjectKey   string  // 对象存储键
	FolderID    *string // nil 表示根目录
	Description string
	UploadedAt  time.Time

	// 读取时从 blob 存储惰性获取，不落库
	Size int64
}

// FolderNode 文件夹树节点
type FolderNode struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	FileCount int64         `json:"file_count"`
	Children  []*FolderNode `json:"children"`
}

// StorageSnapshot 存储空间使用快照（按需全量重算，不做缓存）
type StorageSnapshot struct {
	CurrentUsage       int64   `json:"current_usage"`
	MaxStorage         int64   `json:"max_storage"`
	UsagePercentage    float64 `json:"usage_percentage"`
	AvailableSpace     int64   `json:"available_space"`
	FormattedCurrent   string  `json:"formatted_current"`
	FormattedMax       string  `json:"formatted_max"`
	FormattedAvailable string  `json:"formatted_available"`
	IsFull             bool    `json:"is_full"`
	IsNearlyFull       bool    `json:"is_nearly_full"`
}

// FolderRepo 文件夹仓储接口。记录不存在时 GetByID 和 Delete 返回
// ErrFolderNotFound，其他错误原样上抛，供上层区分业务错误和后端故障。
type FolderRepo interface {
	Create(ctx context.Context, folder *Folder) error
	GetByID(ctx context.Context, id string) (*Folder, error)
	ExistsByName(ctx context.Context, parentID *string, name string) (bool, error)
	ListChildren(ctx context.Context, parentID *string) ([]*Folder, error)
	Delete(ctx context.Context, id string) error
	// DeleteIfEmpty 原子地检查并删除空文件夹，非空时返回 ErrFolderNotEmpty
	DeleteIfEmpty(ctx context.Context, id string) error
}

// FileRepo 文件记录仓储接口。记录不存在时 GetByID、Update 和 Delete
// 返回 ErrFileNotFound，其他错误原样上抛。
type FileRepo interface {
	Create(ctx context.Context, entry *FileEntry) error
	GetByID(ctx context.Context, id string) (*FileEntry, error)
	ListByFolder(ctx context.Context, folderID *string) ([]*FileEntry, error)
	ListAll(ctx context.Context) ([]*FileEntry, error)
	CountByFolder(ctx context.Context, folderID *string) (int64, error)
	Update(ctx context.Context, entry *FileEntry) error
	Delete(ctx context.Context, id string) error
}

// BlobStore 物理文件存储接口（MinIO）
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Size 返回对象字节数，对象不存在时返回 (0, nil)
	Size(ctx context.Context, key string) (int64, error)
	// Remove 删除对象，对象不存在时不报错
	Remove(ctx context.Context, key string) error
}
