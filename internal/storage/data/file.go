package data

import (
	"context"
	"fmt"
	"time"

	"github.com/lk2023060901/personal-cloud-backend/internal/pkg/database"
	"github.com/lk2023060901/personal-cloud-backend/internal/storage/biz"
)

// FilePO 文件记录数据库模型。不存储文件大小，大小始终从对象存储读取。
type FilePO struct {
	ID          string    `gorm:"type:uuid;primarykey"`
	Filename    string    `gorm:"column:filename;size:255;not null"`
	ObjectKey   string    `gorm:"column:object_key;size:500;not null;uniqueIndex:idx_file_object_key"`
	FolderID    *string   `gorm:"column:folder_id;type:uuid;index:idx_file_folder_id"`
	Description string    `gorm:"column:description;type:text"`
	UploadedAt  time.Time `gorm:"column:uploaded_at;not null;default:CURRENT_TIMESTAMP;index:idx_file_uploaded_at"`
}

func (FilePO) TableName() string {
	return "files"
}

// FileRepo 文件记录仓储实现
type FileRepo struct {
	db *database.DB
}

// NewFileRepo 创建文件记录仓储
func NewFileRepo(db *database.DB) *FileRepo {
	return &FileRepo{db: db}
}

// Create 创建文件记录
func (r *FileRepo) Create(ctx context.Context, entry *biz.FileEntry) error {
	po := &FilePO{
		ID:          entry.ID,
		Filename:    entry.Filename,
		ObjectKey:   entry.ObjectKey,
		FolderID:    entry.FolderID,
		Description: entry.Description,
		UploadedAt:  entry.UploadedAt,
	}

	if err := r.db.WithContext(ctx).GetDB().Create(po).Error; err != nil {
		return fmt.Errorf("failed to create file record: %w", err)
	}

	return nil
}

// GetByID 根据 ID 获取文件记录，记录不存在时返回 biz.ErrFileNotFound
func (r *FileRepo) GetByID(ctx context.Context, id string) (*biz.FileEntry, error) {
	var po FilePO
	err := r.db.WithContext(ctx).GetDB().Where("id = ?", id).First(&po).Error
	if err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, biz.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get file record: %w", err)
	}

	return r.toDomain(&po), nil
}

// ListByFolder 列出指定文件夹内的文件，按上传时间倒序。
// folderID 为 nil 时列出根目录文件。
func (r *FileRepo) ListByFolder(ctx context.Context, folderID *string) ([]*biz.FileEntry, error) {
	query := r.db.WithContext(ctx).GetDB().Model(&FilePO{})
	if folderID == nil {
		query = query.Where("folder_id IS NULL")
	} else {
		query = query.Where("folder_id = ?", *folderID)
	}

	var pos []FilePO
	if err := query.Order("uploaded_at DESC").Find(&pos).Error; err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	entries := make([]*biz.FileEntry, len(pos))
	for i, po := range pos {
		entries[i] = r.toDomain(&po)
	}

	return entries, nil
}

// ListAll 列出全部文件记录，供配额核算全量扫描
func (r *FileRepo) ListAll(ctx context.Context) ([]*biz.FileEntry, error) {
	var pos []FilePO
	if err := r.db.WithContext(ctx).GetDB().Find(&pos).Error; err != nil {
		return nil, fmt.Errorf("failed to list all files: %w", err)
	}

	entries := make([]*biz.FileEntry, len(pos))
	for i, po := range pos {
		entries[i] = r.toDomain(&po)
	}

	return entries, nil
}

// CountByFolder 统计文件夹直属文件数
func (r *FileRepo) CountByFolder(ctx context.Context, folderID *string) (int64, error) {
	query := r.db.WithContext(ctx).GetDB().Model(&FilePO{})
	if folderID == nil {
		query = query.Where("folder_id IS NULL")
	} else {
		query = query.Where("folder_id = ?", *folderID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count files: %w", err)
	}

	return count, nil
}

// Update 更新文件记录
func (r *FileRepo) Update(ctx context.Context, entry *biz.FileEntry) error {
	updates := map[string]interface{}{
		"filename":    entry.Filename,
		"folder_id":   entry.FolderID,
		"description": entry.Description,
	}

	result := r.db.WithContext(ctx).GetDB().Model(&FilePO{}).Where("id = ?", entry.ID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update file record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return biz.ErrFileNotFound
	}

	return nil
}

// Delete 删除文件记录
func (r *FileRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).GetDB().Where("id = ?", id).Delete(&FilePO{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete file record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return biz.ErrFileNotFound
	}

	return nil
}

// toDomain 转换为领域模型，大小由上层按需读取
func (r *FileRepo) toDomain(po *FilePO) *biz.FileEntry {
	return &biz.FileEntry{
		ID:          po.ID,
		Filename:    po.Filename,
		ObjectKey:   po.ObjectKey,
		FolderID:    po.FolderID,
		Description: po.Description,
		UploadedAt:  po.UploadedAt,
	}
}
