package data

import (
	"context"
	"fmt"
	"time"

	"github.com/lk2023060901/personal-cloud-backend/internal/pkg/database"
	"github.com/lk2023060901/personal-cloud-backend/internal/storage/biz"
	"gorm.io/gorm"
)

// FolderPO 文件夹数据库模型
type FolderPO struct {
	ID        string    `gorm:"type:uuid;primarykey"`
	Name      string    `gorm:"column:name;size:255;not null;index:idx_folder_parent_name"`
	ParentID  *string   `gorm:"column:parent_id;type:uuid;index:idx_folder_parent_name"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
}

func (FolderPO) TableName() string {
	return "folders"
}

// FolderRepo 文件夹仓储实现
type FolderRepo struct {
	db *database.DB
}

// NewFolderRepo 创建文件夹仓储
func NewFolderRepo(db *database.DB) *FolderRepo {
	return &FolderRepo{db: db}
}

// Create 创建文件夹
func (r *FolderRepo) Create(ctx context.Context, folder *biz.Folder) error {
	po := &FolderPO{
		ID:        folder.ID,
		Name:      folder.Name,
		ParentID:  folder.ParentID,
		CreatedAt: folder.CreatedAt,
	}

	if err := r.db.WithContext(ctx).GetDB().Create(po).Error; err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}

	return nil
}

// GetByID 根据 ID 获取文件夹，记录不存在时返回 biz.ErrFolderNotFound
func (r *FolderRepo) GetByID(ctx context.Context, id string) (*biz.Folder, error) {
	var po FolderPO
	err := r.db.WithContext(ctx).GetDB().Where("id = ?", id).First(&po).Error
	if err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, biz.ErrFolderNotFound
		}
		return nil, fmt.Errorf("failed to get folder: %w", err)
	}

	return r.toDomain(&po), nil
}

// ExistsByName 判断同一父级下是否已有同名文件夹。名称区分大小写，
// parentID 为 nil 时在根级命名空间内查找。
func (r *FolderRepo) ExistsByName(ctx context.Context, parentID *string, name string) (bool, error) {
	query := r.db.WithContext(ctx).GetDB().Model(&FolderPO{}).Where("name = ?", name)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check folder name: %w", err)
	}

	return count > 0, nil
}

// ListChildren 列出直接子文件夹，按名称升序
func (r *FolderRepo) ListChildren(ctx context.Context, parentID *string) ([]*biz.Folder, error) {
	query := r.db.WithContext(ctx).GetDB().Model(&FolderPO{})
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	var pos []FolderPO
	if err := query.Order("name ASC").Find(&pos).Error; err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}

	folders := make([]*biz.Folder, len(pos))
	for i, po := range pos {
		folders[i] = r.toDomain(&po)
	}

	return folders, nil
}

// Delete 删除文件夹记录
func (r *FolderRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).GetDB().Where("id = ?", id).Delete(&FolderPO{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete folder: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return biz.ErrFolderNotFound
	}

	return nil
}

// DeleteIfEmpty 在单个事务内完成空检查和删除，避免检查和删除之间
// 有新文件或子文件夹写入。文件夹非空时返回 biz.ErrFolderNotEmpty。
func (r *FolderRepo) DeleteIfEmpty(ctx context.Context, id string) error {
	return r.db.Transaction(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var fileCount int64
		if err := tx.Model(&FilePO{}).Where("folder_id = ?", id).Count(&fileCount).Error; err != nil {
			return fmt.Errorf("failed to count files: %w", err)
		}
		if fileCount > 0 {
			return biz.ErrFolderNotEmpty
		}

		var childCount int64
		if err := tx.Model(&FolderPO{}).Where("parent_id = ?", id).Count(&childCount).Error; err != nil {
			return fmt.Errorf("failed to count subfolders: %w", err)
		}
		if childCount > 0 {
			return biz.ErrFolderNotEmpty
		}

		result := tx.Where("id = ?", id).Delete(&FolderPO{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete folder: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return biz.ErrFolderNotFound
		}

		return nil
	})
}

// toDomain 转换为领域模型
func (r *FolderRepo) toDomain(po *FolderPO) *biz.Folder {
	return &biz.Folder{
		ID:        po.ID,
		Name:      po.Name,
		ParentID:  po.ParentID,
		CreatedAt: po.CreatedAt,
	}
}
