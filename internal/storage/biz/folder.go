package biz

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lk2023060901/personal-cloud-backend/internal/pkg/logger"
	"go.uber.org/zap"
)

// folderForbiddenChars 文件夹名称中禁止出现的字符
const folderForbiddenChars = `/\:*?"<>|`

// FolderUseCase 文件夹树用例。文件夹记录由本用例独占管理；父子引用
// 构成无环图，因为创建时父文件夹必须已存在，且不提供改变父级的操作。
type FolderUseCase struct {
	folderRepo FolderRepo
	fileRepo   FileRepo
	files      *FileUseCase
	logger     *logger.Logger
}

// NewFolderUseCase 创建文件夹用例
func NewFolderUseCase(folderRepo FolderRepo, fileRepo FileRepo, files *FileUseCase, log *logger.Logger) *FolderUseCase {
	return &FolderUseCase{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		files:      files,
		logger:     log,
	}
}

// Create 创建文件夹。名称去除首尾空白后不能为空、不能含非法字符，
// 同一父级（含根级）下名称不能重复（区分大小写）。
func (u *FolderUseCase) Create(ctx context.Context, name string, parentID *string) (*Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrFolderNameEmpty
	}
	if strings.ContainsAny(name, folderForbiddenChars) {
		return nil, ErrFolderNameIllegal
	}

	if parentID != nil {
		if _, err := u.folderRepo.GetByID(ctx, *parentID); err != nil {
			return nil, err
		}
	}

	exists, err := u.folderRepo.ExistsByName(ctx, parentID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrFolderDuplicate
	}

	folder := &Folder{
		ID:        uuid.NewString(),
		Name:      name,
		ParentID:  parentID,
		CreatedAt: time.Now(),
	}

	if err := u.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	u.logger.Info("folder created",
		zap.String("folder_id", folder.ID),
		zap.String("name", folder.Name),
	)

	return folder, nil
}

// Get 获取单个文件夹
func (u *FolderUseCase) Get(ctx context.Context, id string) (*Folder, error) {
	return u.folderRepo.GetByID(ctx, id)
}

// FullPath 返回从根到该文件夹的完整路径，以 / 连接
func (u *FolderUseCase) FullPath(ctx context.Context, folder *Folder) (string, error) {
	parts := []string{folder.Name}

	current := folder
	for current.ParentID != nil {
		parent, err := u.folderRepo.GetByID(ctx, *current.ParentID)
		if err != nil {
			return "", err
		}
		parts = append([]string{parent.Name}, parts...)
		current = parent
	}

	return strings.Join(parts, "/"), nil
}

// FileCountRecursive 统计文件夹及其所有子文件夹内的文件总数
func (u *FolderUseCase) FileCountRecursive(ctx context.Context, folderID string) (int64, error) {
	count, err := u.fileRepo.CountByFolder(ctx, &folderID)
	if err != nil {
		return 0, err
	}

	children, err := u.folderRepo.ListChildren(ctx, &folderID)
	if err != nil {
		return 0, err
	}

	for _, child := range children {
		childCount, err := u.FileCountRecursive(ctx, child.ID)
		if err != nil {
			return 0, err
		}
		count += childCount
	}

	return count, nil
}

// Delete 级联删除文件夹：后序深度优先删除所有子文件夹，再通过文件注册表
// 删除直属文件（blob 加记录），最后删除文件夹自身记录。一经调用无条件执行。
func (u *FolderUseCase) Delete(ctx context.Context, id string) error {
	if _, err := u.folderRepo.GetByID(ctx, id); err != nil {
		return err
	}

	children, err := u.folderRepo.ListChildren(ctx, &id)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := u.Delete(ctx, child.ID); err != nil {
			return err
		}
	}

	entries, err := u.fileRepo.ListByFolder(ctx, &id)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := u.files.Delete(ctx, entry.ID); err != nil {
			return err
		}
	}

	if err := u.folderRepo.Delete(ctx, id); err != nil {
		return err
	}

	u.logger.Info("folder deleted recursively", zap.String("folder_id", id))
	return nil
}

// DeleteStrict 非级联删除：文件夹有直属文件或子文件夹时拒绝删除。
// 空检查和删除由仓储在同一事务内完成。提供给外部接口防止误删，
// 级联删除原语仍可用于显式的递归清理。
func (u *FolderUseCase) DeleteStrict(ctx context.Context, id string) error {
	if _, err := u.folderRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return u.folderRepo.DeleteIfEmpty(ctx, id)
}

// ListChildren 列出指定父级（nil 表示根级）下的文件夹，按名称升序
func (u *FolderUseCase) ListChildren(ctx context.Context, parentID *string) ([]*Folder, error) {
	return u.folderRepo.ListChildren(ctx, parentID)
}

// Tree 构建文件夹树，每层按名称升序，节点带递归文件计数。
// 父子引用无环保证递归必然终止。
func (u *FolderUseCase) Tree(ctx context.Context, rootID *string) ([]*FolderNode, error) {
	folders, err := u.folderRepo.ListChildren(ctx, rootID)
	if err != nil {
		return nil, err
	}

	nodes := make([]*FolderNode, 0, len(folders))
	for _, folder := range folders {
		count, err := u.FileCountRecursive(ctx, folder.ID)
		if err != nil {
			return nil, err
		}

		children, err := u.Tree(ctx, &folder.ID)
		if err != nil {
			return nil, err
		}

		nodes = append(nodes, &FolderNode{
			ID:        folder.ID,
			Name:      folder.Name,
			FileCount: count,
			Children:  children,
		})
	}

	return nodes, nil
}
