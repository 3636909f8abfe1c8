package biz

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/lk2023060901/personal-cloud-backend/internal/conf"
	"github.com/lk2023060901/personal-cloud-backend/internal/pkg/logger"
	"github.com/lk2023060901/personal-cloud-backend/internal/storage/fileutil"
	"go.uber.org/zap"
)

// FileUseCase 文件注册表用例：文件记录的创建、移动、删除与物理 blob 的
// 生命周期管理。blob 由其文件记录独占，不在记录之间共享。
type FileUseCase struct {
	fileRepo   FileRepo
	folderRepo FolderRepo
	blobs      BlobStore
	validator  *UploadValidator
	cfg        conf.StorageConfig
	logger     *logger.Logger
}

// NewFileUseCase 创建文件用例
func NewFileUseCase(
	fileRepo FileRepo,
	folderRepo FolderRepo,
	blobs BlobStore,
	validator *UploadValidator,
	cfg conf.StorageConfig,
	log *logger.Logger,
) *FileUseCase {
	return &FileUseCase{
		fileRepo:   fileRepo,
		folderRepo: folderRepo,
		blobs:      blobs,
		validator:  validator,
		cfg:        cfg,
		logger:     log,
	}
}

// UploadRequest 上传请求
type UploadRequest struct {
	Data         []byte
	OriginalName string
	FolderID     *string
	Description  string
}

// Upload 校验并上传单个文件：先写 blob，再写记录。记录写入失败时尽力
// 清理 blob；清理失败只留下孤儿 blob，由离线回收处理，不视为目录不一致。
func (u *FileUseCase) Upload(ctx context.Context, req *UploadRequest) (*FileEntry, error) {
	if err := u.validator.Validate(ctx, req.OriginalName, int64(len(req.Data)), true); err != nil {
		return nil, err
	}

	filename := fileutil.CleanFilename(req.OriginalName, u.cfg.MaxFilenameLength)

	if req.FolderID != nil {
		if _, err := u.folderRepo.GetByID(ctx, *req.FolderID); err != nil {
			return nil, err
		}
	}

	id := uuid.NewString()
	key := "uploads/" + id + fileutil.Ext(filename)

	if err := u.blobs.Put(ctx, key, req.Data, fileutil.ContentType(filename)); err != nil {
		return nil, err
	}

	entry := &FileEntry{
		ID:          id,
		Filename:    filename,
		ObjectKey:   key,
		FolderID:    req.FolderID,
		Description: req.Description,
		UploadedAt:  time.Now(),
		Size:        int64(len(req.Data)),
	}

	if err := u.fileRepo.Create(ctx, entry); err != nil {
		u.logger.Warn("file record creation failed after blob write, removing orphan blob",
			zap.String("object_key", key),
			zap.Error(err),
		)
		if rmErr := u.blobs.Remove(ctx, key); rmErr != nil {
			u.logger.Warn("orphan blob cleanup failed, leaving for offline gc",
				zap.String("object_key", key),
				zap.Error(rmErr),
			)
		}
		return nil, err
	}

	u.logger.Info("file uploaded",
		zap.String("file_id", entry.ID),
		zap.String("filename", entry.Filename),
		zap.Int64("size", entry.Size),
	)

	return entry, nil
}

// Get 获取单个文件记录
func (u *FileUseCase) Get(ctx context.Context, id string) (*FileEntry, error) {
	entry, err := u.fileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entry.Size, _ = u.blobs.Size(ctx, entry.ObjectKey)
	return entry, nil
}

// Open 打开文件内容用于下载
func (u *FileUseCase) Open(ctx context.Context, id string) (*FileEntry, io.ReadCloser, error) {
	entry, err := u.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := u.blobs.Get(ctx, entry.ObjectKey)
	if err != nil {
		return nil, nil, err
	}

	return entry, rc, nil
}

// Delete 删除文件：先删 blob（blob 已不存在时忽略），再删记录
func (u *FileUseCase) Delete(ctx context.Context, id string) error {
	entry, err := u.fileRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := u.blobs.Remove(ctx, entry.ObjectKey); err != nil {
		// blob 删除失败不阻塞记录删除，残留 blob 交给离线回收
		u.logger.Warn("blob removal failed, record will still be deleted",
			zap.String("file_id", id),
			zap.String("object_key", entry.ObjectKey),
			zap.Error(err),
		)
	}

	if err := u.fileRepo.Delete(ctx, id); err != nil {
		return err
	}

	u.logger.Info("file deleted",
		zap.String("file_id", id),
		zap.String("filename", entry.Filename),
	)

	return nil
}

// Move 移动文件到目标文件夹（nil 表示移到根目录）。移动不改变总存储量，
// 不做配额校验。
func (u *FileUseCase) Move(ctx context.Context, id string, targetFolderID *string) (*FileEntry, error) {
	entry, err := u.fileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if targetFolderID != nil {
		if _, err := u.folderRepo.GetByID(ctx, *targetFolderID); err != nil {
			return nil, err
		}
	}

	entry.FolderID = targetFolderID
	if err := u.fileRepo.Update(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// ListByFolder 列出指定文件夹（nil 表示根目录）下的文件，按上传时间倒序，
// 并惰性填充每个文件的实际大小。
func (u *FileUseCase) ListByFolder(ctx context.Context, folderID *string) ([]*FileEntry, error) {
	entries, err := u.fileRepo.ListByFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		entry.Size, _ = u.blobs.Size(ctx, entry.ObjectKey)
	}

	return entries, nil
}

// BulkDelete 批量删除，逐个执行并吞掉单条失败，返回成功删除的数量
func (u *FileUseCase) BulkDelete(ctx context.Context, ids []string) int {
	deleted := 0
	for _, id := range ids {
		if err := u.Delete(ctx, id); err != nil {
			u.logger.Debug("bulk delete skipped file",
				zap.String("file_id", id),
				zap.Error(err),
			)
			continue
		}
		deleted++
	}
	return deleted
}
