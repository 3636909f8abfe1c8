package service

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/personal-cloud-backend/internal/conf"
	apperrors "github.com/lk2023060901/personal-cloud-backend/internal/pkg/errors"
	"github.com/lk2023060901/personal-cloud-backend/internal/pkg/logger"
	"github.com/lk2023060901/personal-cloud-backend/internal/pkg/response"
	"github.com/lk2023060901/personal-cloud-backend/internal/storage/biz"
	"github.com/lk2023060901/personal-cloud-backend/internal/storage/fileutil"
	"go.uber.org/zap"
)

// StorageService 文件存储 HTTP 服务
type StorageService struct {
	files   *biz.FileUseCase
	folders *biz.FolderUseCase
	quota   *biz.QuotaAccountant
	cfg     conf.StorageConfig
	logger  *logger.Logger
}

// NewStorageService 创建存储服务
func NewStorageService(
	files *biz.FileUseCase,
	folders *biz.FolderUseCase,
	quota *biz.QuotaAccountant,
	cfg conf.StorageConfig,
	log *logger.Logger,
) *StorageService {
	return &StorageService{
		files:   files,
		folders: folders,
		quota:   quota,
		cfg:     cfg,
		logger:  log,
	}
}

// RegisterRoutes 注册存储路由。uploadLimiter 非 nil 时仅作用于上传接口。
func (s *StorageService) RegisterRoutes(r *gin.RouterGroup, uploadLimiter gin.HandlerFunc) {
	storage := r.Group("/storage")
	{
		storage.GET("/list", s.List)
		storage.GET("/info", s.StorageInfo)
		storage.GET("/files/:id/download", s.Download)
		storage.POST("/delete", s.DeleteFiles)
		storage.POST("/move", s.MoveFiles)
		storage.POST("/folders", s.CreateFolder)
		storage.POST("/folders/delete", s.DeleteFolder)
		storage.GET("/folders/tree", s.FolderTree)

		if uploadLimiter != nil {
			storage.POST("/upload", uploadLimiter, s.Upload)
		} else {
			storage.POST("/upload", s.Upload)
		}
	}
}

// List 列出指定文件夹（缺省为根目录）下的文件与子文件夹
func (s *StorageService) List(c *gin.Context) {
	folderID := optionalID(c.Query("folder_id"))
	ctx := c.Request.Context()

	var currentPath string
	if folderID != nil {
		folder, err := s.folders.Get(ctx, *folderID)
		if err != nil {
			s.handleError(c, err)
			return
		}
		currentPath, err = s.folders.FullPath(ctx, folder)
		if err != nil {
			s.handleError(c, err)
			return
		}
	}

	children, err := s.folders.ListChildren(ctx, folderID)
	if err != nil {
		s.handleError(c, err)
		return
	}

	entries, err := s.files.ListByFolder(ctx, folderID)
	if err != nil {
		s.handleError(c, err)
		return
	}

	folderItems := make([]*FolderResponse, len(children))
	for i, child := range children {
		folderItems[i] = toFolderResponse(child)
	}
	fileItems := make([]*FileResponse, len(entries))
	for i, entry := range entries {
		fileItems[i] = toFileResponse(entry)
	}

	snap, err := s.quota.Snapshot(ctx)
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Success(c, gin.H{
		"current_path": currentPath,
		"folders":      folderItems,
		"files":        fileItems,
		"storage":      snap,
	})
}

// Upload 多文件上传。逐个处理，单个文件失败不影响其余文件，
// 始终返回 200 并附带每个文件的处理结果。
func (s *StorageService) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.HandleError(c, apperrors.Wrap(err, apperrors.ErrInvalidParams, "invalid multipart form"))
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		response.ErrorWithCode(c, apperrors.ErrInvalidParams, "no files in 'files' field")
		return
	}
	if len(fileHeaders) > s.cfg.MaxFilesPerUpload {
		response.ErrorWithCode(c, apperrors.ErrStorageTooManyFiles,
			fmt.Sprintf("got %d files, limit is %d", len(fileHeaders), s.cfg.MaxFilesPerUpload))
		return
	}

	folderID := optionalID(c.PostForm("folder_id"))
	description := c.PostForm("description")
	ctx := c.Request.Context()

	results := make([]*UploadResultItem, 0, len(fileHeaders))
	succeeded := 0

	for _, header := range fileHeaders {
		item := &UploadResultItem{Filename: header.Filename}
		results = append(results, item)

		file, err := header.Open()
		if err != nil {
			item.Error = "failed to open file"
			continue
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			item.Error = "failed to read file"
			continue
		}

		entry, err := s.files.Upload(ctx, &biz.UploadRequest{
			Data:         data,
			OriginalName: header.Filename,
			FolderID:     folderID,
			Description:  description,
		})
		if err != nil {
			s.logger.Warn("file upload failed",
				zap.String("filename", header.Filename),
				zap.Error(err),
			)
			item.Error = err.Error()
			continue
		}

		item.Success = true
		item.File = toFileResponse(entry)
		succeeded++
	}

	response.Success(c, gin.H{
		"uploaded_count": succeeded,
		"failed_count":   len(results) - succeeded,
		"results":        results,
	})
}

// Download 下载文件内容
func (s *StorageService) Download(c *gin.Context) {
	entry, rc, err := s.files.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.handleError(c, err)
		return
	}
	defer rc.Close()

	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", entry.Filename),
	}
	c.DataFromReader(http.StatusOK, entry.Size, fileutil.ContentType(entry.Filename), rc, extraHeaders)
}

// DeleteFiles 批量删除文件，尽力而为，返回成功删除的数量
func (s *StorageService) DeleteFiles(c *gin.Context) {
	var req DeleteFilesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, apperrors.Wrap(err, apperrors.ErrInvalidParams, "file_ids is required"))
		return
	}

	deleted := s.files.BulkDelete(c.Request.Context(), req.FileIDs)

	response.Success(c, gin.H{
		"deleted_count": deleted,
	})
}

// MoveFiles 移动文件到目标文件夹，逐个执行并返回成功数量
func (s *StorageService) MoveFiles(c *gin.Context) {
	var req MoveFilesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, apperrors.Wrap(err, apperrors.ErrInvalidParams, "file_ids is required"))
		return
	}

	ctx := c.Request.Context()

	// 目标文件夹先行校验，目标不存在时整批拒绝
	if req.TargetFolderID != nil {
		if _, err := s.folders.Get(ctx, *req.TargetFolderID); err != nil {
			s.handleError(c, err)
			return
		}
	}

	moved := 0
	for _, id := range req.FileIDs {
		if _, err := s.files.Move(ctx, id, req.TargetFolderID); err != nil {
			s.logger.Debug("move skipped file", zap.String("file_id", id), zap.Error(err))
			continue
		}
		moved++
	}

	response.Success(c, gin.H{
		"moved_count": moved,
	})
}

// CreateFolder 创建文件夹
func (s *StorageService) CreateFolder(c *gin.Context) {
	var req CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrStorageFolderNameEmpty)
		return
	}

	folder, err := s.folders.Create(c.Request.Context(), req.Name, req.ParentID)
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Created(c, toFolderResponse(folder))
}

// DeleteFolder 删除文件夹。recursive 为 true 时级联删除子树及其文件，
// 否则仅允许删除空文件夹。
func (s *StorageService) DeleteFolder(c *gin.Context) {
	var req DeleteFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrInvalidParams, "folder_id is required")
		return
	}

	ctx := c.Request.Context()
	var err error
	if req.Recursive {
		err = s.folders.Delete(ctx, req.FolderID)
	} else {
		err = s.folders.DeleteStrict(ctx, req.FolderID)
	}
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Success(c, nil)
}

// FolderTree 返回完整文件夹树，节点带递归文件计数
func (s *StorageService) FolderTree(c *gin.Context) {
	tree, err := s.folders.Tree(c.Request.Context(), nil)
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Success(c, gin.H{
		"tree": tree,
	})
}

// StorageInfo 返回存储空间使用快照
func (s *StorageService) StorageInfo(c *gin.Context) {
	snap, err := s.quota.Snapshot(c.Request.Context())
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Success(c, snap)
}

// handleError 将领域错误转换为带业务错误码的 AppError 后统一渲染
func (s *StorageService) handleError(c *gin.Context, err error) {
	response.HandleError(c, s.toAppError(err))
}

// toAppError 领域错误到业务错误码的映射。未识别的错误记录日志后
// 按内部错误处理，响应中不透出底层错误内容。
func (s *StorageService) toAppError(err error) *apperrors.AppError {
	var (
		quotaErr      *biz.QuotaExceededError
		tooLargeErr   *biz.FileTooLargeError
		forbiddenErr  *biz.ForbiddenExtensionError
		notAllowedErr *biz.ExtensionNotAllowedError
	)

	switch {
	case errors.Is(err, biz.ErrFileNotFound):
		return apperrors.New(apperrors.ErrStorageFileNotFound)
	case errors.Is(err, biz.ErrFolderNotFound):
		return apperrors.New(apperrors.ErrStorageFolderNotFound)
	case errors.Is(err, biz.ErrFolderNameEmpty):
		return apperrors.New(apperrors.ErrStorageFolderNameEmpty)
	case errors.Is(err, biz.ErrFolderNameIllegal):
		return apperrors.New(apperrors.ErrStorageFolderNameIllegal)
	case errors.Is(err, biz.ErrFolderDuplicate):
		return apperrors.New(apperrors.ErrStorageFolderDuplicate)
	case errors.Is(err, biz.ErrFolderNotEmpty):
		return apperrors.New(apperrors.ErrStorageFolderNotEmpty)
	case errors.As(err, &quotaErr):
		return apperrors.New(apperrors.ErrStorageQuotaExceeded, quotaErr.Error())
	case errors.As(err, &tooLargeErr):
		return apperrors.New(apperrors.ErrStorageFileTooLarge, tooLargeErr.Error())
	case errors.As(err, &forbiddenErr):
		return apperrors.New(apperrors.ErrStorageForbiddenExtension, forbiddenErr.Ext)
	case errors.As(err, &notAllowedErr):
		return apperrors.New(apperrors.ErrStorageExtensionNotAllowed, notAllowedErr.Ext)
	default:
		s.logger.Error("storage request failed", zap.Error(err))
		return apperrors.New(apperrors.ErrInternalServer)
	}
}

// optionalID 把空字符串规整为 nil
func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
