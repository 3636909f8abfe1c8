package service

import (
	"time"

	"github.com/lk2023060901/personal-cloud-backend/internal/storage/biz"
	"github.com/lk2023060901/personal-cloud-backend/internal/storage/fileutil"
)

// Folder DTO

// CreateFolderRequest 创建文件夹请求
type CreateFolderRequest struct {
	Name     string  `json:"name" binding:"required"`
	ParentID *string `json:"parent_id"`
}

// DeleteFolderRequest 删除文件夹请求
type DeleteFolderRequest struct {
	FolderID string `json:"folder_id" binding:"required"`
	// Recursive 为 true 时级联删除整棵子树，否则仅允许删除空文件夹
	Recursive bool `json:"recursive"`
}

// FolderResponse 文件夹响应
type FolderResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	ParentID  *string `json:"parent_id"`
	CreatedAt string  `json:"created_at"`
}

// File DTO

// DeleteFilesRequest 批量删除文件请求
type DeleteFilesRequest struct {
	FileIDs []string `json:"file_ids" binding:"required,min=1"`
}

// MoveFilesRequest 移动文件请求，target_folder_id 为空表示移动到根目录
type MoveFilesRequest struct {
	FileIDs        []string `json:"file_ids" binding:"required,min=1"`
	TargetFolderID *string  `json:"target_folder_id"`
}

// FileResponse 文件响应，含前端展示所需的派生字段
type FileResponse struct {
	ID            string  `json:"id"`
	Filename      string  `json:"filename"`
	FolderID      *string `json:"folder_id"`
	Description   string  `json:"description,omitempty"`
	Size          int64   `json:"size"`
	FormattedSize string  `json:"formatted_size"`
	IconClass     string  `json:"icon_class"`
	TypeLabel     string  `json:"type_label"`
	UploadedAt    string  `json:"uploaded_at"`
}

// UploadResultItem 多文件上传中单个文件的结果
type UploadResultItem struct {
	Filename string        `json:"filename"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
	File     *FileResponse `json:"file,omitempty"`
}

// toFileResponse 转换文件响应
func toFileResponse(entry *biz.FileEntry) *FileResponse {
	return &FileResponse{
		ID:            entry.ID,
		Filename:      entry.Filename,
		FolderID:      entry.FolderID,
		Description:   entry.Description,
		Size:          entry.Size,
		FormattedSize: fileutil.FormatSize(entry.Size),
		IconClass:     fileutil.IconClass(entry.Filename),
		TypeLabel:     fileutil.TypeLabel(entry.Filename),
		UploadedAt:    entry.UploadedAt.Format(time.RFC3339),
	}
}

// toFolderResponse 转换文件夹响应
func toFolderResponse(folder *biz.Folder) *FolderResponse {
	return &FolderResponse{
		ID:        folder.ID,
		Name:      folder.Name,
		ParentID:  folder.ParentID,
		CreatedAt: folder.CreatedAt.Format(time.RFC3339),
	}
}
