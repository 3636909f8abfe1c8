package biz

import (
	"errors"
	"fmt"

	"github.com/lk2023060901/personal-cloud-backend/internal/storage/fileutil"
)

// 结构性错误
var (
	ErrFolderNotFound    = errors.New("folder not found")
	ErrFileNotFound      = errors.New("file not found")
	ErrFolderNameEmpty   = errors.New("folder name is empty")
	ErrFolderNameIllegal = errors.New("folder name contains illegal characters")
	ErrFolderDuplicate   = errors.New("folder with the same name already exists")
	ErrFolderNotEmpty    = errors.New("folder is not empty")
)

// QuotaExceededError 总存储空间不足
type QuotaExceededError struct {
	Used      int64 // 当前已使用字节数
	Available int64 // 剩余可用字节数
	Required  int64 // 本次上传需要的字节数
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("storage quota exceeded: used %s, available %s, required %s",
		fileutil.FormatSize(e.Used), fileutil.FormatSize(e.Available), fileutil.FormatSize(e.Required))
}

// FileTooLargeError 单文件大小超限
type FileTooLargeError struct {
	Size  int64
	Limit int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file size %s exceeds limit %s",
		fileutil.FormatSize(e.Size), fileutil.FormatSize(e.Limit))
}

// ForbiddenExtensionError 禁止上传的文件类型
type ForbiddenExtensionError struct {
	Ext string
}

func (e *ForbiddenExtensionError) Error() string {
	return fmt.Sprintf("forbidden file type: %s", e.Ext)
}

// ExtensionNotAllowedError 不在白名单内的文件类型
type ExtensionNotAllowedError struct {
	Ext string
}

func (e *ExtensionNotAllowedError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.Ext)
}
