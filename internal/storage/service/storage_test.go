package service

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/personal-cloud-backend/internal/conf"
	apperrors "github.com/lk2023060901/personal-cloud-backend/internal/pkg/errors"
	"github.com/lk2023060901/personal-cloud-backend/internal/pkg/logger"
	"github.com/lk2023060901/personal-cloud-backend/internal/storage/biz"
)

func TestToFileResponse(t *testing.T) {
	uploadedAt := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	folderID := "folder-1"

	entry := &biz.FileEntry{
		ID:          "file-1",
		Filename:    "report.pdf",
		ObjectKey:   "uploads/abc.pdf",
		FolderID:    &folderID,
		Description: "年度总结",
		UploadedAt:  uploadedAt,
		Size:        1536,
	}

	resp := toFileResponse(entry)

	if resp.FormattedSize != "1.5 KB" {
		t.Errorf("FormattedSize = %q, want %q", resp.FormattedSize, "1.5 KB")
	}
	if resp.IconClass != "fas fa-file-pdf text-danger" {
		t.Errorf("IconClass = %q", resp.IconClass)
	}
	if resp.TypeLabel != "PDF文档" {
		t.Errorf("TypeLabel = %q", resp.TypeLabel)
	}
	if resp.UploadedAt != "2025-03-14T09:30:00Z" {
		t.Errorf("UploadedAt = %q", resp.UploadedAt)
	}
	if resp.FolderID == nil || *resp.FolderID != folderID {
		t.Errorf("FolderID = %v", resp.FolderID)
	}
}

func TestHandleErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := NewStorageService(nil, nil, nil, conf.DefaultStorageConfig(), logger.NewNop())

	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus int
	}{
		{"file not found", biz.ErrFileNotFound, apperrors.ErrStorageFileNotFound, http.StatusNotFound},
		{"folder not found", biz.ErrFolderNotFound, apperrors.ErrStorageFolderNotFound, http.StatusBadRequest},
		{"folder name empty", biz.ErrFolderNameEmpty, apperrors.ErrStorageFolderNameEmpty, http.StatusBadRequest},
		{"folder name illegal", biz.ErrFolderNameIllegal, apperrors.ErrStorageFolderNameIllegal, http.StatusBadRequest},
		{"folder duplicate", biz.ErrFolderDuplicate, apperrors.ErrStorageFolderDuplicate, http.StatusBadRequest},
		{"folder not empty", biz.ErrFolderNotEmpty, apperrors.ErrStorageFolderNotEmpty, http.StatusBadRequest},
		{
			"quota exceeded",
			&biz.QuotaExceededError{Used: 900, Available: 100, Required: 200},
			apperrors.ErrStorageQuotaExceeded,
			http.StatusBadRequest,
		},
		{
			"file too large",
			&biz.FileTooLargeError{Size: 200, Limit: 100},
			apperrors.ErrStorageFileTooLarge,
			http.StatusBadRequest,
		},
		{
			"forbidden extension",
			&biz.ForbiddenExtensionError{Ext: ".exe"},
			apperrors.ErrStorageForbiddenExtension,
			http.StatusBadRequest,
		},
		{
			"extension not allowed",
			&biz.ExtensionNotAllowedError{Ext: ".xyz"},
			apperrors.ErrStorageExtensionNotAllowed,
			http.StatusBadRequest,
		},
		{
			"backend failure",
			errors.New("connection refused"),
			apperrors.ErrInternalServer,
			http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			svc.handleError(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("http status = %d, want %d", w.Code, tt.wantStatus)
			}

			var body struct {
				Code int `json:"code"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("business code = %d, want %d", body.Code, tt.wantCode)
			}
		})
	}
}

func TestToAppError(t *testing.T) {
	svc := NewStorageService(nil, nil, nil, conf.DefaultStorageConfig(), logger.NewNop())

	appErr := svc.toAppError(biz.ErrFileNotFound)
	if appErr.Code != apperrors.ErrStorageFileNotFound {
		t.Errorf("code = %d, want %d", appErr.Code, apperrors.ErrStorageFileNotFound)
	}
	if appErr.HTTPStatus() != http.StatusNotFound {
		t.Errorf("http status = %d, want %d", appErr.HTTPStatus(), http.StatusNotFound)
	}

	// 未识别的错误统一按内部错误处理，不把底层错误内容透出给客户端
	appErr = svc.toAppError(errors.New("pg: connection reset"))
	if appErr.Code != apperrors.ErrInternalServer {
		t.Errorf("code = %d, want %d", appErr.Code, apperrors.ErrInternalServer)
	}
	if got := apperrors.GetDetails(appErr); got != "" {
		t.Errorf("details = %q, want empty", got)
	}
}
