package data

import (
	"testing"
	"time"
)

func TestFolderPOMapping(t *testing.T) {
	now := time.Now()
	parentID := "parent-id"

	po := &FolderPO{
		ID:        "folder-id",
		Name:      "照片",
		ParentID:  &parentID,
		CreatedAt: now,
	}

	repo := &FolderRepo{}
	folder := repo.toDomain(po)

	if folder.ID != po.ID {
		t.Errorf("ID = %q, want %q", folder.ID, po.ID)
	}
	if folder.Name != po.Name {
		t.Errorf("Name = %q, want %q", folder.Name, po.Name)
	}
	if folder.ParentID == nil || *folder.ParentID != parentID {
		t.Errorf("ParentID = %v, want %q", folder.ParentID, parentID)
	}
	if folder.CreatedAt != now {
		t.Errorf("CreatedAt = %v, want %v", folder.CreatedAt, now)
	}

	// 根级文件夹 ParentID 为 nil
	rootPO := &FolderPO{ID: "root-id", Name: "root", CreatedAt: now}
	root := repo.toDomain(rootPO)
	if root.ParentID != nil {
		t.Error("root folder should have nil ParentID")
	}
	if !root.IsRoot() {
		t.Error("IsRoot should be true for nil ParentID")
	}
}

func TestFilePOMapping(t *testing.T) {
	now := time.Now()
	folderID := "folder-id"

	po := &FilePO{
		ID:          "file-id",
		Filename:    "report.pdf",
		ObjectKey:   "uploads/abc123.pdf",
		FolderID:    &folderID,
		Description: "季度报告",
		UploadedAt:  now,
	}

	repo := &FileRepo{}
	entry := repo.toDomain(po)

	if entry.ID != po.ID {
		t.Errorf("ID = %q, want %q", entry.ID, po.ID)
	}
	if entry.Filename != po.Filename {
		t.Errorf("Filename = %q, want %q", entry.Filename, po.Filename)
	}
	if entry.ObjectKey != po.ObjectKey {
		t.Errorf("ObjectKey = %q, want %q", entry.ObjectKey, po.ObjectKey)
	}
	if entry.FolderID == nil || *entry.FolderID != folderID {
		t.Errorf("FolderID = %v, want %q", entry.FolderID, folderID)
	}
	if entry.Description != po.Description {
		t.Errorf("Description = %q, want %q", entry.Description, po.Description)
	}
	if entry.UploadedAt != now {
		t.Errorf("UploadedAt = %v, want %v", entry.UploadedAt, now)
	}

	// 大小不落库，映射后始终为 0，由上层按需读取
	if entry.Size != 0 {
		t.Errorf("Size = %d, want 0", entry.Size)
	}
}
