package biz

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestUploadAndGet(t *testing.T) {
	env := newTestEnv(10000)
	ctx := context.Background()

	entry, err := env.files.Upload(ctx, &UploadRequest{
		Data:         []byte("hello world"),
		OriginalName: "report.pdf",
		Description:  "季度报告",
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if entry.Filename != "report.pdf" {
		t.Errorf("filename = %q, want %q", entry.Filename, "report.pdf")
	}
	if !strings.HasPrefix(entry.ObjectKey, "uploads/") || !strings.HasSuffix(entry.ObjectKey, ".pdf") {
		t.Errorf("object key %q should be uploads/<uuid>.pdf", entry.ObjectKey)
	}
	if entry.FolderID != nil {
		t.Error("root upload should have nil folder id")
	}

	got, err := env.files.Get(ctx, entry.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Size != 11 {
		t.Errorf("size = %d, want 11", got.Size)
	}
	if got.Description != "季度报告" {
		t.Errorf("description = %q", got.Description)
	}
}

func TestUploadSanitizesFilename(t *testing.T) {
	env := newTestEnv(10000)
	ctx := context.Background()

	entry, err := env.files.Upload(ctx, &UploadRequest{
		Data:         []byte("x"),
		OriginalName: `my:file??\name.txt`,
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if entry.Filename != "my_file___name.txt" {
		t.Errorf("filename = %q, want %q", entry.Filename, "my_file___name.txt")
	}
}

func TestUploadIntoMissingFolder(t *testing.T) {
	env := newTestEnv(10000)
	ctx := context.Background()

	missing := "no-such-folder"
	_, err := env.files.Upload(ctx, &UploadRequest{
		Data:         []byte("x"),
		OriginalName: "x.txt",
		FolderID:     &missing,
	})
	if !errors.Is(err, ErrFolderNotFound) {
		t.Errorf("expected ErrFolderNotFound, got %v", err)
	}
	// 失败时不应留下孤儿 blob
	if env.blobs.count() != 0 {
		t.Errorf("blobs remaining = %d, want 0", env.blobs.count())
	}
}

func TestUploadCleansBlobOnRecordFailure(t *testing.T) {
	env := newTestEnv(10000)
	ctx := context.Background()

	env.fileRepo.createErr = errors.New("db down")
	_, err := env.files.Upload(ctx, &UploadRequest{
		Data:         []byte("payload"),
		OriginalName: "x.txt",
	})
	if err == nil {
		t.Fatal("expected error when record creation fails")
	}
	// 记录写入失败后回收已写入的 blob
	if env.blobs.count() != 0 {
		t.Errorf("orphan blobs = %d, want 0", env.blobs.count())
	}
}

func TestOpenDownload(t *testing.T) {
	env := newTestEnv(10000)
	ctx := context.Background()

	entry, _ := env.files.Upload(ctx, &UploadRequest{
		Data:         []byte("content-bytes"),
		OriginalName: "d.bin",
	})

	got, rc, err := env.files.Open(ctx, entry.ID)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "content-bytes" {
		t.Errorf("read %q", data)
	}
	if got.Filename != "d.bin" {
		t.Errorf("filename = %q", got.Filename)
	}

	if _, _, err := env.files.Open(ctx, "missing"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}

func TestDeleteToleratesMissingBlob(t *testing.T) {
	env := newTestEnv(10000)
	ctx := context.Background()

	entry, _ := env.files.Upload(ctx, &UploadRequest{
		Data:         []byte("abc"),
		OriginalName: "a.txt",
	})

	// blob 先行丢失，删除仍应成功
	env.blobs.Remove(ctx, entry.ObjectKey)
	if err := env.files.Delete(ctx, entry.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := env.files.Get(ctx, entry.ID); !errors.Is(err, ErrFileNotFound) {
		t.Error("record should be gone")
	}
}

func TestMovePreservesUsage(t *testing.T) {
	env := newTestEnv(10000)
	ctx := context.Background()

	dst, _ := env.folders.Create(ctx, "dst", nil)
	entry, _ := env.files.Upload(ctx, &UploadRequest{
		Data:         make([]byte, 64),
		OriginalName: "m.txt",
	})

	before, _ := env.quota.CurrentUsage(ctx)

	moved, err := env.files.Move(ctx, entry.ID, &dst.ID)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if moved.FolderID == nil || *moved.FolderID != dst.ID {
		t.Error("file should belong to dst")
	}

	after, _ := env.quota.CurrentUsage(ctx)
	if after != before {
		t.Errorf("usage changed on move: %d -> %d", before, after)
	}

	// 移回根目录
	moved, err = env.files.Move(ctx, entry.ID, nil)
	if err != nil {
		t.Fatalf("Move to root failed: %v", err)
	}
	if moved.FolderID != nil {
		t.Error("file should be at root")
	}

	missing := "nope"
	if _, err := env.files.Move(ctx, entry.ID, &missing); !errors.Is(err, ErrFolderNotFound) {
		t.Errorf("expected ErrFolderNotFound, got %v", err)
	}
	if _, err := env.files.Move(ctx, "missing-file", nil); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}

func TestBulkDeleteBestEffort(t *testing.T) {
	env := newTestEnv(10000)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		entry, err := env.files.Upload(ctx, &UploadRequest{
			Data:         []byte("x"),
			OriginalName: "f.txt",
		})
		if err != nil {
			t.Fatalf("upload %d: %v", i, err)
		}
		ids = append(ids, entry.ID)
	}

	// 夹带两个不存在的 id，已存在的仍应全部删除
	deleted := env.files.BulkDelete(ctx, []string{ids[0], "ghost", ids[1], "ghost2", ids[2]})
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}
	usage, _ := env.quota.CurrentUsage(ctx)
	if usage != 0 {
		t.Errorf("usage = %d, want 0", usage)
	}
}

func TestListByFolder(t *testing.T) {
	env := newTestEnv(10000)
	ctx := context.Background()

	a, _ := env.folders.Create(ctx, "a", nil)
	env.files.Upload(ctx, &UploadRequest{Data: []byte("1"), OriginalName: "root.txt"})
	env.files.Upload(ctx, &UploadRequest{Data: []byte("22"), OriginalName: "in.txt", FolderID: &a.ID})

	rootFiles, err := env.files.ListByFolder(ctx, nil)
	if err != nil {
		t.Fatalf("ListByFolder failed: %v", err)
	}
	if len(rootFiles) != 1 || rootFiles[0].Filename != "root.txt" {
		t.Fatalf("unexpected root files: %+v", rootFiles)
	}
	if rootFiles[0].Size != 1 {
		t.Errorf("size = %d, want 1", rootFiles[0].Size)
	}

	inFiles, _ := env.files.ListByFolder(ctx, &a.ID)
	if len(inFiles) != 1 || inFiles[0].Size != 2 {
		t.Fatalf("unexpected folder files: %+v", inFiles)
	}
}

// 后端故障不能伪装成"文件不存在"，必须原样上抛
func TestGetPropagatesBackendFailure(t *testing.T) {
	env := newTestEnv(10000)
	ctx := context.Background()

	entry, err := env.files.Upload(ctx, &UploadRequest{Data: []byte("x"), OriginalName: "x.txt"})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	backendErr := errors.New("connection refused")
	env.fileRepo.getErr = backendErr

	_, err = env.files.Get(ctx, entry.ID)
	if errors.Is(err, ErrFileNotFound) {
		t.Fatalf("backend failure reported as not found: %v", err)
	}
	if !errors.Is(err, backendErr) {
		t.Errorf("expected backend error to propagate, got %v", err)
	}

	if err := env.files.Delete(ctx, entry.ID); errors.Is(err, ErrFileNotFound) || !errors.Is(err, backendErr) {
		t.Errorf("Delete should propagate backend error, got %v", err)
	}
	if _, err := env.files.Move(ctx, entry.ID, nil); errors.Is(err, ErrFileNotFound) || !errors.Is(err, backendErr) {
		t.Errorf("Move should propagate backend error, got %v", err)
	}
}
