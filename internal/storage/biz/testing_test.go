package biz

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"github.com/lk2023060901/personal-cloud-backend/internal/conf"
	"github.com/lk2023060901/personal-cloud-backend/internal/pkg/logger"
)

var errObjectNotFound = errors.New("object not found")

// memFolderRepo 内存文件夹仓储，测试用
type memFolderRepo struct {
	mu      sync.Mutex
	folders map[string]*Folder
	// files 供 DeleteIfEmpty 检查文件夹是否仍含文件
	files *memFileRepo
	// getErr 非 nil 时 GetByID 直接返回该错误，用于模拟后端故障
	getErr error
}

func newMemFolderRepo() *memFolderRepo {
	return &memFolderRepo{folders: make(map[string]*Folder)}
}

func (r *memFolderRepo) Create(ctx context.Context, folder *Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *folder
	r.folders[folder.ID] = &cp
	return nil
}

func (r *memFolderRepo) GetByID(ctx context.Context, id string) (*Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	folder, ok := r.folders[id]
	if !ok {
		return nil, ErrFolderNotFound
	}
	cp := *folder
	return &cp, nil
}

func (r *memFolderRepo) ExistsByName(ctx context.Context, parentID *string, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, folder := range r.folders {
		if folder.Name == name && sameParent(folder.ParentID, parentID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memFolderRepo) ListChildren(ctx context.Context, parentID *string) ([]*Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*Folder
	for _, folder := range r.folders {
		if sameParent(folder.ParentID, parentID) {
			cp := *folder
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *memFolderRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.folders[id]; !ok {
		return ErrFolderNotFound
	}
	delete(r.folders, id)
	return nil
}

func (r *memFolderRepo) DeleteIfEmpty(ctx context.Context, id string) error {
	fileCount, err := r.files.CountByFolder(ctx, &id)
	if err != nil {
		return err
	}
	if fileCount > 0 {
		return ErrFolderNotEmpty
	}

	children, err := r.ListChildren(ctx, &id)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return ErrFolderNotEmpty
	}

	return r.Delete(ctx, id)
}

// memFileRepo 内存文件记录仓储，测试用
type memFileRepo struct {
	mu    sync.Mutex
	files map[string]*FileEntry
	// createErr 非 nil 时 Create 直接返回该错误，用于模拟记录写入失败
	createErr error
	// getErr 非 nil 时 GetByID 直接返回该错误，用于模拟后端故障
	getErr error
}

func newMemFileRepo() *memFileRepo {
	return &memFileRepo{files: make(map[string]*FileEntry)}
}

func (r *memFileRepo) Create(ctx context.Context, entry *FileEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	cp := *entry
	r.files[entry.ID] = &cp
	return nil
}

func (r *memFileRepo) GetByID(ctx context.Context, id string) (*FileEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	entry, ok := r.files[id]
	if !ok {
		return nil, ErrFileNotFound
	}
	cp := *entry
	return &cp, nil
}

func (r *memFileRepo) ListByFolder(ctx context.Context, folderID *string) ([]*FileEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*FileEntry
	for _, entry := range r.files {
		if sameParent(entry.FolderID, folderID) {
			cp := *entry
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UploadedAt.After(result[j].UploadedAt) })
	return result, nil
}

func (r *memFileRepo) ListAll(ctx context.Context) ([]*FileEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*FileEntry, 0, len(r.files))
	for _, entry := range r.files {
		cp := *entry
		result = append(result, &cp)
	}
	return result, nil
}

func (r *memFileRepo) CountByFolder(ctx context.Context, folderID *string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, entry := range r.files {
		if sameParent(entry.FolderID, folderID) {
			count++
		}
	}
	return count, nil
}

func (r *memFileRepo) Update(ctx context.Context, entry *FileEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[entry.ID]; !ok {
		return ErrFileNotFound
	}
	cp := *entry
	r.files[entry.ID] = &cp
	return nil
}

func (r *memFileRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[id]; !ok {
		return ErrFileNotFound
	}
	delete(r.files, id)
	return nil
}

// memBlobStore 内存 blob 存储，测试用
type memBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{objects: make(map[string][]byte)}
}

func (s *memBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.objects[key] = cp
	return nil
}

func (s *memBlobStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, errObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memBlobStore) Size(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		// blob 缺失时按 0 计，与线上行为一致
		return 0, nil
	}
	return int64(len(data)), nil
}

func (s *memBlobStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memBlobStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// testEnv 组装一套完整的内存用例栈
type testEnv struct {
	folderRepo *memFolderRepo
	fileRepo   *memFileRepo
	blobs      *memBlobStore
	quota      *QuotaAccountant
	validator  *UploadValidator
	files      *FileUseCase
	folders    *FolderUseCase
	cfg        conf.StorageConfig
}

func newTestEnv(maxStorage int64) *testEnv {
	cfg := conf.DefaultStorageConfig()
	cfg.MaxTotalStorage = maxStorage

	folderRepo := newMemFolderRepo()
	fileRepo := newMemFileRepo()
	folderRepo.files = fileRepo
	blobs := newMemBlobStore()
	log := logger.NewNop()

	quota := NewQuotaAccountant(fileRepo, blobs, cfg.MaxTotalStorage)
	validator := NewUploadValidator(quota, cfg)
	files := NewFileUseCase(fileRepo, folderRepo, blobs, validator, cfg, log)
	folders := NewFolderUseCase(folderRepo, fileRepo, files, log)

	return &testEnv{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		blobs:      blobs,
		quota:      quota,
		validator:  validator,
		files:      files,
		folders:    folders,
		cfg:        cfg,
	}
}
