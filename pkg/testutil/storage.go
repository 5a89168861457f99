package testutil

import (
	"context"
	"path"
	"sync"

	"github.com/questx-lab/tileset/pkg/errorx"
	"github.com/questx-lab/tileset/pkg/storage"
)

type MockStorage struct {
	UploadFunc     func(context.Context, *storage.UploadObject) (*storage.UploadResponse, error)
	BulkUploadFunc func(context.Context, []*storage.UploadObject) ([]*storage.UploadResponse, error)
	DownloadFunc   func(ctx context.Context, bucket, fileName string) ([]byte, error)
}

func (m *MockStorage) Upload(
	ctx context.Context, obj *storage.UploadObject,
) (*storage.UploadResponse, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, obj)
	}

	return nil, errorx.New(errorx.NotImplemented, "Not implemented")
}

func (m *MockStorage) BulkUpload(
	ctx context.Context, obj []*storage.UploadObject,
) ([]*storage.UploadResponse, error) {
	if m.BulkUploadFunc != nil {
		return m.BulkUploadFunc(ctx, obj)
	}

	return nil, errorx.New(errorx.NotImplemented, "Not implemented")
}

func (m *MockStorage) Download(ctx context.Context, bucket, fileName string) ([]byte, error) {
	if m.DownloadFunc != nil {
		return m.DownloadFunc(ctx, bucket, fileName)
	}

	return nil, errorx.New(errorx.NotImplemented, "Not implemented")
}

// MemoryStorage keeps uploaded objects in a map keyed by bucket and file name.
type MemoryStorage struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{Objects: map[string][]byte{}}
}

func (m *MemoryStorage) Upload(
	ctx context.Context, obj *storage.UploadObject,
) (*storage.UploadResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fileName := path.Join(obj.Prefix, obj.FileName)
	m.Objects[path.Join(obj.Bucket, fileName)] = obj.Data
	return &storage.UploadResponse{
		Url:      "mem://" + path.Join(obj.Bucket, fileName),
		FileName: fileName,
	}, nil
}

func (m *MemoryStorage) BulkUpload(
	ctx context.Context, objs []*storage.UploadObject,
) ([]*storage.UploadResponse, error) {
	resps := make([]*storage.UploadResponse, 0, len(objs))
	for _, obj := range objs {
		resp, err := m.Upload(ctx, obj)
		if err != nil {
			return nil, err
		}

		resps = append(resps, resp)
	}

	return resps, nil
}

func (m *MemoryStorage) Download(ctx context.Context, bucket, fileName string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.Objects[path.Join(bucket, fileName)]
	if !ok {
		return nil, errorx.New(errorx.NotFound, "Not found object %s", fileName)
	}

	return data, nil
}

func (m *MemoryStorage) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.Objects)
}
