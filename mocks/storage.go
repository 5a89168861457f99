package mocks

import (
	"context"

	"github.com/questx-lab/tileset/pkg/storage"
	"github.com/stretchr/testify/mock"
)

type Storage struct {
	mock.Mock
}

func (s *Storage) Upload(arg1 context.Context, arg2 *storage.UploadObject) (*storage.UploadResponse, error) {
	args := s.Called(arg1, arg2)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResponse), args.Error(1)
}

func (s *Storage) BulkUpload(arg1 context.Context, arg2 []*storage.UploadObject) ([]*storage.UploadResponse, error) {
	args := s.Called(arg1, arg2)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.UploadResponse), args.Error(1)
}

func (s *Storage) Download(arg1 context.Context, arg2, arg3 string) ([]byte, error) {
	args := s.Called(arg1, arg2, arg3)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
