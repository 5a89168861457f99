package mocks

import (
	"context"

	"github.com/questx-lab/tileset/internal/domain/search"
	"github.com/stretchr/testify/mock"
)

type Indexer struct {
	mock.Mock
}

func (i *Indexer) IndexTileset(arg1 context.Context, arg2 string, arg3 search.TilesetData) error {
	args := i.Called(arg1, arg2, arg3)
	return args.Error(0)
}

func (i *Indexer) DeleteTileset(arg1 context.Context, arg2 string) error {
	args := i.Called(arg1, arg2)
	return args.Error(0)
}

func (i *Indexer) SearchTileset(arg1 context.Context, arg2 string, arg3, arg4 int) ([]string, error) {
	args := i.Called(arg1, arg2, arg3, arg4)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (i *Indexer) Close() {
	i.Called()
}
