package search

import (
	"context"
	"errors"
	"path"

	"github.com/blevesearch/bleve/v2"
	"github.com/fatih/structs"
	"github.com/puzpuzpuz/xsync"
	"github.com/questx-lab/tileset/pkg/logger"
	"github.com/questx-lab/tileset/pkg/xcontext"
)

const (
	TilesetDoc = "tileset"
)

type TilesetData struct {
	Name     string   `structs:"name"`
	Image    string   `structs:"image"`
	WangSets []string `structs:"wang_sets"`
	Colors   []string `structs:"colors"`
}

type Indexer interface {
	IndexTileset(ctx context.Context, id string, data TilesetData) error
	DeleteTileset(ctx context.Context, id string) error
	SearchTileset(ctx context.Context, query string, offset, limit int) ([]string, error)
	Close()
}

type bleveIndex struct {
	logger   logger.Logger
	indexDir string
	indexes  *xsync.MapOf[string, bleve.Index]
}

// NewBleveIndex stores indexes under the configured directory, or in memory when
// the directory is empty.
func NewBleveIndex(ctx context.Context) *bleveIndex {
	return &bleveIndex{
		logger:   xcontext.Logger(ctx),
		indexDir: xcontext.Configs(ctx).Search.IndexDir,
		indexes:  xsync.NewMapOf[bleve.Index](),
	}
}

func (i *bleveIndex) IndexTileset(ctx context.Context, id string, data TilesetData) error {
	return i.index(TilesetDoc, id, structs.Map(data))
}

func (i *bleveIndex) DeleteTileset(ctx context.Context, id string) error {
	return i.delete(TilesetDoc, id)
}

func (i *bleveIndex) SearchTileset(ctx context.Context, query string, offset, limit int) ([]string, error) {
	return i.search(TilesetDoc, query, offset, limit)
}

func (i *bleveIndex) index(document, id string, data any) error {
	index, err := i.getIndexByDocument(document)
	if err != nil {
		return err
	}

	record, err := index.Document(id)
	if err != nil {
		return err
	}

	// Delete if the record existed.
	if record != nil {
		if err := index.Delete(id); err != nil {
			return err
		}
	}

	return index.Index(id, data)
}

func (i *bleveIndex) delete(document, id string) error {
	index, err := i.getIndexByDocument(document)
	if err != nil {
		return err
	}

	return index.Delete(id)
}

func (i *bleveIndex) search(document, query string, offset, limit int) ([]string, error) {
	index, err := i.getIndexByDocument(document)
	if err != nil {
		return nil, err
	}

	req := bleve.NewSearchRequestOptions(bleve.NewMatchQuery(query), limit, offset, false)
	searchResults, err := index.Search(req)
	if err != nil {
		return nil, err
	}

	ids := []string{}
	for _, match := range searchResults.Hits {
		ids = append(ids, match.ID)
	}

	return ids, nil
}

func (i *bleveIndex) Close() {
	i.logger.Infof("Closing all indexers...")

	i.indexes.Range(func(document string, index bleve.Index) bool {
		if err := index.Close(); err != nil {
			i.logger.Errorf("Cannot close indexer %s: %v", document, err)
		}

		return true
	})

	i.logger.Infof("Closing all indexers...done")
}

func (i *bleveIndex) getIndexByDocument(document string) (bleve.Index, error) {
	index, ok := i.indexes.Load(document)
	if ok {
		return index, nil
	}

	i.logger.Infof("A new document index is added: %s", document)

	if i.indexDir == "" {
		index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
		if err != nil {
			return nil, err
		}

		actual, _ := i.indexes.LoadOrStore(document, index)
		return actual, nil
	}

	indexPath := path.Join(i.indexDir, document)
	index, err := bleve.New(indexPath, bleve.NewIndexMapping())
	if err != nil {
		if !errors.Is(err, bleve.ErrorIndexPathExists) {
			return nil, err
		}

		index, err = bleve.Open(indexPath)
		if err != nil {
			return nil, err
		}
	}

	i.indexes.Store(document, index)
	return index, nil
}
