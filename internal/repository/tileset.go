package repository

import (
	"context"
	"fmt"

	"github.com/questx-lab/tileset/internal/entity"
	"github.com/questx-lab/tileset/pkg/xcontext"
	"github.com/questx-lab/tileset/pkg/xredis"
	"gorm.io/gorm"
)

type GetListTilesetFilter struct {
	NamePrefix string
	Offset     int
	Limit      int
}

type TilesetRepository interface {
	Create(ctx context.Context, e *entity.Tileset, wangSets []entity.WangSet) error
	GetByID(ctx context.Context, id string) (*entity.Tileset, error)
	GetByName(ctx context.Context, name string) (*entity.Tileset, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Tileset, error)
	GetList(ctx context.Context, filter GetListTilesetFilter) ([]entity.Tileset, error)
	GetWangSets(ctx context.Context, tilesetID string) ([]entity.WangSet, error)
	DeleteByID(ctx context.Context, id string) error
}

type tilesetRepository struct {
	redisClient xredis.Client
}

// NewTilesetRepository caches tilesets by id when redisClient is not nil.
func NewTilesetRepository(redisClient xredis.Client) TilesetRepository {
	return &tilesetRepository{redisClient: redisClient}
}

func (r *tilesetRepository) cacheKeyByID(id string) string {
	return fmt.Sprintf("cache:tileset:%s", id)
}

func (r *tilesetRepository) Create(ctx context.Context, e *entity.Tileset, wangSets []entity.WangSet) error {
	return xcontext.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(e).Error; err != nil {
			return err
		}

		for i := range wangSets {
			wangSets[i].TilesetID = e.ID
		}

		if len(wangSets) > 0 {
			if err := tx.Omit("Tileset").Create(&wangSets).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *tilesetRepository) GetByID(ctx context.Context, id string) (*entity.Tileset, error) {
	if r.redisClient != nil {
		result := entity.Tileset{}
		err := r.redisClient.GetObj(ctx, r.cacheKeyByID(id), &result)
		if err == nil {
			return &result, nil
		}

		if !xredis.IsNil(err) {
			xcontext.Logger(ctx).Warnf("Cannot get tileset %s from redis: %v", id, err)
		}
	}

	result := entity.Tileset{}
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	if r.redisClient != nil {
		ttl := xcontext.Configs(ctx).Redis.CacheTTL
		if err := r.redisClient.SetObj(ctx, r.cacheKeyByID(id), result, ttl); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot cache tileset %s: %v", id, err)
		}
	}

	return &result, nil
}

func (r *tilesetRepository) GetByName(ctx context.Context, name string) (*entity.Tileset, error) {
	result := entity.Tileset{}
	if err := xcontext.DB(ctx).Take(&result, "name=?", name).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *tilesetRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Tileset, error) {
	result := []entity.Tileset{}
	err := xcontext.DB(ctx).Omit("content").Find(&result, "id IN (?)", ids).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *tilesetRepository) GetList(ctx context.Context, filter GetListTilesetFilter) ([]entity.Tileset, error) {
	tx := xcontext.DB(ctx).Model(&entity.Tileset{}).Omit("content").Order("name ASC")
	if filter.NamePrefix != "" {
		tx = tx.Where("name LIKE ?", filter.NamePrefix+"%")
	}

	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}

	if filter.Offset > 0 {
		tx = tx.Offset(filter.Offset)
	}

	result := []entity.Tileset{}
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *tilesetRepository) GetWangSets(ctx context.Context, tilesetID string) ([]entity.WangSet, error) {
	result := []entity.WangSet{}
	err := xcontext.DB(ctx).Model(&entity.WangSet{}).
		Where("tileset_id=?", tilesetID).
		Order("position ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *tilesetRepository) DeleteByID(ctx context.Context, id string) error {
	err := xcontext.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&entity.WangSet{}, "tileset_id=?", id).Error; err != nil {
			return err
		}

		result := tx.Unscoped().Delete(&entity.Tileset{}, "id=?", id)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
	if err != nil {
		return err
	}

	if r.redisClient != nil {
		if err := r.redisClient.Del(ctx, r.cacheKeyByID(id)); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot delete tileset %s from redis: %v", id, err)
		}
	}

	return nil
}
