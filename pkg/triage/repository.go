package triage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smart-triage/platform/pkg/common/logger"
	"github.com/smart-triage/platform/pkg/common/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("patient record not found")

// recordCache is the lookaside store for single-record reads. Get returns
// (nil, nil) on a miss.
type recordCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type redisCache struct {
	client *redis.Client
}

func (c redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return data, err
}

func (c redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

type Repository struct {
	db       *gorm.DB
	cache    recordCache
	cacheTTL time.Duration
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithCache enables a read-through cache for single-record lookups. Records
// are immutable after insert, so cached copies never go stale.
func (r *Repository) WithCache(client *redis.Client, ttl time.Duration) *Repository {
	r.cache = redisCache{client: client}
	r.cacheTTL = ttl
	return r
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&models.PatientRecord{})
}

func (r *Repository) Create(ctx context.Context, rec *models.PatientRecord) error {
	rec.CreatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Create(rec).Error
}

// ListRecent returns records newest-first. A limit of zero or less returns
// the full set.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]models.PatientRecord, error) {
	var records []models.PatientRecord
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*models.PatientRecord, error) {
	if rec := r.cachedGet(ctx, id); rec != nil {
		return rec, nil
	}

	var rec models.PatientRecord
	result := r.db.WithContext(ctx).First(&rec, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}

	r.cachePut(ctx, &rec)
	return &rec, nil
}

func cacheKey(id string) string {
	return fmt.Sprintf("triage:record:%s", id)
}

func (r *Repository) cachedGet(ctx context.Context, id string) *models.PatientRecord {
	if r.cache == nil {
		return nil
	}
	data, err := r.cache.Get(ctx, cacheKey(id))
	if err != nil {
		logger.Log.WithError(err).Debug("record cache read failed")
		return nil
	}
	if data == nil {
		return nil
	}
	var rec models.PatientRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil
	}
	return &rec
}

func (r *Repository) cachePut(ctx context.Context, rec *models.PatientRecord) {
	if r.cache == nil {
		return
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKey(rec.ID), data, r.cacheTTL); err != nil {
		logger.Log.WithError(err).Debug("record cache write failed")
	}
}
