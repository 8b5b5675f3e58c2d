package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aulaplan/aula-sync-api/internal/schema"
	appErrors "github.com/aulaplan/aula-sync-api/pkg/errors"
)

type syncStore interface {
	EnsureSchema(ctx context.Context) error
	Upsert(ctx context.Context, table *schema.Table, row map[string]interface{}) error
	List(ctx context.Context, table *schema.Table, ownerID *int64) ([]map[string]interface{}, error)
	Delete(ctx context.Context, table *schema.Table, id int64) error
}

// SyncService implements the generic upload/download/delete surface on top
// of the schema registry.
type SyncService struct {
	store    syncStore
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewSyncService constructs a SyncService.
func NewSyncService(store syncStore, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cacheTTL time.Duration) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{store: store, cache: cache, metrics: metrics, logger: logger, cacheTTL: cacheTTL}
}

// Upload applies a batch of rows to the named table. Rows run sequentially
// with per-row upsert semantics; there is no transaction around the batch,
// so a mid-batch failure leaves earlier rows committed, matching the
// client's retry model (it resends the whole batch).
func (s *SyncService) Upload(ctx context.Context, tabla string, rows []map[string]interface{}) error {
	table, ok := schema.Lookup(tabla)
	if !ok {
		return appErrors.ErrUnknownTable
	}
	if len(rows) == 0 {
		return appErrors.ErrEmptyBatch
	}

	for i, row := range rows {
		for key := range row {
			if !table.HasColumn(key) {
				return appErrors.Clone(appErrors.ErrUnknownColumn,
					fmt.Sprintf("Columna %q no registrada para %s (fila %d).", key, tabla, i))
			}
		}
	}

	if err := s.store.EnsureSchema(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrSyncFailed.Code, appErrors.ErrSyncFailed.Status, err.Error())
	}

	batchID := uuid.NewString()
	start := time.Now()
	for i, row := range rows {
		if err := s.store.Upsert(ctx, table, row); err != nil {
			s.logger.Error("sync batch failed",
				zap.String("table", tabla),
				zap.String("batch_id", batchID),
				zap.Int("row", i),
				zap.Error(err))
			return appErrors.Wrap(err, appErrors.ErrSyncFailed.Code, appErrors.ErrSyncFailed.Status, err.Error())
		}
	}
	s.metrics.ObserveDBQuery("sync_upsert_"+tabla, time.Since(start))
	s.metrics.AddSyncedRows(tabla, len(rows))

	if s.cache.Enabled() {
		_ = s.cache.Invalidate(ctx, downloadCachePattern(tabla))
	}

	s.logger.Info("sync batch applied",
		zap.String("table", tabla),
		zap.String("batch_id", batchID),
		zap.Int("rows", len(rows)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// Download returns the table's rows, scoped to the owner when one is
// supplied. The second return value reports whether the response came from
// cache.
func (s *SyncService) Download(ctx context.Context, tabla string, ownerID *int64) ([]map[string]interface{}, bool, error) {
	table, ok := schema.Lookup(tabla)
	if !ok {
		return nil, false, appErrors.ErrUnknownTable
	}

	key := downloadCacheKey(tabla, ownerID)
	if s.cache.Enabled() {
		var cached []map[string]interface{}
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return cached, true, nil
		}
	}

	start := time.Now()
	rows, err := s.store.List(ctx, table, ownerID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, err.Error())
	}
	s.metrics.ObserveDBQuery("sync_list_"+tabla, time.Since(start))

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, key, rows, s.cacheTTL)
	}
	return rows, false, nil
}

// Remove deletes one row by id. Deleting an absent row is a success.
func (s *SyncService) Remove(ctx context.Context, tabla string, id int64) error {
	table, ok := schema.Lookup(tabla)
	if !ok {
		return appErrors.ErrUnknownTable
	}
	if err := s.store.Delete(ctx, table, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, err.Error())
	}
	if s.cache.Enabled() {
		_ = s.cache.Invalidate(ctx, downloadCachePattern(tabla))
	}
	return nil
}

func downloadCacheKey(tabla string, ownerID *int64) string {
	if ownerID == nil {
		return fmt.Sprintf("sync:%s:all", tabla)
	}
	return fmt.Sprintf("sync:%s:owner:%d", tabla, *ownerID)
}

func downloadCachePattern(tabla string) string {
	return fmt.Sprintf("sync:%s:*", tabla)
}
