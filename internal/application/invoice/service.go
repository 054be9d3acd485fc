// Package invoice serves the dashboard's read views. Both views are cached and
// the mutation pipeline drops the affected keys after every committed change.
package invoice

import (
	"context"
	"strings"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/domain"
)

// ListKey caches the full dashboard listing.
const ListKey = "invoices:list"

// Key caches a single invoice.
func Key(id string) string { return "invoice:" + id }

type Store interface {
	List(ctx context.Context) ([]domain.Invoice, error)
	// Get returns a not_found domain error when no row matches.
	Get(ctx context.Context, id string) (domain.Invoice, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Service struct {
	store Store
	cache Cache

	ttlList    time.Duration
	ttlDetails time.Duration
}

// New builds the read service. cache may be nil.
func New(store Store, cache Cache, ttlList, ttlDetails time.Duration) *Service {
	if ttlList <= 0 {
		ttlList = 30 * time.Second
	}
	if ttlDetails <= 0 {
		ttlDetails = 5 * time.Minute
	}
	return &Service{store: store, cache: cache, ttlList: ttlList, ttlDetails: ttlDetails}
}

func (s *Service) List(ctx context.Context) ([]domain.Invoice, error) {
	var cached []domain.Invoice
	if s.lookup(ctx, ListKey, &cached) {
		return cached, nil
	}

	out, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Invoice{}
	}

	s.fill(ctx, ListKey, out, s.ttlList)
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Invoice, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Invoice{}, domain.ErrNotFound("invoice")
	}

	key := Key(id)
	var cached domain.Invoice
	if s.lookup(ctx, key, &cached) {
		return cached, nil
	}

	inv, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Invoice{}, err
	}

	s.fill(ctx, key, inv, s.ttlDetails)
	return inv, nil
}

func (s *Service) lookup(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		zlog.Warn().Err(err).Str("key", key).Msg("cache get failed")
		return false
	}
	if found {
		zlog.Debug().Str("key", key).Msg("cache hit")
	}
	return found
}

func (s *Service) fill(ctx context.Context, key string, val any, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, val, ttl); err != nil {
		zlog.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}
