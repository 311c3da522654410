package cache

import (
	"context"
	"errors"
	"time"

	pkgcache "TradeLens/pkg/cache"
)

// ServiceCache adapts a pkg/cache Service (redis or layered) to the
// BytesCache interface used by the analyzer.
type ServiceCache struct {
	svc pkgcache.Service
}

func NewServiceCache(svc pkgcache.Service) *ServiceCache {
	return &ServiceCache{svc: svc}
}

func (s *ServiceCache) GetBytes(key string) ([]byte, bool, error) {
	var raw string
	err := s.svc.Get(context.Background(), key, &raw)
	if err != nil {
		if errors.Is(err, pkgcache.ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(raw), true, nil
}

func (s *ServiceCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	return s.svc.Set(context.Background(), key, string(value), ttl)
}
