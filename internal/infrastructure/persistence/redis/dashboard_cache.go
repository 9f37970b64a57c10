package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emoclass/emoclass-backend/internal/application/query"
)

// ══════════════════════════════════════════════════════════════════════════════
// DASHBOARD CACHE
// ══════════════════════════════════════════════════════════════════════════════

// TTLDashboard is the TTL for cached dashboard payloads. Kept short so a
// fresh check-in shows up within a minute without explicit invalidation.
const TTLDashboard = time.Minute

// prefixDashboard namespaces dashboard keys.
const prefixDashboard = "dashboard:"

// DashboardCache implements query.DashboardCache on Redis.
type DashboardCache struct {
	cache *Cache
}

// NewDashboardCache creates a new DashboardCache.
func NewDashboardCache(cache *Cache) *DashboardCache {
	return &DashboardCache{cache: cache}
}

func dashboardKey(classID, date string) string {
	return fmt.Sprintf("%s%s:%s", prefixDashboard, classID, date)
}

// GetClassDashboard returns the cached payload or (nil, nil) on miss.
func (d *DashboardCache) GetClassDashboard(ctx context.Context, classID, date string) (*query.ClassDashboardDTO, error) {
	var dto query.ClassDashboardDTO
	err := d.cache.Get(ctx, dashboardKey(classID, date), &dto)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	return &dto, nil
}

// SetClassDashboard stores the payload under the dashboard TTL.
func (d *DashboardCache) SetClassDashboard(ctx context.Context, classID, date string, dto *query.ClassDashboardDTO) error {
	return d.cache.Set(ctx, dashboardKey(classID, date), dto, TTLDashboard)
}
