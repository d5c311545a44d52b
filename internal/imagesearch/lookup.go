// Package imagesearch finds a product photo for an item name. Lookups never
// fail from the caller's point of view: every error path yields Placeholder.
package imagesearch

import (
	"context"
	"strings"

	"golang.org/x/sync/singleflight"

	applog "shopkeep/internal/log"
	"shopkeep/internal/metrics"
)

type Image struct {
	Bytes       []byte
	ContentType string
}

const placeholderSVG = `<svg width="400" height="300" xmlns="http://www.w3.org/2000/svg" fill="#dadada"><rect width="100%" height="100%"/><text x="200" y="160" font-size="36" fill="#888" text-anchor="middle">No Image</text></svg>`

// Placeholder is served whenever no photo can be produced.
func Placeholder() Image {
	return Image{Bytes: []byte(placeholderSVG), ContentType: "image/svg+xml"}
}

type Provider interface {
	Find(ctx context.Context, query string) (Image, error)
}

type Cache interface {
	Get(ctx context.Context, key string) (Image, bool, error)
	Set(ctx context.Context, key string, img Image) error
}

type Lookup struct {
	provider Provider
	cache    Cache
	metrics  *metrics.Metrics
	group    singleflight.Group
}

// New builds a Lookup. provider and cache may be nil: without a provider
// every lookup returns the placeholder; without a cache nothing is stored.
func New(provider Provider, cache Cache, m *metrics.Metrics) *Lookup {
	return &Lookup{provider: provider, cache: cache, metrics: m}
}

func (l *Lookup) Image(ctx context.Context, name string) Image {
	q := strings.TrimSpace(name)
	if q == "" || l.provider == nil {
		l.metrics.ImageLookup("placeholder")
		return Placeholder()
	}
	key := "item-image:" + strings.ToLower(q)

	if l.cache != nil {
		img, ok, err := l.cache.Get(ctx, key)
		if err != nil {
			applog.Background("warn", "image.cache.get.fail", err, map[string]any{"key": key})
		} else if ok {
			l.metrics.ImageLookup("cache")
			return img
		}
	}

	// joined callers must not inherit the first caller's cancellation
	v, err, _ := l.group.Do(key, func() (interface{}, error) {
		return l.provider.Find(context.WithoutCancel(ctx), q)
	})
	if err != nil {
		applog.Background("warn", "image.lookup.fallback", err, map[string]any{"query": q})
		l.metrics.ImageLookup("placeholder")
		return Placeholder()
	}
	img := v.(Image)

	if l.cache != nil {
		if err := l.cache.Set(ctx, key, img); err != nil {
			applog.Background("warn", "image.cache.set.fail", err, map[string]any{"key": key})
		}
	}
	l.metrics.ImageLookup("provider")
	return img
}
