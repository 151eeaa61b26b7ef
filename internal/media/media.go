// Package media picks the illustrative image for an article.
package media

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/deusflow/analystbot/internal/cache"
	"github.com/deusflow/analystbot/internal/logger"
	"github.com/deusflow/analystbot/internal/metrics"
)

const (
	ProviderPexels = "pexels"
	ProviderPicsum = "picsum"

	searchPageSize = 15
	defaultAlt     = "Economics and Technology News"
	defaultQuery   = "technology"
	resizeParams   = "?auto=compress&cs=tinysrgb&w=800&fm=webp"
)

// Asset is the chosen image and its credit line.
type Asset struct {
	URL         string
	Alt         string
	Attribution string
	Provider    string
}

// Searcher queries a photo provider.
type Searcher interface {
	Search(ctx context.Context, query string, perPage int) ([]Photo, error)
}

type Resolver struct {
	search   Searcher // nil when no provider credential is configured
	cache    *cache.Cache
	cacheTTL time.Duration
	pick     func(n int) int
	log      *slog.Logger
}

// NewResolver creates a resolver. search may be nil. c may be nil to disable
// caching of search results.
func NewResolver(search Searcher, c *cache.Cache, cacheTTL time.Duration, log *slog.Logger) *Resolver {
	return &Resolver{
		search:   search,
		cache:    c,
		cacheTTL: cacheTTL,
		pick:     rand.Intn,
		log:      logger.OrDiscard(log),
	}
}

// Resolve returns an image for keyword. stamp is the run timestamp used to
// key placeholders. It never fails: a random provider photo is preferred, a
// stamp-keyed placeholder covers empty results, provider errors and a missing
// credential.
func (r *Resolver) Resolve(ctx context.Context, keyword, stamp string) Asset {
	if r.search == nil {
		return r.placeholder(stamp, false)
	}

	query := keyword
	if query == "" {
		query = defaultQuery
	}

	photos, err := r.photos(ctx, query)
	if err != nil {
		r.log.Warn("image search failed, using placeholder", "query", query, "error", err)
		return r.placeholder(stamp, false)
	}
	photos = withSource(photos)
	if len(photos) == 0 {
		r.log.Info("image search returned nothing usable, using placeholder", "query", query)
		return r.placeholder(stamp, true)
	}

	// Uniform pick among the results.
	photo := photos[r.pick(len(photos))]
	metrics.ImagesResolved.WithLabelValues(ProviderPexels).Inc()
	return photoAsset(photo, keyword)
}

func (r *Resolver) photos(ctx context.Context, query string) ([]Photo, error) {
	key := cache.GenerateKey(ProviderPexels, query)
	if r.cache != nil {
		if v, ok := r.cache.Get(key); ok {
			r.log.Debug("image search cache hit", "query", query)
			return v.([]Photo), nil
		}
	}

	photos, err := r.search.Search(ctx, query, searchPageSize)
	if err != nil {
		return nil, err
	}
	if r.cache != nil && len(photos) > 0 {
		r.cache.Set(key, photos, r.cacheTTL)
	}
	return photos, nil
}

// withSource drops photos that carry no downloadable size.
func withSource(photos []Photo) []Photo {
	var out []Photo
	for _, p := range photos {
		if p.Src.Large2x != "" || p.Src.Original != "" {
			out = append(out, p)
		}
	}
	return out
}

func photoAsset(p Photo, keyword string) Asset {
	src := p.Src.Large2x
	if src == "" {
		src = p.Src.Original
	}

	alt := p.Alt
	if alt == "" {
		alt = fmt.Sprintf("%s related image", keyword)
	}
	name := p.Photographer
	if name == "" {
		name = "Pexels User"
	}
	profile := p.PhotographerURL
	if profile == "" {
		profile = "https://www.pexels.com"
	}

	return Asset{
		URL:         src + resizeParams,
		Alt:         alt,
		Attribution: fmt.Sprintf("Photo by [%s](%s) on [Pexels](https://www.pexels.com)", name, profile),
		Provider:    ProviderPexels,
	}
}

func (r *Resolver) placeholder(stamp string, webp bool) Asset {
	metrics.ImagesResolved.WithLabelValues(ProviderPicsum).Inc()
	return Placeholder(stamp, webp)
}

// Placeholder returns the stamp-keyed stock image. webp selects the
// optimized variant used when the provider answered with no results.
func Placeholder(stamp string, webp bool) Asset {
	u := fmt.Sprintf("https://picsum.photos/seed/%s/800/600", stamp)
	if webp {
		u += ".webp"
	}
	return Asset{
		URL:         u,
		Alt:         defaultAlt,
		Attribution: "Photo from Picsum Photos",
		Provider:    ProviderPicsum,
	}
}
