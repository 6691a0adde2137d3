package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"travel_console/internal/domain"
)

const activeLanguagesKey = "languages:active"

// Catalog answers which languages are editable in name forms. The answer is
// read through the cache and dropped whenever a language changes.
type Catalog struct {
	res   domain.Resource[domain.Language]
	cache domain.Cache
	ttl   time.Duration
}

func NewCatalog(res domain.Resource[domain.Language], cache domain.Cache, ttl time.Duration) *Catalog {
	return &Catalog{res: res, cache: cache, ttl: ttl}
}

// ActiveCodes returns the codes of active languages.
func (c *Catalog) ActiveCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if c.cache != nil {
		ok, err := c.cache.Get(ctx, activeLanguagesKey, &codes)
		if err != nil {
			log.Warn().Err(err).Msg("language cache read failed")
		}
		if ok {
			return codes, nil
		}
	}
	ls, err := c.res.List(ctx)
	if err != nil {
		return nil, err
	}
	codes = domain.ActiveCodes(ls)
	if c.cache != nil {
		if err := c.cache.Set(ctx, activeLanguagesKey, codes, int(c.ttl.Seconds())); err != nil {
			log.Warn().Err(err).Msg("language cache write failed")
		}
	}
	return codes, nil
}

func (c *Catalog) Invalidate(ctx context.Context) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Del(ctx, activeLanguagesKey); err != nil {
		log.Warn().Err(err).Msg("language cache invalidation failed")
	}
}
