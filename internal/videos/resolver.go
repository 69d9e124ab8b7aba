package videos

import (
	"context"
	"log/slog"
	"strings"
)

// Resolver chooses the video for a learning item. It never fails: a lookup
// problem degrades to the curated catalogue.
type Resolver struct {
	searcher Searcher
	cache    *Cache
	logger   *slog.Logger
}

// NewResolver creates a resolver. searcher and cache may be nil.
func NewResolver(searcher Searcher, cache *Cache, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{searcher: searcher, cache: cache, logger: logger}
}

// Resolve keeps a well-formed currentID, otherwise searches for searchQuery
// (or the title), otherwise falls back to the catalogue entry for the title.
func (r *Resolver) Resolve(ctx context.Context, title, searchQuery, currentID string) string {
	if id := strings.TrimSpace(currentID); ValidID(id) {
		return id
	}

	query := strings.TrimSpace(searchQuery)
	if query == "" {
		query = strings.TrimSpace(title)
	}
	if r != nil && r.searcher != nil && query != "" {
		if id := r.search(ctx, query); id != "" {
			return id
		}
	}

	return LookupTopic(title)
}

func (r *Resolver) search(ctx context.Context, query string) string {
	key := Key(query)
	if id, ok := r.cache.Get(ctx, key); ok {
		return id
	}

	id, err := r.searcher.Search(ctx, query)
	if err != nil {
		r.logger.Warn("video search failed, using catalogue",
			slog.String("query", query),
			slog.Any("error", err))
		return ""
	}
	if id != "" {
		r.cache.Set(ctx, key, id)
	}
	return id
}
