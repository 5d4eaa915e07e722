package analytics

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/claude/repscope/internal/hevy"
)

// TemplateCache holds a read-only snapshot of the exercise-template
// catalog, populated at most once per instance by exhaustive pagination.
// A failed load leaves the cache empty so the next call retries.
type TemplateCache struct {
	ds         DataSource
	snap       SnapshotStore
	snapMaxAge time.Duration
	log        *slog.Logger

	mu        sync.Mutex
	templates []hevy.ExerciseTemplate
	byID      map[string]string
	loaded    bool
}

// NewTemplateCache creates an unloaded cache. snap may be nil.
func NewTemplateCache(ds DataSource, snap SnapshotStore, snapMaxAge time.Duration, log *slog.Logger) *TemplateCache {
	return &TemplateCache{ds: ds, snap: snap, snapMaxAge: snapMaxAge, log: log}
}

// ensureLoaded populates the cache if it is empty. Concurrent callers
// serialize on the mutex, so a cold cache is fetched exactly once.
func (c *TemplateCache) ensureLoaded(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return nil
	}

	templates, err := c.load(ctx)
	if err != nil {
		return err
	}

	byID := make(map[string]string, len(templates))
	for _, t := range templates {
		byID[t.ID] = t.Title
	}

	c.templates = templates
	c.byID = byID
	c.loaded = true
	return nil
}

func (c *TemplateCache) load(ctx context.Context) ([]hevy.ExerciseTemplate, error) {
	if c.snap != nil {
		if templates, err := c.snap.LoadTemplates(c.snapMaxAge); err != nil {
			c.log.Warn("template snapshot load failed", "error", err)
		} else if len(templates) > 0 {
			c.log.Info("template catalog loaded from snapshot", "count", len(templates))
			return templates, nil
		}
	}

	var templates []hevy.ExerciseTemplate
	for page := 1; ; page++ {
		batch, err := c.ds.GetExerciseTemplatesPage(ctx, page, hevy.MaxTemplatePageSize)
		if err != nil {
			return nil, err
		}
		templates = append(templates, batch...)
		if len(batch) < hevy.MaxTemplatePageSize {
			break
		}
	}
	c.log.Info("template catalog loaded", "count", len(templates))

	if c.snap != nil {
		if err := c.snap.SaveTemplates(templates); err != nil {
			c.log.Warn("template snapshot save failed", "error", err)
		}
	}
	return templates, nil
}

// NameOf returns the display name for a template id, falling back to the
// id itself when the catalog has no entry.
func (c *TemplateCache) NameOf(ctx context.Context, id string) (string, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if title, ok := c.byID[id]; ok {
		return title, nil
	}
	return id, nil
}

// Search returns templates whose titles contain query case-insensitively,
// in catalog order. An empty query returns the full catalog. Matching is
// deliberately not relevance-ranked: the first catalog entry containing
// the query wins downstream resolution.
func (c *TemplateCache) Search(ctx context.Context, query string) ([]hevy.ExerciseTemplate, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if query == "" {
		out := make([]hevy.ExerciseTemplate, len(c.templates))
		copy(out, c.templates)
		return out, nil
	}

	q := strings.ToLower(query)
	var out []hevy.ExerciseTemplate
	for _, t := range c.templates {
		if strings.Contains(strings.ToLower(t.Title), q) {
			out = append(out, t)
		}
	}
	return out, nil
}
