package classify

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Policy selects how a call site combines the keyword table with the
// semantic fallback. Both modes exist in the wild: listing and aggregation
// endpoints classify everything semantically for consistency, while ad-hoc
// classification tries the cheap keyword path first.
type Policy string

const (
	// PolicyKeywordFirst tries the keyword table and only falls back to the
	// semantic classifier when the table is inconclusive.
	PolicyKeywordFirst Policy = "keyword_first"

	// PolicySemanticOnly skips the keyword table and always routes through
	// the cached semantic classifier.
	PolicySemanticOnly Policy = "semantic_only"
)

// Resolver resolves descriptions to category labels. It owns the only
// mutable state in the system: a process-lifetime cache of settled semantic
// results plus a pending-call registry that guarantees at most one in-flight
// backend call per distinct description, no matter how many requests race
// on the same miss.
//
// Cache entries are write-once; keys are never deleted or overwritten.
// Keyword results are never cached: they are cheap to recompute and the
// table may be swapped without leaving stale entries behind.
type Resolver struct {
	table         *Table
	semantic      Classifier
	cacheFailures bool

	mu     sync.RWMutex
	cache  map[string]string
	flight singleflight.Group
}

// NewResolver creates a resolver with an empty cache. When cacheFailures is
// set, a failed semantic call settles the key at the Uncategorized sentinel
// (legacy behavior); otherwise the key stays unresolved so a later request
// retries the backend.
func NewResolver(table *Table, semantic Classifier, cacheFailures bool) *Resolver {
	return &Resolver{
		table:         table,
		semantic:      semantic,
		cacheFailures: cacheFailures,
		cache:         make(map[string]string),
	}
}

// Resolve returns a category label for the description. It never fails:
// every error path collapses to the Uncategorized sentinel.
func (r *Resolver) Resolve(ctx context.Context, description string, policy Policy) string {
	if description == "" {
		return Uncategorized
	}

	if policy == PolicyKeywordFirst {
		if label := r.table.Classify(description); label != Uncategorized {
			return label
		}
	}

	return r.resolveSemantic(ctx, description)
}

// resolveSemantic consults the cache and, on a miss, funnels all concurrent
// callers for the same description through a single backend call.
func (r *Resolver) resolveSemantic(ctx context.Context, description string) string {
	r.mu.RLock()
	label, ok := r.cache[description]
	r.mu.RUnlock()
	if ok {
		return label
	}

	v, _, _ := r.flight.Do(description, func() (interface{}, error) {
		// A previous flight may have settled the key while we waited.
		r.mu.RLock()
		cached, ok := r.cache[description]
		r.mu.RUnlock()
		if ok {
			return cached, nil
		}

		label, err := r.semantic.Classify(ctx, description)
		if err != nil {
			if r.cacheFailures {
				r.store(description, Uncategorized)
			}
			return Uncategorized, nil
		}

		label = strings.TrimSpace(label)
		if label == "" {
			label = Uncategorized
		}
		r.store(description, label)
		return label, nil
	})

	return v.(string)
}

// store records a settled value; the first writer wins.
func (r *Resolver) store(description, label string) {
	r.mu.Lock()
	if _, ok := r.cache[description]; !ok {
		r.cache[description] = label
	}
	r.mu.Unlock()
}

// Cached reports the settled value for a description, if any.
func (r *Resolver) Cached(description string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	label, ok := r.cache[description]
	return label, ok
}

// CacheSize returns the number of settled entries.
func (r *Resolver) CacheSize() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}
