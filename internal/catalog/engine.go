// Package catalog serves the validated medicine catalog from a short lived
// in-process cache and implements search, filtering, sorting and paging.
package catalog

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"medicare/internal/domain"
	"medicare/internal/store"
)

const (
	DefaultTTL = 5 * time.Minute
	cacheKey   = "medicines"
)

// requiredFields must be present for a record to enter the catalog.
var requiredFields = []string{"name", "price", "stock", "expiry_date"}

// Source provides the raw medicine records.
type Source interface {
	All(ctx context.Context) ([]store.Record, error)
}

type snapshot struct {
	items []domain.Medicine
	at    time.Time
}

// Engine caches the last validated catalog snapshot for ttl.
type Engine struct {
	src   Source
	ttl   time.Duration
	now   func() time.Time
	log   logrus.FieldLogger
	group singleflight.Group

	mu   sync.RWMutex
	snap *snapshot
}

type Option func(*Engine)

func WithTTL(ttl time.Duration) Option { return func(e *Engine) { e.ttl = ttl } }

func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

func WithLogger(l logrus.FieldLogger) Option { return func(e *Engine) { e.log = l } }

func NewEngine(src Source, opts ...Option) *Engine {
	e := &Engine{
		src: src,
		ttl: DefaultTTL,
		now: time.Now,
		log: logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Medicines returns the current catalog. A failed read yields an empty
// slice together with a *domain.CatalogLoadError; the cache is left as is.
func (e *Engine) Medicines(ctx context.Context, forceRefresh bool) ([]domain.Medicine, error) {
	if !forceRefresh {
		if items, ok := e.cached(); ok {
			return items, nil
		}
	}
	// the load is shared by every waiter, so one caller going away must
	// not fail it for the others
	v, err, _ := e.group.Do(cacheKey, func() (any, error) {
		return e.reload(context.WithoutCancel(ctx))
	})
	if err != nil {
		e.log.WithError(err).Warn("catalog load failed")
		return []domain.Medicine{}, &domain.CatalogLoadError{Err: err}
	}
	return slices.Clone(v.([]domain.Medicine)), nil
}

// Invalidate drops the cached snapshot.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	e.snap = nil
	e.mu.Unlock()
}

func (e *Engine) cached() ([]domain.Medicine, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.snap == nil || e.now().Sub(e.snap.at) >= e.ttl {
		return nil, false
	}
	return slices.Clone(e.snap.items), true
}

func (e *Engine) reload(ctx context.Context) ([]domain.Medicine, error) {
	records, err := e.src.All(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]domain.Medicine, 0, len(records))
	dropped := 0
	for _, rec := range records {
		m, ok := decode(rec)
		if !ok {
			dropped++
			continue
		}
		items = append(items, m)
	}
	if dropped > 0 {
		e.log.WithField("dropped", dropped).Debug("invalid medicine records skipped")
	}

	e.mu.Lock()
	e.snap = &snapshot{items: items, at: e.now()}
	e.mu.Unlock()
	return items, nil
}

// Validate reports whether the record carries every required field.
// Only presence is checked.
func Validate(rec store.Record) bool {
	for _, f := range requiredFields {
		if !rec.Has(f) {
			return false
		}
	}
	return true
}

// decode validates rec and converts it. Records whose values do not fit the
// Medicine fields are dropped like records with missing fields.
func decode(rec store.Record) (domain.Medicine, bool) {
	if !Validate(rec) {
		return domain.Medicine{}, false
	}
	var m domain.Medicine
	if err := rec.Decode(&m); err != nil {
		return domain.Medicine{}, false
	}
	if m.Category == "" {
		m.Category = domain.DefaultCategory
	}
	return m, true
}
