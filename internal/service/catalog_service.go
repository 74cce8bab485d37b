package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"medicare/internal/cart"
	"medicare/internal/catalog"
	"medicare/internal/domain"
	"medicare/internal/repository"
	"medicare/internal/session"
	"medicare/internal/store"
)

// BrowseQuery is what the catalog page asks for.
type BrowseQuery struct {
	catalog.Query
	Sort     catalog.SortKey
	Page     int
	PageSize int
}

// Listing is one rendered catalog page. LoadErr is set when the catalog
// could not be read; the listing is then empty but still usable.
type Listing struct {
	Page       catalog.Page
	Categories []string
	Found      int
	AsOf       time.Time
	LoadErr    error
}

// CatalogService инкапсулирует просмотр каталога и добавление в корзину
type CatalogService struct {
	engine   *catalog.Engine
	meds     repository.MedicineRepository
	pageSize int
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewCatalogService(engine *catalog.Engine, meds repository.MedicineRepository, pageSize int, log logrus.FieldLogger) *CatalogService {
	if pageSize <= 0 {
		pageSize = catalog.DefaultPageSize
	}
	return &CatalogService{engine: engine, meds: meds, pageSize: pageSize, log: log, now: time.Now}
}

// Browse runs filter, sort and paginate over the cached catalog.
func (s *CatalogService) Browse(ctx context.Context, q BrowseQuery) Listing {
	all, err := s.engine.Medicines(ctx, false)
	size := q.PageSize
	if size <= 0 {
		size = s.pageSize
	}
	filtered := catalog.Sort(catalog.Filter(all, q.Query), q.Sort)
	return Listing{
		Page:       catalog.Paginate(filtered, size, q.Page),
		Categories: catalog.Categories(all),
		Found:      len(filtered),
		AsOf:       s.now(),
		LoadErr:    err,
	}
}

// Refresh reloads the catalog bypassing the cache.
func (s *CatalogService) Refresh(ctx context.Context) error {
	_, err := s.engine.Medicines(ctx, true)
	return err
}

// All returns every valid medicine.
func (s *CatalogService) All(ctx context.Context) ([]domain.Medicine, error) {
	return s.engine.Medicines(ctx, false)
}

// AddSelected stores the submitted quantities as the session's selections
// and adds every positive, non-expired one to the cart. A line never holds
// more than the stock or cart.MaxLineQuantity, counting what is already in
// the cart. It returns the number of lines added or merged.
func (s *CatalogService) AddSelected(ctx context.Context, sess *session.Session, quantities map[string]int) (int, error) {
	all, err := s.engine.Medicines(ctx, false)
	if err != nil {
		return 0, err
	}
	for key, qty := range quantities {
		sess.Selections[key] = max(qty, 0)
	}

	asOf := s.now()
	added := 0
	for _, m := range all {
		qty, ok := quantities[m.Key()]
		if !ok || qty <= 0 {
			continue
		}
		room := min(m.Stock, cart.MaxLineQuantity) - sess.Cart.QuantityOf(m.Key())
		if room <= 0 {
			continue
		}
		qty = min(qty, room)
		if err := sess.Cart.Add(m, qty, asOf); err != nil {
			// expired medicines are skipped, as on the page
			continue
		}
		added++
	}
	if added == 0 {
		return 0, domain.ErrNothingSelected
	}
	s.log.WithFields(logrus.Fields{"user": sess.User, "lines": added}).Debug("added to cart")
	return added, nil
}

// Import merges records into the medicines collection by id and drops the
// cached catalog so the next read sees them.
func (s *CatalogService) Import(ctx context.Context, records []store.Record) (repository.ImportResult, error) {
	res, err := s.meds.Upsert(ctx, records)
	if err != nil {
		return res, err
	}
	s.engine.Invalidate()
	s.log.WithFields(logrus.Fields{
		"created": res.Created,
		"updated": res.Updated,
		"skipped": res.Skipped,
	}).Info("medicines imported")
	return res, nil
}
