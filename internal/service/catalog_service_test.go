package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"medicare/internal/catalog"
	"medicare/internal/domain"
	"medicare/internal/repository"
	"medicare/internal/session"
	"medicare/internal/store"
)

var today = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func newCatalog(t *testing.T, records ...store.Record) *CatalogService {
	t.Helper()
	st := store.NewMemoryStore()
	if err := st.Save(context.Background(), store.Medicines, records); err != nil {
		t.Fatal(err)
	}
	meds := repository.NewMedicines(st)
	engine := catalog.NewEngine(meds, catalog.WithLogger(quietLogger()))
	svc := NewCatalogService(engine, meds, 2, quietLogger())
	svc.now = func() time.Time { return today }
	return svc
}

func med(id, name, category string, price float64, stock int, expiry string) store.Record {
	return store.Record{"id": id, "name": name, "category": category, "price": price, "stock": stock, "expiry_date": expiry}
}

func sampleCatalog(t *testing.T) *CatalogService {
	return newCatalog(t,
		med("m1", "Paracetamol", "Pain", 5, 10, "2030-01-01"),
		med("m2", "Ibuprofen", "Pain", 7.5, 3, "2030-01-01"),
		med("m3", "Old Syrup", "Cold", 4, 10, "2020-01-01"),
		med("m4", "Vitamin C", "", 3, 0, "2030-01-01"),
		store.Record{"id": "m5", "name": "No price", "stock": 1, "expiry_date": "2030-01-01"},
	)
}

func TestBrowse(t *testing.T) {
	svc := sampleCatalog(t)
	l := svc.Browse(context.Background(), BrowseQuery{Query: catalog.Query{Category: "Pain"}, Sort: catalog.SortByPrice})
	if l.LoadErr != nil {
		t.Fatal(l.LoadErr)
	}
	if l.Found != 2 || l.Page.Items[0].ID != "m1" || l.Page.Items[1].ID != "m2" {
		t.Fatalf("unexpected listing %+v", l.Page)
	}
	want := []string{"All", "Cold", "Other", "Pain"}
	if len(l.Categories) != len(want) {
		t.Fatalf("expected categories %v, got %v", want, l.Categories)
	}
	for i := range want {
		if l.Categories[i] != want[i] {
			t.Fatalf("expected categories %v, got %v", want, l.Categories)
		}
	}

	// page size comes from the service
	l = svc.Browse(context.Background(), BrowseQuery{Page: 1})
	if l.Found != 4 || l.Page.Pages != 2 || len(l.Page.Items) != 2 {
		t.Fatalf("unexpected paging %+v", l.Page)
	}
}

func TestBrowse_LoadError(t *testing.T) {
	engine := catalog.NewEngine(brokenSource{}, catalog.WithLogger(quietLogger()))
	svc := NewCatalogService(engine, nil, 0, quietLogger())
	l := svc.Browse(context.Background(), BrowseQuery{})
	if !domain.IsCatalogLoad(l.LoadErr) {
		t.Fatalf("expected catalog load error, got %v", l.LoadErr)
	}
	if l.Found != 0 || l.Page.Items == nil || l.Page.Pages != 1 {
		t.Fatalf("the listing must stay usable: %+v", l.Page)
	}
}

type brokenSource struct{}

func (brokenSource) All(context.Context) ([]store.Record, error) {
	return nil, errors.New("unreadable")
}

func TestAddSelected(t *testing.T) {
	svc := sampleCatalog(t)
	sess := session.NewStore(0).New()

	n, err := svc.AddSelected(context.Background(), sess, map[string]int{"m1": 2, "m2": 9, "m3": 1, "m4": 1, "bogus": 3})
	if err != nil {
		t.Fatal(err)
	}
	// m3 is expired and m4 is out of stock
	if n != 2 || sess.Cart.Len() != 2 {
		t.Fatalf("expected 2 lines, got %d %+v", n, sess.Cart.Lines())
	}
	lines := sess.Cart.Lines()
	if lines[0].MedicineID != "m1" || lines[0].Quantity != 2 {
		t.Fatalf("unexpected first line %+v", lines[0])
	}
	if lines[1].MedicineID != "m2" || lines[1].Quantity != 3 {
		t.Fatalf("quantity above stock must be capped: %+v", lines[1])
	}
	if sess.Selections["m2"] != 9 {
		t.Fatalf("selections keep what was submitted")
	}

	// a second submission merges into the existing line
	if _, err := svc.AddSelected(context.Background(), sess, map[string]int{"m1": 1}); err != nil {
		t.Fatal(err)
	}
	if sess.Cart.Lines()[0].Quantity != 3 || sess.Cart.Len() != 2 {
		t.Fatalf("expected merge, got %+v", sess.Cart.Lines())
	}
}

func TestAddSelected_RespectsStockAcrossSubmissions(t *testing.T) {
	svc := sampleCatalog(t)
	sess := session.NewStore(0).New()

	if _, err := svc.AddSelected(context.Background(), sess, map[string]int{"m2": 2}); err != nil {
		t.Fatal(err)
	}
	n, err := svc.AddSelected(context.Background(), sess, map[string]int{"m2": 5, "m1": 1})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 || sess.Cart.QuantityOf("m2") != 3 {
		t.Fatalf("m2 has stock 3, got n=%d %+v", n, sess.Cart.Lines())
	}

	// m2 is already at its stock so nothing more can be added
	if _, err := svc.AddSelected(context.Background(), sess, map[string]int{"m2": 1}); !errors.Is(err, domain.ErrNothingSelected) {
		t.Fatalf("expected nothing selected, got %v", err)
	}
	if sess.Cart.QuantityOf("m2") != 3 {
		t.Fatalf("line must stay at stock, got %+v", sess.Cart.Lines())
	}
}

func TestAddSelected_NothingSelected(t *testing.T) {
	svc := sampleCatalog(t)
	sess := session.NewStore(0).New()
	for _, q := range []map[string]int{nil, {"m1": 0}, {"m1": -2}, {"m3": 4}} {
		if _, err := svc.AddSelected(context.Background(), sess, q); !errors.Is(err, domain.ErrNothingSelected) {
			t.Fatalf("%v: expected nothing selected, got %v", q, err)
		}
	}
	if !sess.Cart.Empty() {
		t.Fatalf("cart must stay empty")
	}
	if sess.Selections["m1"] != 0 {
		t.Fatalf("negative selections are stored as zero")
	}
}

func TestImport_InvalidatesCatalog(t *testing.T) {
	ctx := context.Background()
	svc := sampleCatalog(t)
	if l := svc.Browse(ctx, BrowseQuery{}); l.Found != 4 {
		t.Fatalf("expected 4, got %d", l.Found)
	}

	res, err := svc.Import(ctx, []store.Record{
		med("m1", "Paracetamol Forte", "Pain", 6, 10, "2030-01-01"),
		med("m9", "Zinc", "Supplements", 2, 50, "2031-01-01"),
		{"name": "no id"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Created != 1 || res.Updated != 1 || res.Skipped != 1 {
		t.Fatalf("unexpected result %+v", res)
	}

	l := svc.Browse(ctx, BrowseQuery{Query: catalog.Query{Search: "forte"}})
	if l.Found != 1 || l.Page.Items[0].Price != 6 {
		t.Fatalf("import not visible: %+v", l.Page)
	}
	if l := svc.Browse(ctx, BrowseQuery{PageSize: 10}); l.Found != 5 {
		t.Fatalf("expected 5, got %d", l.Found)
	}
}
