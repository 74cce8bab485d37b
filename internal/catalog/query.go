package catalog

import (
	"cmp"
	"slices"
	"sort"
	"strings"

	"medicare/internal/domain"
)

// AllCategories disables the category filter.
const AllCategories = "All"

const DefaultPageSize = 20

// Query holds the conjunctive catalog filters.
type Query struct {
	Search      string
	Category    string
	InStockOnly bool
}

// Filter keeps the records matching every condition of q, in input order.
func Filter(items []domain.Medicine, q Query) []domain.Medicine {
	out := make([]domain.Medicine, 0, len(items))
	for _, m := range items {
		if q.Search != "" && !matchesSearch(m, q.Search) {
			continue
		}
		if q.Category != "" && q.Category != AllCategories && m.Category != q.Category {
			continue
		}
		if q.InStockOnly && m.Stock <= 0 {
			continue
		}
		out = append(out, m)
	}
	return out
}

func matchesSearch(m domain.Medicine, term string) bool {
	for _, field := range []string{m.Name, m.Description, m.Manufacturer, m.Category} {
		if containsIgnoreCase(field, term) {
			return true
		}
	}
	return false
}

// helper: case-insensitive contains
func containsIgnoreCase(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// SortKey selects the catalog ordering.
type SortKey string

const (
	SortByName  SortKey = "Name"
	SortByPrice SortKey = "Price"
	SortByStock SortKey = "Stock"
)

var SortKeys = []SortKey{SortByName, SortByPrice, SortByStock}

// ParseSortKey is case-insensitive and falls back to SortByName.
func ParseSortKey(s string) SortKey {
	for _, k := range SortKeys {
		if strings.EqualFold(s, string(k)) {
			return k
		}
	}
	return SortByName
}

// Sort returns a stably sorted copy: name and price ascending, stock descending.
func Sort(items []domain.Medicine, key SortKey) []domain.Medicine {
	out := slices.Clone(items)
	switch key {
	case SortByPrice:
		slices.SortStableFunc(out, func(a, b domain.Medicine) int { return cmp.Compare(a.Price, b.Price) })
	case SortByStock:
		slices.SortStableFunc(out, func(a, b domain.Medicine) int { return cmp.Compare(b.Stock, a.Stock) })
	default:
		slices.SortStableFunc(out, func(a, b domain.Medicine) int { return strings.Compare(a.Name, b.Name) })
	}
	return out
}

// Page is one page of a result list. From and To are the 1-based positions
// of the first and last item, both zero for an empty page.
type Page struct {
	Items []domain.Medicine `json:"items"`
	Index int               `json:"index"`
	Pages int               `json:"pages"`
	Total int               `json:"total"`
	From  int               `json:"from"`
	To    int               `json:"to"`
}

// Paginate cuts page index (zero-based) of the given size. There is always
// at least one page; an index past the end selects the last page.
func Paginate(items []domain.Medicine, size, index int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(items)
	pages := max(1, (total+size-1)/size)
	index = min(max(index, 0), pages-1)

	start := index * size
	end := min(start+size, total)
	p := Page{Items: []domain.Medicine{}, Index: index, Pages: pages, Total: total}
	if start < end {
		p.Items = slices.Clone(items[start:end])
		p.From, p.To = start+1, end
	}
	return p
}

// Categories lists AllCategories followed by the distinct categories, sorted.
func Categories(items []domain.Medicine) []string {
	seen := make(map[string]struct{})
	for _, m := range items {
		seen[m.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return append([]string{AllCategories}, out...)
}
