package loader

import (
	"slices"
	"strings"
	"time"

	"github.com/Jocowski/democracy-mod-maker/pkg/core"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Catalog is a read-only snapshot of the game data.
type Catalog struct {
	Policies   []core.Policy
	Sliders    []core.Slider
	Simulation []core.SimulationVariable
	Dilemmas   []core.Dilemma
	LoadedAt   time.Time
}

// Dilemma returns the dilemma with the given id.
func (c *Catalog) Dilemma(id string) (core.Dilemma, bool) {
	for _, d := range c.Dilemmas {
		if d.ID == id {
			return d, true
		}
	}
	return core.Dilemma{}, false
}

// Policy returns the policy with the given name.
func (c *Catalog) Policy(name string) (core.Policy, bool) {
	for _, p := range c.Policies {
		if p.Name == name {
			return p, true
		}
	}
	return core.Policy{}, false
}

// DefaultPageSize is the number of records per page.
const DefaultPageSize = 20

// Sort orders.
const (
	SortNone = ""
	SortName = "name"
)

// Query selects a page of records. Search is a case-insensitive substring
// matched against the searchable columns of each record type. Page is
// 1-based; zero values select the first page of DefaultPageSize records.
type Query struct {
	Search   string
	Page     int
	PageSize int
	Sort     string
}

// Page is one page of query results.
type Page[T any] struct {
	Items    []T `json:"items" yaml:"items"`
	Total    int `json:"total" yaml:"total"`
	Page     int `json:"page" yaml:"page"`
	PageSize int `json:"page_size" yaml:"page_size"`
}

// Pages returns the number of pages.
func (p Page[T]) Pages() int {
	if p.PageSize <= 0 || p.Total == 0 {
		return 1
	}
	return 1 + (p.Total-1)/p.PageSize
}

// QueryPolicies searches name and department.
func (c *Catalog) QueryPolicies(q Query) Page[core.Policy] {
	return run(c.Policies, q, func(p core.Policy) string { return p.Name },
		func(p core.Policy) []string { return []string{p.Name, string(p.Department)} })
}

// QuerySliders searches name and type.
func (c *Catalog) QuerySliders(q Query) Page[core.Slider] {
	return run(c.Sliders, q, func(s core.Slider) string { return s.Name },
		func(s core.Slider) []string { return []string{s.Name, string(s.Type)} })
}

// QuerySimulation searches name, zone and emotion.
func (c *Catalog) QuerySimulation(q Query) Page[core.SimulationVariable] {
	return run(c.Simulation, q, func(v core.SimulationVariable) string { return v.Name },
		func(v core.SimulationVariable) []string { return []string{v.Name, string(v.Zone), string(v.Emotion)} })
}

// QueryDilemmas searches id and name.
func (c *Catalog) QueryDilemmas(q Query) Page[core.Dilemma] {
	return run(c.Dilemmas, q, func(d core.Dilemma) string { return d.Name },
		func(d core.Dilemma) []string { return []string{d.ID, d.Name} })
}

func run[T any](items []T, q Query, name func(T) string, searchable func(T) []string) Page[T] {
	matched := Filter(items, q.Search, searchable)
	if q.Sort == SortName {
		SortByName(matched, name)
	}
	return Paginate(matched, q.Page, q.PageSize)
}

// Filter keeps the items where any searchable value contains search,
// ignoring case. An empty search keeps everything.
func Filter[T any](items []T, search string, searchable func(T) []string) []T {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if search == "" || matches(searchable(it), search) {
			out = append(out, it)
		}
	}
	return out
}

func matches(values []string, search string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), search) {
			return true
		}
	}
	return false
}

// SortByName sorts items in place by locale-aware name order.
func SortByName[T any](items []T, name func(T) string) {
	c := collate.New(language.English, collate.IgnoreCase)
	slices.SortStableFunc(items, func(a, b T) int {
		return c.CompareString(name(a), name(b))
	})
}

// Paginate returns page (1-based) of items. Out of range pages are empty.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	p := Page[T]{Total: len(items), Page: page, PageSize: pageSize, Items: []T{}}

	// Compare in page units so large page numbers cannot overflow start.
	if len(items) == 0 || page-1 > (len(items)-1)/pageSize {
		return p
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, len(items))
	p.Items = items[start:end]
	return p
}
