package catalog

import (
	"sort"

	"tableflip.dev/medview/pkg/record"
)

// DefaultSubcategory holds reports that carry no subcategory.
const DefaultSubcategory = "_default"

// Index groups reports as category -> subcategory -> reports, newest first.
// It is derived once from the loaded reports and never mutated.
type Index struct {
	groups map[string]map[string][]record.Report
	// every report of a category in input order, for Flatten
	byCat map[string][]record.Report
	cats  []string
	subs  map[string][]string
}

// Group builds the index. Within each bucket reports are sorted by date
// descending; reports with equal dates keep their input order.
func Group(reports []record.Report) *Index {
	idx := &Index{
		groups: map[string]map[string][]record.Report{},
		byCat:  map[string][]record.Report{},
		subs:   map[string][]string{},
	}
	for _, r := range reports {
		sub := r.Subcategory
		if sub == "" {
			sub = DefaultSubcategory
		}
		bySub, ok := idx.groups[r.Category]
		if !ok {
			bySub = map[string][]record.Report{}
			idx.groups[r.Category] = bySub
			idx.cats = append(idx.cats, r.Category)
		}
		if _, ok := bySub[sub]; !ok {
			idx.subs[r.Category] = append(idx.subs[r.Category], sub)
		}
		bySub[sub] = append(bySub[sub], r)
		idx.byCat[r.Category] = append(idx.byCat[r.Category], r)
	}
	for _, bySub := range idx.groups {
		for _, list := range bySub {
			SortNewestFirst(list)
		}
	}
	sort.Strings(idx.cats)
	for _, subs := range idx.subs {
		sort.Strings(subs)
	}
	return idx
}

// SortNewestFirst sorts reports in place by normalised date, descending.
// The sort is stable.
func SortNewestFirst(reports []record.Report) {
	sort.SliceStable(reports, func(i, j int) bool {
		return record.SortKey(reports[i].Date) > record.SortKey(reports[j].Date)
	})
}

// Categories returns the categories present, sorted.
func (x *Index) Categories() []string {
	if x == nil {
		return nil
	}
	return append([]string(nil), x.cats...)
}

// Subcategories returns the subcategories present under category, sorted.
// Reports without a subcategory appear as DefaultSubcategory.
func (x *Index) Subcategories(category string) []string {
	if x == nil {
		return nil
	}
	return append([]string(nil), x.subs[category]...)
}

// Reports returns a copy of one bucket.
func (x *Index) Reports(category, subcategory string) []record.Report {
	if x == nil {
		return nil
	}
	if subcategory == "" {
		subcategory = DefaultSubcategory
	}
	return append([]record.Report(nil), x.groups[category][subcategory]...)
}

// Count returns the number of reports in one bucket.
func (x *Index) Count(category, subcategory string) int {
	if x == nil {
		return 0
	}
	if subcategory == "" {
		subcategory = DefaultSubcategory
	}
	return len(x.groups[category][subcategory])
}

// Flatten merges every subcategory of category into one list, newest
// first. Reports with equal dates keep their input order whatever their
// subcategory.
func (x *Index) Flatten(category string) []record.Report {
	if x == nil {
		return nil
	}
	out := append([]record.Report(nil), x.byCat[category]...)
	SortNewestFirst(out)
	return out
}

// Len returns the total number of grouped reports.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	n := 0
	for _, bySub := range x.groups {
		for _, list := range bySub {
			n += len(list)
		}
	}
	return n
}
