package catalog

import "tableflip.dev/medview/pkg/record"

// Lookup resolves reports by id. When ids collide the first report wins and
// the id is recorded in Duplicates.
type Lookup struct {
	byID  map[string]record.Report
	order []string
	dups  []string
}

// NewLookup indexes reports by id. Reports with an empty id are skipped.
func NewLookup(reports []record.Report) *Lookup {
	l := &Lookup{byID: make(map[string]record.Report, len(reports))}
	seenDup := map[string]bool{}
	for _, r := range reports {
		if r.ID == "" {
			continue
		}
		if _, ok := l.byID[r.ID]; ok {
			if !seenDup[r.ID] {
				seenDup[r.ID] = true
				l.dups = append(l.dups, r.ID)
			}
			continue
		}
		l.byID[r.ID] = r
		l.order = append(l.order, r.ID)
	}
	return l
}

// Get returns the report with id.
func (l *Lookup) Get(id string) (record.Report, bool) {
	if l == nil {
		return record.Report{}, false
	}
	r, ok := l.byID[id]
	return r, ok
}

// IDs returns every known id in input order.
func (l *Lookup) IDs() []string {
	if l == nil {
		return nil
	}
	return append([]string(nil), l.order...)
}

// Duplicates returns ids that appeared more than once.
func (l *Lookup) Duplicates() []string {
	if l == nil {
		return nil
	}
	return append([]string(nil), l.dups...)
}

// Len returns the number of distinct ids.
func (l *Lookup) Len() int {
	if l == nil {
		return 0
	}
	return len(l.byID)
}
