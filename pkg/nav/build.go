package nav

import (
	"tableflip.dev/medview/pkg/catalog"
	"tableflip.dev/medview/pkg/record"
	"tableflip.dev/medview/pkg/route"
)

// Build turns the section definitions and grouped reports into a tree.
// Sections keep their declared order. Declared subcategories without
// reports are left out. Reports filed under a subcategory the section does
// not declare are not listed.
func Build(sections []Section, index *catalog.Index) *Tree {
	t := &Tree{
		byPath:   map[string]NodeID{},
		byReport: map[string]NodeID{},
	}
	for _, s := range sections {
		switch s.Kind {
		case KindStatic:
			t.add(NoNode, Node{
				Kind:  StaticLeaf,
				Key:   s.Key,
				Label: s.Label,
				Icon:  s.Icon,
				Route: s.Route(),
			})
		case KindGroup:
			group := t.add(NoNode, Node{
				Kind:  Group,
				Key:   s.Key,
				Label: s.Label,
				Icon:  s.Icon,
				Route: route.Route{Section: s.Key},
			})
			if s.Flat() {
				for _, r := range index.Flatten(s.Key) {
					t.add(group, reportLeaf(r, route.Route{Section: s.Key, Subsection: r.ID}))
				}
				continue
			}
			for _, sub := range s.Subcategories {
				reports := index.Reports(s.Key, sub.Key)
				if len(reports) == 0 {
					continue
				}
				label := sub.Label
				if label == "" {
					label = sub.Key
				}
				sg := t.add(group, Node{
					Kind:  Subgroup,
					Key:   sub.Key,
					Label: label,
					Route: route.Route{Section: s.Key, Subsection: sub.Key},
				})
				for _, r := range reports {
					t.add(sg, reportLeaf(r, route.Route{Section: s.Key, Subsection: sub.Key, ID: r.ID}))
				}
			}
		}
	}
	return t
}

func reportLeaf(r record.Report, rt route.Route) Node {
	return Node{
		Kind:     ReportLeaf,
		Key:      r.ID,
		Label:    r.Label(),
		Route:    rt,
		ReportID: r.ID,
		Date:     r.Date,
	}
}
