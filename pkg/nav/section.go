// Package nav builds the sidebar tree from static section definitions and
// the grouped reports, and keeps its active and expanded flags in sync with
// the current route.
package nav

import (
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/medview/pkg/route"
)

// SectionKind selects how a section becomes nodes.
type SectionKind string

const (
	// KindStatic is a single leaf pointing at a fixed path.
	KindStatic SectionKind = "static"
	// KindGroup expands into report leaves, optionally under subgroups.
	KindGroup SectionKind = "group"
)

// Subcategory is one declared child of a group section.
type Subcategory struct {
	Key   string `json:"key" mapstructure:"key"`
	Label string `json:"label" mapstructure:"label"`
}

// Section is a static sidebar definition. Its position in the list is its
// permanent position in the sidebar.
type Section struct {
	Kind  SectionKind `json:"kind" mapstructure:"kind"`
	Key   string      `json:"key" mapstructure:"key"`
	Label string      `json:"label" mapstructure:"label"`
	Icon  string      `json:"icon,omitempty" mapstructure:"icon"`
	// Path is used by static sections only; it defaults to "#<key>".
	Path string `json:"path,omitempty" mapstructure:"path"`
	// Subcategories is used by group sections only. Empty means flat: every
	// report of the category is listed directly under the group.
	Subcategories []Subcategory `json:"subcategories,omitempty" mapstructure:"subcategories"`
}

// Flat reports whether a group lists its reports without subgroups.
func (s Section) Flat() bool {
	return s.Kind == KindGroup && len(s.Subcategories) == 0
}

// Route returns the route a static section points at.
func (s Section) Route() route.Route {
	if s.Path == "" {
		return route.Route{Section: s.Key}
	}
	return route.Parse(s.Path)
}

// DefaultSections returns the built-in sidebar.
func DefaultSections() []Section {
	return []Section{{
		Kind:  KindGroup,
		Key:   "imaging",
		Label: "Imaging",
		Icon:  "◉",
		Subcategories: []Subcategory{
			{Key: "ct", Label: "CT"},
			{Key: "mri", Label: "MRI"},
			{Key: "ultrasound", Label: "Ultrasound"},
			{Key: "xray", Label: "X-ray"},
		},
	}, {
		Kind:  KindGroup,
		Key:   "pathology",
		Label: "Pathology",
		Icon:  "✚",
		Subcategories: []Subcategory{
			{Key: "biopsy", Label: "Biopsy"},
			{Key: "cytology", Label: "Cytology"},
		},
	}, {
		Kind:  KindStatic,
		Key:   "bloodwork",
		Label: "Bloodwork",
		Icon:  "◆",
		Path:  "#bloodwork",
	}, {
		Kind:  KindStatic,
		Key:   "bp",
		Label: "Blood pressure & weight",
		Icon:  "♥",
		Path:  "#bp",
	}, {
		Kind:  KindStatic,
		Key:   "medications",
		Label: "Medications",
		Icon:  "℞",
		Path:  "#medications",
	}, {
		Kind:  KindGroup,
		Key:   "archive",
		Label: "Archive",
		Icon:  "▤",
	}}
}

// ErrInvalidSections is wrapped by every ValidateSections failure.
var ErrInvalidSections = errors.New("nav: invalid sections")

// ValidateSections checks a section list loaded from configuration.
func ValidateSections(sections []Section) error {
	if len(sections) == 0 {
		return fmt.Errorf("%w: no sections", ErrInvalidSections)
	}
	keys := map[string]bool{}
	for i, s := range sections {
		key := strings.TrimSpace(s.Key)
		if key == "" {
			return fmt.Errorf("%w: section %d has no key", ErrInvalidSections, i)
		}
		if strings.Contains(key, "/") {
			return fmt.Errorf("%w: section key %q contains '/'", ErrInvalidSections, key)
		}
		if keys[key] {
			return fmt.Errorf("%w: duplicate section key %q", ErrInvalidSections, key)
		}
		keys[key] = true

		switch s.Kind {
		case KindStatic:
			if len(s.Subcategories) > 0 {
				return fmt.Errorf("%w: static section %q declares subcategories", ErrInvalidSections, key)
			}
		case KindGroup:
			subs := map[string]bool{}
			for _, sub := range s.Subcategories {
				sk := strings.TrimSpace(sub.Key)
				if sk == "" || strings.Contains(sk, "/") {
					return fmt.Errorf("%w: section %q has an invalid subcategory key %q", ErrInvalidSections, key, sub.Key)
				}
				if subs[sk] {
					return fmt.Errorf("%w: section %q repeats subcategory %q", ErrInvalidSections, key, sk)
				}
				subs[sk] = true
			}
		default:
			return fmt.Errorf("%w: section %q has unknown kind %q", ErrInvalidSections, key, s.Kind)
		}
	}
	return nil
}
