package view

import (
	"sort"

	"tableflip.dev/medview/pkg/route"
)

// Param says which route segment becomes Params.ID.
type Param int

const (
	ParamNone Param = iota
	ParamID
	// ParamSubsectionAsID passes the second segment as the id.
	ParamSubsectionAsID
)

// Requirement says which segments must be present for the primary renderer.
type Requirement int

const (
	RequireNone Requirement = iota
	RequireSubsectionAndID
	RequireSubsection
)

// Rule is the dispatch rule for one section.
type Rule struct {
	Renderer string
	Param    Param
	Requires Requirement
	// Fallback renders when the requirement is not met.
	Fallback string
}

func (r Rule) satisfied(rt route.Route) bool {
	switch r.Requires {
	case RequireSubsectionAndID:
		return rt.Subsection != "" && rt.ID != ""
	case RequireSubsection:
		return rt.Subsection != ""
	default:
		return true
	}
}

func (r Rule) params(rt route.Route) Params {
	switch r.Param {
	case ParamID:
		return Params{ID: rt.ID}
	case ParamSubsectionAsID:
		return Params{ID: rt.Subsection}
	default:
		return Params{}
	}
}

// Table maps a route section to its rule.
type Table map[string]Rule

// DefaultTable returns the dispatch table for the default sections.
func DefaultTable(home string) Table {
	if home == "" {
		home = route.DefaultSection
	}
	report := Rule{Renderer: ReportViewer, Param: ParamID, Requires: RequireSubsectionAndID, Fallback: Overview}
	return Table{
		home:          {Renderer: Overview},
		"imaging":     report,
		"pathology":   report,
		"bloodwork":   {Renderer: BloodWork},
		"bp":          {Renderer: BPWeightTracker},
		"medications": {Renderer: Medication},
		"archive":     {Renderer: ReportViewer, Param: ParamSubsectionAsID, Requires: RequireSubsection, Fallback: Overview},
	}
}

// Sections returns the sections with a rule, sorted.
func (t Table) Sections() []string {
	out := make([]string, 0, len(t))
	for s := range t {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
