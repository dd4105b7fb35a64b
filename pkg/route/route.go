// Package route maps location paths such as "#imaging/ct/R1" to structured
// routes and back.
package route

import "strings"

const (
	// DefaultSection is the home section used when a path carries no section.
	DefaultSection = "home"

	// Prefix marks the start of a location path.
	Prefix = "#"

	separator   = "/"
	maxSegments = 3
)

// Route is the parsed address of a view. An empty Subsection or ID means the
// segment was absent.
type Route struct {
	Section    string `json:"section"`
	Subsection string `json:"subsection,omitempty"`
	ID         string `json:"id,omitempty"`
}

// Parse converts path into a Route using DefaultSection for empty paths.
func Parse(path string) Route {
	return ParseWithDefault(path, DefaultSection)
}

// ParseWithDefault converts path into a Route. At most three segments are
// read; extra segments are ignored. A path without a section resolves to
// home.
func ParseWithDefault(path, home string) Route {
	if home = strings.TrimSpace(home); home == "" {
		home = DefaultSection
	}
	raw := strings.TrimSpace(path)
	raw = strings.TrimPrefix(raw, Prefix)
	raw = strings.TrimPrefix(raw, separator)

	segments := strings.SplitN(raw, separator, maxSegments+1)
	if len(segments) > maxSegments {
		segments = segments[:maxSegments]
	}

	var r Route
	for i, seg := range segments {
		seg = strings.TrimSpace(seg)
		switch i {
		case 0:
			r.Section = seg
		case 1:
			r.Subsection = seg
		case 2:
			r.ID = seg
		}
	}
	if r.Section == "" {
		r.Section = home
	}
	return r
}

// Encode renders r as a location path. Trailing empty segments are omitted;
// an ID without a subsection keeps an empty middle segment so the path
// parses back to the same route.
func Encode(r Route) string {
	var b strings.Builder
	b.WriteString(Prefix)
	b.WriteString(r.Section)
	switch {
	case r.ID != "":
		b.WriteString(separator)
		b.WriteString(r.Subsection)
		b.WriteString(separator)
		b.WriteString(r.ID)
	case r.Subsection != "":
		b.WriteString(separator)
		b.WriteString(r.Subsection)
	}
	return b.String()
}

// Home returns the route for the given home section.
func Home(home string) Route {
	return ParseWithDefault("", home)
}

// String implements fmt.Stringer.
func (r Route) String() string {
	return Encode(r)
}

// IsZero reports whether no segment is set.
func (r Route) IsZero() bool {
	return r == Route{}
}

// Depth returns the number of meaningful segments.
func (r Route) Depth() int {
	switch {
	case r.ID != "":
		return 3
	case r.Subsection != "":
		return 2
	case r.Section != "":
		return 1
	default:
		return 0
	}
}
