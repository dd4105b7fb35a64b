package glyph

// Glyph is a symbol drawn in front of a navigation row.
type Glyph struct {
	Key     string
	Symbol  string
	Meaning string
}

func DefaultGlyphs() []Glyph {
	g := make([]Glyph, 0, 3)

	g = append(g, Glyph{
		Key:     "closed",
		Symbol:  "▸",
		Meaning: "group with hidden children",
	}, Glyph{
		Key:     "open",
		Symbol:  "▾",
		Meaning: "group showing its children",
	}, Glyph{
		Key:     "active",
		Symbol:  "→",
		Meaning: "current location",
	})

	return g
}

func (g Glyph) String() string {
	return g.Symbol
}

type Marker int

const (
	Closed Marker = iota
	Open
	Active
)

func (m Marker) Glyph() Glyph {
	return DefaultGlyphs()[m]
}

func (m Marker) String() string {
	return m.Glyph().String()
}
