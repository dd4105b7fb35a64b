// Package view maps routes to named renderers and paints their output into
// a content target.
package view

import "strings"

// Renderer names known to the default dispatch table.
const (
	Overview        = "Overview"
	ReportViewer    = "ReportViewer"
	BloodWork       = "BloodWork"
	BPWeightTracker = "BPWeightTracker"
	Medication      = "Medication"
)

// Params are derived from the route by the dispatch table. An empty ID means
// no parameter.
type Params struct {
	ID string `json:"id,omitempty"`
}

// Target is the content area a renderer paints into. A renderer starts with
// Reset and owns everything written after it.
type Target interface {
	Reset(title string)
	Write(text string)
	Width() int
}

// Renderer paints one view. Render must be safe to call repeatedly.
type Renderer interface {
	Render(target Target, params Params) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(target Target, params Params) error

// Render implements Renderer.
func (f RendererFunc) Render(target Target, params Params) error {
	return f(target, params)
}

// Pane is an in-memory Target.
type Pane struct {
	title string
	body  strings.Builder
	width int
}

// NewPane returns a pane that wraps at width columns.
func NewPane(width int) *Pane {
	return &Pane{width: width}
}

// Reset implements Target.
func (p *Pane) Reset(title string) {
	p.title = title
	p.body.Reset()
}

// Write implements Target.
func (p *Pane) Write(text string) {
	p.body.WriteString(text)
}

// Width implements Target. Zero means unbounded.
func (p *Pane) Width() int { return p.width }

// SetWidth changes the wrap width for the next render.
func (p *Pane) SetWidth(w int) {
	if w < 0 {
		w = 0
	}
	p.width = w
}

// Title returns the current title.
func (p *Pane) Title() string { return p.title }

// Body returns everything written since the last Reset.
func (p *Pane) Body() string { return p.body.String() }

// String returns the title line followed by the body.
func (p *Pane) String() string {
	if p.title == "" {
		return p.body.String()
	}
	return p.title + "\n\n" + p.body.String()
}
