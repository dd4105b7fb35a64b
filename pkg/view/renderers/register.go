// Package renderers holds the views compiled into medview.
package renderers

import (
	"strings"

	"github.com/fatih/color"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"

	"tableflip.dev/medview/pkg/catalog"
	"tableflip.dev/medview/pkg/nav"
	"tableflip.dev/medview/pkg/store"
	"tableflip.dev/medview/pkg/view"
)

var (
	colorOK   = []color.Attribute{color.FgGreen}
	colorBad  = []color.Attribute{color.FgRed, color.Bold}
	colorDim  = []color.Attribute{color.Faint}
	colorBold = []color.Attribute{color.Bold}
)

// Data is what the renderers read. It is built once at boot.
type Data struct {
	Store  *store.AppData
	Index  *catalog.Index
	Lookup *catalog.Lookup
	Tree   *nav.Tree
}

// Options tune rendering.
type Options struct {
	// Disabled renderers are not registered; their routes show the
	// "module not available" placeholder.
	Disabled []string
	// Style is the glamour style for report bodies. Empty means "notty".
	Style string
	// Profile controls colour output. termenv.Ascii disables colour.
	Profile termenv.Profile
}

func (o Options) style() string {
	if o.Style == "" {
		return "notty"
	}
	return o.Style
}

func (o Options) colored() bool {
	return o.Profile != termenv.Ascii
}

// paint returns a fatih/color painter honouring the profile.
func (o Options) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if o.colored() {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// Register adds every enabled renderer to reg and returns the names added.
func Register(reg *view.Registry, data Data, opts Options) []string {
	disabled := map[string]bool{}
	for _, name := range opts.Disabled {
		disabled[strings.TrimSpace(name)] = true
	}
	all := []struct {
		name     string
		renderer view.Renderer
	}{
		{view.Overview, NewOverview(data, opts)},
		{view.ReportViewer, NewReportViewer(data, opts)},
		{view.BloodWork, NewBloodWork(data, opts)},
		{view.BPWeightTracker, NewBPWeightTracker(data, opts)},
		{view.Medication, NewMedication(data, opts)},
	}
	var added []string
	for _, r := range all {
		if disabled[r.name] {
			continue
		}
		reg.Register(r.name, r.renderer)
		added = append(added, r.name)
	}
	return added
}

func wrap(width int, s string) string {
	if width <= 0 {
		return s
	}
	return wordwrap.String(s, width)
}

func heading(title string) string {
	return title + "\n" + strings.Repeat("─", ansi.PrintableRuneWidth(title)) + "\n"
}
