package renderers

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gosuri/uitable"

	"tableflip.dev/medview/pkg/record"
	"tableflip.dev/medview/pkg/view"
)

// BloodWorkRenderer lists lab panels newest first with flagged results
// highlighted.
type BloodWorkRenderer struct {
	data Data
	opts Options
}

// NewBloodWork returns the bloodwork view.
func NewBloodWork(data Data, opts Options) *BloodWorkRenderer {
	return &BloodWorkRenderer{data: data, opts: opts}
}

// Render implements view.Renderer.
func (v *BloodWorkRenderer) Render(target view.Target, _ view.Params) error {
	panels, err := v.data.Store.LabPanels()
	if err != nil {
		return err
	}
	if panels == nil {
		target.Reset("Bloodwork")
		target.Write("Bloodwork data unavailable.\n")
		return nil
	}
	sort.SliceStable(panels, func(i, j int) bool {
		return record.Newer(panels[i].Date, panels[j].Date)
	})

	bold := v.opts.paint(colorBold...)
	flag := v.opts.paint(colorBad...)

	var b strings.Builder
	if len(panels) == 0 {
		b.WriteString("No lab panels recorded.\n")
	} else {
		latest := 0
		for _, res := range panels[0].Results {
			if res.Flagged() {
				latest++
			}
		}
		b.WriteString(wrap(target.Width(), fmt.Sprintf("%d panels. Latest %s: %d of %d results flagged.",
			len(panels), record.FormatDate(panels[0].Date), latest, len(panels[0].Results))))
		b.WriteString("\n")
	}

	for _, p := range panels {
		b.WriteString("\n")
		b.WriteString(heading(panelTitle(p)))
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.AddRow(bold.Sprint("Test"), bold.Sprint("Result"), bold.Sprint("Range"), bold.Sprint("Flag"))
		for _, res := range p.Results {
			marker := ""
			if res.Flagged() {
				marker = flag.Sprint(res.Flag)
			}
			tbl.AddRow(res.Test, formatValue(res.Value, res.Unit), res.Range, marker)
		}
		tbl.RightAlign(1)
		b.WriteString(tbl.String())
		b.WriteString("\n")
	}

	target.Reset("Bloodwork")
	target.Write(b.String())
	return nil
}

func panelTitle(p record.LabPanel) string {
	name := p.Name
	if name == "" {
		name = "Panel"
	}
	if p.Date == "" {
		return name
	}
	return name + " · " + record.FormatDate(p.Date)
}

func formatValue(v float64, unit string) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if unit == "" {
		return s
	}
	return s + " " + unit
}
