package renderers

import (
	"sort"
	"strings"

	"github.com/gosuri/uitable"

	"tableflip.dev/medview/pkg/record"
	"tableflip.dev/medview/pkg/view"
)

// MedicationRenderer shows current medications and the history of each drug.
type MedicationRenderer struct {
	data Data
	opts Options
}

// NewMedication returns the medications view.
func NewMedication(data Data, opts Options) *MedicationRenderer {
	return &MedicationRenderer{data: data, opts: opts}
}

// Course is the event history of one drug, oldest first.
type Course struct {
	Drug   string
	Events []record.MedicationEvent
}

// Active reports whether the last event leaves the drug in use.
func (c Course) Active() bool {
	return len(c.Events) > 0 && c.Events[len(c.Events)-1].Action != record.ActionStop
}

// Dose returns the most recent dose.
func (c Course) Dose() string {
	for i := len(c.Events) - 1; i >= 0; i-- {
		if c.Events[i].Dose != "" {
			return c.Events[i].Dose
		}
	}
	return ""
}

// Since returns the date of the latest start.
func (c Course) Since() string {
	for i := len(c.Events) - 1; i >= 0; i-- {
		if c.Events[i].Action == record.ActionStart {
			return c.Events[i].Date
		}
	}
	if len(c.Events) > 0 {
		return c.Events[0].Date
	}
	return ""
}

// Courses groups events by drug name, ignoring case. Courses are sorted by
// drug and events by date.
func Courses(events []record.MedicationEvent) []Course {
	byDrug := map[string]int{}
	var out []Course
	for _, e := range events {
		key := strings.ToLower(strings.TrimSpace(e.Drug))
		i, ok := byDrug[key]
		if !ok {
			i = len(out)
			byDrug[key] = i
			out = append(out, Course{Drug: strings.TrimSpace(e.Drug)})
		}
		out[i].Events = append(out[i].Events, e)
	}
	for i := range out {
		sort.SliceStable(out[i].Events, func(a, b int) bool {
			return record.Newer(out[i].Events[b].Date, out[i].Events[a].Date)
		})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return strings.ToLower(out[a].Drug) < strings.ToLower(out[b].Drug)
	})
	return out
}

// Render implements view.Renderer.
func (v *MedicationRenderer) Render(target view.Target, _ view.Params) error {
	events, err := v.data.Store.MedicationEvents()
	if err != nil {
		return err
	}
	if events == nil {
		target.Reset("Medications")
		target.Write("Medication data unavailable.\n")
		return nil
	}
	courses := Courses(events)
	bold := v.opts.paint(colorBold...)
	stopped := v.opts.paint(colorDim...)

	var b strings.Builder
	b.WriteString(heading("Current"))
	current := uitable.New()
	current.Separator = "  "
	for _, c := range courses {
		if c.Active() {
			current.AddRow(bold.Sprint(c.Drug), c.Dose(), "since "+record.FormatDate(c.Since()))
		}
	}
	if len(current.Rows) == 0 {
		b.WriteString("No current medications.\n")
	} else {
		b.WriteString(current.String())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(heading("History"))
	if len(courses) == 0 {
		b.WriteString("No medication events recorded.\n")
	}
	for _, c := range courses {
		name := c.Drug
		if !c.Active() {
			name = stopped.Sprint(name + " (stopped)")
		}
		b.WriteString("\n" + name + "\n")
		tbl := uitable.New()
		tbl.Separator = "  "
		if w := target.Width(); w > 40 {
			tbl.MaxColWidth = uint(w / 2)
			tbl.Wrap = true
		}
		for _, e := range c.Events {
			tbl.AddRow("  "+record.FormatDate(e.Date), e.Action, e.Dose, e.Note)
		}
		b.WriteString(tbl.String())
		b.WriteString("\n")
	}

	target.Reset("Medications")
	target.Write(b.String())
	return nil
}
