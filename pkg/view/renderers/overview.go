package renderers

import (
	"fmt"
	"strings"

	"github.com/gosuri/uitable"

	"tableflip.dev/medview/pkg/catalog"
	"tableflip.dev/medview/pkg/record"
	"tableflip.dev/medview/pkg/store"
	"tableflip.dev/medview/pkg/view"
)

const latestReports = 5

// OverviewRenderer shows the patient summary, collection status and the most
// recent reports.
type OverviewRenderer struct {
	data Data
	opts Options
}

// NewOverview returns the home view.
func NewOverview(data Data, opts Options) *OverviewRenderer {
	return &OverviewRenderer{data: data, opts: opts}
}

// Render implements view.Renderer.
func (o *OverviewRenderer) Render(target view.Target, _ view.Params) error {
	patient, err := o.data.Store.Patient()
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(heading("Patient"))
	if patient == nil {
		b.WriteString("Patient profile unavailable.\n")
	} else {
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.AddRow("Name", patient.Name)
		if patient.Born != "" {
			tbl.AddRow("Born", record.FormatDate(patient.Born))
		}
		if len(patient.Conditions) > 0 {
			tbl.AddRow("Conditions", strings.Join(patient.Conditions, ", "))
		}
		if len(patient.Allergies) > 0 {
			tbl.AddRow("Allergies", strings.Join(patient.Allergies, ", "))
		}
		b.WriteString(tbl.String())
		b.WriteString("\n")
		if patient.Summary != "" {
			b.WriteString("\n")
			b.WriteString(wrap(target.Width(), patient.Summary))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(heading("Collections"))
	b.WriteString(o.collections())

	b.WriteString("\n")
	b.WriteString(heading("Latest reports"))
	b.WriteString(o.latest())

	target.Reset("Overview")
	target.Write(b.String())
	return nil
}

func (o *OverviewRenderer) collections() string {
	ok := o.opts.paint(colorOK...)
	bad := o.opts.paint(colorBad...)

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, name := range o.data.Store.Names() {
		status, err := o.data.Store.Status(name)
		switch status {
		case store.StatusOK:
			tbl.AddRow(name, ok.Sprint(string(status)))
		default:
			tbl.AddRow(name, bad.Sprint(string(status)), errText(err))
		}
	}
	if len(tbl.Rows) == 0 {
		return "No collections configured.\n"
	}
	return tbl.String() + "\n"
}

func (o *OverviewRenderer) latest() string {
	var all []record.Report
	for _, cat := range o.data.Index.Categories() {
		all = append(all, o.data.Index.Flatten(cat)...)
	}
	if len(all) == 0 {
		return "No reports.\n"
	}
	catalog.SortNewestFirst(all)
	if len(all) > latestReports {
		all = all[:latestReports]
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, r := range all {
		tbl.AddRow(record.FormatDate(r.Date), r.Label(), o.path(r))
	}
	return tbl.String() + "\n"
}

func (o *OverviewRenderer) path(r record.Report) string {
	if id, ok := o.data.Tree.FindReport(r.ID); ok {
		return o.data.Tree.Node(id).Route.String()
	}
	return r.ID
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("(%v)", err)
}
