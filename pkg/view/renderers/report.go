package renderers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/gosuri/uitable"

	"tableflip.dev/medview/pkg/record"
	"tableflip.dev/medview/pkg/view"
)

const defaultWrap = 80

// ReportViewerRenderer shows one report with its Markdown body.
type ReportViewerRenderer struct {
	data Data
	opts Options
}

// NewReportViewer returns the report view.
func NewReportViewer(data Data, opts Options) *ReportViewerRenderer {
	return &ReportViewerRenderer{data: data, opts: opts}
}

// Render implements view.Renderer. An unknown id shows "not found" content
// rather than failing.
func (v *ReportViewerRenderer) Render(target view.Target, params view.Params) error {
	r, ok := v.data.Lookup.Get(params.ID)
	if !ok {
		target.Reset("Report not found")
		target.Write(wrap(target.Width(), fmt.Sprintf("No report with id %q.\n", params.ID)))
		return nil
	}

	body, err := v.markdown(r, target.Width())
	if err != nil {
		return fmt.Errorf("render report %s: %w", r.ID, err)
	}

	target.Reset(r.Label())
	target.Write(v.header(r))
	target.Write("\n")
	target.Write(body)
	if len(r.Images) > 0 {
		target.Write("\n" + heading("Images"))
		for _, img := range r.Images {
			target.Write("  " + img + "\n")
		}
	}
	return nil
}

func (v *ReportViewerRenderer) header(r record.Report) string {
	dim := v.opts.paint(colorDim...)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(dim.Sprint("Date"), record.FormatDate(r.Date))
	kind := r.Category
	if r.Subcategory != "" {
		kind += " / " + r.Subcategory
	}
	tbl.AddRow(dim.Sprint("Type"), kind)
	if r.Facility != "" {
		tbl.AddRow(dim.Sprint("Facility"), r.Facility)
	}
	if r.Physician != "" {
		tbl.AddRow(dim.Sprint("Physician"), r.Physician)
	}
	if len(r.Tags) > 0 {
		tbl.AddRow(dim.Sprint("Tags"), strings.Join(r.Tags, ", "))
	}
	tbl.AddRow(dim.Sprint("ID"), r.ID)
	return tbl.String() + "\n"
}

func (v *ReportViewerRenderer) markdown(r record.Report, width int) (string, error) {
	md := strings.TrimSpace(r.Body)
	if md == "" {
		md = strings.TrimSpace(r.Summary)
	}
	if md == "" {
		md = "_No report text._"
	} else if r.Body != "" && r.Summary != "" {
		md = "**Summary:** " + strings.TrimSpace(r.Summary) + "\n\n" + md
	}

	if width <= 0 {
		width = defaultWrap
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(v.opts.style()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(md)
}
