// Package printers writes viewer state to a terminal for the CLI commands.
package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/medview/pkg/glyph"
	"tableflip.dev/medview/pkg/nav"
	"tableflip.dev/medview/pkg/record"
	"tableflip.dev/medview/pkg/store"
	"tableflip.dev/medview/pkg/view"
)

type PrettyPrint struct {
	Out     io.Writer
	NoColor bool
	// All prints every node; otherwise only expanded branches are walked.
	All bool
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) color(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if pp.NoColor {
		c.DisableColor()
	}
	return c
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := pp.color(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int, noun string) {
	t := pp.color(color.Bold, color.Underline)
	c := pp.color(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d %s", count, noun)
	if count != 1 {
		_, _ = c.Fprint(pp.out(), "s")
	}
	_, _ = fmt.Fprintln(pp.out(), "")
}

// Pane prints a rendered pane.
func (pp *PrettyPrint) Pane(p *view.Pane) {
	if p.Title() != "" {
		pp.Title(p.Title())
		pp.NewLine()
	}
	body := strings.TrimRight(p.Body(), "\n")
	_, _ = fmt.Fprintln(pp.out(), body)
}

// Tree prints the nav tree with the synced flags of state.
func (pp *PrettyPrint) Tree(t *nav.Tree, s *nav.State) {
	active := pp.color(color.FgCyan, color.Bold)
	group := pp.color(color.Bold)
	faint := pp.color(color.Faint)

	table := uitable.New()
	table.Separator = "  "

	open := func(n *nav.Node) bool { return pp.All || s.IsExpanded(n) }
	for _, row := range t.Rows(open) {
		n := t.Node(row.ID)
		marker := " "
		if s.IsActive(n) {
			marker = active.Sprint(glyph.Active)
		}
		fold := " "
		if !n.Leaf() {
			fold = glyph.Closed.String()
			if s.IsExpanded(n) {
				fold = glyph.Open.String()
			}
		}
		label := n.Label
		if n.Icon != "" {
			label = n.Icon + " " + label
		}
		switch {
		case s.IsActive(n):
			label = active.Sprint(label)
		case !n.Leaf():
			label = group.Sprint(label)
		}
		date := ""
		if n.Kind == nav.ReportLeaf {
			date = faint.Sprint(record.FormatDate(n.Date))
		}
		table.AddRow(marker, strings.Repeat("  ", row.Depth)+fold+" "+label, date, faint.Sprint(n.Route.String()))
	}
	_, _ = fmt.Fprintln(pp.out(), table)
}

// Sources prints the load status of every collection.
func (pp *PrettyPrint) Sources(slots []store.Slot) {
	ok := pp.color(color.FgGreen)
	bad := pp.color(color.FgRed, color.Bold)
	faint := pp.color(color.Faint)

	table := uitable.New()
	table.Separator = "  "
	table.MaxColWidth = 80
	table.Wrap = true
	table.AddRow("COLLECTION", "STATUS", "DETAIL")
	for _, slot := range slots {
		status := string(slot.Status())
		detail := ""
		switch slot.Status() {
		case store.StatusOK:
			status = ok.Sprint(status)
			detail = faint.Sprintf("%d bytes", len(slot.Payload))
		case store.StatusFailed:
			status = bad.Sprint(status)
			if slot.Err != nil {
				detail = slot.Err.Error()
			}
		}
		table.AddRow(slot.Name, status, detail)
	}
	_, _ = fmt.Fprintln(pp.out(), table)
}

// Reports prints one line per report with the location that shows it.
func (pp *PrettyPrint) Reports(reports []record.Report, link func(id string) string) {
	if len(reports) == 0 {
		f := pp.color(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}
	y := pp.color(color.FgHiYellow, color.Faint)

	table := uitable.New()
	table.Separator = "  "
	for _, r := range reports {
		kind := r.Category
		if r.Subcategory != "" {
			kind += " / " + r.Subcategory
		}
		table.AddRow(y.Sprint(r.ID), record.FormatDate(r.Date), kind, r.Label(), link(r.ID))
	}
	_, _ = fmt.Fprintln(pp.out(), table)
}

// Legend prints the tree markers and what they mean.
func (pp *PrettyPrint) Legend() {
	f := pp.color(color.Faint)
	table := uitable.New()
	table.Separator = "  "
	for _, g := range glyph.DefaultGlyphs() {
		table.AddRow(g.Symbol, f.Sprint(g.Meaning))
	}
	_, _ = fmt.Fprintln(pp.out(), table)
}
