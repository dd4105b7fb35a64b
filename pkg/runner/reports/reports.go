package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/medview/pkg/app"
	"tableflip.dev/medview/pkg/printers"
	"tableflip.dev/medview/pkg/record"
	"tableflip.dev/medview/pkg/timeutil"
)

// Reports lists reports newest first, optionally for one category and
// subcategory. A non-zero Since keeps only reports dated within that window.
type Reports struct {
	Viewer      *app.Viewer
	Category    string
	Subcategory string
	Since       time.Duration
	// Now defaults to time.Now.
	Now     func() time.Time
	JSON    bool
	Out     io.Writer
	NoColor bool
}

func (n *Reports) Do(ctx context.Context) error {
	if n.Viewer == nil {
		return errors.New("reports: no viewer")
	}
	if n.Category == "" && n.Subcategory != "" {
		return errors.New("reports: a subcategory needs a category")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}

	list := n.Viewer.Reports(n.Category, n.Subcategory)
	if n.Since > 0 {
		now := time.Now
		if n.Now != nil {
			now = n.Now
		}
		cutoff := now().Add(-n.Since)
		kept := list[:0]
		for _, r := range list {
			if record.OnOrAfter(r.Date, cutoff) {
				kept = append(kept, r)
			}
		}
		list = kept
	}
	if n.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	title := "All reports"
	if n.Category != "" {
		title = n.Category
		if n.Subcategory != "" {
			title += " / " + n.Subcategory
		}
	}
	if n.Since > 0 {
		title = fmt.Sprintf("%s, last %s", title, timeutil.FormatWindow(n.Since))
	}
	pp := printers.PrettyPrint{Out: out, NoColor: n.NoColor}
	pp.TitleWithCount(title, len(list), "report")
	pp.Reports(list, n.Viewer.Link)
	return nil
}
