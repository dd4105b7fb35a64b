package render

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/medview/pkg/app"
	"tableflip.dev/medview/pkg/printers"
	"tableflip.dev/medview/pkg/router"
)

// Render routes a booted viewer once and prints the pane.
type Render struct {
	Viewer  *app.Viewer
	Path    string
	JSON    bool
	Out     io.Writer
	NoColor bool
}

// Result is the JSON form of a render.
type Result struct {
	Resolution router.Resolution `json:"resolution"`
	Location   string            `json:"location"`
	History    []string          `json:"history"`
	Title      string            `json:"title"`
	Body       string            `json:"body"`
}

func (n *Render) Do(ctx context.Context) error {
	if n.Viewer == nil {
		return errors.New("render: no viewer")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}

	n.Viewer.Start(n.Path)
	res := n.Viewer.Router.Current()

	if n.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(Result{
			Resolution: res,
			Location:   n.Viewer.Location.Path(),
			History:    n.Viewer.Location.History(),
			Title:      n.Viewer.Pane.Title(),
			Body:       n.Viewer.Pane.Body(),
		})
	}

	pp := printers.PrettyPrint{Out: out, NoColor: n.NoColor}
	pp.Pane(n.Viewer.Pane)
	return nil
}
