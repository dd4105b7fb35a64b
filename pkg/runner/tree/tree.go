package tree

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/medview/pkg/app"
	"tableflip.dev/medview/pkg/printers"
)

// Tree prints the nav tree as it looks at Path.
type Tree struct {
	Viewer  *app.Viewer
	Path    string
	All     bool
	Legend  bool
	Out     io.Writer
	NoColor bool
}

func (n *Tree) Do(ctx context.Context) error {
	if n.Viewer == nil {
		return errors.New("tree: no viewer")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	n.Viewer.Start(n.Path)

	pp := printers.PrettyPrint{Out: n.Out, NoColor: n.NoColor, All: n.All}
	pp.Title(n.Viewer.Location.Path())
	pp.Tree(n.Viewer.Tree, n.Viewer.State)
	if n.Legend {
		pp.NewLine()
		pp.Legend()
	}
	return nil
}
