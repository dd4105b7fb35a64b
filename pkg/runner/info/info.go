package info

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"tableflip.dev/medview/pkg/printers"
	"tableflip.dev/medview/pkg/store"
)

// Info loads every configured collection and prints where they come from
// and how each one loaded.
type Info struct {
	Config     *store.Config
	ConfigFile string
	Out        io.Writer
	NoColor    bool
	Log        logrus.FieldLogger
}

func (n *Info) Do(ctx context.Context) error {
	if n.Config == nil {
		return errors.New("info: no configuration")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if n.ConfigFile != "" {
		_, _ = fmt.Fprintln(out, "Config file:", n.ConfigFile)
	} else {
		_, _ = fmt.Fprintln(out, "Config file: none (MEDVIEW_CONFIG_PATH, ./ and $HOME searched)")
	}
	_, _ = fmt.Fprintln(out, "Data:", n.Config.Location)
	_, _ = fmt.Fprintln(out, "")

	src, err := store.NewSource(n.Config, n.Log)
	if err != nil {
		return err
	}
	data, err := store.NewLoader(src, n.Config.Sources, n.Log).LoadAll(ctx)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{Out: out, NoColor: n.NoColor}
	pp.Sources(data.Slots())
	return nil
}
