// Package teaui starts the Bubble Tea UI, or its error page when the viewer
// could not boot.
package teaui

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"tableflip.dev/medview/pkg/app"
	"tableflip.dev/medview/pkg/logging"
	tuiapp "tableflip.dev/medview/pkg/tui/app"
)

// UI boots the viewer from Config and runs the interactive program.
type UI struct {
	Config *app.Config
	// Path is the location opened first; empty means home.
	Path string
	// LogFile receives log output while the screen is owned by the UI.
	LogFile string
	Log     logrus.FieldLogger
}

// Do runs the UI until the user quits or ctx ends.
func (u *UI) Do(ctx context.Context) error {
	if u.LogFile != "" {
		closer, err := logging.ToFile(u.LogFile)
		if err != nil {
			return err
		}
		defer closer.Close()
	}
	log := logging.Or(u.Log)

	v, err := app.Boot(ctx, u.Config, log)
	if err != nil {
		log.WithError(err).Error("viewer failed to boot")
		if runErr := tuiapp.RunError(ctx, err); runErr != nil {
			return errors.Join(err, runErr)
		}
		return err
	}
	return tuiapp.Run(ctx, v, u.Path, log)
}
