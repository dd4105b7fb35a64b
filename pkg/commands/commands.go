package commands

import (
	"context"
	"fmt"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tableflip.dev/medview/pkg/app"
	"tableflip.dev/medview/pkg/commands/options"
	"tableflip.dev/medview/pkg/logging"
)

var (
	oo = &options.OutputOptions{}
	co = &options.ConfigOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "medview",
		Short: base.Wrap80("Browse a medical record catalog: imaging, pathology, bloodwork, blood pressure and medications."),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd)
		},
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd, args)
		},
	}

	options.AddConfigArgs(cmd, co)
	options.AddColorArg(cmd, oo)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addRender(topLevel)
	addTree(topLevel)
	addReports(topLevel)
	addSources(topLevel)
	addSample(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

func initConfig(cmd *cobra.Command) error {
	v := viper.GetViper()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "~/.medview.log")
	if err := co.Bind(cmd, v); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	return nil
}

// loadConfig reads the merged configuration and applies the log level.
func loadConfig(cmd *cobra.Command) (*app.Config, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := logging.SetLevel(viper.GetString("log.level")); err != nil {
		return nil, err
	}
	cfg.Profile = oo.Profile(cmd.OutOrStdout())
	return cfg, nil
}

// boot loads the configuration and the collections for a one-shot command.
func boot(cmd *cobra.Command, width int) (*app.Viewer, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	cfg.Width = width
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return app.Boot(ctx, cfg, logging.Log)
}
