package options

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ConfigOptions are the persistent flags every command shares.
type ConfigOptions struct {
	File     string
	Data     string
	Home     string
	LogLevel string
	LogFile  string
}

func AddConfigArgs(cmd *cobra.Command, o *ConfigOptions) {
	cmd.PersistentFlags().StringVar(&o.File, "config", "",
		"Config file (default .medview.yaml in $MEDVIEW_CONFIG_PATH, ./ or $HOME).")
	cmd.PersistentFlags().StringVar(&o.Data, "data", "./data",
		"Directory or http(s) base URL holding the collections.")
	cmd.PersistentFlags().StringVar(&o.Home, "home", "home",
		"Section shown when the location is empty or unknown.")
	cmd.PersistentFlags().StringVar(&o.LogLevel, "loglevel", "info",
		"Log level: debug, info, warn or error.")
	cmd.PersistentFlags().StringVar(&o.LogFile, "log-file", "~/.medview.log",
		"File receiving logs while the UI runs.")
}

// Bind ties the flags to their viper keys so flags win over config and env.
func (o *ConfigOptions) Bind(cmd *cobra.Command, v *viper.Viper) error {
	if o.File != "" {
		v.SetConfigFile(o.File)
	}
	flags := cmd.Root().PersistentFlags()
	for key, name := range map[string]string{
		"data":      "data",
		"home":      "home",
		"log.level": "loglevel",
		"log.file":  "log-file",
	} {
		flag, err := lookup(flags, name)
		if err != nil {
			return err
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

func lookup(fs *pflag.FlagSet, name string) (*pflag.Flag, error) {
	if f := fs.Lookup(name); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("flag --%s is not registered", name)
}
