// Package cmd assembles the weathercloset command line.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/weathercloset/weathercloset/cmd/migrate"
	"github.com/weathercloset/weathercloset/cmd/serve"
	"github.com/weathercloset/weathercloset/cmd/users"
	"github.com/weathercloset/weathercloset/internal/buildinfo"
	"github.com/weathercloset/weathercloset/internal/conf"
	"github.com/weathercloset/weathercloset/internal/logger"
)

// RootCommand creates the root command with all subcommands attached.
func RootCommand(info *buildinfo.Context) *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "weathercloset",
		Short:         "Weather Closet wardrobe recommendation server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(info.String())
		},
	}

	rootCmd.AddCommand(
		serve.Command(info),
		migrate.Command(),
		users.Command(),
		versionCmd,
	)

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file (default: search standard config paths)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug output")
	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		panic(fmt.Sprintf("error binding debug flag: %v", err))
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		return initialize(configFile)
	}

	return rootCmd
}

// initialize loads settings and installs the global logger.
func initialize(configFile string) error {
	settings, err := conf.Load(configFile)
	if err != nil {
		return err
	}

	if settings.Debug {
		settings.Logging.DefaultLevel = "debug"
		if settings.Logging.Console != nil {
			settings.Logging.Console.Level = "debug"
		}
	}

	central, err := logger.NewCentralLogger(&settings.Logging)
	if err != nil {
		return fmt.Errorf("error initializing logger: %w", err)
	}
	logger.SetGlobal(central)
	return nil
}
