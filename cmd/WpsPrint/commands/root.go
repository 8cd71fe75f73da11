package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/adcondev/wps-print/internal/app"
	"github.com/adcondev/wps-print/internal/config"
	"github.com/adcondev/wps-print/internal/logging"
	"github.com/adcondev/wps-print/internal/printerrors"
)

// flag name -> settings key
var flagKeys = map[string]string{
	"printer":     "printer",
	"page-size":   "page_size",
	"orientation": "orientation",
	"install-dir": "install_dir",
	"verbose":     "verbose",
}

type cli struct {
	deps   app.Deps
	stdout io.Writer
	stderr io.Writer

	v          *viper.Viper
	configFile string
	log        *logging.Logger
	app        *app.App
}

// Execute runs the CLI against the real system
func Execute() error {
	return run(os.Args[1:], app.Deps{}, os.Stdout, os.Stderr)
}

func run(args []string, deps app.Deps, stdout, stderr io.Writer) error {
	c := &cli{deps: deps, stdout: stdout, stderr: stderr, v: viper.New()}

	if args == nil {
		args = []string{} // cobra reads os.Args on nil
	}

	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if c.log != nil {
		_ = c.log.Close()
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "[X] %s\n", printerrors.UserMessage(err))
	}
	return err
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wpsprint [file]",
		Short:         "Print an office document through WPS Office",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("%w: a file path is required", printerrors.ErrValidation)
			}
			return c.print(args[0])
		},
	}

	root.PersistentFlags().StringVarP(&c.configFile, "config", "c", "", "config file (default wpsprint.toml in the working dir or %PROGRAMDATA%\\"+config.ServiceName+")")
	root.PersistentFlags().String("install-dir", "", "WPS Office directory holding et.exe and wps.exe (default from the registry)")
	root.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
	addPrintFlags(root)

	root.AddCommand(printCmd(c), printersCmd(c), papersCmd(c), versionCmd(c))
	return root
}

func addPrintFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("printer", "p", "", "target printer (spreadsheets: becomes the system default)")
	cmd.Flags().StringP("page-size", "s", "", "paper name as reported by the driver, e.g. A4")
	cmd.Flags().StringP("orientation", "o", "", "portrait or landscape (default portrait)")
}

// setup loads settings and builds the logger and dependencies
func (c *cli) setup(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := c.v.BindPFlag(key, f); err != nil {
			return err
		}
	}

	env := config.GetEnvironment(config.BuildEnvironment)
	settings, err := config.Load(c.v, env, c.configFile)
	if err != nil {
		return fmt.Errorf("%w: %w", printerrors.ErrValidation, err)
	}

	log, err := logging.New(logging.Config{
		Level:   settings.Log.Level,
		Format:  settings.Log.Format,
		File:    settings.Log.File,
		Verbose: settings.Verbose,
	}, c.stdout, c.stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	c.log = log

	c.app = app.New(env, settings, log.Logger, c.deps)
	return nil
}
