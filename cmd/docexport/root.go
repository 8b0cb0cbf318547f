package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gompdf/docexport/internal/config"
	"github.com/gompdf/docexport/internal/logging"
	"github.com/gompdf/docexport/pkg/api"
)

// cli carries the state shared by all subcommands
type cli struct {
	configFile string
	verbose    bool

	v        *viper.Viper
	conf     *config.Config
	logger   *slog.Logger
	exporter *api.Exporter
}

// flagKeys maps command line flags onto configuration keys
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
	"addr":       "server.address",
	"page-size":  "page.size",
	"font":       "font.family",
	"author":     "pdf.author",
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "docexport",
		Short: "Paginate reports into PDF and export calendars as iCalendar",
		Long: `docexport lays rich-text reports out into fixed-geometry PDF pages and
serializes calendar events as iCalendar (.ics) files.

Configuration Sources (in order of precedence):
1. Command line flags
2. Environment variables (DOCEXPORT_*)
3. Configuration file (--config or DOCEXPORT_CONFIG)
4. Built-in defaults

Examples:
  # Export an HTML report
  docexport pdf --input report.html --title "Quarterly report"

  # Export the meetings of one person
  docexport ics --input events.yaml --type meeting --email ana@example.com

  # Serve the HTTP API
  docexport serve --addr :8080`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&c.configFile, "config", "c", "", "config file (default $DOCEXPORT_CONFIG)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text|json")
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "show detailed output")

	rootCmd.AddCommand(c.newPDFCmd())
	rootCmd.AddCommand(c.newICSCmd())
	rootCmd.AddCommand(c.newServeCmd())

	return rootCmd
}

// init loads the configuration, binds flags and builds the logger and exporter
func (c *cli) init(cmd *cobra.Command) error {
	v, err := config.New(c.configFile)
	if err != nil {
		return err
	}
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	if c.verbose {
		v.Set("log.level", "debug")
	}

	conf, err := config.FromViper(v)
	if err != nil {
		return err
	}

	logger, err := logging.Init(cmd.ErrOrStderr(), conf.Log.Level, conf.Log.Format)
	if err != nil {
		return err
	}

	opts := append(conf.ExportOptions(), api.WithLogger(logger), api.WithDebug(c.verbose))

	c.v = v
	c.conf = conf
	c.logger = logger
	c.exporter = api.NewWith(opts...)
	return nil
}

// defaultOutput derives an output path from the input, keeping its directory
func defaultOutput(input, ext, fallback string) string {
	if input == "" || strings.Contains(input, "://") || strings.HasPrefix(input, "data:") {
		return fallback
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + ext
}

// writeOutput writes data to path, or to stdout when path is "-"
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
