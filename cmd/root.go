package cmd

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/briandowns/spinner"
	"github.com/gookit/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/webamon/webamon-cli/pkg/config"
	"github.com/webamon/webamon-cli/pkg/webamon"
)

var rootCmd = &cobra.Command{
	Use:           "webamon",
	Short:         "search, scan and monitor the web's threat landscape from your terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	apiKeyFlag string
	configFile string
	logLevel   string
	noColors   = false // don't display colored output
	verbose    = false // debug logging, also persisted in the config file
)

// loadConfig reads the persisted configuration; a missing file yields the
// zero config.
func loadConfig() *config.Config {
	cfg := config.Load(configFile)
	if cfg.GetVerbose() && !verbose {
		// logging was already initialized from the flags; a persisted
		// verbose setting raises the level here.
		verbose = true
		log.SetLevel(log.DebugLevel)
	}
	return cfg
}

// newClient builds the API client with the resolved key (flag > env > file)
// and a spinner-backed status callback. The returned stop function must be
// called before writing any output.
func newClient(cfg *config.Config) (*webamon.Client, func()) {
	// the charsets[21] spinner characters read well on most terminals.
	s := spinner.New(spinner.CharSets[21], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	statuscb := func(message string) {
		s.Suffix = " " + message
		if !s.Active() {
			s.Start()
		}
	}
	stop := func() {
		if s.Active() {
			s.Stop()
		}
	}

	client := webamon.NewClient(
		webamon.WithAPIKey(cfg.ResolveAPIKey(apiKeyFlag)),
		webamon.WithStatusCallback(statuscb),
	)

	return client, stop
}

func renderOpts() []string {
	var opts []string
	if noColors {
		opts = append(opts, "no-colors")
	}
	return opts
}

// fieldListFlag returns the parsed field list for a flag, or nil when the
// flag was never set. The distinction matters: an explicitly empty list must
// not fall back to defaults.
func fieldListFlag(cmd *cobra.Command, name string) []string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return webamon.SplitFieldList(v)
}

// recordFields derives a projection order from the first record's keys, used
// when no field list was requested anywhere (e.g. bare lucene queries).
func recordFields(records []gjson.Result) []string {
	if len(records) == 0 {
		return nil
	}
	var fields []string
	records[0].ForEach(func(k, _ gjson.Result) bool {
		fields = append(fields, k.String())
		return true
	})
	return fields
}

// emit delivers a rendered artifact: to stdout when path is empty, to the
// file otherwise. A failed write is reported but never fatal; the artifact
// falls back to stdout so the result is not lost.
func emit(artifact, path string) {
	if path == "" {
		fmt.Print(artifact)
		return
	}

	if err := webamon.WriteExport(artifact, path); err != nil {
		log.Warnf("%v", err)
		fmt.Print(artifact)
		return
	}

	fmt.Printf("%s Exported to %s\n", color.Green.Render("✓"), path)
}

func initLogging() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
		PadLevelText:  true,
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			return f.Function + ": ", fmt.Sprintf("%s:%d", f.File, f.Line)
		},
	})

	switch logLevel {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	case "fatal":
		log.SetLevel(log.FatalLevel)
	case "panic":
		log.SetLevel(log.PanicLevel)
	default:
		log.SetLevel(log.WarnLevel)
	}

	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.Red.Render("Error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "API key (overrides WEBAMON_API_KEY and the config file)")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "L", "", "Log level (debug, info, warn*, error, fatal, panic)")
	rootCmd.PersistentFlags().BoolVar(&noColors, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug output")

	cobra.OnInitialize(initLogging)
}
