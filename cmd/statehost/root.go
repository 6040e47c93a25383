package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"statehost/internal/config"
	"statehost/internal/logging"
	"statehost/internal/store"
)

// runtime is what every subcommand gets after config is loaded.
type runtime struct {
	cfg    config.Config
	log    zerolog.Logger
	store  store.Store
	closer []io.Closer
}

func (r *runtime) Close() {
	for i := len(r.closer) - 1; i >= 0; i-- {
		_ = r.closer[i].Close()
	}
}

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"store-driver":   "store.driver",
	"store-path":     "store.path",
	"codec":          "codec",
	"log-level":      "log.level",
	"log-format":     "log.format",
	"log-file":       "log.file",
	"trace-endpoint": "trace.endpoint",
	"debug-addr":     "trace.debug_addr",
}

func newRootCmd() (*cobra.Command, *runtime) {
	v := config.New()
	rt := &runtime{}

	root := &cobra.Command{
		Use:           "statehost",
		Short:         "Host presenters whose state survives navigation and restarts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.setup(v, cmd.Name() == "run")
		},
	}

	flags := root.PersistentFlags()
	flags.String("store-driver", "", "Bundle store (file, sqlite)")
	flags.String("store-path", "", "Store directory (default ~/.statehost)")
	flags.String("codec", "", "Snapshot codec (json, yaml)")
	flags.StringP("log-level", "l", "", "Log level")
	flags.String("log-format", "", "Log format (console, json)")
	flags.String("log-file", "", "Log file (run defaults to <store-path>/statehost.log)")
	flags.String("trace-endpoint", "", "OTLP HTTP endpoint for container spans")
	flags.String("debug-addr", "", "Serve recorded timelines over HTTP on this address")
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(
		newRunCmd(rt),
		newInspectCmd(rt),
		newClearCmd(rt),
	)
	root.CompletionOptions.HiddenDefaultCmd = true
	return root, rt
}

// setup loads config, builds the logger and opens the store. The TUI owns
// the terminal, so run logs to a file.
func (r *runtime) setup(v *viper.Viper, tui bool) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	r.cfg = cfg

	var w io.Writer = os.Stderr
	logFile := cfg.Log.File
	if logFile == "" && tui {
		logFile = filepath.Join(cfg.Store.Path, "statehost.log")
	}
	if logFile != "" {
		f, err := logging.OpenFile(logFile)
		if err != nil {
			return err
		}
		r.closer = append(r.closer, f)
		w = f
	}
	r.log, err = logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Writer: w})
	if err != nil {
		return err
	}

	r.store, err = store.Open(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return err
	}
	r.closer = append(r.closer, r.store)
	r.log.Debug().Str("driver", cfg.Store.Driver).Str("path", cfg.Store.Path).Msg("store opened")
	return nil
}
