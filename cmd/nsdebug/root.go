package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kataras/golog"
	"github.com/rs/zerolog"
	"github.com/smallnest/nsdebug/debug"
	"github.com/smallnest/nsdebug/internal/config"
	"github.com/smallnest/nsdebug/log"
	"github.com/smallnest/nsdebug/sink"
	"github.com/smallnest/nsdebug/store"
	"github.com/spf13/cobra"
)

// app carries the global flags and what they resolve to for one run.
type app struct {
	configPath  string
	storeType   string
	storePath   string
	redisAddr   string
	postgresDSN string
	logLevel    string

	cfg    *config.Config
	store  store.NamespaceStore
	close  func() error
	logger log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "nsdebug",
		Short: "Inspect and change the enabled debug namespaces",
		Long: `nsdebug manages the enable-string that decides which debug channels
print, wherever it is stored.

Examples:
  nsdebug enable 'api:*,-api:internal' --store redis
  nsdebug match api:public api:internal
  nsdebug emit api:public 'served %s in %dms' /health 12`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default "+config.ConfigPath()+")")
	flags.StringVar(&a.storeType, "store", "", "Namespace store: env, memory, file, redis, postgres, sqlite")
	flags.StringVar(&a.storePath, "store-path", "", "File or database path for the file and sqlite stores")
	flags.StringVar(&a.redisAddr, "redis-addr", "", "Redis address for the redis store")
	flags.StringVar(&a.postgresDSN, "postgres-dsn", "", "Connection string for the postgres store")
	flags.StringVar(&a.logLevel, "log", "", "Diagnostics level: debug, info, warn, error, none")

	root.AddCommand(
		newMatchCmd(a),
		newColorCmd(a),
		newEnableCmd(a),
		newDisableCmd(a),
		newShowCmd(a),
		newHistoryCmd(a),
		newEmitCmd(a),
		newWatchCmd(a),
	)
	// cobra skips post-run hooks when RunE fails
	for _, sub := range root.Commands() {
		if sub.RunE != nil {
			sub.RunE = a.closeAfter(sub.RunE)
		}
	}
	return root
}

// closeAfter releases the store once run returns, whether it failed or not.
func (a *app) closeAfter(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			err = errors.Join(err, a.shutdown())
		}()
		return run(cmd, args)
	}
}

func (a *app) shutdown() error {
	if a.close == nil {
		return nil
	}
	closeFn := a.close
	a.close = nil
	return closeFn()
}

// setup loads the config, lets flags override it and opens the store.
func (a *app) setup(cmd *cobra.Command) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFromPath(a.configPath)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("store") {
		a.cfg.Store.Type = a.storeType
	}
	if flags.Changed("store-path") {
		a.cfg.Store.Path = a.storePath
	}
	if flags.Changed("redis-addr") {
		a.cfg.Store.Redis.Addr = a.redisAddr
	}
	if flags.Changed("postgres-dsn") {
		a.cfg.Store.Postgres.DSN = a.postgresDSN
	}
	if flags.Changed("log") {
		a.cfg.Logging.Level = a.logLevel
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.logger, err = newLogger(a.cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a.store, a.close, err = openStore(cmd.Context(), a.cfg.Store)
	return err
}

func newLogger(cfg config.LoggingConfig, out io.Writer) (log.Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if cfg.Backend == "golog" {
		g := golog.New()
		g.SetOutput(out)
		l := log.NewGologLogger(g)
		l.SetLevel(level)
		return l, nil
	}
	return log.NewCustomLogger(out, level), nil
}

// registry builds a registry on the configured store, writing channel
// output to the configured sink.
func (a *app) registry(cmd *cobra.Command) *debug.Registry {
	return debug.NewRegistry(
		debug.WithStore(a.store),
		debug.WithLogger(a.logger),
		debug.WithSink(a.sink(cmd)),
		debug.WithOptions(a.cfg.Output.Options(os.Environ())),
	)
}

func (a *app) sink(cmd *cobra.Command) sink.Sink {
	switch a.cfg.Output.Sink {
	case "stdout":
		return sink.NewWriterSink(cmd.OutOrStdout())
	case "golog":
		g := golog.New()
		g.SetOutput(cmd.ErrOrStderr())
		return sink.NewGologSink(g)
	case "zerolog":
		return sink.NewZerologSink(zerolog.New(cmd.ErrOrStderr()).With().Timestamp().Logger())
	}
	return sink.NewWriterSink(cmd.ErrOrStderr())
}

// warnEnvStore tells the user a change made through the env store dies
// with the process.
func (a *app) warnEnvStore(cmd *cobra.Command) {
	if a.cfg.Store.Type != config.StoreEnv {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(),
		"warning: the env store only changes %s for this process; use --store file or another shared store to keep it\n",
		a.cfg.Store.Variable)
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
