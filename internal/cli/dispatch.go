// Package cli parses the command line and dispatches to the registered commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/sirupsen/logrus"

	"todo/internal/backend/googletasks"
	"todo/internal/backend/rest"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/log"
	loglogrus "todo/internal/log/logrus"
	"todo/internal/service"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// DefaultServiceFactory creates the backend selected by cfg.Backend.
func DefaultServiceFactory(ctx context.Context, cfg *config.Config) (service.Service, error) {
	switch cfg.Backend {
	case config.BackendGoogleTasks:
		c, err := googletasks.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.BackendREST:
		c, err := rest.New(rest.ClientConfig{
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
			Logger:  cfg.Logger,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
}

// globalFlags are accepted before or after any command.
type globalFlags struct {
	configDir  string
	quiet      bool
	debug      bool
	baseURL    string
	backend    string
	loggerType string
	timeout    time.Duration
	timeoutSet bool
}

func (f *globalFlags) register(app *kingpin.Application) {
	app.Flag("config", "Override config directory.").StringVar(&f.configDir)
	app.Flag("quiet", "Suppress informational output.").Short('q').BoolVar(&f.quiet)
	app.Flag("debug", "Print debug logs to stderr.").BoolVar(&f.debug)
	app.Flag("base-url", "Base URL of the REST collection.").Envar("TODO_BASE_URL").StringVar(&f.baseURL)
	app.Flag("backend", "Task collection backend.").EnumVar(&f.backend, config.BackendREST, config.BackendGoogleTasks)
	app.Flag("logger", "Selects the logger type.").EnumVar(&f.loggerType, config.LoggerTypeDefault, config.LoggerTypeJSON)
	app.Flag("timeout", "Timeout of each remote call (0 for none).").IsSetByUser(&f.timeoutSet).DurationVar(&f.timeout)
}

// apply overrides the file settings with the flags the user set.
func (f *globalFlags) apply(cfg *config.Config) {
	cfg.Quiet = f.quiet
	cfg.Debug = f.debug
	if f.baseURL != "" {
		cfg.BaseURL = f.baseURL
	}
	if f.backend != "" {
		cfg.Backend = f.backend
	}
	if f.loggerType != "" {
		cfg.LoggerType = f.loggerType
	}
	if f.timeoutSet {
		cfg.Timeout = f.timeout
	}
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	if factory == nil {
		factory = DefaultServiceFactory
	}
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	app := kingpin.New(config.AppName, "A synchronized task-list client.")
	app.UsageWriter(out)
	app.ErrorWriter(errOut)
	app.UsageTemplate(commands.UsageTemplate)

	// Help output ends the run without executing a command.
	helped := false
	app.Terminate(func(int) { helped = true })

	var flags globalFlags
	flags.register(app)

	for _, cmd := range d.registry.All() {
		clause := app.Command(cmd.Name(), cmd.Synopsis())
		for _, alias := range cmd.Aliases() {
			clause.Alias(alias)
		}
		if d.registry.IsDefault(cmd) {
			clause.Default()
		}
		cmd.RegisterFlags(clause)
	}

	cmdName, err := app.Parse(args)
	if helped {
		return exitcode.Success
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	cfg, err := config.New(flags.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.AuthError
	}
	flags.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.AuthError
	}
	cfg.Logger = newLogger(cfg, errOut).WithValues(log.Kv{"cmd": cmd.Name()})

	var svc service.Service
	if cmd.NeedsService() {
		if cfg.Backend == config.BackendGoogleTasks {
			if !cfg.HasOAuthClient() {
				fmt.Fprintf(errOut, "error: %s not found in %s\n", config.OAuthClientFile, cfg.Dir)
				return exitcode.AuthError
			}
			if !cfg.HasToken() {
				fmt.Fprintf(errOut, "error: not logged in (run: %s login)\n", config.AppName)
				return exitcode.AuthError
			}
		}

		svc, err = d.factory(ctx, cfg)
		if err != nil {
			if cfg.Backend == config.BackendGoogleTasks {
				fmt.Fprintf(errOut, "error: auth error: %s\n", err)
				return exitcode.AuthError
			}
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
	}

	cfg.Logger.Debugf("running command with %s backend", cfg.Backend)
	return cmd.Run(ctx, cfg, svc, out, errOut)
}

// newLogger returns the application logger. Logs go to errOut so they never
// mix with command output.
func newLogger(cfg *config.Config, errOut io.Writer) log.Logger {
	logrusLog := logrus.New()
	logrusLog.Out = errOut
	logrusLog.SetLevel(logrus.WarnLevel)
	if cfg.Debug {
		logrusLog.SetLevel(logrus.DebugLevel)
	}

	switch cfg.LoggerType {
	case config.LoggerTypeJSON:
		logrusLog.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrusLog.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	}

	logger := loglogrus.NewLogrus(logrus.NewEntry(logrusLog)).WithValues(log.Kv{
		"version": commands.Version,
	})
	logger.Debugf("Debug level is enabled")

	return logger
}
