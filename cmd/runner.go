package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviesync/internal/services"
	"github.com/desertthunder/moviesync/internal/shared"
	"github.com/desertthunder/moviesync/internal/tasks"
)

const defaultConfigPath = "config.toml"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	fetcher    services.Fetcher
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Fetcher    services.Fetcher // overrides the fetcher built from config
	HTTPClient *http.Client     // used by the default fetcher
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		fetcher:    opts.Fetcher,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, fetchCommand, syncCommand, moviesCommand, serveCommand, browseCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// configure loads the config file named by --config and applies the log level.
//
// A missing file leaves the embedded defaults in place.
func (r *Runner) configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if path == "" {
		path = defaultConfigPath
	}
	r.configPath = path

	config, err := shared.LoadConfig(path)
	switch {
	case err == nil:
		r.config = config
		r.logger.Debug("loaded config", "path", path)
	case errors.Is(err, shared.ErrMissingConfig):
		if cmd.IsSet("config") {
			r.logger.Warn("config file not found, using defaults", "path", path)
		}
	default:
		return ctx, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	level, err := shared.ParseLogLevel(r.config.Log.Level)
	if err != nil {
		return ctx, err
	}
	if cmd.Bool("verbose") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)

	return ctx, nil
}

// SetLogger replaces the runner's logger, e.g. to keep log lines out of the TUI.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// sourceURL returns the --url flag when set, else the configured source.
func (r *Runner) sourceURL(cmd *cli.Command) string {
	if u := cmd.String("url"); u != "" {
		return u
	}
	return r.config.Source.URL
}

// databasePath returns the --db flag when set, else the configured store.
func (r *Runner) databasePath(cmd *cli.Command) string {
	if p := cmd.String("db"); p != "" {
		return p
	}
	return r.config.Database.Path
}

func (r *Runner) newFetcher() services.Fetcher {
	if r.fetcher != nil {
		return r.fetcher
	}

	client := r.httpClient
	if client == nil {
		client = services.NewHTTPClient(r.config.Source.UserAgent, r.config.Source.Timeout.Duration)
	}

	return services.NewTableFetcher(services.FetcherOpts{
		Client:      client,
		UserAgent:   r.config.Source.UserAgent,
		TitleColumn: r.config.Source.TitleColumn,
		DateColumn:  r.config.Source.DateColumn,
		Logger:      shared.WithLogger(r.logger, "component", "fetcher"),
	})
}

func (r *Runner) newSynchronizer(path string) *tasks.Synchronizer {
	return tasks.NewSynchronizer(tasks.SynchronizerOpts{
		Path:          path,
		BusyTimeoutMS: r.config.Database.BusyTimeoutMS,
		Logger:        shared.WithLogger(r.logger, "component", "store"),
	})
}

func (r *Runner) newPipeline(cmd *cli.Command) *tasks.Pipeline {
	return tasks.NewPipeline(tasks.PipelineOpts{
		Fetcher:      r.newFetcher(),
		Synchronizer: r.newSynchronizer(r.databasePath(cmd)),
		SourceURL:    r.sourceURL(cmd),
		PreviewRows:  r.config.Sync.PreviewRows,
		Logger:       r.logger,
	})
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
