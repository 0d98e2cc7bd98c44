package commands

import (
	"context"
	"fmt"
	"io"
	"net"

	"github.com/alecthomas/kingpin/v2"
	"github.com/oklog/run"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/server"
	"todo/internal/service"
	"todo/internal/storage"
	"todo/internal/storage/memory"
	"todo/internal/storage/sqlite"
)

// Store names for the serve command.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd implements the serve command: a development /todos collection.
type ServeCmd struct {
	addr   string
	store  string
	dbPath string

	// listening, when set, receives the bound address once the server accepts
	// connections.
	listening chan<- string
}

// SetOptions sets the flag values (for testing).
func (c *ServeCmd) SetOptions(addr, store, dbPath string, listening chan<- string) {
	c.addr, c.store, c.dbPath, c.listening = addr, store, dbPath, listening
}

func (c *ServeCmd) Name() string       { return "serve" }
func (c *ServeCmd) Aliases() []string  { return nil }
func (c *ServeCmd) Synopsis() string   { return "Serve a local /todos collection" }
func (c *ServeCmd) NeedsService() bool { return false }

func (c *ServeCmd) RegisterFlags(cmd *kingpin.CmdClause) {
	cmd.Flag("addr", "Listen address.").Default(server.DefaultAddr).StringVar(&c.addr)
	cmd.Flag("store", "Storage of the collection.").Default(StoreMemory).EnumVar(&c.store, StoreMemory, StoreSQLite)
	cmd.Flag("db-path", "Path to the SQLite database file.").Envar("TODO_DB_PATH").Default(config.DefaultDBPath()).StringVar(&c.dbPath)
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, out, errOut io.Writer) int {
	repo, closeRepo, err := c.newRepository(ctx, cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	defer closeRepo()

	srv, err := server.New(server.Config{
		Addr:       c.addr,
		Repository: repo,
		Logger:     cfg.Logger,
	})
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	l, err := net.Listen("tcp", c.addr)
	if err != nil {
		fmt.Fprintf(errOut, "error: could not listen on %s: %v\n", c.addr, err)
		return exitcode.UserError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "serving http://%s/todos\n", l.Addr())
	}
	if c.listening != nil {
		c.listening <- l.Addr().String()
	}

	var g run.Group

	// HTTP server.
	g.Add(
		func() error { return srv.Serve(l) },
		func(_ error) { srv.Stop() },
	)

	// Context cancellation (signals are handled by the caller).
	{
		ctx, cancel := context.WithCancel(ctx)
		g.Add(
			func() error {
				<-ctx.Done()
				return nil
			},
			func(_ error) { cancel() },
		)
	}

	if err := g.Run(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}

func (c *ServeCmd) newRepository(ctx context.Context, cfg *config.Config) (storage.Repository, func(), error) {
	switch c.store {
	case StoreSQLite:
		repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{DBPath: c.dbPath, Logger: cfg.Logger})
		if err != nil {
			return nil, nil, fmt.Errorf("could not create sqlite repository: %w", err)
		}
		return repo, func() { _ = repo.Close() }, nil
	case StoreMemory, "":
		repo, err := memory.NewRepository(memory.RepositoryConfig{Logger: cfg.Logger})
		if err != nil {
			return nil, nil, fmt.Errorf("could not create memory repository: %w", err)
		}
		return repo, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store: %s", c.store)
	}
}
