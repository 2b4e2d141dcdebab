package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pressly/goose/v3"
	"github.com/tetralog/tetralog/internal/db"
	"github.com/tetralog/tetralog/internal/importer"
	"github.com/tetralog/tetralog/internal/logging"
	"github.com/tetralog/tetralog/internal/server"
	"github.com/tetralog/tetralog/internal/workers"
	"golang.org/x/sync/errgroup"

	_ "modernc.org/sqlite"
)

// RuntimeConfig holds all runtime configuration from CLI flags
type RuntimeConfig struct {
	DBPath         string
	MCPPort        int
	ImportURL      string
	ImportToken    string
	ImportInterval time.Duration
	NoImport       bool
}

// Run is the main entry point for the unified run mode
func Run(cfg *RuntimeConfig) error {
	log := logging.Logger

	log.Info().
		Str("db_path", cfg.DBPath).
		Int("mcp_port", cfg.MCPPort).
		Bool("no_import", cfg.NoImport).
		Dur("import_interval", cfg.ImportInterval).
		Msg("starting tetralog")

	// Set up context for shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	// Open database with SQLite concurrency settings
	log.Info().Str("path", cfg.DBPath).Msg("opening database")
	sqlDB, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	if err := db.Configure(sqlDB); err != nil {
		return fmt.Errorf("configuring SQLite: %w", err)
	}

	// Run SQL migrations using goose
	migrations, err := db.Migrations()
	if err != nil {
		return err
	}
	gooseProvider, err := goose.NewProvider(goose.DialectSQLite3, sqlDB, migrations)
	if err != nil {
		return fmt.Errorf("creating goose provider: %w", err)
	}

	results, err := gooseProvider.Up(ctx)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	for _, r := range results {
		log.Debug().Int64("version", r.Source.Version).Str("path", r.Source.Path).Msg("migration applied")
	}
	log.Debug().Int("applied", len(results)).Msg("database migrations completed")

	queries := db.New(sqlDB)

	// Log database statistics
	workers.LogDatabaseStats(ctx, queries)

	// Start background workers with errgroup for graceful shutdown
	g, gCtx := errgroup.WithContext(ctx)

	importing := !cfg.NoImport && cfg.ImportURL != ""
	if importing {
		client := importer.NewClient(cfg.ImportURL, cfg.ImportToken)
		service := importer.NewService(queries, client)

		// Initial import before serving queries
		if _, err := service.Run(ctx); err != nil {
			log.Warn().Err(err).Msg("initial import failed")
			// Continue anyway - the background worker will retry
		}
		workers.LogDatabaseStats(ctx, queries)

		log.Info().Msg("starting background workers")
		sessionImporter := workers.NewSessionImporter(service, cfg.ImportInterval)
		g.Go(func() error {
			sessionImporter.Run(gCtx)
			return nil
		})
	} else if cfg.NoImport {
		log.Info().Msg("running in offline mode (--no-import), serving existing database")
	} else {
		log.Info().Msg("no --import-url configured, serving existing database")
	}

	// Start MCP server
	srv := server.New(queries)

	var serverErr error
	if cfg.MCPPort > 0 {
		serverErr = runHTTPServer(ctx, srv.MCPServer(), cfg.MCPPort)
	} else {
		log.Info().Msg("MCP server running via stdio")
		serverErr = srv.Run(ctx)
	}

	// Wait for workers to finish (only if workers were started)
	if importing {
		log.Info().Msg("waiting for workers to shut down")
		if err := g.Wait(); err != nil {
			log.Warn().Err(err).Msg("worker error during shutdown")
		} else {
			log.Info().Msg("all workers shut down gracefully")
		}
	}

	return serverErr
}

// runHTTPServer runs the MCP server over HTTP/SSE
func runHTTPServer(ctx context.Context, mcpServer *mcp.Server, port int) error {
	log := logging.Logger

	handler := mcp.NewSSEHandler(func(r *http.Request) *mcp.Server {
		return mcpServer
	}, nil)

	addr := fmt.Sprintf(":%d", port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().
			Str("address", addr).
			Str("endpoint", fmt.Sprintf("http://localhost%s", addr)).
			Msg("MCP server running via HTTP/SSE")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down HTTP server")
		return httpServer.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}
