package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tetralog/tetralog/internal/logging"
)

var (
	verbosity      int
	dbPath         string
	mcpPort        int
	importURL      string
	importToken    string
	importInterval time.Duration
	noImport       bool
)

var rootCmd = &cobra.Command{
	Use:   "tetralog",
	Short: "Tetralog - cross-discipline training log with an MCP query surface",
	Long: `Tetralog keeps riding, running, swimming, and shooting sessions in a local
SQLite database and exposes unified history and statistics via the Model
Context Protocol (MCP) for AI assistants.

The server runs with:
- Periodic session import from an export feed (optional)
- Merged chronological history across all four disciplines
- Summary statistics with per-discipline breakdowns
- MCP server over stdio or HTTP/SSE

Without --import-url the server answers queries from the existing database
only.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set up logging based on verbosity before any command runs
		logging.Setup(logging.Level(verbosity))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		rtCfg := &RuntimeConfig{
			DBPath:         dbPath,
			MCPPort:        mcpPort,
			ImportURL:      importURL,
			ImportToken:    importToken,
			ImportInterval: importInterval,
			NoImport:       noImport,
		}

		return Run(rtCfg)
	},
}

func init() {
	// Logging verbosity
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase verbosity (-v for debug, -vv for trace)")

	// Runtime settings as CLI flags
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "tetralog.db", "path to SQLite database file")
	rootCmd.PersistentFlags().IntVarP(&mcpPort, "port", "p", 8080, "MCP server port (0 for stdio mode)")
	rootCmd.PersistentFlags().StringVar(&importURL, "import-url", "", "base URL of the session export feed")
	rootCmd.PersistentFlags().StringVar(&importToken, "import-token", "", "bearer token for the export feed")
	rootCmd.PersistentFlags().DurationVar(&importInterval, "import-interval", 15*time.Minute, "interval between session imports")

	// Offline mode
	rootCmd.PersistentFlags().BoolVar(&noImport, "no-import", false, "serve the existing database without importing")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
