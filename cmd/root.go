package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/lectio/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "lectio",
	Short: "Adaptive reading-comprehension trainer",
	Long: "Lectio generates reading passages on topics you choose, asks comprehension " +
		"questions about them and adapts the difficulty to how well you read.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPractice(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "SQLite database file, or postgres URL with --db-driver=postgres (overrides LECTIO_DB)")
	rootCmd.PersistentFlags().String("db-driver", "", "Database backend: sqlite or postgres (overrides LECTIO_DB_DRIVER)")
	rootCmd.Flags().StringP("user", "u", "", "Pre-fill the sign-in username")

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// openStore opens the database selected by --db-driver/--db, falling back
// to LECTIO_DB_DRIVER, LECTIO_DATABASE_URL and the default SQLite path.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	driver, _ := cmd.Flags().GetString("db-driver")
	if driver == "" {
		driver = envOr("LECTIO_DB_DRIVER", string(store.DriverSQLite))
	}
	dsn, _ := cmd.Flags().GetString("db")

	switch store.Driver(driver) {
	case store.DriverPostgres:
		if dsn == "" {
			dsn = envOr("LECTIO_DATABASE_URL", "")
		}
	default:
		if dsn == "" {
			p, err := store.DefaultDBPath()
			if err != nil {
				return nil, err
			}
			dsn = p
		} else if err := store.EnsureDir(dsn); err != nil {
			return nil, err
		}
	}
	return store.OpenDriver(cmd.Context(), store.Driver(driver), dsn)
}
