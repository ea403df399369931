package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lectio/internal/app"
	"github.com/abhisek/lectio/internal/auth"
)

var practiceCmd = &cobra.Command{
	Use:     "practice",
	Aliases: []string{"play"},
	Short:   "Start an interactive reading session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPractice(cmd)
	},
}

func init() {
	practiceCmd.Flags().StringP("user", "u", "", "Pre-fill the sign-in username")
}

// runPractice opens the store, wires the pipeline and launches the TUI.
func runPractice(cmd *cobra.Command) error {
	st, err := openStore(cmd)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	svc, err := buildServices(cmd.Context(), st, auth.DefaultConfig())
	if err != nil {
		return err
	}

	user, _ := cmd.Flags().GetString("user")
	return app.Run(app.Options{
		Auth:     svc.auth,
		Practice: svc.practice,
		Username: user,
	})
}
