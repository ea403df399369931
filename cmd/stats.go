package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lectio/internal/practice"
)

var statsCmd = &cobra.Command{
	Use:   "stats <username>",
	Short: "Show a student's level and recent scores",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		u, err := st.UserRepo().ByUsername(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("find user %q: %w", args[0], err)
		}

		// Reports only read the store; no generation service is needed.
		svc := practice.NewService(practice.Deps{
			Users:    st.UserRepo(),
			Progress: st.ProgressRepo(),
		})
		rep, err := svc.Progress(cmd.Context(), u.ID, limit)
		if err != nil {
			return err
		}

		fmt.Printf("Student:  %s\n", rep.Username)
		fmt.Printf("Level:    %s\n", rep.Level)
		fmt.Printf("Texts:    %d\n", rep.Texts)
		if rep.Texts == 0 {
			fmt.Println("\nNo texts completed yet.")
			return nil
		}
		fmt.Printf("Average:  %.1f%%\n\n", rep.Average)

		fmt.Printf("%-16s  %-28s  %-18s  %6s\n", "Date", "Topic", "Difficulty", "Score")
		fmt.Println(strings.Repeat("─", 74))
		for _, e := range rep.Entries {
			fmt.Printf("%-16s  %-28s  %-18s  %5.1f%%\n",
				e.CreatedAt.Local().Format("2006-01-02 15:04"),
				truncate(e.Topic, 28),
				e.Difficulty,
				e.Score,
			)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 20, "Number of texts to show (0 for all)")
}
