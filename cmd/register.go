package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lectio/internal/auth"
	"github.com/abhisek/lectio/internal/leveling"
	"github.com/abhisek/lectio/internal/store"
)

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Create a student account",
	Long: "Create a student account. The password is taken from --password, " +
		"then LECTIO_PASSWORD, then the first line of standard input.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = os.Getenv("LECTIO_PASSWORD")
		}
		if password == "" {
			fmt.Fprint(os.Stderr, "Password: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}

		st, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		policy := leveling.PolicyFromEnv()
		cfg := auth.DefaultConfig()
		cfg.StartLevel = policy.MinLevel
		if lvl, _ := cmd.Flags().GetString("level"); lvl != "" {
			l, err := leveling.ParseLevel(lvl)
			if err != nil {
				return err
			}
			cfg.StartLevel = policy.Clamp(l)
		}

		u, err := auth.NewService(st.UserRepo(), cfg).Register(cmd.Context(), args[0], password)
		switch {
		case errors.Is(err, store.ErrDuplicateUser):
			return fmt.Errorf("username %q is already registered", args[0])
		case err != nil:
			return err
		}
		fmt.Printf("Registered %s (id %d) at level %s\n", u.Username, u.ID, leveling.Level(u.Level))
		return nil
	},
}

func init() {
	registerCmd.Flags().String("password", "", "Account password")
	registerCmd.Flags().String("level", "", "Starting level, number or label (default: lowest)")
}
