package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/frostline/holidayquest/internal/games"
	"github.com/frostline/holidayquest/internal/progress"
	"github.com/frostline/holidayquest/internal/store"
	"github.com/frostline/holidayquest/internal/ui"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Inspect or adjust a player's progress",
}

var progressShowCmd = &cobra.Command{
	Use:   "show <email>",
	Short: "Show the six game slots of a player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, st, err := setup(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		sess, name, err := sessionFor(cmd, st, args[0])
		if err != nil {
			return err
		}
		gate := progress.NewGate(st, progress.WithLogger(logger))
		slots, sum, err := gate.Dashboard(cmd.Context(), sess)
		if err != nil {
			return err
		}
		width, _ := cmd.Flags().GetInt("width")
		fmt.Fprintln(cmd.OutOrStdout(), ui.Dashboard(name, slots, sum, width))
		return nil
	},
}

var progressCompleteCmd = &cobra.Command{
	Use:   "complete <email> <game> <score>",
	Short: "Record a completion as if the player had submitted it",
	Long: "Record a completion through the same gate the API uses. <game> is a number (1-6) or a slug.\n" +
		"Locked games are refused.",
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, st, err := setup(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		g, err := parseGame(args[1])
		if err != nil {
			return err
		}
		score, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid score %q: %w", args[2], err)
		}
		sess, name, err := sessionFor(cmd, st, args[0])
		if err != nil {
			return err
		}

		gate := progress.NewGate(st, progress.WithLogger(logger))
		res, err := gate.CompleteGame(cmd.Context(), sess, g.Number, score)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s completed %s with %d\n", name, g.Title, res.Record.Score)
		if res.UnlockedGame != 0 {
			if next, err := games.ByNumber(res.UnlockedGame); err == nil {
				fmt.Fprintf(out, "unlocked %s\n", next.Title)
			}
		}
		if res.Certificate != nil {
			fmt.Fprintln(out, ui.Certificate(name, *res.Certificate))
		}
		return nil
	},
}

// sessionFor impersonates the player with the given email.
func sessionFor(cmd *cobra.Command, st *store.Store, email string) (progress.Session, string, error) {
	u, err := st.UserRepo().ByEmail(cmd.Context(), email)
	if err != nil {
		return progress.Session{}, "", fmt.Errorf("user %s: %w", email, err)
	}
	name := u.FullName
	if name == "" {
		name = u.Email
	}
	return progress.Session{UserID: u.ID, Email: u.Email, Name: u.FullName}, name, nil
}

func parseGame(arg string) (games.Game, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		return games.ByNumber(n)
	}
	if g, ok := games.BySlug(games.Slug(arg)); ok {
		return g, nil
	}
	return games.Game{}, fmt.Errorf("no game %q", arg)
}

func init() {
	progressShowCmd.Flags().Int("width", 0, "card width in columns")

	progressCmd.AddCommand(progressShowCmd)
	progressCmd.AddCommand(progressCompleteCmd)
}
