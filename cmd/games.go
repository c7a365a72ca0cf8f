package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frostline/holidayquest/internal/games"
	"github.com/frostline/holidayquest/internal/ui"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "Browse the game catalog",
}

var gamesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the six games and how each unlocks the next",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), ui.Games(games.All()))
	},
}

func init() {
	gamesCmd.AddCommand(gamesListCmd)
}
