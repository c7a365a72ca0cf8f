package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/frostline/holidayquest/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write progress, totals and certificates to an Excel workbook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, st, err := setup(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		path, _ := cmd.Flags().GetString("out")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := export.Write(cmd.Context(), st.Repos(), f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", path, err)
		}
		logger.Info("export written", "path", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "holidayquest.xlsx", "workbook to write")
}
