// Package export writes the progress of every player to an xlsx workbook.
package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/frostline/holidayquest/internal/games"
	"github.com/frostline/holidayquest/internal/progress"
	"github.com/frostline/holidayquest/internal/store"
)

// Sheet names.
const (
	SheetProgress     = "Progress"
	SheetTotals       = "Totals"
	SheetCertificates = "Certificates"
)

var (
	progressHeader    = []any{"Email", "Name", "Game #", "Game", "Unlocked", "Completed", "Score", "Completed at"}
	totalsHeader      = []any{"Email", "Name", "Games completed", "Total score", "Average score", "Progress %", "Certificates"}
	certificateHeader = []any{"Email", "Name", "Certificate", "Type", "Total score", "Games completed", "Issued at"}
)

// Workbook builds the export from the store. The caller closes the file.
func Workbook(ctx context.Context, repos store.Repos) (*excelize.File, error) {
	users, err := repos.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	recs, err := repos.Progress.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	certs, err := repos.Certificates.All(ctx)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string][]store.ProgressRecord, len(users))
	for _, r := range recs {
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}
	certCount := make(map[string]int)
	for _, c := range certs {
		certCount[c.UserID]++
	}
	userByID := make(map[string]store.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}

	f := excelize.NewFile()
	w := &writer{f: f}
	f.SetSheetName("Sheet1", SheetProgress)
	f.NewSheet(SheetTotals)
	f.NewSheet(SheetCertificates)

	w.header(SheetProgress, progressHeader)
	w.header(SheetTotals, totalsHeader)
	w.header(SheetCertificates, certificateHeader)

	pRow, tRow := 2, 2
	for _, u := range users {
		ur := byUser[u.ID]
		for _, r := range ur {
			title := ""
			if g, err := games.ByNumber(r.GameNumber); err == nil {
				title = g.Title
			}
			w.row(SheetProgress, pRow, []any{
				u.Email, u.FullName, r.GameNumber, title,
				yesNo(r.Unlocked), yesNo(r.Completed), r.Score, timeCell(r.CompletedAt),
			})
			pRow++
		}

		sum := progress.Summarize(ur)
		w.row(SheetTotals, tRow, []any{
			u.Email, u.FullName, sum.Completed, sum.TotalScore, sum.AverageScore, sum.Percent, certCount[u.ID],
		})
		tRow++
	}

	for i, c := range certs {
		u := userByID[c.UserID]
		w.row(SheetCertificates, i+2, []any{
			u.Email, u.FullName, c.ID, c.Type, c.TotalScore, c.GamesCompleted, c.IssuedAt.UTC().Format(time.DateTime),
		})
	}

	if w.err != nil {
		f.Close()
		return nil, fmt.Errorf("build workbook: %w", w.err)
	}
	return f, nil
}

// Write builds the export and writes it to out.
func Write(ctx context.Context, repos store.Repos, out io.Writer) error {
	f, err := Workbook(ctx, repos)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// writer records the first excelize error so the build loop stays flat.
type writer struct {
	f   *excelize.File
	err error
}

func (w *writer) row(sheet string, n int, values []any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(sheet, cell, &values)
}

func (w *writer) header(sheet string, values []any) {
	w.row(sheet, 1, values)
	if w.err != nil {
		return
	}
	style, err := w.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		w.err = err
		return
	}
	last, err := excelize.CoordinatesToCellName(len(values), 1)
	if err != nil {
		w.err = err
		return
	}
	if w.err = w.f.SetCellStyle(sheet, "A1", last, style); w.err != nil {
		return
	}
	end, _ := excelize.ColumnNumberToName(len(values))
	w.err = w.f.SetColWidth(sheet, "A", end, 18)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func timeCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.DateTime)
}
