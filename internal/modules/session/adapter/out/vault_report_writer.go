package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"efforts/internal/modules/session/domain"
	sessionout "efforts/internal/modules/session/port/out"
	"efforts/internal/platform/markdown"
	"efforts/internal/platform/slug"
)

const (
	blockStart = "<!-- efforts:report:start -->"
	blockEnd   = "<!-- efforts:report:end -->"
)

// VaultReportWriter writes exports as markdown notes inside the vault.
// Regenerating a note replaces only the managed block, so text written
// around it survives.
type VaultReportWriter struct {
	vaultPath string
}

func NewVaultReportWriter(vaultPath string) sessionout.ReportWriter {
	return &VaultReportWriter{vaultPath: vaultPath}
}

func (w *VaultReportWriter) WriteDaily(_ context.Context, date time.Time, sessions []domain.Session, report string) (string, error) {
	dir := filepath.Join(w.vaultPath, "reports", date.Format("2006"), date.Format("01"))
	path := filepath.Join(dir, date.Format("2006-01-02")+".md")

	minutes, points := 0, 0
	for _, s := range sessions {
		if s.Status == domain.StatusCompleted {
			minutes += s.ActualDuration
			points += s.Points()
		}
	}
	meta := map[string]any{
		"schema_version": domain.SchemaVersion,
		"type":           "daily-report",
		"date":           date.Format("2006-01-02"),
		"sessions":       len(sessions),
		"focus_minutes":  minutes,
		"points":         points,
	}
	if err := w.write(dir, path, meta, report); err != nil {
		return "", err
	}
	return path, nil
}

func (w *VaultReportWriter) WriteSession(_ context.Context, session domain.Session, report string) (string, error) {
	start := session.StartTime
	dir := filepath.Join(w.vaultPath, "sessions", start.Format("2006"), start.Format("01"), start.Format("02"))
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.md", start.Format("150405"), slug.Make(session.Title())))

	meta := map[string]any{
		"schema_version":   domain.SchemaVersion,
		"type":             "session",
		"id":               session.ID,
		"status":           string(session.Status),
		"started_at":       start.Format(time.RFC3339),
		"planned_minutes":  session.PlannedDuration,
		"actual_minutes":   session.ActualDuration,
		"overtime_minutes": session.Overtime,
		"points":           session.Points(),
	}
	if session.EndTime != nil {
		meta["ended_at"] = session.EndTime.Format(time.RFC3339)
	}
	if session.Quality != domain.QualityNone {
		meta["quality"] = string(session.Quality)
	}
	if err := w.write(dir, path, meta, report); err != nil {
		return "", err
	}
	return path, nil
}

func (w *VaultReportWriter) write(dir, path string, meta map[string]any, report string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	body := ""
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		prevMeta, prevBody, splitErr := markdown.Split(string(existing))
		if splitErr != nil {
			return fmt.Errorf("parse existing report %s: %w", path, splitErr)
		}
		for k, v := range prevMeta {
			if _, ok := meta[k]; !ok {
				meta[k] = v
			}
		}
		body = prevBody
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("read existing report: %w", err)
	}

	rendered, err := markdown.Render(meta, markdown.ReplaceBlock(body, blockStart, blockEnd, report))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
