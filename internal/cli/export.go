package cli

import (
	"context"
	"encoding/csv"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/candidhq/intake/internal/core/config"
	"github.com/candidhq/intake/internal/core/domain"
	"github.com/candidhq/intake/internal/infra/storage"
	"github.com/candidhq/intake/internal/infra/storage/postgres"
)

var exportStatus string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export applications as CSV to stdout",
	Run:   runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportStatus, "status", "", "only export applications with this status")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	status := domain.ApplicationStatus(exportStatus)
	if status != "" && !domain.ValidStatus(status) {
		slog.Error("Unknown status", "status", exportStatus)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	repo := postgres.NewApplicationRepo(db)
	apps, err := repo.List(ctx, storage.ListFilter{Status: status})
	if err != nil {
		slog.Error("Failed to list applications", "error", err)
		os.Exit(1)
	}

	w := csv.NewWriter(os.Stdout)
	_ = w.Write([]string{"id", "full_name", "email", "phone", "country", "position", "channels", "status", "created_at"})
	for _, app := range apps {
		_ = w.Write([]string{
			app.ID, app.FullName, app.Email, app.Phone, app.CountryISO,
			app.Position, app.Channels, string(app.Status),
			app.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}
	w.Flush()
}
