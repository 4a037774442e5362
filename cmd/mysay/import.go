package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hazadus/myworld-soundtrack/internal/catalog"
)

// createImportCommand создает команду import
func (app *Application) createImportCommand() *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import [csv file]",
		Short: "Import tracks from a CSV export",
		Long:  `Import tracks from a soundtracks CSV export. Tracks with an existing ID are skipped.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.importCSV(args[0], replace)
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "replace the whole catalog with the imported tracks")

	return cmd
}

func (app *Application) importCSV(filePath string, replace bool) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	tracks, err := catalog.ImportCSV(file)
	if err != nil {
		return err
	}

	target := app.CatalogFile
	if replace {
		target = catalog.NewFile()
	}

	bar := progressbar.Default(int64(len(tracks)), "📥 Импорт")
	var added, skipped int
	for _, t := range tracks {
		switch err := target.AddTrack(t); {
		case err == nil:
			added++
		case errors.Is(err, catalog.ErrDuplicateID), errors.Is(err, catalog.ErrEmptyID):
			skipped++
			app.Logger.Warn("Трек пропущен при импорте", zap.String("track_id", t.ID), zap.Error(err))
		default:
			return err
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	*app.CatalogFile = *target
	if err := app.SaveCatalog(); err != nil {
		return fmt.Errorf("ошибка сохранения каталога: %w", err)
	}

	fmt.Printf("\n✅ Импортировано треков: %d, пропущено: %d\n", added, skipped)
	fmt.Printf("📦 Каталог сохранен в %s\n", app.Config.CatalogFile)
	return nil
}
