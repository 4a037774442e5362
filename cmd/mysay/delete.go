package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hazadus/myworld-soundtrack/internal/uploader"
)

// createDeleteCommand создает команду delete с привязкой к экземпляру приложения
func (app *Application) createDeleteCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a track by ID",
		Long:  `Delete a track from the catalog and its file from S3 storage.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.deleteTrack(ctx, args[0])
		},
	}
}

func (app *Application) deleteTrack(ctx context.Context, id string) error {
	track, err := app.CatalogFile.TrackByID(id)
	if err != nil {
		return fmt.Errorf("ошибка поиска трека: %w", err)
	}

	fmt.Printf("🗑️  Удаляем трек: %s - %s\n", track.ID, track.Title)

	storage, err := app.newStorage(app.Config)
	if err != nil {
		// Без хранилища трек удаляется только из каталога
		fmt.Printf("⚠️  Предупреждение: файл не удален из S3: %v\n", err)
		app.Logger.Warn("Хранилище недоступно, удаляется только запись каталога",
			zap.String("track_id", id), zap.Error(err))
		if err := app.CatalogFile.DeleteTrackByID(id); err != nil {
			return err
		}
	} else {
		service := uploader.NewService(storage, nil, app.CatalogFile, app.Logger)
		if _, err := service.Delete(ctx, id); err != nil {
			return fmt.Errorf("ошибка удаления трека: %w", err)
		}
	}

	if err := app.SaveCatalog(); err != nil {
		return fmt.Errorf("ошибка сохранения каталога: %w", err)
	}

	fmt.Println("✅ Трек успешно удален из каталога")
	return nil
}
