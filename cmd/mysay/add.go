package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/hazadus/myworld-soundtrack/internal/metadata"
	"github.com/hazadus/myworld-soundtrack/internal/uploader"
	"github.com/hazadus/myworld-soundtrack/internal/utils"
)

// uploadTimeout ограничивает время загрузки одного файла
const uploadTimeout = 10 * time.Minute

// createAddCommand создает команду add с привязкой к экземпляру приложения
func (app *Application) createAddCommand(ctx context.Context) *cobra.Command {
	var opts uploader.TrackOptions

	cmd := &cobra.Command{
		Use:   "add [file path]",
		Short: "Upload an mp3 file and add it to the catalog",
		Long:  `Upload an mp3 file to S3 storage with progress tracking and add the track to the catalog.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			uploadCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
			defer cancel()
			return app.addTrack(uploadCtx, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVarP(&opts.Moods, "mood", "m", nil, "mood tags, e.g. soft,believing")
	flags.StringSliceVarP(&opts.Playlists, "playlist", "p", nil, "playlist tags, e.g. Love,Believe")
	flags.StringVar(&opts.ID, "id", "", "track ID (generated from the title by default)")
	flags.StringVar(&opts.Title, "title", "", "track title (taken from ID3 tags by default)")
	flags.StringVar(&opts.LyricSnippet, "lyric", "", "lyric snippet (first lyrics line by default)")
	flags.BoolVar(&opts.Featured, "featured", false, "mark the track as featured")
	flags.IntVar(&opts.FeaturedOrder, "order", 0, "position among featured tracks")
	_ = cmd.MarkFlagRequired("mood")
	_ = cmd.MarkFlagRequired("playlist")

	return cmd
}

func (app *Application) addTrack(ctx context.Context, filePath string, opts uploader.TrackOptions) error {
	storage, err := app.newStorage(app.Config)
	if err != nil {
		return fmt.Errorf("ошибка создания S3 uploader: %w", err)
	}

	stat, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("файл не найден: %s", filePath)
	}

	fmt.Printf("📤 Загружаем файл в S3:\n")
	fmt.Printf("   Файл: %s\n", filePath)
	fmt.Printf("   Размер: %s\n", utils.FormatFileSize(stat.Size()))
	fmt.Printf("   Бакет: %s\n", app.Config.AwsBucketName)
	fmt.Println()

	bar := progressbar.DefaultBytes(stat.Size(), "📊 Загрузка")
	service := uploader.NewService(storage, metadata.NewExtractor(), app.CatalogFile, app.Logger)

	result, err := service.Upload(ctx, filePath, opts, func(bytesRead int64) {
		_ = bar.Set64(bytesRead)
	})
	_ = bar.Finish()
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("операция отменена: %w", ctx.Err())
		}
		return fmt.Errorf("ошибка загрузки файла: %w", err)
	}

	if err := app.SaveCatalog(); err != nil {
		return fmt.Errorf("ошибка сохранения каталога: %w", err)
	}

	fmt.Printf("\n✅ Файл успешно загружен в S3!\n")
	fmt.Printf("   URL: %s\n", result.Track.AudioURL)
	fmt.Printf("   ID: %s\n", result.Track.ID)
	fmt.Printf("   Название: %s\n", result.Track.Title)
	fmt.Printf("   Длительность: %s\n", utils.FormatDuration(result.Info.Duration))
	fmt.Printf("\n📦 Трек добавлен в %s\n", app.Config.CatalogFile)
	return nil
}
