package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/hazadus/myworld-soundtrack/internal/audio"
	"github.com/hazadus/myworld-soundtrack/internal/catalog"
	"github.com/hazadus/myworld-soundtrack/internal/config"
	"github.com/hazadus/myworld-soundtrack/internal/logger"
	"github.com/hazadus/myworld-soundtrack/internal/player"
	"github.com/hazadus/myworld-soundtrack/internal/recommend"
	"github.com/hazadus/myworld-soundtrack/internal/s3"
	"github.com/hazadus/myworld-soundtrack/internal/uploader"
)

// Application содержит общее состояние команд
type Application struct {
	Config      *config.Config
	CatalogFile *catalog.File
	Logger      *zap.Logger

	// newStorage создает хранилище треков; в тестах подменяется
	newStorage func(cfg *config.Config) (uploader.Storage, error)
	// newDevice создает устройство воспроизведения
	newDevice func(logger *zap.Logger) audio.Device
}

// NewApplication загружает каталог и собирает приложение
func NewApplication(cfg *config.Config, log *zap.Logger) (*Application, error) {
	file, err := loadCatalogFile(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}
	return &Application{
		Config:      cfg,
		CatalogFile: file,
		Logger:      log,
		newStorage:  newS3Storage,
		newDevice:   newPlayerDevice,
	}, nil
}

// loadCatalogFile читает каталог пользователя. Без файла используется встроенный каталог.
func loadCatalogFile(path string) (*catalog.File, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return catalog.Default()
	}

	file := catalog.NewFile()
	if err := file.Load(path); err != nil {
		return nil, err
	}
	return file, nil
}

func newS3Storage(cfg *config.Config) (uploader.Storage, error) {
	if !cfg.HasStorage() {
		return nil, errors.New("хранилище не настроено: задайте aws_bucket_name, aws_access_key и aws_secret_key")
	}
	return s3.NewUploader(s3.Config{
		Region:     cfg.AwsRegion,
		AccessKey:  cfg.AwsAccessKey,
		SecretKey:  cfg.AwsSecretKey,
		Endpoint:   cfg.AwsEndpoint,
		BucketName: cfg.AwsBucketName,
	})
}

func newPlayerDevice(log *zap.Logger) audio.Device {
	return player.New(log)
}

// SaveCatalog сохраняет каталог в файл из конфигурации
func (app *Application) SaveCatalog() error {
	return app.CatalogFile.Save(app.Config.CatalogFile)
}

// Catalog строит каталог для запросов
func (app *Application) Catalog() (*catalog.Catalog, error) {
	var opts []catalog.Option
	if app.Config.StrictTags {
		opts = append(opts, catalog.WithExactTags())
	}
	return app.CatalogFile.Catalog(opts...)
}

// Matcher создает подборщик с правилами из конфигурации
func (app *Application) Matcher(cat *catalog.Catalog) (*recommend.Matcher, error) {
	rules := recommend.DefaultRules()
	if app.Config.RulesFile != "" {
		var err error
		if rules, err = recommend.LoadRules(app.Config.RulesFile); err != nil {
			return nil, err
		}
	}
	return recommend.NewMatcher(cat, rules), nil
}

// NewManager создает менеджер воспроизведения с громкостью и темой из конфигурации
func (app *Application) NewManager(cat *catalog.Catalog) *audio.Manager {
	opts := []audio.Option{audio.WithVolume(app.Config.Volume)}
	if theme, ok := cat.ByID(app.Config.ThemeTrackID); ok {
		opts = append(opts, audio.WithTheme(theme, app.Config.ThemeEnabled))
	} else {
		app.Logger.Warn("Трек музыкальной темы не найден в каталоге",
			zap.String("track_id", app.Config.ThemeTrackID))
	}
	return audio.NewManager(app.newDevice(app.Logger), app.Logger, opts...)
}

func main() {
	if err := config.LoadEnv(".env"); err != nil {
		log.Fatalf("Ошибка загрузки .env: %v", err)
	}

	cfg, err := config.LoadConfig(config.DefaultConfigFile)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	zapLogger, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("Ошибка создания логгера: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	app, err := NewApplication(cfg, zapLogger)
	if err != nil {
		log.Fatalf("Ошибка загрузки каталога: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.createRootCommand(ctx).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
