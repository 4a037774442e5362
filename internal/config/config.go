// Package config содержит функции для загрузки конфигурации приложения
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Значения по умолчанию
const (
	DefaultConfigFile   = "~/.mysay"
	DefaultCatalogFile  = "~/.mysay_catalog.yaml"
	DefaultProfileFile  = "~/.mysay_profile.yaml"
	DefaultThemeTrackID = "THM_1"
	DefaultLogLevel     = "info"
)

// Переменные окружения, переопределяющие файл конфигурации
const (
	EnvCatalogFile = "MYSAY_CATALOG_FILE"
	EnvLogLevel    = "MYSAY_LOG_LEVEL"
	EnvLogFile     = "MYSAY_LOG_FILE"
	EnvBucket      = "MYSAY_BUCKET"
	EnvAccessKey   = "AWS_ACCESS_KEY_ID"
	EnvSecretKey   = "AWS_SECRET_ACCESS_KEY"
	EnvRegion      = "AWS_REGION"
	EnvEndpoint    = "AWS_ENDPOINT"
)

// Config структура для хранения конфигурации приложения
type Config struct {
	CatalogFile string `yaml:"catalog_file"`
	RulesFile   string `yaml:"rules_file"` // Пусто - встроенная таблица правил
	ProfileFile string `yaml:"profile_file"`

	Volume       float64 `yaml:"volume"`
	ThemeTrackID string  `yaml:"theme_track_id"`
	ThemeEnabled bool    `yaml:"theme_enabled"`
	StrictTags   bool    `yaml:"strict_tags"` // Точное совпадение тегов вместо поиска подстроки

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	AwsBucketName string `yaml:"aws_bucket_name"`
	AwsAccessKey  string `yaml:"aws_access_key"`
	AwsSecretKey  string `yaml:"aws_secret_key"`
	AwsRegion     string `yaml:"aws_region"`
	AwsEndpoint   string `yaml:"aws_endpoint"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		CatalogFile:  DefaultCatalogFile,
		ProfileFile:  DefaultProfileFile,
		Volume:       1,
		ThemeTrackID: DefaultThemeTrackID,
		ThemeEnabled: true,
		LogLevel:     DefaultLogLevel,
	}
}

// LoadEnv загружает переменные из .env-файлов, если они есть.
// Уже заданные переменные окружения не перезаписываются.
func LoadEnv(files ...string) error {
	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("ошибка чтения %s: %w", f, err)
		}
	}
	return nil
}

// LoadConfig загружает конфигурацию приложения из указанного файла.
// Отсутствующий файл означает конфигурацию по умолчанию.
func LoadConfig(filePath string) (*Config, error) {
	config := Default()

	path, err := ExpandHome(filePath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, err
		}
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	for _, p := range []*string{&config.CatalogFile, &config.RulesFile, &config.ProfileFile, &config.LogFile} {
		if *p, err = ExpandHome(*p); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("громкость должна быть в диапазоне от 0 до 1, получено %v", c.Volume)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("неизвестный уровень логирования: %q", c.LogLevel)
	}
	if c.CatalogFile == "" {
		return errors.New("не задан файл каталога")
	}
	return nil
}

// HasStorage сообщает, настроено ли хранилище для загрузки треков
func (c *Config) HasStorage() bool {
	return c.AwsBucketName != "" && c.AwsAccessKey != "" && c.AwsSecretKey != ""
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		EnvCatalogFile: &c.CatalogFile,
		EnvLogLevel:    &c.LogLevel,
		EnvLogFile:     &c.LogFile,
		EnvBucket:      &c.AwsBucketName,
		EnvAccessKey:   &c.AwsAccessKey,
		EnvSecretKey:   &c.AwsSecretKey,
		EnvRegion:      &c.AwsRegion,
		EnvEndpoint:    &c.AwsEndpoint,
	}
	for name, field := range overrides {
		if value := os.Getenv(name); value != "" {
			*field = value
		}
	}
}

// ExpandHome раскрывает ведущую тильду в пути
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return strings.Replace(path, "~", home, 1), nil
}
