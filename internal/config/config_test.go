package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// clearEnv сбрасывает переменные окружения, которые читает конфигурация
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvCatalogFile, EnvLogLevel, EnvLogFile, EnvBucket, EnvAccessKey, EnvSecretKey, EnvRegion, EnvEndpoint} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := yaml.Marshal(v)
	if err != nil {
		t.Fatalf("Ошибка сериализации конфигурации: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Ошибка записи файла конфигурации: %v", err)
	}
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	clearEnv(t)
	testConfig := Config{
		CatalogFile:   "/tmp/catalog.yaml",
		RulesFile:     "/tmp/rules.yaml",
		ProfileFile:   "/tmp/profile.yaml",
		Volume:        0.4,
		ThemeTrackID:  "THM_2",
		ThemeEnabled:  false,
		StrictTags:    true,
		LogLevel:      "debug",
		LogFile:       "/tmp/mysay.log",
		AwsBucketName: "test-bucket",
		AwsAccessKey:  "test-access-key",
		AwsSecretKey:  "test-secret-key",
		AwsRegion:     "us-east-2",
		AwsEndpoint:   "https://s3.amazonaws.com",
	}

	loadedConfig, err := LoadConfig(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	if *loadedConfig != testConfig {
		t.Errorf("Ожидалась конфигурация %+v, получено %+v", testConfig, *loadedConfig)
	}
	if !loadedConfig.HasStorage() {
		t.Error("Хранилище должно считаться настроенным")
	}
}

func TestDefaultConfig(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, map[string]string{"aws_bucket_name": "test-bucket"})

	loadedConfig, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	home, _ := os.UserHomeDir()
	if loadedConfig.CatalogFile != filepath.Join(home, ".mysay_catalog.yaml") {
		t.Errorf("Ожидался файл каталога по умолчанию, получено: %s", loadedConfig.CatalogFile)
	}
	if loadedConfig.Volume != 1 {
		t.Errorf("Ожидалась громкость 1, получено: %v", loadedConfig.Volume)
	}
	if !loadedConfig.ThemeEnabled || loadedConfig.ThemeTrackID != DefaultThemeTrackID {
		t.Errorf("Ожидалась включенная тема %s, получено: %v/%s", DefaultThemeTrackID, loadedConfig.ThemeEnabled, loadedConfig.ThemeTrackID)
	}
	if loadedConfig.LogLevel != "info" {
		t.Errorf("Ожидался уровень info, получено: %s", loadedConfig.LogLevel)
	}
	if loadedConfig.HasStorage() {
		t.Error("Без ключей хранилище не должно считаться настроенным")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	clearEnv(t)

	loadedConfig, err := LoadConfig(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("Отсутствующий файл не должен давать ошибку: %v", err)
	}
	if loadedConfig.Volume != 1 || loadedConfig.ThemeTrackID != DefaultThemeTrackID {
		t.Errorf("Ожидалась конфигурация по умолчанию, получено %+v", loadedConfig)
	}
}

func TestEnvVarOverride(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, Config{
		CatalogFile:   "/tmp/file-catalog.yaml",
		AwsBucketName: "default-bucket",
		AwsAccessKey:  "default-key",
		AwsRegion:     "us-west-1",
		LogLevel:      "info",
		Volume:        1,
	})

	t.Setenv(EnvBucket, "env-bucket")
	t.Setenv(EnvAccessKey, "env-key")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvCatalogFile, "/tmp/env-catalog.yaml")

	loadedConfig, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"AwsBucketName", loadedConfig.AwsBucketName, "env-bucket"},
		{"AwsAccessKey", loadedConfig.AwsAccessKey, "env-key"},
		{"AwsRegion", loadedConfig.AwsRegion, "us-west-1"},
		{"LogLevel", loadedConfig.LogLevel, "warn"},
		{"CatalogFile", loadedConfig.CatalogFile, "/tmp/env-catalog.yaml"},
	}
	for _, test := range tests {
		if test.got != test.expected {
			t.Errorf("Ожидался %s: %s, получено: %s", test.name, test.expected, test.got)
		}
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	envPath := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envPath, []byte("MYSAY_LOG_FILE=/tmp/from-env.log\n"), 0644); err != nil {
		t.Fatalf("Ошибка записи .env: %v", err)
	}
	// godotenv не перезаписывает заданные переменные, поэтому снимаем пустое значение
	os.Unsetenv(EnvLogFile)

	if err := LoadEnv(envPath, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("Ошибка загрузки .env: %v", err)
	}
	defer os.Unsetenv(EnvLogFile)

	loadedConfig, err := LoadConfig(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}
	if loadedConfig.LogFile != "/tmp/from-env.log" {
		t.Errorf("Ожидался файл лога из .env, получено: %s", loadedConfig.LogFile)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "invalid_config.yaml")
	invalidYAML := `aws_bucket_name: "test-bucket"
invalid_field: [unclosed array
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("Ошибка записи файла конфигурации: %v", err)
	}

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("Ожидалась ошибка при загрузке некорректного YAML")
	}
	if !strings.Contains(err.Error(), "yaml") {
		t.Errorf("Неожиданное сообщение об ошибке: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{"по умолчанию", func(c *Config) {}, false},
		{"громкость больше 1", func(c *Config) { c.Volume = 1.5 }, true},
		{"отрицательная громкость", func(c *Config) { c.Volume = -0.1 }, true},
		{"тишина", func(c *Config) { c.Volume = 0 }, false},
		{"неизвестный уровень", func(c *Config) { c.LogLevel = "trace" }, true},
		{"пустой каталог", func(c *Config) { c.CatalogFile = "" }, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := Default()
			test.modify(c)
			err := c.Validate()
			if (err != nil) != test.wantErr {
				t.Errorf("Validate() = %v, ожидалась ошибка: %v", err, test.wantErr)
			}
		})
	}
}

func TestLoadConfigWithTilde(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, map[string]string{
		"catalog_file": "~/custom-catalog.yaml",
		"log_file":     "~/logs/mysay.log",
	})

	loadedConfig, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	home, _ := os.UserHomeDir()
	if loadedConfig.CatalogFile != filepath.Join(home, "custom-catalog.yaml") {
		t.Errorf("Ожидался путь с раскрытой тильдой, получено: %s", loadedConfig.CatalogFile)
	}
	if loadedConfig.LogFile != filepath.Join(home, "logs", "mysay.log") {
		t.Errorf("Ожидался путь лога с раскрытой тильдой, получено: %s", loadedConfig.LogFile)
	}
}
