package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewWithoutFile(t *testing.T) {
	log, err := New("debug", "")
	if err != nil {
		t.Fatalf("Ошибка создания логгера: %v", err)
	}
	if log.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("Без файла логгер должен быть отключен")
	}
}

func TestNewWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mysay.log")

	log, err := New("warn", path)
	if err != nil {
		t.Fatalf("Ошибка создания логгера: %v", err)
	}
	log.Info("не попадет в файл")
	log.Warn("Повторная попытка воспроизведения")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Ошибка чтения файла логов: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("Ожидалась одна запись, получено %d: %s", len(lines), data)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Запись должна быть в формате JSON: %v", err)
	}
	if entry["level"] != "WARN" {
		t.Errorf("Ожидался уровень WARN, получено %v", entry["level"])
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("Запись должна содержать timestamp")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"":      zapcore.InfoLevel,
		"trace": zapcore.InfoLevel,
	}
	for input, expected := range tests {
		if got := ParseLevel(input); got != expected {
			t.Errorf("ParseLevel(%q) = %v; ожидалось %v", input, got, expected)
		}
	}
}
