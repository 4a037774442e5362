package metadata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Ошибка создания тестового файла: %v", err)
	}
	return path
}

func TestTagsFromFileWithoutTags(t *testing.T) {
	path := writeFile(t, "Artist - Same Sky.mp3", []byte("fake content"))

	tags := NewExtractor().TagsFromFile(path)

	if tags.Artist != "Artist" {
		t.Errorf("Ожидался Artist: Artist, получено: %s", tags.Artist)
	}
	if tags.Title != "Same Sky" {
		t.Errorf("Ожидался Title: Same Sky, получено: %s", tags.Title)
	}
}

func TestTagsFromCorruptedFile(t *testing.T) {
	path := writeFile(t, "Unknown - Track.mp3", []byte{0x00, 0x01, 0x02, 0x03, 0xFF, 0xFE, 0xFD})

	tags := NewExtractor().TagsFromFile(path)

	if tags.Artist != "Unknown" || tags.Title != "Track" {
		t.Errorf("Ожидались теги из имени файла, получено: %+v", tags)
	}
}

func TestTagsFromName(t *testing.T) {
	tests := []struct {
		source string
		artist string
		title  string
	}{
		{"/path/to/Artist - Title.mp3", "Artist", "Title"},
		{"/path/to/Spark Still Rise.mp3", "", "Spark Still Rise"},
		{"/path/to/Artist - Album - Title.mp3", "Artist", "Album - Title"},
	}

	extractor := NewExtractor()
	for _, test := range tests {
		// файла нет, поэтому теги берутся из имени
		tags := extractor.TagsFromFile(test.source)
		if tags.Artist != test.artist || tags.Title != test.title {
			t.Errorf("Для %s ожидалось %q/%q, получено %q/%q", test.source, test.artist, test.title, tags.Artist, tags.Title)
		}
	}
}

func TestTagsFromReader(t *testing.T) {
	path := writeFile(t, "Test - Song.mp3", []byte("test content"))
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Ошибка открытия файла: %v", err)
	}
	defer file.Close()

	tags := NewExtractor().TagsFromReader(file, path)

	if tags.Artist != "Test" || tags.Title != "Song" {
		t.Errorf("Ожидалось Test/Song, получено %s/%s", tags.Artist, tags.Title)
	}
}

func TestReadInvalidMP3(t *testing.T) {
	path := writeFile(t, "test.mp3", []byte("test content for file info"))

	info, err := NewExtractor().Read(path)
	if err == nil {
		t.Fatal("Ожидалась ошибка для некорректного MP3 файла")
	}
	if info != nil {
		t.Error("info должен быть nil при ошибке")
	}
	if !strings.Contains(err.Error(), "ошибка получения длительности") {
		t.Errorf("Неожиданное сообщение об ошибке: %v", err)
	}
}

func TestReadNonExistentFile(t *testing.T) {
	_, err := NewExtractor().Read("/non/existent/file.mp3")

	if err == nil || !strings.Contains(err.Error(), "ошибка получения информации о файле") {
		t.Errorf("Неожиданная ошибка: %v", err)
	}
}

func TestDuration(t *testing.T) {
	extractor := NewExtractor()

	path := writeFile(t, "test.mp3", []byte("test content"))
	duration, err := extractor.Duration(path)
	if err == nil || !strings.Contains(err.Error(), "ошибка декодирования MP3") {
		t.Errorf("Ожидалась ошибка декодирования, получено: %v", err)
	}
	if duration != 0 {
		t.Errorf("Ожидалась длительность 0 при ошибке, получено: %v", duration)
	}

	if _, err := extractor.Duration("/non/existent/file.mp3"); err == nil || !strings.Contains(err.Error(), "ошибка открытия файла") {
		t.Errorf("Ожидалась ошибка открытия файла, получено: %v", err)
	}
}

func TestFirstLine(t *testing.T) {
	tests := map[string]string{
		"":                              "",
		"\n\n  Delete the post\nline 2": "Delete the post",
		"single":                        "single",
	}
	for input, expected := range tests {
		if got := FirstLine(input); got != expected {
			t.Errorf("FirstLine(%q) = %q; ожидалось %q", input, got, expected)
		}
	}
}
