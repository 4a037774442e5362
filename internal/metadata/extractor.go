// Package metadata читает теги и длительность mp3-файлов саундтреков
package metadata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/mp3"
)

// Tags - теги, которые нужны каталогу
type Tags struct {
	Title  string
	Artist string
	Genre  string
	Lyrics string
}

// Info - теги, размер и длительность файла
type Info struct {
	Tags
	Size     int64
	Duration time.Duration
}

// Extractor извлекает метаданные из аудио файлов
type Extractor struct{}

// NewExtractor создает новый экстрактор метаданных
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Read проверяет, что файл декодируется как MP3, и собирает его метаданные
func (e *Extractor) Read(filePath string) (*Info, error) {
	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения информации о файле: %w", err)
	}

	duration, err := e.Duration(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения длительности: %w", err)
	}

	return &Info{
		Tags:     e.TagsFromFile(filePath),
		Size:     stat.Size(),
		Duration: duration,
	}, nil
}

// TagsFromReader читает ID3-теги. Без тегов название берется из имени файла source.
func (e *Extractor) TagsFromReader(reader io.ReadSeeker, source string) Tags {
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return tagsFromName(source)
	}

	m, err := tag.ReadFrom(reader)
	if err != nil {
		return tagsFromName(source)
	}

	tags := Tags{
		Title:  strings.TrimSpace(m.Title()),
		Artist: strings.TrimSpace(m.Artist()),
		Genre:  strings.TrimSpace(m.Genre()),
		Lyrics: strings.TrimSpace(m.Lyrics()),
	}
	if tags.Title == "" {
		fallback := tagsFromName(source)
		tags.Title = fallback.Title
		if tags.Artist == "" {
			tags.Artist = fallback.Artist
		}
	}
	return tags
}

// TagsFromFile читает теги файла
func (e *Extractor) TagsFromFile(filePath string) Tags {
	file, err := os.Open(filePath)
	if err != nil {
		return tagsFromName(filePath)
	}
	defer file.Close()

	return e.TagsFromReader(file, filePath)
}

// Duration декодирует MP3 и возвращает его длительность
func (e *Extractor) Duration(filePath string) (time.Duration, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	streamer, format, err := mp3.Decode(file)
	if err != nil {
		return 0, fmt.Errorf("ошибка декодирования MP3: %w", err)
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}

// FirstLine возвращает первую непустую строку текста песни
func FirstLine(lyrics string) string {
	for _, line := range strings.Split(lyrics, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// tagsFromName разбирает имя файла вида "Artist - Title"
func tagsFromName(source string) Tags {
	fileName := filepath.Base(source)
	name := strings.TrimSuffix(fileName, filepath.Ext(fileName))

	if artist, title, ok := strings.Cut(name, " - "); ok {
		return Tags{
			Artist: strings.TrimSpace(artist),
			Title:  strings.TrimSpace(title),
		}
	}
	return Tags{Title: name}
}
