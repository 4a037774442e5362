package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// File - YAML-документ каталога, который редактируют команды add/delete/import
type File struct {
	Tracks []Track `yaml:"tracks"`
}

// NewFile создает пустой документ каталога
func NewFile() *File {
	return &File{
		Tracks: make([]Track, 0),
	}
}

// Default возвращает встроенный каталог
func Default() (*File, error) {
	f := NewFile()
	if err := yaml.Unmarshal(defaultCatalog, f); err != nil {
		return nil, fmt.Errorf("ошибка разбора встроенного каталога: %w", err)
	}
	return f, nil
}

// Load загружает каталог из файла. Отсутствующий или пустой файл дает пустой каталог.
func (f *File) Load(filePath string) error {
	path, err := expandHome(filePath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			*f = *NewFile()
			return nil
		}
		return fmt.Errorf("ошибка чтения файла каталога: %w", err)
	}
	if len(data) == 0 {
		*f = *NewFile()
		return nil
	}
	if err := yaml.Unmarshal(data, f); err != nil {
		return fmt.Errorf("ошибка разбора каталога: %w", err)
	}
	return nil
}

// Save сохраняет каталог в файл
func (f *File) Save(filePath string) error {
	path, err := expandHome(filePath)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("ошибка сериализации каталога: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("ошибка записи файла каталога: %w", err)
	}
	return nil
}

// AddTrack добавляет трек в конец каталога
func (f *File) AddTrack(track Track) error {
	if track.ID == "" {
		return ErrEmptyID
	}
	if _, err := f.TrackByID(track.ID); err == nil {
		return fmt.Errorf("%w: %s", ErrDuplicateID, track.ID)
	}
	f.Tracks = append(f.Tracks, track)
	return nil
}

// TrackByID возвращает трек по ID
func (f *File) TrackByID(id string) (*Track, error) {
	for i := range f.Tracks {
		if f.Tracks[i].ID == id {
			return &f.Tracks[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTrackNotFound, id)
}

// DeleteTrackByID удаляет трек по ID
func (f *File) DeleteTrackByID(id string) error {
	for i := range f.Tracks {
		if f.Tracks[i].ID == id {
			f.Tracks = append(f.Tracks[:i], f.Tracks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrTrackNotFound, id)
}

// Catalog строит неизменяемый каталог из документа
func (f *File) Catalog(opts ...Option) (*Catalog, error) {
	return New(f.Tracks, opts...)
}

func expandHome(filePath string) (string, error) {
	if !strings.HasPrefix(filePath, "~") {
		return filePath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return strings.Replace(filePath, "~", home, 1), nil
}
