// Package uploader добавляет mp3-файлы в хранилище и каталог саундтреков
package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/hazadus/myworld-soundtrack/internal/catalog"
	"github.com/hazadus/myworld-soundtrack/internal/metadata"
)

// KeyPrefix - каталог бакета, в котором лежат саундтреки
const KeyPrefix = "myworld_soundtrack/"

// maxInitials - сколько первых букв слов названия попадает в идентификатор
const maxInitials = 6

// Storage - хранилище файлов
type Storage interface {
	UploadFile(ctx context.Context, reader io.Reader, key string) (string, error)
	DeleteFile(ctx context.Context, key string) error
	KeyFromURL(rawURL string) (string, error)
}

// Inspector читает метаданные mp3-файла
type Inspector interface {
	Read(filePath string) (*metadata.Info, error)
}

// TrackOptions - поля трека, которые задаются вручную
type TrackOptions struct {
	ID            string // Пусто - по первым буквам названия
	Title         string // Пусто - из тегов файла
	Moods         []string
	Playlists     []string
	LyricSnippet  string // Пусто - первая строка текста из тегов
	Featured      bool
	FeaturedOrder int
}

// Result содержит результат загрузки
type Result struct {
	Track catalog.Track
	Info  *metadata.Info
	Key   string
}

// Service управляет процессом загрузки файлов
type Service struct {
	storage   Storage
	inspector Inspector
	catalog   *catalog.File
	logger    *zap.Logger
}

// NewService создает новый сервис загрузки
func NewService(storage Storage, inspector Inspector, file *catalog.File, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		storage:   storage,
		inspector: inspector,
		catalog:   file,
		logger:    logger,
	}
}

// Upload загружает файл в хранилище и добавляет трек в каталог.
// progress получает число отправленных байт.
func (s *Service) Upload(ctx context.Context, filePath string, opts TrackOptions, progress func(int64)) (*Result, error) {
	if _, err := os.Stat(filePath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("файл не найден: %s", filePath)
	}

	info, err := s.inspector.Read(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения информации о файле: %w", err)
	}

	track := s.buildTrack(info, opts)
	if _, err := s.catalog.TrackByID(track.ID); err == nil {
		return nil, fmt.Errorf("%w: %s", catalog.ErrDuplicateID, track.ID)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if progress != nil {
		reader = &ProgressReader{
			Reader:     file,
			Size:       info.Size,
			OnProgress: progress,
		}
	}

	key := KeyPrefix + filepath.Base(filePath)
	url, err := s.storage.UploadFile(ctx, reader, key)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки в S3: %w", err)
	}
	track.AudioURL = url

	if err := s.catalog.AddTrack(track); err != nil {
		return nil, err
	}

	s.logger.Info("Трек добавлен",
		zap.String("track_id", track.ID),
		zap.String("key", key),
		zap.Int64("size", info.Size),
		zap.Duration("duration", info.Duration))

	return &Result{Track: track, Info: info, Key: key}, nil
}

// Delete удаляет трек из каталога и его файл из хранилища.
// Файл на чужом хостинге не трогается.
func (s *Service) Delete(ctx context.Context, id string) (*catalog.Track, error) {
	track, err := s.catalog.TrackByID(id)
	if err != nil {
		return nil, err
	}
	removed := *track

	key, err := s.storage.KeyFromURL(removed.AudioURL)
	switch {
	case err == nil:
		if err := s.storage.DeleteFile(ctx, key); err != nil {
			return nil, err
		}
	default:
		s.logger.Warn("Файл трека не в хранилище, удаляется только запись каталога",
			zap.String("track_id", id),
			zap.String("url", removed.AudioURL),
			zap.Error(err))
	}

	if err := s.catalog.DeleteTrackByID(id); err != nil {
		return nil, err
	}
	return &removed, nil
}

func (s *Service) buildTrack(info *metadata.Info, opts TrackOptions) catalog.Track {
	title := opts.Title
	if title == "" {
		title = info.Title
	}

	snippet := opts.LyricSnippet
	if snippet == "" {
		snippet = metadata.FirstLine(info.Lyrics)
	}

	id := opts.ID
	if id == "" {
		id = TrackID(title, func(candidate string) bool {
			_, err := s.catalog.TrackByID(candidate)
			return err == nil
		})
	}

	return catalog.Track{
		ID:            id,
		Title:         title,
		MoodTags:      opts.Moods,
		PlaylistTags:  opts.Playlists,
		LyricSnippet:  snippet,
		Featured:      opts.Featured,
		FeaturedOrder: opts.FeaturedOrder,
	}
}

// TrackID строит идентификатор из первых букв слов названия: "Spark Still Rise" - SSR_01.
// Номер растет, пока taken сообщает, что идентификатор занят.
func TrackID(title string, taken func(string) bool) string {
	var initials strings.Builder
	for _, word := range strings.Fields(title) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				initials.WriteRune(unicode.ToUpper(r))
				break
			}
		}
		if initials.Len() >= maxInitials {
			break
		}
	}

	base := initials.String()
	if base == "" {
		base = "TRK"
	}

	for n := 1; ; n++ {
		id := fmt.Sprintf("%s_%02d", base, n)
		if taken == nil || !taken(id) {
			return id
		}
	}
}

// ProgressReader структура для отслеживания прогресса чтения
type ProgressReader struct {
	io.Reader
	Size       int64
	OnProgress func(int64)
	bytesRead  int64
}

func (pr *ProgressReader) Read(p []byte) (n int, err error) {
	n, err = pr.Reader.Read(p)
	pr.bytesRead += int64(n)
	if pr.OnProgress != nil {
		pr.OnProgress(pr.bytesRead)
	}
	return n, err
}
