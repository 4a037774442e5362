package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// csvColumns - обязательные колонки выгрузки soundtracks.csv
var csvColumns = []string{
	"song_id",
	"song_title",
	"mood_tag",
	"playlist_tag",
	"lyrics_snippet",
	"file_url",
}

// ImportCSV читает треки из CSV-выгрузки саундтреков
func ImportCSV(r io.Reader) ([]Track, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения заголовка CSV: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[cleanCSVValue(name)] = i
	}
	for _, col := range csvColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("в CSV отсутствует колонка %q", col)
		}
	}

	get := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return cleanCSVValue(row[i])
	}

	var tracks []Track
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения CSV (строка %d): %w", line, err)
		}

		order := 0
		if raw := get(row, "featured_order"); raw != "" {
			order, err = strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("неверный featured_order %q (строка %d): %w", raw, line, err)
			}
		}

		tracks = append(tracks, Track{
			ID:            get(row, "song_id"),
			Title:         get(row, "song_title"),
			MoodTags:      SplitTags(get(row, "mood_tag")),
			PlaylistTags:  SplitTags(get(row, "playlist_tag")),
			LyricSnippet:  get(row, "lyrics_snippet"),
			Featured:      strings.EqualFold(get(row, "featured"), "TRUE"),
			FeaturedOrder: order,
			AudioURL:      get(row, "file_url"),
		})
	}

	return tracks, nil
}

// cleanCSVValue убирает BOM, пробелы по краям и переводы строк
func cleanCSVValue(value string) string {
	value = strings.TrimSpace(strings.ReplaceAll(value, "\ufeff", ""))
	return strings.ReplaceAll(value, "\n", " ")
}
