// Package catalog содержит каталог саундтреков и запросы к нему
package catalog

import (
	"strings"
)

// AllSongs - синтетический плейлист, включающий весь каталог
const AllSongs = "All Songs"

// tagSeparator используется при склейке тегов в одну строку
const tagSeparator = ", "

// Track описывает один трек каталога
type Track struct {
	ID            string   `yaml:"id"`
	Title         string   `yaml:"title"`
	MoodTags      []string `yaml:"mood_tags"`
	PlaylistTags  []string `yaml:"playlist_tags"`
	LyricSnippet  string   `yaml:"lyric_snippet"`
	Featured      bool     `yaml:"featured"`
	FeaturedOrder int      `yaml:"featured_order"` // Меньше - выше в списке избранного
	AudioURL      string   `yaml:"audio_url"`
}

// Mood возвращает теги настроения одной строкой, например "bitter, believing"
func (t Track) Mood() string {
	return strings.Join(t.MoodTags, tagSeparator)
}

// Playlists возвращает теги плейлистов одной строкой
func (t Track) Playlists() string {
	return strings.Join(t.PlaylistTags, tagSeparator)
}

// Clone возвращает копию трека, не разделяющую срезы с оригиналом
func (t Track) Clone() Track {
	c := t
	c.MoodTags = append([]string(nil), t.MoodTags...)
	c.PlaylistTags = append([]string(nil), t.PlaylistTags...)
	return c
}

// SplitTags разбирает строку вида "Hurt, Believe, Spiral" в список тегов
func SplitTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// hasTag проверяет точное (без учета регистра) вхождение тега в список
func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
