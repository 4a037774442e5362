package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrDuplicateID возвращается, если в каталоге два трека с одинаковым ID
	ErrDuplicateID = errors.New("дублирующийся ID трека")
	// ErrEmptyID возвращается для трека без ID
	ErrEmptyID = errors.New("пустой ID трека")
	// ErrTrackNotFound возвращается, если трек не найден
	ErrTrackNotFound = errors.New("трек не найден")
)

// contextPlaylists сопоставляет тему опроса с плейлистами
var contextPlaylists = map[string][]string{
	"relationship": {"Love", "Hurt", "Believe"},
	"friendship":   {"Love", "Hurt", "Believe"},
	"family":       {"Family"},
	"school":       {"Believe", "Inspiring"},
	"emotions":     {"Hurt", "Believe", "Spiral"},
	"identity":     {"Believe", "Inspiring"},
	"breakup":      {"Breakup", "Hurt", "Believe"},
	"bullying":     {"Hurt", "Believe", "Spiral"},
	"self-esteem":  {"Believe", "Inspiring"},
	"anxiety":      {"Soft", "Believing", "Lowkey"},
}

// defaultContextPlaylist используется для неизвестной темы
const defaultContextPlaylist = "Believe"

// Option настраивает каталог
type Option func(*Catalog)

// WithExactTags включает точное сравнение тегов вместо поиска подстроки.
// По умолчанию "Love" находит и тег "Lovely", как в исходном сервисе.
func WithExactTags() Option {
	return func(c *Catalog) {
		c.exactTags = true
	}
}

// Catalog - неизменяемый индекс треков. Создается один раз через New.
type Catalog struct {
	tracks    []Track
	byID      map[string]int
	playlists []string
	exactTags bool
	ready     bool
}

// New строит каталог из списка треков и проверяет уникальность ID
func New(tracks []Track, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		tracks: make([]Track, 0, len(tracks)),
		byID:   make(map[string]int, len(tracks)),
	}
	for _, opt := range opts {
		opt(c)
	}

	for _, t := range tracks {
		if t.ID == "" {
			return nil, fmt.Errorf("трек %q: %w", t.Title, ErrEmptyID)
		}
		if _, exists := c.byID[t.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, t.ID)
		}
		c.byID[t.ID] = len(c.tracks)
		c.tracks = append(c.tracks, t.Clone())
	}

	c.playlists = []string{AllSongs}
	seen := map[string]bool{AllSongs: true}
	for _, t := range c.tracks {
		for _, p := range t.PlaylistTags {
			if !seen[p] {
				seen[p] = true
				c.playlists = append(c.playlists, p)
			}
		}
	}

	c.ready = true
	return c, nil
}

// Ready сообщает, что каталог инициализирован
func (c *Catalog) Ready() bool {
	return c != nil && c.ready
}

// Len возвращает количество треков
func (c *Catalog) Len() int {
	return len(c.tracks)
}

// All возвращает все треки в порядке каталога
func (c *Catalog) All() []Track {
	return c.copyOf(c.tracks)
}

// ByID ищет трек по идентификатору
func (c *Catalog) ByID(id string) (Track, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Track{}, false
	}
	return c.tracks[i].Clone(), true
}

// ByPlaylist возвращает треки плейлиста. Для AllSongs - весь каталог.
func (c *Catalog) ByPlaylist(name string) []Track {
	if name == AllSongs {
		return c.All()
	}
	return c.filter(func(t Track) bool {
		if c.exactTags {
			return hasTag(t.PlaylistTags, name)
		}
		return strings.Contains(t.Playlists(), name)
	})
}

// ByMood возвращает треки, в настроении которых встречается mood (без учета регистра)
func (c *Catalog) ByMood(mood string) []Track {
	return c.filter(func(t Track) bool {
		if c.exactTags {
			return hasTag(t.MoodTags, mood)
		}
		return strings.Contains(strings.ToLower(t.Mood()), strings.ToLower(mood))
	})
}

// Featured возвращает избранные треки, отсортированные по FeaturedOrder
func (c *Catalog) Featured() []Track {
	featured := c.filter(func(t Track) bool { return t.Featured })
	sort.SliceStable(featured, func(i, j int) bool {
		return featured[i].FeaturedOrder < featured[j].FeaturedOrder
	})
	return featured
}

// Playlists возвращает "All Songs" и все плейлисты в порядке первого появления
func (c *Catalog) Playlists() []string {
	return append([]string(nil), c.playlists...)
}

// ByContext возвращает треки, подходящие теме опроса (relationship, family, ...)
func (c *Catalog) ByContext(context string) []Track {
	playlists, ok := contextPlaylists[context]
	if !ok {
		playlists = []string{defaultContextPlaylist}
	}

	var tracks []Track
	for _, p := range playlists {
		tracks = append(tracks, c.ByPlaylist(p)...)
	}
	return Unique(tracks)
}

// Unique удаляет повторы по ID, сохраняя первое вхождение и порядок
func Unique(tracks []Track) []Track {
	seen := make(map[string]bool, len(tracks))
	result := make([]Track, 0, len(tracks))
	for _, t := range tracks {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		result = append(result, t)
	}
	return result
}

func (c *Catalog) filter(keep func(Track) bool) []Track {
	result := make([]Track, 0)
	for _, t := range c.tracks {
		if keep(t) {
			result = append(result, t.Clone())
		}
	}
	return result
}

func (c *Catalog) copyOf(tracks []Track) []Track {
	result := make([]Track, len(tracks))
	for i, t := range tracks {
		result[i] = t.Clone()
	}
	return result
}
