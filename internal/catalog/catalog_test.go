package catalog

import (
	"errors"
	"testing"
)

func testTracks() []Track {
	return []Track{
		{ID: "A", Title: "Alpha", MoodTags: []string{"bitter", "believing"}, PlaylistTags: []string{"Hurt", "Spiral"}, Featured: true, FeaturedOrder: 3},
		{ID: "B", Title: "Beta", MoodTags: []string{"soft", "believing"}, PlaylistTags: []string{"Love", "Believe"}, Featured: false, FeaturedOrder: 0},
		{ID: "C", Title: "Gamma", MoodTags: []string{"Chaos", "love"}, PlaylistTags: []string{"Lowkey", "Lovely"}, Featured: true, FeaturedOrder: 1},
		{ID: "D", Title: "Delta", MoodTags: []string{"family"}, PlaylistTags: []string{"Family"}, Featured: true, FeaturedOrder: 1},
	}
}

func mustCatalog(t *testing.T, tracks []Track, opts ...Option) *Catalog {
	t.Helper()
	c, err := New(tracks, opts...)
	if err != nil {
		t.Fatalf("Ошибка создания каталога: %v", err)
	}
	return c
}

func ids(tracks []Track) []string {
	result := make([]string, len(tracks))
	for i, t := range tracks {
		result[i] = t.ID
	}
	return result
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewRejectsDuplicateID(t *testing.T) {
	tracks := append(testTracks(), Track{ID: "A", Title: "Другой"})

	_, err := New(tracks)
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Ожидалась ошибка ErrDuplicateID, получено: %v", err)
	}
}

func TestNewRejectsEmptyID(t *testing.T) {
	_, err := New([]Track{{Title: "Без ID"}})
	if !errors.Is(err, ErrEmptyID) {
		t.Errorf("Ожидалась ошибка ErrEmptyID, получено: %v", err)
	}
}

func TestReady(t *testing.T) {
	var nilCatalog *Catalog
	if nilCatalog.Ready() {
		t.Error("nil-каталог не должен быть готов")
	}

	c := mustCatalog(t, nil)
	if !c.Ready() {
		t.Error("Пустой каталог после New должен быть готов")
	}
}

func TestAllSongsReturnsEverythingInOrder(t *testing.T) {
	c := mustCatalog(t, testTracks())

	got := ids(c.ByPlaylist(AllSongs))
	want := []string{"A", "B", "C", "D"}
	if !equalIDs(got, want) {
		t.Errorf("Ожидалось %v, получено %v", want, got)
	}
}

func TestByPlaylistSubstring(t *testing.T) {
	c := mustCatalog(t, testTracks())

	tests := []struct {
		playlist string
		expected []string
	}{
		{"Hurt", []string{"A"}},
		{"Love", []string{"B", "C"}}, // "Love" входит в "Lovely"
		{"Family", []string{"D"}},
		{"love", []string{}}, // регистр важен
		{"Unknown", []string{}},
	}

	for _, test := range tests {
		got := ids(c.ByPlaylist(test.playlist))
		if !equalIDs(got, test.expected) {
			t.Errorf("ByPlaylist(%q) = %v; ожидалось %v", test.playlist, got, test.expected)
		}
	}
}

func TestByPlaylistExactTags(t *testing.T) {
	c := mustCatalog(t, testTracks(), WithExactTags())

	got := ids(c.ByPlaylist("Love"))
	if !equalIDs(got, []string{"B"}) {
		t.Errorf("В режиме точных тегов ожидался только трек B, получено %v", got)
	}
}

func TestByMoodCaseInsensitive(t *testing.T) {
	c := mustCatalog(t, testTracks())

	got := ids(c.ByMood("CHAOS"))
	if !equalIDs(got, []string{"C"}) {
		t.Errorf("Ожидался трек C, получено %v", got)
	}

	got = ids(c.ByMood("believ"))
	if !equalIDs(got, []string{"A", "B"}) {
		t.Errorf("Ожидались треки A и B, получено %v", got)
	}
}

func TestFeaturedSortedByOrder(t *testing.T) {
	c := mustCatalog(t, testTracks())

	featured := c.Featured()
	got := ids(featured)
	// C и D имеют одинаковый порядок, сортировка стабильная
	want := []string{"C", "D", "A"}
	if !equalIDs(got, want) {
		t.Errorf("Ожидалось %v, получено %v", want, got)
	}

	for i, track := range featured {
		if !track.Featured {
			t.Errorf("Трек %s не является избранным", track.ID)
		}
		if i > 0 && featured[i-1].FeaturedOrder > track.FeaturedOrder {
			t.Errorf("Нарушен порядок избранных треков на позиции %d", i)
		}
	}
}

func TestPlaylists(t *testing.T) {
	c := mustCatalog(t, testTracks())

	got := c.Playlists()
	want := []string{AllSongs, "Hurt", "Spiral", "Love", "Believe", "Lowkey", "Lovely", "Family"}
	if !equalIDs(got, want) {
		t.Errorf("Ожидалось %v, получено %v", want, got)
	}
}

func TestByContext(t *testing.T) {
	c := mustCatalog(t, testTracks())

	tests := []struct {
		context  string
		expected []string
	}{
		{"family", []string{"D"}},
		{"relationship", []string{"B", "C", "A"}},
		{"unknown", []string{"B"}},
	}

	for _, test := range tests {
		got := ids(c.ByContext(test.context))
		if !equalIDs(got, test.expected) {
			t.Errorf("ByContext(%q) = %v; ожидалось %v", test.context, got, test.expected)
		}
	}
}

func TestCatalogIsNotMutatedThroughResults(t *testing.T) {
	c := mustCatalog(t, testTracks())

	tracks := c.All()
	tracks[0].Title = "Изменено"
	tracks[0].MoodTags[0] = "changed"

	track, ok := c.ByID("A")
	if !ok {
		t.Fatal("Трек A должен существовать")
	}
	if track.Title != "Alpha" || track.MoodTags[0] != "bitter" {
		t.Errorf("Каталог изменился через возвращенный срез: %+v", track)
	}
}

func TestDefaultCatalog(t *testing.T) {
	file, err := Default()
	if err != nil {
		t.Fatalf("Ошибка загрузки встроенного каталога: %v", err)
	}

	c, err := file.Catalog()
	if err != nil {
		t.Fatalf("Ошибка построения встроенного каталога: %v", err)
	}

	if c.Len() != 32 {
		t.Errorf("Ожидалось 32 трека, получено %d", c.Len())
	}

	theme, ok := c.ByID("THM_1")
	if !ok {
		t.Fatal("Во встроенном каталоге должна быть тема THM_1")
	}
	if theme.AudioURL == "" {
		t.Error("У темы должен быть URL")
	}
}
