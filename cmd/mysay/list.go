package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hazadus/myworld-soundtrack/internal/catalog"
	"github.com/hazadus/myworld-soundtrack/internal/utils"
)

// createListCommand создает команду list с привязкой к экземпляру приложения
func (app *Application) createListCommand() *cobra.Command {
	var (
		playlist string
		mood     string
		topic    string
		featured bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracks from the catalog",
		Long:  `Display catalog tracks, optionally filtered by playlist, mood, poll topic or the featured flag.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.listTracks(playlist, mood, topic, featured)
		},
	}

	cmd.Flags().StringVarP(&playlist, "playlist", "p", "", "show tracks of the playlist")
	cmd.Flags().StringVarP(&mood, "mood", "m", "", "show tracks with the mood")
	cmd.Flags().StringVarP(&topic, "context", "c", "", "show tracks for the poll topic, e.g. relationship or school")
	cmd.Flags().BoolVarP(&featured, "featured", "f", false, "show featured tracks in their order")

	return cmd
}

func (app *Application) listTracks(playlist, mood, topic string, featured bool) error {
	cat, err := app.Catalog()
	if err != nil {
		return err
	}

	if cat.Len() == 0 {
		fmt.Println("📚 Каталог пуст. Добавьте треки с помощью команды 'add' или 'import'.")
		return nil
	}

	tracks := cat.All()
	if featured {
		tracks = intersect(cat.Featured(), tracks)
	}
	if playlist != "" {
		tracks = intersect(tracks, cat.ByPlaylist(playlist))
	}
	if mood != "" {
		tracks = intersect(tracks, cat.ByMood(mood))
	}
	if topic != "" {
		tracks = intersect(tracks, cat.ByContext(topic))
	}

	if len(tracks) == 0 {
		fmt.Println("🔍 Треки не найдены")
		return nil
	}

	fmt.Printf("📚 Найдено треков: %d\n\n", len(tracks))

	// Выводим заголовок таблицы
	fmt.Printf("%-10s %-36s %-24s %-30s %s\n", "ID", "Название", "Настроение", "Плейлисты", "★")
	fmt.Println(strings.Repeat("-", 106))

	for _, t := range tracks {
		star := ""
		if t.Featured {
			star = fmt.Sprintf("★ %d", t.FeaturedOrder)
		}
		fmt.Printf("%-10s %-36s %-24s %-30s %s\n",
			t.ID,
			utils.TruncateString(t.Title, 34),
			utils.TruncateString(t.Mood(), 22),
			utils.TruncateString(t.Playlists(), 28),
			star)
	}

	fmt.Println()
	fmt.Println("💡 Используйте 'mysay play [ID]' для воспроизведения трека")
	return nil
}

// intersect оставляет треки из base, которые есть в keep, сохраняя порядок base
func intersect(base, keep []catalog.Track) []catalog.Track {
	ids := make(map[string]struct{}, len(keep))
	for _, t := range keep {
		ids[t.ID] = struct{}{}
	}

	result := make([]catalog.Track, 0, len(base))
	for _, t := range base {
		if _, ok := ids[t.ID]; ok {
			result = append(result, t)
		}
	}
	return result
}

// createPlaylistsCommand создает команду playlists
func (app *Application) createPlaylistsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "playlists",
		Short: "List playlists",
		Long:  `Display playlists of the catalog with the number of tracks in each.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cat, err := app.Catalog()
			if err != nil {
				return err
			}

			fmt.Printf("📂 Плейлисты:\n\n")
			for _, name := range cat.Playlists() {
				fmt.Printf("   %-30s %3d\n", name, len(cat.ByPlaylist(name)))
			}
			return nil
		},
	}
}
