// Package tracklist содержит модели экранов списка плейлистов и списка треков для TUI
package tracklist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/myworld-soundtrack/internal/catalog"
	"github.com/hazadus/myworld-soundtrack/internal/utils"
)

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	paginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	helpStyle         = list.DefaultStyles().HelpStyle.PaddingLeft(4).PaddingBottom(1)
	quitTextStyle     = lipgloss.NewStyle().Margin(1, 0, 2, 4)
)

// PlaylistSelectedMsg отправляется при выборе плейлиста
type PlaylistSelectedMsg struct {
	Name string
}

// TrackSelectedMsg отправляется при выборе трека для воспроизведения
type TrackSelectedMsg struct {
	Track catalog.Track
	Queue []catalog.Track
}

// GoBackMsg отправляется для возврата к списку плейлистов
type GoBackMsg struct{}

// AskMsg открывает экран вопроса
type AskMsg struct{}

// ShowPlayerMsg открывает экран воспроизведения
type ShowPlayerMsg struct{}

// playlistItem - плейлист и число треков в нем
type playlistItem struct {
	name  string
	count int
}

func (i playlistItem) FilterValue() string { return i.name }

// trackItem реализует интерфейс list.Item для трека
type trackItem struct {
	track catalog.Track
}

func (i trackItem) FilterValue() string {
	return fmt.Sprintf("%s %s %s", i.track.ID, i.track.Title, i.track.Mood())
}

// itemDelegate реализует отображение элементов списка
type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	var str string
	switch i := listItem.(type) {
	case playlistItem:
		str = fmt.Sprintf("%-30s %3d", utils.TruncateString(i.name, 30), i.count)
	case trackItem:
		// ID | Название | Настроение | Избранное
		star := " "
		if i.track.Featured {
			star = "★"
		}
		str = fmt.Sprintf("%-10s %-40s %-25s %s",
			i.track.ID,
			utils.TruncateString(i.track.Title, 40),
			utils.TruncateString(i.track.Mood(), 25),
			star)
	default:
		return
	}

	fn := itemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(str))
}

// Model представляет модель экрана списка
type Model struct {
	list     list.Model
	tracks   []catalog.Track // Очередь для выбранного трека
	isTracks bool
	quitting bool
}

// NewPlaylistsModel создает модель списка плейлистов каталога
func NewPlaylistsModel(cat *catalog.Catalog) *Model {
	names := cat.Playlists()
	items := make([]list.Item, len(names))
	for i, name := range names {
		items[i] = playlistItem{name: name, count: len(cat.ByPlaylist(name))}
	}
	return &Model{list: newList("Плейлисты", items)}
}

// NewTracksModel создает модель списка треков плейлиста
func NewTracksModel(title string, tracks []catalog.Track) *Model {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{track: t}
	}
	return &Model{
		list:     newList(title, items),
		tracks:   tracks,
		isTracks: true,
	}
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, itemDelegate{}, 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetShowTitle(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = paginationStyle
	l.Styles.HelpStyle = helpStyle
	// Выход и возврат обрабатываются моделью
	l.KeyMap.Quit.SetEnabled(false)
	return l
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 4) // Оставляем место для справки
		return m, nil

	case tea.KeyMsg:
		// Во время ввода фильтра клавиши принадлежат списку
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "q":
			if !m.isTracks {
				m.quitting = true
				return m, tea.Quit
			}
			return m, send(GoBackMsg{})

		case "esc":
			if m.isTracks && m.list.FilterState() == list.Unfiltered {
				return m, send(GoBackMsg{})
			}

		case "a":
			return m, send(AskMsg{})

		case "tab":
			return m, send(ShowPlayerMsg{})

		case "enter":
			switch item := m.list.SelectedItem().(type) {
			case playlistItem:
				return m, send(PlaylistSelectedMsg{Name: item.name})
			case trackItem:
				return m, send(TrackSelectedMsg{Track: item.track, Queue: m.tracks})
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View отображает модель
func (m *Model) View() string {
	if m.quitting {
		return quitTextStyle.Render("До свидания!")
	}

	help := "Enter: открыть • a: задать вопрос • Tab: плеер • q: выход"
	if m.isTracks {
		help = "Enter: воспроизвести • a: задать вопрос • Tab: плеер • Esc: к плейлистам"
	}
	return m.list.View() + "\n" + helpStyle.Render(help)
}

func send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}
