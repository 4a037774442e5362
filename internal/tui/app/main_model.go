// Package app содержит основную логику TUI приложения
package app

import (
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/myworld-soundtrack/internal/catalog"
	"github.com/hazadus/myworld-soundtrack/internal/tui/ask"
	tuiPlayer "github.com/hazadus/myworld-soundtrack/internal/tui/player"
	"github.com/hazadus/myworld-soundtrack/internal/tui/tracklist"
)

// ScreenType определяет тип текущего экрана
type ScreenType int

// Константы для типов экранов
const (
	// PlaylistsScreen - экран списка плейлистов
	PlaylistsScreen ScreenType = iota
	// TracksScreen - экран треков плейлиста
	TracksScreen
	// PlayerScreen - экран плеера
	PlayerScreen
	// AskScreen - экран вопроса
	AskScreen
)

// Player - сессия воспроизведения, которой управляет TUI
type Player interface {
	tuiPlayer.Controller
	PlayTrack(track catalog.Track, queue []catalog.Track)
}

// MainModel представляет главную модель TUI
type MainModel struct {
	catalog        *catalog.Catalog
	player         Player
	recommender    ask.Recommender
	currentScreen  ScreenType
	playerReturn   ScreenType // Куда вернуться с экрана плеера
	askReturn      ScreenType // Куда вернуться с экрана вопроса
	playlistsModel *tracklist.Model
	tracksModel    *tracklist.Model
	playerModel    *tuiPlayer.Model
	askModel       *ask.Model
	size           *tea.WindowSizeMsg
}

// NewMainModel создает новую главную модель
func NewMainModel(cat *catalog.Catalog, player Player, recommender ask.Recommender) *MainModel {
	return &MainModel{
		catalog:        cat,
		player:         player,
		recommender:    recommender,
		currentScreen:  PlaylistsScreen,
		playlistsModel: tracklist.NewPlaylistsModel(cat),
		playerModel:    tuiPlayer.NewModel(player), // Живет все время работы, опрашивает сессию
	}
}

// Init инициализирует модель
func (m *MainModel) Init() tea.Cmd {
	return tea.Batch(m.playlistsModel.Init(), m.playerModel.Init())
}

// CurrentScreen возвращает активный экран
func (m *MainModel) CurrentScreen() ScreenType {
	return m.currentScreen
}

// Update обрабатывает сообщения
func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.player.Stop()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.size = &msg
		m.playlistsModel, _ = m.playlistsModel.Update(msg)
		m.playerModel, _ = m.playerModel.Update(msg)
		if m.tracksModel != nil {
			m.tracksModel, _ = m.tracksModel.Update(msg)
		}
		if m.askModel != nil {
			m.askModel, _ = m.askModel.Update(msg)
		}
		return m, nil

	case tuiPlayer.TickMsg, progress.FrameMsg:
		// Опрос сессии идет независимо от активного экрана
		var cmd tea.Cmd
		m.playerModel, cmd = m.playerModel.Update(msg)
		return m, cmd

	case tracklist.PlaylistSelectedMsg:
		m.tracksModel = m.resized(tracklist.NewTracksModel(msg.Name, m.catalog.ByPlaylist(msg.Name)))
		m.currentScreen = TracksScreen
		return m, m.tracksModel.Init()

	case tracklist.TrackSelectedMsg:
		m.player.PlayTrack(msg.Track, msg.Queue)
		m.showPlayer(m.currentScreen)
		return m, nil

	case tracklist.GoBackMsg:
		m.currentScreen = PlaylistsScreen
		m.tracksModel = nil
		return m, nil

	case tracklist.ShowPlayerMsg:
		m.showPlayer(m.currentScreen)
		return m, nil

	case tracklist.AskMsg:
		m.askModel = ask.NewModel(m.recommender)
		if m.size != nil {
			m.askModel, _ = m.askModel.Update(*m.size)
		}
		m.askReturn = m.currentScreen
		m.currentScreen = AskScreen
		return m, m.askModel.Init()

	case ask.PlayMsg:
		m.player.PlayTrack(msg.Track, m.queueFor(msg.Track))
		m.showPlayer(m.askReturn)
		m.askModel = nil
		return m, nil

	case ask.GoBackMsg:
		m.currentScreen = m.askReturn
		m.askModel = nil
		return m, nil

	case tuiPlayer.GoBackMsg:
		m.currentScreen = m.playerReturn
		return m, nil
	}

	// Передаем сообщение активной модели
	var cmd tea.Cmd
	switch m.currentScreen {
	case PlaylistsScreen:
		m.playlistsModel, cmd = m.playlistsModel.Update(msg)
	case TracksScreen:
		if m.tracksModel != nil {
			m.tracksModel, cmd = m.tracksModel.Update(msg)
		}
	case PlayerScreen:
		m.playerModel, cmd = m.playerModel.Update(msg)
	case AskScreen:
		if m.askModel != nil {
			m.askModel, cmd = m.askModel.Update(msg)
		}
	}
	return m, cmd
}

// View отображает интерфейс
func (m *MainModel) View() string {
	switch m.currentScreen {
	case PlaylistsScreen:
		return m.playlistsModel.View()
	case TracksScreen:
		if m.tracksModel != nil {
			return m.tracksModel.View()
		}
		return "Ошибка: список треков не инициализирован"
	case PlayerScreen:
		return m.playerModel.View()
	case AskScreen:
		if m.askModel != nil {
			return m.askModel.View()
		}
		return "Ошибка: экран вопроса не инициализирован"
	default:
		return "Неизвестный экран"
	}
}

func (m *MainModel) showPlayer(returnTo ScreenType) {
	if returnTo == PlayerScreen || returnTo == AskScreen {
		returnTo = PlaylistsScreen
	}
	m.playerReturn = returnTo
	m.currentScreen = PlayerScreen
}

func (m *MainModel) resized(model *tracklist.Model) *tracklist.Model {
	if m.size != nil {
		model, _ = model.Update(*m.size)
	}
	return model
}

// queueFor строит очередь для рекомендованного трека из его первого плейлиста
func (m *MainModel) queueFor(track catalog.Track) []catalog.Track {
	if len(track.PlaylistTags) == 0 {
		return nil
	}
	return m.catalog.ByPlaylist(track.PlaylistTags[0])
}
