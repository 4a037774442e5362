// Package player содержит модель экрана воспроизведения для TUI
package player

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/myworld-soundtrack/internal/audio"
	"github.com/hazadus/myworld-soundtrack/internal/utils"
)

const (
	tickInterval = 250 * time.Millisecond
	volumeStep   = 0.1
	seekStep     = 10 * time.Second
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0000ff")).
			MarginBottom(1)

	trackInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginBottom(1)

	lyricStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("170"))

	statusStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1).
			MarginBottom(1)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)
)

// Controller - управление воспроизведением, которое нужно экрану
type Controller interface {
	Snapshot() audio.Session
	TogglePlayPause()
	PlayNext()
	PlayPrevious()
	SetVolume(v float64)
	Seek(position time.Duration)
	Stop()
	ToggleTheme() bool
}

// GoBackMsg отправляется для возврата к списку треков
type GoBackMsg struct{}

// TickMsg запускает опрос состояния сессии
type TickMsg time.Time

// Model представляет модель экрана воспроизведения
type Model struct {
	controller  Controller
	session     audio.Session
	progressBar progress.Model
	width       int
	height      int
}

// NewModel создает новую модель плеера
func NewModel(controller Controller) *Model {
	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 40

	return &Model{
		controller:  controller,
		session:     controller.Snapshot(),
		progressBar: prog,
	}
}

// Init запускает опрос состояния
func (m *Model) Init() tea.Cmd {
	return Tick()
}

// Tick возвращает команду очередного опроса состояния
func Tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Session возвращает последнее прочитанное состояние сессии
func (m *Model) Session() audio.Session {
	return m.session
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progressBar.Width = min(60, msg.Width-10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			// Воспроизведение продолжается в фоне
			return m, func() tea.Msg {
				return GoBackMsg{}
			}
		case " ":
			m.controller.TogglePlayPause()
		case "n":
			m.controller.PlayNext()
		case "p":
			m.controller.PlayPrevious()
		case "+", "=":
			m.controller.SetVolume(m.session.Volume + volumeStep)
		case "-":
			m.controller.SetVolume(m.session.Volume - volumeStep)
		case "right", ".":
			m.controller.Seek(m.session.Position + seekStep)
		case "left", ",":
			m.controller.Seek(max(0, m.session.Position-seekStep))
		case "s":
			m.controller.Stop()
		case "t":
			m.controller.ToggleTheme()
		default:
			return m, nil
		}
		m.session = m.controller.Snapshot()
		return m, nil

	case TickMsg:
		m.session = m.controller.Snapshot()
		return m, tea.Batch(
			m.progressBar.SetPercent(percent(m.session)),
			Tick(),
		)

	case progress.FrameMsg:
		progressModel, cmd := m.progressBar.Update(msg)
		m.progressBar = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

// View отображает модель
func (m *Model) View() string {
	title := titleStyle.Render("🎵 Воспроизведение")

	track := m.session.CurrentTrack
	if track == nil {
		return fmt.Sprintf("%s\n\n%s\n\n%s",
			title,
			trackInfoStyle.Render("Ничего не играет"),
			controlsStyle.Render("t: музыкальная тема • q/esc: назад"),
		)
	}

	info := fmt.Sprintf("🎵 %s\n🌙 %s\n📂 %s", track.Title, track.Mood(), track.Playlists())
	if m.session.HasQueue() {
		info += fmt.Sprintf("\n📋 %d из %d", m.session.QueueIndex+1, len(m.session.Queue))
	}
	trackInfo := trackInfoStyle.Render(info)

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(trackInfo)
	if track.LyricSnippet != "" {
		b.WriteString("\n")
		b.WriteString(lyricStyle.Render("“" + track.LyricSnippet + "”"))
	}
	b.WriteString("\n\n")
	b.WriteString(statusStyle.Render(formatStatus(m.session.State)))
	b.WriteString("\n\n")
	b.WriteString(m.progressBar.View())
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s   🔊 %d%%",
		utils.FormatProgress(m.session.Position, m.session.Duration),
		int(m.session.Volume*100+0.5)))
	b.WriteString("\n\n")
	b.WriteString(controlsStyle.Render(
		"Пробел: пауза • n/p: следующий/предыдущий • +/-: громкость • ←/→: перемотка • s: стоп • t: тема • q/esc: назад",
	))
	return b.String()
}

func percent(s audio.Session) float64 {
	if s.Duration <= 0 {
		return 0
	}
	return min(1, float64(s.Position)/float64(s.Duration))
}

func formatStatus(state audio.State) string {
	switch state {
	case audio.Playing:
		return "▶️ Воспроизведение"
	case audio.Loading:
		return "⏳ Загрузка"
	case audio.Paused:
		return "⏸️ Пауза"
	default:
		return "⏹️ Остановлено"
	}
}
