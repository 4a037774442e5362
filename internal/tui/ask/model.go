// Package ask содержит экран вопроса: текст вопроса и код блока превращаются в рекомендацию трека
package ask

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/myworld-soundtrack/internal/catalog"
	"github.com/hazadus/myworld-soundtrack/internal/recommend"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Margin(1, 0)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(15)
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Margin(1, 0)
	resultStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Margin(1, 0)
	lyricStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("170"))
)

// Recommender подбирает трек по вопросу
type Recommender interface {
	Recommend(questionText, blockCode string) *recommend.Recommendation
}

// PlayMsg отправляется, когда пользователь запускает рекомендованный трек
type PlayMsg struct {
	Track catalog.Track
}

// GoBackMsg отправляется при выходе с экрана вопроса
type GoBackMsg struct{}

type fieldType int

const (
	questionField fieldType = iota
	blockField
	numFields
)

// Model представляет модель экрана вопроса
type Model struct {
	recommender Recommender
	inputs      []textinput.Model
	focusIndex  int
	result      *recommend.Recommendation
	err         string
}

// NewModel создает новую модель экрана вопроса
func NewModel(recommender Recommender) *Model {
	inputs := make([]textinput.Model, numFields)

	inputs[questionField] = textinput.New()
	inputs[questionField].Placeholder = "Например: I still cannot get over my breakup"
	inputs[questionField].Focus()
	inputs[questionField].PromptStyle = focusedStyle
	inputs[questionField].TextStyle = focusedStyle

	inputs[blockField] = textinput.New()
	inputs[blockField].Placeholder = "relationship_block, family, school_life..."

	return &Model{
		recommender: recommender,
		inputs:      inputs,
	}
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Result возвращает последнюю рекомендацию
func (m *Model) Result() *recommend.Recommendation {
	return m.result
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg {
				return GoBackMsg{}
			}

		case "ctrl+p":
			if m.result != nil {
				track := m.result.Track
				return m, func() tea.Msg {
					return PlayMsg{Track: track}
				}
			}
			return m, nil

		case "enter":
			// Enter на последнем поле запрашивает рекомендацию
			if fieldType(m.focusIndex) == numFields-1 {
				m.ask()
				return m, nil
			}
			return m, m.moveFocus(1)

		case "tab", "down":
			return m, m.moveFocus(1)

		case "shift+tab", "up":
			return m, m.moveFocus(-1)
		}

	case tea.WindowSizeMsg:
		for i := range m.inputs {
			m.inputs[i].Width = msg.Width - 20
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m *Model) ask() {
	question := strings.TrimSpace(m.inputs[questionField].Value())
	block := strings.TrimSpace(m.inputs[blockField].Value())

	m.result = nil
	if question == "" {
		m.err = "Вопрос не может быть пустым"
		return
	}

	m.result = m.recommender.Recommend(question, block)
	if m.result == nil {
		m.err = "Подходящий трек не найден"
		return
	}
	m.err = ""
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	m.focusIndex = (m.focusIndex + delta + len(m.inputs)) % len(m.inputs)

	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		if i == m.focusIndex {
			cmds[i] = m.inputs[i].Focus()
			m.inputs[i].PromptStyle = focusedStyle
			m.inputs[i].TextStyle = focusedStyle
		} else {
			m.inputs[i].Blur()
			m.inputs[i].PromptStyle = blurredStyle
			m.inputs[i].TextStyle = blurredStyle
		}
	}
	return tea.Batch(cmds...)
}

// View отображает модель
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Задать вопрос"))
	b.WriteString("\n\n")

	labels := []string{"Вопрос:", "Код блока:"}
	for i, input := range m.inputs {
		b.WriteString(labelStyle.Render(labels[i]))
		b.WriteString(" ")
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}

	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}

	if r := m.result; r != nil {
		reason := "по коду блока"
		if r.Keyword != "" {
			reason = fmt.Sprintf("по слову %q (%d)", r.Keyword, r.Score)
		}
		b.WriteString(resultStyle.Render(fmt.Sprintf("🎵 %s [%s] %s", r.Track.Title, r.Track.ID, reason)))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("❓ %s\n", r.QuestionContext))
		if r.Track.LyricSnippet != "" {
			b.WriteString(lyricStyle.Render("“" + r.Track.LyricSnippet + "”"))
			b.WriteString("\n")
		}
	}

	b.WriteString(helpStyle.Render("Tab: следующее поле • Enter: подобрать • Ctrl+P: воспроизвести • Esc: назад"))

	return b.String()
}
