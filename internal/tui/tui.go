// Package tui содержит компоненты для текстового пользовательского интерфейса
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/myworld-soundtrack/internal/catalog"
	"github.com/hazadus/myworld-soundtrack/internal/tui/app"
	"github.com/hazadus/myworld-soundtrack/internal/tui/ask"
)

// App представляет основное TUI приложение
type App struct {
	catalog     *catalog.Catalog
	player      app.Player
	recommender ask.Recommender
}

// NewApp создает новый экземпляр TUI приложения
func NewApp(cat *catalog.Catalog, player app.Player, recommender ask.Recommender) *App {
	return &App{
		catalog:     cat,
		player:      player,
		recommender: recommender,
	}
}

// Model возвращает корневую модель Bubble Tea
func (a *App) Model() *app.MainModel {
	return app.NewMainModel(a.catalog, a.player, a.recommender)
}

// Run запускает TUI приложение. Плеер закрывает вызывающий код.
func (a *App) Run() error {
	p := tea.NewProgram(a.Model(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
