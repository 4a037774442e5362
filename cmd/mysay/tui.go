package main

import (
	"github.com/spf13/cobra"

	"github.com/hazadus/myworld-soundtrack/internal/tui"
)

// createTUICommand создает команду tui с привязкой к экземпляру приложения
func (app *Application) createTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch TUI (Terminal User Interface)",
		Long:  `Launch interactive terminal user interface for browsing playlists, asking questions and playing tracks.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.launchTUI()
		},
	}
}

func (app *Application) launchTUI() error {
	cat, err := app.Catalog()
	if err != nil {
		return err
	}
	matcher, err := app.Matcher(cat)
	if err != nil {
		return err
	}

	manager := app.NewManager(cat)
	defer manager.Close()

	// Пока ничего не выбрано, играет музыкальная тема
	manager.AutoPlayTheme()

	return tui.NewApp(cat, manager, matcher).Run()
}
