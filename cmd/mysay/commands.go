package main

import (
	"context"

	"github.com/spf13/cobra"
)

// createRootCommand создает корневую команду с настроенными подкомандами
func (app *Application) createRootCommand(ctx context.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mysay",
		Short: "My World My Say soundtrack player",
		Long:  `Browse the soundtrack catalog, get a song for your question and play it.`,
		// Ошибки выводит main
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Добавляем команды, передавая в них экземпляр приложения и контекст
	rootCmd.AddCommand(app.createListCommand())
	rootCmd.AddCommand(app.createPlaylistsCommand())
	rootCmd.AddCommand(app.createRecommendCommand())
	rootCmd.AddCommand(app.createPlayCommand(ctx))
	rootCmd.AddCommand(app.createThemeCommand(ctx))
	rootCmd.AddCommand(app.createTUICommand())
	rootCmd.AddCommand(app.createAddCommand(ctx))
	rootCmd.AddCommand(app.createDeleteCommand(ctx))
	rootCmd.AddCommand(app.createImportCommand())
	rootCmd.AddCommand(app.createProfileCommand())

	return rootCmd
}
