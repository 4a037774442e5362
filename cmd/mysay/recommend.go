package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// createRecommendCommand создает команду recommend
func (app *Application) createRecommendCommand() *cobra.Command {
	var block string

	cmd := &cobra.Command{
		Use:   "recommend [question]",
		Short: "Pick a song for a question",
		Long:  `Pick one soundtrack song for the question text. The block code is used when no keyword matches.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.recommend(strings.Join(args, " "), block)
		},
	}

	cmd.Flags().StringVarP(&block, "block", "b", "", "question block code, e.g. relationship_block")

	return cmd
}

func (app *Application) recommend(question, block string) error {
	cat, err := app.Catalog()
	if err != nil {
		return err
	}
	matcher, err := app.Matcher(cat)
	if err != nil {
		return err
	}

	rec := matcher.Recommend(question, block)
	if rec == nil {
		fmt.Println("🤷 Подходящий трек не найден")
		return nil
	}

	fmt.Printf("❓ %s\n\n", rec.QuestionContext)
	fmt.Printf("🎵 Рекомендуем:\n")
	fmt.Printf("   ID: %s\n", rec.Track.ID)
	fmt.Printf("   Название: %s\n", rec.Track.Title)
	fmt.Printf("   Настроение: %s\n", rec.Track.Mood())
	if rec.Track.LyricSnippet != "" {
		fmt.Printf("   «%s»\n", rec.Track.LyricSnippet)
	}
	if rec.Keyword != "" {
		fmt.Printf("   Ключевое слово: %s (счет %d)\n", rec.Keyword, rec.Score)
	} else {
		fmt.Printf("   Подобрано по коду блока\n")
	}

	fmt.Println()
	fmt.Printf("💡 Используйте 'mysay play %s' для воспроизведения\n", rec.Track.ID)
	return nil
}
