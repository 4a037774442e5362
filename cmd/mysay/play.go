package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazadus/myworld-soundtrack/internal/audio"
	"github.com/hazadus/myworld-soundtrack/internal/catalog"
	"github.com/hazadus/myworld-soundtrack/internal/utils"
)

const (
	volumeStep = 0.1
	seekStep   = 10 * time.Second
)

// transport - управление воспроизведением с клавиатуры
type transport interface {
	Snapshot() audio.Session
	TogglePlayPause()
	PlayNext()
	PlayPrevious()
	SetVolume(v float64)
	Seek(position time.Duration)
	Stop()
}

// createPlayCommand создает команду play с привязкой к экземпляру приложения
func (app *Application) createPlayCommand(ctx context.Context) *cobra.Command {
	var playlist string

	cmd := &cobra.Command{
		Use:   "play [trackid]",
		Short: "Play a track by its ID",
		Long:  `Play a track by its ID. The rest of the playlist plays after it.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.playByID(ctx, args[0], playlist)
		},
	}

	cmd.Flags().StringVarP(&playlist, "playlist", "p", catalog.AllSongs, "playlist used as the play queue")

	return cmd
}

// createThemeCommand создает команду theme
func (app *Application) createThemeCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "theme",
		Short: "Play the theme song",
		Long:  `Play the theme song configured by theme_track_id.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.playTheme(ctx)
		},
	}
}

// enableRawMode включает режим raw для терминала (без буферизации и echo)
func enableRawMode() {
	cmd := exec.Command("stty", "-echo", "-icanon")
	cmd.Stdin = os.Stdin
	_ = cmd.Run() // Без stty управление с клавиатуры работает после Enter
}

// disableRawMode восстанавливает нормальный режим терминала
func disableRawMode() {
	cmd := exec.Command("stty", "echo", "icanon")
	cmd.Stdin = os.Stdin
	_ = cmd.Run()
}

// readKeys читает одиночные символы из r, пока не закрыт done.
// При ошибке чтения канал keys закрывается.
func readKeys(r io.Reader, keys chan<- byte, done <-chan struct{}) {
	buffer := make([]byte, 1)
	for {
		if _, err := r.Read(buffer); err != nil {
			close(keys)
			return
		}
		select {
		case keys <- buffer[0]:
		case <-done:
			return
		}
	}
}

func (app *Application) playByID(ctx context.Context, id, playlist string) error {
	cat, err := app.Catalog()
	if err != nil {
		return err
	}

	track, ok := cat.ByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", catalog.ErrTrackNotFound, id)
	}
	if track.AudioURL == "" {
		return fmt.Errorf("у трека %s отсутствует URL", id)
	}

	queue := cat.ByPlaylist(playlist)

	fmt.Printf("🎵 Сейчас играет:\n")
	fmt.Printf("   ID: %s\n", track.ID)
	fmt.Printf("   Название: %s\n", track.Title)
	fmt.Printf("   Настроение: %s\n", track.Mood())
	fmt.Printf("   Плейлист: %s (%d)\n", playlist, len(queue))
	fmt.Println()

	manager := app.NewManager(cat)
	defer manager.Close()

	manager.PlayTrack(track, queue)
	return runPlayback(ctx, manager)
}

func (app *Application) playTheme(ctx context.Context) error {
	cat, err := app.Catalog()
	if err != nil {
		return err
	}

	manager := app.NewManager(cat)
	defer manager.Close()

	if !manager.PlayTheme() {
		return errors.New("музыкальная тема не найдена в каталоге или выключена")
	}
	fmt.Printf("🎼 Музыкальная тема: %s\n\n", manager.Snapshot().CurrentTrack.Title)
	return runPlayback(ctx, manager)
}

// runPlayback показывает прогресс и обрабатывает клавиши до конца воспроизведения
func runPlayback(ctx context.Context, t transport) error {
	fmt.Printf("🎮 Управление:\n")
	fmt.Printf("   [Пробел] - пауза/воспроизведение\n")
	fmt.Printf("   [n/p] - следующий/предыдущий трек\n")
	fmt.Printf("   [+/-] - громкость\n")
	fmt.Printf("   [,/.] - перемотка на 10 секунд\n")
	fmt.Printf("   [q] или [Ctrl+C] - остановить и выйти\n")
	fmt.Println()

	enableRawMode()
	defer disableRawMode()

	keys := make(chan byte)
	done := make(chan struct{})
	defer close(done)
	go readKeys(os.Stdin, keys, done)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var current string
	for {
		select {
		case key, ok := <-keys:
			if !ok {
				keys = nil // stdin закрыт, управление только через Ctrl+C
				continue
			}
			if handleKey(t, key) {
				t.Stop()
				fmt.Println("\n⏹️  Воспроизведение остановлено пользователем")
				return nil
			}

		case <-ticker.C:
			s := t.Snapshot()
			if s.CurrentTrack != nil && s.CurrentTrack.ID != current {
				current = s.CurrentTrack.ID
				fmt.Printf("\r\033[K🎵 %s\n", s.CurrentTrack.Title)
			}
			fmt.Print(progressLine(s))
			if finished(s) {
				fmt.Println("\n✅ Воспроизведение завершено")
				return nil
			}

		case <-ctx.Done():
			t.Stop()
			fmt.Println("\n🚫 Воспроизведение остановлено")
			return nil
		}
	}
}

// handleKey выполняет действие клавиши. Возвращает true для выхода.
func handleKey(t transport, key byte) bool {
	s := t.Snapshot()
	switch key {
	case ' ', '\n', '\r':
		t.TogglePlayPause()
	case 'n':
		t.PlayNext()
	case 'p':
		t.PlayPrevious()
	case '+', '=':
		t.SetVolume(s.Volume + volumeStep)
	case '-':
		t.SetVolume(s.Volume - volumeStep)
	case '.':
		t.Seek(s.Position + seekStep)
	case ',':
		t.Seek(max(0, s.Position-seekStep))
	case 'q':
		return true
	}
	return false
}

// finished сообщает, что трек доигран и следующего нет
func finished(s audio.Session) bool {
	return s.State == audio.Idle && !s.HasQueue()
}

// progressLine отображает прогресс воспроизведения
func progressLine(s audio.Session) string {
	statusIcon := "⏱️"
	switch s.State {
	case audio.Paused:
		statusIcon = "⏸️"
	case audio.Loading:
		statusIcon = "⏳"
	case audio.Idle:
		statusIcon = "⏹️"
	}

	progress := "??%"
	if s.Duration > 0 {
		progress = fmt.Sprintf("%.1f%%", float64(s.Position)/float64(s.Duration)*100)
	}

	return fmt.Sprintf("\r\033[K%s  %s | %s | 🔊 %d%%",
		statusIcon,
		progress,
		utils.FormatProgress(s.Position, s.Duration),
		int(s.Volume*100+0.5))
}
