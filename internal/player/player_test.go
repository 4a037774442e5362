package player

import (
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gopxl/beep/effects"
)

// playResult запускает Play и ждет результата
func playResult(t *testing.T, d *Device) error {
	t.Helper()
	result := make(chan error, 1)
	d.Play(func(err error) { result <- err })

	select {
	case err := <-result:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Play не вернул результат")
		return nil
	}
}

func TestPlayWithoutSource(t *testing.T) {
	d := New(nil)
	defer d.Close()

	if err := playResult(t, d); !errors.Is(err, ErrNoSource) {
		t.Errorf("Ожидалась ошибка ErrNoSource, получено: %v", err)
	}
}

func TestPlayHTTPError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	d := New(nil)
	defer d.Close()
	d.SetSource(server.URL + "/missing.mp3")

	err := playResult(t, d)
	if err == nil || !strings.Contains(err.Error(), "ошибка создания потокового ридера") {
		t.Errorf("Ожидалась ошибка потокового ридера, получено: %v", err)
	}
	if d.Buffered() {
		t.Error("После ошибки источник не должен считаться загруженным")
	}
}

func TestPlayInvalidMP3(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("это не mp3"))
	}))
	defer server.Close()

	d := New(nil)
	defer d.Close()
	d.SetSource(server.URL + "/broken.mp3")
	d.Load()

	err := playResult(t, d)
	if err == nil || !strings.Contains(err.Error(), "ошибка декодирования MP3") {
		t.Errorf("Ожидалась ошибка декодирования, получено: %v", err)
	}
}

func TestLoadAfterFailureStartsOver(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.NotFound(w, r)
	}))
	defer server.Close()

	d := New(nil)
	defer d.Close()
	d.SetSource(server.URL + "/a.mp3")

	_ = playResult(t, d)
	_ = playResult(t, d)

	if requests != 2 {
		t.Errorf("Повторный запуск после ошибки должен открыть поток заново, запросов: %d", requests)
	}
}

func TestSetSource(t *testing.T) {
	d := New(nil)
	defer d.Close()

	if d.Source() != "" || d.Buffered() {
		t.Error("Новое устройство не должно иметь источника")
	}

	d.SetSource("https://example.com/a.mp3")
	if d.Source() != "https://example.com/a.mp3" {
		t.Errorf("Неверный источник: %s", d.Source())
	}

	// без загруженного потока эти операции ничего не делают
	d.Pause()
	d.SetPosition(10 * time.Second)
	d.SetVolume(0.3)

	if err := d.Close(); err != nil {
		t.Errorf("Ошибка закрытия: %v", err)
	}
	if d.Source() != "" {
		t.Error("После закрытия источник должен быть сброшен")
	}
}

func TestPauseBeforeStartIsKept(t *testing.T) {
	d := New(nil)
	defer d.Close()

	s := &stream{url: "https://example.com/1.mp3", ready: make(chan struct{})}
	close(s.ready)
	d.stream = s

	// пауза пришла, пока трек загружался
	d.Pause()
	if err := d.start(s); err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	if d.ctrl != nil {
		t.Error("Приостановленный трек не должен запускаться")
	}
}

func TestPlayClearsPause(t *testing.T) {
	d := New(nil)
	defer d.Close()

	d.Pause()
	_ = playResult(t, d)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.paused {
		t.Error("Play должен снимать отложенную паузу")
	}
}

func TestApplyVolume(t *testing.T) {
	tests := []struct {
		level  float64
		volume float64
		silent bool
	}{
		{1, 0, false},
		{0.5, -1, false},
		{0.25, -2, false},
		{0, 0, true},
	}

	for _, test := range tests {
		v := &effects.Volume{Base: 2}
		applyVolume(v, test.level)
		if math.Abs(v.Volume-test.volume) > 1e-9 || v.Silent != test.silent {
			t.Errorf("applyVolume(%v): ожидалось %v/%v, получено %v/%v",
				test.level, test.volume, test.silent, v.Volume, v.Silent)
		}
	}
}
