// Package player воспроизводит саундтреки через динамики компьютера
package player

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/hazadus/myworld-soundtrack/internal/audio"
	"github.com/hazadus/myworld-soundtrack/internal/streaming"
)

// ErrSourceChanged - источник сменился, пока трек загружался
var ErrSourceChanged = errors.New("источник воспроизведения изменился")

// ErrNoSource - устройству не назначен источник
var ErrNoSource = errors.New("источник воспроизведения не задан")

const progressInterval = time.Second

// stream - загружаемый или загруженный источник
type stream struct {
	url   string
	ready chan struct{} // закрывается после открытия или ошибки

	reader   *streaming.Reader
	streamer beep.StreamSeekCloser
	format   beep.Format
	err      error
}

func (s *stream) done() bool {
	select {
	case <-s.ready:
		return true
	default:
		return false
	}
}

func (s *stream) failed() bool {
	return s.done() && s.err != nil
}

func (s *stream) close() {
	if s.streamer != nil {
		s.streamer.Close()
	}
	if s.reader != nil {
		s.reader.Close()
	}
}

// Device реализует audio.Device на beep
type Device struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger

	mu         sync.Mutex
	source     string
	stream     *stream
	ctrl       *beep.Ctrl
	paused     bool // пауза, запрошенная до запуска, тоже соблюдается
	volume     *effects.Volume
	level      float64
	sampleRate beep.SampleRate // частота динамиков, 0 до инициализации
	handler    func(audio.Event)
}

// New создает устройство воспроизведения
func New(logger *zap.Logger) *Device {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Device{
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
		level:  1,
	}
}

var _ audio.Device = (*Device)(nil)

// SetSource назначает новый URL и останавливает текущий трек
func (d *Device) SetSource(url string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if url == d.source {
		return
	}
	d.stopLocked()
	d.source = url
}

// Source возвращает текущий URL
func (d *Device) Source() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.source
}

// Load начинает загрузку источника в фоне
func (d *Device) Load() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loadLocked()
}

// Buffered сообщает, что источник открыт и декодируется без ошибок
func (d *Device) Buffered() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.stream
	return s != nil && s.url == d.source && s.done() && s.err == nil
}

// Play дожидается загрузки и запускает воспроизведение. Результат приходит в done.
func (d *Device) Play(done func(error)) {
	d.mu.Lock()
	d.paused = false
	s := d.loadLocked()
	d.mu.Unlock()

	if s == nil {
		done(ErrNoSource)
		return
	}

	go func() {
		select {
		case <-s.ready:
		case <-d.ctx.Done():
			done(d.ctx.Err())
			return
		}
		done(d.start(s))
	}()
}

// Pause приостанавливает воспроизведение
func (d *Device) Pause() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.paused = true
	if d.ctrl != nil {
		speaker.Lock()
		d.ctrl.Paused = true
		speaker.Unlock()
	}
}

// SetPosition перематывает трек, если источник это позволяет.
// Фактическая позиция после перемотки приходит событием TimeUpdate.
func (d *Device) SetPosition(position time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.stream
	if s == nil || !s.done() || s.err != nil {
		return
	}

	target := s.format.SampleRate.N(position)
	if d.ctrl != nil {
		speaker.Lock()
		defer speaker.Unlock()
	}
	if s.streamer.Position() == target {
		return
	}
	if err := s.streamer.Seek(target); err != nil {
		d.logger.Warn("Перемотка не удалась", zap.String("url", s.url), zap.Error(err))
	}

	// вызывающий может держать свою блокировку, поэтому событие уходит из горутины
	ev := audio.Event{Kind: audio.TimeUpdate, Source: s.url, Position: s.format.SampleRate.D(s.streamer.Position())}
	go d.emit(ev)
}

// SetVolume задает громкость в диапазоне [0, 1]
func (d *Device) SetVolume(v float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.level = v
	if d.volume != nil {
		speaker.Lock()
		applyVolume(d.volume, v)
		speaker.Unlock()
	}
}

// SetEventHandler задает получателя событий устройства
func (d *Device) SetEventHandler(h func(audio.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handler = h
}

// Close останавливает воспроизведение и освобождает ресурсы
func (d *Device) Close() error {
	d.cancel()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.source = ""
	return nil
}

// loadLocked возвращает поток текущего источника, при необходимости открывая новый
func (d *Device) loadLocked() *stream {
	if d.source == "" {
		return nil
	}
	if s := d.stream; s != nil && s.url == d.source && !s.failed() {
		return s
	}
	if d.stream != nil {
		d.stream.close()
	}

	s := &stream{url: d.source, ready: make(chan struct{})}
	d.stream = s
	go d.open(s)
	return s
}

// open скачивает заголовок файла и запускает декодер
func (d *Device) open(s *stream) {
	defer close(s.ready)

	reader, err := streaming.NewReader(d.ctx, s.url, streaming.DefaultBufferSize)
	if err != nil {
		s.err = fmt.Errorf("ошибка создания потокового ридера: %w", err)
		return
	}

	streamer, format, err := mp3.Decode(reader)
	if err != nil {
		reader.Close()
		s.err = fmt.Errorf("ошибка декодирования MP3: %w", err)
		return
	}
	s.reader, s.streamer, s.format = reader, streamer, format

	d.logger.Debug("Источник открыт",
		zap.String("url", s.url),
		zap.Int64("size", reader.Size()),
		zap.Int("sample_rate", int(format.SampleRate)))

	if n := streamer.Len(); n > 0 {
		d.emit(audio.Event{
			Kind:     audio.MetadataLoaded,
			Source:   s.url,
			Duration: format.SampleRate.D(n),
		})
	}
}

// start запускает или возобновляет воспроизведение открытого потока
func (d *Device) start(s *stream) error {
	if s.err != nil {
		return s.err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stream != s {
		return ErrSourceChanged
	}
	if d.paused {
		return nil
	}

	if d.ctrl != nil {
		speaker.Lock()
		d.ctrl.Paused = false
		speaker.Unlock()
		return nil
	}

	if d.sampleRate == 0 {
		if err := speaker.Init(s.format.SampleRate, s.format.SampleRate.N(time.Second/5)); err != nil {
			return fmt.Errorf("ошибка инициализации динамиков: %w", err)
		}
		d.sampleRate = s.format.SampleRate
	}

	var source beep.Streamer = s.streamer
	if s.format.SampleRate != d.sampleRate {
		source = beep.Resample(4, s.format.SampleRate, d.sampleRate, s.streamer)
	}

	d.ctrl = &beep.Ctrl{Streamer: source}
	d.volume = &effects.Volume{Streamer: d.ctrl, Base: 2}
	applyVolume(d.volume, d.level)

	speaker.Play(beep.Seq(d.volume, beep.Callback(func() {
		// вызывается из горутины динамиков под их блокировкой
		go d.finish(s)
	})))

	go d.monitor(s)
	return nil
}

// stopLocked останавливает звук и закрывает поток
func (d *Device) stopLocked() {
	if d.ctrl != nil {
		speaker.Clear()
		d.ctrl = nil
		d.volume = nil
	}
	if d.stream != nil {
		if d.stream.done() {
			d.stream.close()
		} else {
			go func(s *stream) {
				<-s.ready
				s.close()
			}(d.stream)
		}
		d.stream = nil
	}
}

// finish освобождает доигранный поток. Повторный запуск откроет его заново.
func (d *Device) finish(s *stream) {
	d.mu.Lock()
	if d.stream == s {
		d.ctrl = nil
		d.volume = nil
		d.stream = nil
		s.close()
	}
	d.mu.Unlock()

	d.emit(audio.Event{Kind: audio.Ended, Source: s.url})
}

// monitor раз в секунду сообщает позицию и ошибки декодера
func (d *Device) monitor(s *stream) {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return
		case <-ticker.C:
			d.mu.Lock()
			if d.stream != s || d.ctrl == nil {
				d.mu.Unlock()
				return
			}
			speaker.Lock()
			position := s.format.SampleRate.D(s.streamer.Position())
			err := s.streamer.Err()
			speaker.Unlock()
			d.mu.Unlock()

			if err != nil {
				d.emit(audio.Event{Kind: audio.PlaybackError, Source: s.url, Err: err})
				return
			}
			d.emit(audio.Event{Kind: audio.TimeUpdate, Source: s.url, Position: position})
		}
	}
}

func (d *Device) emit(ev audio.Event) {
	d.mu.Lock()
	h := d.handler
	d.mu.Unlock()

	if h != nil {
		h(ev)
	}
}

// applyVolume переводит линейную громкость в усиление по основанию 2
func applyVolume(v *effects.Volume, level float64) {
	v.Silent = level <= 0
	if level > 0 {
		v.Volume = math.Log2(level)
	} else {
		v.Volume = 0
	}
}
