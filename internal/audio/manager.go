package audio

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hazadus/myworld-soundtrack/internal/catalog"
)

const (
	// retryDelay - пауза перед единственной повторной попыткой воспроизведения
	retryDelay = 200 * time.Millisecond
	// advanceDelay - пауза перед переходом к следующему треку после окончания
	advanceDelay = 100 * time.Millisecond
	// playRetries - число повторных попыток воспроизведения
	playRetries = 1
)

// Option настраивает Manager
type Option func(*Manager)

// WithScheduler подменяет отложенный вызов (по умолчанию time.AfterFunc)
func WithScheduler(after func(time.Duration, func())) Option {
	return func(m *Manager) {
		m.after = after
	}
}

// WithVolume задает начальную громкость
func WithVolume(v float64) Option {
	return func(m *Manager) {
		m.volume = clampVolume(v)
	}
}

// WithTheme задает трек темы и признак ее автозапуска
func WithTheme(track catalog.Track, enabled bool) Option {
	return func(m *Manager) {
		t := track.Clone()
		m.theme = &t
		m.themeEnabled = enabled
	}
}

// Manager - единственный владелец устройства воспроизведения.
// Все изменения сессии идут через него.
type Manager struct {
	device Device
	logger *zap.Logger
	after  func(time.Duration, func())

	mu       sync.Mutex
	current  *catalog.Track
	state    State
	position time.Duration
	duration time.Duration
	volume   float64
	queue    []catalog.Track
	index    int

	// generation растет при каждой смене трека, паузе и остановке.
	// Завершения воспроизведения от прошлых поколений отбрасываются.
	generation uint64

	theme        *catalog.Track
	themeEnabled bool
	themePlaying bool
}

// NewManager создает менеджер и подписывается на события устройства
func NewManager(device Device, logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		device:       device,
		logger:       logger,
		after:        func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		volume:       1,
		themeEnabled: true,
	}
	for _, opt := range opts {
		opt(m)
	}

	device.SetVolume(m.volume)
	device.SetEventHandler(m.handleEvent)
	return m
}

// Snapshot возвращает копию текущего состояния сессии
func (m *Manager) Snapshot() Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Session{
		State:      m.state,
		IsPlaying:  m.state == Playing,
		Position:   m.position,
		Duration:   m.duration,
		Volume:     m.volume,
		Queue:      cloneTracks(m.queue),
		QueueIndex: m.index,
		Theme:      m.themePlaying,
	}
	if m.current != nil {
		t := m.current.Clone()
		s.CurrentTrack = &t
	}
	return s
}

// PlayTrack останавливает текущее воспроизведение и запускает трек.
// Непустая очередь заменяет текущую и включает автопродолжение.
// Пустая очередь очищает текущую, автопродолжение выключается.
func (m *Manager) PlayTrack(track catalog.Track, queue []catalog.Track) {
	m.mu.Lock()
	if len(queue) > 0 {
		m.queue = cloneTracks(queue)
		m.index = 0
		for i, t := range queue {
			if t.ID == track.ID {
				m.index = i
				break
			}
		}
	} else {
		m.queue = nil
		m.index = 0
	}
	m.themePlaying = false
	gen, src := m.loadLocked(track)
	m.mu.Unlock()

	m.logger.Info("Воспроизведение трека",
		zap.String("track_id", track.ID),
		zap.Int("queue_len", len(queue)))
	m.attemptPlay(gen, src, playRetries)
}

// TogglePlayPause ставит трек на паузу или продолжает воспроизведение
func (m *Manager) TogglePlayPause() {
	m.mu.Lock()
	if m.current == nil {
		m.mu.Unlock()
		return
	}

	if m.state == Playing || m.state == Loading {
		m.generation++
		m.state = Paused
		m.device.Pause()
		m.mu.Unlock()
		return
	}

	m.generation++
	gen := m.generation
	src := m.current.AudioURL
	if m.device.Source() != src {
		m.device.SetSource(src)
		m.device.SetPosition(m.position)
	} else if m.state == Idle {
		// трек доигран, начинаем сначала
		m.device.SetPosition(0)
	}
	if !m.device.Buffered() {
		m.device.Load()
	}
	m.state = Loading
	m.mu.Unlock()

	m.attemptPlay(gen, src, playRetries)
}

// PlayNext переходит к следующему треку очереди по кругу
func (m *Manager) PlayNext() {
	m.step(1)
}

// PlayPrevious переходит к предыдущему треку очереди по кругу
func (m *Manager) PlayPrevious() {
	m.step(-1)
}

func (m *Manager) step(delta int) {
	m.mu.Lock()
	gen, src, ok := m.stepLocked(delta)
	m.mu.Unlock()

	if ok {
		m.attemptPlay(gen, src, playRetries)
	}
}

// advance продолжает очередь после окончания трека.
// Пропускается, если с тех пор сессию изменили.
func (m *Manager) advance(endedGen uint64) {
	m.mu.Lock()
	if endedGen != m.generation || m.state != Idle {
		m.mu.Unlock()
		m.logger.Debug("Автопродолжение отменено")
		return
	}
	gen, src, ok := m.stepLocked(1)
	m.mu.Unlock()

	if ok {
		m.attemptPlay(gen, src, playRetries)
	}
}

func (m *Manager) stepLocked(delta int) (uint64, string, bool) {
	n := len(m.queue)
	if n == 0 {
		return 0, "", false
	}

	m.index = ((m.index+delta)%n + n) % n
	m.themePlaying = false
	gen, src := m.loadLocked(m.queue[m.index])
	return gen, src, true
}

// SetVolume сохраняет громкость и сразу передает ее устройству
func (m *Manager) SetVolume(v float64) {
	v = clampVolume(v)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = v
	m.device.SetVolume(v)
}

// Seek перематывает трек. Пока длительность неизвестна, ничего не делает.
func (m *Manager) Seek(position time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.duration <= 0 {
		return
	}
	m.device.SetPosition(position)
	m.position = position
}

// Stop останавливает воспроизведение и сбрасывает текущий трек
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

// Close останавливает воспроизведение и закрывает устройство
func (m *Manager) Close() error {
	m.Stop()
	return m.device.Close()
}

func (m *Manager) stopLocked() {
	m.generation++
	m.device.Pause()
	m.device.SetPosition(0)
	m.current = nil
	m.state = Idle
	m.position = 0
	m.duration = 0
	m.themePlaying = false
}

// loadLocked назначает трек устройству и открывает новое поколение
func (m *Manager) loadLocked(track catalog.Track) (uint64, string) {
	m.generation++

	t := track.Clone()
	m.current = &t
	m.state = Loading
	m.position = 0
	m.duration = 0

	m.device.Pause()
	m.device.SetSource(t.AudioURL)
	m.device.SetPosition(0)
	m.device.Load()

	return m.generation, t.AudioURL
}

// isCurrentLocked проверяет, что завершение относится к актуальному запросу
func (m *Manager) isCurrentLocked(gen uint64, src string) bool {
	return gen == m.generation && m.current != nil && m.device.Source() == src
}

// wantsLocked сообщает, что сессия ждет или ведет воспроизведение src
func (m *Manager) wantsLocked(src string) bool {
	return m.current != nil && m.current.AudioURL == src && (m.state == Playing || m.state == Loading)
}

// attemptPlay - общий запуск воспроизведения для всех операций.
// Вызывается без удержания мьютекса: устройство может вызвать done синхронно.
func (m *Manager) attemptPlay(gen uint64, src string, retriesLeft int) {
	m.device.Play(func(err error) {
		m.playDone(gen, src, retriesLeft, err)
	})
}

func (m *Manager) playDone(gen uint64, src string, retriesLeft int, err error) {
	m.mu.Lock()
	if !m.isCurrentLocked(gen, src) {
		// Устройство уже играет то, что сессия остановила
		if err == nil && m.device.Source() == src && !m.wantsLocked(src) {
			m.device.Pause()
		}
		m.mu.Unlock()
		m.logger.Debug("Устаревшее завершение воспроизведения отброшено", zap.String("url", src))
		return
	}

	if err == nil {
		m.state = Playing
		m.mu.Unlock()
		return
	}

	if retriesLeft <= 0 {
		m.state = Paused
		m.mu.Unlock()
		m.logger.Error("Не удалось воспроизвести трек", zap.String("url", src), zap.Error(err))
		return
	}
	m.mu.Unlock()

	m.logger.Warn("Повторная попытка воспроизведения",
		zap.String("url", src),
		zap.Duration("delay", retryDelay),
		zap.Error(err))

	m.after(retryDelay, func() {
		m.mu.Lock()
		if !m.isCurrentLocked(gen, src) {
			m.mu.Unlock()
			return
		}
		if !m.device.Buffered() {
			m.device.Load()
		}
		m.mu.Unlock()

		m.attemptPlay(gen, src, retriesLeft-1)
	})
}

// handleEvent переносит уведомления устройства в сессию.
// События чужого источника игнорируются.
func (m *Manager) handleEvent(ev Event) {
	m.mu.Lock()
	if m.current == nil || ev.Source != m.current.AudioURL {
		m.mu.Unlock()
		return
	}

	switch ev.Kind {
	case TimeUpdate:
		m.position = ev.Position
		m.mu.Unlock()

	case MetadataLoaded:
		m.duration = ev.Duration
		m.mu.Unlock()

	case PlaybackError:
		m.generation++
		m.state = Paused
		m.mu.Unlock()
		m.logger.Error("Ошибка воспроизведения", zap.String("url", ev.Source), zap.Error(ev.Err))

	case Ended:
		m.state = Idle
		m.position = 0
		theme := m.themePlaying
		m.themePlaying = false
		gen := m.generation
		m.mu.Unlock()

		m.logger.Debug("Трек доигран", zap.String("url", ev.Source))
		if !theme {
			m.after(advanceDelay, func() { m.advance(gen) })
		}

	default:
		m.mu.Unlock()
	}
}
