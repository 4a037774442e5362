package audio

import (
	"go.uber.org/zap"

	"github.com/hazadus/myworld-soundtrack/internal/catalog"
)

// SetThemeTrack задает трек темы
func (m *Manager) SetThemeTrack(track catalog.Track) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := track.Clone()
	m.theme = &t
}

// ThemeEnabled сообщает, включена ли тема
func (m *Manager) ThemeEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.themeEnabled
}

// ToggleTheme включает или выключает тему и возвращает новое состояние.
// При включении тема запускается, если ничего не играет.
// При выключении играющая тема останавливается.
func (m *Manager) ToggleTheme() bool {
	m.mu.Lock()
	m.themeEnabled = !m.themeEnabled
	enabled := m.themeEnabled
	idle := m.state != Playing && m.state != Loading
	m.mu.Unlock()

	if enabled {
		if idle {
			m.PlayTheme()
		}
	} else {
		m.StopTheme()
	}
	return enabled
}

// PlayTheme запускает тему поверх текущего трека. Очередь не меняется.
// Возвращает false, если тема выключена или не задана.
func (m *Manager) PlayTheme() bool {
	m.mu.Lock()
	if !m.themeEnabled || m.theme == nil {
		m.mu.Unlock()
		return false
	}
	m.themePlaying = true
	gen, src := m.loadLocked(*m.theme)
	id := m.theme.ID
	m.mu.Unlock()

	m.logger.Info("Воспроизведение темы", zap.String("track_id", id))
	m.attemptPlay(gen, src, playRetries)
	return true
}

// StopTheme останавливает тему, если она играет
func (m *Manager) StopTheme() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.themePlaying {
		m.stopLocked()
	}
}

// AutoPlayTheme запускает тему, только если она включена и ничего не загружено
func (m *Manager) AutoPlayTheme() bool {
	m.mu.Lock()
	busy := m.current != nil || m.state == Playing
	m.mu.Unlock()

	if busy {
		return false
	}
	return m.PlayTheme()
}
