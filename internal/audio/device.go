// Package audio управляет сессией воспроизведения поверх одного аудиоустройства
package audio

import "time"

// EventKind - тип уведомления устройства
type EventKind int

const (
	// TimeUpdate - изменилась позиция воспроизведения
	TimeUpdate EventKind = iota
	// MetadataLoaded - стала известна длительность трека
	MetadataLoaded
	// PlaybackError - воспроизведение прервано ошибкой
	PlaybackError
	// Ended - трек доигран до конца
	Ended
)

func (k EventKind) String() string {
	switch k {
	case TimeUpdate:
		return "time_update"
	case MetadataLoaded:
		return "metadata_loaded"
	case PlaybackError:
		return "playback_error"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// Event - уведомление от устройства
type Event struct {
	Kind     EventKind
	Source   string // URL, к которому относится событие
	Position time.Duration
	Duration time.Duration
	Err      error
}

// Device - единственное устройство воспроизведения, которым владеет Manager.
//
// SetSource, Load, Pause, SetPosition и SetVolume не блокируются и не вызывают
// обработчик событий синхронно. Play запускает воспроизведение асинхронно и
// сообщает результат через done, возможно из другой горутины.
type Device interface {
	SetSource(url string)
	Source() string
	// Load запрашивает буферизацию текущего источника
	Load()
	// Buffered сообщает, есть ли у устройства загруженные данные текущего источника
	Buffered() bool
	Play(done func(error))
	Pause()
	SetPosition(d time.Duration)
	// SetVolume принимает громкость в диапазоне [0, 1]
	SetVolume(v float64)
	SetEventHandler(h func(Event))
	Close() error
}
