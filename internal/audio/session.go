package audio

import (
	"time"

	"github.com/hazadus/myworld-soundtrack/internal/catalog"
)

// State - состояние сессии воспроизведения
type State int

const (
	// Idle - ничего не воспроизводится
	Idle State = iota
	// Loading - источник назначен, ожидаем начала воспроизведения
	Loading
	// Playing - трек воспроизводится
	Playing
	// Paused - трек на паузе или воспроизведение не удалось
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// Session - снимок состояния воспроизведения для интерфейса
type Session struct {
	CurrentTrack *catalog.Track
	State        State
	IsPlaying    bool
	Position     time.Duration
	Duration     time.Duration
	Volume       float64
	Queue        []catalog.Track
	QueueIndex   int
	Theme        bool // Сейчас играет тема
}

// HasQueue сообщает, включено ли автопродолжение
func (s Session) HasQueue() bool {
	return len(s.Queue) > 0
}

func cloneTracks(tracks []catalog.Track) []catalog.Track {
	if tracks == nil {
		return nil
	}
	result := make([]catalog.Track, len(tracks))
	for i, t := range tracks {
		result[i] = t.Clone()
	}
	return result
}

func clampVolume(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
