package recommend

import (
	"strings"
	"unicode/utf8"

	"github.com/hazadus/myworld-soundtrack/internal/catalog"
)

const (
	// earlyPosition - ключевое слово, найденное раньше этой позиции, получает бонус
	earlyPosition = 20
	earlyBonus    = 5
	// contextLimit - максимальная длина контекста вопроса в символах
	contextLimit = 60
)

// Source - часть каталога, нужная для подбора
type Source interface {
	ByPlaylist(name string) []catalog.Track
}

// Recommendation - выбранный трек с пояснением
type Recommendation struct {
	Track           catalog.Track
	QuestionContext string // Текст вопроса, обрезанный до 60 символов
	Keyword         string // Сработавшее ключевое слово; пусто, если использован код блока
	Score           int
}

// Matcher подбирает один трек по тексту вопроса
type Matcher struct {
	source Source
	rules  Rules
}

// NewMatcher создает новый подборщик
func NewMatcher(source Source, rules Rules) *Matcher {
	return &Matcher{
		source: source,
		rules:  rules,
	}
}

// Recommend возвращает лучший трек для вопроса или nil, если подобрать нечего
func (m *Matcher) Recommend(questionText, blockCode string) *Recommendation {
	if questionText == "" {
		return nil
	}

	match, keyword, score := m.bestKeyword(strings.ToLower(questionText))
	if keyword == "" {
		match = m.fallback(blockCode)
	}

	var candidates []catalog.Track
	for _, playlist := range match.Playlists {
		candidates = append(candidates, m.source.ByPlaylist(playlist)...)
	}
	candidates = catalog.Unique(candidates)

	if match.Mood != "" {
		primary := strings.ToLower(strings.TrimSpace(strings.Split(match.Mood, ",")[0]))
		filtered := candidates[:0:0]
		for _, t := range candidates {
			if strings.Contains(strings.ToLower(t.Mood()), primary) {
				filtered = append(filtered, t)
			}
		}
		candidates = filtered
	}

	if len(candidates) == 0 {
		return nil
	}

	chosen := candidates[0]
	for _, t := range candidates {
		if t.Featured {
			chosen = t
			break
		}
	}

	return &Recommendation{
		Track:           chosen.Clone(),
		QuestionContext: questionContext(questionText),
		Keyword:         keyword,
		Score:           score,
	}
}

// bestKeyword ищет ключевое слово с наибольшим счетом. При равенстве остается первое найденное.
func (m *Matcher) bestKeyword(text string) (Match, string, int) {
	var (
		best      Match
		bestWord  string
		bestScore int
	)
	for _, rule := range m.rules.Keywords {
		idx := strings.Index(text, rule.Keyword)
		if idx < 0 {
			continue
		}
		score := utf8.RuneCountInString(rule.Keyword)
		if utf8.RuneCountInString(text[:idx]) < earlyPosition {
			score += earlyBonus
		}
		if score > bestScore {
			best, bestWord, bestScore = rule.Match, rule.Keyword, score
		}
	}
	return best, bestWord, bestScore
}

func (m *Matcher) fallback(blockCode string) Match {
	for _, rule := range m.rules.Fallbacks {
		for _, s := range rule.Contains {
			if strings.Contains(blockCode, s) {
				return rule.Match
			}
		}
	}
	return m.rules.Default
}

func questionContext(text string) string {
	if utf8.RuneCountInString(text) <= contextLimit {
		return text
	}
	return string([]rune(text)[:contextLimit]) + "..."
}
