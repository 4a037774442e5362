// Package recommend подбирает саундтрек к тексту вопроса
package recommend

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Match - результат сопоставления: плейлисты-кандидаты и основное настроение
type Match struct {
	Playlists []string `yaml:"playlists"`
	Mood      string   `yaml:"mood"`
}

// KeywordRule связывает ключевое слово вопроса с подборкой
type KeywordRule struct {
	Keyword string `yaml:"keyword"`
	Match   Match  `yaml:"match"`
}

// FallbackRule срабатывает, если код блока содержит одну из подстрок
type FallbackRule struct {
	Contains []string `yaml:"contains"`
	Match    Match    `yaml:"match"`
}

// Rules - таблица правил подбора. Порядок правил определяет порядок просмотра.
type Rules struct {
	Keywords  []KeywordRule  `yaml:"keywords"`
	Fallbacks []FallbackRule `yaml:"fallbacks"`
	Default   Match          `yaml:"default"`
}

var (
	loveMatch     = Match{Playlists: []string{"Love", "Believe"}, Mood: "soft, believing"}
	hurtMatch     = Match{Playlists: []string{"Hurt", "Spiral"}, Mood: "bitter, believing"}
	believeMatch  = Match{Playlists: []string{"Believe", "Inspiring"}, Mood: "believing"}
	calmMatch     = Match{Playlists: []string{"Soft", "Lowkey"}, Mood: "soft, believing"}
	familyMatch   = Match{Playlists: []string{"Family"}, Mood: "soft, believing"}
	fallbackMatch = Match{Playlists: []string{"Believe"}, Mood: "believing"}
)

// DefaultRules возвращает стандартную таблицу ключевых слов
func DefaultRules() Rules {
	keywords := func(m Match, words ...string) []KeywordRule {
		rules := make([]KeywordRule, len(words))
		for i, w := range words {
			rules[i] = KeywordRule{Keyword: w, Match: m}
		}
		return rules
	}

	var rules Rules
	// Любовь и отношения
	rules.Keywords = append(rules.Keywords, keywords(loveMatch, "love", "relationship", "crush", "dating", "romantic")...)
	// Расставание и боль
	rules.Keywords = append(rules.Keywords, keywords(hurtMatch, "heartbreak", "breakup", "hurt", "pain", "sad", "lonely")...)
	// Уверенность
	rules.Keywords = append(rules.Keywords, keywords(believeMatch, "confidence", "empower", "strong", "courage", "brave")...)
	// Тревога и стресс
	rules.Keywords = append(rules.Keywords, keywords(calmMatch, "anxiety", "stress", "worried", "nervous")...)
	// Друзья
	rules.Keywords = append(rules.Keywords, keywords(loveMatch, "friend", "social", "belong", "included")...)
	// Семья
	rules.Keywords = append(rules.Keywords, keywords(familyMatch, "family", "home", "parent")...)
	// Школа и будущее
	rules.Keywords = append(rules.Keywords, keywords(believeMatch, "school", "study", "learn", "future")...)
	// Самоопределение
	rules.Keywords = append(rules.Keywords, keywords(believeMatch, "identity", "discover", "myself", "who i am")...)

	rules.Fallbacks = []FallbackRule{
		{Contains: []string{"love", "relationship"}, Match: loveMatch},
		{Contains: []string{"family"}, Match: familyMatch},
		{Contains: []string{"school"}, Match: believeMatch},
	}
	rules.Default = fallbackMatch

	return rules
}

// LoadRules загружает таблицу правил из YAML-файла
func LoadRules(filePath string) (Rules, error) {
	path := filePath
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return Rules{}, err
		}
		path = strings.Replace(path, "~", home, 1)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("ошибка чтения файла правил: %w", err)
	}

	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("ошибка разбора правил: %w", err)
	}
	for i, r := range rules.Keywords {
		if r.Keyword == "" {
			return Rules{}, fmt.Errorf("правило %d: пустое ключевое слово", i+1)
		}
		rules.Keywords[i].Keyword = strings.ToLower(r.Keyword)
	}
	if len(rules.Default.Playlists) == 0 {
		rules.Default = fallbackMatch
	}
	return rules, nil
}
