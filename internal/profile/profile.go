// Package profile хранит локальные данные пользователя между запусками
package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ErrNoYearOfBirth - год рождения не указан
var ErrNoYearOfBirth = errors.New("год рождения не указан")

// Profile - локальный профиль пользователя
type Profile struct {
	UserUUID      string            `yaml:"user_uuid"`
	YearOfBirth   int               `yaml:"year_of_birth,omitempty"`
	SocialHandles map[string]string `yaml:"social_handles,omitempty"`
}

// Load читает профиль из файла. Отсутствующий файл дает пустой профиль.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Profile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения профиля: %w", err)
	}

	p := &Profile{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("ошибка разбора профиля: %w", err)
	}
	return p, nil
}

// Save записывает профиль в файл
func (p *Profile) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("ошибка сериализации профиля: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("ошибка создания каталога профиля: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("ошибка записи профиля: %w", err)
	}
	return nil
}

// EnsureUserID генерирует идентификатор, если его нет. Возвращает true, если он создан.
func (p *Profile) EnsureUserID() bool {
	if p.UserUUID != "" {
		return false
	}
	p.UserUUID = uuid.NewString()
	return true
}

// Ensure загружает профиль и гарантирует, что идентификатор сохранен на диск.
// Если сохранить новый идентификатор не удалось, возвращается ошибка:
// несохраненный идентификатор использовать нельзя.
func Ensure(path string) (*Profile, error) {
	p, err := Load(path)
	if err != nil {
		return nil, err
	}
	if p.EnsureUserID() {
		if err := p.Save(path); err != nil {
			return nil, fmt.Errorf("не удалось сохранить идентификатор пользователя: %w", err)
		}
	}
	return p, nil
}

// Age возвращает возраст на момент now
func (p *Profile) Age(now time.Time) (int, error) {
	if p.YearOfBirth == 0 {
		return 0, ErrNoYearOfBirth
	}
	return now.Year() - p.YearOfBirth, nil
}

// SetYearOfBirth проверяет и задает год рождения
func (p *Profile) SetYearOfBirth(year int, now time.Time) error {
	if year < 1900 || year > now.Year() {
		return fmt.Errorf("некорректный год рождения: %d", year)
	}
	p.YearOfBirth = year
	return nil
}

// SetHandle задает имя в соцсети. Пустое имя удаляет запись.
func (p *Profile) SetHandle(network, handle string) error {
	network = strings.ToLower(strings.TrimSpace(network))
	handle = strings.TrimSpace(handle)
	if network == "" {
		return errors.New("не указана соцсеть")
	}

	if handle == "" {
		delete(p.SocialHandles, network)
		return nil
	}
	if p.SocialHandles == nil {
		p.SocialHandles = make(map[string]string)
	}
	p.SocialHandles[network] = handle
	return nil
}

// Networks возвращает соцсети профиля в алфавитном порядке
func (p *Profile) Networks() []string {
	networks := make([]string, 0, len(p.SocialHandles))
	for network := range p.SocialHandles {
		networks = append(networks, network)
	}
	sort.Strings(networks)
	return networks
}

// Reset удаляет все данные профиля
func (p *Profile) Reset() {
	*p = Profile{}
}
