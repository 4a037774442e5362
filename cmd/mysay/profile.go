package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazadus/myworld-soundtrack/internal/profile"
)

// createProfileCommand создает команду profile
func (app *Application) createProfileCommand() *cobra.Command {
	var (
		reset   bool
		year    int
		handles []string
	)

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change the local profile",
		Long:  `Show the local profile. The user ID is generated and saved on first use.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.showProfile(reset, year, handles, time.Now())
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "remove all profile data and generate a new user ID")
	cmd.Flags().IntVar(&year, "year", 0, "set the year of birth")
	cmd.Flags().StringSliceVar(&handles, "handle", nil, "set a social handle as network=name; an empty name removes it")

	return cmd
}

func (app *Application) showProfile(reset bool, year int, handles []string, now time.Time) error {
	path := app.Config.ProfileFile

	if reset {
		p, err := profile.Load(path)
		if err != nil {
			return err
		}
		p.Reset()
		if err := p.Save(path); err != nil {
			return fmt.Errorf("ошибка сброса профиля: %w", err)
		}
		fmt.Println("🧹 Профиль сброшен")
	}

	p, err := profile.Ensure(path)
	if err != nil {
		return err
	}

	changed := false
	if year != 0 {
		if err := p.SetYearOfBirth(year, now); err != nil {
			return err
		}
		changed = true
	}
	for _, h := range handles {
		network, name, ok := strings.Cut(h, "=")
		if !ok {
			return fmt.Errorf("неверный формат %q, ожидается соцсеть=имя", h)
		}
		if err := p.SetHandle(network, name); err != nil {
			return err
		}
		changed = true
	}
	if changed {
		if err := p.Save(path); err != nil {
			return fmt.Errorf("ошибка сохранения профиля: %w", err)
		}
	}

	fmt.Printf("👤 Профиль:\n")
	fmt.Printf("   ID: %s\n", p.UserUUID)
	switch age, err := p.Age(now); {
	case errors.Is(err, profile.ErrNoYearOfBirth):
		fmt.Printf("   Год рождения: не указан\n")
	case err != nil:
		return err
	default:
		fmt.Printf("   Год рождения: %d (%d лет)\n", p.YearOfBirth, age)
	}
	for _, network := range p.Networks() {
		fmt.Printf("   %s: %s\n", network, p.SocialHandles[network])
	}
	return nil
}
