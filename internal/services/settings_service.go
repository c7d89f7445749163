package services

import (
	"context"
	"fmt"
	"strings"

	"budget/internal/core"
	"budget/internal/ports"
)

// SettingsService resolves the display currency. Every call goes to the
// store; nothing is cached in process.
type SettingsService struct {
	store    ports.SettingsStore
	fallback core.Currency
	events   publisher
}

func NewSettingsService(store ports.SettingsStore, fallback core.Currency, events ports.EventPublisher, clock ports.Clock) *SettingsService {
	if fallback.Validate() != nil {
		fallback = core.DefaultCurrency
	}
	return &SettingsService{
		store:    store,
		fallback: fallback,
		events:   publisher{events: events, now: clockOrNow(clock)},
	}
}

// Get returns the settings, creating them with the default currency on first use.
func (s *SettingsService) Get(ctx context.Context) (core.Settings, error) {
	settings, err := s.store.GetSettings(ctx, s.fallback)
	if err != nil {
		return core.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

func (s *SettingsService) UpdateCurrency(ctx context.Context, c core.Currency) (core.Settings, error) {
	if err := c.Validate(); err != nil {
		return core.Settings{}, core.NewValidationError("currency", "currency must be one of "+currencyList(), err)
	}

	settings, err := s.store.SetCurrency(ctx, c)
	if err != nil {
		return core.Settings{}, fmt.Errorf("update currency: %w", err)
	}

	s.events.publish(ctx, ports.EntitySettings, ports.ActionUpdated, settings.ID)
	return settings, nil
}

func currencyList() string {
	codes := make([]string, 0, len(core.Currencies()))
	for _, c := range core.Currencies() {
		codes = append(codes, string(c))
	}
	return strings.Join(codes, ", ")
}
