package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/arisan/internal/models"
	"github.com/mmynk/arisan/internal/storage"
)

// ErrSettingsUnresolved means no settings exist for the month, the month
// before it, and no default is configured.
var ErrSettingsUnresolved = errors.New("settings not configured for this month")

// DefaultMainAmount is the canonical main contribution used when neither the
// requested month nor the one before it has a settings document.
var DefaultMainAmount = decimal.NewFromInt(50000)

// Source tells which lookup answered a Resolve call.
type Source string

const (
	SourceExact    Source = "exact"
	SourcePrevious Source = "previous"
	SourceDefault  Source = "default"
)

// SettingsReader is the part of storage.Store the resolver needs.
type SettingsReader interface {
	GetSettings(ctx context.Context, monthKey string) (*models.ContributionSettings, error)
}

// Resolution is the effective settings for a month.
type Resolution struct {
	Settings *models.ContributionSettings
	Source   Source
}

// Resolver finds the effective contribution settings of a month.
type Resolver struct {
	store    SettingsReader
	defaults *models.ContributionSettings
}

// NewResolver creates a resolver. defaults may be nil, in which case months
// without settings fail with ErrSettingsUnresolved.
func NewResolver(store SettingsReader, defaults *models.ContributionSettings) *Resolver {
	return &Resolver{store: store, defaults: defaults}
}

// DefaultSettings returns the fallback settings with the given main amount and
// every other category at zero.
func DefaultSettings(main decimal.Decimal) *models.ContributionSettings {
	return &models.ContributionSettings{
		Main:        main,
		Cash:        decimal.Zero,
		Sick:        decimal.Zero,
		Bereavement: decimal.Zero,
		Others:      []models.OtherContribution{},
	}
}

// Resolve returns the settings stored for month, else those of the month
// directly before it, else the defaults. It looks back exactly one month.
// Store failures are returned as-is and not retried.
func (r *Resolver) Resolve(ctx context.Context, month models.MonthKey) (*Resolution, error) {
	cs, err := r.lookup(ctx, month)
	if err != nil {
		return nil, err
	}
	if cs != nil {
		return &Resolution{Settings: cs, Source: SourceExact}, nil
	}

	cs, err = r.lookup(ctx, month.Previous())
	if err != nil {
		return nil, err
	}
	if cs != nil {
		return &Resolution{Settings: cs, Source: SourcePrevious}, nil
	}

	if r.defaults == nil {
		return nil, fmt.Errorf("%w: %s", ErrSettingsUnresolved, month)
	}
	def := *r.defaults
	def.MonthKey = month.String()
	def.Others = append([]models.OtherContribution(nil), r.defaults.Others...)
	return &Resolution{Settings: &def, Source: SourceDefault}, nil
}

// lookup returns nil, nil when the month has no document.
func (r *Resolver) lookup(ctx context.Context, month models.MonthKey) (*models.ContributionSettings, error) {
	cs, err := r.store.GetSettings(ctx, month.String())
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings for %s: %w", month, err)
	}
	return cs, nil
}
