package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Years:       10,
		WarmupYears: 2,
		NInsureds:   100,
		Insurers: []InsurerConfig{
			{ID: 1, InitialCapital: 1_000_000, TargetLossRatio: 0.65, EWMACredibility: 0.3},
		},
		Catastrophe: CatastropheConfig{
			Territories: []string{"T1"},
			EventClasses: []CatEventClassConfig{
				{Label: "Wind", AnnualFrequency: 0.2, ParetoShape: 1.5},
			},
		},
	}
}

func TestValidate_AcceptsWellFormedConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RejectsZeroYears(t *testing.T) {
	cfg := validConfig()
	cfg.Years = 0
	require.Error(t, cfg.Validate())
}

func TestValidate_AllowsWarmupYearsAtOrAboveYears(t *testing.T) {
	// WarmupYears and Years are independent (Years is analysis years only,
	// the run's total length is WarmupYears + Years), so there is no
	// relation between them to enforce.
	cfg := validConfig()
	cfg.WarmupYears = cfg.Years
	assert.NoError(t, cfg.Validate())

	cfg2 := validConfig()
	cfg2.WarmupYears = cfg2.Years + 10
	assert.NoError(t, cfg2.Validate())
}

func TestValidate_RejectsNegativeMaxRateOnLine(t *testing.T) {
	cfg := validConfig()
	cfg.MaxRateOnLine = -0.01
	require.Error(t, cfg.Validate())
}

func TestValidate_RejectsDuplicateInsurerIDs(t *testing.T) {
	cfg := validConfig()
	cfg.Insurers = append(cfg.Insurers, cfg.Insurers[0])
	require.Error(t, cfg.Validate())
}

func TestValidate_RejectsNonPositiveTargetLossRatio(t *testing.T) {
	cfg := validConfig()
	cfg.Insurers[0].TargetLossRatio = 0
	require.Error(t, cfg.Validate())
}

func TestValidate_RejectsEWMACredibilityOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Insurers[0].EWMACredibility = 1.5
	require.Error(t, cfg.Validate())

	cfg2 := validConfig()
	cfg2.Insurers[0].EWMACredibility = -0.1
	require.Error(t, cfg2.Validate())
}

func TestValidate_RejectsMissingTerritoriesWhenCatsEnabled(t *testing.T) {
	cfg := validConfig()
	cfg.Catastrophe.Territories = nil
	require.Error(t, cfg.Validate())
}

func TestValidate_AllowsMissingTerritoriesWhenCatsDisabled(t *testing.T) {
	cfg := validConfig()
	cfg.Catastrophe.Territories = nil
	cfg.DisableCats = true
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RejectsNonFiniteMeanParetoShape(t *testing.T) {
	cfg := validConfig()
	cfg.Catastrophe.EventClasses[0].ParetoShape = 1.0
	require.Error(t, cfg.Validate())
}
