// Package config loads and validates the simulator's YAML configuration,
// the richest structured input in the repository, with .env-style
// overrides for the run seed and output path.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// InsurerConfig is one insurer's static parameterization (spec.md §6).
type InsurerConfig struct {
	ID                        uint64   `yaml:"id"`
	InitialCapital            int64    `yaml:"initial_capital"`
	AttritionalELF            float64  `yaml:"attritional_elf"`
	CatELF                    float64  `yaml:"cat_elf"`
	TargetLossRatio           float64  `yaml:"target_loss_ratio"`
	EWMACredibility           float64  `yaml:"ewma_credibility"`
	ExpenseRatio              float64  `yaml:"expense_ratio"`
	ProfitLoading             float64  `yaml:"profit_loading"`
	NetLineCapacity           *float64 `yaml:"net_line_capacity,omitempty"`
	SolvencyCapitalFraction   *float64 `yaml:"solvency_capital_fraction,omitempty"`
	PMLDamageFractionOverride *float64 `yaml:"pml_damage_fraction_override,omitempty"`
	DepletionSensitivity      float64  `yaml:"depletion_sensitivity"`

	// Voluntary-runoff supplement (SPEC_FULL.md); 0 on either field disables it.
	RunoffCRThreshold    float64 `yaml:"runoff_cr_threshold,omitempty"`
	RunoffYearsToTrigger uint32  `yaml:"runoff_years_to_trigger,omitempty"`
}

// AttritionalConfig parameterizes the per-insured day-to-day loss process.
type AttritionalConfig struct {
	AnnualRate float64 `yaml:"annual_rate"`
	Mu         float64 `yaml:"mu"`
	Sigma      float64 `yaml:"sigma"`
}

// CatEventClassConfig is one configured catastrophe peril category.
type CatEventClassConfig struct {
	Label             string  `yaml:"label"`
	AnnualFrequency   float64 `yaml:"annual_frequency"`
	ParetoScale       float64 `yaml:"pareto_scale"`
	ParetoShape       float64 `yaml:"pareto_shape"`
	MaxDamageFraction float64 `yaml:"max_damage_fraction"`
}

// CatastropheConfig is the market-wide catastrophe parameterization.
type CatastropheConfig struct {
	EventClasses []CatEventClassConfig `yaml:"event_classes"`
	Territories  []string              `yaml:"territories"`
}

// Config is the full simulator configuration, loaded once at construction.
type Config struct {
	Seed                uint64  `yaml:"seed"`
	Years               uint32  `yaml:"years"`
	WarmupYears         uint32  `yaml:"warmup_years"`
	NInsureds           int     `yaml:"n_insureds"`
	MaxRateOnLine       float64 `yaml:"max_rate_on_line"`
	QuotesPerSubmission int     `yaml:"quotes_per_submission,omitempty"`
	DisableCats         bool    `yaml:"disable_cats"`

	// SmallAssetValue/LargeAssetValue/LargeFraction parameterize the
	// synthetic insured population: LargeFraction of insureds get
	// LargeAssetValue sum insured, the rest SmallAssetValue (grounded in
	// original_source/src/config.rs's canonical 90/10 split).
	SmallAssetValue uint64  `yaml:"small_asset_value"`
	LargeAssetValue uint64  `yaml:"large_asset_value"`
	LargeFraction   float64 `yaml:"large_fraction"`

	Insurers     []InsurerConfig   `yaml:"insurers"`
	Attritional  AttritionalConfig `yaml:"attritional"`
	Catastrophe  CatastropheConfig `yaml:"catastrophe"`

	LogLevel  string `yaml:"log_level"`
	LogPretty bool   `yaml:"log_pretty"`

	OutputPath string `yaml:"output_path"`
}

// Load reads path as YAML, applies .env overrides for seed and output
// path (mirroring the teacher's "try environment, fall back to default"
// pattern), and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// applyEnvOverrides loads a .env file if present (ignored if absent) and
// overrides the seed and output path from LLOYDS_SIM_SEED and
// LLOYDS_SIM_OUTPUT_PATH when those variables are set, the same
// override order the teacher's internal/config.Load uses.
func applyEnvOverrides(cfg *Config) {
	_ = godotenv.Load()
	if v, ok := os.LookupEnv("LLOYDS_SIM_SEED"); ok {
		var seed uint64
		if _, err := fmt.Sscanf(v, "%d", &seed); err == nil {
			cfg.Seed = seed
		}
	}
	if v, ok := os.LookupEnv("LLOYDS_SIM_OUTPUT_PATH"); ok && v != "" {
		cfg.OutputPath = v
	}
}

// Validate rejects configs that would force the kernel to do something
// undefined. Everything the kernel itself assumes (ConfigInvalid in
// spec.md §7) must be caught here, once, at construction.
//
// Years is the number of analysis years, independent of WarmupYears: the
// run's total length is WarmupYears + Years, matching the original
// simulator's analysis_years/total_years split. The two are not compared
// against each other.
func (c *Config) Validate() error {
	if c.Years == 0 {
		return fmt.Errorf("years must be > 0")
	}
	if c.MaxRateOnLine < 0 {
		return fmt.Errorf("max_rate_on_line must be >= 0")
	}
	seen := make(map[uint64]bool, len(c.Insurers))
	for _, ic := range c.Insurers {
		if seen[ic.ID] {
			return fmt.Errorf("duplicate insurer id %d", ic.ID)
		}
		seen[ic.ID] = true
		if ic.TargetLossRatio <= 0 {
			return fmt.Errorf("insurer %d: target_loss_ratio must be > 0", ic.ID)
		}
		if ic.EWMACredibility < 0 || ic.EWMACredibility > 1 {
			return fmt.Errorf("insurer %d: ewma_credibility must be in [0,1]", ic.ID)
		}
	}
	if !c.DisableCats {
		if len(c.Catastrophe.Territories) == 0 {
			return fmt.Errorf("catastrophe.territories must be non-empty unless disable_cats is set")
		}
		for _, ec := range c.Catastrophe.EventClasses {
			if ec.ParetoShape <= 1 {
				return fmt.Errorf("event class %s: pareto_shape must be > 1 for a finite mean", ec.Label)
			}
		}
	}
	return nil
}
