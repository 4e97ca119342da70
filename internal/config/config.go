// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"

	"github.com/finopskit/master-budget/internal/budget"
	"github.com/finopskit/master-budget/pkg/constants"
	"github.com/finopskit/master-budget/pkg/schedule"
	"github.com/finopskit/master-budget/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for master-budget.
type Configuration struct {
	Policy  budget.Policy `yaml:"policy,omitempty"`
	Inputs  InputsConfig  `yaml:"inputs,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
}

// InputsConfig points at the table files to load, CSV or XLSX. An empty path
// skips that table; the calculation degrades accordingly.
type InputsConfig struct {
	CVP       string `yaml:"cvp,omitempty"`
	Forecast  string `yaml:"forecast,omitempty"`
	Inventory string `yaml:"inventory,omitempty"`
	BOM       string `yaml:"bom,omitempty"`
	Rates     string `yaml:"rates,omitempty"`
	Expenses  string `yaml:"expenses,omitempty"`
	Statement string `yaml:"statement,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Policy keys absent from the file take the default
// policy values, so a config file only needs to name the knobs it changes.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	setPolicyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := v.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// setPolicyDefaults registers the default policy in viper's defaults layer.
// Values from the config file shadow these key by key.
func setPolicyDefaults(v *viper.Viper) {
	defaults := budget.DefaultPolicy()

	v.SetDefault("policy.cashSalesPct", defaults.CashSalesPct)
	v.SetDefault("policy.collections", lagBucketMaps(defaults.Collections))
	v.SetDefault("policy.immediatePaymentPct", defaults.ImmediatePaymentPct)
	v.SetDefault("policy.creditorLags", lagBucketMaps(defaults.CreditorLags))
	v.SetDefault("policy.wageTiming", defaults.WageTiming)
	v.SetDefault("policy.overheadTiming", defaults.OverheadTiming)
	v.SetDefault("policy.depreciation", defaults.Depreciation)
	v.SetDefault("policy.fixedAllocBase", defaults.FixedAllocBase)
	v.SetDefault("policy.openingCash", defaults.OpeningCash)
	v.SetDefault("output.format", constants.OutputFormatPretty)
}

// lagBucketMaps converts buckets to the generic form viper stores defaults in.
func lagBucketMaps(buckets []schedule.LagBucket) []map[string]interface{} {
	out := make([]map[string]interface{}, len(buckets))
	for i, bucket := range buckets {
		out[i] = map[string]interface{}{
			"lagMonths": bucket.LagMonths,
			"pct":       bucket.Pct,
		}
	}
	return out
}

// Validate checks the policy and output settings. Hard errors stop a run;
// warnings report splits that leave part of a credit balance uncollected.
func (conf *Configuration) Validate() ([]string, error) {
	var warnings []string

	percentages := []struct {
		name string
		pct  float64
	}{
		{"cashSalesPct", conf.Policy.CashSalesPct},
		{"immediatePaymentPct", conf.Policy.ImmediatePaymentPct},
	}
	for _, p := range percentages {
		if err := validation.ValidatePercentage(p.name, p.pct); err != nil {
			return warnings, err
		}
	}

	amounts := []struct {
		name  string
		value float64
	}{
		{"depreciation", conf.Policy.Depreciation},
		{"laborHoursPerUnit", conf.Policy.LaborHoursPerUnit},
		{"laborRate", conf.Policy.LaborRate},
		{"variableOverheadRate", conf.Policy.VariableOverheadRate},
		{"fixedOverhead", conf.Policy.FixedOverhead},
	}
	for _, a := range amounts {
		if err := validation.ValidateNonNegative(a.name, a.value); err != nil {
			return warnings, err
		}
	}

	if err := validation.ValidateAllocBase(conf.Policy.FixedAllocBase); err != nil {
		return warnings, err
	}
	if _, err := schedule.LagForTiming(conf.Policy.WageTiming); err != nil {
		return warnings, fmt.Errorf("wageTiming: %w", err)
	}
	if _, err := schedule.LagForTiming(conf.Policy.OverheadTiming); err != nil {
		return warnings, fmt.Errorf("overheadTiming: %w", err)
	}

	warning, err := schedule.ValidateSplit("collections", conf.Policy.Collections)
	if err != nil {
		return warnings, err
	}
	if warning != "" {
		warnings = append(warnings, warning)
	}

	warning, err = schedule.ValidateSplit("creditor payments", conf.Policy.CreditorLags)
	if err != nil {
		return warnings, err
	}
	if warning != "" {
		warnings = append(warnings, warning)
	}

	if conf.Output.Format != "" {
		if err := validation.ValidateOutputFormat(conf.Output.Format); err != nil {
			return warnings, err
		}
	}

	return warnings, nil
}
