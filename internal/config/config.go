// Package config loads engine and CLI settings with viper and reads pool files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/context-priority/internal/deps"
	"github.com/rcliao/context-priority/internal/engine"
	cperrors "github.com/rcliao/context-priority/internal/errors"
	"github.com/rcliao/context-priority/internal/model"
	"github.com/rcliao/context-priority/internal/planner"
	"github.com/rcliao/context-priority/internal/selector"
)

// EnvPrefix prefixes every environment override, e.g. CONTEXT_PRIORITY_BUDGET.
const EnvPrefix = "CONTEXT_PRIORITY"

// Config is the full configuration.
type Config struct {
	DBPath       string             `json:"db_path" yaml:"db_path" mapstructure:"db_path"`
	LogLevel     string             `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	Scope        string             `json:"scope" yaml:"scope" mapstructure:"scope"`
	Budget       int                `json:"budget" yaml:"budget" mapstructure:"budget"`
	Selector     SelectorConfig     `json:"selector" yaml:"selector" mapstructure:"selector"`
	Dependencies DependenciesConfig `json:"dependencies" yaml:"dependencies" mapstructure:"dependencies"`
	Planner      PlannerConfig      `json:"planner" yaml:"planner" mapstructure:"planner"`
}

// SelectorConfig tunes the budgeted selector.
type SelectorConfig struct {
	OverrunFactor float64 `json:"overrun_factor" yaml:"overrun_factor" mapstructure:"overrun_factor"`
	PinBonus      float64 `json:"pin_bonus" yaml:"pin_bonus" mapstructure:"pin_bonus"`
}

// DependenciesConfig picks which relationships count as dependencies.
type DependenciesConfig struct {
	IncludeKinds   []string `json:"include_kinds" yaml:"include_kinds" mapstructure:"include_kinds"`
	IncludeHasPart bool     `json:"include_has_part" yaml:"include_has_part" mapstructure:"include_has_part"`
	Bidirectional  bool     `json:"bidirectional" yaml:"bidirectional" mapstructure:"bidirectional"`
}

// PlannerConfig tunes the unfold planner.
type PlannerConfig struct {
	TopK            int    `json:"top_k" yaml:"top_k" mapstructure:"top_k"`
	MaxCandidates   int    `json:"max_candidates" yaml:"max_candidates" mapstructure:"max_candidates"`
	MaxClosureNodes int    `json:"max_closure_nodes" yaml:"max_closure_nodes" mapstructure:"max_closure_nodes"`
	Direction       string `json:"direction" yaml:"direction" mapstructure:"direction"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DBPath:   filepath.Join(Home(), "workspace.db"),
		LogLevel: "warn",
		Scope:    "default",
		Budget:   planner.DefaultBudget,
		Selector: SelectorConfig{
			OverrunFactor: selector.DefaultOverrunFactor,
			PinBonus:      selector.DefaultPinBonus,
		},
		Dependencies: DependenciesConfig{
			IncludeKinds:   []string{},
			IncludeHasPart: false,
			Bidirectional:  true,
		},
		Planner: PlannerConfig{
			TopK:            planner.DefaultTopK,
			MaxCandidates:   planner.DefaultMaxCandidates,
			MaxClosureNodes: planner.DefaultMaxClosureNodes,
			Direction:       string(deps.DirectionBoth),
		},
	}
}

// Home is the directory holding config.yaml and the default workspace.
func Home() string {
	if h := os.Getenv(EnvPrefix + "_HOME"); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".context-priority"
	}
	return filepath.Join(home, ".context-priority")
}

// Load reads configuration from defaults, then the YAML file at path (or config.yaml
// under Home when path is empty), then CONTEXT_PRIORITY_* environment variables.
// A missing file is only an error when path was given explicitly.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Home())
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("db_path", d.DBPath)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("scope", d.Scope)
	v.SetDefault("budget", d.Budget)
	v.SetDefault("selector.overrun_factor", d.Selector.OverrunFactor)
	v.SetDefault("selector.pin_bonus", d.Selector.PinBonus)
	v.SetDefault("dependencies.include_kinds", d.Dependencies.IncludeKinds)
	v.SetDefault("dependencies.include_has_part", d.Dependencies.IncludeHasPart)
	v.SetDefault("dependencies.bidirectional", d.Dependencies.Bidirectional)
	v.SetDefault("planner.top_k", d.Planner.TopK)
	v.SetDefault("planner.max_candidates", d.Planner.MaxCandidates)
	v.SetDefault("planner.max_closure_nodes", d.Planner.MaxClosureNodes)
	v.SetDefault("planner.direction", d.Planner.Direction)
}

// withDefaults fills zero-valued numeric and string fields.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.DBPath == "" {
		c.DBPath = d.DBPath
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Scope == "" {
		c.Scope = d.Scope
	}
	if c.Budget == 0 {
		c.Budget = d.Budget
	}
	if c.Selector.OverrunFactor == 0 {
		c.Selector.OverrunFactor = d.Selector.OverrunFactor
	}
	if c.Selector.PinBonus == 0 {
		c.Selector.PinBonus = d.Selector.PinBonus
	}
	if c.Planner.TopK == 0 {
		c.Planner.TopK = d.Planner.TopK
	}
	if c.Planner.MaxCandidates == 0 {
		c.Planner.MaxCandidates = d.Planner.MaxCandidates
	}
	if c.Planner.MaxClosureNodes == 0 {
		c.Planner.MaxClosureNodes = d.Planner.MaxClosureNodes
	}
	if c.Planner.Direction == "" {
		c.Planner.Direction = d.Planner.Direction
	}
	return c
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Selector.OverrunFactor < 1 {
		return cperrors.Invalid("selector.overrun_factor", "must be >= 1, got %g", c.Selector.OverrunFactor)
	}
	if c.Budget < 0 {
		return cperrors.Invalid("budget", "must not be negative, got %d", c.Budget)
	}
	switch deps.Direction(strings.ToLower(c.Planner.Direction)) {
	case deps.DirectionOut, deps.DirectionIn, deps.DirectionBoth:
	default:
		return cperrors.Invalid("planner.direction", "unknown direction %q (valid: out, in, both)", c.Planner.Direction)
	}
	if c.Planner.TopK < 0 || c.Planner.MaxCandidates < 0 || c.Planner.MaxClosureNodes < 0 {
		return cperrors.Invalid("planner", "limits must not be negative")
	}
	return nil
}

// DependencyOptions converts the dependency section to deps.Options.
func (c *Config) DependencyOptions() deps.Options {
	return deps.Options{
		IncludeKinds:   c.Dependencies.IncludeKinds,
		IncludeHasPart: c.Dependencies.IncludeHasPart,
		Directed:       !c.Dependencies.Bidirectional,
	}
}

// EngineSettings converts the configuration to engine.Settings.
func (c *Config) EngineSettings() engine.Settings {
	return engine.Settings{
		Dependencies:  c.DependencyOptions(),
		OverrunFactor: c.Selector.OverrunFactor,
		PinBonus:      c.Selector.PinBonus,
	}
}

// PlanParams seeds planner parameters from the configuration.
func (c *Config) PlanParams() planner.PlanParams {
	return planner.PlanParams{
		TopK:            c.Planner.TopK,
		MaxCandidates:   c.Planner.MaxCandidates,
		Budget:          c.Budget,
		Direction:       deps.ParseDirection(strings.ToLower(c.Planner.Direction)),
		MaxClosureNodes: c.Planner.MaxClosureNodes,
	}
}

// LoadPool reads a pool bundle from a YAML or JSON file.
func LoadPool(path string) (*model.Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pool: %w", err)
	}
	return ParsePool(data)
}

// ParsePool decodes a pool bundle. JSON parses as YAML, so both formats are accepted.
func ParsePool(data []byte) (*model.Pool, error) {
	var pool model.Pool
	if err := yaml.Unmarshal(data, &pool); err != nil {
		return nil, cperrors.Wrap(cperrors.InvalidArgument, "decode pool", err)
	}
	for i := range pool.Items {
		if pool.Items[i].Metadata == nil {
			pool.Items[i].Metadata = map[string]any{}
		}
		if pool.Items[i].Kind == "" {
			pool.Items[i].Kind = model.KindMessage
		} else {
			pool.Items[i].Kind = model.ParseKind(string(pool.Items[i].Kind))
		}
	}
	for id, r := range pool.Rules {
		r = model.ManualRule(strings.ToLower(strings.TrimSpace(string(r))))
		if !model.ValidRules[r] {
			return nil, cperrors.Invalid("rules", "invalid rule %q for %s", pool.Rules[id], id)
		}
		pool.Rules[id] = r
	}
	return &pool, nil
}

// WritePool encodes a pool bundle as YAML.
func WritePool(pool *model.Pool) ([]byte, error) {
	return yaml.Marshal(pool)
}
