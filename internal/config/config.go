// Package config loads wecomflow settings from an optional YAML file and
// the WECOM_* environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-wecomflow/pkg/binding"
)

// DefaultPath is read when no --config flag is given and the file exists.
const DefaultPath = "wecomflow.yaml"

// DefaultLookbackDays is the reminder window when none is configured.
const DefaultLookbackDays = 3

// ErrMissing reports required settings that are unset.
var ErrMissing = errors.New("config: missing required settings")

// Config holds every setting a command may need.
type Config struct {
	Version       int    `yaml:"version"`
	BaseURL       string `yaml:"base_url"`
	CorpID        string `yaml:"corp_id"`
	Secret        string `yaml:"secret"`
	SecretFile    string `yaml:"secret_file"`
	AgentID       int    `yaml:"agent_id"`
	DefaultUserID string `yaml:"default_user_id"`
	ReportDir     string `yaml:"report_dir"`

	Templates struct {
		Overtime string `yaml:"overtime"`
		Expense  string `yaml:"expense"`
		Invoice  string `yaml:"invoice"`
	} `yaml:"templates"`

	Expense struct {
		ProjectKey   string            `yaml:"project_key"`
		CategoryKeys map[string]string `yaml:"category_keys"`
	} `yaml:"expense"`

	Remind struct {
		LookbackDays int `yaml:"lookback_days"`
	} `yaml:"remind"`
}

// Setting names accepted by Validate.
const (
	KeyCorpID           = "WECOM_CORP_ID"
	KeySecret           = "WECOM_SECRET"
	KeySecretFile       = "WECOM_SECRET_FILE"
	KeyAgentID          = "WECOM_AGENT_ID"
	KeyDefaultUserID    = "WECOM_DEFAULT_USER_ID"
	KeyTemplateOvertime = "WECOM_TEMPLATE_OVERTIME"
	KeyTemplateExpense  = "WECOM_TEMPLATE_EXPENSE"
	KeyTemplateInvoice  = "WECOM_TEMPLATE_INVOICE"
)

// categoryEnv maps environment variables to category aliases.
var categoryEnv = map[string]string{
	"WECOM_EXPENSE_CATEGORY_WEEKDAY_KEY":          binding.CategoryOvertimeNight,
	"WECOM_EXPENSE_CATEGORY_WEEKEND_KEY":          binding.CategoryOvertimeWeekend,
	"WECOM_EXPENSE_CATEGORY_INLAND_TRIP_KEY":      binding.CategoryInlandTrip,
	"WECOM_EXPENSE_CATEGORY_TRAVEL_TRANSPORT_KEY": binding.CategoryTravelTransport,
	"WECOM_EXPENSE_CATEGORY_CITY_TRANSPORT_KEY":   binding.CategoryCityTransport,
	"WECOM_EXPENSE_CATEGORY_LODGING_KEY":          binding.CategoryLodging,
}

// Load reads path (when non-empty) and applies environment overrides. A
// missing file at DefaultPath is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := cfg.readFile(path); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if cfg.Remind.LookbackDays <= 0 {
		cfg.Remind.LookbackDays = DefaultLookbackDays
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultPath
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	if c.Version != 0 && c.Version != 1 {
		return fmt.Errorf("config: unsupported %s version: %d", path, c.Version)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.BaseURL, "WECOM_BASE_URL")
	setString(&c.CorpID, KeyCorpID)
	setString(&c.DefaultUserID, KeyDefaultUserID)
	setString(&c.Templates.Overtime, KeyTemplateOvertime)
	setString(&c.Templates.Expense, KeyTemplateExpense)
	setString(&c.Templates.Invoice, KeyTemplateInvoice)
	setString(&c.Expense.ProjectKey, "WECOM_EXPENSE_PROJECT_KEY")
	setString(&c.ReportDir, "WECOM_REPORT_DIR")

	if err := c.resolveSecret(); err != nil {
		return err
	}

	if err := setInt(&c.AgentID, KeyAgentID); err != nil {
		return err
	}
	if err := setInt(&c.Remind.LookbackDays, "WECOM_REMIND_LOOKBACK_DAYS"); err != nil {
		return err
	}

	for env, alias := range categoryEnv {
		v := strings.TrimSpace(os.Getenv(env))
		if v == "" {
			continue
		}
		if c.Expense.CategoryKeys == nil {
			c.Expense.CategoryKeys = make(map[string]string)
		}
		c.Expense.CategoryKeys[alias] = v
	}
	return nil
}

// CategoryKeys returns the alias table for the expense category selector.
func (c *Config) CategoryKeys() binding.CategoryKeys {
	out := make(binding.CategoryKeys, len(c.Expense.CategoryKeys))
	for alias, key := range c.Expense.CategoryKeys {
		out[alias] = key
	}
	return out
}

// Validate reports which of the named settings are empty.
func (c *Config) Validate(keys ...string) error {
	var missing []string
	for _, key := range keys {
		if !c.has(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) has(key string) bool {
	switch key {
	case KeyCorpID:
		return c.CorpID != ""
	case KeySecret:
		return c.Secret != ""
	case KeyAgentID:
		return c.AgentID != 0
	case KeyDefaultUserID:
		return c.DefaultUserID != ""
	case KeyTemplateOvertime:
		return c.Templates.Overtime != ""
	case KeyTemplateExpense:
		return c.Templates.Expense != ""
	case KeyTemplateInvoice:
		return c.Templates.Invoice != ""
	}
	return false
}

func setString(dst *string, env string) {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, env string) error {
	v := strings.TrimSpace(os.Getenv(env))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", env, err)
	}
	*dst = n
	return nil
}
