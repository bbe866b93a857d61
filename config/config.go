package config

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyCompanyDefault  = "company.default"
	KeyDatabasePath    = "database.path"
	KeyServerPort      = "server.port"
	KeyLocale          = "locale"
	KeyTranslations    = "translations"
	KeyFrappeURL       = "frappe.url"
	KeyFrappeAPIKey    = "frappe.api_key"
	KeyFrappeAPISecret = "frappe.api_secret"
	KeyLogLevel        = "log.level"
	KeyRules           = "rules"

	DefaultDatabasePath = "./shiftreport.db"
	DefaultServerPort   = 8080
	DefaultLocale       = "en"
	DefaultLogLevel     = "info"
)

type Config struct {
	Company      CompanyConfig  `mapstructure:"company"`
	Database     DatabaseConfig `mapstructure:"database"`
	Server       ServerConfig   `mapstructure:"server"`
	Locale       string         `mapstructure:"locale" validate:"required,bcp47_language_tag"`
	Translations []Translation  `mapstructure:"translations" validate:"dive"`
	Frappe       FrappeConfig   `mapstructure:"frappe"`
	Log          LogConfig      `mapstructure:"log"`
	Rules        []Rule         `mapstructure:"rules"`
}

type CompanyConfig struct {
	Default string `mapstructure:"default"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type ServerConfig struct {
	Port int `mapstructure:"port" validate:"min=1,max=65535"`
}

// Translation is one translated label. Labels are kept as list values
// because viper lower-cases map keys.
type Translation struct {
	Locale string `mapstructure:"locale" validate:"required,bcp47_language_tag"`
	Source string `mapstructure:"source" validate:"required"`
	Text   string `mapstructure:"text" validate:"required"`
}

type FrappeConfig struct {
	URL       string `mapstructure:"url" validate:"omitempty,url"`
	APIKey    string `mapstructure:"api_key" validate:"required_with=URL"`
	APISecret string `mapstructure:"api_secret" validate:"required_with=URL"`
}

// Enabled reports whether a remote site is configured.
func (f FrappeConfig) Enabled() bool {
	return strings.TrimSpace(f.URL) != ""
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// Rule selects the import mapper, default shift and worksheet for files
// matching FileTemplate.
type Rule struct {
	Name         string `mapstructure:"name"`
	Mapper       string `mapstructure:"mapper"`
	FileTemplate string `mapstructure:"file_template"`
	DefaultShift string `mapstructure:"default_shift"`
	Sheet        string `mapstructure:"sheet"`
}

// TranslationTables groups translations as locale -> source -> text.
func (c Config) TranslationTables() map[string]map[string]string {
	tables := make(map[string]map[string]string)
	for _, translation := range c.Translations {
		locale := strings.TrimSpace(translation.Locale)
		if tables[locale] == nil {
			tables[locale] = make(map[string]string)
		}
		tables[locale][translation.Source] = translation.Text
	}
	return tables
}

// Defaults returns the host defaults offered to report filters.
func (c Config) Defaults() map[string]string {
	return map[string]string{
		"company": strings.TrimSpace(c.Company.Default),
	}
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleValues fills the site specific fields of the example template.
// Empty fields keep the defaults.
type ExampleValues struct {
	Company      string
	DatabasePath string
	Locale       string
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return RenderExampleYAML(ExampleValues{})
}

// RenderExampleYAML returns the example template with values filled in.
func RenderExampleYAML(values ExampleValues) string {
	databasePath := strings.TrimSpace(values.DatabasePath)
	if databasePath == "" {
		databasePath = DefaultDatabasePath
	}
	locale := strings.TrimSpace(values.Locale)
	if locale == "" {
		locale = DefaultLocale
	}
	return fmt.Sprintf(exampleTemplate,
		strconv.Quote(strings.TrimSpace(values.Company)),
		strconv.Quote(databasePath),
		strconv.Quote(locale),
	)
}

const exampleTemplate = `# shiftreport configuration
company:
  default: %s

database:
  path: %s

server:
  port: 8080

locale: %s

# Label translations, e.g.
# - locale: "de"
#   source: "From Date"
#   text: "Von Datum"
translations: []

# Optional Frappe/ERPNext site used by "shiftreport sync".
frappe:
  url: ""
  api_key: ""
  api_secret: ""

log:
  level: "info"

# Import rules pick the mapper, default shift and Excel sheet by file name, e.g.
# - name: "terminal"
#   mapper: "checkin"
#   file_template: "attlog*.dat"
#   default_shift: "Day"
# - name: "hr-master"
#   mapper: "employee"
#   file_template: "hr-master*.xlsx"
#   sheet: "Employees"
rules: []
`

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateRules(cfg.Rules); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyCompanyDefault, "")
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyServerPort, DefaultServerPort)
	v.SetDefault(KeyLocale, DefaultLocale)
	v.SetDefault(KeyTranslations, []map[string]any{})
	v.SetDefault(KeyFrappeURL, "")
	v.SetDefault(KeyFrappeAPIKey, "")
	v.SetDefault(KeyFrappeAPISecret, "")
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyRules, []map[string]any{})
}

func validateRules(rules []Rule) error {
	validMappers := map[string]bool{
		"checkin":    true,
		"employee":   true,
		"shift":      true,
		"attendance": true,
	}
	seen := make(map[string]struct{}, len(rules))
	for i, rule := range rules {
		name := strings.TrimSpace(rule.Name)
		if name == "" {
			return fmt.Errorf("validation failed: rules[%d].name is required", i)
		}
		key := strings.ToLower(name)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("validation failed: duplicate rule name %q", name)
		}
		seen[key] = struct{}{}
		mapper := strings.ToLower(strings.TrimSpace(rule.Mapper))
		if mapper == "" {
			return fmt.Errorf("validation failed: rules[%d].mapper is required", i)
		}
		if !validMappers[mapper] {
			return fmt.Errorf(
				"validation failed: rules[%d].mapper %q is not supported (valid: checkin, employee, shift, attendance)",
				i,
				rule.Mapper,
			)
		}
		template := strings.TrimSpace(rule.FileTemplate)
		if template == "" {
			return fmt.Errorf("validation failed: rules[%d].file_template is required", i)
		}
		if _, err := filepath.Match(template, ""); err != nil {
			return fmt.Errorf("validation failed: rules[%d].file_template %q: %w", i, rule.FileTemplate, err)
		}
	}
	return nil
}

// MatchRule returns the first rule whose template matches the file name or
// full path of path, and false when none does.
func MatchRule(path string, rules []Rule) (Rule, bool) {
	baseName := filepath.Base(path)
	for _, rule := range rules {
		template := strings.TrimSpace(rule.FileTemplate)
		if template == "" {
			continue
		}
		matchesBase, err := filepath.Match(template, baseName)
		if err == nil && matchesBase {
			return rule, true
		}
		matchesFull, err := filepath.Match(template, path)
		if err == nil && matchesFull {
			return rule, true
		}
	}
	return Rule{}, false
}
