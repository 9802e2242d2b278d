package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".omnisearch"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Defaults holds config-file overrides of the built-in defaults.
// Zero values mean "use the built-in default".
type Defaults struct {
	// Mode overrides the engine mode ("fact-seeking" or "summary-only").
	Mode string `yaml:"mode,omitempty"`

	// MaxResults overrides the search provider result cap.
	MaxResults int `yaml:"maxResults,omitempty"`

	// FetchLimit overrides the concurrent fetch fan-out per query.
	FetchLimit int `yaml:"fetchLimit,omitempty"`

	// SummarySentences overrides the sentences kept per source summary.
	SummarySentences int `yaml:"summarySentences,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`
}

// IntentRule is a user-defined precise-answer extraction rule.
// A rule fires when the query contains any of the keywords; the pattern's
// first capture group is the extracted answer.
type IntentRule struct {
	// Name identifies the rule in logs.
	Name string `yaml:"name"`

	// Keywords trigger the rule when any appears in the query
	// (case-insensitive substring match).
	Keywords []string `yaml:"keywords"`

	// Pattern is a regular expression applied to cleaned page text.
	// It must contain at least one capture group; group 1 is the answer.
	Pattern string `yaml:"pattern"`
}

// File represents the structure of the .omnisearch configuration file.
type File struct {
	// Defaults overrides built-in engine defaults.
	Defaults Defaults `yaml:"defaults,omitempty"`

	// Intents are user-defined precise-answer extraction rules, applied
	// after the built-in rules in file order.
	Intents []IntentRule `yaml:"intents,omitempty"`
}

// LoadConfigFile loads a configuration file from the given path.
// If the file does not exist, it returns ErrConfigNotFound. Intent rule
// patterns are validated here so a broken rule fails at startup rather than
// mid-resolution.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	for _, rule := range cf.Intents {
		if rule.Name == "" {
			return nil, fmt.Errorf("intent rule without a name")
		}
		if len(rule.Keywords) == 0 {
			return nil, fmt.Errorf("intent rule %q: no keywords", rule.Name)
		}
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("intent rule %q: invalid pattern: %w", rule.Name, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("intent rule %q: pattern needs a capture group for the answer", rule.Name)
		}
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
//  1. If configPath is specified, use it directly
//  2. Look for .omnisearch in the current directory
//  3. Look for .omnisearch in the user's home directory
//
// Returns the path if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Apply copies non-zero file defaults onto the config.
// CLI flags are applied after this, so flags always win.
func (f *File) Apply(c *Config) {
	if f == nil {
		return
	}
	if f.Defaults.Mode != "" {
		c.Mode = f.Defaults.Mode
	}
	if f.Defaults.MaxResults > 0 {
		c.MaxResults = f.Defaults.MaxResults
	}
	if f.Defaults.FetchLimit > 0 {
		c.FetchLimit = f.Defaults.FetchLimit
	}
	if f.Defaults.SummarySentences > 0 {
		c.SummarySentences = f.Defaults.SummarySentences
	}
	if f.Defaults.UserAgent != "" {
		c.UserAgent = f.Defaults.UserAgent
	}
}
