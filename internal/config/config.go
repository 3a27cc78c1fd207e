package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	// Timezone is the IANA timezone shift events are created in
	// (e.g. "Australia/Sydney").
	Timezone string `yaml:"timezone"`

	// Query is the Gmail search query used to locate shift emails.
	Query string `yaml:"query"`

	// Summary is the event summary used when a shift carries no title
	// of its own.
	Summary string `yaml:"summary"`

	// OutputDir is where generated .ics files are written.
	OutputDir string `yaml:"output_dir"`

	// CredentialsFile is the OAuth2 client credentials JSON downloaded
	// from Google Cloud Console (Desktop App type).
	CredentialsFile string `yaml:"credentials_file"`

	// TokenFile caches the OAuth2 token between runs.
	TokenFile string `yaml:"token_file"`

	// MaxResults caps how many matching emails a search returns.
	MaxResults int64 `yaml:"max_results"`

	// RefreshCron is the cron-style schedule used by watch mode
	// (e.g. "*/30 * * * *").
	RefreshCron string `yaml:"refresh"`

	// TimeRangePattern is the regexp matching a shift time range line.
	// It must expose four capture groups: start hour, start minute,
	// end hour, end minute.
	TimeRangePattern string `yaml:"time_range_pattern"`

	// DayAliases maps canonical lowercase weekday names to accepted
	// abbreviations. Keys must be the seven English weekday names.
	DayAliases map[string][]string `yaml:"day_aliases"`

	// DayOffKeywords are lines that mark a rest day.
	DayOffKeywords []string `yaml:"day_off_keywords"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	home := baseDir()
	return &Config{
		Timezone:         "Australia/Sydney",
		Query:            "subject:New shifts assigned",
		Summary:          "Shift",
		OutputDir:        ".",
		CredentialsFile:  filepath.Join(home, "credentials.json"),
		TokenFile:        filepath.Join(home, "token.json"),
		MaxResults:       5,
		RefreshCron:      "*/30 * * * *",
		TimeRangePattern: defaultTimeRangePattern,
		DayAliases:       defaultDayAliases(),
		DayOffKeywords:   []string{"off", "rest day", "rdo", "leave"},
	}
}

const defaultTimeRangePattern = `^\s*(\d{1,2}):(\d{2})\s*[-\x{2013}]\s*(\d{1,2}):(\d{2})\s*$`

func defaultDayAliases() map[string][]string {
	return map[string][]string{
		"monday":    {"mon"},
		"tuesday":   {"tue", "tues"},
		"wednesday": {"wed", "weds"},
		"thursday":  {"thu", "thur", "thurs"},
		"friday":    {"fri"},
		"saturday":  {"sat"},
		"sunday":    {"sun"},
	}
}

// DefaultPath returns the default config file location
// (~/.shiftcal/config.yaml).
func DefaultPath() string {
	return filepath.Join(baseDir(), "config.yaml")
}

// baseDir is ~/.shiftcal, falling back to the working directory when the
// home directory cannot be determined.
func baseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shiftcal"
	}
	return filepath.Join(home, ".shiftcal")
}

// Normalize fills in missing/zero values with defaults so that partially
// filled configs (e.g. older versions) still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()

	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.Query == "" {
		c.Query = def.Query
	}
	if c.Summary == "" {
		c.Summary = def.Summary
	}
	if c.OutputDir == "" {
		c.OutputDir = def.OutputDir
	}
	if c.CredentialsFile == "" {
		c.CredentialsFile = def.CredentialsFile
	}
	if c.TokenFile == "" {
		c.TokenFile = def.TokenFile
	}
	if c.MaxResults <= 0 {
		c.MaxResults = def.MaxResults
	}
	if c.RefreshCron == "" {
		c.RefreshCron = def.RefreshCron
	}
	if c.TimeRangePattern == "" {
		c.TimeRangePattern = def.TimeRangePattern
	}
	if len(c.DayAliases) == 0 {
		c.DayAliases = def.DayAliases
	}
	if c.DayOffKeywords == nil {
		c.DayOffKeywords = def.DayOffKeywords
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist: create parent directory if needed,
//     write a default config with 0600 perms, return the default config.
//   - If the file exists: read YAML, unmarshal, normalize defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Writes atomically via a temp file + rename and ensures final file
// permissions are 0600 (the token path next to it holds credentials,
// keep the whole directory private).
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".shiftcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Save is a convenience method that delegates to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
