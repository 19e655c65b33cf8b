package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load, highest priority.
const (
	EnvConfig        = "GH_MCP_CONFIG"
	EnvProgram       = "GH_MCP_PROGRAM"
	EnvDefaultBranch = "GH_MCP_DEFAULT_BRANCH"
	EnvTimeout       = "GH_MCP_TIMEOUT"
	EnvCommitLimit   = "GH_MCP_COMMIT_LIMIT"
	EnvSearchLimit   = "GH_MCP_SEARCH_LIMIT"
	EnvListLimit     = "GH_MCP_LIST_LIMIT"
)

var configExtensions = []string{".json", ".jsonc", ".yaml", ".yml"}

// Duration accepts a Go duration string ("45s") or a number of seconds.
type Duration time.Duration

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*d = 0
	case float64:
		*d = Duration(t * float64(time.Second))
	case string:
		parsed, err := parseDuration(t)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration: %s", string(b))
	}
	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := parseDuration(node.Value)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// fileConfig is the on-disk shape shared by JSON, JSONC and YAML files.
type fileConfig struct {
	Program       string   `json:"program" yaml:"program"`
	DefaultBranch string   `json:"defaultBranch" yaml:"defaultBranch"`
	Timeout       Duration `json:"timeout" yaml:"timeout"`
	DrainGrace    Duration `json:"drainGrace" yaml:"drainGrace"`
	CommitLimit   int      `json:"commitLimit" yaml:"commitLimit"`
	SearchLimit   int      `json:"searchLimit" yaml:"searchLimit"`
	ListLimit     int      `json:"listLimit" yaml:"listLimit"`
}

// Load builds settings from multiple sources (priority order, lowest first):
// 1. Global config ($XDG_CONFIG_HOME/gh-mcp/config.{json,jsonc,yaml,yml})
// 2. Project config (<directory>/.gh-mcp.{json,jsonc,yaml,yml})
// 3. file, or the GH_MCP_CONFIG file when file is empty
// 4. Environment variables
// Missing files are skipped, except for an explicit file; malformed files are
// an error. The result is normalized.
func Load(fs afero.Fs, directory, file string) (Settings, error) {
	var s Settings

	for _, ext := range configExtensions {
		if err := loadOptional(fs, filepath.Join(GlobalConfigDir(), "config"+ext), &s); err != nil {
			return Settings{}, err
		}
	}

	if directory != "" {
		for _, ext := range configExtensions {
			if err := loadOptional(fs, filepath.Join(directory, ".gh-mcp"+ext), &s); err != nil {
				return Settings{}, err
			}
		}
	}

	if file == "" {
		file = os.Getenv(EnvConfig)
	}
	if file != "" {
		if err := LoadFile(fs, file, &s); err != nil {
			return Settings{}, err
		}
	}

	applyEnvOverrides(&s)

	return s.Normalize(), nil
}

func loadOptional(fs afero.Fs, path string, s *Settings) error {
	err := LoadFile(fs, path, s)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// LoadFile merges a single config file into s. The format follows the extension;
// anything other than .yaml/.yml is read as JSONC.
func LoadFile(fs afero.Fs, path string, s *Settings) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return err
	}

	data = interpolate(data)

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(jsonc.ToJSON(data), &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	merge(s, fc)
	return nil
}

var envPattern = regexp.MustCompile(`\{env:([^}]+)\}`)

// interpolate replaces {env:VAR_NAME} placeholders.
func interpolate(data []byte) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := envPattern.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(name)))
	})
}

func merge(s *Settings, fc fileConfig) {
	if fc.Program != "" {
		s.Program = fc.Program
	}
	if fc.DefaultBranch != "" {
		s.DefaultBranch = fc.DefaultBranch
	}
	if fc.Timeout != 0 {
		s.Timeout = time.Duration(fc.Timeout)
	}
	if fc.DrainGrace != 0 {
		s.DrainGrace = time.Duration(fc.DrainGrace)
	}
	if fc.CommitLimit != 0 {
		s.CommitLimit = fc.CommitLimit
	}
	if fc.SearchLimit != 0 {
		s.SearchLimit = fc.SearchLimit
	}
	if fc.ListLimit != 0 {
		s.ListLimit = fc.ListLimit
	}
}

// applyEnvOverrides applies GH_MCP_* variables. Unparseable values are ignored.
func applyEnvOverrides(s *Settings) {
	if v := os.Getenv(EnvProgram); v != "" {
		s.Program = v
	}
	if v := os.Getenv(EnvDefaultBranch); v != "" {
		s.DefaultBranch = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if d, err := parseDuration(v); err == nil {
			s.Timeout = d
		}
	}
	envInt(EnvCommitLimit, &s.CommitLimit)
	envInt(EnvSearchLimit, &s.SearchLimit)
	envInt(EnvListLimit, &s.ListLimit)
}

func envInt(key string, dst *int) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
		*dst = n
	}
}
