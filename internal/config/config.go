// Package config provides configuration management for the autocomplete application.
// It handles application settings, environment variables, and default values.
// Configuration can be customized through environment variables, a config file
// in the vault directory, or falls back to sensible defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// UI color constants for the TUI (Terminal User Interface)
const (
	// MainColorForeground is the primary text color (ANSI color code)
	MainColorForeground = "205"
	// MainColorBackground is the primary background color (ANSI color code)
	MainColorBackground = "16"
	// MainColorBackgroundMute is a muted background color (ANSI color code)
	MainColorBackgroundMute = "241"
)

// SourceKind names the suggestion source backing the field.
type SourceKind string

const (
	SourceList   SourceKind = "list"
	SourceTrie   SourceKind = "trie"
	SourceVector SourceKind = "vector"
	SourceLLM    SourceKind = "llm"
)

// Default configuration values
const (
	// Default directory name for storing application data
	defaultVaultDir = ".autocomplete"
	// Default URL for the Ollama API server
	defaultAPIURL = "http://localhost:11434"
	// Default chat model used by the llm source
	defaultModel = "gemma3:1b"
	// Default embedding model used by the vector source
	defaultEmbedModel = "mxbai-embed-large"
	// Default Qdrant gRPC address
	defaultQdrantAddr = "localhost:6334"
	// Default Qdrant collection holding indexed candidates
	defaultCollection = "autocomplete_candidates"
	// Default temperature for llm completions; low keeps suggestions literal
	defaultTemp = 0.2

	defaultMatch          = "prefix"
	defaultMaxSuggestions = 8
	defaultVectorSize     = 1024
	defaultFetchTimeoutMS = 3000

	candidatesFileName = "candidates.txt"
	configTOML         = "config.toml"
	configJSON         = "config.json"
)

// getDefaultVaultPath returns the default path for the vault directory.
// It uses the user's home directory if available, otherwise falls back to the current directory.
func getDefaultVaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./" + defaultVaultDir
	}
	return filepath.Join(home, defaultVaultDir)
}

// VaultPath returns the path to the application's data directory.
// It checks the AUTOCOMPLETE_HOME environment variable first, then falls back to the default.
func VaultPath() string {
	if v := os.Getenv("AUTOCOMPLETE_HOME"); v != "" {
		return v
	}
	return getDefaultVaultPath()
}

// APIURL returns the base URL for the Ollama API.
// It checks the OLLAMA_API_URL environment variable first, then falls back to the default.
func APIURL() string {
	if v := os.Getenv("OLLAMA_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

// Model returns the name of the chat model used for llm suggestions.
func Model() string {
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		return v
	}
	return defaultModel
}

// EmbedModel returns the name of the embedding model used by the vector source.
func EmbedModel() string {
	if v := os.Getenv("OLLAMA_EMBED_MODEL"); v != "" {
		return v
	}
	return defaultEmbedModel
}

// QdrantAddr returns the gRPC address of the Qdrant server.
func QdrantAddr() string {
	if v := os.Getenv("QDRANT_ADDR"); v != "" {
		return v
	}
	return defaultQdrantAddr
}

// Source returns the suggestion source named by AUTOCOMPLETE_SOURCE, or "" if unset.
func Source() SourceKind {
	return SourceKind(os.Getenv("AUTOCOMPLETE_SOURCE"))
}

// Temperature returns the default temperature setting for llm suggestions.
func Temperature() float64 {
	return defaultTemp
}

// Config represents the application's configuration that can be saved and loaded.
type Config struct {
	Source         SourceKind `toml:"source" json:"source"`
	Match          string     `toml:"match" json:"match"`
	CaseSensitive  bool       `toml:"case_sensitive" json:"case_sensitive"`
	MaxSuggestions int        `toml:"max_suggestions" json:"max_suggestions"`
	CandidatesFile string     `toml:"candidates_file" json:"candidates_file"`
	DisableWatch   bool       `toml:"disable_watch" json:"disable_watch"`
	LogLevel       string     `toml:"log_level" json:"log_level"`

	APIURL         string  `toml:"api_url" json:"api_url,omitempty"`
	ModelName      string  `toml:"model_name" json:"model_name"`
	EmbedModel     string  `toml:"embed_model" json:"embed_model"`
	Temperature    float64 `toml:"temperature" json:"temperature"`
	QdrantAddr     string  `toml:"qdrant_addr" json:"qdrant_addr"`
	Collection     string  `toml:"collection" json:"collection"`
	VectorSize     uint64  `toml:"vector_size" json:"vector_size"`
	FetchTimeoutMS int     `toml:"fetch_timeout_ms" json:"fetch_timeout_ms"`
}

// Default returns the built-in configuration, with env overrides applied.
func Default() *Config {
	cfg := &Config{
		Source:         SourceList,
		Match:          defaultMatch,
		MaxSuggestions: defaultMaxSuggestions,
		CandidatesFile: filepath.Join(VaultPath(), candidatesFileName),
		LogLevel:       "info",
		APIURL:         APIURL(),
		ModelName:      Model(),
		EmbedModel:     EmbedModel(),
		Temperature:    Temperature(),
		QdrantAddr:     QdrantAddr(),
		Collection:     defaultCollection,
		VectorSize:     defaultVectorSize,
		FetchTimeoutMS: defaultFetchTimeoutMS,
	}
	if s := Source(); s != "" {
		cfg.Source = s
	}
	return cfg
}

// Validate reports settings that can't be used.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceList, SourceTrie, SourceVector, SourceLLM:
	default:
		return fmt.Errorf("unknown source %q", c.Source)
	}
	switch c.Match {
	case "prefix", "contains", "fuzzy":
	default:
		return fmt.Errorf("unknown match mode %q", c.Match)
	}
	if c.MaxSuggestions < 0 {
		return errors.New("max_suggestions must not be negative")
	}
	return nil
}

// fillDefaults replaces zero values left by a partial config file.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Source == "" {
		c.Source = def.Source
	}
	if c.Match == "" {
		c.Match = def.Match
	}
	if c.MaxSuggestions == 0 {
		c.MaxSuggestions = def.MaxSuggestions
	}
	if c.CandidatesFile == "" {
		c.CandidatesFile = def.CandidatesFile
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.APIURL == "" {
		c.APIURL = def.APIURL
	}
	if c.ModelName == "" {
		c.ModelName = def.ModelName
	}
	if c.EmbedModel == "" {
		c.EmbedModel = def.EmbedModel
	}
	if c.Temperature == 0 {
		c.Temperature = def.Temperature
	}
	if c.QdrantAddr == "" {
		c.QdrantAddr = def.QdrantAddr
	}
	if c.Collection == "" {
		c.Collection = def.Collection
	}
	if c.VectorSize == 0 {
		c.VectorSize = def.VectorSize
	}
	if c.FetchTimeoutMS == 0 {
		c.FetchTimeoutMS = def.FetchTimeoutMS
	}
}

// SaveConfig saves the configuration as TOML in the vault directory.
func SaveConfig(cfg *Config) error {
	configPath := filepath.Join(VaultPath(), configTOML)

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return os.WriteFile(configPath, data, 0600)
}

// EnsureConfigFile writes the defaults to config.toml when the vault has
// neither config.toml nor config.json, so there is a file to edit.
// It reports whether a file was written.
func EnsureConfigFile() (bool, error) {
	dir := VaultPath()
	for _, name := range []string{configTOML, configJSON} {
		_, err := os.Stat(filepath.Join(dir, name))
		if err == nil {
			return false, nil
		}
		if !os.IsNotExist(err) {
			return false, fmt.Errorf("failed to check %s: %w", name, err)
		}
	}
	if err := SaveConfig(Default()); err != nil {
		return false, fmt.Errorf("failed to write default config: %w", err)
	}
	return true, nil
}

// LoadConfig loads the configuration from the vault directory.
// config.toml wins over config.json; if neither exists the defaults are returned.
// AUTOCOMPLETE_SOURCE overrides whatever the file says.
func LoadConfig() (*Config, error) {
	cfg, err := loadFile(VaultPath())
	if err != nil {
		return nil, err
	}
	if s := Source(); s != "" {
		cfg.Source = s
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(dir string) (*Config, error) {
	tomlPath := filepath.Join(dir, configTOML)
	if data, err := os.ReadFile(tomlPath); err == nil {
		var cfg Config
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", tomlPath, err)
		}
		cfg.fillDefaults()
		return &cfg, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", tomlPath, err)
	}

	jsonPath := filepath.Join(dir, configJSON)
	data, err := os.ReadFile(jsonPath)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", jsonPath, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", jsonPath, err)
	}
	cfg.fillDefaults()
	return &cfg, nil
}
