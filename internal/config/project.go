// Package config loads the per-project .geo-optimizer.yml file and the
// GEO_* environment overrides.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileNames are searched in order by FindConfigFile.
var FileNames = []string{".geo-optimizer.yml", ".geo-optimizer.yaml"}

type AuditConfig struct {
	URL      string `yaml:"url"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	MinScore int    `yaml:"min_score"`
	Cache    bool   `yaml:"cache"`
	Verbose  bool   `yaml:"verbose"`
}

type LlmsConfig struct {
	BaseURL     string `yaml:"base_url"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	MaxURLs     int    `yaml:"max_urls"`
	FetchTitles bool   `yaml:"fetch_titles"`
}

type SchemaConfig struct {
	Types       []string `yaml:"types"`
	Name        string   `yaml:"name"`
	URL         string   `yaml:"url"`
	Description string   `yaml:"description"`
	Author      string   `yaml:"author"`
	LogoURL     string   `yaml:"logo_url"`
}

// ProjectConfig mirrors .geo-optimizer.yml.
type ProjectConfig struct {
	Audit  AuditConfig  `yaml:"audit"`
	Llms   LlmsConfig   `yaml:"llms"`
	Schema SchemaConfig `yaml:"schema"`

	// ExtraBots maps additional crawler user agents to a description. They
	// are audited alongside the built-in AI bots.
	ExtraBots map[string]string `yaml:"extra_bots"`

	// Path is the file the config was read from, empty for defaults.
	Path string `yaml:"-"`
}

// Default returns the configuration used when no file is present.
func Default() *ProjectConfig {
	return &ProjectConfig{
		Audit:     AuditConfig{Format: "text"},
		Llms:      LlmsConfig{MaxURLs: 50},
		ExtraBots: map[string]string{},
	}
}

// FindConfigFile returns the first config file present in dir, or "".
func FindConfigFile(dir string) string {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p
		}
	}
	return ""
}

// Load reads path over the defaults. A missing file is not an error. A file
// that is not valid YAML, or whose top level is not a mapping, yields the
// defaults.
func Load(path string) (*ProjectConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Default(), nil
	}
	if len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return Default(), nil
	}
	if err := root.Content[0].Decode(cfg); err != nil {
		return Default(), nil
	}
	if cfg.Audit.Format == "" {
		cfg.Audit.Format = "text"
	}
	if cfg.Llms.MaxURLs <= 0 {
		cfg.Llms.MaxURLs = 50
	}
	if cfg.ExtraBots == nil {
		cfg.ExtraBots = map[string]string{}
	}
	cfg.Path = path
	return cfg, nil
}

// LoadFromDir loads the config file found in dir, or the defaults.
func LoadFromDir(dir string) (*ProjectConfig, error) {
	p := FindConfigFile(dir)
	if p == "" {
		return Default(), nil
	}
	return Load(p)
}
