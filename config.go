package katalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the application-level configuration consumed by the CLI and by
// embedders of the library that want file-based settings.
type Config struct {
	Embedding struct {
		Host  string `yaml:"host"`
		Model string `yaml:"model"`
	} `yaml:"embedding"`

	Search struct {
		RecallThreshold float64 `yaml:"recall_threshold"`
		FuzzyCutoff     int     `yaml:"fuzzy_cutoff"`
		ShortQueryLimit int     `yaml:"short_query_limit"`
		TopK            int     `yaml:"top_k"`
	} `yaml:"search"`

	// Synonyms maps a canonical phrase to alternate phrasings, merged over
	// the built-in table at build time.
	Synonyms map[string][]string `yaml:"synonyms"`
}

// LoadConfig reads configuration from path. With an empty path it tries the
// default locations and falls back to built-in defaults when none exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		locations := []string{
			"katalog.yaml",
			"katalog.yml",
			filepath.Join(os.Getenv("HOME"), ".config/katalog/config.yaml"),
			"/etc/katalog/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	config := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %v", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %v", err)
		}
	}

	mergeWithEnv(config)
	applyDefaults(config)

	return config, nil
}

func mergeWithEnv(config *Config) {
	if host := os.Getenv("KATALOG_EMBEDDING_HOST"); host != "" {
		config.Embedding.Host = host
	}
	if model := os.Getenv("KATALOG_EMBEDDING_MODEL"); model != "" {
		config.Embedding.Model = model
	}
	if topK := os.Getenv("KATALOG_TOP_K"); topK != "" {
		if n, err := strconv.Atoi(topK); err == nil && n > 0 {
			config.Search.TopK = n
		}
	}
}

func applyDefaults(config *Config) {
	if config.Embedding.Host == "" {
		config.Embedding.Host = "http://localhost:11434/v1"
	}
	if config.Embedding.Model == "" {
		config.Embedding.Model = "paraphrase-multilingual"
	}

	if config.Search.RecallThreshold == 0 {
		config.Search.RecallThreshold = 0.6
	}
	if config.Search.FuzzyCutoff == 0 {
		config.Search.FuzzyCutoff = 68
	}
	if config.Search.ShortQueryLimit == 0 {
		config.Search.ShortQueryLimit = 3
	}
	if config.Search.TopK == 0 {
		config.Search.TopK = 25
	}
}
