package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM struct {
		Provider    string  `yaml:"provider"`
		BaseURL     string  `yaml:"base_url"`
		APIKey      string  `yaml:"api_key"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float64 `yaml:"temperature"`
	} `yaml:"llm"`

	Embedder struct {
		Provider string `yaml:"provider"`
		BaseURL  string `yaml:"base_url"`
		Model    string `yaml:"model"`
	} `yaml:"embedder"`

	Database struct {
		URL       string `yaml:"url"`
		TableName string `yaml:"table_name"`
		VectorDim int    `yaml:"vector_dim"`
		BatchSize int    `yaml:"batch_size"`
	} `yaml:"database"`

	Scraper struct {
		MaxDepth          int      `yaml:"max_depth"`
		RateLimit         float64  `yaml:"rate_limit"`
		IgnorePatterns    []string `yaml:"ignore_patterns"`
		AllowedExtensions []string `yaml:"allowed_extensions"`
	} `yaml:"scraper"`

	Processor struct {
		ChunkSize       int `yaml:"chunk_size"`
		TopN            int `yaml:"top_n"`
		SemanticResults int `yaml:"semantic_results"`
	} `yaml:"processor"`

	Memory struct {
		TutorFile string `yaml:"tutor_file"`
		NotesFile string `yaml:"notes_file"`
	} `yaml:"memory"`

	Server struct {
		Port      int     `yaml:"port"`
		Profile   string  `yaml:"profile"`
		RateLimit float64 `yaml:"rate_limit"`
	} `yaml:"server"`

	Finetune struct {
		Output      string `yaml:"output"`
		GuideOutput string `yaml:"guide_output"`
		Concurrency int    `yaml:"concurrency"`
	} `yaml:"finetune"`

	UI struct {
		Streaming bool   `yaml:"streaming"`
		Theme     string `yaml:"theme"`
	} `yaml:"ui"`
}

func LoadConfig(path string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/journey/config.yaml"),
			"/etc/journey/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := Config{}
	config.UI.Streaming = true
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Merge with environment variables
	mergeWithEnv(&config)

	// Apply defaults for unset values
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	config.UI.Streaming = true
	applyDefaults(config)
	mergeWithEnv(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.Provider == "" {
		config.LLM.Provider = "groq"
	}
	if config.LLM.Model == "" {
		config.LLM.Model = "llama-3.3-70b-versatile"
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 1024
	}
	if config.LLM.Temperature == 0 {
		config.LLM.Temperature = 0.7
	}
	if config.LLM.BaseURL == "" {
		switch config.LLM.Provider {
		case "ollama":
			config.LLM.BaseURL = "http://localhost:11434"
		default:
			config.LLM.BaseURL = "https://api.groq.com/openai/v1"
		}
	}

	if config.Embedder.Provider == "" {
		config.Embedder.Provider = "ollama"
	}
	if config.Embedder.BaseURL == "" {
		config.Embedder.BaseURL = "http://localhost:11434"
	}
	if config.Embedder.Model == "" {
		config.Embedder.Model = "nomic-embed-text"
	}

	if config.Database.TableName == "" {
		config.Database.TableName = "documents"
	}
	if config.Database.VectorDim == 0 {
		config.Database.VectorDim = 768
	}
	if config.Database.BatchSize == 0 {
		config.Database.BatchSize = 100
	}

	if config.Scraper.MaxDepth == 0 {
		config.Scraper.MaxDepth = 1
	}
	if config.Scraper.RateLimit == 0 {
		config.Scraper.RateLimit = 2.0
	}
	if len(config.Scraper.AllowedExtensions) == 0 {
		config.Scraper.AllowedExtensions = []string{".html", ".htm", "/", ""}
	}

	if config.Processor.ChunkSize == 0 {
		config.Processor.ChunkSize = 200
	}
	if config.Processor.TopN == 0 {
		config.Processor.TopN = 2
	}
	if config.Processor.SemanticResults == 0 {
		config.Processor.SemanticResults = 3
	}

	if config.Memory.TutorFile == "" {
		config.Memory.TutorFile = "tutor_memory.json"
	}
	if config.Memory.NotesFile == "" {
		config.Memory.NotesFile = "agent_notes.txt"
	}

	if config.Server.Port == 0 {
		config.Server.Port = 8000
	}
	if config.Server.Profile == "" {
		config.Server.Profile = "local"
	}
	if config.Server.RateLimit == 0 {
		config.Server.RateLimit = 10
	}

	if config.Finetune.Output == "" {
		config.Finetune.Output = "training_data.json"
	}
	if config.Finetune.GuideOutput == "" {
		config.Finetune.GuideOutput = "finetune_guide.json"
	}
	if config.Finetune.Concurrency == 0 {
		config.Finetune.Concurrency = 2
	}

	if config.UI.Theme == "" {
		config.UI.Theme = "default"
	}
}

func mergeWithEnv(config *Config) {
	if apiKey := os.Getenv("GROQ_API_KEY"); apiKey != "" {
		config.LLM.APIKey = apiKey
	}
	if model := os.Getenv("LLM_MODEL"); model != "" {
		config.LLM.Model = model
	}
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.Embedder.BaseURL = baseURL
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Database.URL = dbURL
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
}
