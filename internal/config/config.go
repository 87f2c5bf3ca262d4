package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	SearchScrape = "scrape"
	SearchAPI    = "api"

	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

type Config struct {
	Environment string
	LogLevel    string

	YouTubeAPIKey   string
	SearchBackend   string
	TranscriptLangs []string
	HTTPTimeout     time.Duration

	LLMProvider       string
	OllamaHost        string
	OllamaModel       string
	OllamaEnsureModel bool
	LLMAPIBase        string
	LLMAPIKey         string
	LLMModel          string
	UseMockLLM        bool
	LLMTimeout        time.Duration

	TranscriptOutput   string
	CommentsOutput     string
	CommentsVideoLimit int
	CommentChunkSize   int
	MaxComments        int
	ProgressBar        bool
}

// Load reads settings through getenv (os.Getenv in main) and applies defaults.
func Load(getenv func(string) string) (Config, error) {
	env := func(k, def string) string {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			return v
		}
		return def
	}

	c := Config{
		Environment:      env("ENVIRONMENT", ""),
		LogLevel:         env("LOG_LEVEL", "info"),
		YouTubeAPIKey:    env("YOUTUBE_API_KEY", ""),
		SearchBackend:    strings.ToLower(env("SEARCH_BACKEND", SearchScrape)),
		TranscriptLangs:  splitList(env("TRANSCRIPT_LANGS", "en")),
		LLMProvider:      strings.ToLower(env("LLM_PROVIDER", ProviderOllama)),
		OllamaHost:       strings.TrimRight(env("OLLAMA_HOST", "http://localhost:11434"), "/"),
		OllamaModel:      env("OLLAMA_MODEL", "llava:34b"),
		LLMAPIBase:       env("LLM_API_BASE", "https://api.openai.com/v1"),
		LLMAPIKey:        env("LLM_API_KEY", ""),
		LLMModel:         env("LLM_MODEL", "gpt-4o-mini"),
		TranscriptOutput: env("TRANSCRIPT_OUTPUT", "AI DataLog_Transcript_Record.xlsx"),
		CommentsOutput:   env("COMMENTS_OUTPUT", "Comments.xlsx"),
	}

	var err error
	if c.HTTPTimeout, err = parseDuration("HTTP_TIMEOUT", env("HTTP_TIMEOUT", "30s")); err != nil {
		return Config{}, err
	}
	if c.LLMTimeout, err = parseDuration("LLM_TIMEOUT", env("LLM_TIMEOUT", "10m")); err != nil {
		return Config{}, err
	}
	if c.CommentsVideoLimit, err = parseInt("COMMENTS_VIDEO_LIMIT", env("COMMENTS_VIDEO_LIMIT", "20")); err != nil {
		return Config{}, err
	}
	if c.CommentChunkSize, err = parseInt("COMMENT_CHUNK_SIZE", env("COMMENT_CHUNK_SIZE", "2000")); err != nil {
		return Config{}, err
	}
	if c.MaxComments, err = parseInt("MAX_COMMENTS", env("MAX_COMMENTS", "0")); err != nil {
		return Config{}, err
	}
	if c.OllamaEnsureModel, err = parseBool("OLLAMA_ENSURE_MODEL", env("OLLAMA_ENSURE_MODEL", "false")); err != nil {
		return Config{}, err
	}
	if c.UseMockLLM, err = parseBool("USE_MOCK_LLM", env("USE_MOCK_LLM", "false")); err != nil {
		return Config{}, err
	}
	if c.ProgressBar, err = parseBool("PROGRESS_BAR", env("PROGRESS_BAR", "false")); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the settings shared by both run modes.
func (c Config) Validate() error {
	switch c.SearchBackend {
	case SearchScrape:
	case SearchAPI:
		if c.YouTubeAPIKey == "" {
			return fmt.Errorf("SEARCH_BACKEND=%s requires YOUTUBE_API_KEY", SearchAPI)
		}
	default:
		return fmt.Errorf("unknown SEARCH_BACKEND %q", c.SearchBackend)
	}

	if c.UseMockLLM {
		return nil
	}
	switch c.LLMProvider {
	case ProviderOllama:
		if c.OllamaHost == "" || c.OllamaModel == "" {
			return fmt.Errorf("ollama provider requires OLLAMA_HOST and OLLAMA_MODEL")
		}
	case ProviderOpenAI:
		if c.LLMAPIKey == "" {
			return fmt.Errorf("LLM_PROVIDER=%s requires LLM_API_KEY", ProviderOpenAI)
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	return nil
}

// ValidateComments adds the comments-mode requirements on top of Validate.
func (c Config) ValidateComments() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.YouTubeAPIKey == "" {
		return fmt.Errorf("comments mode requires YOUTUBE_API_KEY")
	}
	if c.CommentsVideoLimit < 0 {
		return fmt.Errorf("COMMENTS_VIDEO_LIMIT must not be negative")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDuration(key, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func parseInt(key, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func parseBool(key, v string) (bool, error) {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return b, nil
}
