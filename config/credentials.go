package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const baseCredPath = "newsbrief/creds.toml"

// Credentials holds all application credentials
type Credentials struct {
	OpenAI OpenAICredentials `toml:"openai"`
	Gemini GeminiCredentials `toml:"gemini"`
	Notion NotionCredentials `toml:"notion"`
}

// OpenAICredentials holds the key for an OpenAI-compatible endpoint
type OpenAICredentials struct {
	APIKey string `toml:"api_key"`
}

// GeminiCredentials holds Google Gemini API credentials
type GeminiCredentials struct {
	APIKey string `toml:"api_key"`
}

// NotionCredentials holds the integration token and the target database
type NotionCredentials struct {
	APIKey     string `toml:"api_key"`
	DatabaseID string `toml:"database_id"`
}

// ReadCredentials reads credentials from the specified path
func ReadCredentials(path string) (Credentials, error) {
	var creds Credentials

	data, err := os.ReadFile(path)
	if err != nil {
		return creds, err
	}

	if _, err := toml.Decode(string(data), &creds); err != nil {
		return creds, fmt.Errorf("failed to decode credentials at %s: %w", path, err)
	}

	return creds, nil
}

// LoadCredentials reads creds.toml when present, then loads a .env file from
// the working directory and lets environment variables override the file.
func LoadCredentials(path string) (Credentials, error) {
	creds, err := ReadCredentials(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return creds, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	overrideFromEnv(&creds.OpenAI.APIKey, "OPENAI_API_KEY")
	overrideFromEnv(&creds.Gemini.APIKey, "GEMINI_API_KEY")
	overrideFromEnv(&creds.Notion.APIKey, "NOTION_API_KEY")
	overrideFromEnv(&creds.Notion.DatabaseID, "NOTION_DATABASE_ID")

	return creds, nil
}

func overrideFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate reports every required setting that is missing for the given LLM provider.
func (c Credentials) Validate(provider string) error {
	var errs []error

	switch provider {
	case "gemini":
		if c.Gemini.APIKey == "" {
			errs = append(errs, errors.New("gemini api key is missing (GEMINI_API_KEY)"))
		}
	default:
		if c.OpenAI.APIKey == "" {
			errs = append(errs, errors.New("openai api key is missing (OPENAI_API_KEY)"))
		}
	}
	if c.Notion.APIKey == "" {
		errs = append(errs, errors.New("notion api key is missing (NOTION_API_KEY)"))
	}
	if c.Notion.DatabaseID == "" {
		errs = append(errs, errors.New("notion database id is missing (NOTION_DATABASE_ID)"))
	}

	return errors.Join(errs...)
}

// DefaultCredentialsPath returns the default path for credentials file
func DefaultCredentialsPath() string {
	var xdgHome = os.Getenv("XDG_CONFIG_HOME")
	if xdgHome != "" {
		return filepath.Join(xdgHome, baseCredPath)
	}

	var home = os.Getenv("HOME")
	if home != "" {
		return filepath.Join(home, ".config", baseCredPath)
	}

	panic("unable to determine credentials file path")
}
