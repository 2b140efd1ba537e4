package config

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/BurntSushi/toml"
)

const baseCfgPath = "newsbrief/config.toml"

type Config struct {
	Feed     FeedConfig        `toml:"feed"`
	Scraper  ScraperConfig     `toml:"scraper"`
	Resolver ResolverConfig    `toml:"resolver"`
	LLM      LLMConfig         `toml:"llm"`
	Archive  ArchiveConfig     `toml:"archive"`
	Schedule ScheduleConfig    `toml:"schedule"`
	Chat     ChatConfig        `toml:"chat"`
	Filters  map[string]Filter `toml:"filters"` // Named filters that can be referenced by feed.filters
}

// FeedConfig describes the news search endpoint and its locale parameters.
type FeedConfig struct {
	Endpoint    string   `toml:"endpoint"`
	Language    string   `toml:"hl"`
	Region      string   `toml:"gl"`
	Edition     string   `toml:"ceid"`
	MaxItems    int      `toml:"max_items"`
	Timeout     Duration `toml:"timeout"`
	FilterNames []string `toml:"filters"` // Names of filters to apply (pipeline)
}

type ScraperConfig struct {
	Timeout   Duration `toml:"timeout"`
	UserAgent string   `toml:"user_agent"`
	MinChars  int      `toml:"min_chars"`
	MaxChars  int      `toml:"max_chars"`
	Extractor string   `toml:"extractor"` // "paragraphs" or "readability"
}

type ResolverConfig struct {
	Timeout Duration `toml:"timeout"`
}

// LLMConfig selects the summary backend. Provider is "openai" (any
// OpenAI-compatible endpoint) or "gemini".
type LLMConfig struct {
	Provider    string `toml:"provider"`
	BaseURL     string `toml:"base_url"`
	Model       string `toml:"model"`
	Instruction string `toml:"instruction"` // text/template, receives .Query
}

type ArchiveConfig struct {
	QueryProperty   string `toml:"query_property"`
	SummaryProperty string `toml:"summary_property"`
	DateProperty    string `toml:"date_property"`
	LinkProperty    string `toml:"link_property"`
	JournalPath     string `toml:"journal_path"` // empty disables the local journal
}

type ScheduleConfig struct {
	Enabled  bool   `toml:"enabled"`
	Spec     string `toml:"spec"` // standard 5-field cron expression
	Timezone string `toml:"timezone"`
	Topic    string `toml:"topic"`
	Tag      string `toml:"tag"`
}

type ChatConfig struct {
	Greetings        []string `toml:"greetings"`
	GreetingReply    string   `toml:"greeting_reply"`
	NotFoundReply    string   `toml:"not_found_reply"`
	UnavailableReply string   `toml:"summary_unavailable_reply"`
	ProgressMessage  string   `toml:"progress_message"`
}

// Filter defines rules for filtering feed entries by title
type Filter struct {
	MinLength       int      `toml:"min_length"`       // Minimum character count (0 = no limit)
	MinWords        int      `toml:"min_words"`        // Minimum word count (0 = no limit)
	ExcludePatterns []string `toml:"exclude_patterns"` // Regex patterns to exclude
}

// Duration lets TOML carry durations as strings like "5s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// ScheduledQuery is the archive query label of the daily job, e.g. "[자동] 최신 AI 기술".
func (s ScheduleConfig) ScheduledQuery() string {
	if s.Tag == "" {
		return s.Topic
	}
	return s.Tag + " " + s.Topic
}

// Location resolves the configured timezone; empty means local time.
func (s ScheduleConfig) Location() (*time.Location, error) {
	if s.Timezone == "" || s.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone '%s' with %w", s.Timezone, err)
	}
	return loc, nil
}

func Read(path string) (Config, error) {
	conf := Default()
	dat, err := os.ReadFile(path)
	if err != nil {
		return conf, err
	}
	_, err = toml.Decode(string(dat), &conf)
	if err != nil {
		return conf, fmt.Errorf("failed to decode config at %s with %w", path, err)
	}
	return conf, nil
}

func Write(cfgPath string, cfg Config) error {
	blob, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config with %w", err)
	}
	basePath := path.Dir(cfgPath)
	err = os.MkdirAll(basePath, os.ModePerm)
	if err != nil {
		return fmt.Errorf("failed to create base config directory at '%s' with %w", basePath, err)
	}
	err = os.WriteFile(cfgPath, blob, 0644)
	if err != nil {
		return fmt.Errorf("failed to write into config file at '%s' with %w", cfgPath, err)
	}
	slog.Info("config written", "at", cfgPath)
	return nil
}

func Default() Config {
	var dataBase = path.Join(os.Getenv("HOME"), ".local/share/newsbrief")
	return Config{
		Feed: FeedConfig{
			Endpoint: "https://news.google.com/rss/search",
			Language: "ko",
			Region:   "KR",
			Edition:  "KR:ko",
			MaxItems: 2,
			Timeout:  Duration{10 * time.Second},
		},
		Scraper: ScraperConfig{
			Timeout:   Duration{5 * time.Second},
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			MinChars:  50,
			MaxChars:  3000,
			Extractor: "paragraphs",
		},
		Resolver: ResolverConfig{
			Timeout: Duration{5 * time.Second},
		},
		LLM: LLMConfig{
			Provider:    "openai",
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-5-nano",
			Instruction: "사용자가 '{{.Query}}'에 대해 검색했어. 위 기사들의 '본문내용'을 바탕으로 핵심 정보를 종합해서 3줄로 깔끔하게 요약해줘.",
		},
		Archive: ArchiveConfig{
			QueryProperty:   "검색어",
			SummaryProperty: "요약내용",
			DateProperty:    "날짜",
			LinkProperty:    "링크",
			JournalPath:     path.Join(dataBase, "archive.db"),
		},
		Schedule: ScheduleConfig{
			Enabled:  true,
			Spec:     "0 9 * * *",
			Timezone: "Local",
			Topic:    "최신 AI 기술",
			Tag:      "[자동]",
		},
		Chat: ChatConfig{
			Greetings:        []string{"안녕", "반가워"},
			GreetingReply:    "안녕하세요! 무엇을 도와드릴까요?",
			NotFoundReply:    "관련 기사를 찾지 못했거나 접근이 제한되었습니다.",
			UnavailableReply: "기사는 찾았지만 요약을 생성하지 못했습니다. 잠시 후 다시 시도해 주세요.",
			ProgressMessage:  "기사 본문을 읽고 요약 중입니다... (시간이 조금 걸려요)",
		},
		Filters: map[string]Filter{},
	}
}

func DefaultPath() string {
	var xdgHome = os.Getenv("XDG_CONFIG_HOME")
	if xdgHome != "" {
		return path.Join(xdgHome, baseCfgPath)
	}

	var home = os.Getenv("HOME")
	if home != "" {
		return path.Join(home, ".config", baseCfgPath)
	}

	panic("unclear where to search for the config fie")
}
