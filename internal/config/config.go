// Package config provides configuration loading, validation, and management
// for the Lingvo bot. It reads an optional YAML file, overlays environment
// variables, fills defaults and validates the result.
package config

import (
	"time"

	"github.com/go-telegram/bot/models"
)

// Config defines the application configuration parameters for all components
// of the bot: logging, Telegram, storage, language model, image generation,
// quotas, content files, quizzes, broadcasts and scheduling.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Images    ImagesConfig    `mapstructure:"images"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Content   ContentConfig   `mapstructure:"content"`
	Quiz      QuizConfig      `mapstructure:"quiz"`
	Broadcast BroadcastConfig `mapstructure:"broadcast"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	Buttons   ButtonsConfig   `mapstructure:"buttons"`
	Prompts   PromptsConfig   `mapstructure:"prompts"`
}

// LoggerConfig controls slog output.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds bot credentials, the administrator identity and the
// links advertised in menus.
type TelegramConfig struct {
	Token       string `mapstructure:"token"         validate:"required"`
	AdminUserID int64  `mapstructure:"admin_user_id" validate:"required,gt=0"`
	ChannelURL  string `mapstructure:"channel_url"   validate:"omitempty,url"`
	InviteURL   string `mapstructure:"invite_url"    validate:"omitempty,url"`
	Projects    []Link `mapstructure:"projects"      validate:"dive"`

	// BotInfo is populated at startup from getMe.
	BotInfo *models.User `mapstructure:"-"`
}

// Link is a labelled URL rendered as an inline button.
type Link struct {
	Title string `mapstructure:"title" validate:"required"`
	URL   string `mapstructure:"url"   validate:"required,url"`
}

// DatabaseConfig points at the SQLite file.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// LLMConfig selects and configures the language model backend.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"    validate:"oneof=openai gemini"`
	APIKey      string        `mapstructure:"api_key"     validate:"required"`
	BaseURL     string        `mapstructure:"base_url"    validate:"omitempty,url"`
	Model       string        `mapstructure:"model"       validate:"required"`
	Temperature float32       `mapstructure:"temperature" validate:"min=0,max=2"`
	Timeout     time.Duration `mapstructure:"timeout"     validate:"min=1s,max=10m"`
}

// ImagesConfig configures the illustration generator for word-of-day posts.
type ImagesConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	BaseURL     string        `mapstructure:"base_url"     validate:"omitempty,url"`
	Model       string        `mapstructure:"model"`
	CropHeight  int           `mapstructure:"crop_height"  validate:"min=0"`
	MinBytes    int           `mapstructure:"min_bytes"    validate:"min=0"`
	Timeout     time.Duration `mapstructure:"timeout"      validate:"min=1s"`
	Dir         string        `mapstructure:"dir"`
	MaxFailures int           `mapstructure:"max_failures" validate:"min=1"`
	OpenPeriod  time.Duration `mapstructure:"open_period"  validate:"min=1s"`
}

// RateLimitConfig bounds model-backed requests per user per calendar day.
type RateLimitConfig struct {
	DailyRequests  int  `mapstructure:"daily_requests"   validate:"min=1"`
	MaxInputLength int  `mapstructure:"max_input_length" validate:"min=1"`
	Persistent     bool `mapstructure:"persistent"`
}

// ContentConfig locates the reference data files.
type ContentConfig struct {
	WordsPath    string `mapstructure:"words_path"     validate:"required"`
	QuizBankPath string `mapstructure:"quiz_bank_path"`
}

// QuizConfig controls the lifetime of unanswered quizzes.
type QuizConfig struct {
	ActiveTTL time.Duration `mapstructure:"active_ttl" validate:"min=1m"`
}

// BroadcastConfig bounds how many recipients are served in parallel.
type BroadcastConfig struct {
	Concurrency int           `mapstructure:"concurrency"  validate:"min=1,max=30"`
	SendTimeout time.Duration `mapstructure:"send_timeout" validate:"min=1s"`
}

// SchedulerConfig lists the scheduled tasks keyed by task name.
type SchedulerConfig struct {
	Timezone string                `mapstructure:"timezone" validate:"required"`
	Tasks    map[string]TaskConfig `mapstructure:"tasks"    validate:"dive"`
}

// TaskConfig configures a single scheduled task. Interval, when set, takes
// precedence over Schedule and is meant for test deployments.
type TaskConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Schedule string        `mapstructure:"schedule"`
	Interval time.Duration `mapstructure:"interval" validate:"omitempty,min=1s"`
}

// MessagesConfig holds every user-facing text.
type MessagesConfig struct {
	Welcome             string   `mapstructure:"welcome"`
	Help                string   `mapstructure:"help"`
	Unknown             string   `mapstructure:"unknown"`
	NotAuthorized       string   `mapstructure:"not_authorized"`
	GeneralError        string   `mapstructure:"general_error"`
	Processing          string   `mapstructure:"processing"`
	QuotaRemaining      string   `mapstructure:"quota_remaining"`
	QuotaExhausted      string   `mapstructure:"quota_exhausted"`
	TooLong             string   `mapstructure:"too_long"`
	EmptyModelResponse  string   `mapstructure:"empty_model_response"`
	ModelError          string   `mapstructure:"model_error"`
	SpellCheckPrompt    string   `mapstructure:"spell_check_prompt"`
	TextTopicPrompt     string   `mapstructure:"text_topic_prompt"`
	TextTonePrompt      string   `mapstructure:"text_tone_prompt"`
	TextDetailsPrompt   string   `mapstructure:"text_details_prompt"`
	NoDetailsAnswer     string   `mapstructure:"no_details_answer"`
	TopikInfo           string   `mapstructure:"topik_info"`
	Unsubscribed        string   `mapstructure:"unsubscribed"`
	UnsubscribeError    string   `mapstructure:"unsubscribe_error"`
	StaySubscribed      string   `mapstructure:"stay_subscribed"`
	Resubscribed        string   `mapstructure:"resubscribed"`
	ResubscribeError    string   `mapstructure:"resubscribe_error"`
	FeedbackMenu        string   `mapstructure:"feedback_menu"`
	FeedbackPrompt      string   `mapstructure:"feedback_prompt"`
	FeedbackSent        string   `mapstructure:"feedback_sent"`
	FeedbackForward     string   `mapstructure:"feedback_forward"`
	AdminReplyPrompt    string   `mapstructure:"admin_reply_prompt"`
	AdminReplyPrefix    string   `mapstructure:"admin_reply_prefix"`
	AdminReplySent      string   `mapstructure:"admin_reply_sent"`
	AdminReplyFailed    string   `mapstructure:"admin_reply_failed"`
	AdminReplyNoTarget  string   `mapstructure:"admin_reply_no_target"`
	TellFriend          string   `mapstructure:"tell_friend"`
	Projects            string   `mapstructure:"projects"`
	Channel             string   `mapstructure:"channel"`
	WordOfDay           string   `mapstructure:"word_of_day"`
	QuizHeader          string   `mapstructure:"quiz_header"`
	QuizCorrect         string   `mapstructure:"quiz_correct"`
	QuizWrong           string   `mapstructure:"quiz_wrong"`
	QuizMalformed       string   `mapstructure:"quiz_malformed"`
	QuizForeign         string   `mapstructure:"quiz_foreign"`
	QuizExpired         string   `mapstructure:"quiz_expired"`
	QuizUnavailable     string   `mapstructure:"quiz_unavailable"`
	Stats               string   `mapstructure:"stats"`
	Consolations        []string `mapstructure:"consolations"`
	ExampleFallback     string   `mapstructure:"example_fallback"`
	TranslationFallback string   `mapstructure:"translation_fallback"`
}

// ButtonsConfig holds reply-keyboard and inline button labels. Reply keyboard
// labels double as the exact-match patterns of their handlers.
type ButtonsConfig struct {
	SpellCheck     string `mapstructure:"spell_check"    validate:"required"`
	GenerateText   string `mapstructure:"generate_text"  validate:"required"`
	Channel        string `mapstructure:"channel"        validate:"required"`
	Topik          string `mapstructure:"topik"          validate:"required"`
	Feedback       string `mapstructure:"feedback"       validate:"required"`
	Unsubscribe    string `mapstructure:"unsubscribe"`
	Stay           string `mapstructure:"stay"`
	Resubscribe    string `mapstructure:"resubscribe"`
	WriteUs        string `mapstructure:"write_us"`
	TellFriend     string `mapstructure:"tell_friend"`
	OurProjects    string `mapstructure:"our_projects"`
	Reply          string `mapstructure:"reply"`
	OpenChannel    string `mapstructure:"open_channel"`
	ToneFormal     string `mapstructure:"tone_formal"`
	ToneSemiFormal string `mapstructure:"tone_semi_formal"`
	ToneFriendly   string `mapstructure:"tone_friendly"`
}

// PromptsConfig holds the model instructions.
type PromptsConfig struct {
	SpellCheck   string `mapstructure:"spell_check"   validate:"required"`
	GenerateText string `mapstructure:"generate_text" validate:"required"`
	// TextDetails is appended to GenerateText when the user asked for more.
	TextDetails string `mapstructure:"text_details"  validate:"required"`
	Translate   string `mapstructure:"translate"     validate:"required"`
	Example     string `mapstructure:"example"       validate:"required"`
	ImagePrompt string `mapstructure:"image_prompt"  validate:"required"`
}

// Location resolves the configured scheduler timezone. Validate rejects
// unknown zones, so the process-local fallback only covers an unset zone.
func (c *Config) Location() *time.Location {
	if c == nil || c.Scheduler.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// IsAdmin reports whether userID is the configured administrator.
func (c *Config) IsAdmin(userID int64) bool {
	return c != nil && userID != 0 && userID == c.Telegram.AdminUserID
}
