package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LINGVO_LLM_MODEL.
const EnvPrefix = "LINGVO"

// legacyEnv maps the variable names of the original deployment onto config
// keys so existing .env files keep working.
var legacyEnv = map[string]string{
	"telegram.token":            "BOT_TOKEN",
	"telegram.admin_user_id":    "ADMIN_ID",
	"llm.api_key":               "API_KEY",
	"llm.model":                 "MODEL_NAME",
	"rate_limit.daily_requests": "MAX_REQUESTS_PER_DAY",
}

// boundKeys are reachable through LINGVO_* variables even when absent from
// the config file.
var boundKeys = []string{
	"logger.level", "logger.json",
	"telegram.token", "telegram.admin_user_id", "telegram.channel_url", "telegram.invite_url",
	"database.path",
	"llm.provider", "llm.api_key", "llm.base_url", "llm.model", "llm.temperature", "llm.timeout",
	"images.enabled", "images.base_url", "images.model", "images.crop_height", "images.min_bytes",
	"images.timeout", "images.dir",
	"rate_limit.daily_requests", "rate_limit.max_input_length", "rate_limit.persistent",
	"content.words_path", "content.quiz_bank_path",
	"quiz.active_ttl",
	"broadcast.concurrency", "broadcast.send_timeout",
	"scheduler.timezone",
}

// LoadConfig reads configuration from defaults, the optional YAML file at
// path, and environment variables, in increasing order of precedence, then
// validates the result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range boundKeys {
		envKeys := []string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
		if legacy, ok := legacyEnv[key]; ok {
			envKeys = append(envKeys, legacy)
		}
		if err := v.BindEnv(append([]string{key}, envKeys...)...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	// Task entries decode into fresh zero values, so a file that only sets
	// an interval must still inherit the default trigger and enabled flag.
	for name, task := range DefaultTasks {
		v.SetDefault("scheduler.tasks."+name+".enabled", task.Enabled)
		v.SetDefault("scheduler.tasks."+name+".schedule", task.Schedule)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		}
	}

	cfg := defaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct tags and the cross-field rules tags cannot express.
func Validate(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := time.LoadLocation(cfg.Scheduler.Timezone); err != nil {
		return fmt.Errorf("config validation failed: scheduler timezone %q: %w", cfg.Scheduler.Timezone, err)
	}

	for name, task := range cfg.Scheduler.Tasks {
		if task.Enabled && task.Schedule == "" && task.Interval == 0 {
			return fmt.Errorf("config validation failed: task %q needs a schedule or an interval", name)
		}
	}
	return nil
}
