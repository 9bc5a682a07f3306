package configuration

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"newsroom/infrastructure/logger"

	"github.com/spf13/viper"
)

const (
	defaultPort            = 10001
	defaultPipelineTimeout = 2 * time.Minute
	defaultArticleCacheTTL = 10 * time.Minute
	defaultLLMProvider     = "openai"
	defaultOpenAIModel     = "gpt-4o-mini"
	defaultAnthropicModel  = "claude-haiku-4-5"
	defaultMaxTokens       = 4096
	defaultUserAgent       = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	Logger      Logger      `json:"logger"`
	LLM         LLM         `json:"llm"`
	Social      Social      `json:"social"`
	Revalidate  Revalidate  `json:"revalidate"`
	Events      Events      `json:"events"`
	Extractor   Extractor   `json:"extractor"`
}

type App struct {
	Port            int           `json:"port"`
	Secrets         Secrets       `json:"secrets"`
	PipelineTimeout time.Duration `json:"pipelineTimeout"`
	PublicBaseURL   string        `json:"publicBaseURL"`
	AllowedOrigins  []string      `json:"allowedOrigins"`
	TLSEnabled      bool          `json:"tlsEnabled"`
	TLSCertFile     string        `json:"tlsCertFile"`
	TLSKeyFile      string        `json:"tlsKeyFile"`
}

// Secrets holds the shared secret guarding mutating endpoints. Legacy is the
// previous value, still accepted.
type Secrets struct {
	Current string `json:"current"`
	Legacy  string `json:"legacy"`
}

type Database struct {
	Psql Db `json:"psql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
}

type RedisClient struct {
	Host       string        `json:"host"`
	Port       string        `json:"port"`
	Password   string        `json:"password"`
	Username   string        `json:"username"`
	DB         int           `json:"db"`
	ArticleTTL time.Duration `json:"articleTTL"`
}

type Logger struct {
	Format string `json:"format"`
	Level  string `json:"level"`
}

type LLM struct {
	Provider     string `json:"provider"` // openai | anthropic
	Model        string `json:"model"`
	MaxTokens    int64  `json:"maxTokens"`
	OpenAIKey    string `json:"openAIKey"`
	AnthropicKey string `json:"anthropicKey"`
}

type Social struct {
	Platforms []string    `json:"platforms"`
	Facebook  PlatformAPI `json:"facebook"`
	Instagram PlatformAPI `json:"instagram"`
	X         PlatformAPI `json:"x"`
}

// PlatformAPI is the fallback credential for a platform when none is stored.
type PlatformAPI struct {
	BaseURL     string `json:"baseURL"`
	AccessToken string `json:"accessToken"`
	AccountID   string `json:"accountId"`
}

type Revalidate struct {
	URL   string `json:"url"`
	Token string `json:"token"`
}

type Events struct {
	Sink      string `json:"sink"` // none | pubsub | servicebus
	ProjectID string `json:"projectID"`
	Topic     string `json:"topic"`
	Namespace string `json:"namespace"`
	Queue     string `json:"queue"`
}

type Extractor struct {
	UserAgent string        `json:"userAgent"`
	Timeout   time.Duration `json:"timeout"`
}

// Load builds the process configuration once: config file, then environment
// overrides, then defaults. The result is passed explicitly to constructors.
func Load() (*Config, error) {
	v := viper.New()
	name := getConfig()
	v.SetConfigName(name)
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("../")
	v.AddConfigPath("../../")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", name, err)
		}
		logger.GetLogger().WithField("config", name).Warn("Config file not found, using environment only")
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	initApp(cfg)
	initDatabase(cfg)
	initRedis(cfg)
	initLLM(cfg)
	initSocial(cfg)
	initIntegrations(cfg)

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	return cfg, nil
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initApp(c *Config) {
	if v := os.Getenv("SHARED_SECRET"); v != "" {
		c.App.Secrets.Current = v
	}
	if v := os.Getenv("LEGACY_SHARED_SECRET"); v != "" {
		c.App.Secrets.Legacy = v
	}
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.App.Port = p
		}
	}
	if c.App.Port == 0 {
		c.App.Port = defaultPort
	}
	if v := os.Getenv("PIPELINE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.App.PipelineTimeout = d
		}
	}
	if c.App.PipelineTimeout <= 0 {
		c.App.PipelineTimeout = defaultPipelineTimeout
	}
	if v := os.Getenv("PUBLIC_BASE_URL"); v != "" {
		c.App.PublicBaseURL = v
	}
	c.App.PublicBaseURL = strings.TrimRight(c.App.PublicBaseURL, "/")
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.App.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		switch v {
		case "1", "true", "TRUE", "True":
			c.App.TLSEnabled = true
		case "0", "false", "FALSE", "False":
			c.App.TLSEnabled = false
		}
	}
	if c.App.TLSCertFile == "" {
		c.App.TLSCertFile = os.Getenv("TLS_CERT_FILE")
	}
	if c.App.TLSKeyFile == "" {
		c.App.TLSKeyFile = os.Getenv("TLS_KEY_FILE")
	}
	if c.App.Secrets.Current == "" {
		logger.GetLogger().Warn("App.Secrets.Current not set; every mutating endpoint will reject requests. Provide SHARED_SECRET via environment.")
	}
}

func initDatabase(c *Config) {
	if c.Database.Psql.Name == "" {
		c.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if c.Database.Psql.Host == "" {
		c.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if c.Database.Psql.User == "" {
		c.Database.Psql.User = os.Getenv("DB_USER")
	}
	if c.Database.Psql.Password == "" {
		c.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if c.Database.Psql.Port == "" {
		c.Database.Psql.Port = os.Getenv("DB_PORT")
	}
	if c.Database.Psql.Port == "" {
		c.Database.Psql.Port = "5432"
	}
	if c.Database.Psql.SSLMode == "" {
		c.Database.Psql.SSLMode = "disable"
	}
}

func initRedis(c *Config) {
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.RedisClient.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		c.RedisClient.Port = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.RedisClient.Password = v
	}
	if c.RedisClient.Host == "" {
		c.RedisClient.Host = "localhost"
	}
	if c.RedisClient.Port == "" {
		c.RedisClient.Port = "6379"
	}
	if c.RedisClient.ArticleTTL <= 0 {
		c.RedisClient.ArticleTTL = defaultArticleCacheTTL
	}
}

func initLLM(c *Config) {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.LLM.OpenAIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.LLM.AnthropicKey = v
	}
	c.LLM.Provider = strings.ToLower(c.LLM.Provider)
	if c.LLM.Provider == "" {
		c.LLM.Provider = defaultLLMProvider
	}
	if c.LLM.Model == "" {
		if c.LLM.Provider == "anthropic" {
			c.LLM.Model = defaultAnthropicModel
		} else {
			c.LLM.Model = defaultOpenAIModel
		}
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = defaultMaxTokens
	}
}

func initSocial(c *Config) {
	if len(c.Social.Platforms) == 0 {
		c.Social.Platforms = []string{"facebook", "instagram", "x"}
	}
	overrideAPI(&c.Social.Facebook, "FACEBOOK")
	overrideAPI(&c.Social.Instagram, "INSTAGRAM")
	overrideAPI(&c.Social.X, "X")
	if c.Social.Facebook.BaseURL == "" {
		c.Social.Facebook.BaseURL = "https://graph.facebook.com/v19.0"
	}
	if c.Social.Instagram.BaseURL == "" {
		c.Social.Instagram.BaseURL = "https://graph.facebook.com/v19.0"
	}
	if c.Social.X.BaseURL == "" {
		c.Social.X.BaseURL = "https://api.twitter.com/2"
	}
}

func overrideAPI(api *PlatformAPI, prefix string) {
	if v := os.Getenv(prefix + "_ACCESS_TOKEN"); v != "" {
		api.AccessToken = v
	}
	if v := os.Getenv(prefix + "_ACCOUNT_ID"); v != "" {
		api.AccountID = v
	}
	if v := os.Getenv(prefix + "_BASE_URL"); v != "" {
		api.BaseURL = v
	}
}

func initIntegrations(c *Config) {
	if v := os.Getenv("REVALIDATE_URL"); v != "" {
		c.Revalidate.URL = v
	}
	if v := os.Getenv("REVALIDATE_TOKEN"); v != "" {
		c.Revalidate.Token = v
	}
	if v := os.Getenv("EVENTS_SINK"); v != "" {
		c.Events.Sink = v
	}
	c.Events.Sink = strings.ToLower(c.Events.Sink)
	if c.Events.Sink == "" {
		c.Events.Sink = "none"
	}
	if c.Events.Topic == "" {
		c.Events.Topic = "article-published"
	}
	if c.Events.Queue == "" {
		c.Events.Queue = "article-published"
	}
	if c.Extractor.UserAgent == "" {
		c.Extractor.UserAgent = defaultUserAgent
	}
	if c.Extractor.Timeout <= 0 {
		c.Extractor.Timeout = 20 * time.Second
	}
}

// Values returns the accepted secrets. Empty configured values are skipped.
func (s Secrets) Values() []string {
	out := make([]string, 0, 2)
	if s.Current != "" {
		out = append(out, s.Current)
	}
	if s.Legacy != "" {
		out = append(out, s.Legacy)
	}
	return out
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
