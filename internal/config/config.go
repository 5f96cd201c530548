package config

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfighcl"
)

// Конфиг общий для обеих функций. Файлы в формате hcl, переменные окружения
// перекрывают значения из файлов. Префикса у переменных нет, потому что
// PROJECT_ID, TOPIC_NAME и SLACK_CHANNEL_ID выставляет сама инфраструктура.
type Config struct {
	ProjectID string `hcl:"project_id" env:"PROJECT_ID"`
	Location  string `hcl:"location" env:"LOCATION" default:"us-central1"`

	// Poller
	FeedURL        string        `hcl:"feed_url" env:"FEED_URL" default:"https://dev.classmethod.jp/feed/"`
	FeedParser     string        `hcl:"feed_parser" env:"FEED_PARSER" default:"rss"`
	FeedUTCOffset  time.Duration `hcl:"feed_utc_offset" env:"FEED_UTC_OFFSET" default:"9h"`
	LookupWindow   time.Duration `hcl:"lookup_window" env:"LOOKUP_WINDOW" default:"1h"`
	FilterKeywords []string      `hcl:"filter_keywords" env:"FILTER_KEYWORDS"`

	// Очередь между функциями
	QueueDriver  string   `hcl:"queue_driver" env:"QUEUE_DRIVER" default:"pubsub"`
	TopicName    string   `hcl:"topic_name" env:"TOPIC_NAME"`
	KafkaBrokers []string `hcl:"kafka_brokers" env:"KAFKA_BROKERS"`
	KafkaGroupID string   `hcl:"kafka_group_id" env:"KAFKA_GROUP_ID" default:"blog-auto-review"`

	// Дедупликация ссылок, выключена пока не задан адрес redis
	RedisAddr     string        `hcl:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string        `hcl:"redis_password" env:"REDIS_PASSWORD"`
	DedupeTTL     time.Duration `hcl:"dedupe_ttl" env:"DEDUPE_TTL" default:"24h"`

	// Reviewer
	ReadabilityFallback bool    `hcl:"readability_fallback" env:"READABILITY_FALLBACK" default:"false"`
	ModelProvider       string  `hcl:"model_provider" env:"MODEL_PROVIDER" default:"vertexai"`
	ModelName           string  `hcl:"model_name" env:"MODEL_NAME" default:"gemini-1.5-flash-001"`
	// Ноль означает значение по умолчанию из review.DefaultSettings
	MaxOutputTokens     int     `hcl:"max_output_tokens" env:"MAX_OUTPUT_TOKENS"`
	Temperature         float64 `hcl:"temperature" env:"TEMPERATURE"`
	TopP                float64 `hcl:"top_p" env:"TOP_P"`
	ReviewInstruction   string  `hcl:"review_instruction" env:"REVIEW_INSTRUCTION"`
	OpenAIKey           string  `hcl:"openai_key" env:"OPENAI_KEY"`

	Notifier          string `hcl:"notifier" env:"NOTIFIER" default:"slack"`
	SlackChannelID    string `hcl:"slack_channel_id" env:"SLACK_CHANNEL_ID"`
	SlackTokenSecret  string `hcl:"slack_token_secret" env:"SLACK_TOKEN_SECRET" default:"blog-auto-review-slack-bot-token"`
	TelegramBotToken  string `hcl:"telegram_bot_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChannelID int64  `hcl:"telegram_channel_id" env:"TELEGRAM_CHANNEL_ID"`

	// Журнал ревью в postgres, пустой DSN выключает запись
	DatabaseDSN string `hcl:"database_dsn" env:"DATABASE_DSN"`

	LogJSON bool `hcl:"log_json" env:"LOG_JSON" default:"true"`
}

var (
	cfg  Config
	once sync.Once
)

// Get читает конфиг один раз на инстанс функции.
func Get() Config {
	once.Do(func() {
		var err error
		cfg, err = Load("./config.hcl", "./config.local.hcl")
		if err != nil {
			log.Printf("[ERROR] failed to load config: %v", err)
		}
	})

	return cfg
}

// Load читает конфиг из переданных файлов и окружения.
// Отсутствующие файлы пропускаются.
func Load(files ...string) (Config, error) {
	var c Config

	loader := aconfig.LoaderFor(&c, aconfig.Config{
		// Флаги разбирает functions framework и go test, нам они не нужны
		SkipFlags:        true,
		AllowUnknownEnvs: true,
		Files:            files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".hcl": aconfighcl.New(),
		},
	})

	if err := loader.Load(); err != nil {
		return Config{}, err
	}

	return c, nil
}

func (c Config) ValidatePoller() error {
	if c.FeedURL == "" {
		return errors.New("feed_url is required")
	}
	if c.TopicName == "" {
		return errors.New("TOPIC_NAME is required")
	}
	if c.LookupWindow <= 0 {
		return errors.New("lookup_window must be > 0")
	}

	return c.validateQueue()
}

func (c Config) ValidateReviewer() error {
	switch c.ModelProvider {
	case "vertexai":
		if c.ProjectID == "" {
			return errors.New("PROJECT_ID is required for vertexai")
		}
	case "openai":
		if c.OpenAIKey == "" {
			return errors.New("OPENAI_KEY is required for openai")
		}
	default:
		return errors.New("unknown model_provider: " + c.ModelProvider)
	}

	switch c.Notifier {
	case "slack":
		if c.ProjectID == "" || c.SlackChannelID == "" {
			return errors.New("PROJECT_ID and SLACK_CHANNEL_ID are required for slack")
		}
	case "telegram":
		if c.TelegramBotToken == "" || c.TelegramChannelID == 0 {
			return errors.New("telegram_bot_token and telegram_channel_id are required for telegram")
		}
	default:
		return errors.New("unknown notifier: " + c.Notifier)
	}

	return nil
}

func (c Config) validateQueue() error {
	switch c.QueueDriver {
	case "pubsub":
		if c.ProjectID == "" {
			return errors.New("PROJECT_ID is required for pubsub")
		}
	case "kafka":
		if len(c.KafkaBrokers) == 0 {
			return errors.New("kafka_brokers is required for kafka")
		}
	default:
		return errors.New("unknown queue_driver: " + c.QueueDriver)
	}

	return nil
}
