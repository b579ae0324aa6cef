// config предоставляет структуру конфигурации ИнфоМонитора
// и функции загрузки из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"sort"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pribylovaa/infomonitor/internal/models"
)

// Config — корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
//
// Реестр источников (sources) задаётся только в YAML и после загрузки не меняется.
type Config struct {
	Env      string         `yaml:"env"      env:"ENV" env-default:"local"`
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	DB       DBConfig       `yaml:"db"`
	Redis    RedisConfig    `yaml:"redis"`
	Fetcher  FetcherConfig  `yaml:"fetcher"`
	Limits   LimitsConfig   `yaml:"limits"`
	Session  SessionConfig  `yaml:"session"`
	Bot      BotConfig      `yaml:"bot"`
	Digest   DigestConfig   `yaml:"digest"`
	Delivery DeliveryConfig `yaml:"delivery"`
	Timeouts TimeoutConfig  `yaml:"timeouts"`
	// Categories — известные тематические теги: ключ -> отображаемое имя.
	Categories map[string]string `yaml:"categories"`
	// Sources — реестр RSS-источников; порядок определяет tie-break при сортировке.
	Sources []models.Source `yaml:"sources"`
}

// TimeoutConfig — таймауты сервиса.
type TimeoutConfig struct {
	// Service — общий дедлайн HTTP/gRPC-запроса; должен покрывать fetcher.timeout.
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"20s"`
}

// GRPCConfig — сетевые настройки gRPC-сервера (health-check).
type GRPCConfig struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50055"`
}

// HTTPConfig — сетевые настройки HTTP-сервера.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

// Addr возвращает адрес в формате host:port.
func (g GRPCConfig) Addr() string {
	return net.JoinHostPort(g.Host, g.Port)
}

// Addr возвращает адрес в формате host:port.
func (g HTTPConfig) Addr() string {
	return net.JoinHostPort(g.Host, g.Port)
}

// DBConfig — настройки подключения к базе подписчиков.
type DBConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL" env-required:"true"`
}

// RedisConfig — кэш последнего дайджеста. Пустой URL отключает кэш.
type RedisConfig struct {
	URL       string        `yaml:"url"        env:"REDIS_URL"`
	Prefix    string        `yaml:"prefix"     env:"REDIS_PREFIX"     env-default:"infomonitor:"`
	DigestTTL time.Duration `yaml:"digest_ttl" env:"REDIS_DIGEST_TTL" env-default:"1h"`
}

// FetcherConfig — параметры загрузки лент.
type FetcherConfig struct {
	// Timeout — таймаут одного источника.
	Timeout time.Duration `yaml:"timeout"     env:"FETCH_TIMEOUT"     env-default:"10s"`
	// Concurrency — число одновременных загрузок.
	Concurrency int `yaml:"concurrency" env:"FETCH_CONCURRENCY" env-default:"6"`
	// PerSource — сколько первых записей ленты берём с каждого источника.
	PerSource int    `yaml:"per_source" env:"FETCH_PER_SOURCE" env-default:"3"`
	UserAgent string `yaml:"user_agent" env:"FETCH_USER_AGENT" env-default:"InfoMonitor/1.0"`
}

// LimitsConfig — ограничения длины текстовых полей новости (в символах).
type LimitsConfig struct {
	Title       int `yaml:"title"       env:"TITLE_MAX_LEN"       env-default:"200"`
	Description int `yaml:"description" env:"DESCRIPTION_MAX_LEN" env-default:"200"`
}

// SessionConfig — параметры хранилища сессий пагинации.
type SessionConfig struct {
	// TTL — время жизни сессии без активности.
	TTL           time.Duration `yaml:"ttl"            env:"SESSION_TTL"            env-default:"24h"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"SESSION_SWEEP_INTERVAL" env-default:"10m"`
}

// BotConfig — параметры диалога.
type BotConfig struct {
	// NewsLimit — сколько новостей загружается по команде /news.
	NewsLimit int `yaml:"news_limit" env:"BOT_NEWS_LIMIT" env-default:"10"`
}

// DigestConfig — ежедневная рассылка.
type DigestConfig struct {
	Enabled bool `yaml:"enabled" env:"DIGEST_ENABLED" env-default:"true"`
	// At — время запуска в формате HH:MM (UTC).
	At    string `yaml:"at"    env:"DIGEST_AT"    env-default:"06:00"`
	Limit int    `yaml:"limit" env:"DIGEST_LIMIT" env-default:"5"`
}

// DeliveryConfig — доставка дайджеста подписчикам через webhook чат-фронтенда.
// Пустой URL — рассылка только логируется.
type DeliveryConfig struct {
	URL        string        `yaml:"url"         env:"DELIVERY_URL"`
	Timeout    time.Duration `yaml:"timeout"     env:"DELIVERY_TIMEOUT"     env-default:"5s"`
	MaxRetries uint64        `yaml:"max_retries" env:"DELIVERY_MAX_RETRIES" env-default:"3"`
	// RPS/Burst — глобальный лимит отправок (Telegram Bot API допускает ~30 msg/s).
	RPS   float64 `yaml:"rps"   env:"DELIVERY_RPS"   env-default:"25"`
	Burst int     `yaml:"burst" env:"DELIVERY_BURST" env-default:"5"`
}

// DigestClock возвращает час и минуту запуска рассылки.
func (d DigestConfig) DigestClock() (int, int, error) {
	t, err := time.Parse("15:04", d.At)
	if err != nil {
		return 0, 0, fmt.Errorf("digest.at must be HH:MM: %w", err)
	}
	return t.Hour(), t.Minute(), nil
}

// CategoryKeys возвращает отсортированный список известных категорий.
func (c *Config) CategoryKeys() []string {
	keys := make([]string, 0, len(c.Categories))
	for k := range c.Categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// defaultCategories — категории по умолчанию, если в YAML секция не задана.
func defaultCategories() map[string]string {
	return map[string]string{
		"politics":      "Политика",
		"entertainment": "Кино и Видеоигры",
		"tech":          "Технологии",
		"business":      "Бизнес",
	}
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", p)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		return &cfg, nil
	}

	finish := func(c *Config) (*Config, error) {
		c.applyDefaults()
		if err := c.validate(); err != nil {
			return nil, err
		}
		return c, nil
	}

	// 1) Явный путь.
	if path != "" {
		c, err := tryRead(path)
		if err != nil {
			return nil, err
		}
		return finish(c)
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		c, err := tryRead(envPath)
		if err != nil {
			return nil, err
		}
		return finish(c)
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read local.yaml: %w", err)
		}
		return finish(&cfg)
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}
	return finish(&cfg)
}

func (c *Config) applyDefaults() {
	if len(c.Categories) == 0 {
		c.Categories = defaultCategories()
	}
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	if c.DB.URL == "" {
		return fmt.Errorf("db.url is required")
	}
	if len(c.Sources) == 0 {
		return fmt.Errorf("sources must contain at least one RSS feed")
	}

	seen := make(map[string]struct{}, len(c.Sources))
	for i, s := range c.Sources {
		if s.ID == "" {
			return fmt.Errorf("sources[%d]: id is required", i)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("sources[%d]: duplicate id %q", i, s.ID)
		}
		seen[s.ID] = struct{}{}

		u, err := url.Parse(s.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("source %q: url must be absolute http(s), got %q", s.ID, s.URL)
		}
		for _, cat := range s.Categories {
			if _, ok := c.Categories[cat]; !ok {
				return fmt.Errorf("source %q: unknown category %q", s.ID, cat)
			}
		}
	}

	if c.Fetcher.Timeout <= 0 {
		return fmt.Errorf("fetcher.timeout must be > 0")
	}
	if c.Fetcher.Concurrency <= 0 {
		return fmt.Errorf("fetcher.concurrency must be > 0")
	}
	if c.Fetcher.PerSource <= 0 {
		return fmt.Errorf("fetcher.per_source must be > 0")
	}
	if c.Limits.Title <= 0 || c.Limits.Description <= 0 {
		return fmt.Errorf("limits.title and limits.description must be > 0")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be > 0")
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("session.sweep_interval must be > 0")
	}
	if c.Bot.NewsLimit <= 0 {
		return fmt.Errorf("bot.news_limit must be > 0")
	}
	if c.Digest.Limit <= 0 {
		return fmt.Errorf("digest.limit must be > 0")
	}
	if _, _, err := c.Digest.DigestClock(); err != nil {
		return err
	}
	if c.Delivery.RPS <= 0 || c.Delivery.Burst <= 0 {
		return fmt.Errorf("delivery.rps and delivery.burst must be > 0")
	}
	return nil
}
