package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/xavierca1/leadsync/internal/infra/auth"
	"github.com/xavierca1/leadsync/internal/infra/integration/google"
)

const (
	defaultPort        = "8080"
	defaultSheetsScope = "https://www.googleapis.com/auth/spreadsheets.readonly"
	defaultSMTPPort    = 587
)

type Config struct {
	Port            string
	DatabaseURL     string
	SessionSecret   string
	SessionAudience string

	ServiceAccount *google.ServiceAccountKey
	SheetsScope    string
	SheetsEndpoint string

	RabbitMQURL       string
	VapiWebhookSecret string

	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	NotifyFrom string
	NotifyTo   string

	AllowedOrigins []string
}

// Load lê o .env (se existir) e as variáveis de ambiente. Só DATABASE_URL é obrigatória aqui;
// cada binário cobra o resto com os Require*.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("⚠️ [CONFIG] .env ignorado: %v", err)
	}

	cfg := &Config{
		Port:              GetEnv("PORT", defaultPort),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		SessionSecret:     os.Getenv("SESSION_JWT_SECRET"),
		SessionAudience:   os.Getenv("SESSION_AUDIENCE"),
		SheetsScope:       GetEnv("GOOGLE_SHEETS_SCOPE", defaultSheetsScope),
		SheetsEndpoint:    os.Getenv("GOOGLE_SHEETS_ENDPOINT"),
		RabbitMQURL:       os.Getenv("RABBITMQ_URL"),
		VapiWebhookSecret: os.Getenv("VAPI_WEBHOOK_SECRET"),
		SMTPHost:          os.Getenv("MAIL_HOST"),
		SMTPUser:          os.Getenv("MAIL_USER"),
		SMTPPass:          os.Getenv("MAIL_PASS"),
		NotifyFrom:        GetEnv("NOTIFY_FROM", os.Getenv("MAIL_USER")),
		NotifyTo:          os.Getenv("NOTIFY_TO"),
		AllowedOrigins:    splitList(GetEnv("ALLOWED_ORIGINS", "*")),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	port, err := strconv.Atoi(GetEnv("MAIL_PORT", strconv.Itoa(defaultSMTPPort)))
	if err != nil {
		return nil, fmt.Errorf("MAIL_PORT inválida: %w", err)
	}
	cfg.SMTPPort = port

	key, err := loadServiceAccount()
	if err != nil {
		return nil, err
	}
	cfg.ServiceAccount = key

	return cfg, nil
}

// RequireSync valida o que o sync precisa: chave da service account e segredo da sessão.
func (c *Config) RequireSync() error {
	if c.ServiceAccount == nil {
		return errors.New("GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE is required")
	}
	return nil
}

func (c *Config) RequireSession() error {
	if c.SessionSecret == "" {
		return errors.New("SESSION_JWT_SECRET is required")
	}
	if len(c.SessionSecret) < auth.MinSecretLength {
		return fmt.Errorf("SESSION_JWT_SECRET must be at least %d bytes (HS256)", auth.MinSecretLength)
	}
	return nil
}

func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.NotifyTo != ""
}

func GetEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func loadServiceAccount() (*google.ServiceAccountKey, error) {
	raw := os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")
	if raw == "" {
		path := os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE")
		if path == "" {
			return nil, nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("erro lendo GOOGLE_SERVICE_ACCOUNT_FILE: %w", err)
		}
		raw = string(data)
	}

	key, err := google.ParseServiceAccountKey([]byte(raw))
	if err != nil {
		return nil, err
	}
	return &key, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
