package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingSecret is returned outside dev when JWT_SECRET is unset.
var ErrMissingSecret = errors.New("JWT_SECRET is required")

const (
	BackendJSON     = "json"
	BackendPostgres = "postgres"
)

// Config holds the server settings.
type Config struct {
	Env       string
	Port      string
	Backend   string
	DataFile  string
	DSN       string
	JWTSecret string
	Seeds     map[string]string
	FontPath  string
	SendGrid  string
	MailFrom  string
	MailName  string
}

// Load reads .env (if any), the optional mojaz.yaml next to the binary and
// the environment, in that order of precedence from lowest to highest.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetConfigName("mojaz")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("app_env", "production")
	v.SetDefault("port", "3000")
	v.SetDefault("store_backend", BackendJSON)
	v.SetDefault("data_file", "mojaz_data.json")
	v.SetDefault("seed_users", "admin:admin123,lawyer:lawyerpass")
	v.SetDefault("mail_from", "no-reply@mojaz.local")
	v.SetDefault("mail_from_name", "Mojaz")
	for _, k := range []string{"database_url", "jwt_secret", "pdf_font_path", "sendgrid_api_key"} {
		v.SetDefault(k, "")
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read mojaz.yaml: %w", err)
		}
	}

	cfg := &Config{
		Env:       v.GetString("app_env"),
		Port:      v.GetString("port"),
		Backend:   strings.ToLower(v.GetString("store_backend")),
		DataFile:  v.GetString("data_file"),
		DSN:       v.GetString("database_url"),
		JWTSecret: v.GetString("jwt_secret"),
		Seeds:     ParseSeeds(v.GetString("seed_users")),
		FontPath:  v.GetString("pdf_font_path"),
		SendGrid:  v.GetString("sendgrid_api_key"),
		MailFrom:  v.GetString("mail_from"),
		MailName:  v.GetString("mail_from_name"),
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendJSON:
		if c.DataFile == "" {
			return errors.New("DATA_FILE is empty")
		}
	case BackendPostgres:
		if c.DSN == "" {
			return errors.New("STORE_BACKEND=postgres needs DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Backend)
	}
	if c.JWTSecret == "" {
		if c.Env != "dev" {
			return ErrMissingSecret
		}
		c.JWTSecret = "dev-secret"
	}
	return nil
}

// ParseSeeds reads "user:pass,user2:pass2". Malformed pairs are skipped.
func ParseSeeds(s string) map[string]string {
	out := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		user, pass, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || user == "" || pass == "" {
			continue
		}
		out[user] = pass
	}
	return out
}
