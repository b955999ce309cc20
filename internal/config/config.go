package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		// Driver is "sqlite" or "postgres".
		Driver string
		Path   string
		DSN    string
	}
	JWT struct {
		PrivateKeyPath           string
		PublicKeyPath            string
		AccessTokenExpireMinutes int
		RefreshTokenExpireDays   int
	}
	Auth struct {
		BcryptCost int
	}
	Email struct {
		Sender    string
		Host      string
		Port      int
		Username  string
		Password  string
		TLS       string
		Subject   string
		PlainText string
	}
	Log struct {
		Level  string
		Format string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix("ACCOUNT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "localhost:8000")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/accounts.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("jwt.privatekeypath", "certs/jwt-private.pem")
	v.SetDefault("jwt.publickeypath", "certs/jwt-public.pem")
	v.SetDefault("jwt.accesstokenexpireminutes", 10)
	v.SetDefault("jwt.refreshtokenexpiredays", 30)
	v.SetDefault("auth.bcryptcost", 10)
	v.SetDefault("email.sender", "admin@admin.com")
	v.SetDefault("email.host", "localhost")
	v.SetDefault("email.port", 1025)
	v.SetDefault("email.username", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.tls", "none")
	v.SetDefault("email.subject", "Activate your account")
	v.SetDefault("email.plaintext", "Your mail client does not support HTML")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if strings.TrimSpace(c.Database.Path) == "" {
			return fmt.Errorf("database path is required for sqlite")
		}
	case "postgres":
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("database dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.JWT.AccessTokenExpireMinutes <= 0 || c.JWT.RefreshTokenExpireDays <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}
	return nil
}

// loadDotEnv exports the variables of a dotenv file that are not already set.
// A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	env := viper.New()
	env.SetConfigFile(path)
	env.SetConfigType("env")
	if err := env.ReadInConfig(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	for _, key := range env.AllKeys() {
		name := strings.ToUpper(key)
		if _, exists := os.LookupEnv(name); exists {
			continue
		}
		if err := os.Setenv(name, env.GetString(key)); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
	}
	return nil
}
