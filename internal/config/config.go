package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App       App       `mapstructure:",squash"`
	Server    Server    `mapstructure:",squash"`
	Google    Google    `mapstructure:",squash"`
	Drive     Drive     `mapstructure:",squash"`
	Cache     Cache     `mapstructure:",squash"`
	Auth      Auth      `mapstructure:",squash"`
	CacheWarm CacheWarm `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	// BaseURL é a URL pública usada para montar o redirect do OAuth
	BaseURL string `mapstructure:"base_url"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Google struct {
	ClientID     string `mapstructure:"google_client_id"`
	ClientSecret string `mapstructure:"google_client_secret"`
}

type Drive struct {
	FileID             string `mapstructure:"drive_file_id"`
	ServiceAccountFile string `mapstructure:"drive_service_account_file"`
	ServiceAccountJSON string `mapstructure:"drive_service_account_json"`
	OrdersSheet        string `mapstructure:"drive_orders_sheet"`
	CustomersSheet     string `mapstructure:"drive_customers_sheet"`
	TimeoutSeconds     int    `mapstructure:"drive_timeout_seconds"`
}

type Cache struct {
	TTLMinutes int `mapstructure:"cache_ttl_minutes"`
}

type Auth struct {
	SessionSecret       string `mapstructure:"session_secret"`
	SessionTTLHours     int    `mapstructure:"session_ttl_hours"`
	AuthorizedUsersFile string `mapstructure:"authorized_users_file"`
}

type CacheWarm struct {
	CronSchedule string `mapstructure:"cache_warm_cron"`
	Enabled      bool   `mapstructure:"cache_warm_enabled"`
}

// TTL retorna a validade do snapshot em cache
func (c Cache) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// SessionTTL retorna a validade das sessões de login
func (a Auth) SessionTTL() time.Duration {
	return time.Duration(a.SessionTTLHours) * time.Hour
}

// Timeout retorna o prazo máximo do download da planilha
func (d Drive) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// RedirectURL monta a URL de callback registrada no console do Google
func (c *Config) RedirectURL() string {
	return fmt.Sprintf("%s/oauth/callback", c.App.BaseURL)
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8080)
	viper.SetDefault("BASE_URL", "http://localhost:8080")

	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")

	viper.SetDefault("DRIVE_FILE_ID", "")
	viper.SetDefault("DRIVE_SERVICE_ACCOUNT_FILE", "")
	viper.SetDefault("DRIVE_SERVICE_ACCOUNT_JSON", "")
	viper.SetDefault("DRIVE_ORDERS_SHEET", "Orders")
	viper.SetDefault("DRIVE_CUSTOMERS_SHEET", "Customers")
	viper.SetDefault("DRIVE_TIMEOUT_SECONDS", 60)

	// Snapshot da planilha vale por 10 minutos
	viper.SetDefault("CACHE_TTL_MINUTES", 10)

	viper.SetDefault("SESSION_SECRET", "")
	viper.SetDefault("SESSION_TTL_HOURS", 720) // 30 dias
	viper.SetDefault("AUTHORIZED_USERS_FILE", "authorized_users.txt")

	// Aquecimento periódico do cache desabilitado por padrão
	viper.SetDefault("CACHE_WARM_CRON", "*/8 * * * *")
	viper.SetDefault("CACHE_WARM_ENABLED", false)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if config.Google.ClientID == "" || config.Google.ClientSecret == "" {
		return nil, fmt.Errorf("GOOGLE_CLIENT_ID e GOOGLE_CLIENT_SECRET são obrigatórios")
	}

	if config.Auth.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET é obrigatório")
	}

	if config.Drive.FileID == "" {
		return nil, fmt.Errorf("DRIVE_FILE_ID é obrigatório")
	}

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Info("Nenhum arquivo .env encontrado; usando variáveis de ambiente")
}
