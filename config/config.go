package config

import (
	"os"
	"path"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/gommon/bytes"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override, e.g. SELLERHUB_WEB_PORT.
const EnvPrefix = "SELLERHUB"

type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
	SeedDemo bool   `yaml:"seed_demo" split_words:"true"`
}

type WebConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	Secret         string   `yaml:"secret"`
	ApiPrefix      string   `yaml:"api_prefix" split_words:"true"`
	MaxUploadSize  string   `yaml:"max_upload_size" split_words:"true"`
	RequireSession bool     `yaml:"require_session" split_words:"true"`
	AllowOrigins   []string `yaml:"allow_origins" split_words:"true"`
}

type DBConfig struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn" split_words:"true"`
	IdleConn int    `yaml:"idle_conn" split_words:"true"`
	Debug    bool   `yaml:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable" split_words:"true"`
	Filename   string `yaml:"filename"`
}

// MailConfig describes the SMTP account used for OTP and coupon mail.
type MailConfig struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	User               string `yaml:"user" envconfig:"EMAIL_USER"`
	Password           string `yaml:"password" envconfig:"EMAIL_APP_PASSWORD"`
	FromName           string `yaml:"from_name" split_words:"true"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify" split_words:"true"`
	Workers            int    `yaml:"workers"`
}

// SmsConfig describes a Twilio-compatible messaging endpoint.
type SmsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	BaseURL    string `yaml:"base_url" split_words:"true"`
	AccountSid string `yaml:"account_sid" envconfig:"TWILIO_ACCOUNT_SID"`
	AuthToken  string `yaml:"auth_token" envconfig:"TWILIO_AUTH_TOKEN"`
	From       string `yaml:"from" envconfig:"TWILIO_PHONE_NUMBER"`
}

type SessionConfig struct {
	Name   string `yaml:"name"`
	Store  string `yaml:"store"` // cookie or filesystem
	MaxAge int    `yaml:"max_age" split_words:"true"`
	Secure bool   `yaml:"secure"`
}

type SellerConfig struct {
	IdPrefix string `yaml:"id_prefix" split_words:"true"`
}

type AppConfig struct {
	System   SysConfig     `yaml:"system"`
	Web      WebConfig     `yaml:"web"`
	Database DBConfig      `yaml:"database"`
	Logger   LogConfig     `yaml:"logger"`
	Mail     MailConfig    `yaml:"mail"`
	Sms      SmsConfig     `yaml:"sms"`
	Session  SessionConfig `yaml:"session"`
	Seller   SellerConfig  `yaml:"seller"`
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

func (c *AppConfig) GetSessionDir() string {
	return path.Join(c.System.Workdir, "sessions")
}

// MaxUploadBytes returns the parsed web.max_upload_size, falling back to 8MB.
func (c *AppConfig) MaxUploadBytes() int64 {
	n, err := bytes.Parse(c.Web.MaxUploadSize)
	if err != nil || n <= 0 {
		return 8 << 20
	}
	return n
}

func (c *AppConfig) InitDirs() error {
	for _, dir := range []string{c.GetLogDir(), c.GetDataDir(), c.GetSessionDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create %s", dir)
		}
	}
	return nil
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "sellerhub",
		Location: "Asia/Kolkata",
		Workdir:  "/var/sellerhub",
		Debug:    true,
	},
	Web: WebConfig{
		Host:          "0.0.0.0",
		Port:          5000,
		Secret:        "9b6de5cc-0731-4a1f-8b2e-6c5b2d1e7f40",
		MaxUploadSize: "8MB",
		AllowOrigins:  []string{"*"},
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "sellerhub",
		User:     "postgres",
		Passwd:   "postgres",
		MaxConn:  50,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: false,
		Filename:   "/var/sellerhub/logs/sellerhub.log",
	},
	Mail: MailConfig{
		Host:     "smtp.gmail.com",
		Port:     587,
		FromName: "Mera Bestie",
		Workers:  8,
	},
	Sms: SmsConfig{
		BaseURL: "https://api.twilio.com/2010-04-01",
	},
	Session: SessionConfig{
		Name:   "sellerhub.sid",
		Store:  "filesystem",
		MaxAge: 86400,
	},
	Seller: SellerConfig{
		IdPrefix: "MBSLR",
	},
}

// LoadConfig reads the YAML file (when present), then the .env file, then
// applies environment overrides. An empty cfgfile falls back to
// ./sellerhub.yml and /etc/sellerhub.yml.
func LoadConfig(cfgfile string) (*AppConfig, error) {
	cfg := *DefaultAppConfig
	cfg.Web.AllowOrigins = append([]string(nil), DefaultAppConfig.Web.AllowOrigins...)

	if cfgfile == "" {
		for _, p := range []string{"sellerhub.yml", "/etc/sellerhub.yml"} {
			if _, err := os.Stat(p); err == nil {
				cfgfile = p
				break
			}
		}
	}
	if cfgfile != "" {
		data, err := os.ReadFile(cfgfile)
		if err != nil {
			return nil, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", cfgfile)
		}
	}

	// .env is optional, real environment wins over it
	_ = godotenv.Load()

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "env config")
	}

	cfg.Database.Type = strings.ToLower(strings.TrimSpace(cfg.Database.Type))
	if cfg.Mail.Workers <= 0 {
		cfg.Mail.Workers = DefaultAppConfig.Mail.Workers
	}
	if cfg.Seller.IdPrefix == "" {
		cfg.Seller.IdPrefix = DefaultAppConfig.Seller.IdPrefix
	}
	if cfg.Session.Name == "" {
		cfg.Session.Name = DefaultAppConfig.Session.Name
	}
	return &cfg, nil
}
