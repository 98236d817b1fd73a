package services

import (
	"github.com/alphabatem/common/context"
	"github.com/caarlos0/env/v11"
	log "github.com/sirupsen/logrus"
	"github.com/shopspring/decimal"
)

// Config holds everything read from the environment at boot.
type Config struct {
	HTTPPort       int    `env:"HTTP_PORT" envDefault:"8000"`
	PrometheusPort int    `env:"PROMETHEUS_PORT" envDefault:"2112"`
	Database       string `env:"DB_DATABASE" envDefault:"data/earnova.db"`
	JWTSecret      string `env:"JWT_SECRET" envDefault:"change-me-in-production"`

	VideoDataFile   string `env:"VIDEO_DATA_FILE" envDefault:"data/videos.json"`
	SurveyDataFile  string `env:"SURVEY_DATA_FILE" envDefault:"data/surveys.json"`
	WebsiteDataFile string `env:"WEBSITE_DATA_FILE" envDefault:"data/websites.json"`

	SignupFee  int64  `env:"SIGNUP_FEE" envDefault:"3000"`
	LevelUpFee int64  `env:"LEVEL_UP_FEE" envDefault:"1000"`
	Currency   string `env:"CURRENCY" envDefault:"NGN"`
}

type ConfigService struct {
	context.DefaultService

	cfg Config
}

const CONFIG_SVC = "config_svc"

// Id returns Service ID
func (svc ConfigService) Id() string {
	return CONFIG_SVC
}

func (svc *ConfigService) Get() Config {
	return svc.cfg
}

func (svc *ConfigService) SignupFee() decimal.Decimal {
	return decimal.NewFromInt(svc.cfg.SignupFee)
}

func (svc *ConfigService) LevelUpFee() decimal.Decimal {
	return decimal.NewFromInt(svc.cfg.LevelUpFee)
}

// Configure the service, parsing env into the config struct
func (svc *ConfigService) Configure(ctx *context.Context) error {
	if err := env.Parse(&svc.cfg); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"http_port": svc.cfg.HTTPPort,
		"database":  svc.cfg.Database,
		"currency":  svc.cfg.Currency,
	}).Info("configuration loaded")

	return svc.DefaultService.Configure(ctx)
}

func (svc *ConfigService) Start() error {
	return nil
}
