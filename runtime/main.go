package main

import (
	"os"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Chucky-Funds/earnova/middleware"
	"github.com/Chucky-Funds/earnova/services"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	ctx, err := context.NewCtx(
		&services.ConfigService{},
		&services.StoreService{},
		&services.SessionService{},
		&services.JWTService{},
		&services.PaymentService{},
		&services.ProgressionService{},
		&services.QuotaService{},
		&services.RewardService{},
		&services.LedgerService{},
		&services.TaskService{},
		&services.AccountService{},
		&middleware.AuthMiddleware{},
		&services.MonitoringService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err)
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err)
		return
	}
}
