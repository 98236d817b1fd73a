package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"

	"github.com/Chucky-Funds/earnova/services/handlers"
	"github.com/Chucky-Funds/earnova/shared"
)

type HttpService struct {
	context.DefaultService

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

// authProvider is what the http layer needs from the auth middleware
// service, looked up by id to keep the packages decoupled.
type authProvider interface {
	RequiredAuth() fiber.Handler
}

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	svc.port = ctx.Service(CONFIG_SVC).(*ConfigService).Get().HTTPPort

	return svc.DefaultService.Configure(ctx)
}

// Start builds the router and blocks serving it. Registered last so every
// other service is up before traffic arrives.
func (svc *HttpService) Start() error {
	accountSvc := svc.Service(ACCOUNT_SVC).(*AccountService)
	paymentSvc := svc.Service(PAYMENT_SVC).(*PaymentService)
	progressionSvc := svc.Service(PROGRESSION_SVC).(*ProgressionService)
	quotaSvc := svc.Service(QUOTA_SVC).(*QuotaService)
	taskSvc := svc.Service(TASK_SVC).(*TaskService)
	ledgerSvc := svc.Service(LEDGER_SVC).(*LedgerService)
	monitoringSvc := svc.Service(MONITORING_SVC).(*MonitoringService)
	auth := svc.Service("auth").(authProvider)

	authHandler := handlers.NewAuthHandler(accountSvc, paymentSvc, progressionSvc)
	userHandler := handlers.NewUserHandler(accountSvc, progressionSvc, ledgerSvc, quotaSvc)
	taskHandler := handlers.NewTaskHandler(taskSvc)
	ledgerHandler := handlers.NewLedgerHandler(ledgerSvc)

	app := fiber.New(fiber.Config{
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: svc.handleError,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(MonitoringMiddleware(monitoringSvc))

	app.Get("/ping", svc.ping)

	v1 := app.Group("/api/v1")

	v1.Post("/register", authHandler.Register)
	v1.Post("/login", authHandler.Login)
	v1.Post("/payments/:id/complete", authHandler.CompletePayment)
	v1.Post("/payments/:id/cancel", authHandler.CancelPayment)

	protected := v1.Group("", auth.RequiredAuth())

	protected.Post("/logout", authHandler.Logout)

	protected.Get("/dashboard", userHandler.Dashboard)
	protected.Get("/profile", userHandler.GetProfile)
	protected.Put("/profile", userHandler.UpdateProfile)
	protected.Put("/password", userHandler.ChangePassword)
	protected.Delete("/account", userHandler.DeleteAccount)

	protected.Get("/level/upgrade", userHandler.UpgradeEligibility)
	protected.Post("/level/upgrade", userHandler.RequestUpgrade)

	protected.Get("/tasks/videos", taskHandler.VideoPool)
	protected.Post("/tasks/videos/duration", taskHandler.ReportDuration)
	protected.Post("/tasks/videos/:id/complete", taskHandler.CompleteVideo)
	protected.Get("/tasks/surveys", taskHandler.SurveyPool)
	protected.Post("/tasks/surveys/:id/complete", taskHandler.CompleteSurvey)
	protected.Get("/tasks/websites", taskHandler.WebsitePool)
	protected.Post("/tasks/websites/:id/visit", taskHandler.StartVisit)
	protected.Post("/tasks/websites/visit/finish", taskHandler.FinishVisit)
	protected.Delete("/tasks/websites/visit", taskHandler.CancelVisit)

	protected.Get("/transactions", ledgerHandler.Transactions)
	protected.Post("/withdrawals", ledgerHandler.Withdraw)

	svc.server = app

	log.WithField("port", svc.port).Info("http server starting")
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, http.StatusOK, "Success", "pong")
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).Error("unhandled request error")
	return shared.ResponseJSON(c, http.StatusInternalServerError, "Internal Server Error", nil)
}
