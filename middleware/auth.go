package middleware

import (
	"net/http"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"

	"github.com/Chucky-Funds/earnova/services"
	"github.com/Chucky-Funds/earnova/shared"
)

type AuthMiddleware struct {
	context.DefaultService

	jwtSvc     *services.JWTService
	sessionSvc *services.SessionService
}

const AUTH_MIDDLEWARE_SVC = "auth"

func (svc AuthMiddleware) Id() string {
	return AUTH_MIDDLEWARE_SVC
}

func (svc *AuthMiddleware) Configure(ctx *context.Context) error {
	svc.jwtSvc = ctx.Service(services.JWT_SVC).(*services.JWTService)
	svc.sessionSvc = ctx.Service(services.SESSION_SVC).(*services.SessionService)
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthMiddleware) Start() error {
	return nil
}

// RequiredAuth accepts a request only when it carries a valid token AND the
// token's user still has a live session. Logout kills the session, so stale
// tokens stop working immediately.
func (svc *AuthMiddleware) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader)
		if err != nil {
			return shared.ResponseJSON(c, http.StatusUnauthorized, "Unauthorized", err.Error())
		}

		email, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil {
			return shared.ResponseJSON(c, http.StatusUnauthorized, "Unauthorized", "Invalid JWT token")
		}

		current, ok := svc.sessionSvc.CurrentUser()
		if !ok || current != email {
			return shared.ResponseJSON(c, http.StatusUnauthorized, "Unauthorized", "Session expired")
		}

		c.Locals(shared.UserEmail, email)
		return c.Next()
	}
}
