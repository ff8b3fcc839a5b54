package routes

import (
	"github.com/xebia-france/xskillz-v2/internal/config"
	"github.com/xebia-france/xskillz-v2/internal/database"
	"github.com/xebia-france/xskillz-v2/internal/delivery/http/handler"
	"github.com/xebia-france/xskillz-v2/internal/delivery/http/middleware"
	"github.com/xebia-france/xskillz-v2/internal/infrastructure/cache"
	"github.com/xebia-france/xskillz-v2/internal/pkg/jwt"
	"github.com/xebia-france/xskillz-v2/internal/pkg/permissions"
	"github.com/xebia-france/xskillz-v2/internal/repository"
	"github.com/xebia-france/xskillz-v2/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// Register wires repositories, usecases and handlers onto the app.
// Registration order matters: auth routes come before the auth middleware,
// manager routes after the role middleware.
func Register(app *fiber.App, cfg config.Config, db database.DB, me *cache.MeCache) {
	if app == nil {
		return
	}

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	userRepo := repository.NewPostgresUserRepository(db)
	skillRepo := repository.NewPostgresSkillRepository(db)

	directory := usecase.NewUserDirectory(userRepo)
	catalog := usecase.NewSkillCatalog(skillRepo)
	authUC := usecase.NewAuthUsecase(directory, jwtSvc, me)

	healthHandler := handler.NewHealthHandler(db)
	healthHandler.RegisterRoutes(app)

	v1 := app.Group("/api").Group("/v1")

	authHandler := handler.NewAuthHandler(authUC)
	authHandler.RegisterRoutes(v1.Group("/auth"))

	authMw := middleware.NewAuthMiddleware(jwtSvc)
	protected := v1.Group("", authMw.Middleware())

	handler.NewUserHandler(directory).RegisterRoutes(protected)
	handler.NewSkillHandler(catalog).RegisterRoutes(protected)

	roleMw := middleware.NewRoleMiddleware(authUC)
	managerOnly := protected.Group("", roleMw.Require(permissions.Manager))
	handler.NewManagementHandler(directory, me).RegisterRoutes(managerOnly)
}
