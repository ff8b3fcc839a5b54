package app

import (
	"fmt"
	"log"
	"strings"

	"github.com/xebia-france/xskillz-v2/internal/config"
	"github.com/xebia-france/xskillz-v2/internal/delivery/http/middleware"
	"github.com/xebia-france/xskillz-v2/internal/delivery/http/routes"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	errMw := middleware.NewErrorMiddleware()
	f.Use(errMw.Middleware())

	accessMw := middleware.NewAccessLogMiddleware(log.Default())
	f.Use(accessMw.Middleware())

	routes.Register(f, cfg, c.DB, c.Me)

	return &App{Fiber: f}, c.Close, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
