package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/taskfox/taskfox/app/repository"
	"github.com/taskfox/taskfox/internal/pkg/billing"
	"github.com/taskfox/taskfox/internal/pkg/cache"
	"github.com/taskfox/taskfox/internal/pkg/database"
	"github.com/taskfox/taskfox/internal/pkg/env"
	"github.com/taskfox/taskfox/internal/pkg/invoicepdf"
	"github.com/taskfox/taskfox/internal/pkg/router"
	"github.com/taskfox/taskfox/internal/pkg/storage"
	"github.com/taskfox/taskfox/internal/pkg/sweeper"
)

func main() {
	app := NewApplication()

	sweeper.GetManager().Start()
	defer sweeper.GetManager().Stop()

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	db := database.GetDB()
	repository.InitializeFactory(db)

	blobs, err := storage.NewFromEnv()
	if err != nil {
		log.Fatalf("blob store setup failed: %v", err)
	}

	billing.Initialize(
		billing.NewRepository(db),
		billing.NewMidtransGatewayFromEnv(),
		invoicepdf.NewGenerator(),
		blobs,
	)

	app := fiber.New(fiber.Config{
		AppName: "TaskFox",
	})
	app.Use(recover.New(), logger.New())
	app.Get("/metrics", monitor.New())

	// ROUTER
	router.InstallRouter(app)

	return app
}
