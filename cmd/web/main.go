package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-taskboard-ws/internal/config"
	"go-taskboard-ws/internal/webui"
	"go-taskboard-ws/pkg/client"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg, err := config.LoadWeb()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	api := client.New(cfg.APIBaseURL)
	ui, err := webui.New(api)
	if err != nil {
		log.Fatal("Failed to build web UI: ", err)
	}

	app := fiber.New(fiber.Config{
		AppName: "Taskboard Web v1.0",
	})
	app.Use(logger.New())
	app.Use(recover.New())

	ui.Register(app)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
