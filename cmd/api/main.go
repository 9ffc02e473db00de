package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-taskboard-ws/internal/config"
	"go-taskboard-ws/internal/handler"
	"go-taskboard-ws/internal/middleware"
	"go-taskboard-ws/internal/model"
	"go-taskboard-ws/internal/repository"
	"go-taskboard-ws/internal/service"
	"go-taskboard-ws/internal/ws"
	"go-taskboard-ws/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	// 2. Setup database
	db := database.Connect(cfg.DSN())
	// Auto migrate (use a dedicated migration tool for serious deployments)
	db.AutoMigrate(&model.User{}, &model.Role{}, &model.Permission{}, &model.Task{})

	// 3. Seed the permission table, default roles, and demo users
	seedAccessMatrix(db, cfg.SeedDemo)

	// 4. Setup websocket hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency injection (wiring layers)
	userRepo := repository.NewUserRepo(db)
	permissionRepo := repository.NewPermissionRepo(db)
	taskRepo := repository.NewTaskRepo(db)

	authService := service.NewAuthService(userRepo)
	taskService := service.NewTaskService(taskRepo, wsHub)

	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Taskboard API v1.0",
	})

	app.Use(logger.New())  // Request logging
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth())

	protected.Get("/tasks", taskHandler.ListTasks)
	protected.Get("/tasks/:id", taskHandler.GetTask)
	protected.Post("/tasks", middleware.RequirePermission(model.PermCreateTask), taskHandler.CreateTask)
	protected.Put("/tasks/:id", taskHandler.UpdateTask)
	protected.Delete("/tasks/:id", taskHandler.DeleteTask)

	// Permission constant table (keeps UI and API in sync)
	protected.Get("/permissions", func(c *fiber.Ctx) error {
		permissions, err := permissionRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch permissions"})
		}
		return c.JSON(permissions)
	})

	// Websocket route: task event feed for open boards
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful shutdown
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

// seedAccessMatrix creates the fixed permission table, the default roles with
// their grants, and (optionally) two demo users if they don't exist.
func seedAccessMatrix(db *gorm.DB, seedDemo bool) {
	permissionRepo := repository.NewPermissionRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)

	// 1. Permissions first: fixed IDs, never renumbered
	if err := permissionRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed permissions: %v", err)
	}

	// 2. Roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 3. Grant permissions to roles
	for roleName, permIDs := range model.DefaultRolePermissions {
		role, err := roleRepo.FindByName(roleName)
		if err != nil || len(role.Permissions) > 0 {
			continue
		}
		permissions, err := permissionRepo.FindByIDs(permIDs)
		if err != nil {
			log.Printf("Warning: Failed to load permissions for %s: %v", roleName, err)
			continue
		}
		if err := roleRepo.ReplacePermissions(role, permissions); err != nil {
			log.Printf("Warning: Failed to grant permissions to %s: %v", roleName, err)
			continue
		}
		log.Printf("✅ Role %s granted %d permissions", roleName, len(permissions))
	}

	if !seedDemo {
		return
	}

	// 4. Demo users: an administrator and a regular member
	seedUser(userRepo, roleRepo, "admin", "adminpass", model.RoleAdministrator)
	seedUser(userRepo, roleRepo, "member", "memberpass", model.RoleTaskUser)
}

func seedUser(userRepo repository.UserRepository, roleRepo repository.RoleRepository, username, password, roleName string) {
	if _, err := userRepo.FindByUsername(username); err == nil {
		return
	}
	role, err := roleRepo.FindByName(roleName)
	if err != nil {
		log.Printf("Warning: Role %s not found for user %s: %v", roleName, username, err)
		return
	}

	user := &model.User{
		Username: username,
		Roles:    []model.Role{*role},
	}
	if err := user.SetPassword(password); err != nil {
		log.Printf("Warning: Failed to hash password for %s: %v", username, err)
		return
	}
	if err := userRepo.Create(user); err != nil {
		log.Printf("Warning: Failed to create user %s: %v", username, err)
		return
	}
	log.Printf("✅ User created: %s (%s)", username, roleName)
}
