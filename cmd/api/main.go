package main

import (
	"context"
	"errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"lifemate/cmd/internal/auth"
	"lifemate/cmd/internal/config"
	"lifemate/cmd/internal/consistency"
	"lifemate/cmd/internal/domain/db"
	"lifemate/cmd/internal/domain/docstore"
	"lifemate/cmd/internal/domain/repository"
	"lifemate/cmd/internal/integration/aigateway"
	cognitoclient "lifemate/cmd/internal/integration/aws/cognito"
	"lifemate/cmd/internal/routes"
	"lifemate/cmd/internal/service"
	"lifemate/cmd/internal/utils/validators"
	"lifemate/cmd/internal/views"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn("no .env file loaded, using the environment only")
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	validate := validator.New()
	validators.Register(validate)

	gdb, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to initialize database: ", err)
	}

	// Change feed. With Redis every instance hears every write; without it
	// live updates stay in this process.
	hub := docstore.NewHub()
	checks := map[string]routes.HealthCheck{
		"database": func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	}
	var store *docstore.Store
	if cfg.RedisURL != "" {
		feed, err := docstore.NewRedisFeed(cfg.RedisURL, hub)
		if err != nil {
			log.Fatal("failed to initialize redis feed: ", err)
		}
		defer feed.Close()
		go func() {
			if err := feed.Run(ctx); err != nil {
				log.Error("redis feed stopped: ", err)
			}
		}()
		checks["redis"] = feed.Ping
		store = docstore.New(gdb, hub, feed)
	} else {
		store = docstore.New(gdb, hub, nil)
	}

	cogClient, err := cognitoclient.InitCognitoClient(ctx, cognitoclient.Settings{
		Region:       cfg.AWSRegion,
		UserPoolID:   cfg.CognitoUserPoolID,
		ClientID:     cfg.CognitoClientID,
		ClientSecret: cfg.CognitoClientSecret,
	})
	if err != nil {
		log.Fatal("failed to initialize cognito client: ", err)
	}

	var verifier *auth.Verifier
	if cfg.JWTSecret != "" {
		verifier = auth.NewHMACVerifier([]byte(cfg.JWTSecret))
	} else {
		verifier, err = auth.NewCognitoVerifier(ctx, cfg.AWSRegion, cfg.CognitoUserPoolID, cfg.CognitoClientID)
		if err != nil {
			log.Fatal("failed to initialize token verifier: ", err)
		}
	}

	gateway := aigateway.NewClient(cfg.AIGatewayURL, cfg.AIGatewayKey, cfg.AIGatewayTimeout)
	loc := cfg.Location()

	// Getting repositories
	userRepo := repository.NewUserRepository(gdb)
	apptRepo := repository.NewAppointmentRepository(store)
	fridgeRepo := repository.NewFridgeRepository(store)
	groceryRepo := repository.NewGroceryRepository(store)
	recipeRepo := repository.NewRecipeRepository(store)
	planRepo := repository.NewFitnessPlanRepository(store)
	rules := consistency.New(apptRepo, fridgeRepo, groceryRepo, planRepo)

	// Getting services
	userService := service.NewUserService(userRepo, validate, cogClient)
	apptService := service.NewAppointmentService(apptRepo, validate, loc)
	fridgeService := service.NewFridgeService(fridgeRepo, rules, validate)
	groceryService := service.NewGroceryService(groceryRepo, validate)
	cookingService := service.NewCookingService(gateway, rules, recipeRepo, fridgeRepo, validate)
	fitnessService := service.NewFitnessService(gateway, rules, planRepo, validate)
	chatService := service.NewChatService(gateway, validate)

	// Getting routes
	userRoutes := routes.NewUserDefault(userService)
	apptRoutes := routes.NewAppointmentDefault(apptService)
	fridgeRoutes := routes.NewFridgeDefault(fridgeService, groceryService)
	cookingRoutes := routes.NewCookingDefault(cookingService)
	fitnessRoutes := routes.NewFitnessDefault(fitnessService)
	chatRoutes := routes.NewChatDefault(chatService)
	healthRoutes := routes.NewHealthDefault(checks)
	liveRoutes := routes.NewLiveDefault(&views.Deps{
		Appointments:       apptRepo,
		AppointmentActions: apptService,
		Fridge:             fridgeRepo,
		FridgeActions:      fridgeService,
		Grocery:            groceryRepo,
		GroceryActions:     groceryService,
		Cooking:            cookingService,
		Fitness:            fitnessService,
		Location:           loc,
	}, cfg.CORSOrigin)

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.INFO)
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.CORSOrigin},
	}))

	e.GET("/health", healthRoutes.Health)

	// Users
	e.POST("/api/users", userRoutes.CreateUser)
	e.POST("/api/users/login", userRoutes.CreateLogin)
	e.POST("/api/users/verify", userRoutes.VerifySignup)
	e.POST("/api/users/logout", userRoutes.Logout)

	api := e.Group("/api", auth.Middleware(verifier))
	api.GET("/users/@me", userRoutes.GetMe)

	// Appointments and the week calendar
	api.GET("/appointments", apptRoutes.GetAppointments)
	api.POST("/appointments", apptRoutes.CreateAppointment)
	api.DELETE("/appointments/:id", apptRoutes.DeleteAppointment)
	api.GET("/calendar", apptRoutes.GetCalendar)

	// Fridge and grocery list
	api.GET("/fridge", fridgeRoutes.GetFridge)
	api.POST("/fridge", fridgeRoutes.AddToFridge)
	api.DELETE("/fridge/:id", fridgeRoutes.RemoveFromFridge)
	api.GET("/grocery", fridgeRoutes.GetGrocery)
	api.POST("/grocery", fridgeRoutes.AddToGrocery)
	api.DELETE("/grocery/:id", fridgeRoutes.RemoveFromGrocery)

	// Cooking
	api.POST("/cooking/recipe", cookingRoutes.GenerateRecipe)
	api.POST("/cooking/shopping", cookingRoutes.GenerateShoppingList)
	api.POST("/cooking/grocery", cookingRoutes.AddToGrocery)
	api.GET("/cooking/fridge-ingredients", cookingRoutes.FridgeIngredients)
	api.GET("/recipes", cookingRoutes.GetRecipes)
	api.POST("/recipes", cookingRoutes.SaveRecipe)
	api.DELETE("/recipes/:id", cookingRoutes.DeleteRecipe)

	// Fitness
	api.POST("/fitness/plan", fitnessRoutes.GeneratePlan)
	api.GET("/fitness/plans", fitnessRoutes.GetPlans)
	api.POST("/fitness/plans", fitnessRoutes.SavePlan)
	api.DELETE("/fitness/plans/:id", fitnessRoutes.DeletePlan)

	api.POST("/chat", chatRoutes.Ask)

	// Live views over websocket
	api.GET("/live/:view", liveRoutes.Live)

	go func() {
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Error("graceful shutdown failed: ", err)
	}
}
