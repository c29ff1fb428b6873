package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/C4st3ll4n/recipe-api/internal/config"
	"github.com/C4st3ll4n/recipe-api/internal/database"
	"github.com/C4st3ll4n/recipe-api/internal/handler"
	"github.com/C4st3ll4n/recipe-api/internal/middleware"
	"github.com/C4st3ll4n/recipe-api/internal/queue"
	"github.com/C4st3ll4n/recipe-api/internal/repository"
	"github.com/C4st3ll4n/recipe-api/internal/router"
	"github.com/C4st3ll4n/recipe-api/internal/service"
	"github.com/C4st3ll4n/recipe-api/internal/storage"
)

func main() {
	_ = godotenv.Load()

	createSuper := flag.Bool("createsuperuser", false, "create a superuser account and exit")
	superEmail := flag.String("email", "", "superuser email (with -createsuperuser)")
	superPass := flag.String("password", "", "superuser password (with -createsuperuser)")
	flag.Parse()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	// Block until the database accepts connections. In container
	// deployments the app regularly starts before MySQL is ready.
	w := database.Waiter{Probe: func() error { return database.Ping(db) }}
	w.Wait()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	identity := &service.Identity{Users: users, Tokens: tokens, BcryptCost: cfg.BcryptCost}

	if *createSuper {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		u, err := identity.CreateSuperuser(ctx, *superEmail, *superPass)
		if err != nil {
			log.Fatalf("create superuser: %v", err)
		}
		log.Printf("superuser %s created (id=%d)", u.Email, u.ID)
		os.Exit(0)
	}

	tags := repository.NewTagRepo(db)
	ingredients := repository.NewIngredientRepo(db)
	recipes := repository.NewRecipeRepo(db)
	images := storage.NewImageStore(cfg.MediaRoot)

	rdb := config.NewRedisClient()
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	go queue.StartRecipeEventConsumer()

	e := echo.New()
	e.Static("/media", cfg.MediaRoot)

	router.RegisterRoutes(e, router.Handlers{
		Users:       handler.NewUserHandler(identity, users),
		Tags:        handler.NewTagHandler(tags),
		Ingredients: handler.NewIngredientHandler(ingredients),
		Recipes:     handler.NewRecipeHandler(recipes, tags, ingredients, images, queue.NewAMQPPublisher()),
	}, middleware.TokenAuth(tokens, users), limiter)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
