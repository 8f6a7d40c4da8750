package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hungpc/blog-backend/api"
	"github.com/hungpc/blog-backend/cache"
	"github.com/hungpc/blog-backend/config"
	"github.com/hungpc/blog-backend/database"
	"github.com/hungpc/blog-backend/gitmirror"
	"github.com/hungpc/blog-backend/models"
	"github.com/hungpc/blog-backend/services"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}
	c := config.New()

	connStr := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		config.GetString(c, "DB_HOST", "localhost"),
		config.GetString(c, "DB_USER", "postgres"),
		config.GetString(c, "DB_PASSWORD", ""),
		config.GetString(c, "DB_NAME", "blog"),
		config.GetString(c, "DB_PORT", "5432"),
		config.GetString(c, "DB_SSLMODE", "disable"),
	)

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	// gen_random_uuid() defaults on the uuid primary keys
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"pgcrypto\"").Error; err != nil {
		fmt.Printf("Error enabling pgcrypto extension: %v\n", err)
		os.Exit(1)
	}

	if err := db.AutoMigrate(
		&models.Category{},
		&models.Series{},
		&models.Tag{},
		&models.Post{},
		&models.PostTag{},
	); err != nil {
		fmt.Printf("Error migrating database schema: %v\n", err)
		os.Exit(1)
	}

	currentDB := database.New(db)

	// The mirror is required: without a working clone there is nothing to
	// sync from, so an init failure is fatal.
	mirror := gitmirror.New(gitmirror.Config{
		URL:         config.GetString(c, "GIT_REPO_URL", ""),
		Branch:      config.GetString(c, "GIT_BRANCH", "main"),
		LocalPath:   config.GetString(c, "GIT_LOCAL_PATH", "./content-repo"),
		ContentPath: config.GetString(c, "GIT_CONTENT_PATH", "content"),
		Token:       config.GetString(c, "GIT_TOKEN", ""),
	})
	if err := mirror.Initialize(); err != nil {
		fmt.Printf("Error initializing git mirror: %v\n", err)
		os.Exit(1)
	}
	defer mirror.Close()

	cacheStore := cache.New(
		config.GetDuration(c, "CACHE_TTL", 24*time.Hour),
		config.GetInt(c, "CACHE_MAX_ENTRIES", 2000),
	)

	var llm llms.Model
	if openaiLLM, err := openai.New(); err != nil {
		fmt.Printf("Warning: metadata generation disabled: %v\n", err)
	} else {
		llm = openaiLLM
	}

	colors := services.NewColorPicker(rand.New(rand.NewSource(time.Now().UnixNano())))
	taxonomy := services.NewTaxonomyService(currentDB.CategoryRepo(), currentDB.TagRepo(), colors)
	generator := services.NewAutoFillService(llm, currentDB.CategoryRepo(), currentDB.TagRepo())
	images := services.NewPexelsClient(config.GetString(c, "PEXELS_API_KEY", ""))

	deps := api.Dependencies{
		Posts: services.NewPostService(
			currentDB.PostRepo(), currentDB.CategoryRepo(), currentDB.SeriesRepo(),
			currentDB.TagRepo(), currentDB.PostTagRepo(),
			taxonomy, mirror, generator, images, cacheStore,
		),
		Categories: services.NewCategoryService(currentDB.CategoryRepo(), currentDB.PostRepo(), colors, cacheStore),
		Tags:       services.NewTagService(currentDB.TagRepo(), currentDB.PostTagRepo(), colors, cacheStore),
		Series:     services.NewSeriesService(currentDB.SeriesRepo(), currentDB.PostRepo(), colors, cacheStore),
		Sync:       services.NewSyncService(mirror, currentDB.PostRepo(), currentDB.PostTagRepo(), taxonomy, cacheStore),
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(deps)
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
