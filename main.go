package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/pageturn/biblio/api"
	"github.com/pageturn/biblio/datastore"
	"github.com/pageturn/biblio/ebook"
	"github.com/pageturn/biblio/extract"
	"github.com/pageturn/biblio/notify"
	"github.com/pageturn/biblio/reading"
	rh "github.com/pageturn/biblio/route-handlers"
	"github.com/pageturn/biblio/storage"
	"github.com/pageturn/biblio/translate"
)

const (
	defaultPort         = "8080"
	defaultDatabaseURL  = "user=postgres password=password dbname=biblio host=localhost port=5432 sslmode=disable"
	defaultSendGridFrom = "orders@pageturn.dev"
	defaultSendGridName = "Biblio"
	defaultCoversDir    = "covers"
	dbPingTimeout       = 5 * time.Second
	shutdownTimeout     = 15 * time.Second
	dbMaxOpenConns      = 25
	dbMaxIdleConns      = 25
	dbConnMaxLifetime   = 5 * time.Minute
)

type config struct {
	port              string
	databaseURL       string
	sendGridAPIKey    string
	sendGridFromEmail string
	sendGridFromName  string
	coversDir         string
	sourceLang        string
}

func main() {
	cfg := loadConfig()

	db, err := setupDatabase(cfg.databaseURL)
	if err != nil {
		log.Fatalf("Database setup failed: %v", err)
	}
	defer db.Close()

	bookRepo := datastore.NewBookRepository(db)
	chapterRepo := datastore.NewChapterRepository(db)
	entitlementRepo := datastore.NewEntitlementRepository(db)
	orderRepo := datastore.NewOrderRepository(db)
	commentRepo := datastore.NewCommentRepository(db)
	userRepo := datastore.NewUserRepository(db)
	categoryRepo := datastore.NewCategoryRepository(db)
	authorRepo := datastore.NewAuthorRepository(db)

	// Reading core: entitlement gate, format extraction, translation,
	// and EPUB packaging for downloads of chaptered books.
	translationCfg := translate.DefaultConfig()
	translationCfg.SourceLang = cfg.sourceLang
	translator := translate.NewPipeline(translate.NewGoogleClient(), translationCfg)

	resolver := reading.NewResolver(
		bookRepo,
		chapterRepo,
		reading.NewEntitlementChecker(entitlementRepo),
		extract.NewRegistry(),
		translator,
		ebook.NewGenerator(cfg.sourceLang),
	)

	coverStorer := storage.NewLocalCoverStorer(cfg.coversDir)

	var receipts *notify.ReceiptSender
	if cfg.sendGridAPIKey != "" {
		receipts = notify.NewReceiptSender(cfg.sendGridAPIKey, cfg.sendGridFromEmail, cfg.sendGridFromName)
	}

	bookHandler := rh.NewBookHandler(bookRepo, chapterRepo, coverStorer)
	readHandler := rh.NewReadHandler(resolver)
	chapterHandler := rh.NewChapterHandler(chapterRepo)
	commentHandler := rh.NewCommentHandler(commentRepo)
	orderHandler := rh.NewOrderHandler(orderRepo, bookRepo, userRepo, receipts)
	userHandler := rh.NewUserHandler(userRepo, entitlementRepo)
	categoryHandler := rh.NewCategoryHandler(categoryRepo)
	authorHandler := rh.NewAuthorHandler(authorRepo)

	router := api.SetupRoutes(
		bookHandler,
		readHandler,
		chapterHandler,
		commentHandler,
		orderHandler,
		userHandler,
		categoryHandler,
		authorHandler,
	)

	startServer(cfg.port, router)
}

func loadConfig() config {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		dbURL = defaultDatabaseURL
		log.Println("WARNING: DB_CONNECTION_STRING not set, using default local connection string.")
	}

	sendGridAPIKey := os.Getenv("SENDGRID_API_KEY")
	if sendGridAPIKey == "" {
		log.Println("WARNING: SENDGRID_API_KEY not set. Purchase receipts will not be sent.")
	}

	sendGridFrom := os.Getenv("SENDGRID_FROM_EMAIL")
	if sendGridFrom == "" {
		sendGridFrom = defaultSendGridFrom
	}

	sendGridName := os.Getenv("SENDGRID_FROM_NAME")
	if sendGridName == "" {
		sendGridName = defaultSendGridName
	}

	coversDir := os.Getenv("COVERS_DIR")
	if coversDir == "" {
		coversDir = defaultCoversDir
	}

	sourceLang := os.Getenv("CONTENT_SOURCE_LANG")
	if sourceLang == "" {
		sourceLang = translate.DefaultSourceLang
	}

	return config{
		port:              port,
		databaseURL:       dbURL,
		sendGridAPIKey:    sendGridAPIKey,
		sendGridFromEmail: sendGridFrom,
		sendGridFromName:  sendGridName,
		coversDir:         coversDir,
		sourceLang:        sourceLang,
	}
}

func setupDatabase(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close() // Close unusable connection pool
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection successful")
	return db, nil
}

func startServer(port string, router http.Handler) {
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownSignal // Block until signal received
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}

	log.Println("Server gracefully stopped")
}
