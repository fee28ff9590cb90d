package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-amqp/pkg/amqp"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	handlerhttp "tracerag/handler/http"
	"tracerag/src/core/qa"
	"tracerag/src/infrastructure/integrations/ollama"
	jobctrl "tracerag/src/infrastructure/job"
	"tracerag/src/infrastructure/log"
	"tracerag/src/storage/postgres/chatctrl"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ingestion and question answering API server",
	Long:  `The serve command starts an HTTP server exposing document, ingest, search, chat, and trace APIs`,
	Run:   RunServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	settingDefaultConfig()
}

func RunServer(cmd *cobra.Command, args []string) {
	db, err := openDatabase()
	if err != nil {
		log.Error(err, "Failed to connect to database")
		return
	}

	stack, err := buildIngestStack(db)
	if err != nil {
		log.Error(err, "Failed to build ingestion stack")
		return
	}

	chatStore, err := chatctrl.NewChatService(db)
	if err != nil {
		log.Error(err, "Failed to initialize chat store")
		return
	}

	embedder := ollama.NewProvider(stack.ollama, viper.GetString("ollama.embedding_model"))
	reasoner := ollama.NewProvider(stack.ollama, viper.GetString("ollama.reasoning_model"))

	searchService := qa.NewSearchService(stack.vectors, stack.keywords, embedder)
	chatService := qa.NewChatService(chatStore, searchService, reasoner)
	traceService := qa.NewTraceService(stack.chunks, stack.documents)
	sysService := qa.NewSystemService(db, stack.vectors, stack.keywords, stack.ollama)

	// Publisher for async ingestion jobs; the worker consumes them.
	amqpPublisher, err := amqp.NewPublisher(
		amqp.NewDurableQueueConfig(viper.GetString("amqp.url")),
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		log.Error(err, "Failed to create AMQP publisher")
		return
	}
	defer amqpPublisher.Close()

	jobRepo := jobctrl.NewPostgresJobRepository(db)
	jobService := jobctrl.NewJobService(
		amqpPublisher,
		jobRepo,
		watermill.NewStdLogger(false, false),
		jobctrl.NewIngestionTask(stack.service),
	)

	handler := handlerhttp.NewHandler(
		stack.service,
		stack.documents,
		jobService,
		searchService,
		chatService,
		traceService,
		sysService,
	)

	// Setup gin router
	r := gin.Default()

	// Register routes
	handler.RegisterRoutes(r)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + viper.GetString("server.port"),
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, "Failed to start server")
			return
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Parse shutdown timeout
	timeout, err := time.ParseDuration(viper.GetString("server.shutdown_timeout"))
	if err != nil {
		log.Error(err, "Invalid shutdown timeout, using default 5s")
		timeout = 5 * time.Second
	}

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Get underlying *sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		log.Error(err, "Failed to get underlying *sql.DB")
	} else {
		// Close database connection
		if err := sqlDB.Close(); err != nil {
			log.Error(err, "Error closing database connection")
		}
	}

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "Server forced to shutdown")
	}

	log.Info("Server exited")
}
