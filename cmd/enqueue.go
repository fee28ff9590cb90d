package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-amqp/pkg/amqp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	jobctrl "tracerag/src/infrastructure/job"
)

var enqueueCmd = &cobra.Command{
	Use:   "enqueue [source]",
	Short: "Enqueue an ingestion job for the worker",
	Args:  cobra.ExactArgs(1),
	RunE:  runEnqueue,
}

func init() {
	rootCmd.AddCommand(enqueueCmd)
	settingDefaultConfig()

	enqueueCmd.Flags().StringVar(&ingestStrategy, "strategy", "", "chunking strategy")
	enqueueCmd.Flags().IntVar(&ingestSize, "chunk-size", 0, "chunk size budget in characters")
	enqueueCmd.Flags().IntVar(&ingestOverlap, "chunk-overlap", 0, "overlap between adjacent chunks")
}

func runEnqueue(cmd *cobra.Command, args []string) error {
	// Initialize logger
	logger := watermill.NewStdLogger(false, false)

	db, err := openDatabase()
	if err != nil {
		return err
	}

	// Get underlying *sql.DB for cleanup
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying *sql.DB: %v", err)
	}
	defer sqlDB.Close()

	// Initialize AMQP publisher
	publisher, err := amqp.NewPublisher(
		amqp.NewDurableQueueConfig(viper.GetString("amqp.url")),
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		return fmt.Errorf("failed to create publisher: %w", err)
	}
	defer publisher.Close()

	// Initialize job repository and service
	jobRepo := jobctrl.NewPostgresJobRepository(db)
	jobService := jobctrl.NewJobService(publisher, jobRepo, logger, nil)

	payload := jobctrl.IngestionPayload{
		Source:       args[0],
		Strategy:     ingestStrategy,
		ChunkSize:    ingestSize,
		ChunkOverlap: ingestOverlap,
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	// Enqueue job
	job, err := jobService.EnqueueJob(cmd.Context(), jobctrl.TaskTypeIngestion, payloadBytes)
	if err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}

	fmt.Printf("Successfully enqueued job with ID: %d\n", job.ID)
	return nil
}
