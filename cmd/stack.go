package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/go-resty/resty/v2"
	"github.com/spf13/viper"
	weaviateClient "github.com/weaviate/weaviate-go-client/v4/weaviate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tracerag/src/core/ingest"
	"tracerag/src/infrastructure/integrations/ollama"
	"tracerag/src/infrastructure/integrations/unstructured"
	jobctrl "tracerag/src/infrastructure/job"
	"tracerag/src/storage/elastic"
	"tracerag/src/storage/minioctrl"
	"tracerag/src/storage/postgres/chatctrl"
	"tracerag/src/storage/postgres/chunkctrl"
	"tracerag/src/storage/postgres/documentctrl"
	"tracerag/src/storage/weaviate"
)

// ownedModels lists every table this service migrates. All commands
// that touch the database go through openDatabase, so a model missing
// here has no table at runtime.
var ownedModels = []interface{}{
	&documentctrl.RawDocument{},
	&chunkctrl.Chunk{},
	&chatctrl.ChatMessage{},
	&jobctrl.Job{},
}

// openDatabase connects to PostgreSQL and migrates the owned tables.
func openDatabase() (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		viper.GetString("postgres.host"),
		viper.GetString("postgres.user"),
		viper.GetString("postgres.password"),
		viper.GetString("postgres.db"),
		viper.GetString("postgres.port"))

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(ownedModels...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %v", err)
	}
	return db, nil
}

// ingestStack bundles everything an ingestion pipeline needs.
type ingestStack struct {
	service   *ingest.Service
	documents *documentctrl.DocumentService
	chunks    *chunkctrl.ChunkService
	vectors   *weaviate.SDK
	keywords  *elastic.SDK
	ollama    *ollama.Client
}

// buildIngestStack wires the stores, the source adapters, and the
// embedding provider into one ingestion service.
func buildIngestStack(db *gorm.DB) (*ingestStack, error) {
	minioService, err := minioctrl.NewMinioService(
		viper.GetString("minio.endpoint"),
		viper.GetString("minio.access_key"),
		viper.GetString("minio.secret_key"),
		viper.GetBool("minio.use_ssl"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio service: %v", err)
	}

	wc := weaviateClient.New(weaviateClient.Config{
		Host:   viper.GetString("weaviate.url"),
		Scheme: "http",
	})
	vectors := weaviate.NewSDK(wc)

	ec, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{viper.GetString("elastic.url")},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize elasticsearch client: %v", err)
	}
	keywords := elastic.NewSDK(ec)

	ollamaClient := ollama.NewClient(viper.GetString("ollama.url"), &http.Client{
		Timeout: 120 * time.Second,
	})
	embedder := ollama.NewProvider(ollamaClient, viper.GetString("ollama.embedding_model"))

	documents, err := documentctrl.NewDocumentService(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize document service: %v", err)
	}
	chunks, err := chunkctrl.NewChunkService(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chunk service: %v", err)
	}

	registry := ingest.NewRegistry(
		ingest.NewGitHubAdapter(viper.GetString("github.token")),
		ingest.NewJiraAdapter(
			viper.GetString("jira.base_url"),
			viper.GetString("jira.email"),
			viper.GetString("jira.api_token"),
			resty.New(),
		),
		ingest.NewURLAdapter(resty.New()),
		ingest.NewFileAdapter(pdfConverter()),
	)

	service := ingest.NewService(registry, minioService, documents, chunks, vectors, keywords, embedder)
	return &ingestStack{
		service:   service,
		documents: documents,
		chunks:    chunks,
		vectors:   vectors,
		keywords:  keywords,
		ollama:    ollamaClient,
	}, nil
}

// pdfConverter returns the extraction API client, or nil when no URL
// is configured so plain deployments skip PDF support.
func pdfConverter() *unstructured.UnstructuredService {
	url := viper.GetString("unstructured.url")
	if url == "" {
		return nil
	}
	return unstructured.NewUnstructuredService(url)
}
