package weaviate

import (
	"context"
	"fmt"

	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

// ChunkClassName is the single class holding all chunk vectors.
const ChunkClassName = "DocumentChunk"

// SDK encapsulates all Weaviate operations
type SDK struct {
	client *weaviate.Client
}

// NewSDK creates a new instance of SDK
func NewSDK(client *weaviate.Client) *SDK {
	return &SDK{
		client: client,
	}
}

// ChunkClassProperties returns the schema for the chunk class. Vectors
// are provided by the caller, so the class carries no vectorizer.
func ChunkClassProperties() []*models.Property {
	return []*models.Property{
		{Name: "chunkId", DataType: []string{"text"}},
		{Name: "rawDocumentId", DataType: []string{"text"}},
		{Name: "content", DataType: []string{"text"}},
		{Name: "chunkIndex", DataType: []string{"int"}},
		{Name: "sourceType", DataType: []string{"text"}},
		{Name: "path", DataType: []string{"text"}},
	}
}

// EnsureSchema creates the class if it does not exist yet.
func (w *SDK) EnsureSchema(ctx context.Context, className string, properties []*models.Property) error {
	exists, err := w.classExists(ctx, className)
	if err != nil {
		return fmt.Errorf("failed to check if class exists: %v", err)
	}
	if exists {
		return nil
	}

	class := &models.Class{
		Class:      className,
		Properties: properties,
		Vectorizer: "none",
	}

	err = w.client.Schema().ClassCreator().WithClass(class).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create Weaviate class: %v", err)
	}

	return nil
}

// classExists checks if a class exists in the schema
func (w *SDK) classExists(ctx context.Context, className string) (bool, error) {
	schema, err := w.client.Schema().Getter().Do(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get schema: %v", err)
	}

	for _, class := range schema.Classes {
		if class.Class == className {
			return true, nil
		}
	}

	return false, nil
}

// DeleteSchema deletes a class schema from Weaviate
func (w *SDK) DeleteSchema(ctx context.Context, className string) error {
	err := w.client.Schema().ClassDeleter().WithClassName(className).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete Weaviate class: %v", err)
	}

	return nil
}

// VectorObject represents a single object with its vector and properties
type VectorObject struct {
	Vector     []float32
	Properties map[string]interface{}
}

// AddVector adds a single vector object to a class and returns the
// generated object id.
func (w *SDK) AddVector(ctx context.Context, className string, object VectorObject) (string, error) {
	wrapper, err := w.client.Data().Creator().
		WithClassName(className).
		WithProperties(object.Properties).
		WithVector(object.Vector).
		Do(ctx)

	if err != nil {
		return "", fmt.Errorf("failed to add vector: %v", err)
	}

	return string(wrapper.Object.ID), nil
}

// BatchAddVectors adds multiple vector objects to a class in a single
// operation and returns the generated object ids in input order.
func (w *SDK) BatchAddVectors(ctx context.Context, className string, objects []VectorObject) ([]string, error) {
	objs := make([]*models.Object, len(objects))
	for i, obj := range objects {
		objs[i] = &models.Object{
			Class:      className,
			Properties: obj.Properties,
			Vector:     obj.Vector,
		}
	}

	batcher := w.client.Batch().ObjectsBatcher()
	resp, err := batcher.WithObjects(objs...).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to batch add vectors: %v", err)
	}
	if len(resp) == 0 {
		return nil, fmt.Errorf("batch operation returned no results")
	}

	ids := make([]string, 0, len(resp))
	for _, obj := range resp {
		ids = append(ids, string(obj.ID))
	}
	return ids, nil
}

// DeleteByDocument removes every chunk object belonging to one raw
// document.
func (w *SDK) DeleteByDocument(ctx context.Context, className string, rawDocumentID string) error {
	where := filters.Where().
		WithPath([]string{"rawDocumentId"}).
		WithOperator(filters.Equal).
		WithValueText(rawDocumentID)

	_, err := w.client.Batch().ObjectsBatchDeleter().
		WithClassName(className).
		WithWhere(where).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete document vectors: %v", err)
	}

	return nil
}

// QueryConfig represents configuration for vector similarity search
type QueryConfig struct {
	Fields    []string // Fields to return in the result
	Limit     int      // Maximum number of results
	Distance  float64  // Optional distance threshold
	Certainty float64  // Optional certainty threshold (1/distance)
}

const DefaultQueryLimit = 20

// QueryResult represents a single result from vector similarity search
type QueryResult struct {
	ID         string
	Score      float64 // Distance or certainty score
	Properties map[string]interface{}
}

// QueryVectors performs vector similarity search in a class
func (w *SDK) QueryVectors(ctx context.Context, className string, vector []float32, config QueryConfig) ([]QueryResult, error) {
	fields := make([]graphql.Field, len(config.Fields))
	for i, field := range config.Fields {
		fields[i] = graphql.Field{Name: field}
	}
	fields = append(fields, graphql.Field{Name: "_additional { id distance certainty }"})

	nearVectorBuilder := w.client.GraphQL().NearVectorArgBuilder().
		WithVector(vector)

	if config.Distance > 0 {
		nearVectorBuilder.WithDistance(float32(config.Distance))
	}
	if config.Certainty > 0 {
		nearVectorBuilder.WithCertainty(float32(config.Certainty))
	}

	if config.Limit <= 0 {
		config.Limit = DefaultQueryLimit
	}

	result, err := w.client.GraphQL().Get().
		WithClassName(className).
		WithFields(fields...).
		WithNearVector(nearVectorBuilder).
		WithLimit(config.Limit).
		Do(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %v", err)
	}

	return parseResults(result.Data, className, "distance"), nil
}

// parseResults flattens the GraphQL response into QueryResults, taking
// the score from the named _additional field.
func parseResults(data map[string]models.JSONObject, className, scoreField string) []QueryResult {
	var queryResults []QueryResult
	getData, ok := data["Get"].(map[string]interface{})
	if !ok {
		return queryResults
	}
	objects, ok := getData[className].([]interface{})
	if !ok {
		return queryResults
	}

	for _, obj := range objects {
		objMap, ok := obj.(map[string]interface{})
		if !ok {
			continue
		}
		additional, ok := objMap["_additional"].(map[string]interface{})
		if !ok {
			continue
		}

		properties := make(map[string]interface{})
		for k, v := range objMap {
			if k != "_additional" {
				properties[k] = v
			}
		}

		result := QueryResult{Properties: properties}
		if id, ok := additional["id"].(string); ok {
			result.ID = id
		}
		if score, ok := additional[scoreField].(float64); ok {
			result.Score = score
		}
		queryResults = append(queryResults, result)
	}

	return queryResults
}
