package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"

	"github.com/goldfelt/casino/pkg/entities"
)

// ElasticsearchConfig holds configuration for the Elasticsearch mirror
type ElasticsearchConfig struct {
	URL         string
	Username    string
	Password    string
	IndexPrefix string
}

// DefaultElasticsearchConfig returns a default configuration
func DefaultElasticsearchConfig() *ElasticsearchConfig {
	return &ElasticsearchConfig{
		URL:         "http://localhost:9200",
		IndexPrefix: "casino",
	}
}

// ElasticsearchRepository decorates a base repository, mirroring every saved
// record into an Elasticsearch index for dashboarding and ad hoc analysis.
// Reads are served from the base repository; indexing failures are logged
// and never fail the write path, since sqlite stays the system of record.
type ElasticsearchRepository struct {
	base   Repository
	client *elasticsearch.Client
	index  string
	logger *zap.Logger
}

// NewElasticsearchRepository wraps base with an Elasticsearch mirror
func NewElasticsearchRepository(base Repository, config *ElasticsearchConfig, logger *zap.Logger) (*ElasticsearchRepository, error) {
	if config == nil {
		config = DefaultElasticsearchConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
	}
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	prefix := config.IndexPrefix
	if prefix == "" {
		prefix = "casino"
	}

	return &ElasticsearchRepository{
		base:   base,
		client: client,
		index:  prefix + "_game_history",
		logger: logger,
	}, nil
}

// SaveRecord appends the record to the base repository and mirrors it to
// Elasticsearch.
func (r *ElasticsearchRepository) SaveRecord(ctx context.Context, record *entities.GameRecord) error {
	if err := r.base.SaveRecord(ctx, record); err != nil {
		return err
	}

	body, err := json.Marshal(toESRecord(record))
	if err != nil {
		r.logger.Warn("failed to marshal game record for indexing",
			zap.String("record_id", record.ID),
			zap.Error(err))
		return nil
	}

	req := esapi.IndexRequest{
		Index:      r.index,
		DocumentID: record.ID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		r.logger.Warn("failed to index game record",
			zap.String("record_id", record.ID),
			zap.Error(err))
		return nil
	}
	defer res.Body.Close()

	if res.IsError() {
		r.logger.Warn("elasticsearch rejected game record",
			zap.String("record_id", record.ID),
			zap.String("status", res.Status()))
	}
	return nil
}

// UserRecords reads from the base repository
func (r *ElasticsearchRepository) UserRecords(ctx context.Context, userID string, gameType entities.GameType, limit int) ([]*entities.GameRecord, error) {
	return r.base.UserRecords(ctx, userID, gameType, limit)
}

// Close closes the base repository
func (r *ElasticsearchRepository) Close() error {
	return r.base.Close()
}
