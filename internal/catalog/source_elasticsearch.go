// internal/catalog/source_elasticsearch.go
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"finmatch-workers/internal/common/database"
)

// Catalog datasets are small enough that a single bounded search covers the
// full index. Scroll support is not needed at this scale.
const esSearchSize = 1000

// ElasticsearchSource fetches catalog rows from per-dataset indices.
type ElasticsearchSource struct {
	es            *database.ElasticsearchClient
	programsIndex string
	schemesIndex  string
	rulesIndex    string
}

func NewElasticsearchSource(es *database.ElasticsearchClient, programsIndex, schemesIndex, rulesIndex string) *ElasticsearchSource {
	return &ElasticsearchSource{
		es:            es,
		programsIndex: programsIndex,
		schemesIndex:  schemesIndex,
		rulesIndex:    rulesIndex,
	}
}

func (s *ElasticsearchSource) FetchPrograms(ctx context.Context) ([]json.RawMessage, error) {
	return s.search(ctx, s.programsIndex)
}

func (s *ElasticsearchSource) FetchSchemes(ctx context.Context) ([]json.RawMessage, error) {
	return s.search(ctx, s.schemesIndex)
}

func (s *ElasticsearchSource) FetchRules(ctx context.Context) ([]json.RawMessage, error) {
	return s.search(ctx, s.rulesIndex)
}

func (s *ElasticsearchSource) search(ctx context.Context, index string) ([]json.RawMessage, error) {
	query := fmt.Sprintf(`{"query": {"match_all": {}}, "size": %d}`, esSearchSize)

	res, err := s.es.Client.Search(
		s.es.Client.Search.WithContext(ctx),
		s.es.Client.Search.WithIndex(index),
		s.es.Client.Search.WithBody(strings.NewReader(query)),
	)
	if err != nil {
		return nil, fmt.Errorf("search index %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search index %s: %s: %s", index, res.Status(), string(body))
	}

	var envelope struct {
		Hits struct {
			Hits []struct {
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode search response for %s: %w", index, err)
	}

	out := make([]json.RawMessage, 0, len(envelope.Hits.Hits))
	for _, hit := range envelope.Hits.Hits {
		out = append(out, hit.Source)
	}
	return out, nil
}
