// Package search keeps the product catalog mirrored in Elasticsearch.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/internal/domain/repository"
)

const requestTimeout = 3 * time.Second

type ProductIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewProductIndex(es *elasticsearch.Client, index string) *ProductIndex {
	return &ProductIndex{es: es, index: index}
}

var _ repository.ProductSearch = (*ProductIndex)(nil)

type productDoc struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Sizes       []string `json:"sizes"`
	Price       float64  `json:"price"`
	OnSale      bool     `json:"on_sale"`
	CreatedAt   string   `json:"created_at"`
}

func (ix *ProductIndex) Index(ctx context.Context, p *entity.Product) error {
	doc := productDoc{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Sizes:       p.Sizes,
		Price:       p.Price,
		OnSale:      p.OnSale,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := esapi.IndexRequest{Index: ix.index, DocumentID: p.ID, Body: bytes.NewReader(b), Refresh: "false"}
	res, err := req.Do(c, ix.es)
	if err != nil {
		return fmt.Errorf("es index product %s: %w", p.ID, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index product %s: %s", p.ID, res.Status())
	}
	return nil
}

func (ix *ProductIndex) Remove(ctx context.Context, id string) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := esapi.DeleteRequest{Index: ix.index, DocumentID: id}
	res, err := req.Do(c, ix.es)
	if err != nil {
		return fmt.Errorf("es delete product %s: %w", id, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete product %s: %s", id, res.Status())
	}
	return nil
}

// Search returns matching product ids ordered by relevance.
func (ix *ProductIndex) Search(ctx context.Context, q repository.ProductQuery) ([]string, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	b, err := json.Marshal(buildQuery(q))
	if err != nil {
		return nil, err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := ix.es.Search(
		ix.es.Search.WithContext(c),
		ix.es.Search.WithIndex(ix.index),
		ix.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, fmt.Errorf("es search products: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search products: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode es response: %w", err)
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

func buildQuery(q repository.ProductQuery) map[string]any {
	var must []any
	if q.Text != "" {
		must = append(must, map[string]any{
			"multi_match": map[string]any{
				"query":  q.Text,
				"fields": []string{"name^3", "category^2", "description"},
			},
		})
	}
	filter := []any{}
	if q.Category != "" {
		filter = append(filter, map[string]any{"match": map[string]any{"category": q.Category}})
	}
	if q.Size != "" {
		filter = append(filter, map[string]any{"match": map[string]any{"sizes": q.Size}})
	}
	if len(must) == 0 {
		must = append(must, map[string]any{"match_all": map[string]any{}})
	}
	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{"must": must, "filter": filter},
		},
		"size": q.Limit,
	}
}

var productMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"id":          map[string]any{"type": "keyword"},
			"name":        map[string]any{"type": "text"},
			"description": map[string]any{"type": "text"},
			"category": map[string]any{
				"type":   "text",
				"fields": map[string]any{"raw": map[string]any{"type": "keyword"}},
			},
			"sizes":      map[string]any{"type": "keyword"},
			"price":      map[string]any{"type": "scaled_float", "scaling_factor": 100},
			"on_sale":    map[string]any{"type": "boolean"},
			"created_at": map[string]any{"type": "date"},
		},
	},
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (ix *ProductIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	exists, err := esapi.IndicesExistsRequest{Index: []string{ix.index}}.Do(c, ix.es)
	if err != nil {
		return fmt.Errorf("es index exists %s: %w", ix.index, err)
	}
	_ = exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}

	b, err := json.Marshal(productMapping)
	if err != nil {
		return err
	}
	res, err := esapi.IndicesCreateRequest{Index: ix.index, Body: bytes.NewReader(b)}.Do(c, ix.es)
	if err != nil {
		return fmt.Errorf("es create index %s: %w", ix.index, err)
	}
	defer func() { _ = res.Body.Close() }()
	// 400 resource_already_exists_exception when another instance won the race
	if res.IsError() && res.StatusCode != 400 {
		return fmt.Errorf("es create index %s: %s", ix.index, res.Status())
	}
	return nil
}
