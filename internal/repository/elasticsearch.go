package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"recruitment-portal/internal/models"
)

// listLimit caps List; the board receives a few hundred applications a year.
const listLimit = 10000

// domainAnswers holds arrays for some documents and strings for others, so
// it is kept in _source only.
const applicationsMapping = `{
  "mappings": {
    "properties": {
      "applicationId": {"type": "keyword"},
      "name":          {"type": "text"},
      "email":         {"type": "keyword"},
      "mobile":        {"type": "keyword"},
      "regNumber":     {"type": "keyword"},
      "status":        {"type": "keyword"},
      "resumeLink":    {"type": "keyword", "index": false},
      "portfolioLink": {"type": "keyword", "index": false},
      "githubLink":    {"type": "keyword", "index": false},
      "linkedinLink":  {"type": "keyword", "index": false},
      "agreedToTerms": {"type": "boolean"},
      "submittedAt":   {"type": "date"},
      "lastUpdated":   {"type": "date"},
      "positions": {
        "properties": {
          "positionName":  {"type": "keyword"},
          "preference":    {"type": "integer"},
          "motivation":    {"type": "text"},
          "domainAnswers": {"type": "object", "enabled": false}
        }
      }
    }
  }
}`

// ElasticsearchStore keeps each application as a document keyed by its ID.
type ElasticsearchStore struct {
	es    *elasticsearch.Client
	index string
}

func NewElasticsearchStore(es *elasticsearch.Client, index string) *ElasticsearchStore {
	return &ElasticsearchStore{es: es, index: index}
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (s *ElasticsearchStore) EnsureIndex(ctx context.Context) error {
	res, err := s.es.Indices.Exists([]string{s.index}, s.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", s.index, err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = s.es.Indices.Create(
		s.index,
		s.es.Indices.Create.WithBody(strings.NewReader(applicationsMapping)),
		s.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", s.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", s.index, readError(res.Body, res.Status()))
	}
	return nil
}

func (s *ElasticsearchStore) Insert(ctx context.Context, app *models.Application) error {
	body, err := json.Marshal(app)
	if err != nil {
		return fmt.Errorf("marshal application: %w", err)
	}

	res, err := s.es.Index(
		s.index,
		bytes.NewReader(body),
		s.es.Index.WithDocumentID(app.ApplicationID),
		s.es.Index.WithOpType("create"),
		s.es.Index.WithRefresh("wait_for"),
		s.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index application: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusConflict {
		return fmt.Errorf("%w: %s", ErrApplicationIDTaken, app.ApplicationID)
	}
	if res.IsError() {
		return fmt.Errorf("index application: %s", readError(res.Body, res.Status()))
	}
	return nil
}

func (s *ElasticsearchStore) FindByEmail(ctx context.Context, email string) (*models.Application, error) {
	query := map[string]interface{}{
		"size":  1,
		"query": map[string]interface{}{"term": map[string]interface{}{"email": email}},
	}
	apps, err := s.search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("find application by email: %w", err)
	}
	if len(apps) == 0 {
		return nil, ErrApplicationNotFound
	}
	return &apps[0], nil
}

func (s *ElasticsearchStore) List(ctx context.Context) ([]models.Application, error) {
	query := map[string]interface{}{
		"size":  listLimit,
		"query": map[string]interface{}{"match_all": map[string]interface{}{}},
		"sort": []interface{}{
			map[string]interface{}{"submittedAt": map[string]interface{}{"order": "desc"}},
			map[string]interface{}{"applicationId": map[string]interface{}{"order": "desc"}},
		},
	}
	apps, err := s.search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

func (s *ElasticsearchStore) UpdateStatus(ctx context.Context, applicationID string, status models.ApplicationStatus, at time.Time) (*models.Application, error) {
	body, err := json.Marshal(map[string]interface{}{
		"doc": map[string]interface{}{
			"status":      status,
			"lastUpdated": at,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal status update: %w", err)
	}

	res, err := s.es.Update(
		s.index,
		applicationID,
		bytes.NewReader(body),
		s.es.Update.WithRefresh("wait_for"),
		s.es.Update.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("update application status: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, ErrApplicationNotFound
	}
	if res.IsError() {
		return nil, fmt.Errorf("update application status: %s", readError(res.Body, res.Status()))
	}
	return s.get(ctx, applicationID)
}

func (s *ElasticsearchStore) Ping(ctx context.Context) error {
	res, err := s.es.Ping(s.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}
	return nil
}

func (s *ElasticsearchStore) get(ctx context.Context, applicationID string) (*models.Application, error) {
	res, err := s.es.Get(s.index, applicationID, s.es.Get.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, ErrApplicationNotFound
	}
	if res.IsError() {
		return nil, fmt.Errorf("get application: %s", readError(res.Body, res.Status()))
	}

	var doc struct {
		Found  bool               `json:"found"`
		Source models.Application `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode application: %w", err)
	}
	if !doc.Found {
		return nil, ErrApplicationNotFound
	}
	return &doc.Source, nil
}

func (s *ElasticsearchStore) search(ctx context.Context, query map[string]interface{}) ([]models.Application, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	res, err := s.es.Search(
		s.es.Search.WithIndex(s.index),
		s.es.Search.WithBody(bytes.NewReader(body)),
		s.es.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search: %s", readError(res.Body, res.Status()))
	}

	var result struct {
		Hits struct {
			Hits []struct {
				Source models.Application `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	apps := make([]models.Application, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		apps = append(apps, hit.Source)
	}
	return apps, nil
}

func readError(body io.Reader, status string) string {
	var e struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&e); err != nil || e.Error.Type == "" {
		return status
	}
	return fmt.Sprintf("%s: %s: %s", status, e.Error.Type, e.Error.Reason)
}
