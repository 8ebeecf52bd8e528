package repository

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/require"
)

// fakeES answers the handful of Elasticsearch APIs the store uses, keeping
// documents in memory.
type fakeES struct {
	mu      sync.Mutex
	indices map[string]bool
	docs    map[string]map[string]interface{}
}

func newFakeES(t *testing.T) *elasticsearch.Client {
	f := &fakeES{
		indices: make(map[string]bool),
		docs:    make(map[string]map[string]interface{}),
	}
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://es.test:9200"},
		Transport: f,
	})
	require.NoError(t, err)
	return es
}

func (f *fakeES) RoundTrip(r *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var body []byte
	if r.Body != nil {
		body, _ = io.ReadAll(r.Body)
	}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case r.URL.Path == "/" || r.URL.Path == "":
		return respond(http.StatusOK, `{"tagline":"You Know, for Search"}`), nil

	case len(parts) == 1 && r.Method == http.MethodHead:
		if f.indices[parts[0]] {
			return respond(http.StatusOK, ``), nil
		}
		return respond(http.StatusNotFound, ``), nil

	case len(parts) == 1 && r.Method == http.MethodPut:
		f.indices[parts[0]] = true
		return respond(http.StatusOK, `{"acknowledged":true}`), nil

	case len(parts) == 3 && parts[1] == "_doc" && r.Method == http.MethodPut:
		id := parts[2]
		if _, exists := f.docs[id]; exists && r.URL.Query().Get("op_type") == "create" {
			return respond(http.StatusConflict, `{"error":{"type":"version_conflict_engine_exception","reason":"document already exists"}}`), nil
		}
		var doc map[string]interface{}
		if err := json.Unmarshal(body, &doc); err != nil {
			return respond(http.StatusBadRequest, `{"error":{"type":"mapper_parsing_exception","reason":"bad body"}}`), nil
		}
		f.docs[id] = doc
		return respond(http.StatusCreated, `{"result":"created"}`), nil

	case len(parts) == 3 && parts[1] == "_doc" && r.Method == http.MethodGet:
		doc, ok := f.docs[parts[2]]
		if !ok {
			return respond(http.StatusNotFound, `{"found":false}`), nil
		}
		return respondJSON(http.StatusOK, map[string]interface{}{"found": true, "_source": doc}), nil

	case len(parts) == 3 && parts[1] == "_update":
		doc, ok := f.docs[parts[2]]
		if !ok {
			return respond(http.StatusNotFound, `{"error":{"type":"document_missing_exception","reason":"missing"}}`), nil
		}
		var update struct {
			Doc map[string]interface{} `json:"doc"`
		}
		_ = json.Unmarshal(body, &update)
		for k, v := range update.Doc {
			doc[k] = v
		}
		return respond(http.StatusOK, `{"result":"updated"}`), nil

	case len(parts) == 2 && parts[1] == "_search":
		return f.search(body), nil
	}

	return respond(http.StatusBadRequest, `{"error":{"type":"unsupported","reason":"`+r.Method+` `+r.URL.Path+`"}}`), nil
}

func (f *fakeES) search(body []byte) *http.Response {
	var q struct {
		Size  int `json:"size"`
		Query struct {
			Term map[string]string `json:"term"`
		} `json:"query"`
	}
	_ = json.Unmarshal(body, &q)

	hits := []map[string]interface{}{}
	for _, doc := range f.docs {
		if email, ok := q.Query.Term["email"]; ok && doc["email"] != email {
			continue
		}
		hits = append(hits, doc)
	}
	sort.Slice(hits, func(i, j int) bool {
		si, sj := hits[i]["submittedAt"].(string), hits[j]["submittedAt"].(string)
		if si == sj {
			return hits[i]["applicationId"].(string) > hits[j]["applicationId"].(string)
		}
		return si > sj
	})
	if q.Size > 0 && len(hits) > q.Size {
		hits = hits[:q.Size]
	}

	wrapped := make([]map[string]interface{}, len(hits))
	for i, h := range hits {
		wrapped[i] = map[string]interface{}{"_source": h}
	}
	return respondJSON(http.StatusOK, map[string]interface{}{
		"hits": map[string]interface{}{"hits": wrapped},
	})
}

func respondJSON(status int, v interface{}) *http.Response {
	b, _ := json.Marshal(v)
	return respond(status, string(b))
}

func respond(status int, body string) *http.Response {
	h := http.Header{}
	h.Set("X-Elastic-Product", "Elasticsearch")
	h.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Header:     h,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}
}
