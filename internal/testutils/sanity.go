package testutils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/nfrund/portfolio/internal/cms"
	"github.com/nfrund/portfolio/internal/cms/localstore"
	"github.com/nfrund/portfolio/internal/config"
	"github.com/nfrund/portfolio/internal/domain"
	"github.com/spf13/afero"
)

// SanityServer is a fake content lake. It answers the query and mutate
// APIs from an in-memory local dataset.
type SanityServer struct {
	*httptest.Server

	Store     *localstore.Store
	ProjectID string
	Dataset   string

	queries atomic.Int32

	mu       sync.Mutex
	failWith int
}

// NewSanityServer starts a fake content lake seeded with docs. It is
// closed when the test ends.
func NewSanityServer(t *testing.T, docs ...map[string]any) *SanityServer {
	t.Helper()

	store, err := localstore.Open(afero.NewMemMapFs(), "/dataset.json")
	if err != nil {
		t.Fatalf("open dataset: %v", err)
	}

	s := &SanityServer{Store: store, ProjectID: "testproj", Dataset: "production"}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)

	if len(docs) > 0 {
		s.Seed(t, docs...)
	}
	return s
}

// Seed writes docs to the dataset.
func (s *SanityServer) Seed(t *testing.T, docs ...map[string]any) {
	t.Helper()
	mutations := make([]cms.Mutation, 0, len(docs))
	for _, d := range docs {
		mutations = append(mutations, cms.CreateOrReplace(d))
	}
	if _, err := s.Store.Mutate(context.Background(), mutations...); err != nil {
		t.Fatalf("seed dataset: %v", err)
	}
}

// Client returns a content client pointed at the fake.
func (s *SanityServer) Client(opts ...cms.Option) *cms.Client {
	opts = append([]cms.Option{cms.WithBaseURL(s.URL)}, opts...)
	return cms.NewClient(s.ProjectID, s.Dataset, config.DefaultAPIVersion, opts...)
}

// Queries is the number of query requests served.
func (s *SanityServer) Queries() int {
	return int(s.queries.Load())
}

// FailWith makes every following request answer status. Zero restores
// normal service.
func (s *SanityServer) FailWith(status int) {
	s.mu.Lock()
	s.failWith = status
	s.mu.Unlock()
}

func (s *SanityServer) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status := s.failWith
	s.mu.Unlock()
	if status != 0 {
		http.Error(w, `{"error":"injected failure"}`, status)
		return
	}

	prefix := "/v" + config.DefaultAPIVersion + "/data/"
	switch {
	case r.Method == http.MethodGet && r.URL.Path == prefix+"query/"+s.Dataset:
		s.query(w, r)
	case r.Method == http.MethodPost && r.URL.Path == prefix+"mutate/"+s.Dataset:
		s.mutate(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *SanityServer) query(w http.ResponseWriter, r *http.Request) {
	s.queries.Add(1)

	q, ok := s.resolve(r)
	if !ok {
		http.Error(w, `{"error":"unsupported query"}`, http.StatusBadRequest)
		return
	}

	var result json.RawMessage
	if err := s.Store.Fetch(r.Context(), q, &result); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"result": result, "ms": 1})
}

// resolve maps the GROQ text back to the structured query it came from.
func (s *SanityServer) resolve(r *http.Request) (cms.Query, bool) {
	values := r.URL.Query()
	groq := values.Get("query")
	param := func(name string) string {
		var v string
		_ = json.Unmarshal([]byte(values.Get("$"+name)), &v)
		return v
	}

	switch {
	case groq == cms.TestimonialsQuery.GROQ:
		return cms.TestimonialsQuery, true
	case groq == cms.CompaniesQuery.GROQ:
		return cms.CompaniesQuery, true
	case strings.Contains(groq, "_type == $type"):
		return cms.DocumentsQuery(domain.Kind(param("type"))), true
	case strings.Contains(groq, "_id == $id"):
		return cms.DocumentQuery(param("id")), true
	}
	return cms.Query{}, false
}

func (s *SanityServer) mutate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Mutations []cms.Mutation `json:"mutations"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := s.Store.Mutate(r.Context(), body.Mutations...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, result)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// Company returns a company document with an image logo.
func Company(id, name string, order float64) map[string]any {
	return map[string]any{
		"_id":   id,
		"_type": "company",
		"name":  name,
		"order": order,
		"logo": map[string]any{
			"_type": "image",
			"asset": map[string]any{"_ref": "image-" + id + "logo-200x100-png"},
		},
	}
}

// Testimonial returns a testimonial document referencing companyID.
func Testimonial(id, quote, author, role, companyID string, order float64) map[string]any {
	return map[string]any{
		"_id":        id,
		"_type":      "testimonial",
		"quote":      quote,
		"authorName": author,
		"authorRole": role,
		"order":      order,
		"company":    map[string]any{"_type": "reference", "_ref": companyID},
	}
}
