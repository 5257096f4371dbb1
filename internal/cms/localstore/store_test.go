package localstore

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/nfrund/portfolio/internal/cms"
	"github.com/nfrund/portfolio/internal/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dataset = `[
  {"_id":"c2","_type":"company","name":"Globex","order":2},
  {"_id":"c1","_type":"company","name":"Acme","order":0,"logo":{"_type":"image","asset":{"_ref":"image-abc-10x10-png"}}},
  {"_id":"t1","_type":"testimonial","quote":"Great","authorName":"A","authorRole":"B","company":{"_type":"reference","_ref":"c1"}},
  {"_id":"t2","_type":"testimonial","quote":"Orphan","authorName":"C","authorRole":"D","company":{"_type":"reference","_ref":"gone"},"order":1}
]`

func openTestStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/content.json", []byte(dataset), 0o644))
	s, err := Open(fs, "/data/content.json")
	require.NoError(t, err)
	return s, fs
}

func TestStore_FetchCompaniesOrdered(t *testing.T) {
	s, _ := openTestStore(t)

	var companies []domain.Company
	require.NoError(t, s.Fetch(context.Background(), cms.CompaniesQuery, &companies))
	require.Len(t, companies, 2)
	assert.Equal(t, "Acme", companies[0].Name)
	assert.Equal(t, "Globex", companies[1].Name)
	assert.Equal(t, "image-abc-10x10-png", companies[0].Logo.Asset.Ref)
}

func TestStore_FetchTestimonialsExpandsCompany(t *testing.T) {
	s, _ := openTestStore(t)

	var testimonials []domain.Testimonial
	require.NoError(t, s.Fetch(context.Background(), cms.TestimonialsQuery, &testimonials))
	require.Len(t, testimonials, 2)
	assert.Equal(t, "Great", testimonials[0].Quote)
	assert.Equal(t, "Acme", testimonials[0].Company.Name)
	assert.Empty(t, testimonials[1].Company.Name, "dangling reference expands to null")
}

func TestStore_FetchSingle(t *testing.T) {
	s, _ := openTestStore(t)

	var doc map[string]any
	require.NoError(t, s.Fetch(context.Background(), cms.DocumentQuery("c2"), &doc))
	assert.Equal(t, "Globex", doc["name"])

	var missing map[string]any
	require.NoError(t, s.Fetch(context.Background(), cms.DocumentQuery("nope"), &missing))
	assert.Nil(t, missing)
}

func TestStore_MissingFileIsEmpty(t *testing.T) {
	s, err := Open(afero.NewMemMapFs(), "/none.json")
	require.NoError(t, err)

	var companies []domain.Company
	require.NoError(t, s.Fetch(context.Background(), cms.CompaniesQuery, &companies))
	assert.NotNil(t, companies)
	assert.Empty(t, companies)
}

func TestStore_MutatePersists(t *testing.T) {
	s, fs := openTestStore(t)
	ctx := context.Background()

	res, err := s.Mutate(ctx,
		cms.CreateOrReplace(map[string]any{"_id": "c1", "_type": "company", "name": "Acme Corp", "order": 0}),
		cms.CreateOrReplace(map[string]any{"_id": "c3", "_type": "company", "name": "Initech", "order": 1}),
		cms.Delete("c2"),
	)
	require.NoError(t, err)
	require.Len(t, res.Results, 3)
	assert.Equal(t, "update", res.Results[0].Operation)
	assert.Equal(t, "create", res.Results[1].Operation)
	assert.Equal(t, "delete", res.Results[2].Operation)

	data, err := afero.ReadFile(fs, "/data/content.json")
	require.NoError(t, err)
	var onDisk []map[string]any
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Len(t, onDisk, 4)

	reopened, err := Open(fs, "/data/content.json")
	require.NoError(t, err)
	var companies []domain.Company
	require.NoError(t, reopened.Fetch(ctx, cms.CompaniesQuery, &companies))
	require.Len(t, companies, 2)
	assert.Equal(t, "Acme Corp", companies[0].Name)
	assert.Equal(t, "Initech", companies[1].Name)
}

func TestStore_MutateRequiresID(t *testing.T) {
	s, _ := openTestStore(t)
	_, err := s.Mutate(context.Background(), cms.CreateOrReplace(map[string]any{"_type": "company"}))
	assert.Error(t, err)
}
