package handler

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atende/internal/catalog/store"
	"atende/pkg/testutil"
)

func newCatalogRouter() chi.Router {
	router := chi.NewRouter()
	New(store.NewInMemory()).Routes(router)
	return router
}

func TestCreateAndGetService(t *testing.T) {
	router := newCatalogRouter()
	tenantID := uuid.NewString()

	req := testutil.NewJSONRequest(t, http.MethodPost, "/services", map[string]any{
		"tenant_id":      tenantID,
		"name":           "Medical exam",
		"department":     "health",
		"module_type":    "health.medicalExam",
		"classification": "DATA_BEARING",
	})
	rec := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	created := testutil.UnmarshalResponse[struct {
		ID             string `json:"id"`
		Classification string `json:"classification"`
		Active         bool   `json:"active"`
	}](t, rec)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "DATA_BEARING", created.Classification)
	assert.True(t, created.Active)

	rec = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/services/"+created.ID+"?tenant_id="+tenantID, nil))
	testutil.AssertStatus(t, rec, http.StatusOK)

	// Tenant scoping: another tenant cannot read the definition.
	rec = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/services/"+created.ID+"?tenant_id="+uuid.NewString(), nil))
	testutil.AssertStatus(t, rec, http.StatusNotFound)
}

func TestCreateServiceValidation(t *testing.T) {
	router := newCatalogRouter()

	for name, body := range map[string]map[string]any{
		"missing tenant": {
			"name":           "Medical exam",
			"classification": "DATA_BEARING",
			"module_type":    "health.medicalExam",
		},
		"unknown classification": {
			"tenant_id":      uuid.NewString(),
			"name":           "Medical exam",
			"classification": "SOMETHING",
		},
		"data-bearing without module type": {
			"tenant_id":      uuid.NewString(),
			"name":           "Medical exam",
			"classification": "DATA_BEARING",
		},
	} {
		t.Run(name, func(t *testing.T) {
			rec := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/services", body))
			testutil.AssertStatus(t, rec, http.StatusBadRequest)
		})
	}
}

func TestLegacyClassificationSpelling(t *testing.T) {
	router := newCatalogRouter()

	rec := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/services", map[string]any{
		"tenant_id":      uuid.NewString(),
		"name":           "City hall opening hours",
		"classification": "INFORMATIVO",
	}))
	testutil.AssertStatus(t, rec, http.StatusCreated)

	created := testutil.UnmarshalResponse[struct {
		Classification string `json:"classification"`
	}](t, rec)
	assert.Equal(t, "INFORMATIONAL", created.Classification)
}
