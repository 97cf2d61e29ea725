package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drawforge/app"
	"drawforge/domain/draw"
	"drawforge/internal/analysis"
	"drawforge/internal/testkit"
)

func newTestServer(t *testing.T, repo *testkit.InMemoryBatchRepository) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	generator, err := app.NewGeneratorService(testkit.NewFakeEntropy(), draw.DefaultRules)
	require.NoError(t, err)
	engine, err := analysis.NewEngine(draw.DefaultRules)
	require.NoError(t, err)

	if repo == nil {
		return NewServer(generator, engine, nil)
	}
	return NewServer(generator, engine, repo)
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSingleDraw(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/draws", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Seed    string `json:"seed"`
		Numbers []int  `json:"numbers"`
		Stars   []int  `json:"stars"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Seed)
	assert.Len(t, resp.Numbers, draw.DefaultRules.NumbersPerDraw)
	assert.Len(t, resp.Stars, draw.DefaultRules.StarsPerDraw)
}

func TestGenerateBatch(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/batches", map[string]any{"draws": 6, "workers": 2})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Batch struct {
			ID    string `json:"id"`
			Draws []struct {
				Seed    string `json:"seed"`
				Numbers []int  `json:"numbers"`
				Stars   []int  `json:"stars"`
			} `json:"draws"`
		} `json:"batch"`
		Report struct {
			SampleSize int `json:"sample_size"`
			Numbers    struct {
				Verdict string `json:"verdict"`
			} `json:"numbers"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.Batch.ID)
	assert.Len(t, resp.Batch.Draws, 6)
	assert.Equal(t, 6, resp.Report.SampleSize)
	assert.NotEmpty(t, resp.Report.Numbers.Verdict)
	for _, d := range resp.Batch.Draws {
		assert.NotEmpty(t, d.Seed)
	}
}

func TestGenerateBatch_RejectsZeroDraws(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/batches", map[string]any{"draws": 0})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateBatch_PersistWithoutRepository(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/batches", map[string]any{"draws": 2, "persist": true})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateBatch_PersistAndFetch(t *testing.T) {
	repo := testkit.NewInMemoryBatchRepository()
	srv := newTestServer(t, repo)

	rec := doJSON(t, srv, http.MethodPost, "/api/batches", map[string]any{"draws": 3, "persist": true})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Batch struct {
			ID string `json:"id"`
		} `json:"batch"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	got := doJSON(t, srv, http.MethodGet, "/api/batches/"+resp.Batch.ID, nil)
	assert.Equal(t, http.StatusOK, got.Code)

	gotReport := doJSON(t, srv, http.MethodGet, "/api/batches/"+resp.Batch.ID+"/report", nil)
	assert.Equal(t, http.StatusOK, gotReport.Code)
}

func TestGetBatch_NotFound(t *testing.T) {
	srv := newTestServer(t, testkit.NewInMemoryBatchRepository())

	rec := doJSON(t, srv, http.MethodGet, "/api/batches/does-not-exist", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetBatch_WithoutRepository(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodGet, "/api/batches/some-id", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
