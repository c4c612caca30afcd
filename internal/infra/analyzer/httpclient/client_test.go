package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/resumelens/resumelens/internal/domain/analyses"
)

func TestAnalyze_Success(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(10<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "cv.pdf", header.Filename)

		assert.Equal(t, "Engineer", r.FormValue("job_title"))
		// industry was empty, so the field must be missing, not empty
		_, ok := r.MultipartForm.Value["industry"]
		assert.False(t, ok, "empty optional fields must be omitted from the payload")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"score": 82,
			"analysis": "solid",
			"strengths": ["a","b","c"],
			"weaknesses": ["d"],
			"suggestions": [{"area":"format","suggestion":"tighten","example":"x"}]
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	got, err := c.Analyze(context.Background(), domain.AnalyzeRequest{
		FileName: "cv.pdf",
		Data:     []byte("%PDF-fake"),
		JobTitle: "Engineer",
	})

	require.NoError(t, err)
	assert.Equal(t, "/analyze-resume", gotPath)
	assert.Equal(t, 82, got.Score)
	assert.Equal(t, []string{"a", "b", "c"}, got.Strengths)
	assert.Equal(t, []string{"d"}, got.Weaknesses)
	require.Len(t, got.Suggestions, 1)
	assert.Equal(t, "format", got.Suggestions[0].Area)
}

func TestAnalyze_MissingFieldsDecodeToZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"score": 55}`))
	}))
	defer srv.Close()

	got, err := New(srv.URL).Analyze(context.Background(), domain.AnalyzeRequest{
		FileName: "cv.pdf", Data: []byte("x"),
	})

	require.NoError(t, err)
	assert.Equal(t, 55, got.Score)
	assert.Empty(t, got.Analysis)
	assert.Empty(t, got.Strengths)
	assert.Empty(t, got.Suggestions)
}

func TestAnalyze_ErrorDetail(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{"structured detail", http.StatusBadRequest, `{"detail":"Unsupported file format: exe"}`, "Unsupported file format: exe"},
		{"unparseable body falls back", http.StatusInternalServerError, `<html>oops</html>`, "Failed to analyze resume"},
		{"empty detail falls back", http.StatusBadGateway, `{}`, "Failed to analyze resume"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL).Analyze(context.Background(), domain.AnalyzeRequest{
				FileName: "cv.pdf", Data: []byte("x"),
			})

			var ae *domain.AnalysisError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tt.status, ae.Status)
			assert.Equal(t, tt.wantDetail, ae.Detail)
		})
	}
}

func TestAnalyze_SinglePOSTNoRetry(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"detail":"down"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Analyze(context.Background(), domain.AnalyzeRequest{
		FileName: "cv.pdf", Data: []byte("x"),
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls, "a failed analysis call is not retried")
}
