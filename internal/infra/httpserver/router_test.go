package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumelens/resumelens/internal/application"
	appanalyses "github.com/resumelens/resumelens/internal/application/analyses"
	domain "github.com/resumelens/resumelens/internal/domain/analyses"
	"github.com/resumelens/resumelens/internal/domain/sessions"
	"github.com/resumelens/resumelens/internal/infra/identity"
)

// -------- test fakes --------

type stubAnalyzer struct {
	result *domain.Result
	err    error
}

func (s *stubAnalyzer) Analyze(ctx context.Context, req domain.AnalyzeRequest) (*domain.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubArtifacts struct {
	url string
	err error
}

func (s *stubArtifacts) Store(ctx context.Context, userID, fileName string, data []byte) (string, error) {
	return s.url, s.err
}

type stubRepo struct {
	records map[domain.RecordID]*domain.Record
	listed  []*domain.Record
}

func (s *stubRepo) Insert(ctx context.Context, rec *domain.Record) (domain.RecordID, error) {
	return "id-1", nil
}

func (s *stubRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Record, error) {
	return s.listed, nil
}

func (s *stubRepo) GetByID(ctx context.Context, id domain.RecordID) (*domain.Record, error) {
	if rec, ok := s.records[id]; ok {
		return rec, nil
	}
	return nil, domain.ErrNotFound
}

func testServer(t *testing.T, an *stubAnalyzer, ar *stubArtifacts, repo *stubRepo) *httptest.Server {
	t.Helper()
	svc := &appanalyses.Service{
		Analyzer:  an,
		Artifacts: ar,
		Repo:      repo,
		Clock:     application.SystemClock{},
	}
	provider := identity.New(map[string]sessions.Session{
		"tok-alice": {UID: "alice", DisplayName: "Alice"},
	}, nil, "mysql")
	srv := httptest.NewServer(NewRouter(svc, provider, nil))
	t.Cleanup(srv.Close)
	return srv
}

func multipartBody(t *testing.T, fileName string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func doRequest(t *testing.T, method, url, token string, body io.Reader, contentType string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// -------- tests --------

func TestSubmitEndpoint(t *testing.T) {
	an := &stubAnalyzer{result: &domain.Result{
		Score:     82,
		Analysis:  "solid",
		Strengths: []string{"a", "b", "c"},
	}}
	srv := testServer(t, an, &stubArtifacts{url: "http://store/cv.pdf"}, &stubRepo{})

	body, ct := multipartBody(t, "cv.pdf", []byte("%PDF-fake"), map[string]string{"job_title": "Engineer"})
	resp := doRequest(t, http.MethodPost, srv.URL+"/v1/analyses", "tok-alice", body, ct)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got appanalyses.SubmitResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, domain.RecordID("id-1"), got.ID)
	assert.Equal(t, "alice", got.UserID)
	assert.Equal(t, 82, got.Score)
	assert.False(t, got.StorageError)
}

func TestSubmitEndpointStorageErrorStillReturnsAnalysis(t *testing.T) {
	an := &stubAnalyzer{result: &domain.Result{Score: 82}}
	ar := &stubArtifacts{err: &domain.StorageError{
		Kind: domain.StorageQuotaExceeded,
		Err:  errors.New("quota"),
	}}
	srv := testServer(t, an, ar, &stubRepo{})

	body, ct := multipartBody(t, "cv.pdf", []byte("x"), nil)
	resp := doRequest(t, http.MethodPost, srv.URL+"/v1/analyses", "tok-alice", body, ct)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got appanalyses.SubmitResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 82, got.Score)
	assert.True(t, got.StorageError)
	assert.Equal(t, "Storage quota exceeded", got.StorageErrorMessage)
}

func TestSubmitEndpointAnalyzerFailure(t *testing.T) {
	an := &stubAnalyzer{err: &domain.AnalysisError{Status: 500, Detail: "engine down"}}
	srv := testServer(t, an, &stubArtifacts{}, &stubRepo{})

	body, ct := multipartBody(t, "cv.pdf", []byte("x"), nil)
	resp := doRequest(t, http.MethodPost, srv.URL+"/v1/analyses", "tok-alice", body, ct)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestSubmitEndpointBadFileKeepsClientStatus(t *testing.T) {
	an := &stubAnalyzer{err: &domain.AnalysisError{
		Status: http.StatusBadRequest,
		Detail: "unsupported file format: .png",
	}}
	srv := testServer(t, an, &stubArtifacts{}, &stubRepo{})

	body, ct := multipartBody(t, "photo.png", []byte("x"), nil)
	resp := doRequest(t, http.MethodPost, srv.URL+"/v1/analyses", "tok-alice", body, ct)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var got map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Contains(t, got["detail"], "unsupported file format")
}

func TestSubmitEndpointOversize(t *testing.T) {
	srv := testServer(t, &stubAnalyzer{}, &stubArtifacts{}, &stubRepo{})

	body, ct := multipartBody(t, "big.pdf", make([]byte, domain.MaxFileSize+1), nil)
	resp := doRequest(t, http.MethodPost, srv.URL+"/v1/analyses", "tok-alice", body, ct)

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestEndpointsRequireAuth(t *testing.T) {
	srv := testServer(t, &stubAnalyzer{}, &stubArtifacts{}, &stubRepo{})

	for _, path := range []string{"/v1/analyses", "/v1/progress", "/v1/me"} {
		resp := doRequest(t, http.MethodGet, srv.URL+path, "", nil, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}

	resp := doRequest(t, http.MethodGet, srv.URL+"/v1/analyses", "wrong-token", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHistoryEndpoint(t *testing.T) {
	repo := &stubRepo{listed: []*domain.Record{
		{ID: "id-2", UserID: "alice", Score: 82, CreatedAt: time.Now()},
		{ID: "id-1", UserID: "alice", Score: 75, CreatedAt: time.Now().Add(-time.Hour)},
	}}
	srv := testServer(t, &stubAnalyzer{}, &stubArtifacts{}, repo)

	resp := doRequest(t, http.MethodGet, srv.URL+"/v1/analyses", "tok-alice", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []*domain.Record
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, domain.RecordID("id-2"), got[0].ID)
}

func TestGetEndpointNotFound(t *testing.T) {
	srv := testServer(t, &stubAnalyzer{}, &stubArtifacts{}, &stubRepo{})

	resp := doRequest(t, http.MethodGet, srv.URL+"/v1/analyses/missing-id", "tok-alice", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["detail"], "not found")
}

func TestMeEndpoint(t *testing.T) {
	srv := testServer(t, &stubAnalyzer{}, &stubArtifacts{}, &stubRepo{})

	resp := doRequest(t, http.MethodGet, srv.URL+"/v1/me", "tok-alice", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Session sessions.Session `json:"session"`
		Profile sessions.Profile `json:"profile"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "alice", got.Session.UID)
	assert.Equal(t, "Alice", got.Session.DisplayName)
}

func TestHealthNeedsNoAuth(t *testing.T) {
	srv := testServer(t, &stubAnalyzer{}, &stubArtifacts{}, &stubRepo{})

	resp := doRequest(t, http.MethodGet, srv.URL+"/health", "", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
