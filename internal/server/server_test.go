package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/placement-pipeline/internal/config"
	"github.com/jonathan/placement-pipeline/internal/llm"
	"github.com/jonathan/placement-pipeline/internal/pipeline"
	"github.com/jonathan/placement-pipeline/internal/quota"
	"github.com/jonathan/placement-pipeline/internal/storage"
	"github.com/jonathan/placement-pipeline/internal/types"
)

const testAnalysisJSON = `{
	"extracted_data": {
		"personal_info": {"name": "Priya Sharma", "email": "priya@example.com"},
		"skills": ["Go", "SQL"]
	},
	"overall_score": 70,
	"ats_score": 60
}`

const testResumeText = `Priya Sharma
priya@example.com | Delhi
B.Tech Computer Science, IIT Delhi, 2021-2025
SDE Intern at Acme Corp, built internal tooling in Go.
Skills: Go, SQL`

type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) GenerateJSON(context.Context, string, llm.ModelTier) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}
func (s *stubLLM) GetModel(llm.ModelTier) string { return "stub-model" }

func (s *stubLLM) Close() error { return nil }

type stubStores struct {
	analyses []*types.StoredResumeAnalysis
	profiles map[string]*types.StudentProfile
	improved map[string]*types.ImprovedResume
}

func newStubStores() *stubStores {
	return &stubStores{
		profiles: make(map[string]*types.StudentProfile),
		improved: make(map[string]*types.ImprovedResume),
	}
}

func (m *stubStores) SaveAnalysis(_ context.Context, a *types.StoredResumeAnalysis) (*types.StoredResumeAnalysis, error) {
	stored := *a
	stored.ID = uuid.NewString()
	stored.AnalyzedAt = time.Now().UTC()
	m.analyses = append(m.analyses, &stored)
	return &stored, nil
}

func (m *stubStores) GetLatestAnalysis(_ context.Context, studentID string) (*types.StoredResumeAnalysis, error) {
	for i := len(m.analyses) - 1; i >= 0; i-- {
		if m.analyses[i].StudentID == studentID {
			return m.analyses[i], nil
		}
	}
	return nil, nil
}

func (m *stubStores) GetAnalysis(_ context.Context, id string) (*types.StoredResumeAnalysis, error) {
	for _, a := range m.analyses {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (m *stubStores) GetProfile(_ context.Context, studentID string) (*types.StudentProfile, error) {
	if p, ok := m.profiles[studentID]; ok {
		clone := *p
		return &clone, nil
	}
	return &types.StudentProfile{StudentID: studentID}, nil
}

func (m *stubStores) SaveProfile(_ context.Context, p *types.StudentProfile) error {
	clone := *p
	m.profiles[p.StudentID] = &clone
	return nil
}

func (m *stubStores) SaveImprovedResume(_ context.Context, r *types.ImprovedResume) (*types.ImprovedResume, error) {
	stored := *r
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now().UTC()
	m.improved[stored.ID] = &stored
	return &stored, nil
}

func (m *stubStores) GetImprovedResume(_ context.Context, id string) (*types.ImprovedResume, error) {
	return m.improved[id], nil
}

type stubStorage struct {
	files map[string][]byte
}

func (m *stubStorage) Upload(_ context.Context, data []byte, key string) (*storage.Object, error) {
	id := uuid.NewString()
	m.files[id] = data
	return &storage.Object{FileID: id, Path: "/files/" + id, DownloadURL: "http://files.local/" + id}, nil
}

func (m *stubStorage) Fetch(_ context.Context, downloadURL string) ([]byte, error) {
	id := strings.TrimPrefix(downloadURL, "http://files.local/")
	if data, ok := m.files[id]; ok {
		return data, nil
	}
	return nil, &storage.Error{Op: "fetch", Key: downloadURL, Message: "no such file"}
}

type stubRenderer struct{ err error }

func (r *stubRenderer) Render(context.Context, string) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.4"), nil
}

type testEnv struct {
	server  *httptest.Server
	stores  *stubStores
	llm     *stubLLM
	tracker *quota.Tracker
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		stores:  newStubStores(),
		llm:     &stubLLM{response: testAnalysisJSON},
		tracker: quota.New(10, 100),
	}

	svc, err := pipeline.NewService(pipeline.Options{
		Analyses: env.stores,
		Profiles: env.stores,
		Improved: env.stores,
		Storage:  &stubStorage{files: make(map[string][]byte)},
		LLM:      env.llm,
		Tracker:  env.tracker,
		Renderer: &stubRenderer{},
	})
	require.NoError(t, err)

	s := newServer(svc, nil, &config.Config{Port: "0", ShutdownTimeout: time.Second})
	env.server = httptest.NewServer(s.withCORS(s.routes("")))
	t.Cleanup(env.server.Close)
	return env
}

func multipartResume(t *testing.T, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("resume", fileName)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func uploadResume(t *testing.T, env *testEnv, studentID string) map[string]any {
	t.Helper()
	body, contentType := multipartResume(t, "resume.txt", testResumeText)
	resp, err := http.Post(env.server.URL+"/students/"+studentID+"/resume", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func TestUploadResume_OK(t *testing.T) {
	env := newTestEnv(t)

	result := uploadResume(t, env, "student-1")

	assert.Equal(t, "completed", result["status"])
	assert.NotEmpty(t, result["file_id"])
	assert.NotEmpty(t, result["analysis_id"])
}

func TestUploadResume_MissingFile(t *testing.T) {
	env := newTestEnv(t)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("target_role", "SDE"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(env.server.URL+"/students/s1/resume", mw.FormDataContentType(), body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadResume_RateLimited(t *testing.T) {
	env := newTestEnv(t)
	for env.tracker.CheckAndConsume().Allowed {
		// drain the minute budget
	}

	body, contentType := multipartResume(t, "resume.txt", testResumeText)
	resp, err := http.Post(env.server.URL+"/students/s1/resume", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	var result map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "rate_limited", result["status"])
	assert.NotEmpty(t, result["file_id"], "upload survives rate limiting")
}

func TestUploadResume_ProviderFailure(t *testing.T) {
	env := newTestEnv(t)
	env.llm.err = fmt.Errorf("upstream exploded")

	body, contentType := multipartResume(t, "resume.txt", testResumeText)
	resp, err := http.Post(env.server.URL+"/students/s1/resume", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestReanalyze_Cached(t *testing.T) {
	env := newTestEnv(t)
	uploaded := uploadResume(t, env, "student-1")

	resp, err := http.Post(env.server.URL+"/students/student-1/resume/reanalyze", "application/json",
		strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, true, result["cached"])
	assert.Equal(t, uploaded["analysis_id"], result["analysis_id"])
}

func TestGetLatestAnalysis(t *testing.T) {
	env := newTestEnv(t)
	uploaded := uploadResume(t, env, "student-1")

	resp, err := http.Get(env.server.URL + "/students/student-1/resume/analysis")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var analysis types.StoredResumeAnalysis
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&analysis))
	assert.Equal(t, uploaded["analysis_id"], analysis.ID)
	assert.Equal(t, 70, analysis.OverallScore)
}

func TestGetAnalysis_NotFound(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/analyses/" + uuid.NewString())
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestImprove_OK(t *testing.T) {
	env := newTestEnv(t)
	uploadResume(t, env, "student-1")

	env.llm.response = `{
		"improved_data": {"personal_info": {"name": "Priya Sharma"}, "skills": ["Go", "SQL"]},
		"improvement_summary": ["Tightened wording"]
	}`

	resp, err := http.Post(env.server.URL+"/students/student-1/resume/improve", "application/json",
		strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, float64(85), result["estimated_score"], "original 70 plus the bonus")
	assert.NotEmpty(t, result["pdf_url"])
}

func TestImprove_InvalidAnalysisID(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Post(env.server.URL+"/students/student-1/resume/improve", "application/json",
		strings.NewReader(`{"analysis_id": "not-a-uuid"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReconcile_OK(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.stores.SaveProfile(context.Background(), &types.StudentProfile{
		StudentID:             "student-1",
		Skills:                []string{"Java"},
		ResumeExtractedSkills: []string{"Go"},
	}))

	resp, err := http.Post(env.server.URL+"/students/student-1/profile/reconcile", "application/json",
		strings.NewReader(`{"category": "skills", "strategy": "merge"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var profile types.StudentProfile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	assert.ElementsMatch(t, []string{"Java", "Go"}, profile.Skills)
}

func TestReconcile_BadStrategy(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Post(env.server.URL+"/students/student-1/profile/reconcile", "application/json",
		strings.NewReader(`{"category": "skills", "strategy": "union"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRemoveExtracted_OK(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.stores.SaveProfile(context.Background(), &types.StudentProfile{
		StudentID:             "student-1",
		ResumeExtractedSkills: []string{"Go", "COBOL"},
	}))

	req, err := http.NewRequest(http.MethodDelete,
		env.server.URL+"/students/student-1/resume/extracted/skills?name=COBOL", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var profile types.StudentProfile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	assert.Equal(t, []string{"Go"}, profile.ResumeExtractedSkills)
}

func TestMergedProfile_OK(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.stores.SaveProfile(context.Background(), &types.StudentProfile{
		StudentID:             "student-1",
		Skills:                []string{"Java"},
		ResumeExtractedSkills: []string{"Go"},
	}))

	resp, err := http.Get(env.server.URL + "/students/student-1/profile/merged")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view types.MergedProfileView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Len(t, view.Skills, 2)
}

func TestQuotaEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/quota")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var info map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, float64(10), info["minute_remaining"])
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	req, err := http.NewRequest(http.MethodOptions, env.server.URL+"/health", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
