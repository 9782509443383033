package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/brieflab/brief-analyzer/internal/auth"
	"github.com/brieflab/brief-analyzer/internal/extract"
	"github.com/brieflab/brief-analyzer/internal/middleware"
	"github.com/brieflab/brief-analyzer/internal/model"
	"github.com/brieflab/brief-analyzer/internal/storage"
	"github.com/brieflab/brief-analyzer/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBriefService struct {
	analyzeUploadFunc func(ctx context.Context, in model.UploadInput) (*model.UploadResult, error)
	submitContentFunc func(ctx context.Context, in model.SubmitInput) (*model.SubmitResult, error)
	getBriefFunc      func(ctx context.Context, id string) (*model.Brief, error)
}

func (m *mockBriefService) AnalyzeUpload(ctx context.Context, in model.UploadInput) (*model.UploadResult, error) {
	return m.analyzeUploadFunc(ctx, in)
}

func (m *mockBriefService) SubmitContent(ctx context.Context, in model.SubmitInput) (*model.SubmitResult, error) {
	return m.submitContentFunc(ctx, in)
}

func (m *mockBriefService) GetBrief(ctx context.Context, id string) (*model.Brief, error) {
	return m.getBriefFunc(ctx, id)
}

func (m *mockBriefService) ListProjects(_ context.Context) ([]model.Project, error) {
	return []model.Project{{ID: "p-1", Name: "Spring Launch", Status: model.ProjectActive}}, nil
}

func (m *mockBriefService) ListUsers(_ context.Context) ([]model.User, error) {
	return []model.User{{ID: "u-1", Name: "Alice Moran", BasecampUserID: "4958120"}}, nil
}

func (m *mockBriefService) Stats(_ context.Context) (int, int, error) {
	return 3, 5, nil
}

type mockQueue struct{}

func (mockQueue) Stats() worker.PoolStats {
	return worker.PoolStats{QueueSize: 1, QueueCap: 100, WorkerCount: 2}
}

func newTestHandler(svc BriefService) *Handler {
	authMW := middleware.NewAuthMiddleware(auth.NewJWTService("test-secret"))
	return NewHandler(svc, nil, mockQueue{}, authMW, 16<<20)
}

func authCookie(t *testing.T) *http.Cookie {
	t.Helper()

	token, err := auth.NewJWTService("test-secret").GenerateToken("u-test", "content_writer")
	require.NoError(t, err)

	return &http.Cookie{Name: "auth_token", Value: token}
}

func multipartBody(t *testing.T, fileField, fileName string, fileData []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write(fileData)
		require.NoError(t, err)
	}

	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}

	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestHandler_handlePing(t *testing.T) {
	handler := newTestHandler(&mockBriefService{})
	router := handler.RegisterRoutes()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp PingResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestHandler_handleProjects(t *testing.T) {
	handler := newTestHandler(&mockBriefService{})
	router := handler.RegisterRoutes()

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp ProjectsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Projects, 1)
	assert.Equal(t, "Spring Launch", resp.Projects[0].Name)
}

func TestHandler_handleUsers(t *testing.T) {
	handler := newTestHandler(&mockBriefService{})
	router := handler.RegisterRoutes()

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp UsersResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Users, 1)
	assert.Equal(t, "4958120", resp.Users[0].BasecampUserID)
}

func TestHandler_handleUpload(t *testing.T) {
	tests := []struct {
		name       string
		fileField  string
		fields     map[string]string
		serviceErr error
		wantStatus int
	}{
		{
			name:      "Valid upload",
			fileField: "file",
			fields: map[string]string{
				"content_writer_id":   "4958120",
				"analysis_type":       "comprehensive",
				"include_suggestions": "True",
				"project_id":          "p-1",
				"project_name":        "Spring Launch",
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "Missing file",
			fileField:  "",
			fields:     map[string]string{"content_writer_id": "4958120"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Missing content writer",
			fileField:  "file",
			fields:     map[string]string{"analysis_type": "basic"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Duplicate document",
			fileField:  "file",
			fields:     map[string]string{"content_writer_id": "4958120"},
			serviceErr: storage.ErrBriefExists,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "Unsupported format",
			fileField:  "file",
			fields:     map[string]string{"content_writer_id": "4958120"},
			serviceErr: extract.ErrUnsupportedFormat,
			wantStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:       "Analysis failure",
			fileField:  "file",
			fields:     map[string]string{"content_writer_id": "4958120"},
			serviceErr: errors.New("gemini unavailable"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBriefService{
				analyzeUploadFunc: func(_ context.Context, in model.UploadInput) (*model.UploadResult, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &model.UploadResult{
						Brief: &model.Brief{
							ID:                  "b-1",
							ContentWriterID:     in.ContentWriterID,
							AnalysisType:        in.AnalysisType,
							Stage:               model.StageContentWriterReport,
							Structured:          model.StructuredBrief{ProjectName: in.ProjectName, AnalysisSummary: "summary"},
							ContentWriterReport: "# Report",
							TokensUsed:          42,
						},
						ProcessingTime: 1.5,
					}, nil
				},
			}

			handler := newTestHandler(svc)
			router := handler.RegisterRoutes()

			body, contentType := multipartBody(t, tt.fileField, "brief.txt", []byte("Project Name: Spring Launch"), tt.fields)
			req := httptest.NewRequest(http.MethodPost, "/upload", body)
			req.Header.Set("Content-Type", contentType)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)

			if tt.wantStatus == http.StatusOK {
				var resp UploadResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.True(t, resp.Success)
				assert.Equal(t, "b-1", resp.ReportData.ProjectBriefID)
				assert.Equal(t, "# Report", resp.ReportData.ContentWriterReport)
				require.NotNil(t, resp.ContentWriterReport)
				assert.Equal(t, "# Report", resp.ContentWriterReport.FullReport)
				assert.Equal(t, 42, resp.TokensUsed)
				assert.InDelta(t, 1.5, resp.ProcessingTime, 0.001)
			}
		})
	}
}

// The results tab reads the reports from top-level content_writer_report /
// designer_report objects keyed by full_report, not only from report_data.
func TestHandler_responsesCarryTopLevelReports(t *testing.T) {
	svc := &mockBriefService{
		analyzeUploadFunc: func(_ context.Context, _ model.UploadInput) (*model.UploadResult, error) {
			return &model.UploadResult{
				Brief: &model.Brief{ID: "b-1", ContentWriterReport: "# Report"},
			}, nil
		},
		submitContentFunc: func(_ context.Context, in model.SubmitInput) (*model.SubmitResult, error) {
			return &model.SubmitResult{
				Brief: &model.Brief{
					ID:                  in.ProjectBriefID,
					ContentWriterReport: "# Report",
					DesignerReport:      "# Designer Report",
				},
			}, nil
		},
	}

	handler := newTestHandler(svc)
	router := handler.RegisterRoutes()

	body, contentType := multipartBody(t, "file", "brief.txt", []byte("text"), map[string]string{
		"content_writer_id": "4958120",
	})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var uploadRaw map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &uploadRaw))

	report, ok := uploadRaw["content_writer_report"].(map[string]any)
	require.True(t, ok, "upload response lacks top-level content_writer_report")
	assert.Equal(t, "# Report", report["full_report"])
	assert.NotContains(t, uploadRaw, "designer_report")

	form := url.Values{
		"project_brief_id": {"b-1"},
		"designer_id":      {"4958121"},
		"content_text":     {"Headline copy"},
	}
	req = httptest.NewRequest(http.MethodPost, "/submit-content", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var submitRaw map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &submitRaw))

	designer, ok := submitRaw["designer_report"].(map[string]any)
	require.True(t, ok, "submit response lacks top-level designer_report")
	assert.Equal(t, "# Designer Report", designer["full_report"])
}

func TestHandler_handleUploadFiltersNoneProject(t *testing.T) {
	var got model.UploadInput

	svc := &mockBriefService{
		analyzeUploadFunc: func(_ context.Context, in model.UploadInput) (*model.UploadResult, error) {
			got = in
			return &model.UploadResult{Brief: &model.Brief{ID: "b-1"}}, nil
		},
	}

	handler := newTestHandler(svc)
	router := handler.RegisterRoutes()

	body, contentType := multipartBody(t, "file", "brief.txt", []byte("text"), map[string]string{
		"content_writer_id": "4958120",
		"project_id":        "None",
		"project_name":      "None",
	})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, got.ProjectID)
	assert.Empty(t, got.ProjectName)
}

func TestHandler_handleSubmitContent(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		serviceErr error
		wantStatus int
	}{
		{
			name: "Valid text submission",
			form: url.Values{
				"project_brief_id": {"b-1"},
				"designer_id":      {"4958121"},
				"content_text":     {"Headline copy"},
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "Missing brief id",
			form: url.Values{
				"designer_id":  {"4958121"},
				"content_text": {"Headline copy"},
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "Missing designer",
			form: url.Values{
				"project_brief_id": {"b-1"},
				"content_text":     {"Headline copy"},
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "Unknown brief",
			form: url.Values{
				"project_brief_id": {"missing"},
				"designer_id":      {"4958121"},
				"content_text":     {"Headline copy"},
			},
			serviceErr: storage.ErrBriefNotFound,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBriefService{
				submitContentFunc: func(_ context.Context, in model.SubmitInput) (*model.SubmitResult, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &model.SubmitResult{
						Brief: &model.Brief{
							ID:             in.ProjectBriefID,
							DesignerID:     in.DesignerID,
							Stage:          model.StageDesignerReport,
							DesignerReport: "# Designer Report",
						},
						ProcessingTime: 0.7,
					}, nil
				},
			}

			handler := newTestHandler(svc)
			router := handler.RegisterRoutes()

			req := httptest.NewRequest(http.MethodPost, "/submit-content", strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)

			if tt.wantStatus == http.StatusOK {
				var resp SubmitResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.True(t, resp.Success)
				assert.Equal(t, "b-1", resp.ProjectBriefID)
				assert.Equal(t, "# Designer Report", resp.ReportData.DesignerReport)
				require.NotNil(t, resp.DesignerReport)
				assert.Equal(t, "# Designer Report", resp.DesignerReport.FullReport)
				assert.Equal(t, model.StageDesignerReport, resp.Stage)
			}
		})
	}
}

func TestHandler_handleSubmitContentWithFile(t *testing.T) {
	var got model.SubmitInput

	svc := &mockBriefService{
		submitContentFunc: func(_ context.Context, in model.SubmitInput) (*model.SubmitResult, error) {
			got = in
			return &model.SubmitResult{Brief: &model.Brief{ID: in.ProjectBriefID}}, nil
		},
	}

	handler := newTestHandler(svc)
	router := handler.RegisterRoutes()

	body, contentType := multipartBody(t, "content_file", "copy.txt", []byte("Body copy"), map[string]string{
		"project_brief_id": "b-1",
		"designer_id":      "4958121",
	})
	req := httptest.NewRequest(http.MethodPost, "/submit-content", body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "copy.txt", got.FileName)
	assert.Equal(t, []byte("Body copy"), got.ContentFile)
}

func TestHandler_apiRequiresAuth(t *testing.T) {
	handler := newTestHandler(&mockBriefService{
		getBriefFunc: func(_ context.Context, id string) (*model.Brief, error) {
			return &model.Brief{ID: id}, nil
		},
	})
	router := handler.RegisterRoutes()

	req := httptest.NewRequest(http.MethodGet, "/api/briefs/b-1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/briefs/b-1", nil)
	req.AddCookie(authCookie(t))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp BriefResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "b-1", resp.Brief.ID)
}

func TestHandler_handleStats(t *testing.T) {
	handler := newTestHandler(&mockBriefService{})
	router := handler.RegisterRoutes()

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.AddCookie(authCookie(t))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp StatsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Briefs)
	assert.Equal(t, 5, resp.Reports)
	assert.Equal(t, 100, resp.RetryQueueCap)
	assert.Equal(t, 2, resp.RetryWorkers)
}

func TestHandler_handleGetBriefNotFound(t *testing.T) {
	handler := newTestHandler(&mockBriefService{
		getBriefFunc: func(_ context.Context, _ string) (*model.Brief, error) {
			return nil, storage.ErrBriefNotFound
		},
	})
	router := handler.RegisterRoutes()

	req := httptest.NewRequest(http.MethodGet, "/api/briefs/missing", nil)
	req.AddCookie(authCookie(t))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)

	body, _ := io.ReadAll(rr.Body)
	assert.Contains(t, string(body), "brief not found")
}
