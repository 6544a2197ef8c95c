package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-minutes/errors"
	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
	httpmw "github.com/johnquangdev/meeting-minutes/internal/infrastructure/http/middleware"
	meetinguse "github.com/johnquangdev/meeting-minutes/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-minutes/pkg/config"
	pkgvalidator "github.com/johnquangdev/meeting-minutes/pkg/validator"
)

type stubMeetingService struct {
	result  *meetinguse.Result
	err     error
	gotJob  *entities.UploadJob
	spooled []byte
}

func (s *stubMeetingService) ProcessUpload(ctx context.Context, job *entities.UploadJob) (*meetinguse.Result, error) {
	s.gotJob = job
	if job.TempFilePath != "" {
		s.spooled, _ = os.ReadFile(job.TempFilePath)
	}
	job.Cleanup()
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubMeetingService) SaveMeeting(ctx context.Context, ownerID int64, title, transcript string, summary *entities.StructuredSummary) (int64, error) {
	return 1, nil
}

func (s *stubMeetingService) ListHistory(ctx context.Context, ownerID int64) ([]*entities.Meeting, error) {
	return nil, nil
}

func uploadConfig() *config.Config {
	return &config.Config{
		Upload: config.UploadConfig{
			MaxUploadMB:       25,
			AllowedExtensions: []string{"mp3", "wav"},
		},
	}
}

func multipartBody(t *testing.T, fieldName, filename string, content []byte, extra map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := mw.CreateFormFile(fieldName, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		part.Write(content)
	}
	for k, v := range extra {
		mw.WriteField(k, v)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func newUploadEcho(svc meetinguse.Service, cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.Validator = pkgvalidator.New()
	h := NewUpload(svc, httpmw.NewHeaderResolver(), cfg, zap.NewNop())
	e.POST("/api/upload", h.Handle)
	return e
}

func TestUploadHandler_Success(t *testing.T) {
	meeting, err := entities.NewMeeting(5, "standup", "we talked", &entities.StructuredSummary{Summary: "talked"})
	if err != nil {
		t.Fatalf("build meeting: %v", err)
	}
	meeting.ID = 11

	svc := &stubMeetingService{result: &meetinguse.Result{Meeting: meeting}}
	e := newUploadEcho(svc, uploadConfig())

	body, contentType := multipartBody(t, "file", "standup.mp3", []byte("audio-bytes"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	req.Header.Set("X-User-Id", "5")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success       bool `json:"success"`
		Meeting       struct {
			ID int64 `json:"id"`
		} `json:"meeting"`
		SummarySource string `json:"summary_source"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Meeting.ID != 11 {
		t.Fatalf("unexpected response %s", rec.Body.String())
	}
	if resp.SummarySource != "model" {
		t.Fatalf("unexpected summary source %q", resp.SummarySource)
	}

	if svc.gotJob == nil || svc.gotJob.OwnerID != 5 {
		t.Fatalf("job not handed to service: %+v", svc.gotJob)
	}
	if string(svc.spooled) != "audio-bytes" {
		t.Fatalf("spooled content mismatch: %q", svc.spooled)
	}
}

func TestUploadHandler_FallbackSource(t *testing.T) {
	meeting, _ := entities.NewMeeting(5, "standup", "we talked", entities.NewFallbackSummary("we talked"))
	svc := &stubMeetingService{result: &meetinguse.Result{Meeting: meeting, SummaryFallback: true, Truncated: true}}
	e := newUploadEcho(svc, uploadConfig())

	body, contentType := multipartBody(t, "file", "standup.mp3", []byte("x"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	req.Header.Set("X-User-Id", "5")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp struct {
		SummarySource string `json:"summary_source"`
		Truncated     bool   `json:"truncated"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.SummarySource != "fallback" || !resp.Truncated {
		t.Fatalf("unexpected response %s", rec.Body.String())
	}
}

func TestUploadHandler_MissingFile(t *testing.T) {
	svc := &stubMeetingService{}
	e := newUploadEcho(svc, uploadConfig())

	body, contentType := multipartBody(t, "file", "", nil, map[string]string{"title": "no file"})
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	req.Header.Set("X-User-Id", "5")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Success || resp.Message == "" {
		t.Fatalf("expected failure envelope, got %s", rec.Body.String())
	}
	if svc.gotJob != nil {
		t.Fatal("service must not run without a file")
	}
}

func TestUploadHandler_NoIdentity(t *testing.T) {
	svc := &stubMeetingService{}
	e := newUploadEcho(svc, uploadConfig())

	body, contentType := multipartBody(t, "file", "a.mp3", []byte("x"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if svc.gotJob != nil {
		t.Fatal("service must not run without an identity")
	}
}

func TestUploadHandler_PipelineErrorSurfacesCause(t *testing.T) {
	cause := errors.ErrTranscriptionFailed(providerErr("provider status 500"))
	svc := &stubMeetingService{err: cause}
	e := newUploadEcho(svc, uploadConfig())

	body, contentType := multipartBody(t, "file", "a.mp3", []byte("x"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	req.Header.Set("X-User-Id", "5")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Success {
		t.Fatal("expected failure envelope")
	}
	if !bytes.Contains([]byte(resp.Message), []byte("provider status 500")) {
		t.Fatalf("upstream cause missing from message: %q", resp.Message)
	}
}

type providerErr string

func (e providerErr) Error() string { return string(e) }
