package meeting

import (
	"context"
	stdErrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-minutes/errors"
	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
	"github.com/johnquangdev/meeting-minutes/pkg/config"
	"github.com/johnquangdev/meeting-minutes/pkg/jobcontext"
)

type fakeTranscriber struct {
	transcript string
	err        error
	calls      int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.transcript, nil
}

type fakeSummarizer struct {
	content string
	err     error
	calls   int
	gotLen  int
}

func (f *fakeSummarizer) GenerateSummary(ctx context.Context, transcript string) (string, error) {
	f.calls++
	f.gotLen = len([]rune(transcript))
	if f.err != nil {
		return "", f.err
	}
	return f.content, nil
}

type fakeMeetingRepo struct {
	created []*entities.Meeting
	err     error
	listed  []*entities.Meeting
}

func (f *fakeMeetingRepo) Create(ctx context.Context, m *entities.Meeting) error {
	if f.err != nil {
		return f.err
	}
	m.ID = int64(len(f.created) + 1)
	f.created = append(f.created, m)
	return nil
}

func (f *fakeMeetingRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*entities.Meeting, error) {
	return f.listed, f.err
}

func (f *fakeMeetingRepo) FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*entities.Meeting, error) {
	for _, m := range f.listed {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, entities.ErrMeetingNotFound
}

type fakeArchiver struct {
	url   string
	err   error
	calls int
}

func (f *fakeArchiver) ArchiveAudio(ctx context.Context, objectName, audioPath string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func testConfig() *config.Config {
	return &config.Config{
		OpenAI: config.OpenAIConfig{TranscriptCharLimit: 12000},
		Upload: config.UploadConfig{
			MaxUploadMB:       25,
			AllowedExtensions: []string{"mp3", "mp4", "mpeg", "mpga", "m4a", "wav", "webm"},
		},
	}
}

func spooledJob(t *testing.T, filename string, size int64) *entities.UploadJob {
	t.Helper()
	job := entities.NewUploadJob(7, filename, "", size)
	path := filepath.Join(t.TempDir(), "spool_"+filename)
	if err := os.WriteFile(path, []byte("audio"), 0o600); err != nil {
		t.Fatalf("write spool file: %v", err)
	}
	job.TempFilePath = path
	return job
}

const validSummaryJSON = `{"summary":"sync about hiring","topics":["hiring"],"keyDecisions":["open two roles"],"actionItems":[],"todos":[],"decisions":["open two roles"]}`

func TestProcessUpload_Success(t *testing.T) {
	tr := &fakeTranscriber{transcript: "we discussed hiring"}
	sum := &fakeSummarizer{content: validSummaryJSON}
	repo := &fakeMeetingRepo{}
	svc := NewService(repo, tr, sum, nil, testConfig(), zap.NewNop())

	job := spooledJob(t, "standup.wav", 1024)
	tempPath := job.TempFilePath

	ctx, cancel := jobcontext.Begin(job.OwnerID)
	defer cancel()

	result, err := svc.ProcessUpload(ctx, job)
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected exactly one persisted meeting, got %d", len(repo.created))
	}
	if result.Truncated || result.SummaryFallback {
		t.Fatalf("unexpected flags: %+v", result)
	}
	m := result.Meeting
	if m.Title != "standup" {
		t.Fatalf("title not derived from filename: %q", m.Title)
	}
	if m.Transcript != "we discussed hiring" {
		t.Fatalf("unexpected transcript %q", m.Transcript)
	}
	if m.Summary == nil || m.Summary.Summary != "sync about hiring" {
		t.Fatalf("unexpected summary %+v", m.Summary)
	}
	if _, err := os.Stat(tempPath); !os.IsNotExist(err) {
		t.Fatal("temp file not cleaned up after success")
	}
}

func TestProcessUpload_TranscriptionFatal(t *testing.T) {
	tr := &fakeTranscriber{err: fmt.Errorf("provider status 500")}
	sum := &fakeSummarizer{content: validSummaryJSON}
	repo := &fakeMeetingRepo{}
	svc := NewService(repo, tr, sum, nil, testConfig(), zap.NewNop())

	job := spooledJob(t, "meeting.mp3", 1024)
	tempPath := job.TempFilePath

	_, err := svc.ProcessUpload(context.Background(), job)
	if err == nil {
		t.Fatal("expected error when transcription fails")
	}
	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_TRANSCRIPTION_FAILED {
		t.Fatalf("unexpected error %v", err)
	}
	if sum.calls != 0 {
		t.Fatal("summarizer must not run when transcription fails")
	}
	if len(repo.created) != 0 {
		t.Fatal("no record may be persisted for an aborted job")
	}
	if _, err := os.Stat(tempPath); !os.IsNotExist(err) {
		t.Fatal("temp file not cleaned up after failure")
	}
}

func TestProcessUpload_SummarizerFailureDegrades(t *testing.T) {
	tr := &fakeTranscriber{transcript: strings.Repeat("minutes ", 50)}
	sum := &fakeSummarizer{err: fmt.Errorf("provider status 429")}
	repo := &fakeMeetingRepo{}
	svc := NewService(repo, tr, sum, nil, testConfig(), zap.NewNop())

	result, err := svc.ProcessUpload(context.Background(), spooledJob(t, "meeting.mp3", 1024))
	if err != nil {
		t.Fatalf("summarizer failure must not abort the job: %v", err)
	}
	if !result.SummaryFallback {
		t.Fatal("expected fallback summary")
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected persisted meeting, got %d", len(repo.created))
	}
	s := result.Meeting.Summary
	if len(s.Topics) != 1 || s.Topics[0] != entities.FallbackTopic {
		t.Fatalf("unexpected fallback topics %+v", s.Topics)
	}
}

func TestProcessUpload_UnparsableSummaryDegrades(t *testing.T) {
	tr := &fakeTranscriber{transcript: "short meeting"}
	sum := &fakeSummarizer{content: "I could not produce JSON, sorry"}
	repo := &fakeMeetingRepo{}
	svc := NewService(repo, tr, sum, nil, testConfig(), zap.NewNop())

	result, err := svc.ProcessUpload(context.Background(), spooledJob(t, "meeting.mp3", 1024))
	if err != nil {
		t.Fatalf("unparsable summary must not abort the job: %v", err)
	}
	if !result.SummaryFallback {
		t.Fatal("expected fallback summary")
	}
	if result.Meeting.Summary.Summary != "short meeting" {
		t.Fatalf("fallback must carry the transcript head: %q", result.Meeting.Summary.Summary)
	}
}

func TestProcessUpload_StorageFatal(t *testing.T) {
	tr := &fakeTranscriber{transcript: "we discussed hiring"}
	sum := &fakeSummarizer{content: validSummaryJSON}
	repo := &fakeMeetingRepo{err: fmt.Errorf("connection refused")}
	svc := NewService(repo, tr, sum, nil, testConfig(), zap.NewNop())

	_, err := svc.ProcessUpload(context.Background(), spooledJob(t, "meeting.mp3", 1024))
	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_STORAGE_FAILED {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestProcessUpload_RejectsBeforeExternalCalls(t *testing.T) {
	cases := []struct {
		name string
		job  func(t *testing.T) *entities.UploadJob
		code errors.ErrorCode
	}{
		{
			name: "oversize",
			job: func(t *testing.T) *entities.UploadJob {
				return spooledJob(t, "big.mp3", 26*1024*1024)
			},
			code: errors.ErrorCode_PAYLOAD_TOO_LARGE,
		},
		{
			name: "unsupported extension",
			job: func(t *testing.T) *entities.UploadJob {
				return spooledJob(t, "demo.exe", 1024)
			},
			code: errors.ErrorCode_UNSUPPORTED_MEDIA_TYPE,
		},
		{
			name: "missing file",
			job: func(t *testing.T) *entities.UploadJob {
				return entities.NewUploadJob(7, "demo.mp3", "", 0)
			},
			code: errors.ErrorCode_MISSING_FILE,
		},
		{
			name: "no owner",
			job: func(t *testing.T) *entities.UploadJob {
				job := spooledJob(t, "demo.mp3", 1024)
				job.OwnerID = 0
				return job
			},
			code: errors.ErrorCode_UNAUTHENTICATED,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := &fakeTranscriber{transcript: "x"}
			sum := &fakeSummarizer{content: validSummaryJSON}
			repo := &fakeMeetingRepo{}
			svc := NewService(repo, tr, sum, nil, testConfig(), zap.NewNop())

			_, err := svc.ProcessUpload(context.Background(), tc.job(t))
			var appErr errors.AppError
			if !stdErrors.As(err, &appErr) || appErr.Code != tc.code {
				t.Fatalf("expected code %v, got %v", tc.code, err)
			}
			if tr.calls != 0 || sum.calls != 0 {
				t.Fatal("external providers must not be called for rejected input")
			}
			if len(repo.created) != 0 {
				t.Fatal("no record may be persisted for rejected input")
			}
		})
	}
}

func TestProcessUpload_TruncatesLongTranscript(t *testing.T) {
	long := strings.Repeat("字", 12500)
	tr := &fakeTranscriber{transcript: long}
	sum := &fakeSummarizer{content: validSummaryJSON}
	repo := &fakeMeetingRepo{}
	svc := NewService(repo, tr, sum, nil, testConfig(), zap.NewNop())

	result, err := svc.ProcessUpload(context.Background(), spooledJob(t, "long.m4a", 1024))
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if !result.Truncated {
		t.Fatal("expected truncated flag")
	}
	if sum.gotLen != 12000 {
		t.Fatalf("summarizer input should be cut to 12000 runes, got %d", sum.gotLen)
	}
	if result.Meeting.Transcript != long {
		t.Fatal("persisted transcript must remain the full text")
	}
}

func TestProcessUpload_ArchiverBestEffort(t *testing.T) {
	tr := &fakeTranscriber{transcript: "we discussed hiring"}
	sum := &fakeSummarizer{content: validSummaryJSON}

	t.Run("archived url recorded", func(t *testing.T) {
		repo := &fakeMeetingRepo{}
		arc := &fakeArchiver{url: "https://storage.local/audio/7/a.wav"}
		svc := NewService(repo, tr, sum, arc, testConfig(), zap.NewNop())

		result, err := svc.ProcessUpload(context.Background(), spooledJob(t, "a.wav", 1024))
		if err != nil {
			t.Fatalf("process failed: %v", err)
		}
		if result.Meeting.AudioURL != arc.url {
			t.Fatalf("unexpected audio url %q", result.Meeting.AudioURL)
		}
	})

	t.Run("archive failure does not abort", func(t *testing.T) {
		repo := &fakeMeetingRepo{}
		arc := &fakeArchiver{err: fmt.Errorf("bucket unavailable")}
		svc := NewService(repo, tr, sum, arc, testConfig(), zap.NewNop())

		result, err := svc.ProcessUpload(context.Background(), spooledJob(t, "a.wav", 1024))
		if err != nil {
			t.Fatalf("archive failure must not abort the job: %v", err)
		}
		if result.Meeting.AudioURL != "" {
			t.Fatalf("audio url must stay empty on archive failure, got %q", result.Meeting.AudioURL)
		}
		if len(repo.created) != 1 {
			t.Fatal("meeting must still be persisted")
		}
	})
}

func TestProcessUpload_TitleHintWins(t *testing.T) {
	tr := &fakeTranscriber{transcript: "x"}
	sum := &fakeSummarizer{content: validSummaryJSON}
	repo := &fakeMeetingRepo{}
	svc := NewService(repo, tr, sum, nil, testConfig(), zap.NewNop())

	job := spooledJob(t, "rec_20260829.mp3", 1024)
	job.Title = "Weekly planning"

	result, err := svc.ProcessUpload(context.Background(), job)
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if result.Meeting.Title != "Weekly planning" {
		t.Fatalf("explicit title must win, got %q", result.Meeting.Title)
	}
}

func TestSaveMeeting_DefaultTitle(t *testing.T) {
	repo := &fakeMeetingRepo{}
	svc := NewService(repo, nil, nil, nil, testConfig(), zap.NewNop())

	id, err := svc.SaveMeeting(context.Background(), 7, "", "transcript", nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if id != 1 {
		t.Fatalf("unexpected id %d", id)
	}
	if repo.created[0].Title != entities.DefaultMeetingTitle {
		t.Fatalf("expected default title, got %q", repo.created[0].Title)
	}
}

func TestListHistory_RequiresOwner(t *testing.T) {
	svc := NewService(&fakeMeetingRepo{}, nil, nil, nil, testConfig(), zap.NewNop())
	if _, err := svc.ListHistory(context.Background(), 0); err == nil {
		t.Fatal("expected error for missing owner")
	}
}
