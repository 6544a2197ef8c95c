package meeting

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-minutes/errors"
	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
	"github.com/johnquangdev/meeting-minutes/internal/domain/repositories"
	"github.com/johnquangdev/meeting-minutes/pkg/config"
	"github.com/johnquangdev/meeting-minutes/pkg/jobcontext"
)

// Transcriber converts an audio file into plain text
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Summarizer produces raw summary content for a transcript
type Summarizer interface {
	GenerateSummary(ctx context.Context, transcript string) (string, error)
}

// Archiver stores the original audio in object storage. Optional.
type Archiver interface {
	ArchiveAudio(ctx context.Context, objectName, audioPath string) (string, error)
}

// Service defines the upload-to-summary pipeline and history operations
type Service interface {
	ProcessUpload(ctx context.Context, job *entities.UploadJob) (*Result, error)
	SaveMeeting(ctx context.Context, ownerID int64, title, transcript string, summary *entities.StructuredSummary) (int64, error)
	ListHistory(ctx context.Context, ownerID int64) ([]*entities.Meeting, error)
}

// Result is the artifact of one successful upload job
type Result struct {
	Meeting *entities.Meeting
	// Truncated reports that the transcript was cut to the character
	// budget before summarization, so the summary may not cover the
	// whole meeting.
	Truncated bool
	// SummaryFallback reports that the summary is the deterministic
	// fallback rather than provider output.
	SummaryFallback bool
}

type service struct {
	meetingRepo repositories.MeetingRepository
	transcriber Transcriber
	summarizer  Summarizer
	archiver    Archiver
	parser      *Parser
	cfg         *config.Config
	logger      *zap.Logger
}

// NewService constructs the upload orchestrator. archiver may be nil
// when audio archival is disabled.
func NewService(
	meetingRepo repositories.MeetingRepository,
	transcriber Transcriber,
	summarizer Summarizer,
	archiver Archiver,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &service{
		meetingRepo: meetingRepo,
		transcriber: transcriber,
		summarizer:  summarizer,
		archiver:    archiver,
		parser:      NewParser(),
		cfg:         cfg,
		logger:      logger,
	}
}

// ProcessUpload runs one upload job: validate, transcribe, summarize,
// persist. The three external calls are strictly sequential; each is
// attempted exactly once. On full success exactly one meeting record
// exists; on any aborted path, zero. The job's temp file is removed on
// every exit path.
func (s *service) ProcessUpload(ctx context.Context, job *entities.UploadJob) (*Result, error) {
	defer job.Cleanup()

	if err := s.validateJob(job); err != nil {
		return nil, err
	}

	jobID, _ := jobcontext.JobID(ctx)
	s.logger.Info("upload.job.start",
		zap.String("job_id", jobID.String()),
		zap.Int64("owner_id", job.OwnerID),
		zap.String("filename", job.DeclaredFilename),
		zap.Int64("size_bytes", job.SizeBytes),
	)

	// Step 1: transcription. Fatal on failure: a summary without a
	// transcript is useless, so the job aborts and nothing is persisted.
	transcript, err := s.transcriber.Transcribe(ctx, job.TempFilePath)
	if err != nil {
		s.logger.Error("upload.transcription.failed",
			zap.String("job_id", jobID.String()),
			zap.Error(err),
		)
		return nil, errors.ErrTranscriptionFailed(err)
	}

	// Step 2: summarization on the truncated transcript. Non-fatal: a
	// transcript without a summary is still useful, so provider or
	// parse failures degrade to the deterministic fallback.
	input, truncated := truncateTranscript(transcript, s.cfg.OpenAI.TranscriptCharLimit)
	outcome := s.summarize(ctx, input, transcript)
	if outcome.Fallback {
		s.logger.Warn("upload.summarization.fallback",
			zap.String("job_id", jobID.String()),
			zap.Error(errors.ErrSummarizationFailed(outcome.Cause)),
		)
	}

	meeting, err := entities.NewMeeting(job.OwnerID, job.Title, transcript, outcome.Summary)
	if err != nil {
		return nil, errors.ErrStorageFailed(err)
	}

	// Optional audio archival, best effort: runs before the temp file
	// is removed and never fails the job.
	if s.archiver != nil {
		objectName := fmt.Sprintf("audio/%d/%s_%s", job.OwnerID, jobID.String(), job.DeclaredFilename)
		url, archiveErr := s.archiver.ArchiveAudio(ctx, objectName, job.TempFilePath)
		if archiveErr != nil {
			s.logger.Warn("upload.archive.failed",
				zap.String("job_id", jobID.String()),
				zap.Error(archiveErr),
			)
		} else {
			meeting.AudioURL = url
		}
	}

	// Step 3: persistence. Fatal on failure; the computed transcript
	// and summary are discarded, not cached for retry.
	if err := s.meetingRepo.Create(ctx, meeting); err != nil {
		s.logger.Error("upload.persist.failed",
			zap.String("job_id", jobID.String()),
			zap.Error(err),
		)
		return nil, errors.ErrStorageFailed(err)
	}

	s.logger.Info("upload.job.done",
		zap.String("job_id", jobID.String()),
		zap.Int64("meeting_id", meeting.ID),
		zap.Bool("truncated", truncated),
		zap.Bool("summary_fallback", outcome.Fallback),
		zap.Duration("elapsed", jobcontext.Elapsed(ctx)),
	)

	return &Result{
		Meeting:         meeting,
		Truncated:       truncated,
		SummaryFallback: outcome.Fallback,
	}, nil
}

// SaveMeeting persists a manually supplied meeting record
func (s *service) SaveMeeting(ctx context.Context, ownerID int64, title, transcript string, summary *entities.StructuredSummary) (int64, error) {
	if ownerID <= 0 {
		return 0, errors.ErrUnauthenticated()
	}
	if title == "" {
		title = entities.DefaultMeetingTitle
	}

	meeting, err := entities.NewMeeting(ownerID, title, transcript, summary)
	if err != nil {
		return 0, errors.ErrStorageFailed(err)
	}
	if err := s.meetingRepo.Create(ctx, meeting); err != nil {
		return 0, errors.ErrStorageFailed(err)
	}
	return meeting.ID, nil
}

// ListHistory returns the owner's meetings, newest first
func (s *service) ListHistory(ctx context.Context, ownerID int64) ([]*entities.Meeting, error) {
	if ownerID <= 0 {
		return nil, errors.ErrUnauthenticated()
	}
	return s.meetingRepo.ListByOwner(ctx, ownerID)
}

// validateJob runs all input checks before any external call is made
func (s *service) validateJob(job *entities.UploadJob) error {
	if job.OwnerID <= 0 {
		return errors.ErrUnauthenticated()
	}
	if job.TempFilePath == "" || job.SizeBytes == 0 {
		return errors.ErrMissingFile()
	}
	if job.SizeBytes > s.cfg.MaxUploadBytes() {
		return errors.ErrPayloadTooLarge(s.cfg.MaxUploadBytes())
	}
	if !slices.Contains(s.cfg.Upload.AllowedExtensions, job.Extension()) {
		return errors.ErrUnsupportedMediaType(job.Extension(), s.cfg.Upload.AllowedExtensions)
	}
	return nil
}

// summarize calls the provider once and produces the parse outcome;
// call failures degrade to the fallback variant directly.
func (s *service) summarize(ctx context.Context, input, fullTranscript string) Outcome {
	content, err := s.summarizer.GenerateSummary(ctx, input)
	if err != nil {
		return s.parser.FallbackOutcome(fullTranscript, err)
	}
	return s.parser.ParseSummary(content, fullTranscript)
}

// truncateTranscript cuts the transcript to the provider input budget.
// Counted in runes so multi-byte text is not split mid-character.
func truncateTranscript(transcript string, limit int) (string, bool) {
	if limit <= 0 {
		return transcript, false
	}
	runes := []rune(transcript)
	if len(runes) <= limit {
		return transcript, false
	}
	return string(runes[:limit]), true
}
