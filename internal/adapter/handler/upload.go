package handler

import (
	stdErrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-minutes/errors"
	meetingdto "github.com/johnquangdev/meeting-minutes/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-minutes/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
	"github.com/johnquangdev/meeting-minutes/internal/infrastructure/http/middleware"
	meetinguse "github.com/johnquangdev/meeting-minutes/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-minutes/pkg/config"
	"github.com/johnquangdev/meeting-minutes/pkg/jobcontext"
)

// uploadHeadroom lets the authoritative size check in the use case see
// requests slightly over the limit instead of the connection being cut
// mid-read.
const uploadHeadroom = 1 << 20

// Upload handles the audio upload pipeline endpoint
type Upload struct {
	svc      meetinguse.Service
	resolver middleware.Resolver
	cfg      *config.Config
	logger   *zap.Logger
}

// NewUpload creates the upload handler
func NewUpload(svc meetinguse.Service, resolver middleware.Resolver, cfg *config.Config, logger *zap.Logger) *Upload {
	return &Upload{svc: svc, resolver: resolver, cfg: cfg, logger: logger}
}

// Handle handles POST /api/upload: spool the audio to a temp file, run
// the transcribe-summarize-persist pipeline, and return the persisted
// meeting. The job runs on its own context so a client disconnect does
// not abandon work already paid for upstream.
func (h *Upload) Handle(c echo.Context) error {
	ownerID, err := h.resolver.ResolveOwner(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, h.cfg.MaxUploadBytes()+uploadHeadroom)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			return HandleError(h.logger, c, errors.ErrPayloadTooLarge(h.cfg.MaxUploadBytes()))
		}
		return HandleError(h.logger, c, errors.ErrMissingFile())
	}

	job := entities.NewUploadJob(ownerID, fileHeader.Filename, c.FormValue("title"), fileHeader.Size)
	defer job.Cleanup()

	if err := h.spool(fileHeader, job); err != nil {
		return HandleError(h.logger, c, err)
	}

	ctx, cancel := jobcontext.Begin(ownerID)
	defer cancel()

	result, err := h.svc.ProcessUpload(ctx, job)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	summarySource := "model"
	if result.SummaryFallback {
		summarySource = "fallback"
	}

	return HandleSuccess(h.logger, c, meetingdto.UploadResponse{
		Success:       true,
		Meeting:       presenter.ToMeetingPayload(result.Meeting),
		Truncated:     result.Truncated,
		SummarySource: summarySource,
	})
}

// spool writes the multipart part to a temp file named after the upload
// time, keeping the declared extension so the transcription provider
// can sniff the container format.
func (h *Upload) spool(fileHeader *multipart.FileHeader, job *entities.UploadJob) error {
	src, err := fileHeader.Open()
	if err != nil {
		return errors.ErrInternal(err)
	}
	defer src.Close()

	pattern := fmt.Sprintf("audio_%d_*%s", time.Now().Unix(), filepath.Ext(fileHeader.Filename))
	dst, err := os.CreateTemp(h.cfg.Upload.TempDir, pattern)
	if err != nil {
		return errors.ErrInternal(err)
	}
	job.TempFilePath = dst.Name()

	written, err := io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if isBodyTooLarge(err) {
			return errors.ErrPayloadTooLarge(h.cfg.MaxUploadBytes())
		}
		return errors.ErrInternal(err)
	}
	job.SizeBytes = written
	return nil
}

// isBodyTooLarge matches MaxBytesReader trips. Multipart parsing does
// not always preserve the typed error, so the sentinel text is checked
// as well.
func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if stdErrors.As(err, &maxErr) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "request body too large")
}
