package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-minutes/errors"
	meetingdto "github.com/johnquangdev/meeting-minutes/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-minutes/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-minutes/internal/infrastructure/http/middleware"
	meetinguse "github.com/johnquangdev/meeting-minutes/internal/usecase/meeting"
	pkgvalidator "github.com/johnquangdev/meeting-minutes/pkg/validator"
)

// Meetings serves the persisted meeting history
type Meetings struct {
	svc    meetinguse.Service
	logger *zap.Logger
}

// NewMeetings creates the meetings handler
func NewMeetings(svc meetinguse.Service, logger *zap.Logger) *Meetings {
	return &Meetings{svc: svc, logger: logger}
}

// List handles GET /api/meetings, newest first, owner-scoped
func (h *Meetings) List(c echo.Context) error {
	ownerID, ok := middleware.OwnerFromContext(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	meetings, err := h.svc.ListHistory(c.Request().Context(), ownerID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, meetingdto.ListResponse{
		Success: true,
		List:    presenter.ToMeetingList(meetings),
	})
}

// Save handles POST /api/meetings, persisting a meeting supplied by the
// client rather than produced by the upload pipeline.
func (h *Meetings) Save(c echo.Context) error {
	ownerID, ok := middleware.OwnerFromContext(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	var req meetingdto.SaveRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(pkgvalidator.Describe(err)))
	}

	id, err := h.svc.SaveMeeting(c.Request().Context(), ownerID, req.Title, req.Transcript, req.Summary)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, meetingdto.SaveResponse{Success: true, ID: id})
}
