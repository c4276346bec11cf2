package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/learnloop/learnloop-backend/internal/dto"
	"github.com/learnloop/learnloop-backend/internal/services"
	"github.com/learnloop/learnloop-backend/internal/visibility"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Create submits a report against a post or a comment.
func (h *ReportHandler) Create(c *fiber.Ctx) error {
	userID, err := visibility.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	report, err := h.reportService.Submit(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidTarget),
			errors.Is(err, services.ErrInvalidReason),
			errors.Is(err, services.ErrInvalidInput):
			return badRequest(c, err.Error())
		case errors.Is(err, services.ErrSelfReport), errors.Is(err, services.ErrEmailNotVerified):
			return forbidden(c, err.Error())
		case errors.Is(err, services.ErrTargetNotFound):
			return notFound(c, err.Error())
		case errors.Is(err, services.ErrDuplicateReport):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrUserNotFound):
			return unauthorized(c)
		default:
			return internalError(c)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(dto.ReportResponse{
		ID:        report.ID,
		PostID:    report.PostID,
		CommentID: report.CommentID,
		Reason:    report.Reason,
		Details:   report.Details,
		CreatedAt: report.CreatedAt,
	})
}

// --- admin endpoints ---

func (h *ReportHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	resp, err := h.reportService.List(limit, offset)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(resp)
}

func (h *ReportHandler) Detail(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	resp, err := h.reportService.Detail(reportID)
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return notFound(c, err.Error())
		}
		return internalError(c)
	}
	return c.JSON(resp)
}

func (h *ReportHandler) Unhide(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	if err := h.reportService.Unhide(reportID); err != nil {
		if errors.Is(err, services.ErrReportNotFound) || errors.Is(err, services.ErrTargetNotFound) {
			return notFound(c, err.Error())
		}
		return internalError(c)
	}
	return c.JSON(fiber.Map{"message": "Content unhidden"})
}

func (h *ReportHandler) Dismiss(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	if err := h.reportService.Dismiss(reportID); err != nil {
		if errors.Is(err, services.ErrReportNotFound) || errors.Is(err, services.ErrTargetNotFound) {
			return notFound(c, err.Error())
		}
		return internalError(c)
	}
	return c.JSON(fiber.Map{"message": "Reports dismissed"})
}
