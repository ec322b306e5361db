package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nexus-bills/internal/application/billing"
	"github.com/jhoicas/nexus-bills/internal/application/dto"
	"github.com/jhoicas/nexus-bills/internal/domain/entity"
	"github.com/jhoicas/nexus-bills/pkg/logger"
)

var deletedMessages = map[entity.Stage]string{
	entity.StageDraft: "Draft deleted successfully!",
	entity.StageKacha: "Kacha Bill deleted successfully!",
	entity.StagePakka: "Pakka Bill deleted successfully!",
}

// BillHandler bill storage, conversion and PDF endpoints.
type BillHandler struct {
	bills     *billing.BillUseCase
	converter *billing.Converter
	pdf       *billing.PDFUseCase
	log       *logger.Logger
}

// NewBillHandler builds the handler.
func NewBillHandler(bills *billing.BillUseCase, converter *billing.Converter, pdf *billing.PDFUseCase, log *logger.Logger) *BillHandler {
	return &BillHandler{bills: bills, converter: converter, pdf: pdf, log: log}
}

// Save godoc
// @Summary      Save a draft, kacha or pakka bill
// @Description  status defaults to draft; a draft with draftId replaces that draft.
// @Tags         bills
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.SaveBillResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/save [post]
func (h *BillHandler) Save(c *fiber.Ctx) error {
	tenantID := GetUserID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var in dto.SaveBillRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	out, err := h.bills.Save(c.Context(), tenantID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// List returns the stage's bills newest first.
func (h *BillHandler) List(stage entity.Stage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID := GetUserID(c)
		if tenantID == "" {
			return unauthorized(c)
		}
		out, err := h.bills.List(c.Context(), tenantID, stage)
		if err != nil {
			return writeError(c, h.log, err)
		}
		return c.JSON(out)
	}
}

// Get returns one bill of the stage.
func (h *BillHandler) Get(stage entity.Stage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID := GetUserID(c)
		if tenantID == "" {
			return unauthorized(c)
		}
		bill, err := h.bills.Get(c.Context(), tenantID, stage, c.Params("id"))
		if err != nil {
			return writeError(c, h.log, err)
		}
		return c.JSON(dto.BillResponse{Status: dto.StatusSuccess, Bill: bill})
	}
}

// Delete removes one bill of the stage.
func (h *BillHandler) Delete(stage entity.Stage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID := GetUserID(c)
		if tenantID == "" {
			return unauthorized(c)
		}
		if err := h.bills.Delete(c.Context(), tenantID, stage, c.Params("id")); err != nil {
			return writeError(c, h.log, err)
		}
		return c.JSON(dto.MessageResponse{Status: dto.StatusSuccess, Message: deletedMessages[stage]})
	}
}

// Convert moves a bill from one stage to the next.
// POST /api/convert/<from>-to-<to>/:id
func (h *BillHandler) Convert(from, to entity.Stage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID := GetUserID(c)
		if tenantID == "" {
			return unauthorized(c)
		}
		out, err := h.converter.ConvertResponse(c.Context(), tenantID, from, to, c.Params("id"))
		if err != nil {
			return writeError(c, h.log, err)
		}
		return c.JSON(out)
	}
}

// Overdue counts kacha bills dated more than a week ago.
// GET /api/check-overdue-bills
func (h *BillHandler) Overdue(c *fiber.Ctx) error {
	tenantID := GetUserID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	out, err := h.bills.OverdueKacha(c.Context(), tenantID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// DownloadPDF godoc
// @Summary      Download a bill as PDF
// @Tags         bills
// @Produce      application/pdf
// @Param        stage  path  string  true  "draft, kacha or pakka"
// @Param        id     path  string  true  "bill id"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bills/{stage}/{id}/pdf [get]
func (h *BillHandler) DownloadPDF(c *fiber.Ctx) error {
	tenantID := GetUserID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	stage := entity.Stage(c.Params("stage"))
	body, filename, err := h.pdf.DownloadBillPDF(c.Context(), tenantID, stage, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(body)
}
