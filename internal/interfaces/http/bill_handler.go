package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Billing-api/internal/application/billing"
	"github.com/jhoicas/Billing-api/internal/application/dto"
)

// HeaderIdempotencyKey cabecera opcional de POST /api/bills.
const HeaderIdempotencyKey = "Idempotency-Key"

// BillHandler maneja las peticiones HTTP de facturación (protegido).
type BillHandler struct {
	uc  *billing.CreateBillUseCase
	pdf *billing.PDFUseCase
}

// NewBillHandler construye el handler.
func NewBillHandler(uc *billing.CreateBillUseCase, pdf *billing.PDFUseCase) *BillHandler {
	return &BillHandler{uc: uc, pdf: pdf}
}

// Create godoc
// @Summary      Crear factura
// @Description  Crea la factura con sus líneas y descuenta stock en una sola transacción.
// @Tags         bills
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                 false  "Clave de idempotencia"
// @Param        body             body    dto.CreateBillRequest  true   "Cliente, líneas y descuento"
// @Success      201  {object}  dto.BillResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/bills [post]
func (h *BillHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateBillRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	bill, err := h.uc.CreateBill(c.UserContext(), userID, c.Get(HeaderIdempotencyKey), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(bill)
}

// GetByID godoc
// @Summary      Obtener factura
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.BillResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bills/{id} [get]
func (h *BillHandler) GetByID(c *fiber.Ctx) error {
	bill, err := h.uc.GetBill(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bill)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de la factura
// @Description  PENDING → PAID | CANCELLED. Mismo estado es un no-op. Cancelar devuelve el stock.
// @Tags         bills
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID de la factura"
// @Param        body  body  dto.UpdateBillStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.BillResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/bills/{id} [put]
func (h *BillHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateBillStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	bill, err := h.uc.UpdateStatus(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bill)
}

// MarkPaid godoc
// @Summary      Marcar factura como pagada
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.BillResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/bills/{id}/pay [post]
func (h *BillHandler) MarkPaid(c *fiber.Ctx) error {
	bill, err := h.uc.MarkPaid(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bill)
}

// DownloadPDF godoc
// @Summary      Descargar factura en PDF
// @Tags         bills
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bills/{id}/pdf [get]
func (h *BillHandler) DownloadPDF(c *fiber.Ctx) error {
	data, filename, err := h.pdf.DownloadBillPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
