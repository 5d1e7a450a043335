package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Turismo-api/internal/application/dto"
	"github.com/jhoicas/Turismo-api/internal/application/pagos"
)

// PagoHandler inicia pagos y recibe los eventos de Wompi.
type PagoHandler struct {
	uc *pagos.PagoUseCase
}

// NewPagoHandler construye el handler.
func NewPagoHandler(uc *pagos.PagoUseCase) *PagoHandler {
	return &PagoHandler{uc: uc}
}

// Iniciar godoc
// @Summary      Iniciar pago (datos para el widget de Wompi)
// @Tags         pagos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IniciarPagoRequest  true  "venta_id o reserva_id"
// @Success      201   {object}  dto.IniciarPagoResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pagos [post]
func (h *PagoHandler) Iniciar(c *fiber.Ctx) error {
	var in dto.IniciarPagoRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.IniciarPago(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Webhook godoc
// @Summary      Evento de Wompi (público, validado por checksum)
// @Tags         pagos
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.WebhookResultado
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/pagos/wompi/webhook [post]
func (h *PagoHandler) Webhook(c *fiber.Ctx) error {
	body := append([]byte(nil), c.Body()...)
	out, err := h.uc.ProcesarEventoWompi(c.UserContext(), body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
