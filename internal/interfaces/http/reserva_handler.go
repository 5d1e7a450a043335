package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Turismo-api/internal/application/dto"
	"github.com/jhoicas/Turismo-api/internal/application/reservas"
)

// ReservaHandler maneja reservas de tours y sus cambios de estado.
type ReservaHandler struct {
	uc *reservas.ReservaUseCase
}

// NewReservaHandler construye el handler.
func NewReservaHandler(uc *reservas.ReservaUseCase) *ReservaHandler {
	return &ReservaHandler{uc: uc}
}

// Create godoc
// @Summary      Crear reserva de tour(s)
// @Tags         reservas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CrearReservaRequest  true  "Cliente, personas y cupos por tour"
// @Success      201   {object}  dto.ReservaResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/reservas [post]
func (h *ReservaHandler) Create(c *fiber.Ctx) error {
	var in dto.CrearReservaRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CrearReservaTour(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener reserva
// @Tags         reservas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la reserva"
// @Success      200  {object}  dto.ReservaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reservas/{id} [get]
func (h *ReservaHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.ObtenerReserva(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar reservas
// @Tags         reservas
// @Security     Bearer
// @Produce      json
// @Param        estado      query  string  false  "Estado (se acepta cualquier grafía)"
// @Param        cliente_id  query  string  false  "Cliente"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200         {object}  dto.ReservaListResponse
// @Router       /api/reservas [get]
func (h *ReservaHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListarReservas(c.UserContext(), c.Query("estado"), c.Query("cliente_id"),
		c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Confirmar godoc
// @Summary      Confirmar reserva (desde PENDIENTE o REPROGRAMADA)
// @Tags         reservas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la reserva"
// @Success      200  {object}  dto.ReservaResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reservas/{id}/confirmar [patch]
func (h *ReservaHandler) Confirmar(c *fiber.Ctx) error {
	out, err := h.uc.Confirmar(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Rechazar godoc
// @Summary      Rechazar reserva y liberar cupos
// @Tags         reservas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la reserva"
// @Success      200  {object}  dto.ReservaResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reservas/{id}/rechazar [patch]
func (h *ReservaHandler) Rechazar(c *fiber.Ctx) error {
	out, err := h.uc.Rechazar(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reprogramar godoc
// @Summary      Reprogramar reserva a una nueva fecha
// @Tags         reservas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID de la reserva"
// @Param        body  body  dto.ReprogramarReservaRequest  true  "Nueva fecha"
// @Success      200   {object}  dto.ReservaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/reservas/{id}/reprogramar [patch]
func (h *ReservaHandler) Reprogramar(c *fiber.Ctx) error {
	var in dto.ReprogramarReservaRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Reprogramar(c.UserContext(), c.Params("id"), GetUserID(c), in.Fecha)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Finalizar godoc
// @Summary      Finalizar reserva confirmada
// @Tags         reservas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la reserva"
// @Success      200  {object}  dto.ReservaResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reservas/{id}/finalizar [patch]
func (h *ReservaHandler) Finalizar(c *fiber.Ctx) error {
	out, err := h.uc.Finalizar(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AsignarEmpleado godoc
// @Summary      Asignar empleado responsable
// @Tags         reservas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la reserva"
// @Param        body  body  dto.AsignarEmpleadoRequest  true  "Empleado"
// @Success      200   {object}  dto.ReservaResponse
// @Router       /api/reservas/{id}/empleado [patch]
func (h *ReservaHandler) AsignarEmpleado(c *fiber.Ctx) error {
	var in dto.AsignarEmpleadoRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.AsignarEmpleado(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
