package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Turismo-api/internal/application/dto"
	"github.com/jhoicas/Turismo-api/internal/application/reservas"
)

// TourHandler maneja el catálogo de tours y sus cupos.
type TourHandler struct {
	uc *reservas.TourUseCase
}

// NewTourHandler construye el handler.
func NewTourHandler(uc *reservas.TourUseCase) *TourHandler {
	return &TourHandler{uc: uc}
}

// Create godoc
// @Summary      Crear tour
// @Tags         tours
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTourRequest  true  "Datos del tour"
// @Success      201   {object}  dto.TourResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/tours [post]
func (h *TourHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTourRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener tour con cupos disponibles
// @Tags         tours
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del tour"
// @Success      200  {object}  dto.TourResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tours/{id} [get]
func (h *TourHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar tours
// @Tags         tours
// @Security     Bearer
// @Produce      json
// @Param        estado  query  string  false  "DISPONIBLE, AGOTADO, EN_CURSO, COMPLETADO, CANCELADO, SUSPENDIDO, REPROGRAMADO"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.TourListResponse
// @Router       /api/tours [get]
func (h *TourHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("estado"), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar tour
// @Tags         tours
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del tour"
// @Param        body  body  dto.UpdateTourRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.TourResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tours/{id} [put]
func (h *TourHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateTourRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CambiarEstado godoc
// @Summary      Cambiar estado del tour
// @Tags         tours
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID del tour"
// @Param        body  body  dto.CambiarEstadoTourRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.TourResponse
// @Router       /api/tours/{id}/estado [patch]
func (h *TourHandler) CambiarEstado(c *fiber.Ctx) error {
	var in dto.CambiarEstadoTourRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CambiarEstado(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
