package http

import (
	"net/http"

	"rentdesk-backend/internal/adapter/middleware"
	tenancyuc "rentdesk-backend/internal/usecase/tenancy"

	"github.com/labstack/echo/v4"
)

type TenancyHandler struct{ uc *tenancyuc.Usecase }

func NewTenancyHandler(uc *tenancyuc.Usecase) *TenancyHandler { return &TenancyHandler{uc: uc} }

func (h *TenancyHandler) CreateTenancy(c echo.Context) error {
	var req tenancyuc.CreateTenancyInput
	if err := c.Bind(&req); err != nil {
		return respondInvalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, err)
	}
	dto, err := h.uc.Create(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *TenancyHandler) GetTenancy(c echo.Context) error {
	dto, err := h.uc.GetByTenancyID(c.Request().Context(), c.Param("tenancy_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// ListTenancies answers for the caller's own role: owners see the tenancies
// of their units, tenants see the ones they live in.
func (h *TenancyHandler) ListTenancies(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	var err error
	var dtos []tenancyuc.TenancyDTO
	if middleware.UserRole(c) == "tenant" {
		dtos, err = h.uc.ListByTenant(ctx, userID)
	} else {
		dtos, err = h.uc.ListByOwner(ctx, userID)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}
