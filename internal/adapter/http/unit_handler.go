package http

import (
	"net/http"

	"rentdesk-backend/internal/adapter/middleware"
	unituc "rentdesk-backend/internal/usecase/unit"

	"github.com/labstack/echo/v4"
)

type UnitHandler struct{ uc *unituc.Usecase }

func NewUnitHandler(uc *unituc.Usecase) *UnitHandler { return &UnitHandler{uc: uc} }

type createUnitReq struct {
	Title    string  `json:"title" validate:"required"`
	Line1    string  `json:"line1,omitempty"`
	Line2    string  `json:"line2,omitempty"`
	City     string  `json:"city,omitempty"`
	State    string  `json:"state,omitempty"`
	Pincode  string  `json:"pincode,omitempty"`
	Beds     int     `json:"beds" validate:"gte=0"`
	AreaSqFt float64 `json:"area_sq_ft" validate:"gte=0,dec2"`
}

func (h *UnitHandler) CreateUnit(c echo.Context) error {
	var req createUnitReq
	if err := c.Bind(&req); err != nil {
		return respondInvalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, err)
	}
	dto, err := h.uc.Create(c.Request().Context(), unituc.CreateUnitInput{
		OwnerID:  middleware.UserID(c),
		Title:    req.Title,
		Line1:    req.Line1,
		Line2:    req.Line2,
		City:     req.City,
		State:    req.State,
		Pincode:  req.Pincode,
		Beds:     req.Beds,
		AreaSqFt: req.AreaSqFt,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *UnitHandler) GetUnit(c echo.Context) error {
	dto, err := h.uc.GetByUnitID(c.Request().Context(), c.Param("unit_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// ListUnits returns the authenticated owner's units (wizard step 1 lookup).
func (h *UnitHandler) ListUnits(c echo.Context) error {
	dtos, err := h.uc.ListByOwner(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}
