package http

import (
	"net/http"
	"strconv"

	"rentdesk-backend/internal/adapter/middleware"
	useruc "rentdesk-backend/internal/usecase/user"

	"github.com/labstack/echo/v4"
)

type UserHandler struct{ uc *useruc.Usecase }

func NewUserHandler(uc *useruc.Usecase) *UserHandler { return &UserHandler{uc: uc} }

func (h *UserHandler) Signup(c echo.Context) error {
	var req useruc.RegisterInput
	if err := c.Bind(&req); err != nil {
		return respondInvalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, err)
	}
	dto, err := h.uc.Register(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *UserHandler) Login(c echo.Context) error {
	var req useruc.LoginInput
	if err := c.Bind(&req); err != nil {
		return respondInvalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, err)
	}
	res, err := h.uc.Authenticate(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *UserHandler) Me(c echo.Context) error {
	dto, err := h.uc.GetByUserID(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	dto, err := h.uc.GetByUserID(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// ListUsers currently only serves the wizard's tenant picker.
func (h *UserHandler) ListUsers(c echo.Context) error {
	if c.QueryParam("role") != "tenant" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "only role=tenant is supported"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	dtos, err := h.uc.ListTenants(c.Request().Context(), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}
