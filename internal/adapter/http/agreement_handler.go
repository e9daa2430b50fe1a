package http

import (
	"net/http"

	"rentdesk-backend/internal/adapter/middleware"
	agreementuc "rentdesk-backend/internal/usecase/agreement"

	"github.com/labstack/echo/v4"
)

type AgreementHandler struct{ uc *agreementuc.Usecase }

func NewAgreementHandler(uc *agreementuc.Usecase) *AgreementHandler {
	return &AgreementHandler{uc: uc}
}

func (h *AgreementHandler) CreateAgreement(c echo.Context) error {
	var req agreementuc.CreateAgreementInput
	if err := c.Bind(&req); err != nil {
		return respondInvalidBody(c)
	}
	if uid := middleware.UserID(c); uid != "" {
		req.CreatedBy = uid
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

func (h *AgreementHandler) GetAgreement(c echo.Context) error {
	dto, err := h.uc.GetByAgreementID(c.Request().Context(), c.Param("agreement_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// SignAgreement records one signature. The signer identity comes from the
// body so the endpoint also serves the split-deployment resource client; the
// wizard itself always sends the authenticated user.
func (h *AgreementHandler) SignAgreement(c echo.Context) error {
	var req agreementuc.SignInput
	if err := c.Bind(&req); err != nil {
		return respondInvalidBody(c)
	}
	req.AgreementID = c.Param("agreement_id")
	if req.UserID == "" {
		req.UserID = middleware.UserID(c)
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, err)
	}
	dto, err := h.uc.Sign(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
