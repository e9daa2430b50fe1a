package http

import (
	"context"
	"net/http"

	"rentdesk-backend/internal/adapter/middleware"
	"rentdesk-backend/internal/wizard"

	"github.com/labstack/echo/v4"
)

// wizardCtx tags the request context with the authenticated caller so the
// orchestrator can refuse drafts belonging to someone else.
func wizardCtx(c echo.Context) context.Context {
	return wizard.WithCaller(c.Request().Context(), middleware.UserID(c))
}

// WizardHandler exposes the tenancy-creation flow. Every route except Start
// takes the session id from the path; the orchestrator owns all state.
type WizardHandler struct{ orc *wizard.Orchestrator }

func NewWizardHandler(orc *wizard.Orchestrator) *WizardHandler { return &WizardHandler{orc: orc} }

// draftResponse is what every wizard mutation returns: the post-operation
// draft, so the client never has to re-fetch.
type draftResponse struct {
	Draft *wizard.Draft `json:"draft"`
}

func (h *WizardHandler) Start(c echo.Context) error {
	d, err := h.orc.Start(wizardCtx(c), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, draftResponse{Draft: d})
}

func (h *WizardHandler) GetState(c echo.Context) error {
	d, err := h.orc.Get(wizardCtx(c), c.Param("session_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, draftResponse{Draft: d})
}

type selectionReq struct {
	UnitID   string `json:"unitId"`
	TenantID string `json:"tenantId"`
}

func (h *WizardHandler) SubmitSelection(c echo.Context) error {
	var req selectionReq
	if err := c.Bind(&req); err != nil {
		return respondInvalidBody(c)
	}
	d, err := h.orc.SubmitSelection(wizardCtx(c), c.Param("session_id"), req.UnitID, req.TenantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, draftResponse{Draft: d})
}

func (h *WizardHandler) SubmitRent(c echo.Context) error {
	var req wizard.RentInput
	if err := c.Bind(&req); err != nil {
		return respondInvalidBody(c)
	}
	d, err := h.orc.SubmitRent(wizardCtx(c), c.Param("session_id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, draftResponse{Draft: d})
}

func (h *WizardHandler) SubmitClauses(c echo.Context) error {
	var req wizard.ClausesInput
	if err := c.Bind(&req); err != nil {
		return respondInvalidBody(c)
	}
	d, err := h.orc.SubmitClauses(wizardCtx(c), c.Param("session_id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, draftResponse{Draft: d})
}

func (h *WizardHandler) EnterSign(c echo.Context) error {
	view, _, err := h.orc.EnterSign(wizardCtx(c), c.Param("session_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

type signIntentReq struct {
	TypedName           string `json:"typedName"`
	HasReadConfirmation bool   `json:"hasReadConfirmation"`
}

func (h *WizardHandler) SignIntent(c echo.Context) error {
	var req signIntentReq
	if err := c.Bind(&req); err != nil {
		return respondInvalidBody(c)
	}
	d, err := h.orc.SignIntent(wizardCtx(c), c.Param("session_id"), req.TypedName, req.HasReadConfirmation)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, draftResponse{Draft: d})
}

type signConfirmReq struct {
	Token string `json:"token"`
}

func (h *WizardHandler) SignConfirm(c echo.Context) error {
	var req signConfirmReq
	if err := c.Bind(&req); err != nil {
		return respondInvalidBody(c)
	}
	d, err := h.orc.SignConfirm(wizardCtx(c), c.Param("session_id"), req.Token)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, draftResponse{Draft: d})
}

func (h *WizardHandler) SignCancel(c echo.Context) error {
	d, err := h.orc.SignCancel(wizardCtx(c), c.Param("session_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, draftResponse{Draft: d})
}

func (h *WizardHandler) GoToReview(c echo.Context) error {
	d, err := h.orc.GoToReview(wizardCtx(c), c.Param("session_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, draftResponse{Draft: d})
}

func (h *WizardHandler) Back(c echo.Context) error {
	d, err := h.orc.Back(wizardCtx(c), c.Param("session_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, draftResponse{Draft: d})
}

type tenancyCreatedResponse struct {
	Tenancy any           `json:"tenancy"`
	Draft   *wizard.Draft `json:"draft"`
}

func (h *WizardHandler) CreateTenancy(c echo.Context) error {
	dto, d, err := h.orc.CreateTenancy(wizardCtx(c), c.Param("session_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, tenancyCreatedResponse{Tenancy: dto, Draft: d})
}

func (h *WizardHandler) Reset(c echo.Context) error {
	d, err := h.orc.ResetSession(wizardCtx(c), c.Param("session_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, draftResponse{Draft: d})
}
