package wizard

import (
	"context"
	"errors"
	"time"

	"rentdesk-backend/internal/apperrors"
	agreementDomain "rentdesk-backend/internal/domain/agreement"
	tenancyDomain "rentdesk-backend/internal/domain/tenancy"
	agreementuc "rentdesk-backend/internal/usecase/agreement"
	tenancyuc "rentdesk-backend/internal/usecase/tenancy"
	useruc "rentdesk-backend/internal/usecase/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// The orchestrator talks to agreements/tenancies/users only through these
// interfaces. The local usecases satisfy them directly; the HTTP resource
// client satisfies them for split deployments. Both report failures with the
// same apperrors kinds, so the recovery rules below hold for either.
type AgreementService interface {
	Create(ctx context.Context, in agreementuc.CreateAgreementInput) (*agreementuc.AgreementDTO, error)
	GetByAgreementID(ctx context.Context, agreementID string) (*agreementuc.AgreementDTO, error)
	Sign(ctx context.Context, in agreementuc.SignInput) (*agreementuc.AgreementDTO, error)
}

type TenancyService interface {
	Create(ctx context.Context, in tenancyuc.CreateTenancyInput) (*tenancyuc.TenancyDTO, error)
}

type UserService interface {
	GetByUserID(ctx context.Context, userID string) (*useruc.UserDTO, error)
}

// Orchestrator drives the five-step tenancy-creation flow. All draft
// mutations go through here; handlers only translate HTTP to these calls.
type Orchestrator struct {
	store      Store
	agreements AgreementService
	tenancies  TenancyService
	users      UserService
	notify     Notifier
	log        *zap.Logger
}

func NewOrchestrator(store Store, agreements AgreementService, tenancies TenancyService, users UserService, notify Notifier, log *zap.Logger) *Orchestrator {
	if notify == nil {
		notify = NopNotifier{}
	}
	return &Orchestrator{store: store, agreements: agreements, tenancies: tenancies, users: users, notify: notify, log: log}
}

type RentInput struct {
	Amount            float64       `json:"amount"`
	Cycle             string        `json:"cycle"`
	DueDateDay        *int          `json:"dueDateDay,omitempty"`
	UtilitiesIncluded *bool         `json:"utilitiesIncluded,omitempty"`
	Deposit           *DepositInput `json:"deposit,omitempty"`
}

type DepositInput struct {
	Amount float64 `json:"amount"`
	Status string  `json:"status,omitempty"`
}

type ClauseInput struct {
	Key  string `json:"key,omitempty"`
	Text string `json:"text"`
}

type ClausesInput struct {
	Clauses      []ClauseInput `json:"clauses"`
	TemplateName string        `json:"templateName,omitempty"`
	StateCode    string        `json:"stateCode,omitempty"`
}

// SignView is what step 4 renders: the agreement plus whether the signing
// form should be shown at all.
type SignView struct {
	Agreement      *agreementuc.AgreementDTO `json:"agreement"`
	AlreadySigned  bool                      `json:"alreadySigned"`
	PrefillName    string                    `json:"prefillName,omitempty"`
	PrefillConsent bool                      `json:"prefillConsent,omitempty"`
	Phase          SignPhase                 `json:"phase,omitempty"`
}

// Start opens a fresh wizard session for userID.
func (o *Orchestrator) Start(ctx context.Context, userID string) (*Draft, error) {
	d := NewDraft(uuid.NewString(), userID)
	if err := o.store.Save(ctx, d); err != nil {
		return nil, apperrors.Wrap(apperrors.KindServer, "save draft", err)
	}
	return d, nil
}

func (o *Orchestrator) Get(ctx context.Context, sessionID string) (*Draft, error) {
	return o.load(ctx, sessionID)
}

// SubmitSelection records the unit/tenant choice. The step only advances when
// both are present; an incomplete selection is stored but blocks 1->2.
func (o *Orchestrator) SubmitSelection(ctx context.Context, sessionID, unitID, tenantID string) (*Draft, error) {
	d, err := o.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if d.Step != StepSelectUnitAndTenant {
		return d, apperrors.New(apperrors.KindValidation, "selection can only change on step 1")
	}
	d.SelectedUnitID = unitID
	d.SelectedTenantID = tenantID
	if unitID == "" || tenantID == "" {
		if err := o.save(ctx, d); err != nil {
			return nil, err
		}
		return d, apperrors.New(apperrors.KindValidation, "select both a unit and a tenant to continue")
	}
	d.Step = StepRentDetails
	if err := o.save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// SubmitRent validates the rent terms and advances 2->3. No network call.
func (o *Orchestrator) SubmitRent(ctx context.Context, sessionID string, in RentInput) (*Draft, error) {
	d, err := o.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if d.Step != StepRentDetails {
		return d, apperrors.New(apperrors.KindValidation, "not on the rent details step")
	}

	if in.Amount <= 0 {
		return d, apperrors.New(apperrors.KindValidation, "rent amount must be positive")
	}
	cycle := tenancyDomain.Cycle(in.Cycle)
	if !tenancyDomain.ValidCycle(cycle) {
		return d, apperrors.New(apperrors.KindValidation, "rent cycle must be monthly, quarterly or yearly")
	}
	if in.DueDateDay != nil && (*in.DueDateDay < 1 || *in.DueDateDay > 28) {
		return d, apperrors.New(apperrors.KindValidation, "due date day must be between 1 and 28")
	}

	rent := tenancyDomain.Rent{Amount: in.Amount, Cycle: cycle, DueDateDay: 1}
	if in.DueDateDay != nil {
		rent.DueDateDay = *in.DueDateDay
	}
	if in.UtilitiesIncluded != nil {
		rent.UtilitiesIncluded = *in.UtilitiesIncluded
	}
	patch := FormPatch{Rent: &rent}
	if in.Deposit != nil {
		status := tenancyDomain.DepositStatus(in.Deposit.Status)
		if status == "" {
			status = tenancyDomain.DepositUpcoming
		}
		if !tenancyDomain.ValidDepositStatus(status) {
			return d, apperrors.New(apperrors.KindValidation, "invalid deposit status")
		}
		if in.Deposit.Amount < 0 {
			return d, apperrors.New(apperrors.KindValidation, "deposit amount cannot be negative")
		}
		patch.Deposit = &tenancyDomain.Deposit{Amount: in.Deposit.Amount, Status: status}
	}
	d.SetFormData(patch)
	d.Step = StepClauses
	if err := o.save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// SubmitClauses stores the clause set and performs the conditional agreement
// creation: unchanged since the last creation means a plain continue; any
// change supersedes the old agreement with a new one.
func (o *Orchestrator) SubmitClauses(ctx context.Context, sessionID string, in ClausesInput) (*Draft, error) {
	d, err := o.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if d.Step != StepClauses {
		return d, apperrors.New(apperrors.KindValidation, "not on the clauses step")
	}
	if len(in.Clauses) == 0 {
		return d, apperrors.New(apperrors.KindValidation, "at least one clause is required")
	}
	clauses := make([]agreementDomain.Clause, 0, len(in.Clauses))
	for _, c := range in.Clauses {
		if c.Text == "" {
			return d, apperrors.New(apperrors.KindValidation, "clause text cannot be empty")
		}
		clauses = append(clauses, agreementDomain.Clause{Key: c.Key, Text: c.Text})
	}
	d.SetFormData(FormPatch{Clauses: clauses, TemplateName: &in.TemplateName, StateCode: &in.StateCode})

	// No-op continue: the existing agreement still matches the draft.
	if d.AgreementID != "" && d.MatchesSnapshot() {
		d.Step = StepSignAgreement
		if err := o.save(ctx, d); err != nil {
			return nil, err
		}
		return d, nil
	}

	gen, err := o.beginCall(ctx, d)
	if err != nil {
		return d, err
	}

	ucClauses := make([]agreementuc.ClauseInput, 0, len(clauses))
	for _, c := range clauses {
		ucClauses = append(ucClauses, agreementuc.ClauseInput{Key: c.Key, Text: c.Text})
	}
	dto, callErr := o.agreements.Create(ctx, agreementuc.CreateAgreementInput{
		TemplateName: d.Form.TemplateName,
		StateCode:    d.Form.StateCode,
		Clauses:      ucClauses,
		OwnerID:      d.UserID,
		TenantID:     d.SelectedTenantID,
		UnitID:       d.SelectedUnitID,
		Rent:         d.Form.Rent,
		Deposit:      d.Form.Deposit,
		CreatedBy:    d.UserID,
	})

	fresh, stale, err := o.endCall(ctx, sessionID, gen)
	if err != nil || stale {
		return fresh, err
	}
	if callErr != nil {
		if apperrors.IsNotFound(callErr) {
			return o.handleNotFound(ctx, fresh, callErr)
		}
		return o.fail(ctx, fresh, "agreement creation failed", callErr)
	}

	// The superseded agreement, if any, is left pending server-side; only the
	// reference moves.
	fresh.AgreementID = dto.AgreementID
	fresh.TakeSnapshot()
	fresh.ClearSign()
	fresh.Step = StepSignAgreement
	if err := o.save(ctx, fresh); err != nil {
		return nil, err
	}
	o.notify.Notify(sessionID, Event{Kind: "info", Message: "agreement created"})
	return fresh, nil
}

// EnterSign loads step 4: fetch the agreement eagerly so a draft resumed
// after its agreement was deleted resets instead of signing into a void.
func (o *Orchestrator) EnterSign(ctx context.Context, sessionID string) (*SignView, *Draft, error) {
	d, err := o.load(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if d.Step != StepSignAgreement || d.AgreementID == "" {
		return nil, d, apperrors.New(apperrors.KindValidation, "no agreement to sign yet")
	}

	dto, err := o.agreements.GetByAgreementID(ctx, d.AgreementID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			d, err = o.handleNotFound(ctx, d, err)
			return nil, d, err
		}
		return nil, d, err
	}

	view := &SignView{Agreement: dto, Phase: d.Sign.Phase}
	if view.Phase == "" {
		view.Phase = PhaseAwaitingInput
	}
	for _, s := range dto.Signers {
		if s.UserID == d.UserID && s.SignedAt != nil {
			view.AlreadySigned = true
			view.PrefillName = s.Name
			view.PrefillConsent = true
		}
	}
	if dto.Status == string(agreementDomain.StatusSigned) {
		view.AlreadySigned = true
	}
	return view, d, nil
}

// SignIntent is phase A: validate the typed signature locally and, when
// valid, issue a confirmation token. No server call happens here.
func (o *Orchestrator) SignIntent(ctx context.Context, sessionID, typedName string, hasReadConfirmation bool) (*Draft, error) {
	view, d, err := o.EnterSign(ctx, sessionID)
	if err != nil {
		return d, err
	}
	if view.AlreadySigned {
		return d, apperrors.New(apperrors.KindValidation, "agreement is already signed by you")
	}

	usr, err := o.users.GetByUserID(ctx, d.UserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return o.handleNotFound(ctx, d, err)
		}
		return d, err
	}

	d.Sign = SignState{Phase: PhaseAwaitingInput, TypedName: typedName, HasReadConfirmation: hasReadConfirmation}
	switch ValidateSignature(typedName, hasReadConfirmation, usr.FullName) {
	case SignatureMissingConsent:
		if err := o.save(ctx, d); err != nil {
			return nil, err
		}
		return d, apperrors.New(apperrors.KindValidation, "please confirm you have read the agreement")
	case SignatureNameMismatch:
		if err := o.save(ctx, d); err != nil {
			return nil, err
		}
		return d, apperrors.New(apperrors.KindValidation, "typed name must exactly match your legal name")
	}

	d.Sign.Phase = PhaseAwaitingConfirmation
	d.Sign.Token = uuid.NewString()
	if err := o.save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// SignConfirm is phase B: the explicit confirmation that actually calls the
// sign operation. A failed call collapses back to phase A.
func (o *Orchestrator) SignConfirm(ctx context.Context, sessionID, token string) (*Draft, error) {
	d, err := o.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if d.Sign.Phase != PhaseAwaitingConfirmation || token == "" || token != d.Sign.Token {
		return d, apperrors.New(apperrors.KindValidation, "no signature awaiting confirmation")
	}

	gen, err := o.beginCall(ctx, d)
	if err != nil {
		return d, err
	}
	_, callErr := o.agreements.Sign(ctx, agreementuc.SignInput{
		AgreementID: d.AgreementID,
		UserID:      d.UserID,
		Name:        d.Sign.TypedName,
		Method:      "manual",
	})

	fresh, stale, err := o.endCall(ctx, sessionID, gen)
	if err != nil || stale {
		return fresh, err
	}
	if callErr != nil {
		if apperrors.IsNotFound(callErr) {
			return o.handleNotFound(ctx, fresh, callErr)
		}
		fresh.Sign.Phase = PhaseAwaitingInput
		fresh.Sign.Token = ""
		return o.fail(ctx, fresh, "sign failed", callErr)
	}

	fresh.ClearSign()
	fresh.Step = StepReviewAndCreate
	if err := o.save(ctx, fresh); err != nil {
		return nil, err
	}
	o.notify.Notify(sessionID, Event{Kind: "info", Message: "agreement signed"})
	return fresh, nil
}

// SignCancel returns from the confirmation dialog to phase A, inputs intact.
func (o *Orchestrator) SignCancel(ctx context.Context, sessionID string) (*Draft, error) {
	d, err := o.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if d.Sign.Phase == PhaseAwaitingConfirmation {
		d.Sign.Phase = PhaseAwaitingInput
		d.Sign.Token = ""
		if err := o.save(ctx, d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// GoToReview moves 4->5. Free once an agreement exists.
func (o *Orchestrator) GoToReview(ctx context.Context, sessionID string) (*Draft, error) {
	d, err := o.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if d.Step != StepSignAgreement || d.AgreementID == "" {
		return d, apperrors.New(apperrors.KindValidation, "review is only reachable from the signing step")
	}
	d.Step = StepReviewAndCreate
	if err := o.save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Back steps backwards one step. 5->4 is always free; earlier steps go back
// for editing without re-validation.
func (o *Orchestrator) Back(ctx context.Context, sessionID string) (*Draft, error) {
	d, err := o.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if d.Step > StepSelectUnitAndTenant {
		d.Step--
		if err := o.save(ctx, d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// CreateTenancy is the terminal submit on step 5. Success resets the wizard.
func (o *Orchestrator) CreateTenancy(ctx context.Context, sessionID string) (*tenancyuc.TenancyDTO, *Draft, error) {
	d, err := o.load(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if d.Step != StepReviewAndCreate {
		return nil, d, apperrors.New(apperrors.KindValidation, "not on the review step")
	}
	if d.SelectedUnitID == "" || d.SelectedTenantID == "" || d.AgreementID == "" || d.Form == nil {
		return nil, d, apperrors.New(apperrors.KindValidation, "draft is incomplete")
	}

	gen, err := o.beginCall(ctx, d)
	if err != nil {
		return nil, d, err
	}
	dto, callErr := o.tenancies.Create(ctx, tenancyuc.CreateTenancyInput{AgreementID: d.AgreementID})

	fresh, stale, err := o.endCall(ctx, sessionID, gen)
	if err != nil || stale {
		return nil, fresh, err
	}
	if callErr != nil {
		if apperrors.IsNotFound(callErr) {
			fresh, err = o.handleNotFound(ctx, fresh, callErr)
			return nil, fresh, err
		}
		fresh, err = o.fail(ctx, fresh, "tenancy creation failed", callErr)
		return nil, fresh, err
	}

	o.notify.Notify(sessionID, Event{Kind: "info", Message: "tenancy created"})
	fresh.Reset()
	if err := o.save(ctx, fresh); err != nil {
		return nil, nil, err
	}
	return dto, fresh, nil
}

// ResetSession is the explicit discard, available from any step.
func (o *Orchestrator) ResetSession(ctx context.Context, sessionID string) (*Draft, error) {
	d, err := o.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	d.Reset()
	if err := o.save(ctx, d); err != nil {
		return nil, err
	}
	o.notify.Notify(sessionID, Event{Kind: "info", Message: "wizard reset"})
	return d, nil
}

// ---- internals ----

func (o *Orchestrator) load(ctx context.Context, sessionID string) (*Draft, error) {
	d, err := o.store.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrDraftNotFound) {
			return nil, apperrors.Wrap(apperrors.KindNotFound, "wizard session "+sessionID, err)
		}
		return nil, apperrors.Wrap(apperrors.KindServer, "load draft", err)
	}
	// A draft is private to its owner. A foreign session id reads as missing
	// so its existence never leaks.
	if caller := callerID(ctx); caller != "" && d.UserID != "" && caller != d.UserID {
		return nil, apperrors.New(apperrors.KindNotFound, "wizard session "+sessionID)
	}
	return d, nil
}

func (o *Orchestrator) save(ctx context.Context, d *Draft) error {
	if err := o.store.Save(ctx, d); err != nil {
		return apperrors.Wrap(apperrors.KindServer, "save draft", err)
	}
	return nil
}

// A flag persisted past this window belongs to a call that never finished;
// reclaim it instead of wedging the session until the draft TTL.
const inFlightStaleAfter = 90 * time.Second

// beginCall flips the in-flight flag before a resource call. A second submit
// while one is running is rejected instead of queued.
func (o *Orchestrator) beginCall(ctx context.Context, d *Draft) (uint64, error) {
	if d.InFlight && time.Since(d.InFlightAt) < inFlightStaleAfter {
		return 0, apperrors.New(apperrors.KindValidation, "a submission is already in progress")
	}
	d.InFlight = true
	d.InFlightAt = time.Now().UTC()
	if err := o.save(ctx, d); err != nil {
		return 0, err
	}
	return d.Generation, nil
}

// endCall reloads the draft after a resource call and decides whether the
// response may still be applied. A generation bump (reset raced the call)
// means the response is stale and must be dropped.
func (o *Orchestrator) endCall(ctx context.Context, sessionID string, gen uint64) (*Draft, bool, error) {
	fresh, err := o.load(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	if fresh.Generation != gen {
		o.log.Debug("dropping stale wizard response",
			zap.String("session_id", sessionID),
			zap.Uint64("call_generation", gen),
			zap.Uint64("draft_generation", fresh.Generation),
		)
		return fresh, true, nil
	}
	fresh.InFlight = false
	fresh.InFlightAt = time.Time{}
	return fresh, false, nil
}

// handleNotFound is the single recovery path for a dangling resource: wipe
// the draft, go back to step 1, tell the user once.
func (o *Orchestrator) handleNotFound(ctx context.Context, d *Draft, cause error) (*Draft, error) {
	o.log.Warn("wizard resource vanished, resetting draft",
		zap.String("session_id", d.SessionID),
		zap.Error(cause),
	)
	d.Reset()
	if err := o.save(ctx, d); err != nil {
		return nil, err
	}
	o.notify.Notify(d.SessionID, Event{Kind: "error", Message: "a referenced record no longer exists; the wizard was reset"})
	return d, cause
}

// fail saves the draft (step unchanged) and surfaces the failure once.
func (o *Orchestrator) fail(ctx context.Context, d *Draft, what string, cause error) (*Draft, error) {
	if err := o.save(ctx, d); err != nil {
		return nil, err
	}
	o.notify.Notify(d.SessionID, Event{Kind: "error", Message: what + ": " + cause.Error()})
	return d, cause
}
