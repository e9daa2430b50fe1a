package wizard

import (
	"time"

	"rentdesk-backend/internal/domain/agreement"
	"rentdesk-backend/internal/domain/tenancy"
)

// Step numbers of the tenancy-creation flow.
const (
	StepSelectUnitAndTenant = 1
	StepRentDetails         = 2
	StepClauses             = 3
	StepSignAgreement       = 4
	StepReviewAndCreate     = 5
)

// SignPhase is the two-state signing sub-machine inside step 4.
type SignPhase string

const (
	PhaseAwaitingInput        SignPhase = "awaiting_input"
	PhaseAwaitingConfirmation SignPhase = "awaiting_confirmation"
)

// FormData is the draft's agreement/tenancy form content. Defaults are applied
// on the first SetFormData write, not at draft creation, so an untouched draft
// serializes without a form block.
type FormData struct {
	Rent         tenancy.Rent       `json:"rent"`
	Deposit      tenancy.Deposit    `json:"deposit"`
	Clauses      []agreement.Clause `json:"clauses"`
	TemplateName string             `json:"templateName,omitempty"`
	StateCode    string             `json:"stateCode,omitempty"`
}

// FormPatch is a shallow-merge update: nil fields leave the draft untouched.
type FormPatch struct {
	Rent         *tenancy.Rent      `json:"rent,omitempty"`
	Deposit      *tenancy.Deposit   `json:"deposit,omitempty"`
	Clauses      []agreement.Clause `json:"clauses,omitempty"`
	TemplateName *string            `json:"templateName,omitempty"`
	StateCode    *string            `json:"stateCode,omitempty"`
}

// Snapshot records the agreement-relevant draft fields at the moment an
// agreement was created. Resubmitting step 3 compares against it to decide
// whether a new agreement is needed.
type Snapshot struct {
	Clauses      []agreement.Clause `json:"clauses"`
	TemplateName string             `json:"templateName,omitempty"`
	StateCode    string             `json:"stateCode,omitempty"`
}

// SignState is the transient signing attempt. It never outlives the draft.
type SignState struct {
	Phase               SignPhase `json:"phase,omitempty"`
	TypedName           string    `json:"typedName,omitempty"`
	HasReadConfirmation bool      `json:"hasReadConfirmation,omitempty"`
	// Token guards phase B: confirm must present the token intent issued.
	Token string `json:"token,omitempty"`
}

// Draft is the wizard's session-scoped state. One draft per session id; only
// the orchestrator mutates it.
type Draft struct {
	SessionID        string     `json:"sessionId"`
	UserID           string     `json:"userId"`
	Step             int        `json:"step"`
	SelectedUnitID   string     `json:"selectedUnitId,omitempty"`
	SelectedTenantID string     `json:"selectedTenantId,omitempty"`
	Form             *FormData  `json:"form,omitempty"`
	AgreementID      string     `json:"agreementId,omitempty"`
	Snapshot         *Snapshot  `json:"snapshot,omitempty"`
	Sign             SignState  `json:"sign,omitempty"`
	// Generation increments on every reset; responses started under an older
	// generation are dropped instead of applied.
	Generation uint64 `json:"generation"`
	// InFlight blocks a second submission while a resource call is running.
	// InFlightAt bounds the block: a flag older than the staleness window is
	// treated as abandoned (process died between begin and end).
	InFlight   bool      `json:"inFlight,omitempty"`
	InFlightAt time.Time `json:"inFlightAt,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func NewDraft(sessionID, userID string) *Draft {
	return &Draft{
		SessionID: sessionID,
		UserID:    userID,
		Step:      StepSelectUnitAndTenant,
		UpdatedAt: time.Now().UTC(),
	}
}

// Reset restores the initial empty draft. Session identity and the generation
// counter survive; everything else is discarded. This is the only recovery
// action for a dangling resource reference.
func (d *Draft) Reset() {
	gen := d.Generation + 1
	*d = Draft{
		SessionID:  d.SessionID,
		UserID:     d.UserID,
		Step:       StepSelectUnitAndTenant,
		Generation: gen,
		UpdatedAt:  time.Now().UTC(),
	}
}

// SetFormData shallow-merges the patch, applying first-write defaults for
// rent and deposit.
func (d *Draft) SetFormData(p FormPatch) {
	if d.Form == nil {
		d.Form = &FormData{
			Rent:    tenancy.Rent{Amount: 0, Cycle: tenancy.CycleMonthly, DueDateDay: 1, UtilitiesIncluded: false},
			Deposit: tenancy.Deposit{Amount: 0, Status: tenancy.DepositUpcoming},
			Clauses: []agreement.Clause{},
		}
	}
	if p.Rent != nil {
		d.Form.Rent = *p.Rent
	}
	if p.Deposit != nil {
		d.Form.Deposit = *p.Deposit
	}
	if p.Clauses != nil {
		d.Form.Clauses = p.Clauses
	}
	if p.TemplateName != nil {
		d.Form.TemplateName = *p.TemplateName
	}
	if p.StateCode != nil {
		d.Form.StateCode = *p.StateCode
	}
	d.UpdatedAt = time.Now().UTC()
}

// TakeSnapshot records the current clause/template/state tuple.
func (d *Draft) TakeSnapshot() {
	if d.Form == nil {
		d.Snapshot = &Snapshot{}
		return
	}
	clauses := make([]agreement.Clause, len(d.Form.Clauses))
	copy(clauses, d.Form.Clauses)
	d.Snapshot = &Snapshot{
		Clauses:      clauses,
		TemplateName: d.Form.TemplateName,
		StateCode:    d.Form.StateCode,
	}
}

// MatchesSnapshot reports whether the draft's agreement-relevant fields equal
// the recorded snapshot. A missing snapshot never matches.
func (d *Draft) MatchesSnapshot() bool {
	if d.Snapshot == nil || d.Form == nil {
		return false
	}
	if d.Form.TemplateName != d.Snapshot.TemplateName || d.Form.StateCode != d.Snapshot.StateCode {
		return false
	}
	if len(d.Form.Clauses) != len(d.Snapshot.Clauses) {
		return false
	}
	for i := range d.Form.Clauses {
		if d.Form.Clauses[i] != d.Snapshot.Clauses[i] {
			return false
		}
	}
	return true
}

// ClearSign wipes the signing sub-state.
func (d *Draft) ClearSign() { d.Sign = SignState{} }
