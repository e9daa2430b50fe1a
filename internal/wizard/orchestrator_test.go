package wizard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"rentdesk-backend/internal/apperrors"
	agreementDomain "rentdesk-backend/internal/domain/agreement"
	agreementuc "rentdesk-backend/internal/usecase/agreement"
	tenancyuc "rentdesk-backend/internal/usecase/tenancy"
	useruc "rentdesk-backend/internal/usecase/user"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testOwnerID  = "oooooooooooooooooooooooooooooooo"
	testTenantID = "tttttttttttttttttttttttttttttttt"
	testUnitID   = "uuuuuuuuuuuuuuuuuuuuuuuuuuuuuuuu"
	testOtherID  = "xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx"
)

// ---- service mocks ----

type agreementSvcMock struct {
	createFn func(ctx context.Context, in agreementuc.CreateAgreementInput) (*agreementuc.AgreementDTO, error)
	getFn    func(ctx context.Context, id string) (*agreementuc.AgreementDTO, error)
	signFn   func(ctx context.Context, in agreementuc.SignInput) (*agreementuc.AgreementDTO, error)

	createCalls int
	signCalls   int
	lastCreate  agreementuc.CreateAgreementInput
	lastSign    agreementuc.SignInput
}

func (m *agreementSvcMock) Create(ctx context.Context, in agreementuc.CreateAgreementInput) (*agreementuc.AgreementDTO, error) {
	m.createCalls++
	m.lastCreate = in
	return m.createFn(ctx, in)
}

func (m *agreementSvcMock) GetByAgreementID(ctx context.Context, id string) (*agreementuc.AgreementDTO, error) {
	return m.getFn(ctx, id)
}

func (m *agreementSvcMock) Sign(ctx context.Context, in agreementuc.SignInput) (*agreementuc.AgreementDTO, error) {
	m.signCalls++
	m.lastSign = in
	return m.signFn(ctx, in)
}

type tenancySvcMock struct {
	createFn    func(ctx context.Context, in tenancyuc.CreateTenancyInput) (*tenancyuc.TenancyDTO, error)
	createCalls int
	lastCreate  tenancyuc.CreateTenancyInput
}

func (m *tenancySvcMock) Create(ctx context.Context, in tenancyuc.CreateTenancyInput) (*tenancyuc.TenancyDTO, error) {
	m.createCalls++
	m.lastCreate = in
	return m.createFn(ctx, in)
}

type userSvcMock struct {
	getFn func(ctx context.Context, id string) (*useruc.UserDTO, error)
}

func (m *userSvcMock) GetByUserID(ctx context.Context, id string) (*useruc.UserDTO, error) {
	return m.getFn(ctx, id)
}

type recordingNotifier struct{ events []Event }

func (n *recordingNotifier) Notify(_ string, ev Event) { n.events = append(n.events, ev) }

func (n *recordingNotifier) last() Event {
	if len(n.events) == 0 {
		return Event{}
	}
	return n.events[len(n.events)-1]
}

// ---- harness ----

type harness struct {
	mr         *miniredis.Miniredis
	store      *RedisStore
	agreements *agreementSvcMock
	tenancies  *tenancySvcMock
	users      *userSvcMock
	notes      *recordingNotifier
	orc        *Orchestrator

	seq  int
	byID map[string]*agreementuc.AgreementDTO
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	h := &harness{
		mr:    mr,
		store: NewRedisStore(client, time.Hour),
		notes: &recordingNotifier{},
		byID:  map[string]*agreementuc.AgreementDTO{},
	}
	h.agreements = &agreementSvcMock{
		createFn: func(ctx context.Context, in agreementuc.CreateAgreementInput) (*agreementuc.AgreementDTO, error) {
			h.seq++
			clauses := make(agreementDomain.ClauseList, 0, len(in.Clauses))
			for _, c := range in.Clauses {
				clauses = append(clauses, agreementDomain.Clause{Key: c.Key, Text: c.Text})
			}
			dto := &agreementuc.AgreementDTO{
				AgreementID:  fmt.Sprintf("%032d", h.seq),
				TemplateName: in.TemplateName,
				StateCode:    in.StateCode,
				Clauses:      clauses,
				Signers:      agreementDomain.SignerList{{UserID: in.OwnerID}, {UserID: in.TenantID}},
				Status:       string(agreementDomain.StatusPendingSignature),
				Version:      1,
			}
			h.byID[dto.AgreementID] = dto
			return dto, nil
		},
		getFn: func(ctx context.Context, id string) (*agreementuc.AgreementDTO, error) {
			if dto, ok := h.byID[id]; ok {
				return dto, nil
			}
			return nil, apperrors.New(apperrors.KindNotFound, "agreement "+id)
		},
		signFn: func(ctx context.Context, in agreementuc.SignInput) (*agreementuc.AgreementDTO, error) {
			dto, ok := h.byID[in.AgreementID]
			if !ok {
				return nil, apperrors.New(apperrors.KindNotFound, "agreement "+in.AgreementID)
			}
			now := time.Now().UTC()
			for i := range dto.Signers {
				if dto.Signers[i].UserID == in.UserID {
					dto.Signers[i].Name = in.Name
					dto.Signers[i].Method = in.Method
					dto.Signers[i].SignedAt = &now
				}
			}
			return dto, nil
		},
	}
	h.tenancies = &tenancySvcMock{
		createFn: func(ctx context.Context, in tenancyuc.CreateTenancyInput) (*tenancyuc.TenancyDTO, error) {
			return &tenancyuc.TenancyDTO{TenancyID: "nnnnnnnnnnnnnnnnnnnnnnnnnnnnnnnn", AgreementID: in.AgreementID, Status: "upcoming"}, nil
		},
	}
	h.users = &userSvcMock{
		getFn: func(ctx context.Context, id string) (*useruc.UserDTO, error) {
			return &useruc.UserDTO{UserID: id, FirstName: "John", LastName: "Smith", FullName: "John Smith", Role: "owner"}, nil
		},
	}
	h.orc = NewOrchestrator(h.store, h.agreements, h.tenancies, h.users, h.notes, zap.NewNop())
	return h
}

func (h *harness) start(t *testing.T) string {
	t.Helper()
	d, err := h.orc.Start(context.Background(), testOwnerID)
	require.NoError(t, err)
	return d.SessionID
}

func (h *harness) toRentStep(t *testing.T) string {
	t.Helper()
	sid := h.start(t)
	_, err := h.orc.SubmitSelection(context.Background(), sid, testUnitID, testTenantID)
	require.NoError(t, err)
	return sid
}

func (h *harness) toClausesStep(t *testing.T) string {
	t.Helper()
	sid := h.toRentStep(t)
	due := 5
	_, err := h.orc.SubmitRent(context.Background(), sid, RentInput{Amount: 15000, Cycle: "monthly", DueDateDay: &due})
	require.NoError(t, err)
	return sid
}

func defaultClauses() ClausesInput {
	return ClausesInput{
		Clauses:      []ClauseInput{{Key: "rent_payment", Text: "Rent is due on the 5th of each month."}},
		TemplateName: "standard",
		StateCode:    "KA",
	}
}

func (h *harness) toSignStep(t *testing.T) string {
	t.Helper()
	sid := h.toClausesStep(t)
	_, err := h.orc.SubmitClauses(context.Background(), sid, defaultClauses())
	require.NoError(t, err)
	return sid
}

func (h *harness) draft(t *testing.T, sid string) *Draft {
	t.Helper()
	d, err := h.orc.Get(context.Background(), sid)
	require.NoError(t, err)
	return d
}

func assertInitialDraft(t *testing.T, d *Draft) {
	t.Helper()
	assert.Equal(t, StepSelectUnitAndTenant, d.Step)
	assert.Empty(t, d.SelectedUnitID)
	assert.Empty(t, d.SelectedTenantID)
	assert.Nil(t, d.Form)
	assert.Empty(t, d.AgreementID)
	assert.Nil(t, d.Snapshot)
	assert.Equal(t, SignState{}, d.Sign)
	assert.False(t, d.InFlight)
}

// ---- steps 1..3 ----

func TestSelectionAndRentFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sid := h.start(t)

	d, err := h.orc.SubmitSelection(ctx, sid, testUnitID, testTenantID)
	require.NoError(t, err)
	assert.Equal(t, StepRentDetails, d.Step)

	due := 5
	d, err = h.orc.SubmitRent(ctx, sid, RentInput{Amount: 15000, Cycle: "monthly", DueDateDay: &due})
	require.NoError(t, err)
	assert.Equal(t, StepClauses, d.Step)
	require.NotNil(t, d.Form)
	assert.Equal(t, float64(15000), d.Form.Rent.Amount)
	assert.Equal(t, "monthly", string(d.Form.Rent.Cycle))
	assert.Equal(t, 5, d.Form.Rent.DueDateDay)
	assert.False(t, d.Form.Rent.UtilitiesIncluded)
}

func TestIncompleteSelectionBlocksStepOne(t *testing.T) {
	h := newHarness(t)
	sid := h.start(t)

	_, err := h.orc.SubmitSelection(context.Background(), sid, testUnitID, "")
	assert.True(t, apperrors.IsValidation(err))

	d := h.draft(t, sid)
	assert.Equal(t, StepSelectUnitAndTenant, d.Step, "step must not change on a blocked transition")
	assert.Equal(t, testUnitID, d.SelectedUnitID, "partial selection is still recorded")
}

func TestRentValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	bad := 31

	cases := []struct {
		name string
		in   RentInput
	}{
		{"zero amount", RentInput{Amount: 0, Cycle: "monthly"}},
		{"negative amount", RentInput{Amount: -5, Cycle: "monthly"}},
		{"bad cycle", RentInput{Amount: 15000, Cycle: "weekly"}},
		{"due day out of range", RentInput{Amount: 15000, Cycle: "monthly", DueDateDay: &bad}},
		{"bad deposit status", RentInput{Amount: 15000, Cycle: "monthly", Deposit: &DepositInput{Amount: 100, Status: "lost"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sid := h.toRentStep(t)
			_, err := h.orc.SubmitRent(ctx, sid, tc.in)
			assert.True(t, apperrors.IsValidation(err), "err=%v", err)
			assert.Equal(t, StepRentDetails, h.draft(t, sid).Step)
		})
	}
}

// ---- step 3: conditional agreement creation ----

func TestClausesSubmitCreatesAgreement(t *testing.T) {
	h := newHarness(t)
	sid := h.toClausesStep(t)

	d, err := h.orc.SubmitClauses(context.Background(), sid, defaultClauses())
	require.NoError(t, err)
	assert.Equal(t, 1, h.agreements.createCalls)
	assert.NotEmpty(t, d.AgreementID)
	assert.Equal(t, StepSignAgreement, d.Step)
	require.NotNil(t, d.Snapshot)
	assert.True(t, d.MatchesSnapshot())

	in := h.agreements.lastCreate
	assert.Equal(t, testOwnerID, in.OwnerID)
	assert.Equal(t, testTenantID, in.TenantID)
	assert.Equal(t, testUnitID, in.UnitID)
	assert.Equal(t, testOwnerID, in.CreatedBy)
	assert.Equal(t, float64(15000), in.Rent.Amount)
	assert.Equal(t, "agreement created", h.notes.last().Message)
}

func TestUnchangedResubmitSkipsCreation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sid := h.toSignStep(t)
	first := h.draft(t, sid).AgreementID

	_, err := h.orc.Back(ctx, sid)
	require.NoError(t, err)
	d, err := h.orc.SubmitClauses(ctx, sid, defaultClauses())
	require.NoError(t, err)

	assert.Equal(t, 1, h.agreements.createCalls, "unchanged draft must not re-create")
	assert.Equal(t, first, d.AgreementID)
	assert.Equal(t, StepSignAgreement, d.Step)
}

func TestEditedClauseSupersedesAgreement(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sid := h.toSignStep(t)
	first := h.draft(t, sid).AgreementID

	_, err := h.orc.Back(ctx, sid)
	require.NoError(t, err)
	edited := defaultClauses()
	edited.Clauses[0].Text = "Rent is due on the 1st of each month."
	d, err := h.orc.SubmitClauses(ctx, sid, edited)
	require.NoError(t, err)

	assert.Equal(t, 2, h.agreements.createCalls)
	assert.NotEqual(t, first, d.AgreementID, "edited clauses must yield a new agreement id")
	assert.True(t, d.MatchesSnapshot(), "snapshot must track the new agreement")
}

func TestCreateNotFoundResetsDraft(t *testing.T) {
	h := newHarness(t)
	sid := h.toClausesStep(t)
	h.agreements.createFn = func(ctx context.Context, in agreementuc.CreateAgreementInput) (*agreementuc.AgreementDTO, error) {
		return nil, apperrors.New(apperrors.KindNotFound, "unit "+in.UnitID+" not found")
	}

	d, err := h.orc.SubmitClauses(context.Background(), sid, defaultClauses())
	assert.True(t, apperrors.IsNotFound(err))
	assertInitialDraft(t, d)
	assertInitialDraft(t, h.draft(t, sid))
	assert.Equal(t, "error", h.notes.last().Kind)
}

func TestCreateServerErrorStaysOnClauses(t *testing.T) {
	h := newHarness(t)
	sid := h.toClausesStep(t)
	h.agreements.createFn = func(ctx context.Context, in agreementuc.CreateAgreementInput) (*agreementuc.AgreementDTO, error) {
		return nil, apperrors.New(apperrors.KindServer, "insert failed")
	}

	d, err := h.orc.SubmitClauses(context.Background(), sid, defaultClauses())
	assert.Equal(t, apperrors.KindServer, apperrors.KindOf(err))
	assert.Equal(t, StepClauses, d.Step)
	assert.Empty(t, d.AgreementID)
	assert.False(t, d.InFlight, "failed call must release the in-flight flag")
}

// ---- step 4: signing ----

func TestEnterSignNotFoundResetsDraft(t *testing.T) {
	h := newHarness(t)
	sid := h.toSignStep(t)
	// agreement vanishes server-side between sessions
	h.byID = map[string]*agreementuc.AgreementDTO{}

	_, d, err := h.orc.EnterSign(context.Background(), sid)
	assert.True(t, apperrors.IsNotFound(err))
	assertInitialDraft(t, d)
	assert.Equal(t, "error", h.notes.last().Kind)
}

func TestTwoPhaseSignFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sid := h.toSignStep(t)

	d, err := h.orc.SignIntent(ctx, sid, "John Smith", true)
	require.NoError(t, err)
	assert.Equal(t, PhaseAwaitingConfirmation, d.Sign.Phase)
	assert.NotEmpty(t, d.Sign.Token)
	assert.Zero(t, h.agreements.signCalls, "intent must not call the server")

	d, err = h.orc.SignConfirm(ctx, sid, d.Sign.Token)
	require.NoError(t, err)
	assert.Equal(t, 1, h.agreements.signCalls)
	assert.Equal(t, testOwnerID, h.agreements.lastSign.UserID)
	assert.Equal(t, "John Smith", h.agreements.lastSign.Name)
	assert.Equal(t, "manual", h.agreements.lastSign.Method)
	assert.Equal(t, StepReviewAndCreate, d.Step, "sign success auto-advances to review")
	assert.Equal(t, SignState{}, d.Sign, "signature inputs are cleared")
}

func TestSignIntentNameMismatch(t *testing.T) {
	h := newHarness(t)
	sid := h.toSignStep(t)

	d, err := h.orc.SignIntent(context.Background(), sid, "john smith", true)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, PhaseAwaitingInput, d.Sign.Phase)
	assert.Empty(t, d.Sign.Token)
	assert.Zero(t, h.agreements.signCalls)
}

func TestSignIntentMissingConsent(t *testing.T) {
	h := newHarness(t)
	sid := h.toSignStep(t)

	d, err := h.orc.SignIntent(context.Background(), sid, "John Smith", false)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, PhaseAwaitingInput, d.Sign.Phase)
	assert.Zero(t, h.agreements.signCalls)
}

func TestSignConfirmRequiresToken(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sid := h.toSignStep(t)
	_, err := h.orc.SignIntent(ctx, sid, "John Smith", true)
	require.NoError(t, err)

	_, err = h.orc.SignConfirm(ctx, sid, "wrong-token")
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, h.agreements.signCalls)
}

func TestSignCancelReturnsToInputPhase(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sid := h.toSignStep(t)
	_, err := h.orc.SignIntent(ctx, sid, "John Smith", true)
	require.NoError(t, err)

	d, err := h.orc.SignCancel(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, PhaseAwaitingInput, d.Sign.Phase)
	assert.Empty(t, d.Sign.Token)
	assert.Equal(t, "John Smith", d.Sign.TypedName, "cancel keeps the typed inputs")
	assert.Zero(t, h.agreements.signCalls)
}

func TestSignConfirmNotFoundResetsDraft(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sid := h.toSignStep(t)
	d, err := h.orc.SignIntent(ctx, sid, "John Smith", true)
	require.NoError(t, err)

	h.agreements.signFn = func(ctx context.Context, in agreementuc.SignInput) (*agreementuc.AgreementDTO, error) {
		return nil, apperrors.New(apperrors.KindNotFound, "agreement "+in.AgreementID)
	}
	d, err = h.orc.SignConfirm(ctx, sid, d.Sign.Token)
	assert.True(t, apperrors.IsNotFound(err))
	assertInitialDraft(t, d)
}

func TestSignConfirmServerErrorCollapsesToPhaseA(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sid := h.toSignStep(t)
	d, err := h.orc.SignIntent(ctx, sid, "John Smith", true)
	require.NoError(t, err)

	h.agreements.signFn = func(ctx context.Context, in agreementuc.SignInput) (*agreementuc.AgreementDTO, error) {
		return nil, apperrors.New(apperrors.KindServer, "db down")
	}
	d, err = h.orc.SignConfirm(ctx, sid, d.Sign.Token)
	assert.Equal(t, apperrors.KindServer, apperrors.KindOf(err))
	assert.Equal(t, StepSignAgreement, d.Step)
	assert.Equal(t, PhaseAwaitingInput, d.Sign.Phase)
	assert.Empty(t, d.Sign.Token)
}

func TestAlreadySignedAgreementIsReadOnly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sid := h.toSignStep(t)
	d := h.draft(t, sid)

	// mark the current user's signature done server-side
	dto := h.byID[d.AgreementID]
	now := time.Now().UTC()
	dto.Signers[0].Name = "John Smith"
	dto.Signers[0].Method = "manual"
	dto.Signers[0].SignedAt = &now

	view, _, err := h.orc.EnterSign(ctx, sid)
	require.NoError(t, err)
	assert.True(t, view.AlreadySigned)
	assert.Equal(t, "John Smith", view.PrefillName)
	assert.True(t, view.PrefillConsent)

	_, err = h.orc.SignIntent(ctx, sid, "John Smith", true)
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, h.agreements.signCalls, "re-entering a signed agreement must never sign again")
}

// ---- step 5: terminal submit ----

func (h *harness) toReviewStep(t *testing.T) string {
	t.Helper()
	sid := h.toSignStep(t)
	d, err := h.orc.SignIntent(context.Background(), sid, "John Smith", true)
	require.NoError(t, err)
	_, err = h.orc.SignConfirm(context.Background(), sid, d.Sign.Token)
	require.NoError(t, err)
	return sid
}

func TestCreateTenancyResetsWizard(t *testing.T) {
	h := newHarness(t)
	sid := h.toReviewStep(t)
	agreementID := h.draft(t, sid).AgreementID

	dto, d, err := h.orc.CreateTenancy(context.Background(), sid)
	require.NoError(t, err)
	require.NotNil(t, dto)
	assert.Equal(t, agreementID, h.tenancies.lastCreate.AgreementID)
	assertInitialDraft(t, d)
	assert.Equal(t, "tenancy created", h.notes.last().Message)
}

func TestCreateTenancyNotFoundResetsDraft(t *testing.T) {
	h := newHarness(t)
	sid := h.toReviewStep(t)
	h.tenancies.createFn = func(ctx context.Context, in tenancyuc.CreateTenancyInput) (*tenancyuc.TenancyDTO, error) {
		return nil, apperrors.New(apperrors.KindNotFound, "agreement "+in.AgreementID)
	}

	_, d, err := h.orc.CreateTenancy(context.Background(), sid)
	assert.True(t, apperrors.IsNotFound(err))
	assertInitialDraft(t, d)
}

func TestCreateTenancyServerErrorStaysOnReview(t *testing.T) {
	h := newHarness(t)
	sid := h.toReviewStep(t)
	h.tenancies.createFn = func(ctx context.Context, in tenancyuc.CreateTenancyInput) (*tenancyuc.TenancyDTO, error) {
		return nil, apperrors.New(apperrors.KindServer, "insert failed")
	}

	_, d, err := h.orc.CreateTenancy(context.Background(), sid)
	assert.Equal(t, apperrors.KindServer, apperrors.KindOf(err))
	assert.Equal(t, StepReviewAndCreate, d.Step)
	assert.NotEmpty(t, d.AgreementID, "failed terminal submit keeps the draft intact")
}

func TestReviewAndBackAreFree(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sid := h.toSignStep(t)

	d, err := h.orc.GoToReview(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, StepReviewAndCreate, d.Step)

	d, err = h.orc.Back(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, StepSignAgreement, d.Step)
}

// ---- reset, races, in-flight ----

func TestResetSessionFromAnyStep(t *testing.T) {
	h := newHarness(t)
	sid := h.toSignStep(t)

	d, err := h.orc.ResetSession(context.Background(), sid)
	require.NoError(t, err)
	assertInitialDraft(t, d)
}

func TestStaleCreateResponseIsDropped(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sid := h.toClausesStep(t)

	inner := h.agreements.createFn
	h.agreements.createFn = func(c context.Context, in agreementuc.CreateAgreementInput) (*agreementuc.AgreementDTO, error) {
		// user hits "Discard and Reset" while the call is in flight
		_, err := h.orc.ResetSession(c, sid)
		require.NoError(t, err)
		return inner(c, in)
	}

	d, err := h.orc.SubmitClauses(ctx, sid, defaultClauses())
	require.NoError(t, err)
	assert.Equal(t, 1, h.agreements.createCalls)
	assert.Empty(t, d.AgreementID, "stale create response must not be applied")
	assert.Equal(t, StepSelectUnitAndTenant, d.Step)
	assertInitialDraft(t, h.draft(t, sid))
}

func TestInFlightBlocksSecondSubmit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sid := h.toClausesStep(t)

	d := h.draft(t, sid)
	d.InFlight = true
	d.InFlightAt = time.Now().UTC()
	require.NoError(t, h.store.Save(ctx, d))

	_, err := h.orc.SubmitClauses(ctx, sid, defaultClauses())
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, h.agreements.createCalls)
}

func TestAbandonedInFlightFlagIsReclaimed(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sid := h.toClausesStep(t)

	// A crash between begin and end leaves the flag set with an old timestamp.
	d := h.draft(t, sid)
	d.InFlight = true
	d.InFlightAt = time.Now().UTC().Add(-2 * inFlightStaleAfter)
	require.NoError(t, h.store.Save(ctx, d))

	d2, err := h.orc.SubmitClauses(ctx, sid, defaultClauses())
	require.NoError(t, err)
	assert.Equal(t, StepSignAgreement, d2.Step)
	assert.False(t, d2.InFlight)
	assert.Equal(t, 1, h.agreements.createCalls)
}

func TestForeignCallerCannotAccessSession(t *testing.T) {
	h := newHarness(t)
	sid := h.toSignStep(t)
	intruder := WithCaller(context.Background(), testOtherID)

	_, err := h.orc.Get(intruder, sid)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = h.orc.SignIntent(intruder, sid, "John Smith", true)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Zero(t, h.agreements.signCalls)

	// The owner is unaffected.
	d, err := h.orc.Get(WithCaller(context.Background(), testOwnerID), sid)
	require.NoError(t, err)
	assert.Equal(t, StepSignAgreement, d.Step)
}

func TestForeignCallerCannotConfirmSignature(t *testing.T) {
	h := newHarness(t)
	sid := h.toSignStep(t)
	owner := WithCaller(context.Background(), testOwnerID)

	d, err := h.orc.SignIntent(owner, sid, "John Smith", true)
	require.NoError(t, err)
	require.NotEmpty(t, d.Sign.Token)

	// A second principal replaying the session id and token must not complete
	// the owner's signature.
	_, err = h.orc.SignConfirm(WithCaller(context.Background(), testOtherID), sid, d.Sign.Token)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Zero(t, h.agreements.signCalls)

	d2, err := h.orc.SignConfirm(owner, sid, d.Sign.Token)
	require.NoError(t, err)
	assert.Equal(t, StepReviewAndCreate, d2.Step)
}

func TestUnknownSessionIsNotFound(t *testing.T) {
	h := newHarness(t)

	_, err := h.orc.Get(context.Background(), "no-such-session")
	assert.True(t, apperrors.IsNotFound(err))
}
