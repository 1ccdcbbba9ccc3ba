package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	listingDomain "mouthpiece-market/internal/domain/listing"
	domain "mouthpiece-market/internal/domain/loan"
	"mouthpiece-market/internal/domain/uow"
	"mouthpiece-market/internal/testutil/listingmock"
	"mouthpiece-market/internal/testutil/loanmock"
	"mouthpiece-market/internal/testutil/notifymock"
	"mouthpiece-market/internal/testutil/uowmock"
	"mouthpiece-market/internal/testutil/usermock"
	uc "mouthpiece-market/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	lenderID   = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	borrowerID = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	listingID  = "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"
	loanID     = "dddddddddddddddddddddddddddddddd"
)

// -------- helpers --------

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

type handlerFixture struct {
	loans    *loanmock.Repo
	listings *listingmock.Repo
	h        *LoanHandler
}

func newHandlerFixture() *handlerFixture {
	f := &handlerFixture{loans: &loanmock.Repo{}, listings: &listingmock.Repo{}}
	usecase := uc.NewUsecase(
		f.loans, f.listings, &usermock.Repo{},
		uowmock.Passthrough(uow.Repos{Loans: f.loans, Listings: f.listings}),
		&notifymock.Dispatcher{},
	)
	f.h = NewLoanHandler(usecase)
	return f
}

func (f *handlerFixture) withLoanableListing() *handlerFixture {
	f.listings.GetByListingIDFn = func(ctx context.Context, id string) (*listingDomain.Listing, error) {
		if id != listingID {
			return nil, listingDomain.ErrNotFound
		}
		return &listingDomain.Listing{
			ListingID:  listingID,
			OwnerID:    lenderID,
			Title:      "Denis Wick 4AL",
			Status:     listingDomain.StatusActive,
			OpenToLoan: true,
		}, nil
	}
	return f
}

func (f *handlerFixture) withLoan(status domain.Status) *handlerFixture {
	key := listingID
	l := &domain.Loan{
		LoanID:             loanID,
		ListingID:          listingID,
		LenderID:           lenderID,
		BorrowerID:         borrowerID,
		Status:             status,
		ActiveListingID:    &key,
		StartDate:          time.Now().UTC().Add(-24 * time.Hour),
		ExpectedReturnDate: time.Now().UTC().Add(6 * 24 * time.Hour),
	}
	get := func(ctx context.Context, id string) (*domain.Loan, error) {
		if id != loanID {
			return nil, gorm.ErrRecordNotFound
		}
		return l, nil
	}
	f.loans.GetByLoanIDFn = get
	f.loans.GetByLoanIDForUpdateFn = get
	return f
}

func newCtx(e *echo.Echo, method, path string, body io.Reader, actor string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if actor != "" {
		req.Header.Set("Ax-User-Id", actor)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func createBody() map[string]any {
	now := time.Now().UTC()
	return map[string]any{
		"listing_id":           listingID,
		"start_date":           now.Add(24 * time.Hour).Format(time.RFC3339),
		"expected_return_date": now.Add(8 * 24 * time.Hour).Format(time.RFC3339),
		"notes":                "weekend rehearsal",
	}
}

// -------- create --------

func TestCreateLoan_Success(t *testing.T) {
	e := newEchoWithValidator()
	f := newHandlerFixture().withLoanableListing()

	c, rec := newCtx(e, stdhttp.MethodPost, "/loans", mustJSON(createBody()), borrowerID)
	if err := f.h.CreateLoan(c); err != nil {
		t.Fatalf("CreateLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", rec.Code, rec.Body.String())
	}
	var got uc.LoanDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.Status != string(domain.StatusPending) {
		t.Fatalf("status = %s, want pending", got.Status)
	}
	if got.Listing == nil || got.Listing.Title != "Denis Wick 4AL" {
		t.Fatalf("listing summary missing: %+v", got.Listing)
	}
}

func TestCreateLoan_MissingActorHeader(t *testing.T) {
	e := newEchoWithValidator()
	f := newHandlerFixture()

	c, rec := newCtx(e, stdhttp.MethodPost, "/loans", mustJSON(createBody()), "")
	if err := f.h.CreateLoan(c); err != nil {
		t.Fatalf("CreateLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateLoan_BindError(t *testing.T) {
	e := newEchoWithValidator()
	f := newHandlerFixture()

	c, rec := newCtx(e, stdhttp.MethodPost, "/loans", strings.NewReader(`{"listing_id":`), borrowerID)
	if err := f.h.CreateLoan(c); err != nil {
		t.Fatalf("CreateLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateLoan_ValidationDetails(t *testing.T) {
	e := newEchoWithValidator()
	f := newHandlerFixture()

	body := createBody()
	body["listing_id"] = "NOT-HEX"
	body["start_date"] = "tomorrow"

	c, rec := newCtx(e, stdhttp.MethodPost, "/loans", mustJSON(body), borrowerID)
	if err := f.h.CreateLoan(c); err != nil {
		t.Fatalf("CreateLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if !containsFieldMsg(er.Details, "ListingID", "hex") {
		t.Fatalf("missing listing_id detail: %+v", er.Details)
	}
	if !containsFieldMsg(er.Details, "StartDate", "format") {
		t.Fatalf("missing start_date detail: %+v", er.Details)
	}
}

func TestCreateLoan_SelfLoanForbidden(t *testing.T) {
	e := newEchoWithValidator()
	f := newHandlerFixture().withLoanableListing()

	c, rec := newCtx(e, stdhttp.MethodPost, "/loans", mustJSON(createBody()), lenderID)
	if err := f.h.CreateLoan(c); err != nil {
		t.Fatalf("CreateLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestCreateLoan_OpenLoanConflict(t *testing.T) {
	e := newEchoWithValidator()
	f := newHandlerFixture().withLoanableListing().withLoan(domain.StatusPending)
	f.loans.GetOpenByListingIDFn = func(ctx context.Context, id string) (*domain.Loan, error) {
		return &domain.Loan{LoanID: loanID, ListingID: id, Status: domain.StatusPending}, nil
	}

	body := createBody()
	c, rec := newCtx(e, stdhttp.MethodPost, "/loans", mustJSON(body), borrowerID)
	_ = f.h.CreateLoan(c)
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

// -------- transitions --------

func TestApproveLoan_Success(t *testing.T) {
	e := newEchoWithValidator()
	f := newHandlerFixture().withLoanableListing().withLoan(domain.StatusPending)

	c, rec := newCtx(e, stdhttp.MethodPost, "/loans/"+loanID+"/approve", nil, lenderID)
	c.SetParamNames("loan_id")
	c.SetParamValues(loanID)
	if err := f.h.ApproveLoan(c); err != nil {
		t.Fatalf("ApproveLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	var got uc.LoanDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.Status != string(domain.StatusActive) {
		t.Fatalf("status = %s, want active", got.Status)
	}
}

func TestApproveLoan_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		status domain.Status
		actor  string
		found  bool
		want   int
	}{
		{"not found", domain.StatusPending, lenderID, false, stdhttp.StatusNotFound},
		{"wrong actor", domain.StatusPending, borrowerID, true, stdhttp.StatusForbidden},
		{"not pending", domain.StatusReturned, lenderID, true, stdhttp.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEchoWithValidator()
			f := newHandlerFixture().withLoanableListing()
			if tc.found {
				f.withLoan(tc.status)
			}
			c, rec := newCtx(e, stdhttp.MethodPost, "/loans/"+loanID+"/approve", nil, tc.actor)
			c.SetParamNames("loan_id")
			c.SetParamValues(loanID)
			_ = f.h.ApproveLoan(c)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestReturnLoan_Success(t *testing.T) {
	e := newEchoWithValidator()
	f := newHandlerFixture().withLoanableListing().withLoan(domain.StatusActive)

	c, rec := newCtx(e, stdhttp.MethodPost, "/loans/"+loanID+"/return", nil, borrowerID)
	c.SetParamNames("loan_id")
	c.SetParamValues(loanID)
	if err := f.h.ReturnLoan(c); err != nil {
		t.Fatalf("ReturnLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	var got uc.LoanDTO
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Status != string(domain.StatusReturned) || got.ActualReturnDate == nil {
		t.Fatalf("unexpected dto: %+v", got)
	}
}

// -------- generic update --------

func TestUpdateLoan_BadStatusRejectedByValidator(t *testing.T) {
	e := newEchoWithValidator()
	f := newHandlerFixture().withLoan(domain.StatusActive)

	c, rec := newCtx(e, stdhttp.MethodPatch, "/loans/"+loanID,
		mustJSON(map[string]any{"status": "refused"}), lenderID)
	c.SetParamNames("loan_id")
	c.SetParamValues(loanID)
	_ = f.h.UpdateLoan(c)
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestUpdateLoan_NotesOnly(t *testing.T) {
	e := newEchoWithValidator()
	f := newHandlerFixture().withLoan(domain.StatusActive)

	c, rec := newCtx(e, stdhttp.MethodPatch, "/loans/"+loanID,
		mustJSON(map[string]any{"notes": "scratch on the rim"}), borrowerID)
	c.SetParamNames("loan_id")
	c.SetParamValues(loanID)
	if err := f.h.UpdateLoan(c); err != nil {
		t.Fatalf("UpdateLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	var got uc.LoanDTO
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Notes != "scratch on the rim" {
		t.Fatalf("notes = %q", got.Notes)
	}
}

// -------- reads --------

func TestIncoming_ListShape(t *testing.T) {
	e := newEchoWithValidator()
	f := newHandlerFixture().withLoanableListing()
	key := listingID
	f.loans.ListIncomingFn = func(ctx context.Context, id string) ([]domain.Loan, error) {
		return []domain.Loan{{
			LoanID: loanID, ListingID: listingID, LenderID: lenderID, BorrowerID: borrowerID,
			Status: domain.StatusPending, ActiveListingID: &key,
		}}, nil
	}

	c, rec := newCtx(e, stdhttp.MethodGet, "/loans/incoming", nil, lenderID)
	if err := f.h.Incoming(c); err != nil {
		t.Fatalf("Incoming error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got []uc.LoanDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(got) != 1 || got[0].LoanID != loanID {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestStats_OK(t *testing.T) {
	e := newEchoWithValidator()
	f := newHandlerFixture()
	f.loans.StatsByUserFn = func(ctx context.Context, id string, now time.Time) (*domain.Stats, error) {
		return &domain.Stats{Given: 2, ActiveGiven: 1, OverdueReceived: 1}, nil
	}

	c, rec := newCtx(e, stdhttp.MethodGet, "/loans/stats", nil, lenderID)
	if err := f.h.Stats(c); err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got domain.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.Given != 2 || got.OverdueReceived != 1 {
		t.Fatalf("unexpected stats: %+v", got)
	}
}

func TestGetLoan_StrangerGets403(t *testing.T) {
	e := newEchoWithValidator()
	f := newHandlerFixture().withLoan(domain.StatusActive)

	c, rec := newCtx(e, stdhttp.MethodGet, "/loans/"+loanID, nil, "cccccccccccccccccccccccccccccccc")
	c.SetParamNames("loan_id")
	c.SetParamValues(loanID)
	_ = f.h.GetLoan(c)
	if rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}
