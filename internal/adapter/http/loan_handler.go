package http

import (
	"context"
	"net/http"
	"time"

	"mouthpiece-market/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type createLoanReq struct {
	ListingID          string `json:"listing_id"           validate:"required,hex32"`
	StartDate          string `json:"start_date"           validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	ExpectedReturnDate string `json:"expected_return_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Notes              string `json:"notes"`
}

type updateLoanReq struct {
	Status *string `json:"status" validate:"omitempty,oneof=active returned overdue cancelled"`
	Notes  *string `json:"notes"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	actor, ok := actorID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid Ax-User-Id"})
	}
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	start, _ := time.Parse(time.RFC3339, req.StartDate)
	expected, _ := time.Parse(time.RFC3339, req.ExpectedReturnDate)

	dto, err := h.uc.Create(c.Request().Context(), actor, loan.CreateLoanInput{
		ListingID:          req.ListingID,
		StartDate:          start,
		ExpectedReturnDate: expected,
		Notes:              req.Notes,
	})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	actor, ok := actorID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid Ax-User-Id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"), actor)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// The four transition endpoints share one handler shape: resolve actor,
// invoke the fixed-target transition, map errors.

func (h *LoanHandler) ApproveLoan(c echo.Context) error { return h.transition(c, h.uc.Approve) }
func (h *LoanHandler) RefuseLoan(c echo.Context) error  { return h.transition(c, h.uc.Refuse) }
func (h *LoanHandler) CancelLoan(c echo.Context) error  { return h.transition(c, h.uc.Cancel) }
func (h *LoanHandler) ReturnLoan(c echo.Context) error  { return h.transition(c, h.uc.Return) }

func (h *LoanHandler) transition(c echo.Context, op func(ctx context.Context, loanID, actorID string) (*loan.LoanDTO, error)) error {
	actor, ok := actorID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid Ax-User-Id"})
	}
	dto, err := op(c.Request().Context(), c.Param("loan_id"), actor)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) UpdateLoan(c echo.Context) error {
	actor, ok := actorID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid Ax-User-Id"})
	}
	var req updateLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Update(c.Request().Context(), c.Param("loan_id"), actor, loan.UpdateLoanInput{
		Status: req.Status,
		Notes:  req.Notes,
	})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// The list views all have the same shape.

func (h *LoanHandler) Incoming(c echo.Context) error { return h.list(c, h.uc.Incoming) }
func (h *LoanHandler) Outgoing(c echo.Context) error { return h.list(c, h.uc.Outgoing) }
func (h *LoanHandler) Current(c echo.Context) error  { return h.list(c, h.uc.Current) }
func (h *LoanHandler) History(c echo.Context) error  { return h.list(c, h.uc.History) }

func (h *LoanHandler) list(c echo.Context, op func(ctx context.Context, userID string) ([]loan.LoanDTO, error)) error {
	actor, ok := actorID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid Ax-User-Id"})
	}
	dtos, err := op(c.Request().Context(), actor)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *LoanHandler) Stats(c echo.Context) error {
	actor, ok := actorID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid Ax-User-Id"})
	}
	stats, err := h.uc.Stats(c.Request().Context(), actor)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
