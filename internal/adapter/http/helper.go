package http

import (
	"errors"
	"net/http"
	"strings"

	listingDomain "mouthpiece-market/internal/domain/listing"
	loanDomain "mouthpiece-market/internal/domain/loan"
	notificationDomain "mouthpiece-market/internal/domain/notification"
	userDomain "mouthpiece-market/internal/domain/user"

	"github.com/labstack/echo/v4"
)

// actorID reads the authenticated user from the Ax-User-Id header. The
// authentication layer itself lives upstream; by the time a request reaches
// this service the header is trusted.
func actorID(c echo.Context) (string, bool) {
	id := strings.TrimSpace(c.Request().Header.Get("Ax-User-Id"))
	return id, reHex32.MatchString(id)
}

// jsonError maps domain errors onto status codes. Validation failures carry
// field details and are handled before usecase calls; everything arriving
// here is a plain message.
func jsonError(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, loanDomain.ErrNotFound),
		errors.Is(err, listingDomain.ErrNotFound),
		errors.Is(err, userDomain.ErrNotFound),
		errors.Is(err, notificationDomain.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, loanDomain.ErrForbidden),
		errors.Is(err, listingDomain.ErrNotOwner):
		code = http.StatusForbidden
	case errors.Is(err, loanDomain.ErrConflict):
		code = http.StatusConflict
	case errors.Is(err, loanDomain.ErrInvalidInput),
		errors.Is(err, loanDomain.ErrInvalidOperation):
		code = http.StatusUnprocessableEntity
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}
