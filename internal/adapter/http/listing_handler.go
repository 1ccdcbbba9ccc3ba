package http

import (
	"net/http"

	"mouthpiece-market/internal/usecase/listing"

	"github.com/labstack/echo/v4"
)

type ListingHandler struct{ uc *listing.Usecase }

func NewListingHandler(uc *listing.Usecase) *ListingHandler { return &ListingHandler{uc: uc} }

// DeleteListing removes a listing and, in the same transaction, every loan
// referencing it.
func (h *ListingHandler) DeleteListing(c echo.Context) error {
	actor, ok := actorID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid Ax-User-Id"})
	}
	if err := h.uc.Delete(c.Request().Context(), c.Param("listing_id"), actor); err != nil {
		return jsonError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
