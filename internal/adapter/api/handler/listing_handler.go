package handler

import (
	"github.com/labstack/echo/v4"

	"truckhub/internal/domain/entity"
	"truckhub/internal/usecase"
	"truckhub/pkg/response"
	"truckhub/pkg/utils"
)

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
	}
}

// GetListing is public; a signed-in seller also sees their own drafts.
func (h *ListingHandler) GetListing(c echo.Context) error {
	viewerID, _ := c.Get("uid").(string)

	listing, err := h.listingUseCase.GetListing(c.Request().Context(), viewerID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *ListingHandler) ListMyListings(c echo.Context) error {
	uid, err := sellerID(c)
	if err != nil {
		return response.Error(c, err)
	}

	pagination := utils.GetPaginationParams(c)

	listings, total, err := h.listingUseCase.ListMyListings(
		c.Request().Context(),
		uid,
		c.QueryParam("status"),
		pagination.PageSize,
		pagination.Offset,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, listings, total, pagination.Page, pagination.PageSize)
}

func (h *ListingHandler) DeleteListing(c echo.Context) error {
	uid, err := sellerID(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.listingUseCase.DeleteListing(c.Request().Context(), uid, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Listing deleted",
	})
}

// Evaluate scores an arbitrary draft without a session, for live previews.
func (h *ListingHandler) Evaluate(c echo.Context) error {
	draft := entity.NewListingDraft()
	if err := c.Bind(draft); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, h.listingUseCase.Evaluate(draft))
}
