package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"truckhub/internal/domain/service"
	"truckhub/internal/usecase"
	"truckhub/pkg/errors"
)

var (
	listingWizardHandler *ListingWizardHandler
	listingHandler       *ListingHandler
	mediaHandler         *MediaHandler
	checkoutHandler      *CheckoutHandler
)

func Setup(
	wizardUseCase *usecase.ListingWizardUseCase,
	listingUseCase *usecase.ListingUseCase,
	checkoutService service.CheckoutService,
	maxUploadBytes int64,
) {
	listingWizardHandler = NewListingWizardHandler(wizardUseCase)
	listingHandler = NewListingHandler(listingUseCase)
	mediaHandler = NewMediaHandler(wizardUseCase, maxUploadBytes)
	checkoutHandler = NewCheckoutHandler(wizardUseCase, checkoutService)
}

func GetListingWizardHandler() *ListingWizardHandler {
	return listingWizardHandler
}

func GetListingHandler() *ListingHandler {
	return listingHandler
}

func GetMediaHandler() *MediaHandler {
	return mediaHandler
}

func GetCheckoutHandler() *CheckoutHandler {
	return checkoutHandler
}

func sellerID(c echo.Context) (string, error) {
	uid, ok := c.Get("uid").(string)
	if !ok || uid == "" {
		return "", errors.Unauthorized("Authentication required", nil)
	}
	return uid, nil
}

func indexParam(c echo.Context, name string) (int, error) {
	index, err := strconv.Atoi(c.Param(name))
	if err != nil || index < 0 {
		return 0, errors.BadRequest("Invalid "+name, err)
	}
	return index, nil
}
