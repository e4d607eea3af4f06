package handler

import (
	"github.com/labstack/echo/v4"

	"truckhub/internal/domain/entity"
	"truckhub/internal/usecase"
	"truckhub/pkg/response"
)

type ListingWizardHandler struct {
	wizardUseCase *usecase.ListingWizardUseCase
}

func NewListingWizardHandler(wizardUseCase *usecase.ListingWizardUseCase) *ListingWizardHandler {
	return &ListingWizardHandler{
		wizardUseCase: wizardUseCase,
	}
}

type startSessionRequest struct {
	SessionKey string `json:"session_key" validate:"omitempty,uuid4"`
}

type updateFieldsRequest struct {
	Fields map[string]interface{} `json:"fields" validate:"required,min=1"`
}

type addOnRequest struct {
	Title       string  `json:"title" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description"`
}

type submitRequest struct {
	AsDraft bool `json:"as_draft"`
}

func (h *ListingWizardHandler) StartSession(c echo.Context) error {
	uid, err := sellerID(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req startSessionRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	view, err := h.wizardUseCase.StartSession(c.Request().Context(), uid, req.SessionKey)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, view)
}

func (h *ListingWizardHandler) GetSession(c echo.Context) error {
	uid, err := sellerID(c)
	if err != nil {
		return response.Error(c, err)
	}

	view, err := h.wizardUseCase.GetSession(c.Request().Context(), uid, c.Param("session"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, view)
}

func (h *ListingWizardHandler) UpdateFields(c echo.Context) error {
	uid, err := sellerID(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req updateFieldsRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	view, err := h.wizardUseCase.UpdateFields(c.Request().Context(), uid, c.Param("session"), req.Fields)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, view)
}

func (h *ListingWizardHandler) Advance(c echo.Context) error {
	uid, err := sellerID(c)
	if err != nil {
		return response.Error(c, err)
	}

	view, err := h.wizardUseCase.Advance(c.Request().Context(), uid, c.Param("session"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, view)
}

func (h *ListingWizardHandler) Retreat(c echo.Context) error {
	uid, err := sellerID(c)
	if err != nil {
		return response.Error(c, err)
	}

	view, err := h.wizardUseCase.Retreat(c.Request().Context(), uid, c.Param("session"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, view)
}

func (h *ListingWizardHandler) AddAddOn(c echo.Context) error {
	uid, err := sellerID(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req addOnRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	view, err := h.wizardUseCase.AddAddOn(c.Request().Context(), uid, c.Param("session"), entity.AddOn{
		Title:       req.Title,
		Price:       req.Price,
		Description: req.Description,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, view)
}

func (h *ListingWizardHandler) RemoveAddOn(c echo.Context) error {
	uid, err := sellerID(c)
	if err != nil {
		return response.Error(c, err)
	}

	index, err := indexParam(c, "index")
	if err != nil {
		return response.Error(c, err)
	}

	view, err := h.wizardUseCase.RemoveAddOn(c.Request().Context(), uid, c.Param("session"), index)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, view)
}

func (h *ListingWizardHandler) Submit(c echo.Context) error {
	uid, err := sellerID(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.wizardUseCase.Submit(c.Request().Context(), uid, c.Param("session"), req.AsDraft)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, result)
}

func (h *ListingWizardHandler) Abandon(c echo.Context) error {
	uid, err := sellerID(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.wizardUseCase.Abandon(c.Request().Context(), uid, c.Param("session")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Draft discarded",
	})
}
