package handler

import (
	"fmt"
	"io"

	"github.com/labstack/echo/v4"

	"truckhub/internal/usecase"
	"truckhub/pkg/errors"
	"truckhub/pkg/logger"
	"truckhub/pkg/response"
)

// MediaHandler serves the photo endpoints of a wizard session.
type MediaHandler struct {
	wizardUseCase *usecase.ListingWizardUseCase
	maxFileSize   int64
}

func NewMediaHandler(wizardUseCase *usecase.ListingWizardUseCase, maxFileSize int64) *MediaHandler {
	if maxFileSize <= 0 {
		maxFileSize = 10 * 1024 * 1024
	}
	return &MediaHandler{
		wizardUseCase: wizardUseCase,
		maxFileSize:   maxFileSize,
	}
}

func (h *MediaHandler) UploadMedia(c echo.Context) error {
	uid, err := sellerID(c)
	if err != nil {
		return response.Error(c, err)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	logger.Debug("Received photo %s (%d bytes) for session %s", file.Filename, file.Size, c.Param("session"))

	if file.Size > h.maxFileSize {
		return response.Error(c, errors.BadRequest(fmt.Sprintf("File size exceeds maximum allowed (%dMB)", h.maxFileSize/(1024*1024)), nil))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, h.maxFileSize+1))
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read file", err))
	}

	view, err := h.wizardUseCase.UploadMedia(c.Request().Context(), uid, c.Param("session"), data)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, view)
}

func (h *MediaHandler) RemoveMedia(c echo.Context) error {
	uid, err := sellerID(c)
	if err != nil {
		return response.Error(c, err)
	}

	index, err := indexParam(c, "index")
	if err != nil {
		return response.Error(c, err)
	}

	view, err := h.wizardUseCase.RemoveMedia(c.Request().Context(), uid, c.Param("session"), index)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, view)
}

// MakePrimary moves a photo to the front; the first photo is the listing's
// primary image.
func (h *MediaHandler) MakePrimary(c echo.Context) error {
	uid, err := sellerID(c)
	if err != nil {
		return response.Error(c, err)
	}

	index, err := indexParam(c, "index")
	if err != nil {
		return response.Error(c, err)
	}

	view, err := h.wizardUseCase.MoveMediaToFront(c.Request().Context(), uid, c.Param("session"), index)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, view)
}
