package handler

import (
	"github.com/labstack/echo/v4"

	"sociogram/internal/usecase"
	"sociogram/pkg/errors"
)

type FileHandler struct {
	storage usecase.FileStorage
}

func NewFileHandler(storage usecase.FileStorage) *FileHandler {
	return &FileHandler{storage: storage}
}

// Get streams a stored object back to an authenticated caller. The key is
// the wildcard remainder of the route.
func (h *FileHandler) Get(c echo.Context) error {
	key := c.Param("*")
	if key == "" {
		return errors.BadRequest("File key is required", nil)
	}

	object, contentType, err := h.storage.Get(c.Request().Context(), key)
	if err != nil {
		return err
	}
	defer object.Close()

	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Stream(200, contentType, object)
}
