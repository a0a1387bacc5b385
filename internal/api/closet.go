package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/weathercloset/weathercloset/internal/closet"
	"github.com/weathercloset/weathercloset/internal/logger"
)

// UploadItem stores a multipart upload (fields file and description) as a new item.
func (s *Server) UploadItem(c echo.Context) error {
	user := currentUser(c)

	description := strings.TrimSpace(c.FormValue("description"))
	if description == "" {
		return s.validationFailed(c, "description is required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return s.validationFailed(c, "file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return s.HandleErrorWithStatus(c, err, http.StatusInternalServerError)
	}
	defer func() {
		if err := file.Close(); err != nil {
			GetLogger().Debug("failed to close upload", logger.Error(err))
		}
	}()

	item, err := s.closet.Upload(c.Request().Context(), user.ID, closet.UploadInput{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
		Body:        file,
		Description: description,
	})
	if err != nil {
		return s.HandleError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// ListItems returns the caller's closet.
func (s *Server) ListItems(c echo.Context) error {
	items, err := s.closet.List(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return s.HandleError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// DeleteItem removes one of the caller's items.
func (s *Server) DeleteItem(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return s.validationFailed(c, "invalid item id %q", c.Param("id"))
	}

	if err := s.closet.Delete(c.Request().Context(), currentUser(c).ID, uint(id)); err != nil {
		return s.HandleError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Recommend returns items suited to the current weather in :city.
func (s *Server) Recommend(c echo.Context) error {
	city := strings.TrimSpace(c.Param("city"))
	if city == "" {
		return s.validationFailed(c, "city is required")
	}

	rec, err := s.closet.Recommend(c.Request().Context(), currentUser(c).ID, city)
	if err != nil {
		return s.HandleError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}
