package httpserver

import (
	"context"
	"net/http"

	"github.com/SeaCloudHub/rembg/adapters/httpserver/model"
	"github.com/SeaCloudHub/rembg/domain/rembg"
	"github.com/SeaCloudHub/rembg/pkg/app"
	"github.com/SeaCloudHub/rembg/pkg/apperror"
	"github.com/SeaCloudHub/rembg/pkg/dataurl"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const imageField = "image"

// RemoveBackground godoc
// @Summary RemoveBackground
// @Description Removes the background of the uploaded image and returns it as a data URL
// @Tags rembg
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file"
// @Success 200 {object} model.RemoveBackgroundResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 500 {object} model.FailureResponse
// @Router /remove-background [post]
func (s *Server) RemoveBackground(c echo.Context) error {
	var ctx = app.NewEchoContextAdapter(c)

	file, err := app.BindMultipartFile(c, imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return s.error(c, apperror.ErrNoValidFile(err))
		}

		return s.error(c, apperror.ErrRemoveBackground(err))
	}

	res, err := s.removeBackground(ctx, file)
	if err != nil {
		return s.error(c, apperror.ErrRemoveBackground(err))
	}

	return c.JSON(http.StatusOK, res)
}

// removeBackground turns a panicking backend into an ordinary failure.
func (s *Server) removeBackground(ctx context.Context, file *app.FilePart) (res *model.RemoveBackgroundResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, errors.Errorf("background remover panicked: %v", r)
		}
	}()

	out, err := s.RemoverService.RemoveBackground(ctx, &rembg.Image{
		Name:     file.Filename,
		MimeType: app.ContentType(file.ContentType, file.Data),
		Data:     file.Data,
	})
	if err != nil {
		return nil, errors.Wrap(err, "remove background")
	}

	if out == nil {
		return nil, rembg.ErrEmptyResult
	}

	mimeType := out.MimeType
	if mimeType == "" {
		mimeType = app.ContentType("", out.Data)
	}

	return &model.RemoveBackgroundResponse{
		Success: true,
		Message: model.RemoveBackgroundSucceeded,
		Result:  dataurl.Encode(mimeType, out.Data),
	}, nil
}

func (s *Server) RegisterRembgRoutes(router *echo.Group) {
	router.POST("/remove-background", s.RemoveBackground)
}
