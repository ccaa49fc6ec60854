package controller

import (
	"errors"
	"io"
	"net/http"
	"strings"

	dto "github.com/vibast-solutions/ms-go-glucose/app/dto/http"
	"github.com/vibast-solutions/ms-go-glucose/app/localtime"
	"github.com/vibast-solutions/ms-go-glucose/app/middleware"
	"github.com/vibast-solutions/ms-go-glucose/app/service"
	"github.com/vibast-solutions/ms-go-glucose/app/types"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const photoFormField = "photo"

var errPhotoRequired = errors.New("photo is required")

type ReadingController struct {
	readings      *service.ReadingService
	verifier      *service.AccessVerifier
	maxPhotoBytes int64
}

func NewReadingController(readings *service.ReadingService, verifier *service.AccessVerifier, maxPhotoBytes int64) *ReadingController {
	return &ReadingController{
		readings:      readings,
		verifier:      verifier,
		maxPhotoBytes: maxPhotoBytes,
	}
}

func (c *ReadingController) List(ctx echo.Context) error {
	readings, err := c.readings.List(ctx.Request().Context(), service.ParseLimit(ctx.QueryParam("limit")))
	if err != nil {
		logrus.WithError(err).Error("Failed to list readings")
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Error al cargar las lecturas"})
	}

	return ctx.JSON(http.StatusOK, dto.ReadingsResponse{Readings: dto.NewReadingResponses(readings)})
}

func (c *ReadingController) Dashboard(ctx echo.Context) error {
	dashboard, err := c.readings.Dashboard(ctx.Request().Context(), service.ParseLimit(ctx.QueryParam("limit")))
	if err != nil {
		logrus.WithError(err).Error("Failed to build dashboard")
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Error al cargar las lecturas"})
	}

	resp := dto.NewDashboardResponse(dashboard)
	resp.CanEdit = middleware.CanEdit(ctx)
	resp.AccessConfigured = c.verifier.HasSecretConfigured()
	resp.NowLocalInput = localtime.NowLocalInput()

	return ctx.JSON(http.StatusOK, resp)
}

func (c *ReadingController) Create(ctx echo.Context) error {
	req, err := types.NewCreateReadingRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind create reading request")
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Solicitud invalida"})
	}
	if err = req.Validate(); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Valor de glucosa invalido"})
	}

	photo, err := c.readPhoto(ctx)
	if err != nil && !errors.Is(err, errPhotoRequired) {
		return c.photoError(ctx, err)
	}

	reading, err := c.readings.Create(ctx.Request().Context(), service.CreateReadingInput{
		GlucoseValue: req.GetGlucoseValue(),
		MeasuredAt:   req.GetMeasuredAt(),
		Notes:        req.GetNotes(),
		Photo:        photo,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidGlucoseValue):
			return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Valor de glucosa invalido"})
		case errors.Is(err, service.ErrInvalidMeasuredAt):
			return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Fecha de medicion invalida"})
		case errors.Is(err, service.ErrPhotoTooLarge):
			return ctx.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{Error: "La foto es demasiado grande"})
		case errors.Is(err, service.ErrPhotoUpload):
			logrus.WithError(err).Error("Failed to upload reading photo")
			return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Error al subir la foto"})
		}
		logrus.WithError(err).Error("Failed to save reading")
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Error al guardar la lectura"})
	}

	return ctx.JSON(http.StatusCreated, dto.CreateReadingResponse{Reading: dto.NewReadingResponse(reading)})
}

func (c *ReadingController) Delete(ctx echo.Context) error {
	err := c.readings.Delete(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrReadingNotFound) {
			return ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Lectura no encontrada"})
		}
		logrus.WithError(err).WithField("reading_id", ctx.Param("id")).Error("Failed to delete reading")
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Error al eliminar la lectura"})
	}

	return ctx.JSON(http.StatusOK, dto.DeleteReadingResponse{Deleted: true})
}

// Detect suggests a glucose value for a meter photo. A null value means no suggestion.
func (c *ReadingController) Detect(ctx echo.Context) error {
	photo, err := c.readPhoto(ctx)
	if err != nil {
		return c.photoError(ctx, err)
	}

	value := c.readings.DetectGlucoseValue(ctx.Request().Context(), photo.Data, photo.ContentType)
	return ctx.JSON(http.StatusOK, dto.DetectResponse{GlucoseValue: value})
}

// readPhoto loads the optional multipart photo field. It returns errPhotoRequired when the
// request carries no photo.
func (c *ReadingController) readPhoto(ctx echo.Context) (*service.PhotoUpload, error) {
	if !strings.HasPrefix(ctx.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, errPhotoRequired
	}

	header, err := ctx.FormFile(photoFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, errPhotoRequired
		}
		return nil, err
	}
	if c.maxPhotoBytes > 0 && header.Size > c.maxPhotoBytes {
		return nil, service.ErrPhotoTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := io.Reader(file)
	if c.maxPhotoBytes > 0 {
		reader = io.LimitReader(file, c.maxPhotoBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if c.maxPhotoBytes > 0 && int64(len(data)) > c.maxPhotoBytes {
		return nil, service.ErrPhotoTooLarge
	}
	if len(data) == 0 {
		return nil, errPhotoRequired
	}

	contentType := header.Header.Get(echo.HeaderContentType)
	if contentType == "" || contentType == echo.MIMEOctetStream {
		contentType = http.DetectContentType(data)
	}

	return &service.PhotoUpload{
		FileName:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

func (c *ReadingController) photoError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errPhotoRequired):
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Foto requerida"})
	case errors.Is(err, service.ErrPhotoTooLarge):
		return ctx.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{Error: "La foto es demasiado grande"})
	}
	logrus.WithError(err).Debug("Failed to read uploaded photo")
	return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Foto invalida"})
}
