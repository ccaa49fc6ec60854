package controller

import (
	"net/http"

	dto "github.com/vibast-solutions/ms-go-glucose/app/dto/http"

	"github.com/labstack/echo/v4"
)

func Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}
