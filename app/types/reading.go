package types

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
)

var ErrGlucoseValueRequired = errors.New("glucose_value is required")

// CreateReadingRequest binds from JSON or from a (multipart) form. glucose_value accepts
// either a JSON number or a string.
type CreateReadingRequest struct {
	GlucoseValue json.Number `json:"glucose_value" form:"glucose_value"`
	MeasuredAt   string      `json:"measured_at" form:"measured_at"`
	Notes        string      `json:"notes" form:"notes"`
}

func NewCreateReadingRequestFromContext(ctx echo.Context) (*CreateReadingRequest, error) {
	var body CreateReadingRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	return &body, nil
}

func (r *CreateReadingRequest) Validate() error {
	if strings.TrimSpace(r.GetGlucoseValue()) == "" {
		return ErrGlucoseValueRequired
	}

	return nil
}

func (r *CreateReadingRequest) GetGlucoseValue() string {
	if r == nil {
		return ""
	}
	return string(r.GlucoseValue)
}

func (r *CreateReadingRequest) GetMeasuredAt() string {
	if r == nil {
		return ""
	}
	return r.MeasuredAt
}

func (r *CreateReadingRequest) GetNotes() string {
	if r == nil {
		return ""
	}
	return r.Notes
}
