package entity

import (
	"database/sql"
	"time"
)

const GlucoseUnit = "mg/dL"

type Reading struct {
	ID           string
	GlucoseValue int
	Unit         string
	MeasuredAt   time.Time
	PhotoURL     sql.NullString
	Notes        sql.NullString
	CreatedAt    time.Time
}

type GlucoseStatus string

const (
	GlucoseStatusLow         GlucoseStatus = "low"
	GlucoseStatusNormal      GlucoseStatus = "normal"
	GlucoseStatusPrediabetic GlucoseStatus = "prediabetic"
	GlucoseStatusHigh        GlucoseStatus = "high"
)

// StatusOf classifies a mg/dL value: below 70 low, up to 100 normal, up to 125
// prediabetic, above that high.
func StatusOf(value int) GlucoseStatus {
	switch {
	case value < 70:
		return GlucoseStatusLow
	case value <= 100:
		return GlucoseStatusNormal
	case value <= 125:
		return GlucoseStatusPrediabetic
	default:
		return GlucoseStatusHigh
	}
}

func (s GlucoseStatus) Label() string {
	switch s {
	case GlucoseStatusLow:
		return "Bajo"
	case GlucoseStatusNormal:
		return "Normal"
	case GlucoseStatusPrediabetic:
		return "Pre-diabetes"
	case GlucoseStatusHigh:
		return "Alto"
	}
	return ""
}
