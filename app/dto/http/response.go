package http

import (
	"time"

	"github.com/vibast-solutions/ms-go-glucose/app/dto"
	"github.com/vibast-solutions/ms-go-glucose/app/entity"
	"github.com/vibast-solutions/ms-go-glucose/app/localtime"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type AccessStatusResponse struct {
	AccessConfigured bool `json:"access_configured"`
	Authorized       bool `json:"authorized"`
}

type AccessResponse struct {
	Authorized bool   `json:"authorized"`
	Next       string `json:"next,omitempty"`
}

type ReadingResponse struct {
	ID              string  `json:"id"`
	GlucoseValue    int     `json:"glucose_value"`
	Unit            string  `json:"unit"`
	MeasuredAt      string  `json:"measured_at"`
	MeasuredAtLocal string  `json:"measured_at_local"`
	TimeLabel       string  `json:"time_label"`
	Status          string  `json:"status"`
	StatusLabel     string  `json:"status_label"`
	PhotoURL        *string `json:"photo_url"`
	Notes           *string `json:"notes"`
	CreatedAt       string  `json:"created_at"`
}

type ReadingsResponse struct {
	Readings []ReadingResponse `json:"readings"`
}

type CreateReadingResponse struct {
	Reading ReadingResponse `json:"reading"`
}

type DeleteReadingResponse struct {
	Deleted bool `json:"deleted"`
}

type DetectResponse struct {
	GlucoseValue *int `json:"glucose_value"`
}

type SummaryResponse struct {
	Count   int `json:"count"`
	Min     int `json:"min"`
	Max     int `json:"max"`
	Average int `json:"average"`
}

type ChartPointResponse struct {
	MeasuredAt string `json:"measured_at"`
	Label      string `json:"label"`
	FullLabel  string `json:"full_label"`
	Value      int    `json:"value"`
}

type DayGroupResponse struct {
	DayKey   string            `json:"day_key"`
	DayLabel string            `json:"day_label"`
	Readings []ReadingResponse `json:"readings"`
}

type MonthGroupResponse struct {
	MonthKey      string             `json:"month_key"`
	MonthLabel    string             `json:"month_label"`
	TotalReadings int                `json:"total_readings"`
	Days          []DayGroupResponse `json:"days"`
}

type DashboardResponse struct {
	Readings         []ReadingResponse    `json:"readings"`
	Summary          *SummaryResponse     `json:"summary"`
	Chart            []ChartPointResponse `json:"chart"`
	History          []MonthGroupResponse `json:"history"`
	CanEdit          bool                 `json:"can_edit"`
	AccessConfigured bool                 `json:"access_configured"`
	NowLocalInput    string               `json:"now_local_input"`
}

// Instants are rendered as RFC 3339 UTC with millisecond precision.
const instantLayout = "2006-01-02T15:04:05.000Z07:00"

func formatInstant(t time.Time) string {
	return t.UTC().Format(instantLayout)
}

func nullableString(valid bool, value string) *string {
	if !valid {
		return nil
	}
	return &value
}

func NewReadingResponse(r *entity.Reading) ReadingResponse {
	status := entity.StatusOf(r.GlucoseValue)
	return ReadingResponse{
		ID:              r.ID,
		GlucoseValue:    r.GlucoseValue,
		Unit:            r.Unit,
		MeasuredAt:      formatInstant(r.MeasuredAt),
		MeasuredAtLocal: localtime.ToLocalInput(r.MeasuredAt),
		TimeLabel:       localtime.TimeLabel(r.MeasuredAt),
		Status:          string(status),
		StatusLabel:     status.Label(),
		PhotoURL:        nullableString(r.PhotoURL.Valid, r.PhotoURL.String),
		Notes:           nullableString(r.Notes.Valid, r.Notes.String),
		CreatedAt:       formatInstant(r.CreatedAt),
	}
}

func NewReadingResponses(readings []*entity.Reading) []ReadingResponse {
	out := make([]ReadingResponse, 0, len(readings))
	for _, r := range readings {
		out = append(out, NewReadingResponse(r))
	}
	return out
}

func NewDashboardResponse(d *dto.Dashboard) DashboardResponse {
	resp := DashboardResponse{
		Readings: NewReadingResponses(d.Readings),
		Chart:    make([]ChartPointResponse, 0, len(d.Chart)),
		History:  make([]MonthGroupResponse, 0, len(d.History)),
	}

	if d.Summary != nil {
		resp.Summary = &SummaryResponse{
			Count:   d.Summary.Count,
			Min:     d.Summary.Min,
			Max:     d.Summary.Max,
			Average: d.Summary.Average,
		}
	}

	for _, p := range d.Chart {
		resp.Chart = append(resp.Chart, ChartPointResponse{
			MeasuredAt: formatInstant(p.MeasuredAt),
			Label:      p.Label,
			FullLabel:  p.FullLabel,
			Value:      p.Value,
		})
	}

	for _, m := range d.History {
		month := MonthGroupResponse{
			MonthKey:      m.MonthKey,
			MonthLabel:    m.MonthLabel,
			TotalReadings: m.TotalReadings,
			Days:          make([]DayGroupResponse, 0, len(m.Days)),
		}
		for _, day := range m.Days {
			month.Days = append(month.Days, DayGroupResponse{
				DayKey:   day.DayKey,
				DayLabel: day.DayLabel,
				Readings: NewReadingResponses(day.Readings),
			})
		}
		resp.History = append(resp.History, month)
	}

	return resp
}
