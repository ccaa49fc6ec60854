package dto

import (
	"time"

	"github.com/vibast-solutions/ms-go-glucose/app/entity"
)

type ReadingSummary struct {
	Count   int
	Min     int
	Max     int
	Average int
}

type ChartPoint struct {
	MeasuredAt time.Time
	Label      string
	FullLabel  string
	Value      int
}

type DayGroup struct {
	DayKey   string
	DayLabel string
	Readings []*entity.Reading
}

type MonthGroup struct {
	MonthKey      string
	MonthLabel    string
	Days          []DayGroup
	TotalReadings int
}

type Dashboard struct {
	Readings []*entity.Reading
	Summary  *ReadingSummary
	Chart    []ChartPoint
	History  []MonthGroup
}
