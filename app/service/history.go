package service

import (
	"math"
	"sort"

	"github.com/vibast-solutions/ms-go-glucose/app/dto"
	"github.com/vibast-solutions/ms-go-glucose/app/entity"
	"github.com/vibast-solutions/ms-go-glucose/app/localtime"
)

// MinChartReadings is the smallest number of readings that yields a trend line.
const MinChartReadings = 2

// Summarize returns nil for an empty slice. The average is rounded half up.
func Summarize(readings []*entity.Reading) *dto.ReadingSummary {
	if len(readings) == 0 {
		return nil
	}

	summary := &dto.ReadingSummary{
		Count: len(readings),
		Min:   readings[0].GlucoseValue,
		Max:   readings[0].GlucoseValue,
	}
	total := 0
	for _, r := range readings {
		total += r.GlucoseValue
		if r.GlucoseValue < summary.Min {
			summary.Min = r.GlucoseValue
		}
		if r.GlucoseValue > summary.Max {
			summary.Max = r.GlucoseValue
		}
	}
	summary.Average = int(math.Floor(float64(total)/float64(len(readings)) + 0.5))

	return summary
}

// SortNewestFirst returns a copy ordered by measured_at descending. Ties keep their
// input order.
func SortNewestFirst(readings []*entity.Reading) []*entity.Reading {
	sorted := make([]*entity.Reading, len(readings))
	copy(sorted, readings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MeasuredAt.After(sorted[j].MeasuredAt)
	})
	return sorted
}

// GroupByMonthAndDay buckets readings newest first by Guayaquil month and day.
func GroupByMonthAndDay(readings []*entity.Reading) []dto.MonthGroup {
	months := make([]dto.MonthGroup, 0)
	monthIndex := make(map[string]int)
	dayIndex := make(map[string]int)

	for _, r := range SortNewestFirst(readings) {
		monthKey := localtime.MonthKey(r.MeasuredAt)
		dayKey := localtime.DayKey(r.MeasuredAt)

		mi, ok := monthIndex[monthKey]
		if !ok {
			months = append(months, dto.MonthGroup{
				MonthKey:   monthKey,
				MonthLabel: localtime.MonthLabel(r.MeasuredAt),
			})
			mi = len(months) - 1
			monthIndex[monthKey] = mi
		}
		month := &months[mi]

		di, ok := dayIndex[dayKey]
		if !ok {
			month.Days = append(month.Days, dto.DayGroup{
				DayKey:   dayKey,
				DayLabel: localtime.DayLabel(r.MeasuredAt),
			})
			di = len(month.Days) - 1
			dayIndex[dayKey] = di
		}

		month.Days[di].Readings = append(month.Days[di].Readings, r)
		month.TotalReadings++
	}

	return months
}

// ChartPoints returns readings oldest first with axis and tooltip labels, or nil when
// there are fewer than MinChartReadings.
func ChartPoints(readings []*entity.Reading) []dto.ChartPoint {
	if len(readings) < MinChartReadings {
		return nil
	}

	sorted := SortNewestFirst(readings)
	points := make([]dto.ChartPoint, 0, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		r := sorted[i]
		points = append(points, dto.ChartPoint{
			MeasuredAt: r.MeasuredAt,
			Label:      localtime.ChartLabel(r.MeasuredAt),
			FullLabel:  localtime.FullLabel(r.MeasuredAt),
			Value:      r.GlucoseValue,
		})
	}
	return points
}
