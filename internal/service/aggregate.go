package service

import (
	"fmt"
	"math"

	"github.com/edusight/gradescan-backend/internal/model"
)

// summarize computes the per-student means.
//
// Both means are gated on the attendance sum alone: a withdrawn student
// arrives as attendances=[0], grades=[0], and the grade mean follows the
// attendance guard rather than its own sum. Do not change the coupling to
// a per-series guard.
func summarize(records []model.StudentRecord) ([]model.StudentSummary, error) {
	summaries := make([]model.StudentSummary, 0, len(records))
	for _, rec := range records {
		attSum := sum(rec.Attendances)
		if attSum == 0 {
			summaries = append(summaries, model.StudentSummary{
				Name:           rec.Name,
				MeanAttendance: 0,
				MeanGrade:      0,
			})
			continue
		}
		// attSum != 0 implies a non-empty attendance series, so only the
		// grade series can still be empty here.
		if len(rec.Grades) == 0 {
			return nil, fmt.Errorf("student %q: no grades to average", rec.Name)
		}
		summaries = append(summaries, model.StudentSummary{
			Name:           rec.Name,
			MeanAttendance: attSum / float64(len(rec.Attendances)),
			MeanGrade:      sum(rec.Grades) / float64(len(rec.Grades)),
		})
	}
	return summaries, nil
}

// roundSummaries rounds both means to two decimals before export.
// Records stay untouched; only summaries are rounded.
func roundSummaries(summaries []model.StudentSummary) []model.StudentSummary {
	rounded := make([]model.StudentSummary, len(summaries))
	for i, s := range summaries {
		s.MeanAttendance = roundTwo(s.MeanAttendance)
		s.MeanGrade = roundTwo(s.MeanGrade)
		rounded[i] = s
	}
	return rounded
}

func roundTwo(v float64) float64 {
	return math.Round(v*100) / 100
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
