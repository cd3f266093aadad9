package report

import (
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/scie-teaching/tutoralloc/pkg/model"
)

// Summary aggregates one solved allocation for logging.
type Summary struct {
	AssignedSlots    int
	RequiredSlots    int
	FilledWorkshops  int
	TotalWorkshops   int
	IfNeededSlots    int
	MeanPerTutor     float64
	StdDevPerTutor   float64
	BusiestTutorLoad int
}

// Summarize computes the per-tutor load distribution and the per-workshop
// fill of an assignment.
func Summarize(input model.ModelInput, assignment model.Assignment) Summary {
	perTutor := lo.Map(assignment, func(row []bool, _ int) float64 {
		return float64(lo.CountBy(row, func(assigned bool) bool { return assigned }))
	})

	summary := Summary{
		RequiredSlots:  lo.SumBy(input.Workshops, func(workshop model.Workshop) int { return workshop.Required }),
		TotalWorkshops: len(input.Workshops),
		MeanPerTutor:   stat.Mean(perTutor, nil),
		StdDevPerTutor: stat.StdDev(perTutor, nil),
	}
	if len(perTutor) > 0 {
		summary.BusiestTutorLoad = int(lo.Max(perTutor))
	}

	for w, workshop := range input.Workshops {
		assigned := 0
		for t := range input.Tutors {
			if !assignment[t][w] {
				continue
			}
			assigned++
			summary.AssignedSlots++
			if input.Availability[t][w] == model.IfNeeded {
				summary.IfNeededSlots++
			}
		}
		if assigned == workshop.Required {
			summary.FilledWorkshops++
		}
	}
	return summary
}

// Log writes the summary on one structured line.
func (summary Summary) Log(log zerolog.Logger) {
	log.Info().
		Int("assignedSlots", summary.AssignedSlots).
		Int("requiredSlots", summary.RequiredSlots).
		Int("filledWorkshops", summary.FilledWorkshops).
		Int("totalWorkshops", summary.TotalWorkshops).
		Int("ifNeededSlots", summary.IfNeededSlots).
		Float64("meanPerTutor", summary.MeanPerTutor).
		Float64("stdDevPerTutor", summary.StdDevPerTutor).
		Int("busiestTutorLoad", summary.BusiestTutorLoad).
		Msg("allocation summary")
}
