package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/samber/lo"

	"github.com/scie-teaching/tutoralloc/pkg/model"
)

// ScheduleRow is one workshop line of the written roster.
type ScheduleRow struct {
	Workshop string `csv:"Workshop"`
	Day      string `csv:"Day"`
	Time     string `csv:"Time"`
	Course   string `csv:"Course"`
	Required int    `csv:"Required"`
	Tutors   string `csv:"Tutors"`
}

// WriteSchedule writes one row per workshop with its assigned tutors.
func WriteSchedule(path string, input model.ModelInput, assignment model.Assignment) error {
	rows := lo.Map(input.Workshops, func(workshop model.Workshop, w int) *ScheduleRow {
		assigned := lo.FilterMap(input.Tutors, func(tutor model.Tutor, t int) (string, bool) {
			return tutor.Name, assignment[t][w]
		})
		return &ScheduleRow{
			Workshop: workshop.Name,
			Day:      workshop.Day,
			Time:     fmt.Sprintf("%v-%v", formatClock(workshop.Start), formatClock(workshop.End)),
			Course:   workshop.Category(),
			Required: workshop.Required,
			Tutors:   strings.Join(assigned, "; "),
		}
	})

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %v: %w", path, err)
	}
	defer file.Close()

	return gocsv.MarshalFile(&rows, file)
}

// WriteGrid writes the tutor x workshop matrix with an X per assignment,
// mirroring the shape of the availability sheet the dataset came from.
func WriteGrid(path string, input model.ModelInput, assignment model.Assignment) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %v: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := append([]string{"Tutor"}, lo.Map(input.Workshops, func(workshop model.Workshop, _ int) string {
		return workshop.Name
	})...)
	if err := writer.Write(header); err != nil {
		return err
	}

	for t, tutor := range input.Tutors {
		record := make([]string, 0, len(input.Workshops)+1)
		record = append(record, tutor.Name)
		for w := range input.Workshops {
			mark := ""
			if assignment[t][w] {
				mark = "X"
			}
			record = append(record, mark)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteLoads writes the solved per-tutor per-course workshop counts, the
// shape of the Allocations sheet the dataset came from.
func WriteLoads(path string, input model.ModelInput, assignment model.Assignment) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %v: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := append([]string{"Tutor"}, input.Courses...)
	header = append(header, "Total")
	if err := writer.Write(header); err != nil {
		return err
	}

	for t, tutor := range input.Tutors {
		record := make([]string, 0, len(input.Courses)+2)
		record = append(record, tutor.Name)
		total := 0
		for _, course := range input.Courses {
			assigned := 0
			for w, workshop := range input.Workshops {
				if workshop.Course == course && assignment[t][w] {
					assigned++
				}
			}
			total += assigned
			record = append(record, fmt.Sprint(assigned))
		}
		record = append(record, fmt.Sprint(total))
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatClock(clock int) string {
	hour := clock / 100
	suffix := "am"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		suffix = "pm"
	case hour > 12:
		hour -= 12
		suffix = "pm"
	}
	return fmt.Sprintf("%v%v", hour, suffix)
}
