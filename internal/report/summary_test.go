package report

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scie-teaching/tutoralloc/pkg/model"
)

func solvedFixture(t *testing.T) (model.ModelInput, model.Assignment) {
	t.Helper()
	input, err := model.ProcessRawInput(model.RawInput{
		Workshops: []string{"Mon 8am-10am", "Wed 2pm-4pm"},
		Tutors:    []string{"Alice (Super)", "Bob", "Cara"},
		Availability: map[string][]string{
			"Alice (Super)": {"Available", "Available"},
			"Bob":           {"IfNeeded", "NotAvailable"},
			"Cara":          {"IfNeeded", "Available"},
		},
		Required: []int{2, 1},
		Attributes: []model.RawTutor{
			{Name: "Alice (Super)", Experience: 1, GenderID: "F", Loads: map[string]int{"SCIE1000": 2}},
			{Name: "Bob", Experience: 1, GenderID: "M", Loads: map[string]int{"SCIE1000": 1}},
			{Name: "Cara", Experience: 0, GenderID: "F", Loads: map[string]int{"SCIE1000": 0}},
		},
		Courses:    []string{"SCIE1000"},
		MainCourse: "SCIE1000",
	})
	if err != nil {
		t.Fatalf("cannot process raw input: %v", err)
	}

	assignment := model.Assignment{
		{true, true},
		{true, false},
		{false, false},
	}
	return input, assignment
}

func TestSummarize(t *testing.T) {
	input, assignment := solvedFixture(t)

	summary := Summarize(input, assignment)

	assert.Equal(t, 3, summary.AssignedSlots)
	assert.Equal(t, 3, summary.RequiredSlots)
	assert.Equal(t, 2, summary.FilledWorkshops)
	assert.Equal(t, 2, summary.TotalWorkshops)
	assert.Equal(t, 1, summary.IfNeededSlots) // Bob covers Monday on an IfNeeded slot
	assert.Equal(t, 2, summary.BusiestTutorLoad)
	assert.InDelta(t, 1.0, summary.MeanPerTutor, 1e-9)
	assert.InDelta(t, 1.0, summary.StdDevPerTutor, 1e-9)
}

func TestSummarizeUnderfilled(t *testing.T) {
	input, assignment := solvedFixture(t)
	assignment[1][0] = false

	summary := Summarize(input, assignment)

	assert.Equal(t, 2, summary.AssignedSlots)
	assert.Equal(t, 1, summary.FilledWorkshops)
	assert.Equal(t, 0, summary.IfNeededSlots)
	assert.False(t, math.IsNaN(summary.StdDevPerTutor))
}
