package model

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

type AvailabilityTier int

const (
	NotAvailable AvailabilityTier = iota
	IfNeeded
	Available
)

var tierNames = map[string]AvailabilityTier{
	"Available":    Available,
	"IfNeeded":     IfNeeded,
	"NotAvailable": NotAvailable,
	"":             NotAvailable, // blank spreadsheet cells mean not available
}

type Tutor struct {
	Name        string
	Supertutor  bool
	Experienced bool
	GenderID    string
	Loads       map[string]int // workshops this tutor is contracted for, per course
}

// Workshop is one scheduled session, identified by a "Day Start-End Suffix"
// label. Start and End are 24-hour clock times, e.g. 1400.
type Workshop struct {
	Name     string
	Day      string // canonical three-letter key, e.g. "mon"
	Start    int
	End      int
	Room     string
	Course   string
	External bool
	Required int
}

// Category is the supervision-policy key of the workshop.
func (w Workshop) Category() string {
	if w.External {
		return "external"
	}
	return w.Course
}

// RawTutor is one row of the Allocations sheet.
type RawTutor struct {
	Name       string
	Experience int
	GenderID   string
	Loads      map[string]int
}

// RawInput carries the three logical sheets the way the loader hands them
// over, before any validation or normalization.
type RawInput struct {
	Workshops    []string            // availability grid column labels
	Tutors       []string            // availability grid row order
	Availability map[string][]string // tutor name -> tier per workshop column
	Required     []int               // required tutor count per workshop column
	Attributes   []RawTutor
	Conflicts    [][2]string
	Courses      []string // allocation column order
	MainCourse   string   // course of workshops whose label carries no course suffix
}

// ModelInput is the normalized, validated dataset all model construction
// works from. It is held immutably once built.
type ModelInput struct {
	Tutors       []Tutor
	Workshops    []Workshop
	Availability [][]AvailabilityTier // [tutor][workshop]
	Conflicts    [][2]int             // tutor index pairs, i < j
	Courses      []string
	MainCourse   string
	FirstDay     string // earliest teaching day of the week, canonical key
}

// Eligible reports whether a decision variable exists for the pair, i.e. the
// tutor is not marked NotAvailable for the workshop.
func (input ModelInput) Eligible(tutor, workshop int) bool {
	return input.Availability[tutor][workshop] != NotAvailable
}

// Overlaps reports whether two workshops occupy intersecting time windows on
// the same day.
func (input ModelInput) Overlaps(w1, w2 int) bool {
	a, b := input.Workshops[w1], input.Workshops[w2]
	return a.Day == b.Day && a.Start < b.End && b.Start < a.End
}

func InputFromJSON(file string) (ModelInput, error) {
	bytes, _ := os.ReadFile(file)
	var inputJSON map[string]any
	err := json.Unmarshal(bytes, &inputJSON)
	if err != nil {
		return ModelInput{}, err
	}

	var rawInput RawInput
	mapstructure.Decode(inputJSON, &rawInput)
	return ProcessRawInput(rawInput)
}

func ProcessRawInput(rawInput RawInput) (ModelInput, error) {
	input := ModelInput{
		Courses:    rawInput.Courses,
		MainCourse: rawInput.MainCourse,
	}
	if input.MainCourse == "" && len(rawInput.Courses) > 0 {
		input.MainCourse = rawInput.Courses[0]
	}

	//** Manage workshops
	if len(rawInput.Required) != len(rawInput.Workshops) {
		return ModelInput{}, DataError{Table: "availability", Detail: fmt.Sprintf("%v workshop columns but %v required-count entries", len(rawInput.Workshops), len(rawInput.Required))}
	}
	workshopNames := make(map[string]bool)
	for w, label := range rawInput.Workshops {
		workshop, err := parseWorkshopLabel(label, input.MainCourse)
		if err != nil {
			return ModelInput{}, err
		}
		if workshopNames[workshop.Name] {
			return ModelInput{}, DataError{Table: "availability", Detail: fmt.Sprintf("duplicate workshop %q", workshop.Name)}
		}
		workshopNames[workshop.Name] = true

		if rawInput.Required[w] < 0 {
			return ModelInput{}, DataError{Table: "availability", Detail: fmt.Sprintf("workshop %q has a negative required tutor count", workshop.Name)}
		}
		workshop.Required = rawInput.Required[w]

		if workshop.Course != "" && len(input.Courses) > 0 && !lo.Contains(input.Courses, workshop.Course) {
			return ModelInput{}, DataError{Table: "availability", Detail: fmt.Sprintf("workshop %q references course %q which has no allocation column", workshop.Name, workshop.Course)}
		}
		input.Workshops = append(input.Workshops, workshop)
	}

	//** Manage tutors
	// The availability grid defines the tutor order; the Allocations sheet
	// must cover exactly the same set of names.
	attributes := make(map[string]RawTutor, len(rawInput.Attributes))
	for _, attribute := range rawInput.Attributes {
		if _, ok := attributes[attribute.Name]; ok {
			return ModelInput{}, DataError{Table: "allocations", Detail: fmt.Sprintf("duplicate tutor %q", attribute.Name)}
		}
		attributes[attribute.Name] = attribute
	}

	tutorIndex := make(map[string]int, len(rawInput.Tutors))
	for _, name := range rawInput.Tutors {
		if _, ok := tutorIndex[name]; ok {
			return ModelInput{}, DataError{Table: "availability", Detail: fmt.Sprintf("duplicate tutor %q", name)}
		}
		attribute, ok := attributes[name]
		if !ok {
			return ModelInput{}, DataError{Table: "allocations", Detail: fmt.Sprintf("tutor %q has no allocations row", name)}
		}

		row, ok := rawInput.Availability[name]
		if !ok {
			return ModelInput{}, DataError{Table: "availability", Detail: fmt.Sprintf("tutor %q has no availability row", name)}
		}
		if len(row) != len(input.Workshops) {
			return ModelInput{}, DataError{Table: "availability", Detail: fmt.Sprintf("tutor %q has %v availability entries, expected %v", name, len(row), len(input.Workshops))}
		}

		tiers := make([]AvailabilityTier, len(row))
		for w, entry := range row {
			tier, ok := tierNames[strings.TrimSpace(entry)]
			if !ok {
				return ModelInput{}, DataError{Table: "availability", Detail: fmt.Sprintf("tutor %q has invalid entry %q for workshop %q", name, entry, input.Workshops[w].Name)}
			}
			tiers[w] = tier
		}

		tutorIndex[name] = len(input.Tutors)
		input.Tutors = append(input.Tutors, Tutor{
			Name:        name,
			Supertutor:  strings.HasSuffix(strings.ToLower(name), "(super)"),
			Experienced: attribute.Experience == 1,
			GenderID:    attribute.GenderID,
			Loads:       attribute.Loads,
		})
		input.Availability = append(input.Availability, tiers)
	}

	// An allocations row without an availability row is ambiguous; it is
	// rejected rather than silently treated as fully unavailable.
	for name := range attributes {
		if _, ok := tutorIndex[name]; !ok {
			return ModelInput{}, DataError{Table: "availability", Detail: fmt.Sprintf("tutor %q has no availability row", name)}
		}
	}

	//** Manage conflicts
	for _, pair := range rawInput.Conflicts {
		i, ok1 := tutorIndex[pair[0]]
		j, ok2 := tutorIndex[pair[1]]
		if !ok1 || !ok2 {
			return ModelInput{}, DataError{Table: "conflicts", Detail: fmt.Sprintf("conflict pair %q / %q references an unknown tutor", pair[0], pair[1])}
		}
		if i == j {
			return ModelInput{}, DataError{Table: "conflicts", Detail: fmt.Sprintf("tutor %q conflicts with themselves", pair[0])}
		}
		if i > j {
			i, j = j, i
		}
		input.Conflicts = append(input.Conflicts, [2]int{i, j})
	}

	//** Cross-sheet consistency
	// The tutors needed to staff all workshops must equal the workshops
	// contracted to all tutors, otherwise coverage and load equality can
	// never both hold.
	totalRequired := lo.SumBy(input.Workshops, func(workshop Workshop) int { return workshop.Required })
	totalLoads := lo.SumBy(input.Tutors, func(tutor Tutor) int {
		return lo.Sum(lo.Values(tutor.Loads))
	})
	if totalRequired != totalLoads {
		return ModelInput{}, DataError{Table: "allocations", Detail: fmt.Sprintf("workshops require %v tutor slots but tutors are contracted for %v", totalRequired, totalLoads)}
	}

	firstDay, err := firstTeachingDay(input.Workshops)
	if err != nil {
		return ModelInput{}, err
	}
	input.FirstDay = firstDay

	return input, nil
}

var weekOrder = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// courseCodePattern matches course-code suffix tokens such as "SCIE1100" or
// "1100"; room labels like "ILC1" carry fewer digits.
var courseCodePattern = regexp.MustCompile(`[0-9]{4}`)

// parseWorkshopLabel splits a "Day Start-End Suffix" label. The suffix is
// optional and may hold a room, the token "EX" for external workshops, a
// course code, or a combination.
func parseWorkshopLabel(label, mainCourse string) (Workshop, error) {
	fields := strings.Fields(label)
	if len(fields) < 2 {
		return Workshop{}, DataError{Table: "availability", Detail: fmt.Sprintf("workshop label %q must look like \"Day Start-End Suffix\"", label)}
	}

	day := dayKey(fields[0])
	if !lo.Contains(weekOrder, day) {
		return Workshop{}, DataError{Table: "availability", Detail: fmt.Sprintf("workshop label %q does not start with a weekday", label)}
	}

	times := strings.Split(fields[1], "-")
	if len(times) != 2 {
		return Workshop{}, DataError{Table: "availability", Detail: fmt.Sprintf("workshop label %q has no Start-End time window", label)}
	}
	start, err := parseClockTime(times[0])
	if err != nil {
		return Workshop{}, DataError{Table: "availability", Detail: fmt.Sprintf("workshop label %q: %v", label, err)}
	}
	end, err := parseClockTime(times[1])
	if err != nil {
		return Workshop{}, DataError{Table: "availability", Detail: fmt.Sprintf("workshop label %q: %v", label, err)}
	}
	if end <= start {
		return Workshop{}, DataError{Table: "availability", Detail: fmt.Sprintf("workshop label %q ends before it starts", label)}
	}

	workshop := Workshop{
		Name:   strings.TrimSpace(label),
		Day:    day,
		Start:  start,
		End:    end,
		Course: mainCourse,
	}
	for _, token := range fields[2:] {
		switch {
		case strings.EqualFold(token, "EX"):
			workshop.External = true
		case courseCodePattern.MatchString(token):
			workshop.Course = token
		default:
			workshop.Room = token
		}
	}
	return workshop, nil
}

// parseClockTime converts labels like "8am", "12pm" or "2pm" to 24-hour
// times (800, 1200, 1400).
func parseClockTime(value string) (int, error) {
	lower := strings.ToLower(strings.TrimSpace(value))
	var suffix string
	switch {
	case strings.HasSuffix(lower, "am"):
		suffix = "am"
	case strings.HasSuffix(lower, "pm"):
		suffix = "pm"
	default:
		return 0, fmt.Errorf("time %q does not contain 'am' or 'pm'", value)
	}

	var hour int
	if _, err := fmt.Sscanf(strings.TrimSuffix(lower, suffix), "%d", &hour); err != nil || hour < 1 || hour > 12 {
		return 0, fmt.Errorf("time %q has no valid hour", value)
	}

	if suffix == "pm" && hour != 12 {
		hour += 12
	} else if suffix == "am" && hour == 12 {
		hour = 0
	}
	return hour * 100, nil
}

func dayKey(day string) string {
	lower := strings.ToLower(day)
	if len(lower) < 3 {
		return lower
	}
	return lower[:3]
}

func firstTeachingDay(workshops []Workshop) (string, error) {
	for _, day := range weekOrder {
		if lo.SomeBy(workshops, func(workshop Workshop) bool { return workshop.Day == day }) {
			return day, nil
		}
	}
	return "", DataError{Table: "availability", Detail: "either there are no workshops, or no workshop label starts with a weekday"}
}
