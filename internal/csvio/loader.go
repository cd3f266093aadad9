package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/scie-teaching/tutoralloc/pkg/model"
)

// Dataset names the CSV files one allocation run reads. Conflicts is
// optional; an empty path means no conflict pairs.
type Dataset struct {
	Availability string
	Allocations  string
	Conflicts    string
}

type conflictRow struct {
	Tutor1 string `csv:"Tutor 1"`
	Tutor2 string `csv:"Tutor 2"`
}

// Load reads the dataset sheets and assembles the raw input. Content is
// passed through as-is; cross-sheet validation happens in the model layer.
func Load(dataset Dataset) (model.RawInput, error) {
	raw := model.RawInput{Availability: map[string][]string{}}

	if err := loadAvailability(dataset.Availability, &raw); err != nil {
		return model.RawInput{}, err
	}
	if err := loadAllocations(dataset.Allocations, &raw); err != nil {
		return model.RawInput{}, err
	}
	if dataset.Conflicts != "" {
		if err := loadConflicts(dataset.Conflicts, &raw); err != nil {
			return model.RawInput{}, err
		}
	}
	return raw, nil
}

// loadAvailability parses the tutor x workshop grid. The header row carries
// the workshop labels; the row whose name ends in "tutors" carries the
// required tutor count per workshop instead of tiers.
func loadAvailability(path string, raw *model.RawInput) error {
	records, err := readAll(path)
	if err != nil {
		return err
	}
	if len(records) < 2 || len(records[0]) < 2 {
		return model.DataError{Table: "availability", Detail: fmt.Sprintf("%v holds no workshop columns", path)}
	}
	raw.Workshops = records[0][1:]

	requiredSeen := false
	for _, record := range records[1:] {
		name := strings.TrimSpace(record[0])
		if name == "" {
			continue
		}

		if strings.HasSuffix(strings.ToLower(name), "tutors") {
			if requiredSeen {
				return model.DataError{Table: "availability", Detail: "more than one required-count row (name ending in \"tutors\")"}
			}
			requiredSeen = true
			raw.Required, err = parseCounts(record[1:])
			if err != nil {
				return model.DataError{Table: "availability", Detail: fmt.Sprintf("required-count row %q: %v", name, err)}
			}
			continue
		}

		raw.Tutors = append(raw.Tutors, name)
		raw.Availability[name] = record[1:]
	}

	if !requiredSeen {
		return model.DataError{Table: "availability", Detail: "no required-count row (name ending in \"tutors\")"}
	}
	return nil
}

// loadAllocations parses the contracted-workshops sheet: a name column, an
// Experience column, a Gender ID column and one load column per course.
func loadAllocations(path string, raw *model.RawInput) error {
	records, err := readAll(path)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return model.DataError{Table: "allocations", Detail: fmt.Sprintf("%v is empty", path)}
	}

	header := records[0]
	experienceCol, genderCol := -1, -1
	courseCols := map[int]string{}
	for column, label := range header[1:] {
		switch strings.TrimSpace(label) {
		case "Experience":
			experienceCol = column + 1
		case "Gender ID":
			genderCol = column + 1
		default:
			courseCols[column+1] = strings.TrimSpace(label)
			raw.Courses = append(raw.Courses, strings.TrimSpace(label))
		}
	}
	if experienceCol == -1 {
		return model.DataError{Table: "allocations", Detail: "no Experience column"}
	}
	if genderCol == -1 {
		return model.DataError{Table: "allocations", Detail: "no Gender ID column"}
	}

	for _, record := range records[1:] {
		name := strings.TrimSpace(record[0])
		if name == "" {
			continue
		}

		experience, err := parseCell(record[experienceCol])
		if err != nil {
			return model.DataError{Table: "allocations", Detail: fmt.Sprintf("tutor %q: Experience: %v", name, err)}
		}

		loads := make(map[string]int, len(courseCols))
		for column, course := range courseCols {
			load, err := parseCell(record[column])
			if err != nil {
				return model.DataError{Table: "allocations", Detail: fmt.Sprintf("tutor %q: %v load: %v", name, course, err)}
			}
			loads[course] = load
		}

		raw.Attributes = append(raw.Attributes, model.RawTutor{
			Name:       name,
			Experience: experience,
			GenderID:   strings.TrimSpace(record[genderCol]),
			Loads:      loads,
		})
	}
	return nil
}

func loadConflicts(path string, raw *model.RawInput) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open %v: %w", path, err)
	}
	defer file.Close()

	var rows []*conflictRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return model.DataError{Table: "conflicts", Detail: fmt.Sprintf("%v: %v", path, err)}
	}

	for _, row := range rows {
		raw.Conflicts = append(raw.Conflicts, [2]string{strings.TrimSpace(row.Tutor1), strings.TrimSpace(row.Tutor2)})
	}
	return nil
}

func readAll(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %v: %w", path, err)
	}
	defer file.Close()

	return csv.NewReader(file).ReadAll()
}

func parseCounts(cells []string) ([]int, error) {
	counts := make([]int, len(cells))
	for i, cell := range cells {
		count, err := parseCell(cell)
		if err != nil {
			return nil, err
		}
		counts[i] = count
	}
	return counts, nil
}

// parseCell reads an integer spreadsheet cell; blank means zero.
func parseCell(cell string) (int, error) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return 0, nil
	}
	return strconv.Atoi(trimmed)
}
