package csvio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scie-teaching/tutoralloc/pkg/model"
)

const availabilitySheet = `Tutor,Mon 8am-10am,Wed 2pm-4pm
Alice (Super),Available,Available
Bob,Available,NotAvailable
Cara,IfNeeded,Available
Num tutors,2,1
`

const allocationsSheet = `Tutor,Experience,Gender ID,SCIE1000
Alice (Super),1,F,2
Bob,1,M,1
Cara,0,F,
`

const conflictsSheet = `Tutor 1,Tutor 2
Bob,Cara
`

func writeSheet(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("cannot write sheet: %v", err)
	}
	return path
}

func testDataset(t *testing.T) Dataset {
	t.Helper()
	dir := t.TempDir()
	return Dataset{
		Availability: writeSheet(t, dir, "availability.csv", availabilitySheet),
		Allocations:  writeSheet(t, dir, "allocations.csv", allocationsSheet),
		Conflicts:    writeSheet(t, dir, "conflicts.csv", conflictsSheet),
	}
}

func TestLoadDataset(t *testing.T) {
	//** Act
	raw, err := Load(testDataset(t))

	//** Assert
	assert.Nil(t, err)
	assert.Equal(t, []string{"Mon 8am-10am", "Wed 2pm-4pm"}, raw.Workshops)
	assert.Equal(t, []string{"Alice (Super)", "Bob", "Cara"}, raw.Tutors)
	assert.Equal(t, []int{2, 1}, raw.Required)
	assert.Equal(t, []string{"Available", "NotAvailable"}, raw.Availability["Bob"])
	assert.Equal(t, []string{"SCIE1000"}, raw.Courses)
	assert.Equal(t, [][2]string{{"Bob", "Cara"}}, raw.Conflicts)

	cara, found := findAttribute(raw, "Cara")
	assert.True(t, found)
	assert.Equal(t, 0, cara.Experience)
	assert.Equal(t, "F", cara.GenderID)
	assert.Equal(t, 0, cara.Loads["SCIE1000"]) // blank cell means zero

	// The assembled raw input must survive model validation as-is.
	_, err = model.ProcessRawInput(raw)
	assert.Nil(t, err)
}

func TestLoadWithoutConflictsSheet(t *testing.T) {
	dataset := testDataset(t)
	dataset.Conflicts = ""

	raw, err := Load(dataset)

	assert.Nil(t, err)
	assert.Empty(t, raw.Conflicts)
}

func TestLoadRejectsMalformedSheets(t *testing.T) {
	cases := map[string]struct {
		mutate func(*testing.T, *Dataset)
		table  string
	}{
		"No required-count row": {
			mutate: func(t *testing.T, dataset *Dataset) {
				dataset.Availability = writeSheet(t, t.TempDir(), "availability.csv",
					"Tutor,Mon 8am-10am\nAlice (Super),Available\n")
			},
			table: "availability",
		},
		"Non-numeric required count": {
			mutate: func(t *testing.T, dataset *Dataset) {
				dataset.Availability = writeSheet(t, t.TempDir(), "availability.csv",
					"Tutor,Mon 8am-10am\nAlice (Super),Available\nNum tutors,two\n")
			},
			table: "availability",
		},
		"Duplicate required-count row": {
			mutate: func(t *testing.T, dataset *Dataset) {
				dataset.Availability = writeSheet(t, t.TempDir(), "availability.csv",
					"Tutor,Mon 8am-10am\nNum tutors,1\nMore tutors,1\n")
			},
			table: "availability",
		},
		"No Experience column": {
			mutate: func(t *testing.T, dataset *Dataset) {
				dataset.Allocations = writeSheet(t, t.TempDir(), "allocations.csv",
					"Tutor,Gender ID,SCIE1000\nAlice (Super),F,2\n")
			},
			table: "allocations",
		},
		"No Gender ID column": {
			mutate: func(t *testing.T, dataset *Dataset) {
				dataset.Allocations = writeSheet(t, t.TempDir(), "allocations.csv",
					"Tutor,Experience,SCIE1000\nAlice (Super),1,2\n")
			},
			table: "allocations",
		},
		"Non-numeric load": {
			mutate: func(t *testing.T, dataset *Dataset) {
				dataset.Allocations = writeSheet(t, t.TempDir(), "allocations.csv",
					"Tutor,Experience,Gender ID,SCIE1000\nAlice (Super),1,F,many\n")
			},
			table: "allocations",
		},
	}

	for name, testCase := range cases {
		t.Run(name, func(t *testing.T) {
			dataset := testDataset(t)
			testCase.mutate(t, &dataset)

			_, err := Load(dataset)

			var dataErr model.DataError
			assert.True(t, errors.As(err, &dataErr))
			assert.Equal(t, testCase.table, dataErr.Table)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	dataset := testDataset(t)
	dataset.Availability = filepath.Join(t.TempDir(), "nope.csv")

	_, err := Load(dataset)

	assert.NotNil(t, err)
}

func findAttribute(raw model.RawInput, name string) (model.RawTutor, bool) {
	for _, attribute := range raw.Attributes {
		if attribute.Name == name {
			return attribute, true
		}
	}
	return model.RawTutor{}, false
}
