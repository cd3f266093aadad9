package model

import (
	"time"

	"github.com/samber/lo"
)

const (
	DefaultAvailableWeight = 10
	DefaultIfNeededWeight  = 1
)

// Bounds is an inclusive per-tutor workshop-count range for one course.
type Bounds struct {
	Min int
	Max int
}

// Config holds the tunable policy of the allocation model.
type Config struct {
	AvailableWeight float64 // objective weight of an Available assignment
	IfNeededWeight  float64 // objective weight of an IfNeeded assignment
	DiversityWeight float64 // weight of the gender-diversity term; 0 disables it

	TimeLimit time.Duration // solver wall-clock budget
	Gap       float64       // acceptable relative optimality gap

	// LoadBounds overrides the per-tutor allocation targets of a course with
	// one shared inclusive range. Courses without an entry keep the exact
	// targets from the Allocations sheet.
	LoadBounds map[string]Bounds

	// Supervised lists the workshop categories that must include a
	// supertutor. A nil map supervises every category.
	Supervised map[string]bool

	// DisabledGroups names constraint groups excluded from the model. Used
	// by the infeasibility-diagnosis workflow.
	DisabledGroups []string
}

func (config Config) withDefaults() Config {
	if config.AvailableWeight == 0 {
		config.AvailableWeight = DefaultAvailableWeight
	}
	if config.IfNeededWeight == 0 {
		config.IfNeededWeight = DefaultIfNeededWeight
	}
	return config
}

func (config Config) enabled(group string) bool {
	return !lo.Contains(config.DisabledGroups, group)
}

func (config Config) isSupervised(category string) bool {
	if config.Supervised == nil {
		return true
	}
	return config.Supervised[category]
}

func (config Config) loadBounds(course string, target int) Bounds {
	if bounds, ok := config.LoadBounds[course]; ok {
		return bounds
	}
	return Bounds{Min: target, Max: target}
}
