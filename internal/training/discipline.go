package training

import (
	"fmt"
	"strings"
)

// Discipline identifies one of the four supported activity categories. It is
// a filter selector only and is never persisted on a record; each discipline
// has its own table and row type.
type Discipline int

// Disciplines in merge tie-break order. When two sessions share a start time
// the lower-numbered discipline sorts first.
const (
	DisciplineRide Discipline = iota
	DisciplineRun
	DisciplineSwim
	DisciplineShoot
)

// AllDisciplines returns the four disciplines in enumeration order.
func AllDisciplines() []Discipline {
	return []Discipline{DisciplineRide, DisciplineRun, DisciplineSwim, DisciplineShoot}
}

// String returns the lowercase discipline name.
func (d Discipline) String() string {
	switch d {
	case DisciplineRide:
		return "ride"
	case DisciplineRun:
		return "run"
	case DisciplineSwim:
		return "swim"
	case DisciplineShoot:
		return "shoot"
	}
	return fmt.Sprintf("discipline(%d)", int(d))
}

// HasDistance reports whether sessions of this discipline carry a distance.
// Shooting sessions do not; they contribute zero distance to totals.
func (d Discipline) HasDistance() bool {
	return d != DisciplineShoot
}

// MarshalText renders the discipline name, so map keys and JSON fields carry
// "ride" rather than the numeric value.
func (d Discipline) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses a discipline name, accepting the same aliases as
// ParseDiscipline.
func (d *Discipline) UnmarshalText(text []byte) error {
	parsed, err := ParseDiscipline(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDiscipline parses a discipline name. Accepts the singular names used
// throughout the API ("ride", "run", "swim", "shoot") plus common aliases.
func ParseDiscipline(s string) (Discipline, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ride", "riding", "cycling":
		return DisciplineRide, nil
	case "run", "running":
		return DisciplineRun, nil
	case "swim", "swimming":
		return DisciplineSwim, nil
	case "shoot", "shooting":
		return DisciplineShoot, nil
	}
	return 0, fmt.Errorf("unknown discipline %q (valid: ride, run, swim, shoot)", s)
}
