package training

import "testing"

func TestParseDiscipline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Discipline
		wantErr bool
	}{
		{"ride", DisciplineRide, false},
		{"riding", DisciplineRide, false},
		{"cycling", DisciplineRide, false},
		{"Run", DisciplineRun, false},
		{"running", DisciplineRun, false},
		{"swim", DisciplineSwim, false},
		{"SWIMMING", DisciplineSwim, false},
		{"shoot", DisciplineShoot, false},
		{"shooting", DisciplineShoot, false},
		{"  ride  ", DisciplineRide, false},
		{"rowing", 0, true},
		{"", 0, true},
	}

	for _, tc := range tests {
		got, err := ParseDiscipline(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseDiscipline(%q): expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDiscipline(%q): unexpected error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDiscipline(%q) = %s, expected %s", tc.input, got, tc.want)
		}
	}
}

func TestHasDistance(t *testing.T) {
	t.Parallel()

	for _, d := range AllDisciplines() {
		want := d != DisciplineShoot
		if d.HasDistance() != want {
			t.Errorf("%s.HasDistance() = %v, expected %v", d, d.HasDistance(), want)
		}
	}
}
