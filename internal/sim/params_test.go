package sim

import "testing"

func TestParamsValidate(t *testing.T) {
	testCases := []struct {
		name      string
		params    Params
		expectErr bool
	}{
		{"valid", Params{EmptyCount: 250, GroupFraction: 0.6, Threshold: 0.5}, false},
		{"valid_explicit_size", Params{Size: 10, EmptyCount: 20, GroupFraction: 0.5, Threshold: 0.3}, false},
		{"empty_equals_capacity", Params{Size: 10, EmptyCount: 100, GroupFraction: 0.5, Threshold: 0.5}, false},
		{"threshold_zero", Params{EmptyCount: 100, GroupFraction: 0.5, Threshold: 0}, false},
		{"threshold_one", Params{EmptyCount: 100, GroupFraction: 0.5, Threshold: 1}, false},
		{"negative_size", Params{Size: -1, EmptyCount: 10, GroupFraction: 0.5, Threshold: 0.5}, true},
		{"fraction_too_high", Params{EmptyCount: 100, GroupFraction: 1.1, Threshold: 0.5}, true},
		{"fraction_negative", Params{EmptyCount: 100, GroupFraction: -0.1, Threshold: 0.5}, true},
		{"threshold_too_high", Params{EmptyCount: 100, GroupFraction: 0.5, Threshold: 1.5}, true},
		{"threshold_negative", Params{EmptyCount: 100, GroupFraction: 0.5, Threshold: -0.5}, true},
		{"empty_zero", Params{EmptyCount: 0, GroupFraction: 0.5, Threshold: 0.5}, true},
		{"empty_negative", Params{EmptyCount: -5, GroupFraction: 0.5, Threshold: 0.5}, true},
		{"empty_exceeds_capacity", Params{Size: 10, EmptyCount: 101, GroupFraction: 0.5, Threshold: 0.5}, true},
		{"negative_max_sweeps", Params{EmptyCount: 100, GroupFraction: 0.5, Threshold: 0.5, MaxSweeps: -1}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.params.Validate()
			if tc.expectErr && err == nil {
				t.Errorf("expected error for %+v, got nil", tc.params)
			}
			if !tc.expectErr && err != nil {
				t.Errorf("unexpected error for %+v: %v", tc.params, err)
			}
		})
	}
}

func TestParamsCounts(t *testing.T) {
	testCases := []struct {
		name                  string
		params                Params
		empty, groupA, groupB int
	}{
		{"even_split", Params{Size: 10, EmptyCount: 20, GroupFraction: 0.5}, 20, 40, 40},
		{"reference_defaults", Params{Size: 50, EmptyCount: 250, GroupFraction: 0.6}, 250, 1350, 900},
		{"all_empty", Params{Size: 10, EmptyCount: 100, GroupFraction: 0.5}, 100, 0, 0},
		{"all_group_b", Params{Size: 10, EmptyCount: 10, GroupFraction: 0}, 10, 0, 90},
		{"all_group_a", Params{Size: 10, EmptyCount: 10, GroupFraction: 1}, 10, 90, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			empty, groupA, groupB := tc.params.counts()
			if empty != tc.empty || groupA != tc.groupA || groupB != tc.groupB {
				t.Errorf("counts() = (%d, %d, %d), want (%d, %d, %d)",
					empty, groupA, groupB, tc.empty, tc.groupA, tc.groupB)
			}
			if total := empty + groupA + groupB; total != tc.params.Size*tc.params.Size {
				t.Errorf("counts sum to %d, want %d", total, tc.params.Size*tc.params.Size)
			}
		})
	}
}
