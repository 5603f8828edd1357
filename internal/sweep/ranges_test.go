package sweep

import (
	"reflect"
	"testing"
)

func TestParseRangeSpec(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expected  RangeSpec
		expectErr bool
	}{
		{"valid_range", "0.0:1.0:0.1", RangeSpec{Min: 0.0, Max: 1.0, Step: 0.1}, false},
		{"integer_range", "0:1:1", RangeSpec{Min: 0, Max: 1, Step: 1}, false},
		{"with_spaces", " 0.1 : 0.9 : 0.2 ", RangeSpec{Min: 0.1, Max: 0.9, Step: 0.2}, false},
		{"small_step", "0.001:0.005:0.001", RangeSpec{Min: 0.001, Max: 0.005, Step: 0.001}, false},
		{"missing_parts", "0.0:1.0", RangeSpec{}, true},
		{"too_many_parts", "0.0:1.0:0.1:2.0", RangeSpec{}, true},
		{"invalid_min", "abc:1.0:0.1", RangeSpec{}, true},
		{"invalid_max", "0.0:abc:0.1", RangeSpec{}, true},
		{"invalid_step", "0.0:1.0:abc", RangeSpec{}, true},
		{"zero_step", "0.0:1.0:0", RangeSpec{}, true},
		{"negative_step", "0.0:1.0:-0.1", RangeSpec{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseRangeSpec(tc.input)
			if tc.expectErr {
				if err == nil {
					t.Errorf("Expected error for input %q, got nil", tc.input)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			if result != tc.expected {
				t.Errorf("Expected %+v, got %+v", tc.expected, result)
			}
		})
	}
}

func TestGenerateRange(t *testing.T) {
	testCases := []struct {
		name     string
		min, max float64
		step     float64
		expected []float64
	}{
		{"threshold_grid", 0.0, 1.0, 0.1, []float64{0.0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}},
		{"single_value", 0.5, 0.5, 0.1, []float64{0.5}},
		{"min_above_max", 1.0, 0.0, 0.1, nil},
		{"zero_step", 0.0, 1.0, 0, nil},
		{"coarse", 0.0, 1.0, 0.5, []float64{0.0, 0.5, 1.0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := GenerateRange(tc.min, tc.max, tc.step)
			if !reflect.DeepEqual(result, tc.expected) {
				t.Errorf("GenerateRange(%g, %g, %g) = %v, want %v", tc.min, tc.max, tc.step, result, tc.expected)
			}
		})
	}
}

func TestParseParamList(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expected  []float64
		expectErr bool
	}{
		{"empty", "", nil, false},
		{"csv", "0.1,0.5,0.9", []float64{0.1, 0.5, 0.9}, false},
		{"csv_with_spaces", " 0.1 , 0.5 ", []float64{0.1, 0.5}, false},
		{"range_spec", "0.0:0.4:0.2", []float64{0.0, 0.2, 0.4}, false},
		{"bad_csv", "0.1,abc", nil, true},
		{"bad_range", "0.0:1.0", nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseParamList(tc.input)
			if tc.expectErr {
				if err == nil {
					t.Errorf("Expected error for input %q, got nil", tc.input)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			if !reflect.DeepEqual(result, tc.expected) {
				t.Errorf("ParseParamList(%q) = %v, want %v", tc.input, result, tc.expected)
			}
		})
	}
}

func TestMeanStddev(t *testing.T) {
	testCases := []struct {
		name       string
		input      []float64
		wantMean   float64
		wantStddev float64
	}{
		{"empty", nil, 0, 0},
		{"single", []float64{0.5}, 0.5, 0},
		{"uniform", []float64{2, 2, 2}, 2, 0},
		{"spread", []float64{1, 2, 3}, 2, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mean, stddev := MeanStddev(tc.input)
			if mean != tc.wantMean {
				t.Errorf("mean = %g, want %g", mean, tc.wantMean)
			}
			if stddev != tc.wantStddev {
				t.Errorf("stddev = %g, want %g", stddev, tc.wantStddev)
			}
		})
	}
}
