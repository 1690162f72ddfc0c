package distance

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/teslashibe/eyeguard/pkg/landmarks"
)

func square(side float64, offset landmarks.Point) []landmarks.Point {
	h := side / 2
	corners := []landmarks.Point{
		landmarks.Pt(-h, -h), landmarks.Pt(h, -h),
		landmarks.Pt(h, h), landmarks.Pt(-h, h),
	}
	for i := range corners {
		corners[i] = corners[i].Add(offset)
	}
	return corners
}

func TestEstimate_TranslatedSquare(t *testing.T) {
	for _, s := range []float64{1, 7.5, 120} {
		left := square(s, landmarks.Pt(0, 0))
		right := square(s, landmarks.Pt(s, 0))

		got, err := Estimate(left, right)
		if err != nil {
			t.Fatalf("side %v: %v", s, err)
		}
		if math.Abs(got-s) > 1e-9 {
			t.Errorf("side %v: got %v, want %v", s, got, s)
		}
	}
}

func TestEstimate_InsufficientPoints(t *testing.T) {
	some := square(10, landmarks.Pt(0, 0))
	tests := []struct {
		name        string
		left, right []landmarks.Point
	}{
		{"both empty", nil, nil},
		{"left empty", nil, some},
		{"right empty", some, []landmarks.Point{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Estimate(tc.left, tc.right)
			if !errors.Is(err, ErrInsufficientPoints) {
				t.Errorf("got err %v, want ErrInsufficientPoints", err)
			}
			if math.IsNaN(d) {
				t.Error("distance is NaN")
			}
		})
	}
}

func TestEstimateEyes(t *testing.T) {
	var e landmarks.Eyes
	for i := range e.Left {
		e.Left[i] = landmarks.Pt(100, 50)
		e.Right[i] = landmarks.Pt(400, 50)
	}
	got, err := EstimateEyes(e)
	if err != nil {
		t.Fatal(err)
	}
	if got != 300 {
		t.Errorf("got %v, want 300", got)
	}
}

func TestClassify(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		sample float64
		want   State
	}{
		{0, Green},
		{100, Green},
		{299.999, Green},
		{300, Yellow}, // tie goes to the higher severity
		{400, Yellow},
		{449.999, Yellow},
		{450, Red},
		{10000, Red},
		{-5, Green},
		{math.NaN(), Green},
		{math.Inf(1), Red},
	}

	for _, tc := range tests {
		for i := 0; i < 3; i++ {
			if got := Classify(tc.sample, th); got != tc.want {
				t.Errorf("Classify(%v) run %d: got %v, want %v", tc.sample, i, got, tc.want)
			}
		}
	}
}

func TestClassify_CompactBoundaries(t *testing.T) {
	th := CompactThresholds()
	if got := Classify(th.Upper, th); got != Red {
		t.Errorf("at upper: got %v, want red", got)
	}
	if got := Classify(th.Mid, th); got != Yellow {
		t.Errorf("at mid: got %v, want yellow", got)
	}
}

func TestThresholds_Validate(t *testing.T) {
	tests := []struct {
		name    string
		th      Thresholds
		wantErr bool
	}{
		{"default", DefaultThresholds(), false},
		{"compact", CompactThresholds(), false},
		{"zero mid", Thresholds{Mid: 0, Upper: 10}, true},
		{"inverted", Thresholds{Mid: 450, Upper: 300}, true},
		{"equal", Thresholds{Mid: 300, Upper: 300}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.th.Validate()
			if tc.wantErr && !errors.Is(err, ErrInvalidThresholds) {
				t.Errorf("got %v, want ErrInvalidThresholds", err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPreset(t *testing.T) {
	th, err := Preset("Compact")
	if err != nil {
		t.Fatal(err)
	}
	if th != CompactThresholds() {
		t.Errorf("got %+v, want compact", th)
	}
	if _, err := Preset("nope"); !errors.Is(err, ErrInvalidThresholds) {
		t.Errorf("unknown preset: got %v", err)
	}
	if names := PresetNames(); len(names) != 2 || names[0] != "compact" {
		t.Errorf("PresetNames: got %v", names)
	}
}

func TestAggregate(t *testing.T) {
	readings := []Reading{
		{State: Yellow, Distance: 310},
		{State: Red, Distance: 460},
		{State: Yellow, Distance: 400},
		{State: Green, Distance: 120},
	}

	tests := []struct {
		name     string
		policy   Policy
		readings []Reading
		want     Reading
		ok       bool
	}{
		{"worst", PolicyWorst, readings, Reading{Red, 460}, true},
		{"last", PolicyLast, readings, Reading{Green, 120}, true},
		{"single", PolicyWorst, readings[:1:1], Reading{Yellow, 310}, true},
		{"empty", PolicyWorst, nil, Reading{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Aggregate(tc.policy, tc.readings)
			if ok != tc.ok || got != tc.want {
				t.Errorf("got %+v/%v, want %+v/%v", got, ok, tc.want, tc.ok)
			}
		})
	}

	ties := []Reading{{Yellow, 310}, {Yellow, 400}}
	if got, _ := Aggregate(PolicyWorst, ties); got.Distance != 400 {
		t.Errorf("tie: got %v, want 400", got.Distance)
	}
}

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy(""); err != nil || p != PolicyWorst {
		t.Errorf("empty: got %v, %v", p, err)
	}
	if p, err := ParsePolicy("last"); err != nil || p != PolicyLast {
		t.Errorf("last: got %v, %v", p, err)
	}
	if _, err := ParsePolicy("first"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestState_JSON(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Unknown, "null"},
		{Green, `"green"`},
		{Yellow, `"yellow"`},
		{Red, `"red"`},
	}

	for _, tc := range tests {
		data, err := json.Marshal(tc.state)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != tc.want {
			t.Errorf("Marshal(%d): got %s, want %s", tc.state, data, tc.want)
		}
	}

	var s State
	if err := json.Unmarshal([]byte(`"red"`), &s); err != nil || s != Red {
		t.Errorf("Unmarshal red: got %v, %v", s, err)
	}
	if err := json.Unmarshal([]byte(`"purple"`), &s); err == nil {
		t.Error("expected error for unknown state")
	}
}

func TestState_Order(t *testing.T) {
	if !(Green < Yellow && Yellow < Red) {
		t.Error("severity order broken")
	}
	if Green.Unsafe() || !Yellow.Unsafe() || !Red.Unsafe() {
		t.Error("Unsafe mismatch")
	}
}
