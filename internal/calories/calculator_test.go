package calories

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestBMRAndTDEE(t *testing.T) {
	tests := []struct {
		name     string
		weight   float64
		height   float64
		age      int
		sex      string
		activity float64
		wantBMR  float64
		wantTDEE float64
	}{
		{"male", 80, 180, 34, SexMale, 1.5, 1760, 2640},
		{"female", 60, 165, 25, SexFemale, 1.3, 1345.25, 1748.825},
		{"male sedentary", 50, 160, 101, SexMale, 1.2, 1000, 1200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bmr, err := BMR(tt.weight, tt.height, tt.age, tt.sex)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !approx(bmr, tt.wantBMR, 1e-9) {
				t.Errorf("bmr = %v, want %v", bmr, tt.wantBMR)
			}
			if got := TDEE(bmr, tt.activity); !approx(got, tt.wantTDEE, 1e-6) {
				t.Errorf("tdee = %v, want %v", got, tt.wantTDEE)
			}
		})
	}
}

func validInput() Input {
	return Input{
		CurrentWeightKG: 80,
		TargetWeightKG:  75,
		DeadlineDays:    100,
		HeightCM:        180,
		AgeYears:        34,
		Sex:             SexMale,
		ActivityFactor:  1.5,
	}
}

func TestComputeDailyCalories(t *testing.T) {
	res, err := Compute(validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// tdee 2640, deficit 5kg*7700/100 = 385
	if !approx(res.TotalDailyCalories, 2255, 0.001) {
		t.Errorf("daily = %v, want 2255", res.TotalDailyCalories)
	}
	if res.BMR != 1760 || res.TDEE != 2640 {
		t.Errorf("bmr/tdee = %v/%v, want 1760/2640", res.BMR, res.TDEE)
	}
	if res.GoalType != GoalWeightLoss {
		t.Errorf("goal type = %s, want weightloss", res.GoalType)
	}
	if !res.IsRealistic {
		t.Error("expected realistic plan")
	}
	if !approx(res.Macros.Protein.Calories, 845.63, 0.011) {
		t.Errorf("protein kcal = %v, want ~845.63", res.Macros.Protein.Calories)
	}
	if !approx(res.Macros.Fat.Percentage, 27.5, 0.001) {
		t.Errorf("fat pct = %v, want 27.5", res.Macros.Fat.Percentage)
	}
}

func TestComputeDeadlineBoundary(t *testing.T) {
	for _, days := range []int{0, -1, -30} {
		in := validInput()
		in.DeadlineDays = days

		_, err := Compute(in)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("deadline %d: expected ErrInvalidInput, got %v", days, err)
		}
		var inputErr *InputError
		if !errors.As(err, &inputErr) || inputErr.Field != "deadline_days" {
			t.Fatalf("deadline %d: expected field deadline_days, got %v", days, err)
		}
	}

	in := validInput()
	in.DeadlineDays = 1
	if _, err := Compute(in); err != nil {
		t.Fatalf("one day deadline should be accepted: %v", err)
	}
}

func TestComputeRejectsUnknownSex(t *testing.T) {
	in := validInput()
	in.Sex = "other"

	_, err := Compute(in)
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected *InputError, got %v", err)
	}
	if inputErr.Field != "sex" {
		t.Errorf("field = %q, want sex", inputErr.Field)
	}
	if !strings.Contains(err.Error(), "sex must be 'male' or 'female'") {
		t.Errorf("unexpected message: %s", err.Error())
	}

	if _, err := BMR(80, 180, 34, "Male"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("BMR must reject unrecognized sex, got %v", err)
	}
}

func TestComputeRejectsNonPositiveMeasurements(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*Input)
		field string
	}{
		{"zero weight", func(in *Input) { in.CurrentWeightKG = 0 }, "current_weight_kg"},
		{"negative target", func(in *Input) { in.TargetWeightKG = -70 }, "target_weight_kg"},
		{"zero height", func(in *Input) { in.HeightCM = 0 }, "height_cm"},
		{"activity too low", func(in *Input) { in.ActivityFactor = 1.0 }, "activity_factor"},
		{"activity too high", func(in *Input) { in.ActivityFactor = 1.9 }, "activity_factor"},
		{"negative age", func(in *Input) { in.AgeYears = -1 }, "age_years"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mut(&in)

			_, err := Compute(in)
			var inputErr *InputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("expected *InputError, got %v", err)
			}
			if inputErr.Field != tt.field {
				t.Errorf("field = %q, want %q", inputErr.Field, tt.field)
			}
		})
	}
}

func ratioTotal(goal GoalType) float64 {
	b := bandsByGoal[goal]
	return b.protein.midpoint() + b.carbohydrate.midpoint() + b.fat.midpoint()
}

func assertMacroRoundTrip(t *testing.T, res Result) {
	t.Helper()
	m := res.Macros
	total := ratioTotal(res.GoalType)

	fromGrams := m.Protein.Grams*kcalPerGramProtein + m.Carbohydrate.Grams*kcalPerGramCarb + m.Fat.Grams*kcalPerGramFat
	if !approx(fromGrams, res.TotalDailyCalories*total, 0.1) {
		t.Errorf("grams -> kcal = %v, want ~%v", fromGrams, res.TotalDailyCalories*total)
	}

	kcal := m.Protein.Calories + m.Carbohydrate.Calories + m.Fat.Calories
	if !approx(kcal, res.TotalDailyCalories*total, 0.05) {
		t.Errorf("macro kcal sum = %v, want ~%v", kcal, res.TotalDailyCalories*total)
	}

	pct := m.Protein.Percentage + m.Carbohydrate.Percentage + m.Fat.Percentage
	if !approx(pct, total*100, 0.05) {
		t.Errorf("percentage sum = %v, want ~%v", pct, total*100)
	}
}

func TestComputeMacroRoundTrip(t *testing.T) {
	t.Run("aggressive loss", func(t *testing.T) {
		res, err := Compute(Input{
			CurrentWeightKG: 100,
			TargetWeightKG:  70,
			DeadlineDays:    30,
			HeightCM:        180,
			AgeYears:        30,
			Sex:             SexMale,
			ActivityFactor:  1.4,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// bmr 1980, tdee 2772, daily deficit 30*7700/30 = 7700
		if !approx(res.TotalDailyCalories, -4928, 0.001) {
			t.Errorf("daily = %v, want -4928", res.TotalDailyCalories)
		}
		if res.IsRealistic {
			t.Error("expected unrealistic plan")
		}
		assertMacroRoundTrip(t, res)
	})

	t.Run("gain", func(t *testing.T) {
		in := validInput()
		in.CurrentWeightKG = 70
		in.TargetWeightKG = 76
		in.DeadlineDays = 180
		res, err := Compute(in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertMacroRoundTrip(t, res)
	})

	t.Run("maintenance", func(t *testing.T) {
		in := validInput()
		in.TargetWeightKG = in.CurrentWeightKG
		res, err := Compute(in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.TotalDailyCalories != res.TDEE {
			t.Errorf("maintenance daily %v should equal tdee %v", res.TotalDailyCalories, res.TDEE)
		}
		assertMacroRoundTrip(t, res)
	})
}

func TestComputeRealisticBoundary(t *testing.T) {
	base := Input{
		CurrentWeightKG: 50,
		TargetWeightKG:  50,
		DeadlineDays:    7,
		HeightCM:        160,
		AgeYears:        101,
		Sex:             SexMale,
		ActivityFactor:  1.2,
	}

	res, err := Compute(base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalDailyCalories != 1200 {
		t.Fatalf("daily = %v, want exactly 1200", res.TotalDailyCalories)
	}
	if !res.IsRealistic {
		t.Error("1200 kcal must be realistic")
	}

	below := base
	below.TargetWeightKG = 49.99
	res, err = Compute(below)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalDailyCalories >= 1200 || res.IsRealistic {
		t.Errorf("daily = %v realistic = %t, want < 1200 and false", res.TotalDailyCalories, res.IsRealistic)
	}

	for _, target := range []float64{40, 45, 48, 49.5, 50, 52} {
		in := base
		in.TargetWeightKG = target
		res, err := Compute(in)
		if err != nil {
			t.Fatalf("target %v: %v", target, err)
		}
		if res.IsRealistic != (res.TotalDailyCalories >= MinRealisticDailyKcal) {
			t.Errorf("target %v: realistic=%t daily=%v", target, res.IsRealistic, res.TotalDailyCalories)
		}
	}
}

func TestClassifyGoal(t *testing.T) {
	tests := []struct {
		current, target float64
		want            GoalType
	}{
		{80, 80, GoalMaintenance},
		{80, 75, GoalWeightLoss},
		{80, 80.5, GoalMuscleGain},
	}
	for _, tt := range tests {
		if got := ClassifyGoal(tt.current, tt.target); got != tt.want {
			t.Errorf("ClassifyGoal(%v, %v) = %s, want %s", tt.current, tt.target, got, tt.want)
		}

		in := validInput()
		in.CurrentWeightKG = tt.current
		in.TargetWeightKG = tt.target
		res, err := Compute(in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.GoalType != tt.want {
			t.Errorf("Compute goal type = %s, want %s", res.GoalType, tt.want)
		}
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	in := validInput()

	first, err := Compute(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Compute(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if !bytes.Equal(a, b) {
		t.Fatalf("results differ:\n%s\n%s", a, b)
	}
}

func TestSplitZeroDaily(t *testing.T) {
	m := split(0, 0.375, kcalPerGramProtein)
	if m.Calories != 0 || m.Grams != 0 {
		t.Errorf("expected zero kcal and grams, got %+v", m)
	}
	if m.Percentage != 37.5 {
		t.Errorf("percentage = %v, want 37.5", m.Percentage)
	}
}
