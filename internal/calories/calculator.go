package calories

import "math"

const (
	// KcalPerKG is the energy content assumed for one kilogram of body mass.
	KcalPerKG = 7700.0
	// MinRealisticDailyKcal is the safety floor below which a plan is flagged unrealistic.
	MinRealisticDailyKcal = 1200.0

	kcalPerGramProtein = 4.0
	kcalPerGramCarb    = 4.0
	kcalPerGramFat     = 9.0

	MinActivityFactor = 1.2
	MaxActivityFactor = 1.725
)

const (
	SexMale   = "male"
	SexFemale = "female"
)

// GoalType classifies the direction of the requested weight change.
type GoalType string

const (
	GoalWeightLoss  GoalType = "weightloss"
	GoalMaintenance GoalType = "maintenance"
	GoalMuscleGain  GoalType = "musclegain"
)

// ratioBand is an inclusive [low, high] share of daily calories.
type ratioBand struct{ low, high float64 }

func (b ratioBand) midpoint() float64 { return (b.low + b.high) / 2 }

type macroBands struct {
	protein, carbohydrate, fat ratioBand
}

var bandsByGoal = map[GoalType]macroBands{
	GoalWeightLoss: {
		protein:      ratioBand{0.35, 0.40},
		carbohydrate: ratioBand{0.30, 0.35},
		fat:          ratioBand{0.25, 0.30},
	},
	GoalMaintenance: {
		protein:      ratioBand{0.30, 0.35},
		carbohydrate: ratioBand{0.40, 0.45},
		fat:          ratioBand{0.20, 0.25},
	},
	GoalMuscleGain: {
		protein:      ratioBand{0.40, 0.45},
		carbohydrate: ratioBand{0.35, 0.40},
		fat:          ratioBand{0.20, 0.25},
	},
}

// Input — аргументы расчёта, уже извлечённые из снимка клиента
type Input struct {
	CurrentWeightKG float64
	TargetWeightKG  float64
	DeadlineDays    int
	HeightCM        float64
	AgeYears        int
	Sex             string
	ActivityFactor  float64
}

// MacroBreakdown is one macro nutrient's share of the daily intake.
type MacroBreakdown struct {
	Grams      float64 `json:"grams"`
	Calories   float64 `json:"calories"`
	Percentage float64 `json:"percentage"`
}

type Macros struct {
	Protein      MacroBreakdown `json:"protein"`
	Carbohydrate MacroBreakdown `json:"carbohydrate"`
	Fat          MacroBreakdown `json:"fat"`
}

// Result — рекомендация по калориям и макронутриентам
type Result struct {
	TotalDailyCalories float64  `json:"total_daily_calories"`
	BMR                float64  `json:"bmr"`
	TDEE               float64  `json:"tdee"`
	Macros             Macros   `json:"macros"`
	GoalType           GoalType `json:"goal_type"`
	IsRealistic        bool     `json:"is_realistic"`
}

// BMR returns the Mifflin-St Jeor basal metabolic rate in kcal/day.
func BMR(weightKG, heightCM float64, ageYears int, sex string) (float64, error) {
	base := 10*weightKG + 6.25*heightCM - 5*float64(ageYears)
	switch sex {
	case SexMale:
		return base + 5, nil
	case SexFemale:
		return base - 161, nil
	default:
		return 0, invalid("sex", "sex must be 'male' or 'female'")
	}
}

// TDEE scales a basal metabolic rate by the activity factor.
func TDEE(bmr, activityFactor float64) float64 {
	return bmr * activityFactor
}

// ClassifyGoal maps the sign of current-target to a goal type.
func ClassifyGoal(currentWeightKG, targetWeightKG float64) GoalType {
	delta := currentWeightKG - targetWeightKG
	switch {
	case delta > 0:
		return GoalWeightLoss
	case delta < 0:
		return GoalMuscleGain
	default:
		return GoalMaintenance
	}
}

// Compute derives the daily calorie target, macro split and feasibility flag.
// It is a pure function: equal inputs always produce equal results.
func Compute(in Input) (Result, error) {
	if err := validate(in); err != nil {
		return Result{}, err
	}

	bmr, err := BMR(in.CurrentWeightKG, in.HeightCM, in.AgeYears, in.Sex)
	if err != nil {
		return Result{}, err
	}
	tdee := TDEE(bmr, in.ActivityFactor)

	deltaKG := in.CurrentWeightKG - in.TargetWeightKG
	dailyDeficit := deltaKG * KcalPerKG / float64(in.DeadlineDays)
	daily := round2(tdee - dailyDeficit)

	goal := ClassifyGoal(in.CurrentWeightKG, in.TargetWeightKG)
	bands := bandsByGoal[goal]

	return Result{
		TotalDailyCalories: daily,
		BMR:                round2(bmr),
		TDEE:               round2(tdee),
		Macros: Macros{
			Protein:      split(daily, bands.protein.midpoint(), kcalPerGramProtein),
			Carbohydrate: split(daily, bands.carbohydrate.midpoint(), kcalPerGramCarb),
			Fat:          split(daily, bands.fat.midpoint(), kcalPerGramFat),
		},
		GoalType:    goal,
		IsRealistic: daily >= MinRealisticDailyKcal,
	}, nil
}

func validate(in Input) error {
	if in.Sex != SexMale && in.Sex != SexFemale {
		return invalid("sex", "sex must be 'male' or 'female'")
	}
	if in.DeadlineDays <= 0 {
		return invalid("deadline_days", "deadline must be at least one day in the future")
	}
	if in.CurrentWeightKG <= 0 {
		return invalid("current_weight_kg", "must be greater than 0")
	}
	if in.TargetWeightKG <= 0 {
		return invalid("target_weight_kg", "must be greater than 0")
	}
	if in.HeightCM <= 0 {
		return invalid("height_cm", "must be greater than 0")
	}
	if in.AgeYears < 0 {
		return invalid("age_years", "must not be negative")
	}
	if in.ActivityFactor < MinActivityFactor || in.ActivityFactor > MaxActivityFactor {
		return invalid("activity_factor", "must be between 1.2 and 1.725")
	}
	return nil
}

func split(daily, ratio, kcalPerGram float64) MacroBreakdown {
	kcal := daily * ratio
	// daily == 0 would divide by zero; the share is still the ratio itself.
	pct := ratio * 100
	if daily != 0 {
		pct = kcal / daily * 100
	}
	return MacroBreakdown{
		Grams:      round2(kcal / kcalPerGram),
		Calories:   round2(kcal),
		Percentage: round2(pct),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
