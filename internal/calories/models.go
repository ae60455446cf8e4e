package calories

import "github.com/fdg312/gym-tracker/internal/storage"

// UnrealisticWarning is attached to reports whose daily intake falls below the safety floor.
const UnrealisticWarning = "requested timeline implies a daily intake below 1200 kcal"

// SnapshotDTO — эхо входных данных расчёта для отображения
type SnapshotDTO struct {
	CustomerID       int64   `json:"customer_id"`
	HeightCM         float64 `json:"height_cm"`
	BirthDate        string  `json:"birth_date"`
	Sex              string  `json:"sex"`
	ActivityFactor   float64 `json:"activity_factor"`
	LatestWeightKG   float64 `json:"latest_weight_kg"`
	WeightRecordedOn string  `json:"weight_recorded_on"`
	GoalTargetKG     float64 `json:"goal_target_kg"`
	GoalStartDate    string  `json:"goal_start_date"`
	GoalEndDate      string  `json:"goal_end_date"`
}

// Report — расчёт для одного клиента вместе с его входными данными
type Report struct {
	CustomerID    int64       `json:"customer_id"`
	Snapshot      SnapshotDTO `json:"snapshot"`
	AgeYears      int         `json:"age_years"`
	DeadlineDays  int         `json:"deadline_days"`
	FromStartDate bool        `json:"from_start_date"`
	Result        Result      `json:"result"`
	Warning       string      `json:"warning,omitempty"`
}

// BatchRequest — запрос для POST /v1/calories/batch
type BatchRequest struct {
	CustomerIDs   []int64 `json:"customer_ids"`
	FromStartDate bool    `json:"from_start_date"`
}

// BatchResponse — ответ для пакетного расчёта
type BatchResponse struct {
	Reports []Report `json:"reports"`
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toSnapshotDTO(s storage.Snapshot) SnapshotDTO {
	return SnapshotDTO{
		CustomerID:       s.CustomerID,
		HeightCM:         s.HeightCM,
		BirthDate:        s.BirthDate.Format(dateLayout),
		Sex:              s.Sex,
		ActivityFactor:   s.ActivityFactor,
		LatestWeightKG:   s.LatestWeightKG,
		WeightRecordedOn: s.WeightRecordedOn.Format(dateLayout),
		GoalTargetKG:     s.GoalTargetKG,
		GoalStartDate:    s.GoalStartDate.Format(dateLayout),
		GoalEndDate:      s.GoalEndDate.Format(dateLayout),
	}
}
