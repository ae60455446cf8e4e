package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/fdg312/gym-tracker/internal/calories"
	"github.com/jung-kurt/gofpdf"
)

var csvHeader = []string{
	"customer_id", "goal_type", "current_weight_kg", "target_weight_kg", "age_years", "deadline_days",
	"bmr", "tdee", "total_daily_calories",
	"protein_g", "carbohydrate_g", "fat_g", "is_realistic",
}

// Generator renders calculated calorie reports as CSV or PDF
type Generator struct {
	now func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// Render returns the document bytes for the given format.
func (g *Generator) Render(format string, fromStartDate bool, rows []calories.Report) ([]byte, error) {
	switch format {
	case FormatCSV:
		return g.renderCSV(rows)
	case FormatPDF:
		return g.renderPDF(fromStartDate, rows)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func (g *Generator) renderCSV(rows []calories.Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, r := range rows {
		res := r.Result
		record := []string{
			strconv.FormatInt(r.CustomerID, 10),
			string(res.GoalType),
			formatNum(r.Snapshot.LatestWeightKG),
			formatNum(r.Snapshot.GoalTargetKG),
			strconv.Itoa(r.AgeYears),
			strconv.Itoa(r.DeadlineDays),
			formatNum(res.BMR),
			formatNum(res.TDEE),
			formatNum(res.TotalDailyCalories),
			formatNum(res.Macros.Protein.Grams),
			formatNum(res.Macros.Carbohydrate.Grams),
			formatNum(res.Macros.Fat.Grams),
			strconv.FormatBool(res.IsRealistic),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// renderPDF uses the core Helvetica font; all text is plain ASCII.
func (g *Generator) renderPDF(fromStartDate bool, rows []calories.Report) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Calorie report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Daily calorie recommendations")
	pdf.Ln(10)

	basis := "today"
	if fromStartDate {
		basis = "goal start date"
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s, deadline counted from %s, %d customer(s)",
		g.now().UTC().Format("2006-01-02 15:04 MST"), basis, len(rows)))
	pdf.Ln(10)

	g.drawSummary(pdf, rows)
	pdf.Ln(4)
	g.drawTable(pdf, rows)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

func (g *Generator) drawSummary(pdf *gofpdf.Fpdf, rows []calories.Report) {
	byGoal := map[calories.GoalType]int{}
	unrealistic := 0
	for _, r := range rows {
		byGoal[r.Result.GoalType]++
		if !r.Result.IsRealistic {
			unrealistic++
		}
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Summary")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 5, fmt.Sprintf("Weight loss: %d   Maintenance: %d   Muscle gain: %d",
		byGoal[calories.GoalWeightLoss], byGoal[calories.GoalMaintenance], byGoal[calories.GoalMuscleGain]))
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("Below %.0f kcal/day (unrealistic): %d", calories.MinRealisticDailyKcal, unrealistic))
	pdf.Ln(5)
}

func (g *Generator) drawTable(pdf *gofpdf.Fpdf, rows []calories.Report) {
	headers := []string{"Customer", "Goal", "Weight", "Target", "Days", "BMR", "TDEE", "Daily kcal", "Protein g", "Carbs g", "Fat g", "Realistic"}
	widths := []float64{20, 28, 20, 20, 16, 22, 22, 26, 24, 24, 20, 22}

	pdf.SetFont("Helvetica", "B", 8)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, r := range rows {
		res := r.Result
		realistic := "yes"
		if !res.IsRealistic {
			realistic = "no"
		}
		cells := []string{
			strconv.FormatInt(r.CustomerID, 10),
			string(res.GoalType),
			formatNum(r.Snapshot.LatestWeightKG),
			formatNum(r.Snapshot.GoalTargetKG),
			strconv.Itoa(r.DeadlineDays),
			formatNum(res.BMR),
			formatNum(res.TDEE),
			formatNum(res.TotalDailyCalories),
			formatNum(res.Macros.Protein.Grams),
			formatNum(res.Macros.Carbohydrate.Grams),
			formatNum(res.Macros.Fat.Grams),
			realistic,
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
