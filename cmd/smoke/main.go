package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase    string
	token      string
	client     = &http.Client{Timeout: 30 * time.Second}
	today      time.Time
	createdIDs = make(map[string]string) // track created resources for cleanup
)

func main() {
	fmt.Println("=== Gym Tracker E2E Smoke Test ===")
	fmt.Println()

	apiBase = getEnv("API_BASE_URL", defaultAPIBase)
	token = getEnv("SMOKE_TOKEN", "")

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("Token: %s\n", maskString(token))
	fmt.Println()

	today = time.Now().UTC()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Dev Token", testDevToken},
		{"Create Gym", testCreateGym},
		{"Create Customer", testCreateCustomer},
		{"Add Progress", testAddProgress},
		{"Create Goal", testCreateGoal},
		{"Daily Calorie Intake", testDailyIntake},
		{"Calorie Batch", testBatch},
		{"Create Report (CSV)", testCreateReport},
		{"Download Report", testDownloadReport},
		{"Delete Report", testDeleteReport},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("OK\n")
	}

	cleanup()

	fmt.Println()
	if failed {
		fmt.Println("SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	return call(http.MethodGet, "/healthz", nil, http.StatusOK, nil)
}

// testDevToken fetches a dev JWT when none was provided. A 404 means auth is off.
func testDevToken() error {
	if token != "" {
		return nil
	}

	req, err := http.NewRequest(http.MethodPost, apiBase+"/v1/auth/dev", nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		return readStatusError(resp)
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	token = result.AccessToken
	return nil
}

func testCreateGym() error {
	var result struct {
		ID int64 `json:"id"`
	}
	payload := map[string]interface{}{
		"name":          fmt.Sprintf("Smoke Gym %d", today.Unix()),
		"address_place": "Smoke Street 1",
	}
	if err := call(http.MethodPost, "/v1/gyms", payload, http.StatusCreated, &result); err != nil {
		return err
	}
	createdIDs["gym"] = fmt.Sprint(result.ID)
	return nil
}

func testCreateCustomer() error {
	var result struct {
		ID int64 `json:"id"`
	}
	payload := map[string]interface{}{
		"gym_id":          mustInt(createdIDs["gym"]),
		"first_name":      "Smoke",
		"last_name":       fmt.Sprintf("Tester%d", today.Unix()),
		"birth_date":      "1990-05-15",
		"sex":             "female",
		"height_cm":       168,
		"activity_factor": 1.375,
	}
	if err := call(http.MethodPost, "/v1/customers", payload, http.StatusCreated, &result); err != nil {
		return err
	}
	createdIDs["customer"] = fmt.Sprint(result.ID)
	return nil
}

func testAddProgress() error {
	payload := map[string]interface{}{
		"weight_kg":   68.5,
		"recorded_on": today.Format("2006-01-02"),
	}
	return call(http.MethodPost, "/v1/customers/"+createdIDs["customer"]+"/progress", payload, http.StatusCreated, nil)
}

func testCreateGoal() error {
	payload := map[string]interface{}{
		"target_weight_kg": 64,
		"start_date":       today.Format("2006-01-02"),
		"end_date":         today.AddDate(0, 0, 120).Format("2006-01-02"),
	}
	return call(http.MethodPost, "/v1/customers/"+createdIDs["customer"]+"/goals", payload, http.StatusCreated, nil)
}

func testDailyIntake() error {
	var result struct {
		Result struct {
			TotalDailyCalories float64 `json:"total_daily_calories"`
			GoalType           string  `json:"goal_type"`
		} `json:"result"`
	}
	if err := call(http.MethodGet, "/v1/customers/"+createdIDs["customer"]+"/daily-calorie-intake", nil, http.StatusOK, &result); err != nil {
		return err
	}
	if result.Result.GoalType != "weightloss" {
		return fmt.Errorf("expected weightloss goal, got %q", result.Result.GoalType)
	}
	if result.Result.TotalDailyCalories <= 0 {
		return fmt.Errorf("expected positive daily calories, got %.2f", result.Result.TotalDailyCalories)
	}
	return nil
}

func testBatch() error {
	var result struct {
		Reports []json.RawMessage `json:"reports"`
	}
	payload := map[string]interface{}{
		"customer_ids":    []int64{mustInt(createdIDs["customer"])},
		"from_start_date": true,
	}
	if err := call(http.MethodPost, "/v1/calories/batch", payload, http.StatusOK, &result); err != nil {
		return err
	}
	if len(result.Reports) != 1 {
		return fmt.Errorf("expected 1 report, got %d", len(result.Reports))
	}
	return nil
}

func testCreateReport() error {
	var result struct {
		ID        string `json:"id"`
		SizeBytes int64  `json:"size_bytes"`
	}
	payload := map[string]interface{}{
		"customer_ids": []int64{mustInt(createdIDs["customer"])},
		"format":       "csv",
	}
	if err := call(http.MethodPost, "/v1/reports", payload, http.StatusCreated, &result); err != nil {
		return err
	}
	if result.SizeBytes == 0 {
		return fmt.Errorf("report is empty")
	}
	createdIDs["report"] = result.ID
	return nil
}

func testDownloadReport() error {
	req, err := http.NewRequest(http.MethodGet, apiBase+"/v1/reports/"+createdIDs["report"]+"/download", nil)
	if err != nil {
		return err
	}
	addAuth(req)

	// follows the redirect to S3 when blob mode is s3
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return readStatusError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(data, []byte("customer_id,")) {
		return fmt.Errorf("unexpected CSV header: %.40q", data)
	}
	return nil
}

func testDeleteReport() error {
	if err := call(http.MethodDelete, "/v1/reports/"+createdIDs["report"], nil, http.StatusNoContent, nil); err != nil {
		return err
	}
	delete(createdIDs, "report")
	return nil
}

// cleanup removes whatever the run created, customer first so the gym can go.
func cleanup() {
	for _, item := range []struct{ key, path string }{
		{"report", "/v1/reports/"},
		{"customer", "/v1/customers/"},
		{"gym", "/v1/gyms/"},
	} {
		id, ok := createdIDs[item.key]
		if !ok {
			continue
		}
		if err := call(http.MethodDelete, item.path+id, nil, http.StatusNoContent, nil); err != nil {
			fmt.Printf("  cleanup %s %s: %v\n", item.key, id, err)
		}
	}
}

func call(method, path string, payload interface{}, wantStatus int, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, apiBase+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return readStatusError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode failed: %w", err)
		}
	}
	return nil
}

func readStatusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
}

func addAuth(req *http.Request) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func mustInt(s string) int64 {
	var v int64
	fmt.Sscan(s, &v)
	return v
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func maskString(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
