package prediction

import (
	"math"
	"time"

	"github.com/neuralert/stroke-risk-backend/internal/predictor"
)

// Prediction is one stored risk assessment: the model output plus a
// snapshot of the inputs that produced it. Rows are immutable after
// creation except for timestamp bookkeeping.
type Prediction struct {
	ID        int    `json:"id"`
	UserID    int    `json:"user_id"`
	RequestID string `json:"request_id"`

	RiskLevel        string  `json:"risk_level"`
	ProbabilityScore float64 `json:"probability_score"`
	Confidence       string  `json:"confidence"`

	Patient predictor.Patient `json:"patient"`

	ModelName       string   `json:"model_name"`
	ModelVersion    string   `json:"model_version"`
	RiskFactors     []string `json:"risk_factors"`
	Recommendations []string `json:"recommendations"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// Statistics aggregates a user's prediction history. A user with no
// predictions gets the zero value of every field.
type Statistics struct {
	TotalPredictions   int            `json:"total_predictions"`
	RiskDistribution   map[string]int `json:"risk_distribution"`
	AverageAge         float64        `json:"average_age"`
	RecentPredictions  int            `json:"recent_predictions"`
	AverageProbability float64        `json:"average_probability"`
}

func emptyStatistics() Statistics {
	return Statistics{
		RiskDistribution: map[string]int{"LOW": 0, "MODERATE": 0, "HIGH": 0},
	}
}

// Serialize shapes a prediction the way clients consume it, with the
// patient snapshot collapsed into a summary and presentation hints for
// the history view.
func (p Prediction) Serialize() map[string]any {
	return map[string]any{
		"id":                p.ID,
		"user_id":           p.UserID,
		"request_id":        p.RequestID,
		"risk_level":        p.RiskLevel,
		"probability_score": p.ProbabilityScore,
		"confidence":        p.Confidence,
		"risk_factors":      p.RiskFactors,
		"recommendations":   p.Recommendations,
		"patient_summary": map[string]any{
			"age":            int(p.Patient.Age),
			"gender":         p.Patient.Gender,
			"bmi":            round1(p.Patient.BMI),
			"glucose_level":  round1(p.Patient.AvgGlucoseLevel),
			"hypertension":   p.Patient.Hypertension,
			"heart_disease":  p.Patient.HeartDisease,
			"smoking_status": p.Patient.SmokingStatus,
		},
		"model_info": map[string]any{
			"model_name":    p.ModelName,
			"model_version": p.ModelVersion,
		},
		"created_at": p.CreatedAt.UTC().Format(time.RFC3339),
		"risk_color": riskColor(p.RiskLevel),
		"risk_emoji": riskEmoji(p.RiskLevel),
	}
}

func riskColor(level string) string {
	switch level {
	case "LOW":
		return "#4caf50"
	case "MODERATE":
		return "#ff9800"
	case "HIGH":
		return "#f44336"
	default:
		return "#757575"
	}
}

func riskEmoji(level string) string {
	switch level {
	case "LOW":
		return "🟢"
	case "MODERATE":
		return "🟡"
	case "HIGH":
		return "🔴"
	default:
		return "⚪"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
