// Package predictor maps raw patient attributes to a feature vector,
// scores it with a pre-fitted logistic model and derives a risk level,
// confidence band, risk factors and recommendations.
package predictor

import (
	"math"

	"github.com/neuralert/stroke-risk-backend/internal/logger"
)

// Patient holds the raw attributes a prediction is made from.
type Patient struct {
	Age                 float64 `json:"age"`
	Gender              string  `json:"gender"`
	Hypertension        bool    `json:"hypertension"`
	HeartDisease        bool    `json:"heart_disease"`
	EverMarried         string  `json:"ever_married"`
	WorkType            string  `json:"work_type"`
	ResidenceType       string  `json:"residence_type"`
	AvgGlucoseLevel     float64 `json:"avg_glucose_level"`
	BMI                 float64 `json:"bmi"`
	SmokingStatus       string  `json:"smoking_status"`
	FamilyHistoryStroke bool    `json:"family_history_stroke"`
	AlcoholConsumption  string  `json:"alcohol_consumption"`
}

// Result is the full outcome of a single prediction.
type Result struct {
	Prediction       int      `json:"prediction"`
	ProbabilityScore float64  `json:"probability_score"`
	RiskLevel        string   `json:"risk_level"`
	Confidence       string   `json:"confidence"`
	RiskFactors      []string `json:"risk_factors"`
	Recommendations  []string `json:"recommendations"`
	ModelName        string   `json:"model_name"`
	ModelVersion     string   `json:"model_version"`
}

// Info describes the loaded model for the /api/info endpoint.
type Info struct {
	ModelName    string             `json:"model_name"`
	ModelVersion string             `json:"model_version"`
	FeatureCount int                `json:"feature_count"`
	Features     []string           `json:"features"`
	Metrics      map[string]float64 `json:"metrics"`
	Source       string             `json:"source"`
}

// Predictor scores patients with a loaded bundle. It is constructed once
// at startup and is read-only afterwards, so it is safe for concurrent
// use by request handlers.
type Predictor struct {
	bundle *Bundle
	log    *logger.Logger
}

func New(bundle *Bundle, log *logger.Logger) *Predictor {
	return &Predictor{bundle: bundle, log: log}
}

// Predict runs the full pipeline: preprocess, score, classify, explain.
// It never fails; preprocessing falls back to a zero vector on internal
// inconsistencies.
func (p *Predictor) Predict(patient Patient) Result {
	features := p.Features(patient)
	probability := p.score(features)

	riskLevel := classifyRiskLevel(probability)
	riskFactors := identifyRiskFactors(patient)

	predicted := 0
	if probability >= 0.5 {
		predicted = 1
	}

	return Result{
		Prediction:       predicted,
		ProbabilityScore: probability,
		RiskLevel:        riskLevel,
		Confidence:       confidenceFor(probability),
		RiskFactors:      riskFactors,
		Recommendations:  generateRecommendations(riskLevel, riskFactors),
		ModelName:        p.bundle.ModelName,
		ModelVersion:     p.bundle.ModelVersion,
	}
}

func (p *Predictor) Info() Info {
	return Info{
		ModelName:    p.bundle.ModelName,
		ModelVersion: p.bundle.ModelVersion,
		FeatureCount: len(p.bundle.FeatureNames),
		Features:     p.bundle.FeatureNames,
		Metrics:      p.bundle.Metrics,
		Source:       p.bundle.Source,
	}
}

// score applies the logistic model to a scaled feature vector.
func (p *Predictor) score(features []float64) float64 {
	z := p.bundle.Model.Intercept
	for i, w := range p.bundle.Model.Coefficients {
		z += w * features[i]
	}
	return 1.0 / (1.0 + math.Exp(-z))
}

// classifyRiskLevel buckets a probability into LOW/MODERATE/HIGH.
// Boundaries are inclusive upwards: exactly 0.3 is MODERATE, exactly
// 0.7 is HIGH.
func classifyRiskLevel(probability float64) string {
	switch {
	case probability < 0.3:
		return "LOW"
	case probability < 0.7:
		return "MODERATE"
	default:
		return "HIGH"
	}
}

// confidenceFor evaluates the tightest band first: probabilities near
// either extreme are the most trustworthy.
func confidenceFor(probability float64) string {
	switch {
	case probability < 0.2 || probability > 0.8:
		return "HIGH"
	case probability < 0.4 || probability > 0.6:
		return "MEDIUM"
	default:
		return "LOW"
	}
}
