package prediction

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/neuralert/stroke-risk-backend/internal/predictor"
)

// Flag is a boolean that also accepts JSON numbers, because clients send
// comorbidity indicators as both true/false and 0/1.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch s {
	case "true":
		*f = true
		return nil
	case "false", "null":
		*f = false
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid boolean value %s", s)
	}
	*f = n != 0
	return nil
}

// predictRequest uses pointers so missing fields can be reported
// individually.
type predictRequest struct {
	Age                 *float64 `json:"age"`
	Gender              *string  `json:"gender"`
	Hypertension        *Flag    `json:"hypertension"`
	HeartDisease        *Flag    `json:"heart_disease"`
	EverMarried         *string  `json:"ever_married"`
	WorkType            *string  `json:"work_type"`
	ResidenceType       *string  `json:"residence_type"`
	AvgGlucoseLevel     *float64 `json:"avg_glucose_level"`
	BMI                 *float64 `json:"bmi"`
	SmokingStatus       *string  `json:"smoking_status"`
	FamilyHistoryStroke *Flag    `json:"family_history_stroke"`
	AlcoholConsumption  *string  `json:"alcohol_consumption"`
}

func (r *predictRequest) missingFields() []string {
	missing := make([]string, 0)
	if r.Age == nil {
		missing = append(missing, "age")
	}
	if r.Gender == nil {
		missing = append(missing, "gender")
	}
	if r.Hypertension == nil {
		missing = append(missing, "hypertension")
	}
	if r.HeartDisease == nil {
		missing = append(missing, "heart_disease")
	}
	if r.EverMarried == nil {
		missing = append(missing, "ever_married")
	}
	if r.WorkType == nil {
		missing = append(missing, "work_type")
	}
	if r.AvgGlucoseLevel == nil {
		missing = append(missing, "avg_glucose_level")
	}
	if r.BMI == nil {
		missing = append(missing, "bmi")
	}
	if r.SmokingStatus == nil {
		missing = append(missing, "smoking_status")
	}
	return missing
}

// validateRanges rejects physiologically impossible values up front so
// they never reach the model.
func (r *predictRequest) validateRanges() error {
	if *r.Age < 0 || *r.Age > 120 {
		return fmt.Errorf("Age must be between 0 and 120")
	}
	if *r.AvgGlucoseLevel < 0 || *r.AvgGlucoseLevel > 500 {
		return fmt.Errorf("Glucose level must be between 0 and 500")
	}
	if *r.BMI < 10 || *r.BMI > 60 {
		return fmt.Errorf("BMI must be between 10 and 60")
	}
	return nil
}

// patient materializes the request into the raw attribute set, applying
// the documented defaults for the optional fields.
func (r *predictRequest) patient() predictor.Patient {
	p := predictor.Patient{
		Age:             *r.Age,
		Gender:          *r.Gender,
		Hypertension:    bool(*r.Hypertension),
		HeartDisease:    bool(*r.HeartDisease),
		EverMarried:     *r.EverMarried,
		WorkType:        *r.WorkType,
		ResidenceType:   "Urban",
		AvgGlucoseLevel: *r.AvgGlucoseLevel,
		BMI:             *r.BMI,
		SmokingStatus:   *r.SmokingStatus,
	}
	if r.ResidenceType != nil {
		p.ResidenceType = *r.ResidenceType
	}
	if r.FamilyHistoryStroke != nil {
		p.FamilyHistoryStroke = bool(*r.FamilyHistoryStroke)
	}
	p.AlcoholConsumption = "Never"
	if r.AlcoholConsumption != nil {
		p.AlcoholConsumption = *r.AlcoholConsumption
	}
	return p
}
