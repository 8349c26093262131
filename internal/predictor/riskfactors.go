package predictor

import (
	"fmt"
	"strings"
)

// identifyRiskFactors runs the rule set over the raw (unencoded) patient
// attributes. The order of the rules is fixed and part of the contract:
// downstream recommendation matching and stored history depend on it.
func identifyRiskFactors(patient Patient) []string {
	factors := make([]string, 0, 8)

	if patient.Age > 65 {
		factors = append(factors, fmt.Sprintf("Advanced age (%d years)", int(patient.Age)))
	} else if patient.Age > 50 {
		factors = append(factors, fmt.Sprintf("Older age (%d years)", int(patient.Age)))
	}

	if patient.Hypertension {
		factors = append(factors, "Hypertension")
	}
	if patient.HeartDisease {
		factors = append(factors, "Heart disease")
	}

	if patient.AvgGlucoseLevel > 140 {
		factors = append(factors, fmt.Sprintf("High glucose level (%.1f mg/dL)", patient.AvgGlucoseLevel))
	} else if patient.AvgGlucoseLevel > 100 {
		factors = append(factors, fmt.Sprintf("Elevated glucose level (%.1f mg/dL)", patient.AvgGlucoseLevel))
	}

	if patient.BMI > 30 {
		factors = append(factors, fmt.Sprintf("Obesity (BMI: %.1f)", patient.BMI))
	} else if patient.BMI > 25 {
		factors = append(factors, fmt.Sprintf("Overweight (BMI: %.1f)", patient.BMI))
	}

	smoking := strings.ToLower(patient.SmokingStatus)
	if strings.Contains(smoking, "smokes") {
		factors = append(factors, "Current smoking")
	} else if strings.Contains(smoking, "formerly") {
		factors = append(factors, "Former smoking history")
	}

	if patient.FamilyHistoryStroke {
		factors = append(factors, "Family history of stroke")
	}

	if strings.Contains(strings.ToLower(patient.AlcoholConsumption), "heavy") {
		factors = append(factors, "Heavy alcohol consumption")
	}

	if len(factors) == 0 {
		factors = append(factors, "No major risk factors identified")
	}
	return factors
}
