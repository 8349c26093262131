package predictor

// Features builds the fixed-order scaled feature vector for a patient.
// The contract mirrors the fitted pipeline: categorical values go through
// the bundle's category encoders, unseen categories fall back to code 0
// with a logged warning, missing attributes default to 0, and any
// internal inconsistency yields an all-zero vector rather than an error.
func (p *Predictor) Features(patient Patient) []float64 {
	n := len(p.bundle.FeatureNames)
	raw := make([]float64, n)

	for i, name := range p.bundle.FeatureNames {
		raw[i] = p.rawValue(name, patient)
	}

	if len(p.bundle.Scaler.Mean) != n || len(p.bundle.Scaler.Scale) != n {
		p.log.Error("scaler does not match feature list, returning zero vector",
			"features", n, "mean", len(p.bundle.Scaler.Mean), "scale", len(p.bundle.Scaler.Scale))
		return make([]float64, n)
	}

	scaled := make([]float64, n)
	for i, v := range raw {
		scale := p.bundle.Scaler.Scale[i]
		if scale == 0 {
			scale = 1
		}
		scaled[i] = (v - p.bundle.Scaler.Mean[i]) / scale
	}
	return scaled
}

func (p *Predictor) rawValue(name string, patient Patient) float64 {
	switch name {
	case "age":
		return patient.Age
	case "avg_glucose_level":
		return patient.AvgGlucoseLevel
	case "bmi":
		return patient.BMI
	case "hypertension":
		return boolToFloat(patient.Hypertension)
	case "heart_disease":
		return boolToFloat(patient.HeartDisease)
	case "family_history_stroke":
		return boolToFloat(patient.FamilyHistoryStroke)
	case "gender":
		return p.encode(name, patient.Gender)
	case "ever_married":
		return p.encode(name, patient.EverMarried)
	case "work_type":
		return p.encode(name, patient.WorkType)
	case "Residence_type":
		return p.encode(name, patient.ResidenceType)
	case "smoking_status":
		return p.encode(name, patient.SmokingStatus)
	default:
		p.log.Warn("unknown feature, using default value 0", "feature", name)
		return 0
	}
}

// encode maps a categorical value through the fitted encoder. Unseen
// categories map to 0 so a prediction is always produced.
func (p *Predictor) encode(field, value string) float64 {
	classes, ok := p.bundle.Encoders[field]
	if !ok {
		p.log.Warn("no encoder for field, using default value 0", "field", field)
		return 0
	}
	code, ok := classes[value]
	if !ok {
		p.log.Warn("unknown category, using default code 0", "field", field, "value", value)
		return 0
	}
	return float64(code)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
