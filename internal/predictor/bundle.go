package predictor

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

// Default artifact shipped with the binary. MODEL_PATH overrides it.
//
//go:embed stroke_model.json
var embeddedBundle []byte

// LogisticModel holds the fitted binary classifier weights.
type LogisticModel struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// Scaler holds the fitted standard scaler parameters, one entry per
// feature in bundle order.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Bundle is the serialized classifier artifact: model weights, scaler,
// per-field category encoders, the ordered feature-name list and model
// metadata.
type Bundle struct {
	ModelName    string                    `json:"model_name"`
	ModelVersion string                    `json:"model_version"`
	Model        LogisticModel             `json:"model"`
	Scaler       Scaler                    `json:"scaler"`
	Encoders     map[string]map[string]int `json:"encoders"`
	FeatureNames []string                  `json:"feature_names"`
	Metrics      map[string]float64        `json:"metrics"`

	// Source records where the bundle was loaded from.
	Source string `json:"-"`
}

// LoadBundle reads a classifier artifact from path, or falls back to the
// embedded default when path is empty.
func LoadBundle(path string) (*Bundle, error) {
	raw := embeddedBundle
	source := "embedded"
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read model bundle: %w", err)
		}
		raw = b
		source = path
	}

	var bundle Bundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return nil, fmt.Errorf("decode model bundle: %w", err)
	}
	bundle.Source = source

	if err := bundle.validate(); err != nil {
		return nil, fmt.Errorf("invalid model bundle %s: %w", source, err)
	}
	return &bundle, nil
}

func (b *Bundle) validate() error {
	n := len(b.FeatureNames)
	if n == 0 {
		return fmt.Errorf("empty feature name list")
	}
	if len(b.Model.Coefficients) != n {
		return fmt.Errorf("coefficient count %d does not match %d features", len(b.Model.Coefficients), n)
	}
	if len(b.Scaler.Mean) != n || len(b.Scaler.Scale) != n {
		return fmt.Errorf("scaler size does not match %d features", n)
	}
	for field, classes := range b.Encoders {
		if len(classes) == 0 {
			return fmt.Errorf("encoder for %q has no classes", field)
		}
	}
	return nil
}
