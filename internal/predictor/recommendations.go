package predictor

import "strings"

// Disclaimer is appended to every recommendation list.
const Disclaimer = "⚠️ Always consult healthcare professionals before making medical decisions"

var baseRecommendations = map[string][]string{
	"LOW": {
		"Maintain a healthy lifestyle with regular exercise",
		"Follow a balanced diet low in sodium and saturated fats",
		"Schedule regular health check-ups",
		"Monitor blood pressure regularly",
	},
	"MODERATE": {
		"Consult with your healthcare provider about stroke prevention",
		"Consider lifestyle modifications to reduce risk factors",
		"Monitor blood pressure and glucose levels regularly",
		"Implement stress management techniques",
		"Consider medication review with your doctor",
	},
	"HIGH": {
		"Seek immediate medical consultation for stroke prevention strategies",
		"Work closely with healthcare team to manage risk factors",
		"Consider medication for blood pressure and cholesterol management",
		"Implement aggressive lifestyle changes",
		"Regular monitoring by healthcare professionals",
	},
}

// generateRecommendations keys the base list off the risk level, then
// adds targeted items by substring-matching the generated risk factor
// text. The disclaimer always comes last.
func generateRecommendations(riskLevel string, riskFactors []string) []string {
	recommendations := make([]string, 0, 10)
	recommendations = append(recommendations, baseRecommendations[riskLevel]...)

	joined := strings.ToLower(strings.Join(riskFactors, " "))

	if strings.Contains(joined, "smoking") {
		recommendations = append(recommendations, "Quit smoking immediately - seek smoking cessation support")
	}
	if strings.Contains(joined, "obesity") || strings.Contains(joined, "overweight") {
		recommendations = append(recommendations, "Work with a nutritionist for healthy weight management")
	}
	if strings.Contains(joined, "hypertension") {
		recommendations = append(recommendations, "Follow prescribed blood pressure medications and monitor regularly")
	}
	if strings.Contains(joined, "glucose") {
		recommendations = append(recommendations, "Monitor blood sugar levels and follow diabetic management plan")
	}

	return append(recommendations, Disclaimer)
}
