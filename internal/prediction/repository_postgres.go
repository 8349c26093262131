package prediction

import (
	"database/sql"
	"encoding/json"
	"errors"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	predictionColumns = `
		id, user_id, request_id, risk_level, probability_score, confidence,
		age, gender, hypertension, heart_disease, ever_married, work_type,
		residence_type, avg_glucose_level, bmi, smoking_status,
		family_history_stroke, alcohol_consumption,
		model_name, model_version, risk_factors, recommendations,
		created_at, updated_at
	`

	insertPredictionQuery = `
		INSERT INTO predictions (
			user_id, request_id, risk_level, probability_score, confidence,
			age, gender, hypertension, heart_disease, ever_married, work_type,
			residence_type, avg_glucose_level, bmi, smoking_status,
			family_history_stroke, alcohol_consumption,
			model_name, model_version, risk_factors, recommendations
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING id, created_at, updated_at
	`

	listPredictionsQuery = `
		SELECT ` + predictionColumns + `
		FROM predictions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	deletePredictionQuery = `DELETE FROM predictions WHERE id = $1 AND user_id = $2`

	statisticsQuery = `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE risk_level = 'LOW'),
			COUNT(*) FILTER (WHERE risk_level = 'MODERATE'),
			COUNT(*) FILTER (WHERE risk_level = 'HIGH'),
			COALESCE(AVG(age), 0),
			COALESCE(AVG(probability_score), 0),
			COUNT(*) FILTER (WHERE created_at >= now() - interval '7 days')
		FROM predictions
		WHERE user_id = $1
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(p Prediction) (Prediction, error) {
	riskFactors, err := json.Marshal(p.RiskFactors)
	if err != nil {
		return Prediction{}, err
	}
	recommendations, err := json.Marshal(p.Recommendations)
	if err != nil {
		return Prediction{}, err
	}

	err = r.db.QueryRow(
		insertPredictionQuery,
		p.UserID,
		p.RequestID,
		p.RiskLevel,
		p.ProbabilityScore,
		p.Confidence,
		int(p.Patient.Age),
		p.Patient.Gender,
		p.Patient.Hypertension,
		p.Patient.HeartDisease,
		p.Patient.EverMarried,
		p.Patient.WorkType,
		p.Patient.ResidenceType,
		p.Patient.AvgGlucoseLevel,
		p.Patient.BMI,
		p.Patient.SmokingStatus,
		p.Patient.FamilyHistoryStroke,
		p.Patient.AlcoholConsumption,
		p.ModelName,
		p.ModelVersion,
		riskFactors,
		recommendations,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Prediction{}, err
	}
	return p, nil
}

func (r *PostgresRepository) ListByUser(userID int) ([]Prediction, error) {
	rows, err := r.db.Query(listPredictionsQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	predictions := make([]Prediction, 0)
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

func (r *PostgresRepository) DeleteByUser(id, userID int) error {
	result, err := r.db.Exec(deletePredictionQuery, id, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) StatisticsByUser(userID int) (Statistics, error) {
	stats := emptyStatistics()
	var low, moderate, high int

	err := r.db.QueryRow(statisticsQuery, userID).Scan(
		&stats.TotalPredictions,
		&low,
		&moderate,
		&high,
		&stats.AverageAge,
		&stats.AverageProbability,
		&stats.RecentPredictions,
	)
	if err != nil {
		return Statistics{}, err
	}

	stats.RiskDistribution["LOW"] = low
	stats.RiskDistribution["MODERATE"] = moderate
	stats.RiskDistribution["HIGH"] = high
	return stats, nil
}

func scanPrediction(scanner rowScanner) (Prediction, error) {
	var (
		p               Prediction
		age             int
		riskFactors     []byte
		recommendations []byte
	)

	err := scanner.Scan(
		&p.ID,
		&p.UserID,
		&p.RequestID,
		&p.RiskLevel,
		&p.ProbabilityScore,
		&p.Confidence,
		&age,
		&p.Patient.Gender,
		&p.Patient.Hypertension,
		&p.Patient.HeartDisease,
		&p.Patient.EverMarried,
		&p.Patient.WorkType,
		&p.Patient.ResidenceType,
		&p.Patient.AvgGlucoseLevel,
		&p.Patient.BMI,
		&p.Patient.SmokingStatus,
		&p.Patient.FamilyHistoryStroke,
		&p.Patient.AlcoholConsumption,
		&p.ModelName,
		&p.ModelVersion,
		&riskFactors,
		&recommendations,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Prediction{}, ErrNotFound
		}
		return Prediction{}, err
	}

	p.Patient.Age = float64(age)
	if err := json.Unmarshal(riskFactors, &p.RiskFactors); err != nil {
		p.RiskFactors = []string{}
	}
	if err := json.Unmarshal(recommendations, &p.Recommendations); err != nil {
		p.Recommendations = []string{}
	}
	return p, nil
}
