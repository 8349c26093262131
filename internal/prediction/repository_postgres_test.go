package prediction

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/neuralert/stroke-risk-backend/internal/predictor"
)

func TestPostgresCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(3, now, now)
	mock.ExpectQuery("INSERT INTO predictions").WillReturnRows(rows)

	p := Prediction{
		UserID:           7,
		RequestID:        "req-1",
		RiskLevel:        "HIGH",
		ProbabilityScore: 0.91,
		Confidence:       "HIGH",
		Patient: predictor.Patient{
			Age:             80,
			Gender:          "Male",
			Hypertension:    true,
			EverMarried:     "Yes",
			WorkType:        "Private",
			ResidenceType:   "Urban",
			AvgGlucoseLevel: 210,
			BMI:             33,
			SmokingStatus:   "smokes",
		},
		ModelName:       "Logistic Regression",
		ModelVersion:    "1.0",
		RiskFactors:     []string{"Hypertension"},
		Recommendations: []string{"Seek immediate medical consultation"},
	}

	created, err := repo.Create(p)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if created.ID != 3 {
		t.Fatalf("expected id 3, got %d", created.ID)
	}
	if created.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now()
	columns := []string{
		"id", "user_id", "request_id", "risk_level", "probability_score", "confidence",
		"age", "gender", "hypertension", "heart_disease", "ever_married", "work_type",
		"residence_type", "avg_glucose_level", "bmi", "smoking_status",
		"family_history_stroke", "alcohol_consumption",
		"model_name", "model_version", "risk_factors", "recommendations",
		"created_at", "updated_at",
	}
	rows := sqlmock.NewRows(columns).
		AddRow(2, 7, "req-2", "HIGH", 0.91, "HIGH",
			80, "Male", true, true, "Yes", "Private",
			"Urban", 210.0, 33.0, "smokes",
			true, "Heavy",
			"Logistic Regression", "1.0", []byte(`["Hypertension"]`), []byte(`["See a doctor"]`),
			now, now).
		AddRow(1, 7, "req-1", "LOW", 0.05, "HIGH",
			28, "Female", false, false, "Yes", "Private",
			"Urban", 85.5, 22.3, "never smoked",
			false, "Never",
			"Logistic Regression", "1.0", []byte(`[]`), []byte(`["Keep it up"]`),
			now.Add(-time.Hour), now.Add(-time.Hour))
	mock.ExpectQuery("FROM predictions").WithArgs(7).WillReturnRows(rows)

	predictions, err := repo.ListByUser(7)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if len(predictions) != 2 {
		t.Fatalf("expected 2 predictions, got %d", len(predictions))
	}
	if predictions[0].RequestID != "req-2" || predictions[0].Patient.Age != 80 {
		t.Fatalf("unexpected first prediction %+v", predictions[0])
	}
	if len(predictions[0].RiskFactors) != 1 || predictions[0].RiskFactors[0] != "Hypertension" {
		t.Fatalf("risk factors not decoded: %+v", predictions[0].RiskFactors)
	}
	if len(predictions[1].RiskFactors) != 0 {
		t.Fatalf("expected empty risk factors, got %+v", predictions[1].RiskFactors)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresDeleteByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("DELETE FROM predictions").WithArgs(11, 4).WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.DeleteByUser(11, 4); err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}

	// wrong owner affects zero rows
	mock.ExpectExec("DELETE FROM predictions").WithArgs(12, 4).WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.DeleteByUser(12, 4); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresStatisticsByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	columns := []string{"count", "low", "moderate", "high", "avg_age", "avg_probability", "recent"}
	rows := sqlmock.NewRows(columns).AddRow(5, 2, 2, 1, 54.2, 0.41, 3)
	mock.ExpectQuery("FROM predictions").WithArgs(7).WillReturnRows(rows)

	stats, err := repo.StatisticsByUser(7)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if stats.TotalPredictions != 5 || stats.RecentPredictions != 3 {
		t.Fatalf("unexpected counts %+v", stats)
	}
	if stats.RiskDistribution["LOW"] != 2 || stats.RiskDistribution["MODERATE"] != 2 || stats.RiskDistribution["HIGH"] != 1 {
		t.Fatalf("unexpected distribution %+v", stats.RiskDistribution)
	}
	if stats.AverageAge != 54.2 || stats.AverageProbability != 0.41 {
		t.Fatalf("unexpected averages %+v", stats)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresStatisticsEmptyUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	columns := []string{"count", "low", "moderate", "high", "avg_age", "avg_probability", "recent"}
	rows := sqlmock.NewRows(columns).AddRow(0, 0, 0, 0, 0.0, 0.0, 0)
	mock.ExpectQuery("FROM predictions").WithArgs(99).WillReturnRows(rows)

	stats, err := repo.StatisticsByUser(99)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if stats.TotalPredictions != 0 || stats.AverageAge != 0 || stats.AverageProbability != 0 {
		t.Fatalf("expected zeroed statistics, got %+v", stats)
	}
	if stats.RiskDistribution == nil {
		t.Fatalf("distribution map must be initialized")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
