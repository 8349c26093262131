package prediction

import (
	"github.com/neuralert/stroke-risk-backend/internal/logger"
	"github.com/neuralert/stroke-risk-backend/internal/predictor"
)

type Service struct {
	repo Repository
	log  *logger.Logger
}

func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Save records a completed prediction for a user.
func (s *Service) Save(userID int, requestID string, patient predictor.Patient, result predictor.Result) (Prediction, error) {
	saved, err := s.repo.Create(Prediction{
		UserID:           userID,
		RequestID:        requestID,
		RiskLevel:        result.RiskLevel,
		ProbabilityScore: result.ProbabilityScore,
		Confidence:       result.Confidence,
		Patient:          patient,
		ModelName:        result.ModelName,
		ModelVersion:     result.ModelVersion,
		RiskFactors:      result.RiskFactors,
		Recommendations:  result.Recommendations,
	})
	if err != nil {
		return Prediction{}, err
	}
	s.log.Info("prediction saved", "id", saved.ID, "user_id", userID, "risk_level", saved.RiskLevel)
	return saved, nil
}

func (s *Service) History(userID int) ([]Prediction, error) {
	return s.repo.ListByUser(userID)
}

// Statistics aggregates a user's history. Averages are rounded the way
// the API reports them: age to one decimal, probability to three.
func (s *Service) Statistics(userID int) (Statistics, error) {
	stats, err := s.repo.StatisticsByUser(userID)
	if err != nil {
		return Statistics{}, err
	}
	stats.AverageAge = round1(stats.AverageAge)
	stats.AverageProbability = round3(stats.AverageProbability)
	return stats, nil
}

func (s *Service) Delete(id, userID int) error {
	return s.repo.DeleteByUser(id, userID)
}
