package prediction

import (
	"errors"
	"sort"
	"sync"
	"time"
)

var ErrNotFound = errors.New("prediction not found")

type Repository interface {
	Create(p Prediction) (Prediction, error)
	ListByUser(userID int) ([]Prediction, error)
	DeleteByUser(id, userID int) error
	StatisticsByUser(userID int) (Statistics, error)
}

// InMemoryRepository backs handler and service tests.
type InMemoryRepository struct {
	mu          sync.RWMutex
	predictions []Prediction
	nextID      int
}

func NewInMemoryRepository(seed []Prediction) *InMemoryRepository {
	repo := &InMemoryRepository{
		predictions: make([]Prediction, 0, len(seed)),
		nextID:      1,
	}

	maxID := 0
	for _, p := range seed {
		repo.predictions = append(repo.predictions, p)
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	repo.nextID = maxID + 1
	return repo
}

func (r *InMemoryRepository) Create(p Prediction) (Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	r.predictions = append(r.predictions, p)
	return p, nil
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Prediction, 0)
	for _, p := range r.predictions {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *InMemoryRepository) DeleteByUser(id, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.predictions {
		if p.ID == id && p.UserID == userID {
			r.predictions = append(r.predictions[:i], r.predictions[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) StatisticsByUser(userID int) (Statistics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := emptyStatistics()
	var ageSum, probSum float64
	weekAgo := time.Now().UTC().AddDate(0, 0, -7)

	for _, p := range r.predictions {
		if p.UserID != userID {
			continue
		}
		stats.TotalPredictions++
		stats.RiskDistribution[p.RiskLevel]++
		ageSum += p.Patient.Age
		probSum += p.ProbabilityScore
		if p.CreatedAt.After(weekAgo) {
			stats.RecentPredictions++
		}
	}

	if stats.TotalPredictions > 0 {
		stats.AverageAge = ageSum / float64(stats.TotalPredictions)
		stats.AverageProbability = probSum / float64(stats.TotalPredictions)
	}
	return stats, nil
}
