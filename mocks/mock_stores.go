package mocks

import (
	"context"
	"sync"

	"github.com/gofiber/fiber/v2"

	"cryptoai/model"
	"cryptoai/utils/errors"
)

// MockUserStore keeps users in a map, ordered by insertion for All.
type MockUserStore struct {
	mu    sync.Mutex
	order []string
	users map[string]model.User
}

func NewMockUserStore(users ...model.User) *MockUserStore {
	s := &MockUserStore{users: make(map[string]model.User)}
	for _, u := range users {
		s.order = append(s.order, u.ID)
		s.users[u.ID] = u
	}
	return s
}

func (s *MockUserStore) ByID(ctx context.Context, userID string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return model.User{}, errors.New(fiber.StatusNotFound, errors.ErrNotFound)
	}
	return user, nil
}

func (s *MockUserStore) All(ctx context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.users[id])
	}
	return out, nil
}

func (s *MockUserStore) Ensure(ctx context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.users[user.ID]; ok {
		return existing, nil
	}
	s.order = append(s.order, user.ID)
	s.users[user.ID] = user
	return user, nil
}

// SetBalance overwrites a user's balance.
func (s *MockUserStore) SetBalance(userID string, balance float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := s.users[userID]
	user.Balance = balance
	s.users[userID] = user
}

// MockStrategyStore is an in-memory StrategyStore.
type MockStrategyStore struct {
	mu         sync.Mutex
	Strategies []model.Strategy
}

func (s *MockStrategyStore) Create(ctx context.Context, strategy model.Strategy) (model.Strategy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	strategy.Active = true
	s.Strategies = append(s.Strategies, strategy)
	return strategy, nil
}

func (s *MockStrategyStore) ActiveByUser(ctx context.Context, userID string) ([]model.Strategy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Strategy
	for _, st := range s.Strategies {
		if st.Active && st.UserID == userID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *MockStrategyStore) AllActive(ctx context.Context) ([]model.Strategy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Strategy
	for _, st := range s.Strategies {
		if st.Active {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *MockStrategyStore) Deactivate(ctx context.Context, strategyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Strategies {
		if s.Strategies[i].ID == strategyID {
			s.Strategies[i].Active = false
		}
	}
	return nil
}
