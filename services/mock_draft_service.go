package services

import (
	"time"

	"github.com/stretchr/testify/mock"

	"go-facilities-admin/forms"
)

// Ensure MockDraftService implements DraftServiceInterface
var _ DraftServiceInterface = (*MockDraftService)(nil)

// MockDraftService is a mock implementation for testing and extends `mock.Mock`
type MockDraftService struct {
	mock.Mock
}

// Create (Mocked)
func (m *MockDraftService) Create(owner, kind string) (string, error) {
	args := m.Called(owner, kind)
	return args.String(0), args.Error(1)
}

// With (Mocked). When the first return value is a draft, fn runs on it.
func (m *MockDraftService) With(owner, id string, fn func(forms.Draft) error) error {
	args := m.Called(owner, id)
	if d, ok := args.Get(0).(forms.Draft); ok {
		return fn(d)
	}
	return args.Error(1)
}

// Discard (Mocked)
func (m *MockDraftService) Discard(owner, id string) bool {
	args := m.Called(owner, id)
	return args.Bool(0)
}

// Sweep (Mocked)
func (m *MockDraftService) Sweep(idle time.Duration) int {
	args := m.Called(idle)
	return args.Int(0)
}
