package ext

import (
	"github.com/stretchr/testify/mock"
)

type MockAmbassador struct {
	mock.Mock
}

func NewMockAmbassador() *MockAmbassador {
	return &MockAmbassador{}
}

func (m *MockAmbassador) Environ() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockAmbassador) LookPath(file string, searchPath []string) (string, error) {
	args := m.Called(file, searchPath)
	return args.String(0), args.Error(1)
}
