package mocks

import (
	"github.com/stretchr/testify/mock"

	"alfredoptarigan/resume-optimizer/internal/services"
)

type MockPDFParser struct {
	mock.Mock
}

func (m *MockPDFParser) ExtractText(data []byte) (string, error) {
	args := m.Called(data)
	return args.String(0), args.Error(1)
}

func (m *MockPDFParser) ExtractTextWithMetaData(data []byte) (*services.PDFContent, error) {
	args := m.Called(data)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*services.PDFContent), args.Error(1)
}
