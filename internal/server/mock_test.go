package server

import (
	"context"

	"github.com/agenthands/ragsearch/internal/core/model"
)

type MockSearcher struct {
	Data *model.SearchData
	Err  error

	Calls   int
	Callers []string
	Reqs    []model.RagSearchRequest
}

func (m *MockSearcher) Run(ctx context.Context, caller string, req model.RagSearchRequest) (*model.SearchData, error) {
	m.Calls++
	m.Callers = append(m.Callers, caller)
	m.Reqs = append(m.Reqs, req)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Data, nil
}
