package facetdex

import (
	"context"

	healthuc "github.com/kailas-cloud/facetdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/facetdex/internal/usecase/search"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, p searchuc.Params) (*searchuc.Response, error)
}

func (m *mockSearchUC) Search(ctx context.Context, p searchuc.Params) (*searchuc.Response, error) {
	return m.searchFn(ctx, p)
}

// --- indexUseCase mock ---

type mockIndexUC struct {
	created bool
	err     error
	dropped bool
}

func (m *mockIndexUC) EnsureCreated(context.Context) (bool, error) { return m.created, m.err }

func (m *mockIndexUC) Drop(context.Context) error {
	m.dropped = true
	return m.err
}

func (m *mockIndexUC) Exists(context.Context) (bool, error) { return m.created, m.err }

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }
