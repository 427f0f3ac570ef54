package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the service answers but some checks fail.
	Degraded Status = "degraded"
	// Unhealthy indicates the database is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckMissing indicates the search index has not been created.
	CheckMissing CheckResult = "missing"
	// CheckDisabled indicates faceting is turned off by configuration.
	CheckDisabled CheckResult = "disabled"
	// CheckUnsupported indicates faceting is enabled but the backend cannot aggregate.
	CheckUnsupported CheckResult = "unsupported"
)

// Check names used as keys of Report.Checks.
const (
	CheckDatabase = "database"
	CheckIndex    = "index"
	CheckFaceting = "faceting"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Option configures optional checks.
type Option func(*Service)

// WithIndex adds the search index existence check.
func WithIndex(c IndexChecker) Option {
	return func(s *Service) { s.index = c }
}

// WithFaceting adds a check that the faceting decision made at startup is
// backed by a store able to aggregate.
func WithFaceting(allowed bool, p AggregateProber) Option {
	return func(s *Service) {
		s.facetingAllowed = allowed
		s.aggregates = p
	}
}

// Service coordinates health checks.
type Service struct {
	db              DBPinger
	index           IndexChecker
	aggregates      AggregateProber
	facetingAllowed bool
}

// New creates a Service that always pings db.
func New(db DBPinger, opts ...Option) *Service {
	s := &Service{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 3)

	if err := s.db.Ping(ctx); err != nil {
		checks[CheckDatabase] = CheckError
		return Report{Status: Unhealthy, Checks: checks}
	}
	checks[CheckDatabase] = CheckOK

	if s.index != nil {
		exists, err := s.index.Exists(ctx)
		switch {
		case err != nil:
			checks[CheckIndex] = CheckError
		case !exists:
			checks[CheckIndex] = CheckMissing
		default:
			checks[CheckIndex] = CheckOK
		}
	}

	if s.aggregates != nil {
		switch {
		case !s.facetingAllowed:
			checks[CheckFaceting] = CheckDisabled
		case !s.aggregates.SupportsAggregate(ctx):
			checks[CheckFaceting] = CheckUnsupported
		default:
			checks[CheckFaceting] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v != CheckOK && v != CheckDisabled {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
