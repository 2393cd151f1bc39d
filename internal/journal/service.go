package journal

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tonhe/sysglance/internal/runner"
)

// ErrBusy is returned when a retrieval is requested while another runs.
var ErrBusy = errors.New("journal request already in progress")

// State is the retrieval state machine's position.
type State int

const (
	StateIdle State = iota
	StateRequesting
	StateSucceeded
	StatePermissionDenied
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateSucceeded:
		return "succeeded"
	case StatePermissionDenied:
		return "permission denied"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

func stateFor(o Outcome) State {
	switch o {
	case OutcomeOK:
		return StateSucceeded
	case OutcomePermissionDenied:
		return StatePermissionDenied
	case OutcomeCancelled:
		return StateCancelled
	}
	return StateFailed
}

// Service holds the current query and result for each scope. The system
// journal is read through the elevator; once an elevated read succeeds the
// elevator stays authenticated and periodic refreshes reuse it.
type Service struct {
	mu       sync.RWMutex
	runner   runner.Runner
	elevator *runner.Elevator
	log      zerolog.Logger
	queries  map[Scope]Query
	results  map[Scope]Result
	state    State
	last     State
}

// NewService creates a Service whose queries fetch lines lines.
func NewService(r runner.Runner, elevator *runner.Elevator, lines int, log zerolog.Logger) *Service {
	q := DefaultQuery()
	if lines > 0 {
		q.MaxLines = lines
	}
	return &Service{
		runner:   r,
		elevator: elevator,
		log:      log,
		queries:  map[Scope]Query{System: q, User: q},
		results: map[Scope]Result{
			System: {Outcome: OutcomeEmpty},
			User:   {Outcome: OutcomeEmpty},
		},
	}
}

// Query returns the active query of a scope.
func (s *Service) Query(scope Scope) Query {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queries[scope]
}

// SetQuery replaces the query of a scope. It takes effect on the next
// retrieval.
func (s *Service) SetQuery(scope Scope, q Query) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries[scope] = q
}

// Current returns the published result of a scope.
func (s *Service) Current(scope Scope) Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results[scope]
}

// State returns the current state and the terminal state of the last
// completed request.
func (s *Service) State() (current, last State) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.last
}

// Authenticated reports whether elevated reads are enabled.
func (s *Service) Authenticated() bool {
	return s.elevator != nil && s.elevator.Authenticated()
}

func (s *Service) begin() (map[Scope]Query, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRequesting {
		return nil, ErrBusy
	}
	s.state = StateRequesting
	return map[Scope]Query{System: s.queries[System], User: s.queries[User]}, nil
}

// finish publishes results and returns to idle. A cancelled result leaves
// the previous text of its scope in place.
func (s *Service) finish(terminal State, results map[Scope]Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for scope, res := range results {
		if res.Outcome == OutcomeCancelled {
			continue
		}
		s.results[scope] = res
	}
	s.last = terminal
	s.state = StateIdle
}

func (s *Service) fetch(ctx context.Context, scope Scope, q Query, elevated bool) Result {
	args := BuildArgs(scope, q)

	var (
		out runner.Output
		err error
	)
	if elevated {
		out, err = s.elevator.Run(ctx, "journalctl", args...)
	} else {
		out, err = s.runner.Run(ctx, "journalctl", args...)
	}
	if elevated && errors.Is(err, runner.ErrCancelled) {
		s.log.Info().Err(err).Str("scope", scope.String()).Msg("elevation prompt not answered")
		return Result{Outcome: OutcomeCancelled}
	}
	if err != nil {
		s.log.Warn().Err(err).Str("scope", scope.String()).Bool("elevated", elevated).Msg("journalctl failed to start")
		return launchFailure(scope, err)
	}

	res := Classify(scope, elevated, q, out)
	s.log.Debug().Str("scope", scope.String()).Str("outcome", res.Outcome.String()).Msg("journal fetched")
	return res
}

// Refresh re-reads both journals. The system journal is only read when
// elevated reads are enabled; otherwise its slot keeps its current value.
func (s *Service) Refresh(ctx context.Context) error {
	queries, err := s.begin()
	if err != nil {
		return err
	}

	user := s.fetch(ctx, User, queries[User], false)
	results := map[Scope]Result{User: user}
	terminal := stateFor(user.Outcome)
	if s.Authenticated() {
		system := s.fetch(ctx, System, queries[System], true)
		results[System] = system
		terminal = stateFor(system.Outcome)
	}

	s.finish(terminal, results)
	return nil
}

// RequestElevation reads the system journal through the privilege
// launcher. A successful read enables elevated reads for later refreshes;
// a dismissed prompt keeps the previously displayed text.
func (s *Service) RequestElevation(ctx context.Context) (Outcome, error) {
	if s.elevator == nil {
		return OutcomeEmpty, errors.New("no privilege launcher configured")
	}
	queries, err := s.begin()
	if err != nil {
		return OutcomeEmpty, err
	}

	res := s.fetch(ctx, System, queries[System], true)
	if res.Outcome == OutcomeOK {
		s.elevator.SetAuthenticated(true)
	}
	s.finish(stateFor(res.Outcome), map[Scope]Result{System: res})
	return res.Outcome, nil
}
