// Package services holds the client-side business logic: the lookup
// orchestrator that sequences dependent API calls into one search journey,
// and the intake flows that create customers and tickets.
package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/kylodelgado/nychapp/internal/api"
	"github.com/kylodelgado/nychapp/internal/db"
	"github.com/kylodelgado/nychapp/internal/models"
	"github.com/kylodelgado/nychapp/pkg/logger"

	"go.uber.org/zap"
)

var (
	// ErrEmptyQuery indicates a search was requested with no input
	ErrEmptyQuery = errors.New("search query is required")

	// ErrNoSession indicates no last-session record exists to resume from
	ErrNoSession = errors.New("no stored session")
)

// SearchMode selects how a query that is not a ticket number is interpreted.
type SearchMode int

const (
	// ModePhone treats the query as a phone number (the default)
	ModePhone SearchMode = iota

	// ModeEmail treats the query as an email address
	ModeEmail
)

// Status is the observable state of a lookup journey.
type Status int

const (
	// StatusIdle means no search has run yet
	StatusIdle Status = iota

	// StatusLoading means a search is in flight
	StatusLoading

	// StatusSuccess means the last committed search produced results
	StatusSuccess

	// StatusEmpty means the last committed search matched nothing. This is a
	// neutral outcome, not a failure.
	StatusEmpty

	// StatusError means the last committed search failed in transport or
	// decode. Previously displayed results are preserved.
	StatusError
)

// Result is the unified outcome of one search journey.
type Result struct {
	Query    string
	Customer models.SearchResult
	Tickets  []models.Ticket
}

// State is the view-facing snapshot of the orchestrator. Result always holds
// the most recent successful outcome; an error or empty search updates
// Status without clobbering it.
type State struct {
	Status  Status
	Result  *Result
	Message string
}

// LookupService sequences the two supported search journeys. Each screen
// owns its own instance; instances share nothing.
type LookupService struct {
	client api.Client
	store  db.LastSessionStore

	mu    sync.Mutex
	seq   uint64
	state State
}

// NewLookupService creates a new LookupService instance
func NewLookupService(client api.Client, store db.LastSessionStore) *LookupService {
	return &LookupService{
		client: client,
		store:  store,
	}
}

// IsTicketNumber reports whether a query takes the ticket-number path:
// exactly five characters, all digits. Everything else is a contact search.
func IsTicketNumber(query string) bool {
	if len(query) != 5 {
		return false
	}
	for _, r := range query {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// State returns a snapshot of the observable search state.
func (s *LookupService) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Search runs one search journey and commits the outcome to the observable
// state. When invocations overlap, only the most recently initiated search
// may commit; a slower, earlier one completing late is discarded so it
// cannot clobber newer results.
func (s *LookupService) Search(ctx context.Context, query string, mode SearchMode) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	seq := s.begin()

	var result *Result
	var err error
	if IsTicketNumber(query) {
		result, err = s.searchByTicketNumber(ctx, query)
	} else {
		result, err = s.searchByContact(ctx, query, mode)
	}

	s.commit(seq, result, err)
	return result, err
}

// Resume re-runs the phone lookup for the stored last-session customer, the
// returning-user path that skips the search form.
func (s *LookupService) Resume(ctx context.Context) (*Result, error) {
	record, err := s.store.MostRecent()
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNoSession
	}
	logger.Info("Resuming stored session",
		zap.Int("customer_id", record.CustomerID),
		zap.String("customer_name", record.CustomerName))
	return s.Search(ctx, record.PhoneNumber, ModePhone)
}

// Reset clears the stored session and returns the state to idle. This is the
// explicit "new search" action.
func (s *LookupService) Reset() error {
	if err := s.store.Clear(); err != nil {
		return err
	}
	s.mu.Lock()
	s.state = State{Status: StatusIdle}
	s.mu.Unlock()
	return nil
}

// begin marks a new search as the current one and returns its token.
func (s *LookupService) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.state.Status = StatusLoading
	s.state.Message = ""
	return s.seq
}

// commit publishes a search outcome unless a later search has started since.
// The last-session record is written here too, so a discarded stale search
// can neither reach the screen nor the store Resume replays.
func (s *LookupService) commit(seq uint64, result *Result, err error) {
	s.mu.Lock()

	if seq != s.seq {
		s.mu.Unlock()
		logger.Debug("Discarding stale search result", zap.Uint64("seq", seq))
		return
	}

	switch {
	case err == nil:
		s.state.Status = StatusSuccess
		s.state.Result = result
		s.state.Message = ""
	case errors.Is(err, api.ErrNoMatch):
		s.state.Status = StatusEmpty
		s.state.Message = ""
	default:
		// Keep the previous result visible alongside the error.
		s.state.Status = StatusError
		s.state.Message = err.Error()
	}
	s.mu.Unlock()

	if err == nil {
		s.remember(result.Query, result.Customer)
	}
}

// searchByTicketNumber runs the ticket-number journey: resolve the number to
// an id, fetch the full ticket, then pull the owning customer's history and
// sort it with the searched ticket first.
func (s *LookupService) searchByTicketNumber(ctx context.Context, number string) (*Result, error) {
	matches, err := s.client.FindTicketByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, api.ErrNoMatch
	}

	detail, err := s.client.FetchTicketDetail(ctx, matches[0].ID)
	if err != nil {
		return nil, err
	}

	page, err := s.client.ListTicketsByCustomer(ctx, detail.CustomerID)
	if err != nil {
		return nil, err
	}

	customer := models.SearchResult{ID: detail.CustomerID, Name: detail.CustomerName()}
	return &Result{
		Query:    number,
		Customer: customer,
		Tickets:  searchedFirst(*detail, page.Tickets),
	}, nil
}

// searchByContact runs the phone/email journey: resolve a customer identity,
// then pull their ticket history sorted newest first.
func (s *LookupService) searchByContact(ctx context.Context, query string, mode SearchMode) (*Result, error) {
	var matches []models.SearchResult
	var err error
	if mode == ModeEmail {
		matches, err = s.client.SearchByEmail(ctx, query)
	} else {
		matches, err = s.client.SearchByPhone(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, api.ErrNoMatch
	}

	// First match is authoritative; the search endpoint does no ranking we
	// could improve on here.
	customer := matches[0]

	page, err := s.client.ListTicketsByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, err
	}

	tickets := make([]models.Ticket, len(page.Tickets))
	copy(tickets, page.Tickets)
	sortByCreatedDesc(tickets)

	return &Result{
		Query:    query,
		Customer: customer,
		Tickets:  tickets,
	}, nil
}

// remember records the resolved customer as the new last-session candidate.
// Persistence failures degrade the returning-user shortcut, not the search
// itself, so they are logged and swallowed.
func (s *LookupService) remember(query string, customer models.SearchResult) {
	record := models.NewLastSessionRecord(query, customer.ID, customer.Name)
	if err := s.store.Save(record); err != nil {
		logger.Warn("Failed to persist last-session record",
			zap.Int("customer_id", customer.ID),
			zap.Error(err))
	}
}

// searchedFirst orders a customer's tickets so the searched ticket leads and
// the remainder follows by creation time descending. The searched ticket is
// always the fetched detail record, even if the history list omitted it.
func searchedFirst(searched models.Ticket, tickets []models.Ticket) []models.Ticket {
	rest := make([]models.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.ID != searched.ID {
			rest = append(rest, t)
		}
	}
	sortByCreatedDesc(rest)
	return append([]models.Ticket{searched}, rest...)
}

func sortByCreatedDesc(tickets []models.Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
	})
}
