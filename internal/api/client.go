// Package api implements the HTTP client for the upstream helpdesk REST API.
// It performs the fixed set of operations the app needs, attaches the static
// API key, and normalizes the API's irregular JSON shapes into the internal
// models. The API is a collaborator this client does not own: schema drift is
// tolerated through defensive decoding, never by failing hard.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kylodelgado/nychapp/internal/models"
	"github.com/kylodelgado/nychapp/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds every request. The upstream publishes no SLA, so
	// the bound keeps a stuck lookup from hanging a journey indefinitely.
	DefaultTimeout = 15 * time.Second

	// maxAttempts allows a single retry, taken only for transport failures.
	// HTTP statuses, including 5xx, are never retried automatically.
	maxAttempts = 2

	headerRequestID = "X-Request-Id"
)

// Client is the interface the lookup and intake services depend on. A fake
// implementation substitutes for the real API in tests.
type Client interface {
	CreateCustomer(ctx context.Context, params *models.NewCustomerParams) (*models.Customer, error)
	CreateTicket(ctx context.Context, params *models.NewTicketParams) (*models.Ticket, error)
	FindTicketByNumber(ctx context.Context, number string) ([]models.Ticket, error)
	FetchTicketDetail(ctx context.Context, ticketID int) (*models.Ticket, error)
	SearchByPhone(ctx context.Context, phone string) ([]models.SearchResult, error)
	SearchByEmail(ctx context.Context, email string) ([]models.SearchResult, error)
	ListTicketsByCustomer(ctx context.Context, customerID int) (*models.TicketPage, error)
}

// HTTPClient is the production Client backed by net/http.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient creates a client for the given API origin. A non-positive
// timeout falls back to DefaultTimeout.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateCustomer registers a new customer and returns the created record.
// Field validation happens upstream in the intake form, not here.
func (c *HTTPClient) CreateCustomer(ctx context.Context, params *models.NewCustomerParams) (*models.Customer, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: customer params are nil", ErrInvalidRequest)
	}
	body, err := c.do(ctx, http.MethodPost, "/customers", nil, params)
	if err != nil {
		return nil, err
	}
	var env customerEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &DecodeError{Field: "customer", Err: err}
	}
	if env.Customer.ID == 0 {
		return nil, &DecodeError{Field: "customer.id", Err: fmt.Errorf("missing or zero")}
	}
	return &env.Customer, nil
}

// CreateTicket opens a new repair ticket and returns the normalized result.
func (c *HTTPClient) CreateTicket(ctx context.Context, params *models.NewTicketParams) (*models.Ticket, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: ticket params are nil", ErrInvalidRequest)
	}
	body, err := c.do(ctx, http.MethodPost, "/tickets", nil, params)
	if err != nil {
		return nil, err
	}
	dates, err := dateFormatFor(epCreateTicket)
	if err != nil {
		return nil, err
	}
	var env ticketEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &DecodeError{Field: "ticket", Err: err}
	}
	return env.Ticket.normalize("ticket", dates)
}

// FindTicketByNumber looks up tickets by their public 5-digit number. The
// exactly-5-digits precondition is the caller's job; an arbitrary string is
// passed through and upstream behavior for it is undefined. Numbers are
// unique in practice, so the result holds zero or one summary.
func (c *HTTPClient) FindTicketByNumber(ctx context.Context, number string) ([]models.Ticket, error) {
	query := url.Values{"number": {number}}
	body, err := c.do(ctx, http.MethodGet, "/tickets", query, nil)
	if err != nil {
		return nil, err
	}
	dates, err := dateFormatFor(epTicketSearch)
	if err != nil {
		return nil, err
	}
	var env ticketsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &DecodeError{Field: "tickets", Err: err}
	}
	return decodeTickets(env.Tickets, "tickets", dates)
}

// FetchTicketDetail retrieves a full ticket by its internal numeric id. This
// is the second hop after FindTicketByNumber, because the number search does
// not return full details.
func (c *HTTPClient) FetchTicketDetail(ctx context.Context, ticketID int) (*models.Ticket, error) {
	body, err := c.do(ctx, http.MethodGet, "/tickets/"+strconv.Itoa(ticketID), nil, nil)
	if err != nil {
		return nil, err
	}
	dates, err := dateFormatFor(epTicketDetail)
	if err != nil {
		return nil, err
	}
	var env ticketEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &DecodeError{Field: "ticket", Err: err}
	}
	return env.Ticket.normalize("ticket", dates)
}

// SearchByPhone finds customer identities by phone number.
func (c *HTTPClient) SearchByPhone(ctx context.Context, phone string) ([]models.SearchResult, error) {
	query := url.Values{"query": {phone}}
	body, err := c.do(ctx, http.MethodGet, "/search", query, nil)
	if err != nil {
		return nil, err
	}
	var env phoneSearchEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &DecodeError{Field: "results", Err: err}
	}
	return env.flatten(), nil
}

// SearchByEmail finds customer identities by email address.
func (c *HTTPClient) SearchByEmail(ctx context.Context, email string) ([]models.SearchResult, error) {
	query := url.Values{"email": {email}}
	body, err := c.do(ctx, http.MethodGet, "/customers", query, nil)
	if err != nil {
		return nil, err
	}
	var env emailSearchEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &DecodeError{Field: "customers", Err: err}
	}
	return env.flatten(), nil
}

// ListTicketsByCustomer retrieves a customer's tickets along with pagination
// metadata. Callers ignore the metadata today; it is decoded anyway so a
// future paginated history does not need a wire change.
func (c *HTTPClient) ListTicketsByCustomer(ctx context.Context, customerID int) (*models.TicketPage, error) {
	query := url.Values{"customer_id": {strconv.Itoa(customerID)}}
	body, err := c.do(ctx, http.MethodGet, "/tickets", query, nil)
	if err != nil {
		return nil, err
	}
	dates, err := dateFormatFor(epTicketsByOwner)
	if err != nil {
		return nil, err
	}
	var env ticketsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &DecodeError{Field: "tickets", Err: err}
	}
	tickets, err := decodeTickets(env.Tickets, "tickets", dates)
	if err != nil {
		return nil, err
	}
	return &models.TicketPage{
		Tickets:    tickets,
		TotalPages: env.Meta.TotalPages,
		Page:       env.Meta.Page,
	}, nil
}

// do executes one request against the API origin and returns the raw body of
// a 2xx response. Malformed JSON inside a 2xx body is not an error here; it
// surfaces later during decode.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, payload interface{}) ([]byte, error) {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s%s", ErrInvalidURL, c.baseURL, path)
	}
	if query != nil {
		endpoint.RawQuery = query.Encode()
	}

	var bodyBytes []byte
	if payload != nil {
		bodyBytes, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	requestID := uuid.New().String()
	op := method + " " + path

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var reader io.Reader
		if bodyBytes != nil {
			reader = bytes.NewReader(bodyBytes)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", c.apiKey)
		req.Header.Set(headerRequestID, requestID)
		if bodyBytes != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		logger.Debug("Helpdesk API request",
			zap.String("op", op),
			zap.String("request_id", requestID),
			zap.Int("attempt", attempt))

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", op, err)
			if ctx.Err() != nil {
				return nil, lastErr
			}
			logger.Warn("Helpdesk API transport failure",
				zap.String("op", op),
				zap.String("request_id", requestID),
				zap.Int("attempt", attempt),
				zap.Error(err))
			continue
		}

		data, readErr := io.ReadAll(resp.Body)
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("Failed to close response body", zap.Error(closeErr))
		}
		if readErr != nil {
			lastErr = fmt.Errorf("%s: read body: %w", op, readErr)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			logger.Error("Helpdesk API returned error status",
				zap.String("op", op),
				zap.String("request_id", requestID),
				zap.Int("status", resp.StatusCode))
			return nil, &StatusError{Op: op, Code: resp.StatusCode}
		}

		return data, nil
	}

	return nil, lastErr
}
