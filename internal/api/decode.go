package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kylodelgado/nychapp/internal/models"
	"github.com/kylodelgado/nychapp/pkg/logger"

	"go.uber.org/zap"
)

// The upstream API's ticket shape varies between endpoints: the number field
// is sometimes an integer and sometimes a string, the embedded customer is
// sometimes missing or malformed, and timestamps come in two layouts. The
// wire types below absorb all of that and normalize into internal/models.

type wireTicket struct {
	ID                       int               `json:"id"`
	Number                   json.RawMessage   `json:"number"`
	Subject                  string            `json:"subject"`
	Status                   string            `json:"status"`
	CreatedAt                string            `json:"created_at"`
	UpdatedAt                string            `json:"updated_at"`
	DueDate                  *string           `json:"due_date"`
	ResolvedAt               *string           `json:"resolved_at"`
	CustomerID               int               `json:"customer_id"`
	CustomerBusinessThenName string            `json:"customer_business_then_name"`
	Properties               map[string]string `json:"properties"`
	Comments                 json.RawMessage   `json:"comments"`
	ProblemType              *string           `json:"problem_type"`
	BillingStatus            *string           `json:"billing_status"`
	Customer                 json.RawMessage   `json:"customer"`
}

type wireComment struct {
	ID        int     `json:"id"`
	Subject   *string `json:"subject"`
	Body      *string `json:"body"`
	Tech      *string `json:"tech"`
	Hidden    bool    `json:"hidden"`
	CreatedAt string  `json:"created_at"`
}

type ticketEnvelope struct {
	Ticket wireTicket `json:"ticket"`
}

type ticketsEnvelope struct {
	Tickets []wireTicket `json:"tickets"`
	Meta    struct {
		TotalPages int `json:"total_pages"`
		Page       int `json:"page"`
	} `json:"meta"`
}

type customerEnvelope struct {
	Customer models.Customer `json:"customer"`
}

// phoneSearchEnvelope mirrors the Elasticsearch-style shape the phone search
// endpoint returns: results[].table._id and results[].table._source.table.
type phoneSearchEnvelope struct {
	Results []struct {
		Table struct {
			ID     int `json:"_id"`
			Source struct {
				Table struct {
					FirstName string `json:"firstname"`
					LastName  string `json:"lastname"`
				} `json:"table"`
			} `json:"_source"`
		} `json:"table"`
	} `json:"results"`
}

// flatten reduces the nested envelope to one SearchResult per entry. No
// de-duplication or ranking: the first entry is the authoritative match.
func (e *phoneSearchEnvelope) flatten() []models.SearchResult {
	results := make([]models.SearchResult, 0, len(e.Results))
	for _, r := range e.Results {
		src := r.Table.Source.Table
		results = append(results, models.SearchResult{
			ID:   r.Table.ID,
			Name: strings.TrimSpace(src.FirstName + " " + src.LastName),
		})
	}
	return results
}

// emailSearchEnvelope is the flat shape the email search endpoint returns.
type emailSearchEnvelope struct {
	Customers []struct {
		ID       int    `json:"id"`
		FullName string `json:"fullname"`
	} `json:"customers"`
}

func (e *emailSearchEnvelope) flatten() []models.SearchResult {
	results := make([]models.SearchResult, 0, len(e.Customers))
	for _, c := range e.Customers {
		results = append(results, models.SearchResult{ID: c.ID, Name: c.FullName})
	}
	return results
}

// coerceTicketNumber normalizes the number field, which arrives as either a
// JSON integer or a JSON string depending on the endpoint. Integer decode is
// attempted first. When the field is absent entirely the numeric id stands
// in, so a normalized ticket always carries a number.
func coerceTicketNumber(raw json.RawMessage, id int) (string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return strconv.Itoa(id), nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.Itoa(n), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	return "", &DecodeError{Field: "number", Err: fmt.Errorf("neither integer nor string: %s", trimmed)}
}

// normalize converts a wire ticket into the internal model using the given
// date strategy. Header fields are strict; the comment list and the embedded
// customer are decoded independently so their failures degrade instead of
// failing the whole ticket.
func (w *wireTicket) normalize(path string, dates dateFormat) (*models.Ticket, error) {
	if w.ID == 0 {
		return nil, &DecodeError{Field: path + ".id", Err: errors.New("missing or zero")}
	}

	number, err := coerceTicketNumber(w.Number, w.ID)
	if err != nil {
		return nil, err
	}

	createdAt, err := dates.parse(w.CreatedAt)
	if err != nil {
		return nil, &DecodeError{Field: path + ".created_at", Err: err}
	}
	updatedAt, err := dates.parse(w.UpdatedAt)
	if err != nil {
		return nil, &DecodeError{Field: path + ".updated_at", Err: err}
	}
	dueDate, err := dates.parseOptional(w.DueDate)
	if err != nil {
		return nil, &DecodeError{Field: path + ".due_date", Err: err}
	}
	resolvedAt, err := dates.parseOptional(w.ResolvedAt)
	if err != nil {
		return nil, &DecodeError{Field: path + ".resolved_at", Err: err}
	}

	t := &models.Ticket{
		ID:                       w.ID,
		Number:                   number,
		Subject:                  w.Subject,
		Status:                   w.Status,
		CreatedAt:                createdAt,
		UpdatedAt:                updatedAt,
		DueDate:                  dueDate,
		ResolvedAt:               resolvedAt,
		CustomerID:               w.CustomerID,
		CustomerBusinessThenName: w.CustomerBusinessThenName,
		Properties:               w.Properties,
		ProblemType:              w.ProblemType,
		BillingStatus:            w.BillingStatus,
		Comments:                 decodeComments(w.Comments, path, dates),
		Customer:                 decodeEmbeddedCustomer(w.Customer, path),
	}
	return t, nil
}

// decodeComments decodes the comment list best-effort. A malformed list, or
// a malformed entry within it, is dropped with a log line; the ticket itself
// still decodes so a lookup degrades to a ticket without comments.
func decodeComments(raw json.RawMessage, path string, dates dateFormat) []models.Comment {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		logger.Warn("Dropping malformed comment list",
			zap.String("field", path+".comments"), zap.Error(err))
		return nil
	}
	comments := make([]models.Comment, 0, len(items))
	for i, item := range items {
		var wc wireComment
		if err := json.Unmarshal(item, &wc); err != nil {
			logger.Warn("Dropping malformed comment",
				zap.String("field", fmt.Sprintf("%s.comments[%d]", path, i)), zap.Error(err))
			continue
		}
		createdAt, err := dates.parse(wc.CreatedAt)
		if err != nil {
			logger.Warn("Dropping comment with unparseable timestamp",
				zap.String("field", fmt.Sprintf("%s.comments[%d].created_at", path, i)), zap.Error(err))
			continue
		}
		comments = append(comments, models.Comment{
			ID:        wc.ID,
			Subject:   wc.Subject,
			Body:      wc.Body,
			Tech:      wc.Tech,
			Hidden:    wc.Hidden,
			CreatedAt: createdAt,
		})
	}
	return comments
}

// decodeEmbeddedCustomer decodes the nested customer object best-effort. The
// ticket-level customer_business_then_name field covers for a nil result.
func decodeEmbeddedCustomer(raw json.RawMessage, path string) *models.Customer {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var c models.Customer
	if err := json.Unmarshal(raw, &c); err != nil {
		logger.Debug("Ignoring malformed embedded customer",
			zap.String("field", path+".customer"), zap.Error(err))
		return nil
	}
	return &c
}

// decodeTickets normalizes a ticket list, failing on the first bad entry.
func decodeTickets(wires []wireTicket, path string, dates dateFormat) ([]models.Ticket, error) {
	tickets := make([]models.Ticket, 0, len(wires))
	for i := range wires {
		t, err := wires[i].normalize(fmt.Sprintf("%s[%d]", path, i), dates)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, nil
}
