package api

import (
	"fmt"
	"time"
)

// dateFormat selects the timestamp layout a given endpoint delivers. The
// upstream API is not consistent: the ticket-number search returns plain
// ISO-8601 while the detail and list endpoints use a millisecond layout with
// a compact zone offset. A single global layout fails on a subset of
// responses, so each endpoint declares its format explicitly.
type dateFormat int

const (
	dateISO8601 dateFormat = iota
	dateLegacyMillis
)

// legacyMillisLayout matches timestamps like 2025-01-02T15:04:05.000-0500.
const legacyMillisLayout = "2006-01-02T15:04:05.000-0700"

// Endpoint keys for the date-format table.
const (
	epCreateCustomer = "customers.create"
	epCreateTicket   = "tickets.create"
	epTicketSearch   = "tickets.search"
	epTicketDetail   = "tickets.detail"
	epTicketsByOwner = "tickets.by_customer"
	epSearchByPhone  = "search.phone"
	epSearchByEmail  = "customers.by_email"
)

// endpointDates is the per-endpoint decode configuration. Endpoints that
// return no timestamps still get an entry so a new call site cannot silently
// inherit the wrong strategy.
var endpointDates = map[string]dateFormat{
	epCreateCustomer: dateLegacyMillis,
	epCreateTicket:   dateLegacyMillis,
	epTicketSearch:   dateISO8601,
	epTicketDetail:   dateLegacyMillis,
	epTicketsByOwner: dateLegacyMillis,
	epSearchByPhone:  dateISO8601,
	epSearchByEmail:  dateISO8601,
}

// parse decodes a timestamp string using this format.
func (f dateFormat) parse(s string) (time.Time, error) {
	switch f {
	case dateLegacyMillis:
		return time.Parse(legacyMillisLayout, s)
	default:
		return time.Parse(time.RFC3339, s)
	}
}

// parseOptional decodes a nullable timestamp; nil in, nil out.
func (f dateFormat) parseOptional(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := f.parse(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// dateFormatFor looks up the strategy for an endpoint key.
func dateFormatFor(endpoint string) (dateFormat, error) {
	f, ok := endpointDates[endpoint]
	if !ok {
		return 0, fmt.Errorf("no date format registered for endpoint %q", endpoint)
	}
	return f, nil
}
