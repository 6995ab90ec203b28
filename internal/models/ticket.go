package models

import "time"

// Ticket is the normalized form of an upstream helpdesk ticket. The upstream
// API delivers several slightly different ticket shapes; everything in this
// struct is what survives normalization regardless of which endpoint the
// ticket came from.
type Ticket struct {
	ID         int        `json:"id"`
	Number     string     `json:"number"` // always a string, even when the API sent an integer
	Subject    string     `json:"subject"`
	Status     string     `json:"status"` // free-text label, not a closed enum
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CustomerID int        `json:"customer_id"`

	// CustomerBusinessThenName is the ticket-level denormalized display name,
	// used as a fallback when the embedded customer record is absent.
	CustomerBusinessThenName string `json:"customer_business_then_name,omitempty"`

	Properties    map[string]string `json:"properties,omitempty"`
	Comments      []Comment         `json:"comments,omitempty"`
	ProblemType   *string           `json:"problem_type,omitempty"`
	BillingStatus *string           `json:"billing_status,omitempty"`

	// Customer is the embedded customer record. Decoding it is best-effort,
	// so it may be nil even when CustomerID is set.
	Customer *Customer `json:"customer,omitempty"`
}

// CustomerName resolves the customer display name: the embedded customer's
// full name when present, otherwise the denormalized ticket-level field.
func (t *Ticket) CustomerName() string {
	if t.Customer != nil && t.Customer.FullName != "" {
		return t.Customer.FullName
	}
	return t.CustomerBusinessThenName
}

// DisplayProblemType maps the upstream problem type to a customer-facing
// label. Tickets created through the API carry the literal type "API".
func (t *Ticket) DisplayProblemType() string {
	if t.ProblemType == nil || *t.ProblemType == "API" {
		return "General Repair"
	}
	return *t.ProblemType
}

// VisibleComments returns the comments that may be rendered to the end
// customer. Hidden comments are internal notes and stay in Comments for
// business logic, but must never reach presentation.
func (t *Ticket) VisibleComments() []Comment {
	visible := make([]Comment, 0, len(t.Comments))
	for _, c := range t.Comments {
		if !c.Hidden {
			visible = append(visible, c)
		}
	}
	return visible
}

// Comment is a single note on a ticket. Subject, body and tech are
// independently nullable upstream; nil is preserved here so business logic
// can tell "no body" apart from "empty body". Placeholder text is applied
// only by the Display helpers at render time.
type Comment struct {
	ID        int       `json:"id"`
	Subject   *string   `json:"subject,omitempty"`
	Body      *string   `json:"body,omitempty"`
	Tech      *string   `json:"tech,omitempty"`
	Hidden    bool      `json:"hidden"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplaySubject returns the comment subject or a placeholder.
func (c *Comment) DisplaySubject() string {
	if c.Subject == nil {
		return "No Subject"
	}
	return *c.Subject
}

// DisplayBody returns the comment body or a placeholder.
func (c *Comment) DisplayBody() string {
	if c.Body == nil {
		return "No Comment"
	}
	return *c.Body
}

// DisplayTech returns the comment author or a placeholder.
func (c *Comment) DisplayTech() string {
	if c.Tech == nil {
		return "No Tech"
	}
	return *c.Tech
}

// TicketPage is the decoded shape of a ticket list response. The pagination
// metadata is not consumed anywhere yet but is retained for forward
// compatibility with paginated customer histories.
type TicketPage struct {
	Tickets    []Ticket `json:"tickets"`
	TotalPages int      `json:"total_pages"`
	Page       int      `json:"page"`
}
