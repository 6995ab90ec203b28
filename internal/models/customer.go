package models

// Customer is a person or business account in the upstream helpdesk system.
// Instances are created via the create-customer call or discovered embedded
// in a ticket; they are never mutated within a session.
type Customer struct {
	ID           int     `json:"id"`
	FirstName    string  `json:"firstname"`
	LastName     string  `json:"lastname"`
	FullName     string  `json:"fullname"`
	BusinessName *string `json:"business_name,omitempty"`
}

// SearchResult is a customer identity discovered by phone or email search.
// The search endpoints return a much leaner shape than the customer record
// embedded in tickets, so this stays a separate type.
type SearchResult struct {
	ID   int
	Name string
}

// NewCustomerParams is the create-customer request body. The upstream API
// expects the full flat contact/billing record even when most fields are
// blank, so every field is carried explicitly.
type NewCustomerParams struct {
	BusinessName      string            `json:"business_name"`
	FirstName         string            `json:"firstname"`
	LastName          string            `json:"lastname"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	Mobile            string            `json:"mobile"`
	Address           string            `json:"address"`
	Address2          string            `json:"address_2"`
	City              string            `json:"city"`
	State             string            `json:"state"`
	Zip               string            `json:"zip"`
	Notes             string            `json:"notes"`
	GetSMS            bool              `json:"get_sms"`
	OptOut            bool              `json:"opt_out"`
	NoEmail           bool              `json:"no_email"`
	GetBilling        bool              `json:"get_billing"`
	GetMarketing      bool              `json:"get_marketing"`
	GetReports        bool              `json:"get_reports"`
	RefCustomerID     int               `json:"ref_customer_id"`
	ReferredBy        string            `json:"referred_by"`
	TaxRateID         int               `json:"tax_rate_id"`
	NotificationEmail string            `json:"notification_email"`
	InvoiceCCEmails   string            `json:"invoice_cc_emails"`
	InvoiceTermID     int               `json:"invoice_term_id"`
	Properties        map[string]string `json:"properties"`
	Consent           map[string]string `json:"consent"`
}

// NewTicketParams is the create-ticket request body. Comments seeds the
// ticket with initial notes; the intake flow uses a single hidden comment
// holding the issue description.
type NewTicketParams struct {
	CustomerID int                `json:"customer_id"`
	Subject    string             `json:"subject"`
	Status     string             `json:"status"`
	Properties map[string]string  `json:"properties"`
	Comments   []NewCommentParams `json:"comments_attributes"`
}

// NewCommentParams is a comment attached to a create-ticket request.
type NewCommentParams struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Hidden  bool   `json:"hidden"`
	Tech    string `json:"tech"`
}
