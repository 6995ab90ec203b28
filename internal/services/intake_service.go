package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kylodelgado/nychapp/internal/api"
	"github.com/kylodelgado/nychapp/internal/models"
	"github.com/kylodelgado/nychapp/pkg/logger"

	"go.uber.org/zap"
)

const (
	// MinPhoneDigits is the minimum length for a usable phone number
	MinPhoneDigits = 10

	// initialTicketStatus is the status every intake ticket opens with
	initialTicketStatus = "New"
)

var (
	// ErrMissingFirstName indicates the customer form lacks a first name
	ErrMissingFirstName = errors.New("first name is required")

	// ErrMissingLastName indicates the customer form lacks a last name
	ErrMissingLastName = errors.New("last name is required")

	// ErrInvalidEmail indicates the email address fails basic validation
	ErrInvalidEmail = errors.New("a valid email address is required")

	// ErrInvalidPhone indicates the phone number is too short
	ErrInvalidPhone = errors.New("a valid phone number is required")

	// ErrMissingDeviceType indicates the ticket form lacks a device type
	ErrMissingDeviceType = errors.New("device type is required")

	// ErrMissingIssue indicates the ticket form lacks an issue summary
	ErrMissingIssue = errors.New("issue is required")

	// ErrMissingDescription indicates the ticket form lacks a description
	ErrMissingDescription = errors.New("issue description is required")

	// ErrMissingDropOffDetail indicates "something else" was checked without naming it
	ErrMissingDropOffDetail = errors.New("please specify what else is being dropped off")

	// ErrMissingBitlockerKey indicates bitlocker was flagged without a key
	ErrMissingBitlockerKey = errors.New("bitlocker key is required")

	// ErrMissingCustomer indicates the ticket form lacks a customer id
	ErrMissingCustomer = errors.New("customer id is required")
)

// CustomerForm holds new-customer intake input. Validation happens here,
// before the API client is involved.
type CustomerForm struct {
	FirstName    string
	LastName     string
	BusinessName string
	Email        string
	Phone        string
	Address      string
	City         string
	State        string
	Zip          string
}

// Validate checks the form the same way the intake screen does: names
// present, an email that at least looks like one, and a phone long enough
// to dial.
func (f *CustomerForm) Validate() error {
	if strings.TrimSpace(f.FirstName) == "" {
		return ErrMissingFirstName
	}
	if strings.TrimSpace(f.LastName) == "" {
		return ErrMissingLastName
	}
	if !strings.Contains(f.Email, "@") {
		return ErrInvalidEmail
	}
	if len(f.Phone) < MinPhoneDigits {
		return ErrInvalidPhone
	}
	return nil
}

// params builds the full create-customer payload. The upstream API wants
// every contact/billing field present; defaults match the shop's intake
// policy (SMS, billing and report mail on, marketing off).
func (f *CustomerForm) params() *models.NewCustomerParams {
	return &models.NewCustomerParams{
		BusinessName:      f.BusinessName,
		FirstName:         f.FirstName,
		LastName:          f.LastName,
		Email:             f.Email,
		Phone:             f.Phone,
		Address:           f.Address,
		City:              f.City,
		State:             f.State,
		Zip:               f.Zip,
		GetSMS:            true,
		GetBilling:        true,
		GetReports:        true,
		NotificationEmail: f.Email,
		Properties:        map[string]string{},
		Consent:           map[string]string{},
	}
}

// TicketForm holds drop-off ticket intake input for an existing customer.
type TicketForm struct {
	CustomerID   int
	CustomerName string

	DeviceType     string
	Issue          string
	Description    string
	DevicePassword string

	DroppingCharger       bool
	DroppingHandTruck     bool
	DroppingSleeve        bool
	DroppingBag           bool
	DroppingSomethingElse bool
	WhatElse              string

	FilesImportant bool
	HasBitlocker   bool
	BitlockerKey   string
	UnderWarranty  bool
}

// Validate checks the drop-off form, including the conditional fields.
func (f *TicketForm) Validate() error {
	if f.CustomerID == 0 {
		return ErrMissingCustomer
	}
	if strings.TrimSpace(f.DeviceType) == "" {
		return ErrMissingDeviceType
	}
	if strings.TrimSpace(f.Issue) == "" {
		return ErrMissingIssue
	}
	if strings.TrimSpace(f.Description) == "" {
		return ErrMissingDescription
	}
	if f.DroppingSomethingElse && strings.TrimSpace(f.WhatElse) == "" {
		return ErrMissingDropOffDetail
	}
	if f.HasBitlocker && strings.TrimSpace(f.BitlockerKey) == "" {
		return ErrMissingBitlockerKey
	}
	return nil
}

// Subject composes the ticket subject from device type and issue.
func (f *TicketForm) Subject() string {
	return f.DeviceType + " - " + f.Issue
}

// properties builds the structured drop-off checklist the shop reads off the
// ticket. Keys are fixed upstream; do not rename them.
func (f *TicketForm) properties() map[string]string {
	flag := func(b bool) string {
		if b {
			return "1"
		}
		return "0"
	}
	alsoDropping := ""
	if f.DroppingSomethingElse {
		alsoDropping = f.WhatElse
	}
	bitlockerKey := ""
	if f.HasBitlocker {
		bitlockerKey = f.BitlockerKey
	}
	filesImportant := "NO"
	if f.FilesImportant {
		filesImportant = "YES"
	}
	return map[string]string{
		"Bag":                      flag(f.DroppingBag),
		"Charger":                  flag(f.DroppingCharger),
		"Hand Truck":               flag(f.DroppingHandTruck),
		"Laptop Sleeve":            flag(f.DroppingSleeve),
		"Also dropping off":        alsoDropping,
		"Are files important":      filesImportant,
		"Is device under warranty": flag(f.UnderWarranty),
		"Bitlocker key":            bitlockerKey,
		"Device Password":          f.DevicePassword,
	}
}

// IntakeService runs the create-customer and create-ticket flows.
type IntakeService struct {
	client api.Client
}

// NewIntakeService creates a new IntakeService instance
func NewIntakeService(client api.Client) *IntakeService {
	return &IntakeService{client: client}
}

// CreateCustomer validates the form and registers the customer upstream,
// returning the created record with its assigned id.
func (s *IntakeService) CreateCustomer(ctx context.Context, form *CustomerForm) (*models.Customer, error) {
	if form == nil {
		return nil, fmt.Errorf("form cannot be nil")
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	customer, err := s.client.CreateCustomer(ctx, form.params())
	if err != nil {
		return nil, err
	}

	logger.Info("Customer created",
		zap.Int("customer_id", customer.ID),
		zap.String("name", customer.FirstName+" "+customer.LastName))
	return customer, nil
}

// CreateTicket validates the drop-off form and opens the ticket. The issue
// description is seeded as a hidden internal note so it never renders to the
// customer, matching how the shop's techs expect intake notes to arrive.
func (s *IntakeService) CreateTicket(ctx context.Context, form *TicketForm) (*models.Ticket, error) {
	if form == nil {
		return nil, fmt.Errorf("form cannot be nil")
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	params := &models.NewTicketParams{
		CustomerID: form.CustomerID,
		Subject:    form.Subject(),
		Status:     initialTicketStatus,
		Properties: form.properties(),
		Comments: []models.NewCommentParams{
			{
				Subject: "Issue Description",
				Body:    form.Description,
				Hidden:  true,
				Tech:    form.CustomerName,
			},
		},
	}

	ticket, err := s.client.CreateTicket(ctx, params)
	if err != nil {
		return nil, err
	}

	logger.Info("Ticket created",
		zap.String("number", ticket.Number),
		zap.Int("customer_id", form.CustomerID))
	return ticket, nil
}
