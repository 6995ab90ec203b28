package models

import "time"

// LastSessionRecord is the locally persisted identity of the most recently
// resolved customer. At most one record exists at a time; a new successful
// lookup evicts the previous one, and an explicit "new search" deletes it.
type LastSessionRecord struct {
	PhoneNumber  string    `json:"phone_number"`
	CustomerID   int       `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewLastSessionRecord builds a record stamped with the current time.
func NewLastSessionRecord(phoneNumber string, customerID int, customerName string) *LastSessionRecord {
	return &LastSessionRecord{
		PhoneNumber:  phoneNumber,
		CustomerID:   customerID,
		CustomerName: customerName,
		Timestamp:    time.Now().UTC(),
	}
}
