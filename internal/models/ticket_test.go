package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string {
	return &s
}

func TestCustomerName(t *testing.T) {
	tests := []struct {
		name   string
		ticket Ticket
		want   string
	}{
		{
			name: "embedded customer wins",
			ticket: Ticket{
				CustomerBusinessThenName: "Acme Corp",
				Customer:                 &Customer{FullName: "Jane Doe"},
			},
			want: "Jane Doe",
		},
		{
			name: "embedded customer with empty full name falls back",
			ticket: Ticket{
				CustomerBusinessThenName: "Acme Corp",
				Customer:                 &Customer{},
			},
			want: "Acme Corp",
		},
		{
			name:   "no embedded customer falls back",
			ticket: Ticket{CustomerBusinessThenName: "Acme Corp"},
			want:   "Acme Corp",
		},
		{
			name:   "nothing known",
			ticket: Ticket{},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ticket.CustomerName())
		})
	}
}

func TestDisplayProblemType(t *testing.T) {
	tests := []struct {
		name        string
		problemType *string
		want        string
	}{
		{"nil maps to general repair", nil, "General Repair"},
		{"literal API maps to general repair", strPtr("API"), "General Repair"},
		{"other types pass through", strPtr("Data Recovery"), "Data Recovery"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := Ticket{ProblemType: tt.problemType}
			assert.Equal(t, tt.want, ticket.DisplayProblemType())
		})
	}
}

func TestVisibleComments(t *testing.T) {
	ticket := Ticket{Comments: []Comment{
		{ID: 1, Subject: strPtr("Issue Description"), Hidden: true},
		{ID: 2, Subject: strPtr("Diagnostic results")},
		{ID: 3, Subject: strPtr("Internal pricing note"), Hidden: true},
		{ID: 4, Subject: strPtr("Called customer")},
	}}

	visible := ticket.VisibleComments()

	// Hidden comments stay on the model but never surface here.
	assert.Len(t, ticket.Comments, 4)
	if assert.Len(t, visible, 2) {
		assert.Equal(t, 2, visible[0].ID)
		assert.Equal(t, 4, visible[1].ID)
	}
}

func TestVisibleCommentsEmpty(t *testing.T) {
	ticket := Ticket{}
	assert.Empty(t, ticket.VisibleComments())
}

func TestCommentDisplayHelpers(t *testing.T) {
	t.Run("placeholders for nil fields", func(t *testing.T) {
		var c Comment
		assert.Equal(t, "No Subject", c.DisplaySubject())
		assert.Equal(t, "No Comment", c.DisplayBody())
		assert.Equal(t, "No Tech", c.DisplayTech())
	})

	t.Run("values pass through", func(t *testing.T) {
		c := Comment{
			Subject: strPtr("Diagnostic results"),
			Body:    strPtr("Drive is failing SMART checks."),
			Tech:    strPtr("Marcus"),
		}
		assert.Equal(t, "Diagnostic results", c.DisplaySubject())
		assert.Equal(t, "Drive is failing SMART checks.", c.DisplayBody())
		assert.Equal(t, "Marcus", c.DisplayTech())
	})

	t.Run("empty string is not nil", func(t *testing.T) {
		c := Comment{Body: strPtr("")}
		assert.Equal(t, "", c.DisplayBody())
	})
}
