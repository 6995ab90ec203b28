package api

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceTicketNumber(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		id      int
		want    string
		wantErr bool
	}{
		{
			name: "integer number",
			raw:  `44090`,
			id:   1,
			want: "44090",
		},
		{
			name: "string number",
			raw:  `"44090"`,
			id:   1,
			want: "44090",
		},
		{
			name: "absent number falls back to id",
			raw:  ``,
			id:   9321,
			want: "9321",
		},
		{
			name: "null number falls back to id",
			raw:  `null`,
			id:   9321,
			want: "9321",
		},
		{
			name:    "object is neither",
			raw:     `{"x":1}`,
			id:      1,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerceTicketNumber(json.RawMessage(tt.raw), tt.id)
			if tt.wantErr {
				require.Error(t, err)
				var decodeErr *DecodeError
				require.ErrorAs(t, err, &decodeErr)
				assert.Equal(t, "number", decodeErr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWireTicketNormalize(t *testing.T) {
	payload := `{
		"id": 12,
		"number": 44090,
		"subject": "MacBook - no boot",
		"status": "In Progress",
		"created_at": "2025-01-02T10:30:00.000-0500",
		"updated_at": "2025-01-03T09:00:00.000-0500",
		"due_date": null,
		"resolved_at": "2025-01-04T12:00:00.000-0500",
		"customer_id": 77,
		"customer_business_then_name": "Acme Corp",
		"properties": {"Charger": "1"},
		"problem_type": "API",
		"comments": [
			{"id": 1, "subject": "Issue Description", "body": "won't boot", "tech": null, "hidden": true, "created_at": "2025-01-02T10:30:00.000-0500"},
			{"id": 2, "subject": null, "body": "diagnosed", "tech": "Marcus", "hidden": false, "created_at": "2025-01-03T08:00:00.000-0500"}
		],
		"customer": {"id": 77, "firstname": "Jane", "lastname": "Doe", "fullname": "Jane Doe"}
	}`

	var w wireTicket
	require.NoError(t, json.Unmarshal([]byte(payload), &w))

	ticket, err := w.normalize("ticket", dateLegacyMillis)
	require.NoError(t, err)

	assert.Equal(t, 12, ticket.ID)
	assert.Equal(t, "44090", ticket.Number)
	assert.Equal(t, "In Progress", ticket.Status)
	assert.Equal(t, 77, ticket.CustomerID)
	assert.Nil(t, ticket.DueDate)
	require.NotNil(t, ticket.ResolvedAt)
	assert.Equal(t, 2025, ticket.CreatedAt.Year())

	// Embedded customer decoded, so it wins name resolution.
	require.NotNil(t, ticket.Customer)
	assert.Equal(t, "Jane Doe", ticket.CustomerName())

	require.Len(t, ticket.Comments, 2)
	assert.True(t, ticket.Comments[0].Hidden)
	assert.Nil(t, ticket.Comments[0].Tech)
	require.NotNil(t, ticket.Comments[1].Body)
	assert.Equal(t, "diagnosed", *ticket.Comments[1].Body)
}

func TestWireTicketNormalizeMissingID(t *testing.T) {
	var w wireTicket
	require.NoError(t, json.Unmarshal([]byte(`{"subject":"x"}`), &w))

	_, err := w.normalize("tickets[3]", dateISO8601)
	require.Error(t, err)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "tickets[3].id", decodeErr.Field)
}

func TestWireTicketNormalizeBadCreatedAt(t *testing.T) {
	payload := `{"id": 5, "number": "10001", "created_at": "not-a-date", "updated_at": "2025-01-01T00:00:00Z"}`
	var w wireTicket
	require.NoError(t, json.Unmarshal([]byte(payload), &w))

	_, err := w.normalize("ticket", dateISO8601)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "ticket.created_at", decodeErr.Field)
}

func TestDecodeCommentsDegradesGracefully(t *testing.T) {
	base := `{
		"id": 7,
		"number": "20001",
		"created_at": "2025-01-02T10:30:00.000-0500",
		"updated_at": "2025-01-02T10:30:00.000-0500",
		"customer_id": 9,
		"comments": %s
	}`

	t.Run("malformed list drops comments, keeps ticket", func(t *testing.T) {
		var w wireTicket
		require.NoError(t, json.Unmarshal([]byte(
			`{"id":7,"number":"20001","created_at":"2025-01-02T10:30:00.000-0500","updated_at":"2025-01-02T10:30:00.000-0500","comments":{"oops":true}}`), &w))

		ticket, err := w.normalize("ticket", dateLegacyMillis)
		require.NoError(t, err)
		assert.Empty(t, ticket.Comments)
		assert.Equal(t, "20001", ticket.Number)
	})

	t.Run("one bad entry is skipped", func(t *testing.T) {
		comments := `[
			{"id": 1, "body": "ok", "hidden": false, "created_at": "2025-01-02T10:30:00.000-0500"},
			{"id": 2, "body": "bad date", "hidden": false, "created_at": "garbage"},
			{"id": 3, "body": "also ok", "hidden": false, "created_at": "2025-01-03T10:30:00.000-0500"}
		]`
		var w wireTicket
		require.NoError(t, json.Unmarshal([]byte(fmt.Sprintf(base, comments)), &w))

		ticket, err := w.normalize("ticket", dateLegacyMillis)
		require.NoError(t, err)
		require.Len(t, ticket.Comments, 2)
		assert.Equal(t, 1, ticket.Comments[0].ID)
		assert.Equal(t, 3, ticket.Comments[1].ID)
	})
}

func TestDecodeEmbeddedCustomerBestEffort(t *testing.T) {
	t.Run("malformed customer does not fail the ticket", func(t *testing.T) {
		payload := `{
			"id": 7,
			"number": "20001",
			"created_at": "2025-01-02T10:30:00.000-0500",
			"updated_at": "2025-01-02T10:30:00.000-0500",
			"customer_business_then_name": "Fallback Name",
			"customer": "not-an-object"
		}`
		var w wireTicket
		require.NoError(t, json.Unmarshal([]byte(payload), &w))

		ticket, err := w.normalize("ticket", dateLegacyMillis)
		require.NoError(t, err)
		assert.Nil(t, ticket.Customer)
		assert.Equal(t, "Fallback Name", ticket.CustomerName())
	})
}

func TestPhoneSearchEnvelopeFlatten(t *testing.T) {
	payload := `{
		"results": [
			{"table": {"_id": 42, "_source": {"table": {"firstname": "Jane", "lastname": "Doe"}}}},
			{"table": {"_id": 43, "_source": {"table": {"firstname": "John", "lastname": ""}}}}
		]
	}`
	var env phoneSearchEnvelope
	require.NoError(t, json.Unmarshal([]byte(payload), &env))

	results := env.flatten()
	require.Len(t, results, 2)
	assert.Equal(t, 42, results[0].ID)
	assert.Equal(t, "Jane Doe", results[0].Name)
	assert.Equal(t, "John", results[1].Name)
}

func TestPhoneSearchEnvelopeEmpty(t *testing.T) {
	var env phoneSearchEnvelope
	require.NoError(t, json.Unmarshal([]byte(`{"results": []}`), &env))
	assert.Empty(t, env.flatten())
}

func TestEmailSearchEnvelopeFlatten(t *testing.T) {
	payload := `{"customers": [{"id": 9, "fullname": "Acme Corp"}]}`
	var env emailSearchEnvelope
	require.NoError(t, json.Unmarshal([]byte(payload), &env))

	results := env.flatten()
	require.Len(t, results, 1)
	assert.Equal(t, 9, results[0].ID)
	assert.Equal(t, "Acme Corp", results[0].Name)
}

func TestDateFormats(t *testing.T) {
	t.Run("iso8601", func(t *testing.T) {
		ts, err := dateISO8601.parse("2025-01-02T15:04:05Z")
		require.NoError(t, err)
		assert.Equal(t, 2025, ts.Year())
	})

	t.Run("legacy millis", func(t *testing.T) {
		ts, err := dateLegacyMillis.parse("2025-01-02T15:04:05.000-0500")
		require.NoError(t, err)
		assert.Equal(t, 2025, ts.Year())
	})

	t.Run("strategies are not interchangeable", func(t *testing.T) {
		_, err := dateISO8601.parse("2025-01-02T15:04:05.000-0500")
		assert.Error(t, err)
		_, err = dateLegacyMillis.parse("2025-01-02T15:04:05Z")
		assert.Error(t, err)
	})

	t.Run("every endpoint has a registered format", func(t *testing.T) {
		for _, ep := range []string{
			epCreateCustomer, epCreateTicket, epTicketSearch,
			epTicketDetail, epTicketsByOwner, epSearchByPhone, epSearchByEmail,
		} {
			_, err := dateFormatFor(ep)
			assert.NoError(t, err, ep)
		}
		_, err := dateFormatFor("nope")
		assert.Error(t, err)
	})
}
