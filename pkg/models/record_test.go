package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRecordID(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		ok   bool
	}{
		{"int64", Record{"id": int64(5)}, true},
		{"float", Record{"id": 5.0}, true},
		{"string", Record{"id": "abc"}, true},
		{"missing", Record{"name": "x"}, false},
		{"null", Record{"id": nil}, false},
		{"empty string", Record{"id": ""}, false},
		{"zero", Record{"id": int64(0)}, false},
		{"bool", Record{"id": true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := tt.rec.ID()
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestIDKey(t *testing.T) {
	assert.Equal(t, IDKey(int64(12)), IDKey(int32(12)))
	assert.Equal(t, IDKey(int64(12)), IDKey(12))
	assert.Equal(t, IDKey(int64(12)), IDKey(12.0))
	assert.Equal(t, IDKey(int64(12)), IDKey(json.Number("12")))
	assert.Equal(t, IDKey("abc"), IDKey("abc"))

	// strings and fractional ids never collapse onto integers
	assert.NotEqual(t, IDKey("12"), IDKey(int64(12)))
	assert.NotEqual(t, IDKey(5.5), IDKey(int64(5)))
	assert.NotEqual(t, IDKey(5.5), IDKey("5.5"))
	assert.Equal(t, IDKey(5.5), IDKey(json.Number("5.5")))
}

func TestRecordTime(t *testing.T) {
	ts := time.Now()
	stored := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	rec := Record{
		"date_created":   ts,
		"date_modified":  "2024-01-01",
		"date_paid":      primitive.NewDateTimeFromTime(stored),
		"date_completed": "",
		"status":         "pending",
	}

	got, ok := rec.Time("date_created")
	assert.True(t, ok)
	assert.Equal(t, ts, got)

	got, ok = rec.Time("date_modified")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), got)

	got, ok = rec.Time("date_paid")
	assert.True(t, ok)
	assert.True(t, stored.Equal(got))

	for _, field := range []string{"date_completed", "status", "date_created_gmt"} {
		_, ok = rec.Time(field)
		assert.False(t, ok, field)
	}
}

func TestResources(t *testing.T) {
	assert.Equal(t, "order", Orders.Noun)
	assert.Equal(t, 25, Orders.PageSize)
	assert.Len(t, Orders.DateFields, 8)
	assert.True(t, Orders.ServerSideRange)
	assert.Empty(t, Orders.Role)

	assert.Equal(t, "customer", Customers.Noun)
	assert.Equal(t, 100, Customers.PageSize)
	assert.Len(t, Customers.DateFields, 4)
	assert.Equal(t, "seller", Customers.Role)
	assert.False(t, Customers.ServerSideRange)
}
