// Package store speaks to the hosted document database. Everything the
// service reads or writes lives there; this package only moves documents,
// it never interprets them.
//
// The client is constructed at startup and injected into the repository
// layer. There is no package-level instance.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collection ids as provisioned in the hosted backend.
const (
	CollectionLeagues         = "leagues"
	CollectionTeams           = "teams"
	CollectionFixtures        = "fixtures"
	CollectionResults         = "results"
	CollectionUsers           = "users"
	CollectionSubscriptions   = "subscriptions"
	CollectionTransactions    = "transactions"
	CollectionChannels        = "channels"
	CollectionViewerSessions  = "viewer_sessions"
	CollectionMatchPopularity = "match_popularity"
	CollectionComments        = "comments"
)

// System attributes the backend stamps on every document.
const (
	FieldID        = "$id"
	FieldCreatedAt = "$createdAt"
	FieldUpdatedAt = "$updatedAt"
)

// Filter is an equality predicate on a named field. Nested attributes use
// dotted paths (e.g. "fixture.leagueId").
type Filter struct {
	Field string
	Value any
}

// Order sorts the listing by one field.
type Order struct {
	Field string
	Desc  bool
}

// Query combines filters and an optional ordering for a list call.
// The backend returns the full result set; pagination is not modeled.
type Query struct {
	Filters []Filter
	Order   []Order
}

// Equal builds an equality filter.
func Equal(field string, value any) Filter { return Filter{Field: field, Value: value} }

// OrderAsc / OrderDesc build orderings.
func OrderAsc(field string) Order  { return Order{Field: field} }
func OrderDesc(field string) Order { return Order{Field: field, Desc: true} }

// Store is the capability the rest of the service depends on. Both the HTTP
// client and the in-memory implementation satisfy it.
type Store interface {
	// ListDocuments returns every document in the collection matching q.
	ListDocuments(ctx context.Context, collection string, q Query) ([]json.RawMessage, error)
	// CreateDocument inserts a document. An empty id asks the backend to
	// assign one; the created document (with system fields) is returned.
	CreateDocument(ctx context.Context, collection, id string, data any) (json.RawMessage, error)
	// UpdateDocument applies a partial document to an existing one.
	UpdateDocument(ctx context.Context, collection, id string, data any) (json.RawMessage, error)
	// DeleteDocument removes a document by id.
	DeleteDocument(ctx context.Context, collection, id string) error
	// Ping probes backend reachability for readiness checks.
	Ping(ctx context.Context) error
}

// Sentinel errors surfaced by Store implementations.
var (
	ErrNotFound     = errors.New("document not found")
	ErrConflict     = errors.New("document conflict")
	ErrUnauthorized = errors.New("store unauthorized")
	ErrUnavailable  = errors.New("store unavailable")
)

// APIError carries the backend's error payload alongside the sentinel it
// unwraps to, so callers can errors.Is against the sentinels and still log
// the backend message.
type APIError struct {
	StatusCode int
	Type       string `json:"type"`
	Message    string `json:"message"`
	sentinel   error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("store: %s (status %d, type %s)", e.Message, e.StatusCode, e.Type)
}

func (e *APIError) Unwrap() error { return e.sentinel }

func newAPIError(status int, typ, msg string) *APIError {
	e := &APIError{StatusCode: status, Type: typ, Message: msg}
	switch {
	case status == 404:
		e.sentinel = ErrNotFound
	case status == 409:
		e.sentinel = ErrConflict
	case status == 401 || status == 403:
		e.sentinel = ErrUnauthorized
	case status >= 500:
		e.sentinel = ErrUnavailable
	default:
		e.sentinel = errors.New("store request failed")
	}
	return e
}
