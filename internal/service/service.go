// Package service implements the Brevo domain operations behind the
// tool catalogue. Each operation validates its arguments locally,
// performs one or more client calls and reshapes the response into a
// reduced result object.
package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/houtini-ai/brevo-mcp/internal/brevo"
	"github.com/houtini-ai/brevo-mcp/internal/config"
)

// Service bundles the domain operations over a shared API client.
type Service struct {
	client *brevo.Client
	search config.SearchConfig
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Service.
func New(client *brevo.Client, search config.SearchConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client: client,
		search: search,
		logger: logger,
		now:    time.Now,
	}
}

// ValidationError reports a caller-supplied argument that failed a
// local precondition. It is raised before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError reports a record that could not be located, either via
// a remote 404 mapped into domain terms or after an exhausted
// pagination scan.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// clampLimit applies the default and upper bound for list limits.
func (s *Service) clampLimit(requested int) int {
	if requested <= 0 {
		return s.search.DefaultLimit
	}
	if requested > s.search.MaxLimit {
		return s.search.MaxLimit
	}
	return requested
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}
