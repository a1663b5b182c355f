package service

import (
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/cx-tal-miterani/flight-booking-client/internal/identity"
)

// RouteMatch is the policy used to keep search results on the requested route
type RouteMatch int

const (
	// RouteMatchExact keeps flights whose airport codes equal the query, ignoring case.
	RouteMatchExact RouteMatch = iota
	// RouteMatchContains keeps flights whose airport codes contain the query, ignoring case.
	RouteMatchContains
)

func (m RouteMatch) String() string {
	if m == RouteMatchContains {
		return "contains"
	}
	return "exact"
}

// ParseRouteMatch parses "exact" or "contains".
func ParseRouteMatch(s string) (RouteMatch, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact":
		return RouteMatchExact, nil
	case "contains":
		return RouteMatchContains, nil
	default:
		return RouteMatchExact, fmt.Errorf("unknown route match policy %q", s)
	}
}

type settings struct {
	observer   Observer
	tracer     trace.Tracer
	identity   identity.Resolver
	sequencing bool
	routeMatch RouteMatch
}

func newSettings(opts []Option) settings {
	s := settings{
		observer: Observers(nil),
		tracer:   defaultTracer(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option configures a store
type Option func(*settings)

// WithObserver adds an observer. It may be given several times.
func WithObserver(o Observer) Option {
	return func(s *settings) {
		if existing, ok := s.observer.(Observers); ok {
			s.observer = append(existing, o)
			return
		}
		s.observer = Observers{s.observer, o}
	}
}

// WithTracer replaces the global otel tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *settings) {
		s.tracer = t
	}
}

// WithIdentity sets how the current user id is resolved when a call does not supply one.
func WithIdentity(r identity.Resolver) Option {
	return func(s *settings) {
		s.identity = r
	}
}

// WithRequestSequencing drops responses to superseded requests instead of
// committing them. The caller still receives the result.
// Without it the last response to resolve wins.
func WithRequestSequencing() Option {
	return func(s *settings) {
		s.sequencing = true
	}
}

// WithRouteMatch sets the catalog route filter policy.
func WithRouteMatch(m RouteMatch) Option {
	return func(s *settings) {
		s.routeMatch = m
	}
}
