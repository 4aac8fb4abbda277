// Package credentials decides whose credential a request runs with.
package credentials

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"erd_visualizer/internal/utils"
	"erd_visualizer/internal/warehouse"
)

// ForwardedTokenHeader carries the caller's access token when running behind the app proxy.
const ForwardedTokenHeader = "X-Forwarded-Access-Token"

// Source says which credential a request should use.
type Source int

const (
	SourceService Source = iota
	SourcePerCaller
)

func (s Source) String() string {
	if s == SourcePerCaller {
		return "per-caller"
	}
	return "service"
}

// Policy holds the rules for trusting a forwarded token.
type Policy struct {
	MinTokenLength int
	Placeholders   []string
}

// Decision is the outcome of Resolve. Token is only set for SourcePerCaller.
type Decision struct {
	Source Source
	Token  string
}

// Resolve picks the credential source for a forwarded header value.
// Empty values, placeholder sentinels (such as "undefined" or "***" sent by proxies)
// and values shorter than the minimum length select the service credential.
func Resolve(header string, policy Policy) Decision {
	token := strings.TrimSpace(header)
	if token == "" || utils.Contains(policy.Placeholders, token) || len(token) < policy.MinTokenLength {
		return Decision{Source: SourceService}
	}
	return Decision{Source: SourcePerCaller, Token: token}
}

// Selector hands out warehouse clients for requests.
type Selector struct {
	policy  Policy
	service warehouse.Client
	factory warehouse.Factory
	logger  *zap.Logger
}

func NewSelector(policy Policy, service warehouse.Client, factory warehouse.Factory, logger *zap.Logger) *Selector {
	return &Selector{policy: policy, service: service, factory: factory, logger: logger}
}

// ClientFor returns the client to use for a request carrying header.
// owned is true when the client was created for this request and must be closed by the caller.
// Failing to build a per-caller client is never an error: the service client is used instead.
func (s *Selector) ClientFor(ctx context.Context, header string) (client warehouse.Client, owned bool) {
	decision := Resolve(header, s.policy)
	if decision.Source == SourceService || s.factory == nil {
		return s.service, false
	}

	perCaller, err := s.factory(ctx, decision.Token)
	if err != nil || perCaller == nil {
		s.logger.Debug("Falling back to service credential", zap.Error(err))
		return s.service, false
	}
	return perCaller, true
}
