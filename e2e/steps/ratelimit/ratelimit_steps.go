package ratelimit

import (
	"context"
	"crypto/ecdsa"
	"fmt"

	"github.com/cucumber/godog"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POSTWithHeaders(path string, body interface{}, headers map[string]string) error
	GetResponseField(field string) (interface{}, error)
	GetWalletKey() *ecdsa.PrivateKey
	GetSessionToken() string
	GetLastResponseStatus() int
	GetLastResponseHeader(name string) string
	GetLastResponseBody() []byte
}

// RegisterSteps registers rate-limiting step definitions for domain verification
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &ratelimitSteps{tc: tc}

	ctx.Step(`^I pick a domain nobody has verified yet$`, steps.pickFreshDomain)
	ctx.Step(`^I request verification of that domain (\d+) times$`, steps.requestVerificationNTimes)
	ctx.Step(`^the first (\d+) requests should not be rate limited$`, steps.firstNNotRateLimited)
	ctx.Step(`^the (\d+)(?:st|nd|rd|th) request should be rejected with code "([^"]*)"$`, steps.nthRequestRejectedWith)
	ctx.Step(`^the last response should carry a Retry-After header$`, steps.lastResponseHasRetryAfter)
}

type requestResult struct {
	status int
	code   string
}

type ratelimitSteps struct {
	tc TestContext
	// State for tracking across steps
	domain         string
	requestResults []requestResult
}

func (s *ratelimitSteps) pickFreshDomain(ctx context.Context) error {
	s.domain = "e2e-" + uuid.NewString()[:8] + ".example.com"
	return nil
}

func (s *ratelimitSteps) requestVerificationNTimes(ctx context.Context, n int) error {
	key := s.tc.GetWalletKey()
	if key == nil || s.tc.GetSessionToken() == "" {
		return fmt.Errorf("not signed in")
	}
	if s.domain == "" {
		return fmt.Errorf("no domain picked")
	}

	body := map[string]string{
		"domain":        s.domain,
		"issuerAddress": crypto.PubkeyToAddress(key.PublicKey).Hex(),
	}
	headers := map[string]string{"Authorization": "Bearer " + s.tc.GetSessionToken()}

	s.requestResults = make([]requestResult, 0, n)
	for i := 0; i < n; i++ {
		if err := s.tc.POSTWithHeaders("/api/domain/verify", body, headers); err != nil {
			return fmt.Errorf("request %d failed: %w", i+1, err)
		}
		result := requestResult{status: s.tc.GetLastResponseStatus()}
		if code, err := s.tc.GetResponseField("code"); err == nil {
			result.code = fmt.Sprint(code)
		}
		s.requestResults = append(s.requestResults, result)
	}
	return nil
}

func (s *ratelimitSteps) firstNNotRateLimited(ctx context.Context, n int) error {
	if len(s.requestResults) < n {
		return fmt.Errorf("only %d requests recorded", len(s.requestResults))
	}
	for i, r := range s.requestResults[:n] {
		if r.code == "RATE_LIMITED" {
			return fmt.Errorf("request %d was rate limited", i+1)
		}
	}
	return nil
}

func (s *ratelimitSteps) nthRequestRejectedWith(ctx context.Context, nth int, code string) error {
	if nth < 1 || nth > len(s.requestResults) {
		return fmt.Errorf("request %d was not made", nth)
	}
	r := s.requestResults[nth-1]
	if r.status != 429 || r.code != code {
		return fmt.Errorf("request %d: expected 429 %s but got %d %s", nth, code, r.status, r.code)
	}
	return nil
}

func (s *ratelimitSteps) lastResponseHasRetryAfter(ctx context.Context) error {
	if s.tc.GetLastResponseHeader("Retry-After") == "" {
		return fmt.Errorf("Retry-After header missing\nResponse: %s", string(s.tc.GetLastResponseBody()))
	}
	return nil
}
