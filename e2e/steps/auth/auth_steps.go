package auth

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

const serviceName = "SkillChain"

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	POSTWithHeaders(path string, body interface{}, headers map[string]string) error
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (interface{}, error)
	GetWalletKey() *ecdsa.PrivateKey
	SetWalletKey(key *ecdsa.PrivateKey)
	GetSessionToken() string
	SetSessionToken(token string)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	GetBaseURL() string
	GetHTTPClient() *http.Client
}

// RegisterSteps registers wallet login step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &authSteps{tc: tc}

	ctx.Step(`^I have a new wallet$`, steps.haveNewWallet)
	ctx.Step(`^I am signed in with a new wallet$`, steps.signedInWithNewWallet)
	ctx.Step(`^I sign in with my wallet$`, steps.signIn)
	ctx.Step(`^I sign in with a login message signed (\d+) minutes ago$`, steps.signInWithAge)
	ctx.Step(`^I sign in with a login message signed (\d+) minutes from now$`, steps.signInFromFuture)
	ctx.Step(`^I sign in with the message "([^"]*)"$`, steps.signInWithMessage)
	ctx.Step(`^I sign in claiming another wallet's address$`, steps.signInAsSomeoneElse)
	ctx.Step(`^I sign in with a malformed signature$`, steps.signInWithMalformedSignature)
	ctx.Step(`^I sign in (\d+) times concurrently$`, steps.signInConcurrently)
	ctx.Step(`^all concurrent sign ins should succeed$`, steps.allConcurrentSignInsSucceed)
	ctx.Step(`^the signed in address should be my wallet$`, steps.signedInAddressIsMine)

	ctx.Step(`^I POST to "([^"]*)" as the signed in wallet with body:$`, steps.postAuthorized)
	ctx.Step(`^I POST to "([^"]*)" as the signed in wallet for my own address with domain "([^"]*)"$`, steps.postDomainForSelf)
}

type authSteps struct {
	tc TestContext

	mu                sync.Mutex
	concurrentResults []int
}

func (s *authSteps) haveNewWallet(ctx context.Context) error {
	key, err := crypto.GenerateKey()
	if err != nil {
		return fmt.Errorf("failed to generate wallet: %w", err)
	}
	s.tc.SetWalletKey(key)
	return nil
}

func (s *authSteps) signedInWithNewWallet(ctx context.Context) error {
	if err := s.haveNewWallet(ctx); err != nil {
		return err
	}
	if err := s.signIn(ctx); err != nil {
		return err
	}
	if status := s.tc.GetLastResponseStatus(); status != 200 {
		return fmt.Errorf("sign in failed with status %d: %s", status, string(s.tc.GetLastResponseBody()))
	}
	return nil
}

func (s *authSteps) signIn(ctx context.Context) error {
	return s.signInAt(time.Now())
}

func (s *authSteps) signInWithAge(ctx context.Context, minutes int) error {
	return s.signInAt(time.Now().Add(-time.Duration(minutes) * time.Minute))
}

func (s *authSteps) signInFromFuture(ctx context.Context, minutes int) error {
	return s.signInAt(time.Now().Add(time.Duration(minutes) * time.Minute))
}

func (s *authSteps) signInAt(t time.Time) error {
	return s.signInWithMessage(context.Background(), loginMessage(t))
}

func (s *authSteps) signInWithMessage(ctx context.Context, message string) error {
	body, err := s.loginBody(message)
	if err != nil {
		return err
	}
	if err := s.tc.POST("/api/auth/verify-wallet", body); err != nil {
		return err
	}
	if s.tc.GetLastResponseStatus() == 200 {
		token, err := s.tc.GetResponseField("firebaseToken")
		if err != nil {
			return err
		}
		s.tc.SetSessionToken(fmt.Sprint(token))
	}
	return nil
}

func (s *authSteps) signInAsSomeoneElse(ctx context.Context) error {
	body, err := s.loginBody(loginMessage(time.Now()))
	if err != nil {
		return err
	}
	other, err := crypto.GenerateKey()
	if err != nil {
		return err
	}
	body["address"] = crypto.PubkeyToAddress(other.PublicKey).Hex()
	return s.tc.POST("/api/auth/verify-wallet", body)
}

func (s *authSteps) signInWithMalformedSignature(ctx context.Context) error {
	body, err := s.loginBody(loginMessage(time.Now()))
	if err != nil {
		return err
	}
	body["signature"] = "0x" + strings.Repeat("zz", 65)
	return s.tc.POST("/api/auth/verify-wallet", body)
}

// signInConcurrently fires n logins in parallel with the same signed message.
func (s *authSteps) signInConcurrently(ctx context.Context, n int) error {
	body, err := s.loginBody(loginMessage(time.Now()))
	if err != nil {
		return err
	}

	s.concurrentResults = make([]int, 0, n)
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, err := s.postStatus(ctx, body)
			if err != nil {
				errs <- err
				return
			}
			s.mu.Lock()
			s.concurrentResults = append(s.concurrentResults, status)
			s.mu.Unlock()
		}()
	}
	wg.Wait()
	close(errs)
	if err, ok := <-errs; ok {
		return err
	}
	return nil
}

// postStatus posts a login outside the shared context so concurrent calls
// do not race on the last response.
func (s *authSteps) postStatus(ctx context.Context, body map[string]interface{}) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tc.GetBaseURL()+"/api/auth/verify-wallet", bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.tc.GetHTTPClient().Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

func (s *authSteps) allConcurrentSignInsSucceed(ctx context.Context) error {
	for i, status := range s.concurrentResults {
		if status != 200 {
			return fmt.Errorf("concurrent sign in %d returned %d", i, status)
		}
	}
	return nil
}

func (s *authSteps) signedInAddressIsMine(ctx context.Context) error {
	addr, err := s.tc.GetResponseField("user.address")
	if err != nil {
		return err
	}
	mine := crypto.PubkeyToAddress(s.tc.GetWalletKey().PublicKey).Hex()
	if !strings.EqualFold(fmt.Sprint(addr), mine) {
		return fmt.Errorf("expected address %s but got %v", mine, addr)
	}
	if fmt.Sprint(addr) != strings.ToLower(mine) {
		return fmt.Errorf("expected lowercase address but got %v", addr)
	}
	return nil
}

func (s *authSteps) postAuthorized(ctx context.Context, path string, body *godog.DocString) error {
	return s.tc.POSTWithHeaders(path, body.Content, s.authHeader())
}

func (s *authSteps) postDomainForSelf(ctx context.Context, path, domain string) error {
	key := s.tc.GetWalletKey()
	if key == nil {
		return fmt.Errorf("no wallet; sign in first")
	}
	return s.tc.POSTWithHeaders(path, map[string]string{
		"domain":        domain,
		"issuerAddress": crypto.PubkeyToAddress(key.PublicKey).Hex(),
	}, s.authHeader())
}

func (s *authSteps) authHeader() map[string]string {
	return map[string]string{"Authorization": "Bearer " + s.tc.GetSessionToken()}
}

func (s *authSteps) loginBody(message string) (map[string]interface{}, error) {
	key := s.tc.GetWalletKey()
	if key == nil {
		return nil, fmt.Errorf("no wallet; use \"I have a new wallet\" first")
	}
	sig, err := SignMessage(key, message)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"address":   crypto.PubkeyToAddress(key.PublicKey).Hex(),
		"message":   message,
		"signature": sig,
	}, nil
}

func loginMessage(t time.Time) string {
	return fmt.Sprintf("Sign this message to log in to %s: %d", serviceName, t.UnixMilli())
}

// SignMessage produces a personal_sign signature with a 27/28 recovery id.
func SignMessage(key *ecdsa.PrivateKey, message string) (string, error) {
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	if err != nil {
		return "", fmt.Errorf("failed to sign message: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}
