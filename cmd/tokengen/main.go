// Package main provides a CLI tool for generating test credentials for the
// SkillChain API. Session tokens use the dev signing key and will NOT work
// in production.
package main

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"skillchain/internal/auth/wallet"
	jwttoken "skillchain/internal/jwt_token"
	"skillchain/pkg/domain"
)

const (
	// Dev signing key - matches config.go when JWT_SIGNING_KEY is not set
	devSigningKey = "dev-secret-key-change-in-production"

	defaultServiceName = "SkillChain"
	defaultTokenTTL    = time.Hour
)

type tokenOutput struct {
	Token     string            `json:"token"`
	Type      string            `json:"type"`
	ExpiresIn string            `json:"expires_in"`
	Claims    map[string]any    `json:"claims,omitempty"`
	Usage     map[string]string `json:"usage"`
}

type loginOutput struct {
	Address    string `json:"address"`
	Message    string `json:"message"`
	Signature  string `json:"signature"`
	PrivateKey string `json:"privateKey,omitempty"`
}

func main() {
	sessionCmd := flag.NewFlagSet("session", flag.ExitOnError)
	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)

	sessionAddress := sessionCmd.String("address", "", "Wallet address. A random one is generated if empty.")
	sessionEmail := sessionCmd.String("email", "", "Email claim (optional)")
	sessionKey := sessionCmd.String("signing-key", devSigningKey, "HS256 signing key")
	sessionService := sessionCmd.String("service", defaultServiceName, "Service name used as the token issuer")
	sessionTTL := sessionCmd.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	sessionJSON := sessionCmd.Bool("json", false, "Output as JSON")

	loginKey := loginCmd.String("private-key", "", "Hex wallet private key. A random one is generated if empty.")
	loginService := loginCmd.String("service", defaultServiceName, "Service name embedded in the login message")
	loginAge := loginCmd.Duration("age", 0, "Backdate the login message by this much")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "session":
		sessionCmd.Parse(os.Args[2:])
		generateSessionToken(*sessionAddress, *sessionEmail, *sessionKey, *sessionService, *sessionTTL, *sessionJSON)
	case "login":
		loginCmd.Parse(os.Args[2:])
		generateLoginRequest(*loginKey, *loginService, *loginAge)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tokengen - Generate test credentials for the SkillChain API

WARNING: Session tokens use the dev signing key and will NOT work in production.
         Only use for local development and testing.

Usage:
  tokengen <command> [flags]

Commands:
  session   Mint a session token (JWT) for a wallet address
  login     Sign a login message and print a /api/auth/verify-wallet body

Examples:
  # Session token for a random wallet
  tokengen session

  # Session token for a known wallet with an email claim
  tokengen session -address 0xAbC... -email holder@example.com -ttl 2h

  # Login request body, ready for curl -d @-
  tokengen login -private-key 4c0883a6...

  # Login request that is already past the freshness window
  tokengen login -age 6m

Use "tokengen <command> -h" for more information about a command.`)
}

func generateSessionToken(address, email, signingKey, service string, ttl time.Duration, jsonOutput bool) {
	addr := parseOrGenerateAddress(address)

	svc := jwttoken.NewJWTService(signingKey, service, ttl)
	token, err := svc.IssueSessionToken(context.Background(), addr, email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	keyType := "custom"
	if signingKey == devSigningKey {
		keyType = "dev"
	}

	if jsonOutput {
		printJSON(tokenOutput{
			Token:     token,
			Type:      "session_token",
			ExpiresIn: ttl.String(),
			Claims: map[string]any{
				"address": addr.String(),
				"email":   email,
				"iss":     service,
			},
			Usage: map[string]string{
				"header":      "Authorization: Bearer <token>",
				"signing_key": keyType,
			},
		})
		return
	}

	fmt.Println("Session Token (JWT)")
	fmt.Println("===================")
	fmt.Printf("Signing Key: %s\n", keyType)
	fmt.Printf("Expires In:  %s\n", ttl)
	fmt.Printf("Address:     %s\n", addr)
	if email != "" {
		fmt.Printf("Email:       %s\n", email)
	}
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  curl -H \"Authorization: Bearer <token>\" http://localhost:8080/api/...")
}

func generateLoginRequest(hexKey, service string, age time.Duration) {
	key, generated := parseOrGenerateKey(hexKey)

	message := wallet.NewChallenge(service).Message(time.Now().Add(-age))
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing message: %v\n", err)
		os.Exit(1)
	}
	// personal_sign wallets report v as 27/28.
	sig[crypto.RecoveryIDOffset] += 27

	out := loginOutput{
		Address:   crypto.PubkeyToAddress(key.PublicKey).Hex(),
		Message:   message,
		Signature: hexutil.Encode(sig),
	}
	if generated {
		out.PrivateKey = hexutil.Encode(crypto.FromECDSA(key))
	}
	printJSON(out)
}

func parseOrGenerateAddress(input string) domain.Address {
	if input == "" {
		key, err := crypto.GenerateKey()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating wallet: %v\n", err)
			os.Exit(1)
		}
		return domain.AddressFrom(crypto.PubkeyToAddress(key.PublicKey))
	}
	addr, err := domain.ParseAddress(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid address: %s\n", input)
		os.Exit(1)
	}
	return addr
}

func parseOrGenerateKey(input string) (*ecdsa.PrivateKey, bool) {
	if input == "" {
		key, err := crypto.GenerateKey()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating wallet: %v\n", err)
			os.Exit(1)
		}
		return key, true
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(input), "0x"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid private key: %v\n", err)
		os.Exit(1)
	}
	return key, false
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
