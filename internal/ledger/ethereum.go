package ledger

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"skillchain/internal/platform/metrics"
	"skillchain/pkg/domain"
	"skillchain/pkg/platform/tracer"
	"skillchain/pkg/requestcontext"
)

const defaultPollInterval = 2 * time.Second

// Backend is the subset of an RPC client the registry needs. *ethclient.Client
// and the simulated backend's client both satisfy it.
type Backend interface {
	bind.ContractBackend
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

// Config locates the registry contract.
type Config struct {
	RPCURL          string
	ContractAddress string
	// PrivateKey is hex encoded. Without it the client is read-only.
	PrivateKey string
}

// EthereumClient implements Reader and Writer against an EVM JSON-RPC node.
type EthereumClient struct {
	backend      Backend
	contract     *bind.BoundContract
	address      common.Address
	signer       *bind.TransactOpts
	pollInterval time.Duration
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       tracer.Tracer
}

type Option func(*EthereumClient)

func WithLogger(logger *slog.Logger) Option {
	return func(c *EthereumClient) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *EthereumClient) {
		c.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(c *EthereumClient) {
		c.tracer = t
	}
}

// WithPollInterval sets how often WaitConfirmed asks for the receipt.
func WithPollInterval(d time.Duration) Option {
	return func(c *EthereumClient) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// Dial connects to cfg.RPCURL and binds the registry contract.
func Dial(ctx context.Context, cfg Config, opts ...Option) (*EthereumClient, error) {
	rpc, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial ledger rpc: %w", err)
	}
	client, err := NewEthereumClient(ctx, rpc, cfg, opts...)
	if err != nil {
		rpc.Close()
		return nil, err
	}
	return client, nil
}

// NewEthereumClient binds the registry contract on an existing backend.
func NewEthereumClient(ctx context.Context, backend Backend, cfg Config, opts ...Option) (*EthereumClient, error) {
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("invalid contract address %q", cfg.ContractAddress)
	}
	address := common.HexToAddress(cfg.ContractAddress)

	c := &EthereumClient{
		backend:      backend,
		contract:     bind.NewBoundContract(address, registry, backend, backend, backend),
		address:      address,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.tracer == nil {
		c.tracer = tracer.NewNoop()
	}

	if cfg.PrivateKey != "" {
		signer, err := newSigner(ctx, backend, cfg.PrivateKey)
		if err != nil {
			return nil, err
		}
		c.signer = signer
	}
	return c, nil
}

func newSigner(ctx context.Context, backend Backend, hexKey string) (*bind.TransactOpts, error) {
	key, err := parseKey(hexKey)
	if err != nil {
		return nil, err
	}
	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch chain id: %w", err)
	}
	signer, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("create transactor: %w", err)
	}
	return signer, nil
}

func parseKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse ledger private key: %w", err)
	}
	return key, nil
}

// Address returns the bound contract address.
func (c *EthereumClient) Address() common.Address {
	return c.address
}

// Close releases the RPC connection when the backend owns one.
func (c *EthereumClient) Close() error {
	if closer, ok := c.backend.(interface{ Close() }); ok {
		closer.Close()
	}
	return nil
}

// Health reports whether the node answers.
func (c *EthereumClient) Health(ctx context.Context) error {
	_, err := c.backend.ChainID(ctx)
	return err
}

func (c *EthereumClient) GetCredential(ctx context.Context, id domain.CredentialID) (*CredentialRecord, error) {
	out, err := c.call(ctx, methodCredentials, []tracer.Attribute{tracer.String(tracer.AttrCredentialID, id.String())},
		new(big.Int).SetUint64(uint64(id)))
	if err != nil {
		return nil, err
	}

	var raw struct {
		Issuer   common.Address
		Holder   common.Address
		DataHash [32]byte
		IssuedAt *big.Int
		Revoked  bool
	}
	if err := registry.UnpackIntoInterface(&raw, methodCredentials, out); err != nil {
		return nil, NewError(CategoryBadData, methodCredentials, err)
	}
	if raw.Issuer == (common.Address{}) {
		return nil, NewError(CategoryNotFound, methodCredentials, ErrCredentialNotFound)
	}

	return &CredentialRecord{
		Issuer:   domain.AddressFrom(raw.Issuer),
		Holder:   domain.AddressFrom(raw.Holder),
		DataHash: common.Hash(raw.DataHash),
		IssuedAt: raw.IssuedAt.Uint64(),
		Revoked:  raw.Revoked,
	}, nil
}

func (c *EthereumClient) VerifyCredentialData(ctx context.Context, id domain.CredentialID, data string) (bool, error) {
	out, err := c.call(ctx, methodVerifyCredentialData, []tracer.Attribute{tracer.String(tracer.AttrCredentialID, id.String())},
		new(big.Int).SetUint64(uint64(id)), data)
	if err != nil {
		return false, err
	}
	values, err := registry.Unpack(methodVerifyCredentialData, out)
	if err != nil {
		return false, NewError(CategoryBadData, methodVerifyCredentialData, err)
	}
	valid, ok := values[0].(bool)
	if !ok {
		return false, NewError(CategoryBadData, methodVerifyCredentialData, fmt.Errorf("unexpected output %T", values[0]))
	}
	return valid, nil
}

func (c *EthereumClient) GetIssuerProfile(ctx context.Context, issuer domain.Address) (*IssuerProfile, error) {
	out, err := c.call(ctx, methodGetIssuerProfile, []tracer.Attribute{tracer.String(tracer.AttrIssuer, issuer.String())},
		issuer.Common())
	if err != nil {
		return nil, err
	}

	var raw struct {
		Domain           string
		IsVerified       bool
		VerifiedAt       *big.Int
		OrganizationName string
		Description      string
	}
	if err := registry.UnpackIntoInterface(&raw, methodGetIssuerProfile, out); err != nil {
		return nil, NewError(CategoryBadData, methodGetIssuerProfile, err)
	}
	return &IssuerProfile{
		Domain:           raw.Domain,
		IsVerified:       raw.IsVerified,
		VerifiedAt:       raw.VerifiedAt.Uint64(),
		OrganizationName: raw.OrganizationName,
		Description:      raw.Description,
	}, nil
}

// call performs an eth_call and returns the raw return data.
func (c *EthereumClient) call(ctx context.Context, method string, attrs []tracer.Attribute, args ...any) (out []byte, err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanLedgerCall, append(attrs, tracer.String(tracer.AttrMethod, method))...)
	start := time.Now()
	defer func() {
		c.metrics.ObserveLedgerCall(method, time.Since(start).Seconds(), err)
		span.End(err)
	}()

	input, err := registry.Pack(method, args...)
	if err != nil {
		return nil, NewError(CategoryBadData, method, err)
	}
	out, err = c.backend.CallContract(ctx, ethereum.CallMsg{To: &c.address, Data: input}, nil)
	if err != nil {
		return nil, classify(method, err)
	}
	if len(out) == 0 {
		code, codeErr := c.backend.CodeAt(ctx, c.address, nil)
		if codeErr == nil && len(code) == 0 {
			return nil, NewError(CategoryBadData, method, bind.ErrNoCode)
		}
		return nil, NewError(CategoryBadData, method, errors.New("empty call result"))
	}
	return out, nil
}

func (c *EthereumClient) SetDomainVerified(ctx context.Context, issuer domain.Address, verified bool) (hash common.Hash, err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanLedgerTransact,
		tracer.String(tracer.AttrMethod, methodVerifyDomain),
		tracer.String(tracer.AttrIssuer, issuer.String()),
	)
	start := time.Now()
	defer func() {
		c.metrics.ObserveLedgerCall(methodVerifyDomain, time.Since(start).Seconds(), err)
		span.End(err)
	}()

	if c.signer == nil {
		return common.Hash{}, NewError(CategoryBadData, methodVerifyDomain, ErrReadOnly)
	}

	opts := *c.signer
	opts.Context = ctx
	tx, err := c.contract.Transact(&opts, methodVerifyDomain, issuer.Common(), verified)
	if err != nil {
		return common.Hash{}, classify(methodVerifyDomain, err)
	}

	span.SetAttributes(tracer.String(tracer.AttrTxHash, tx.Hash().Hex()))
	c.logger.InfoContext(ctx, "ledger transaction submitted",
		"method", methodVerifyDomain,
		"tx_hash", tx.Hash().Hex(),
		"issuer", issuer.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return tx.Hash(), nil
}

// WaitConfirmed polls for the receipt of hash until it is mined or ctx ends.
// A mined receipt with a failed status is returned together with an error of
// CategoryReverted.
func (c *EthereumClient) WaitConfirmed(ctx context.Context, hash common.Hash) (receipt *Receipt, err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanLedgerWait, tracer.String(tracer.AttrTxHash, hash.Hex()))
	start := time.Now()
	defer func() {
		c.metrics.ObserveConfirmation(time.Since(start).Seconds())
		span.End(err)
	}()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		r, err := c.backend.TransactionReceipt(ctx, hash)
		if err == nil {
			receipt = &Receipt{TxHash: r.TxHash, GasUsed: r.GasUsed, Status: r.Status}
			if r.BlockNumber != nil {
				receipt.BlockNumber = r.BlockNumber.Uint64()
			}
			if r.Status != types.ReceiptStatusSuccessful {
				return receipt, NewError(CategoryReverted, methodVerifyDomain, ErrReverted)
			}
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) && ctx.Err() == nil {
			c.logger.DebugContext(ctx, "receipt lookup failed, retrying",
				"tx_hash", hash.Hex(),
				"error", err,
			)
		}

		select {
		case <-ctx.Done():
			return nil, NewError(CategoryTimeout, methodVerifyDomain, ctx.Err())
		case <-ticker.C:
		}
	}
}

var (
	_ Reader = (*EthereumClient)(nil)
	_ Writer = (*EthereumClient)(nil)
)
