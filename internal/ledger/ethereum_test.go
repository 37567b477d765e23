package ledger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillchain/pkg/domain"
)

const contractHex = "0x00000000000000000000000000000000000000c0"

// fakeBackend answers the calls the registry client makes. Anything else
// panics through the nil embedded interface.
type fakeBackend struct {
	bind.ContractBackend

	mu       sync.Mutex
	out      []byte
	callErr  error
	lastCall ethereum.CallMsg
	code     []byte
	receipts []*types.Receipt
}

func (f *fakeBackend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCall = msg
	return f.out, f.callErr
}

func (f *fakeBackend) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return f.code, nil
}

func (f *fakeBackend) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.receipts) == 0 {
		return nil, ethereum.NotFound
	}
	r := f.receipts[0]
	f.receipts = f.receipts[1:]
	if r == nil {
		return nil, ethereum.NotFound
	}
	return r, nil
}

func (f *fakeBackend) ChainID(context.Context) (*big.Int, error) {
	return big.NewInt(1337), nil
}

func newTestClient(t *testing.T, backend *fakeBackend) *EthereumClient {
	t.Helper()
	c, err := NewEthereumClient(context.Background(), backend, Config{ContractAddress: contractHex},
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithPollInterval(5*time.Millisecond),
	)
	require.NoError(t, err)
	return c
}

func packOutputs(t *testing.T, method string, values ...any) []byte {
	t.Helper()
	out, err := registry.Methods[method].Outputs.Pack(values...)
	require.NoError(t, err)
	return out
}

func TestGetCredential(t *testing.T) {
	issuer := common.HexToAddress("0x52908400098527886E0F7030069857D2E4169EE7")
	holder := common.HexToAddress("0x8617E340B3D01FA5F11F306F4090FD50E238070D")
	hash := common.HexToHash("0x1c8aff950685c2ed4bc3174f3472287b56d9517b9c948127319a09a7a36deac8")

	t.Run("decodes the record", func(t *testing.T) {
		backend := &fakeBackend{out: packOutputs(t, methodCredentials, issuer, holder, [32]byte(hash), big.NewInt(1700000000), true)}
		c := newTestClient(t, backend)

		rec, err := c.GetCredential(context.Background(), 42)
		require.NoError(t, err)
		assert.Equal(t, domain.AddressFrom(issuer), rec.Issuer)
		assert.Equal(t, domain.AddressFrom(holder), rec.Holder)
		assert.Equal(t, hash, rec.DataHash)
		assert.Equal(t, uint64(1700000000), rec.IssuedAt)
		assert.True(t, rec.Revoked)

		assert.Equal(t, common.HexToAddress(contractHex), *backend.lastCall.To)
		args, err := registry.Methods[methodCredentials].Inputs.Unpack(backend.lastCall.Data[4:])
		require.NoError(t, err)
		assert.Equal(t, int64(42), args[0].(*big.Int).Int64())
	})

	t.Run("zero issuer is not found", func(t *testing.T) {
		backend := &fakeBackend{out: packOutputs(t, methodCredentials, common.Address{}, common.Address{}, [32]byte{}, big.NewInt(0), false)}
		_, err := newTestClient(t, backend).GetCredential(context.Background(), 7)
		assert.ErrorIs(t, err, ErrCredentialNotFound)
		assert.Equal(t, CategoryNotFound, CategoryOf(err))
		assert.False(t, IsRetryable(err))
	})

	t.Run("rpc failure is retryable", func(t *testing.T) {
		backend := &fakeBackend{callErr: errors.New("connection refused")}
		_, err := newTestClient(t, backend).GetCredential(context.Background(), 7)
		assert.Equal(t, CategoryUnavailable, CategoryOf(err))
		assert.True(t, IsRetryable(err))
	})

	t.Run("empty result from an address without code", func(t *testing.T) {
		backend := &fakeBackend{}
		_, err := newTestClient(t, backend).GetCredential(context.Background(), 7)
		assert.ErrorIs(t, err, bind.ErrNoCode)
		assert.Equal(t, CategoryBadData, CategoryOf(err))
	})
}

func TestVerifyCredentialData(t *testing.T) {
	backend := &fakeBackend{out: packOutputs(t, methodVerifyCredentialData, true)}
	c := newTestClient(t, backend)
	data := `{"skillName":"Go","notes":"<b> </b>"}`

	ok, err := c.VerifyCredentialData(context.Background(), 3, data)
	require.NoError(t, err)
	assert.True(t, ok)

	args, err := registry.Methods[methodVerifyCredentialData].Inputs.Unpack(backend.lastCall.Data[4:])
	require.NoError(t, err)
	assert.Equal(t, data, args[1], "data is passed through unchanged")
}

func TestGetIssuerProfile(t *testing.T) {
	backend := &fakeBackend{out: packOutputs(t, methodGetIssuerProfile, "acme.io", true, big.NewInt(1700000000), "Acme", "Training")}
	profile, err := newTestClient(t, backend).GetIssuerProfile(context.Background(), "0x52908400098527886e0f7030069857d2e4169ee7")
	require.NoError(t, err)
	assert.Equal(t, &IssuerProfile{
		Domain:           "acme.io",
		IsVerified:       true,
		VerifiedAt:       1700000000,
		OrganizationName: "Acme",
		Description:      "Training",
	}, profile)
}

func TestCallRevert(t *testing.T) {
	backend := &fakeBackend{callErr: errors.New("execution reverted: unknown issuer")}
	_, err := newTestClient(t, backend).GetIssuerProfile(context.Background(), "0x52908400098527886e0f7030069857d2e4169ee7")
	assert.Equal(t, CategoryReverted, CategoryOf(err))
	assert.False(t, IsRetryable(err))
}

func TestWaitConfirmed(t *testing.T) {
	hash := common.HexToHash("0xabc")

	t.Run("polls until mined", func(t *testing.T) {
		backend := &fakeBackend{receipts: []*types.Receipt{nil, nil, {TxHash: hash, Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(12), GasUsed: 30000}}}
		r, err := newTestClient(t, backend).WaitConfirmed(context.Background(), hash)
		require.NoError(t, err)
		assert.Equal(t, uint64(12), r.BlockNumber)
		assert.Equal(t, hash, r.TxHash)
	})

	t.Run("failed status is a permanent revert", func(t *testing.T) {
		backend := &fakeBackend{receipts: []*types.Receipt{{TxHash: hash, Status: types.ReceiptStatusFailed, BlockNumber: big.NewInt(12)}}}
		r, err := newTestClient(t, backend).WaitConfirmed(context.Background(), hash)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrReverted)
		assert.False(t, IsRetryable(err))
		assert.Equal(t, hash, r.TxHash)
	})

	t.Run("deadline is a retryable timeout", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		_, err := newTestClient(t, &fakeBackend{}).WaitConfirmed(ctx, hash)
		require.Error(t, err)
		assert.Equal(t, CategoryTimeout, CategoryOf(err))
		assert.True(t, IsRetryable(err))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestSetDomainVerifiedRequiresKey(t *testing.T) {
	_, err := newTestClient(t, &fakeBackend{}).SetDomainVerified(context.Background(), "0x52908400098527886e0f7030069857d2e4169ee7", true)
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestNewEthereumClientRejectsBadConfig(t *testing.T) {
	_, err := NewEthereumClient(context.Background(), &fakeBackend{}, Config{ContractAddress: "nope"})
	assert.Error(t, err)

	_, err = NewEthereumClient(context.Background(), &fakeBackend{}, Config{ContractAddress: contractHex, PrivateKey: "zz"})
	assert.Error(t, err)
}
