package wallet_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ascribe/spool-engine/internal/domain"
	"github.com/ascribe/spool-engine/internal/wallet"
)

var testSalt = []byte("0123456789abcdef")

func newTestWallet(t *testing.T) *wallet.Wallet {
	w, err := wallet.New(domain.NetworkRegtest, testSalt)
	require.NoError(t, err)
	return w
}

func TestNew_RejectsShortSalt(t *testing.T) {
	_, err := wallet.New(domain.NetworkRegtest, []byte("short"))
	assert.Error(t, err)
}

func TestNew_RejectsUnknownNetwork(t *testing.T) {
	_, err := wallet.New(domain.Network("simnet"), testSalt)
	assert.Error(t, err)
}

func TestDerive_Deterministic(t *testing.T) {
	w := newTestWallet(t)

	addr1, wif1, err := w.Derive("secret password", "2015/3/7/1200/0")
	require.NoError(t, err)
	addr2, wif2, err := w.Derive("secret password", "2015/3/7/1200/0")
	require.NoError(t, err)

	assert.Equal(t, addr1, addr2)
	assert.Equal(t, wif1.String(), wif2.String())
	assert.Equal(t, "2015/3/7/1200/0", addr1.Path())
	assert.NotEmpty(t, addr1.Btc())
}

func TestDerive_DistinctByPasswordAndPath(t *testing.T) {
	w := newTestWallet(t)

	base, _, err := w.Derive("secret password", "2015/3/7/1200/0")
	require.NoError(t, err)

	otherPassword, _, err := w.Derive("different password", "2015/3/7/1200/0")
	require.NoError(t, err)
	otherPath, _, err := w.Derive("secret password", "2015/3/7/1200/1")
	require.NoError(t, err)

	assert.NotEqual(t, base.Btc(), otherPassword.Btc())
	assert.NotEqual(t, base.Btc(), otherPath.Btc())
}

func TestDerive_EmptyPassword(t *testing.T) {
	w := newTestWallet(t)

	_, _, err := w.Derive("", "2015/3/7/1200/0")
	assert.ErrorIs(t, err, domain.ErrWrongPassword)
}

func TestDerive_AddressMatchesWIF(t *testing.T) {
	w := newTestWallet(t)

	addr, wif, err := w.Derive("secret password", "2015/3/7/1200/0")
	require.NoError(t, err)

	fromWIF, err := w.AddressForWIF(wif)
	require.NoError(t, err)
	assert.Equal(t, addr.Btc(), fromWIF)
}

func TestVerify(t *testing.T) {
	w := newTestWallet(t)

	addr, _, err := w.Derive("secret password", "2015/3/7/1200/0")
	require.NoError(t, err)

	ok, err := w.Verify("secret password", addr)
	require.NoError(t, err)
	assert.True(t, ok)

	// A changed password derives a different chain head
	ok, err = w.Verify("new password", addr)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSealUnsealWIF_RoundTrip(t *testing.T) {
	w := newTestWallet(t)

	_, wif, err := w.Derive("secret password", "2015/3/7/1200/0")
	require.NoError(t, err)

	sealed, err := w.SealWIF(wif, "secret password")
	require.NoError(t, err)
	assert.NotContains(t, sealed, wif.String())

	unsealed, err := w.UnsealWIF(sealed, "secret password")
	require.NoError(t, err)
	assert.Equal(t, wif.String(), unsealed.String())
}

func TestSealWIF_FreshSaltPerSeal(t *testing.T) {
	w := newTestWallet(t)

	_, wif, err := w.Derive("secret password", "2015/3/7/1200/0")
	require.NoError(t, err)

	first, err := w.SealWIF(wif, "secret password")
	require.NoError(t, err)
	second, err := w.SealWIF(wif, "secret password")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestUnsealWIF_WrongPassword(t *testing.T) {
	w := newTestWallet(t)

	_, wif, err := w.Derive("secret password", "2015/3/7/1200/0")
	require.NoError(t, err)
	sealed, err := w.SealWIF(wif, "secret password")
	require.NoError(t, err)

	_, err = w.UnsealWIF(sealed, "wrong password")
	assert.ErrorIs(t, err, domain.ErrWrongPassword)
}

func TestUnsealWIF_Malformed(t *testing.T) {
	w := newTestWallet(t)

	_, err := w.UnsealWIF("not base64!!!", "secret password")
	assert.Error(t, err)

	_, err = w.UnsealWIF("c2hvcnQ=", "secret password")
	assert.Error(t, err)
}

func TestUnsealWIF_WrongNetwork(t *testing.T) {
	mainnet, err := wallet.New(domain.NetworkMainnet, testSalt)
	require.NoError(t, err)
	regtest := newTestWallet(t)

	_, wif, err := mainnet.Derive("secret password", "2015/3/7/1200/0")
	require.NoError(t, err)
	sealed, err := mainnet.SealWIF(wif, "secret password")
	require.NoError(t, err)

	_, err = regtest.UnsealWIF(sealed, "secret password")
	assert.Error(t, err)
}

func TestNewPath(t *testing.T) {
	at := time.Date(2015, 3, 7, 0, 20, 0, 0, time.UTC)
	path := wallet.NewPath(at, 2)
	assert.Equal(t, "2015/3/7/1200/2", path)

	// Same second, different sequence
	assert.NotEqual(t, path, wallet.NewPath(at, 3))
}

func TestCustodyPath(t *testing.T) {
	at := time.Date(2015, 3, 7, 0, 20, 0, 0, time.UTC)
	path := wallet.CustodyPath(42, at, 0)

	assert.Equal(t, "u/42/2015/3/7/1200/0", path)
	assert.True(t, wallet.IsCustodyPath(path))
	assert.False(t, wallet.IsCustodyPath("2015/3/7/1200/0"))
}
