package wallet

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"golang.org/x/crypto/scrypt"

	"github.com/ascribe/spool-engine/internal/domain"
)

// scrypt parameters for root-seed derivation. Interactive-login strength;
// raising them changes every derived address and is a breaking migration.
const (
	seedN      = 1 << 15
	seedR      = 8
	seedP      = 1
	seedKeyLen = 32
)

// Wallet derives per-action signing keys from a user password. Derivation is
// deterministic: the same (password, path) pair always yields the same key,
// so a changed password is detectable as an address mismatch against the
// stored chain head.
type Wallet struct {
	params *chaincfg.Params
	salt   []byte
}

// New creates a wallet for the given network. The salt is an engine-wide
// constant from configuration, not a per-user secret.
func New(network domain.Network, salt []byte) (*Wallet, error) {
	params, err := chainParams(network)
	if err != nil {
		return nil, err
	}
	if len(salt) < 16 {
		return nil, fmt.Errorf("wallet salt must be at least 16 bytes, got %d", len(salt))
	}
	return &Wallet{params: params, salt: salt}, nil
}

// Params returns the chain parameters the wallet derives for
func (w *Wallet) Params() *chaincfg.Params {
	return w.params
}

// Derive produces the signing key and P2PKH address for a derivation path
// under the user's password. The returned Address carries the path prefix in
// the canonical stored form.
func (w *Wallet) Derive(password string, path string) (domain.Address, *btcutil.WIF, error) {
	if password == "" {
		return "", nil, fmt.Errorf("derive %q: empty password: %w", path, domain.ErrWrongPassword)
	}

	seed, err := scrypt.Key([]byte(password), w.salt, seedN, seedR, seedP, seedKeyLen)
	if err != nil {
		return "", nil, fmt.Errorf("failed to derive seed: %w", err)
	}

	mac := hmac.New(sha256.New, seed)
	mac.Write([]byte(path))
	priv, _ := btcec.PrivKeyFromBytes(mac.Sum(nil))

	wif, err := btcutil.NewWIF(priv, w.params, true)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode wif: %w", err)
	}

	addr, err := btcutil.NewAddressPubKeyHash(
		btcutil.Hash160(priv.PubKey().SerializeCompressed()), w.params)
	if err != nil {
		return "", nil, fmt.Errorf("failed to derive address: %w", err)
	}

	return domain.NewAddress(path, addr.EncodeAddress()), wif, nil
}

// Verify reports whether the password still derives the stored address. A
// mismatch means the password changed since the address was issued and the
// event needs migration before it can be signed.
func (w *Wallet) Verify(password string, address domain.Address) (bool, error) {
	derived, _, err := w.Derive(password, address.Path())
	if err != nil {
		return false, err
	}
	return derived == address, nil
}

// AddressForWIF recomputes the P2PKH address a WIF signs for
func (w *Wallet) AddressForWIF(wif *btcutil.WIF) (string, error) {
	addr, err := btcutil.NewAddressPubKeyHash(
		btcutil.Hash160(wif.PrivKey.PubKey().SerializeCompressed()), w.params)
	if err != nil {
		return "", fmt.Errorf("failed to derive address: %w", err)
	}
	return addr.EncodeAddress(), nil
}

// NewPath builds a fresh derivation path for an action initiated at t. The
// sequence number disambiguates multiple actions in the same second.
func NewPath(t time.Time, sequence uint64) string {
	return fmt.Sprintf("%d/%d/%d/%d/%d",
		t.Year(), int(t.Month()), t.Day(), t.Unix()%86400, sequence)
}

// custodyPrefix marks addresses held in the engine's federation wallet on a
// user's behalf. Custody addresses are derived under the federation
// password, not the user's, so a user password change never invalidates
// them.
const custodyPrefix = "u/"

// CustodyPath builds a derivation path in a user's custody namespace
func CustodyPath(userID int64, t time.Time, sequence uint64) string {
	return fmt.Sprintf("%s%d/%s", custodyPrefix, userID, NewPath(t, sequence))
}

// IsCustodyPath reports whether a path belongs to the custody namespace
func IsCustodyPath(path string) bool {
	return strings.HasPrefix(path, custodyPrefix)
}

func chainParams(network domain.Network) (*chaincfg.Params, error) {
	switch network {
	case domain.NetworkMainnet:
		return &chaincfg.MainNetParams, nil
	case domain.NetworkTestnet:
		return &chaincfg.TestNet3Params, nil
	case domain.NetworkRegtest:
		return &chaincfg.RegressionNetParams, nil
	default:
		return nil, fmt.Errorf("unknown network %q", network)
	}
}
