package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"golang.org/x/crypto/scrypt"

	"github.com/ascribe/spool-engine/internal/domain"
)

// sealSaltLen is the per-ciphertext scrypt salt length. The salt and the
// AES-GCM nonce are prepended to the ciphertext, so every sealed WIF is
// self-describing.
const sealSaltLen = 16

// SealWIF encrypts a signing key under a password. The sealed form is stored
// on the pending ownership event and erased on confirmation.
func (w *Wallet) SealWIF(wif *btcutil.WIF, password string) (string, error) {
	salt := make([]byte, sealSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	gcm, err := sealCipher(password, salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(wif.String()), nil)
	blob := append(append(salt, nonce...), sealed...)
	return base64.StdEncoding.EncodeToString(blob), nil
}

// UnsealWIF decrypts a sealed signing key. A wrong password surfaces as
// domain.ErrWrongPassword; callers treat it as a user error, not a fault.
func (w *Wallet) UnsealWIF(ciphertext string, password string) (*btcutil.WIF, error) {
	blob, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("malformed sealed wif: %w", err)
	}
	if len(blob) < sealSaltLen {
		return nil, fmt.Errorf("malformed sealed wif: too short")
	}

	salt, rest := blob[:sealSaltLen], blob[sealSaltLen:]
	gcm, err := sealCipher(password, salt)
	if err != nil {
		return nil, err
	}
	if len(rest) < gcm.NonceSize() {
		return nil, fmt.Errorf("malformed sealed wif: too short")
	}

	nonce, sealed := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, domain.ErrWrongPassword
	}

	wif, err := btcutil.DecodeWIF(string(plain))
	if err != nil {
		return nil, fmt.Errorf("sealed payload is not a wif: %w", err)
	}
	if !wif.IsForNet(w.params) {
		return nil, fmt.Errorf("wif is for the wrong network")
	}
	return wif, nil
}

func sealCipher(password string, salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(password), salt, seedN, seedR, seedP, seedKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive sealing key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gcm: %w", err)
	}
	return gcm, nil
}
