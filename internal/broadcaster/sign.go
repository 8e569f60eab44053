package broadcaster

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/ascribe/spool-engine/internal/domain"
	"github.com/ascribe/spool-engine/internal/store/schema"
)

// assembleTx builds the wire transaction: the selected inputs, the value
// outputs in their stored order, an optional change output, and the
// protocol marker in a null-data output last. The output ordering is fixed;
// external indexers locate the marker by scanning for the null-data script.
func assembleTx(params *chaincfg.Params, inputs []schema.UnspentOutput, outputs []schema.TxOutput, verb string, changeAddress string, change int64) (*wire.MsgTx, error) {
	tx := wire.NewMsgTx(wire.TxVersion)

	for _, in := range inputs {
		hash, err := chainhash.NewHashFromStr(in.TxHash)
		if err != nil {
			return nil, fmt.Errorf("invalid input hash %q: %w", in.TxHash, err)
		}
		tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(hash, in.Vout), nil, nil))
	}

	for _, out := range outputs {
		script, err := payToAddrScript(out.Address, params)
		if err != nil {
			return nil, err
		}
		tx.AddTxOut(wire.NewTxOut(out.Amount, script))
	}

	if change > 0 {
		script, err := payToAddrScript(changeAddress, params)
		if err != nil {
			return nil, err
		}
		tx.AddTxOut(wire.NewTxOut(change, script))
	}

	marker, err := txscript.NullDataScript([]byte(verb))
	if err != nil {
		return nil, fmt.Errorf("failed to build marker output: %w", err)
	}
	tx.AddTxOut(wire.NewTxOut(0, marker))

	return tx, nil
}

// signTx signs every input with the key registered for its source address.
// A missing key is an invariant violation: input selection only draws from
// addresses whose keys were resolved beforehand.
func signTx(tx *wire.MsgTx, inputs []schema.UnspentOutput, keys map[string]*btcutil.WIF) error {
	for i, in := range inputs {
		wif, ok := keys[in.Address]
		if !ok {
			return fmt.Errorf("no signing key for input address %s: %w", in.Address, domain.ErrInvalidEventState)
		}
		pkScript, err := hex.DecodeString(in.ScriptPubKey)
		if err != nil {
			return fmt.Errorf("invalid script for unspent %s:%d: %w", in.TxHash, in.Vout, err)
		}
		sigScript, err := txscript.SignatureScript(tx, i, pkScript, txscript.SigHashAll, wif.PrivKey, wif.CompressPubKey)
		if err != nil {
			return fmt.Errorf("failed to sign input %d: %w", i, err)
		}
		tx.TxIn[i].SignatureScript = sigScript
	}
	return nil
}

// serializeTx renders the wire encoding as hex for the node RPC
func serializeTx(tx *wire.MsgTx) (string, error) {
	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}
	return hex.EncodeToString(buf.Bytes()), nil
}

func payToAddrScript(address string, params *chaincfg.Params) ([]byte, error) {
	addr, err := btcutil.DecodeAddress(address, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, address)
	}
	script, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to build output script for %q: %w", address, err)
	}
	return script, nil
}
