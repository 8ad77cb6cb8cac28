// Package signer provides transaction signers for the kwil client.
package signer

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/smallnest/kwilsquid/kwil"
)

// Signer is re-exported so callers configuring actions need one import.
type Signer = kwil.Signer

// SignatureTypeEthPersonal tags secp256k1 signatures over an Ethereum
// personal message.
const SignatureTypeEthPersonal = "secp256k1_ep"

// EthPersonalSigner signs messages the way personal_sign wallets do:
// keccak256 over the "\x19Ethereum Signed Message:\n" prefixed text.
type EthPersonalSigner struct {
	key *ecdsa.PrivateKey
}

var _ Signer = (*EthPersonalSigner)(nil)

// NewEthPersonalSigner wraps an existing private key.
func NewEthPersonalSigner(key *ecdsa.PrivateKey) (*EthPersonalSigner, error) {
	if key == nil {
		return nil, fmt.Errorf("private key is required")
	}
	return &EthPersonalSigner{key: key}, nil
}

// FromHex parses a hex encoded private key, with or without the 0x prefix.
func FromHex(hexKey string) (*EthPersonalSigner, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return &EthPersonalSigner{key: key}, nil
}

// Sign returns a 65 byte [R || S || V] signature with V in {27, 28}.
func (s *EthPersonalSigner) Sign(ctx context.Context, msg []byte) (*kwil.Signature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sig, err := crypto.Sign(accounts.TextHash(msg), s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return &kwil.Signature{Signature: sig, Type: SignatureTypeEthPersonal}, nil
}

// PublicKey returns the uncompressed secp256k1 public key.
func (s *EthPersonalSigner) PublicKey(context.Context) ([]byte, error) {
	return crypto.FromECDSAPub(&s.key.PublicKey), nil
}

// Address returns the Ethereum address of the key.
func (s *EthPersonalSigner) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

// Verify reports whether sig was produced over msg by pubKey.
func Verify(pubKey, msg []byte, sig *kwil.Signature) bool {
	if sig == nil || sig.Type != SignatureTypeEthPersonal || len(sig.Signature) != crypto.SignatureLength {
		return false
	}
	raw := append([]byte(nil), sig.Signature...)
	if raw[crypto.RecoveryIDOffset] >= 27 {
		raw[crypto.RecoveryIDOffset] -= 27
	}
	recovered, err := crypto.SigToPub(accounts.TextHash(msg), raw)
	if err != nil {
		return false
	}
	return string(crypto.FromECDSAPub(recovered)) == string(pubKey)
}
