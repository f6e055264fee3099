package utils

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const SignatureLength = crypto.SignatureLength

var ErrInvalidSignatureLength = errors.New("invalid signature length")

// RestoreSignerAddress recovers the address that produced sig over the
// personal-message hash of data. Both 0/1 and 27/28 recovery ids are accepted.
func RestoreSignerAddress(data, sig []byte) (common.Address, error) {
	if len(sig) != SignatureLength {
		return common.Address{}, fmt.Errorf("got %d bytes: %w", len(sig), ErrInvalidSignatureLength)
	}
	normalized := make([]byte, SignatureLength)
	copy(normalized, sig)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}
	pk, err := crypto.SigToPub(accounts.TextHash(data), normalized)
	if err != nil {
		return common.Address{}, fmt.Errorf("can't recover ecdsa signer: %w", err)
	}
	return crypto.PubkeyToAddress(*pk), nil
}

// SignText produces a personal-message signature over data with a 27/28
// recovery id, the same format eth_sign returns.
func SignText(key *ecdsa.PrivateKey, data []byte) ([]byte, error) {
	sig, err := crypto.Sign(accounts.TextHash(data), key)
	if err != nil {
		return nil, fmt.Errorf("can't sign data: %w", err)
	}
	sig[64] += 27
	return sig, nil
}
