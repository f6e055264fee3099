package bridge

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// RelayMessage is the preimage of a relay-direction message id. Authorities
// sign exactly these bytes when they attest a message for Main.AcceptSigned.
func RelayMessage(originRef common.Hash, payload []byte, sender, recipient common.Address) []byte {
	msg := make([]byte, 0, 2*common.HashLength+2*common.AddressLength)
	msg = append(msg, originRef[:]...)
	msg = append(msg, crypto.Keccak256(payload)...)
	msg = append(msg, sender[:]...)
	msg = append(msg, recipient[:]...)
	return msg
}

// RelayMessageID identifies a message announced on Main.
func RelayMessageID(originRef common.Hash, payload []byte, sender, recipient common.Address) common.Hash {
	return crypto.Keccak256Hash(RelayMessage(originRef, payload, sender, recipient))
}

// ConfirmationMessageID identifies a message confirmed on Side. Unlike the
// relay id it hashes the raw payload rather than its digest.
func ConfirmationMessageID(originRef common.Hash, payload []byte, sender, recipient common.Address) common.Hash {
	return crypto.Keccak256Hash(originRef[:], payload, sender[:], recipient[:])
}

func MessageHash(message []byte) common.Hash {
	return crypto.Keccak256Hash(message)
}
