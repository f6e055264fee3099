package bridge_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/omni/authority-bridge/bridge"
)

func TestConfirmationMessageID(t *testing.T) {
	t.Parallel()

	// Same layout a relayer builds by concatenating hex strings.
	packed := hexutil.MustDecode(testOriginRef.Hex() + "1234" + testSender.Hex()[2:] + testRecipient.Hex()[2:])
	require.Equal(t, crypto.Keccak256Hash(packed), bridge.ConfirmationMessageID(testOriginRef, testPayload, testSender, testRecipient))
}

func TestRelayMessageID(t *testing.T) {
	t.Parallel()

	message := testOriginRef.Hex() + crypto.Keccak256Hash(testPayload).Hex()[2:] + testSender.Hex()[2:] + testRecipient.Hex()[2:]
	require.Equal(t, hexutil.MustDecode(message), bridge.RelayMessage(testOriginRef, testPayload, testSender, testRecipient))
	require.Equal(t, crypto.Keccak256Hash(hexutil.MustDecode(message)), bridge.RelayMessageID(testOriginRef, testPayload, testSender, testRecipient))
	require.Equal(t, bridge.MessageHash(hexutil.MustDecode(message)), bridge.RelayMessageID(testOriginRef, testPayload, testSender, testRecipient))
}

func TestMessageID_FieldSensitivity(t *testing.T) {
	t.Parallel()

	for _, id := range []func(common.Hash, []byte, common.Address, common.Address) common.Hash{
		bridge.RelayMessageID,
		bridge.ConfirmationMessageID,
	} {
		base := id(testOriginRef, testPayload, testSender, testRecipient)
		require.Equal(t, base, id(testOriginRef, []byte{0x12, 0x34}, testSender, testRecipient))
		require.NotEqual(t, base, id(common.Hash{}, testPayload, testSender, testRecipient))
		require.NotEqual(t, base, id(testOriginRef, []byte{0x12, 0x35}, testSender, testRecipient))
		require.NotEqual(t, base, id(testOriginRef, testPayload, testRecipient, testSender))
		require.NotEqual(t, base, id(testOriginRef, nil, testSender, testRecipient))
	}
	require.NotEqual(t,
		bridge.RelayMessageID(testOriginRef, testPayload, testSender, testRecipient),
		bridge.ConfirmationMessageID(testOriginRef, testPayload, testSender, testRecipient),
	)
}
