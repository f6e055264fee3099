package bridge_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/omni/authority-bridge/bridge"
	"github.com/omni/authority-bridge/contract/bridgeabi"
	"github.com/omni/authority-bridge/db"
)

func TestMain_Announce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, 1)
	main := env.newMain(t, 1)
	user := common.HexToAddress("0x00000000000000000000000000000000000000e1")

	res, err := main.Announce(ctx, user, testOriginRef, testPayload, testRecipient)
	require.NoError(t, err)
	require.Equal(t, bridge.StatusAnnounced, res.Status)
	messageID := bridge.RelayMessageID(testOriginRef, testPayload, user, testRecipient)
	require.Equal(t, messageID, res.MessageID)
	require.Equal(t, &bridge.RelayAnnounced{MessageID: messageID, Sender: user, Recipient: testRecipient}, res.Event)

	require.Len(t, res.Logs, 1)
	event, data, err := main.ParseLog(res.Logs[0])
	require.NoError(t, err)
	require.Equal(t, bridgeabi.RelayMessage, event)
	require.Equal(t, [32]byte(messageID), data["messageID"])
	require.Equal(t, user, data["sender"])
	require.Equal(t, testRecipient, data["recipient"])

	payload, err := main.RelayedPayload(ctx, messageID)
	require.NoError(t, err)
	require.Equal(t, testPayload, payload)

	again, err := main.Announce(ctx, user, testOriginRef, testPayload, testRecipient)
	require.NoError(t, err)
	require.Equal(t, messageID, again.MessageID)
	require.NotEqual(t, res.TransactionID, again.TransactionID)

	logs, err := main.Logs(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	_, err = main.RelayedPayload(ctx, common.HexToHash("0x01"))
	require.True(t, db.IsNotFound(err))
}

func TestMain_AcceptSigned(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, 2)
	main := env.newMain(t, 1)
	a0 := env.authorities[0]
	message := bridge.RelayMessage(testOriginRef, testPayload, testSender, testRecipient)
	messageID := bridge.MessageHash(message)

	res, err := main.AcceptSigned(ctx, a0.address, [][]byte{a0.sign(t, message)}, testOriginRef, testPayload, testSender, testRecipient)
	require.NoError(t, err)
	require.Equal(t, bridge.StatusThresholdReached, res.Status)
	require.Equal(t, messageID, res.MessageID)

	require.Len(t, res.Logs, 1)
	event, data, err := main.ParseLog(res.Logs[0])
	require.NoError(t, err)
	require.Equal(t, bridgeabi.AcceptedMessage, event)
	require.Equal(t, [32]byte(messageID), data["messageID"])
	require.Equal(t, testSender, data["sender"])
	require.Equal(t, testRecipient, data["recipient"])

	calls := env.recorder.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, testLedgerAddress, calls[0].Caller)
	require.Equal(t, testSender, calls[0].Sender)
	require.Equal(t, bridge.LedgerMain, calls[0].Ledger)

	accepted, err := main.IsAccepted(ctx, messageID)
	require.NoError(t, err)
	require.True(t, accepted)

	_, err = main.AcceptSigned(ctx, a0.address, [][]byte{a0.sign(t, message)}, testOriginRef, testPayload, testSender, testRecipient)
	require.ErrorIs(t, err, bridge.ErrAlreadyExecuted)
	require.Len(t, env.recorder.Calls(), 1)
}

func TestMain_AcceptSignedRejected(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, 2)
	main := env.newMain(t, 2)
	a0, a1 := env.authorities[0], env.authorities[1]
	stranger := newAuthorities(t, 1)[0]
	message := bridge.RelayMessage(testOriginRef, testPayload, testSender, testRecipient)

	for _, test := range []struct {
		Name       string
		Signatures [][]byte
		Err        error
	}{
		{"no signatures", nil, bridge.ErrInsufficientSignatures},
		{"below threshold", [][]byte{a0.sign(t, message)}, bridge.ErrInsufficientSignatures},
		{"duplicate signer", [][]byte{a0.sign(t, message), a0.sign(t, message)}, bridge.ErrDuplicateSignature},
		{"stranger", [][]byte{a0.sign(t, message), stranger.sign(t, message)}, bridge.ErrUnauthorized},
		{"malformed", [][]byte{a0.sign(t, message), {0x01}}, bridge.ErrInvalidSignature},
		{"other message", [][]byte{a0.sign(t, message), a1.sign(t, []byte{0x01})}, bridge.ErrUnauthorized},
	} {
		_, err := main.AcceptSigned(ctx, a0.address, test.Signatures, testOriginRef, testPayload, testSender, testRecipient)
		require.ErrorIs(t, err, test.Err, test.Name)
	}
	require.Empty(t, env.recorder.Calls())

	res, err := main.AcceptSigned(ctx, a0.address, [][]byte{a1.sign(t, message), a0.sign(t, message)}, testOriginRef, testPayload, testSender, testRecipient)
	require.NoError(t, err)
	require.Equal(t, bridge.StatusThresholdReached, res.Status)
}
