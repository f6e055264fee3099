package presenter_test

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/omni/authority-bridge/bridge"
	"github.com/omni/authority-bridge/presenter"
	"github.com/omni/authority-bridge/presenter/http/middleware"
	"github.com/omni/authority-bridge/repository/memory"
	"github.com/omni/authority-bridge/utils"
)

var (
	mainAddress   = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	sideAddress   = common.HexToAddress("0x00000000000000000000000000000000000000bb")
	testOriginRef = common.HexToHash("0x20393f23b0b9b5f12d67e49d6541d4daf085c7b6a402f67e6e98dc81e0550963")
	testSender    = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	testRecipient = common.HexToAddress("0x00000000000000000000000000000000000000d1")
)

type testServer struct {
	t    *testing.T
	keys []*ecdsa.PrivateKey
	p    *presenter.Presenter
}

func newTestServer(t *testing.T, n int, threshold uint) *testServer {
	t.Helper()

	keys := make([]*ecdsa.PrivateKey, n)
	authorities := make([]common.Address, n)
	for i := range keys {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		keys[i] = key
		authorities[i] = crypto.PubkeyToAddress(key.PublicKey)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	store := memory.NewStore()

	mainLedger, err := bridge.NewMain(bridge.Options{
		Address:     mainAddress,
		Authorities: authorities,
		Threshold:   threshold,
		Store:       store,
		Logger:      logger,
	})
	require.NoError(t, err)
	sideLedger, err := bridge.NewSide(bridge.Options{
		Address:     sideAddress,
		Authorities: authorities,
		Threshold:   threshold,
		Store:       store,
		Logger:      logger,
	})
	require.NoError(t, err)

	return &testServer{
		t:    t,
		keys: keys,
		p:    presenter.NewPresenter(logger, mainLedger, sideLedger),
	}
}

func (s *testServer) address(i int) common.Address {
	return crypto.PubkeyToAddress(s.keys[i].PublicKey)
}

func (s *testServer) post(key *ecdsa.PrivateKey, path string, req interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	body, err := json.Marshal(req)
	require.NoError(s.t, err)
	r := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	if key != nil {
		sig, err2 := utils.SignText(key, middleware.RequestPreimage(http.MethodPost, path, body))
		require.NoError(s.t, err2)
		r.Header.Set(middleware.SignatureHeader, hexutil.Encode(sig))
	}
	w := httptest.NewRecorder()
	s.p.ServeHTTP(w, r)
	return w
}

func (s *testServer) get(path string) *httptest.ResponseRecorder {
	s.t.Helper()

	w := httptest.NewRecorder()
	s.p.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var res map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func confirmRequest() *presenter.ConfirmRequest {
	return &presenter.ConfirmRequest{
		OriginReference: testOriginRef,
		Payload:         []byte{0x12, 0x34},
		Sender:          testSender.Hex(),
		Recipient:       testRecipient.Hex(),
	}
}

func TestPresenter_Confirm(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, 3, 2)
	messageID := bridge.ConfirmationMessageID(testOriginRef, []byte{0x12, 0x34}, testSender, testRecipient)

	w := s.post(s.keys[0], "/side/confirm", confirmRequest())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode(t, w)
	require.Equal(t, "pending", res["status"])
	require.Equal(t, messageID.Hex(), res["messageId"])
	require.Equal(t, strings.ToLower(s.address(0).Hex()), res["caller"])

	w = s.post(s.keys[0], "/side/confirm", confirmRequest())
	require.Equal(t, http.StatusConflict, w.Code)

	outsider, err := crypto.GenerateKey()
	require.NoError(t, err)
	w = s.post(outsider, "/side/confirm", confirmRequest())
	require.Equal(t, http.StatusForbidden, w.Code)

	w = s.post(s.keys[1], "/side/confirm", confirmRequest())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res = decode(t, w)
	require.Equal(t, "threshold_reached", res["status"])
	require.Equal(t, "AcceptedMessage", res["eventName"])

	w = s.post(s.keys[2], "/side/confirm", confirmRequest())
	require.Equal(t, http.StatusConflict, w.Code)

	w = s.get(fmt.Sprintf("/side/confirmations/%s/%s", messageID.Hex(), s.address(1).Hex()))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, decode(t, w)["confirmed"])

	w = s.get(fmt.Sprintf("/side/confirmations/%s/%s", messageID.Hex(), s.address(2).Hex()))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, false, decode(t, w)["confirmed"])

	w = s.get("/side/proxies/" + testSender.Hex())
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, strings.ToLower(crypto.CreateAddress(sideAddress, 1).Hex()), decode(t, w)["proxy"])

	w = s.get("/side/proxies/" + testRecipient.Hex())
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPresenter_BadRequests(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, 1, 1)

	t.Run("missing signature header", func(t *testing.T) {
		t.Parallel()
		w := s.post(nil, "/side/confirm", confirmRequest())
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
	t.Run("invalid sender address", func(t *testing.T) {
		t.Parallel()
		req := confirmRequest()
		req.Sender = "0x1234"
		w := s.post(s.keys[0], "/side/confirm", req)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()
		w := s.post(s.keys[0], "/main/announce", map[string]string{"foo": "bar"})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
	t.Run("invalid message id", func(t *testing.T) {
		t.Parallel()
		w := s.get("/main/relayed/0x1234")
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
	t.Run("invalid logs limit", func(t *testing.T) {
		t.Parallel()
		w := s.get("/main/logs?limit=0")
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPresenter_LedgerInfo(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, 3, 2)

	w := s.get("/main/threshold")
	require.Equal(t, http.StatusOK, w.Code)
	res := decode(t, w)
	require.Equal(t, "main", res["ledger"])
	require.EqualValues(t, 2, res["threshold"])

	w = s.get("/side/authorities/2")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, strings.ToLower(s.address(2).Hex()), decode(t, w)["authority"])

	w = s.get("/side/authorities/3")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = s.get("/other/threshold")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPresenter_Signatures(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, 3, 2)
	message := bridge.RelayMessage(testOriginRef, []byte{0x12, 0x34}, testSender, testRecipient)
	msgHash := bridge.MessageHash(message)

	submit := func(i int) *httptest.ResponseRecorder {
		sig, err := utils.SignText(s.keys[i], message)
		require.NoError(t, err)
		return s.post(s.keys[i], "/side/signatures", &presenter.SignatureRequest{
			Signature: sig,
			Message:   message,
		})
	}

	w := submit(0)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "pending", decode(t, w)["status"])

	w = s.get(fmt.Sprintf("/side/signed?message=%s&authority=%s", hexutil.Encode(message), s.address(0).Hex()))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, decode(t, w)["signed"])

	w = s.get(fmt.Sprintf("/side/signatures/%s/1", msgHash.Hex()))
	require.Equal(t, http.StatusNotFound, w.Code)

	w = submit(1)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode(t, w)
	require.Equal(t, "threshold_reached", res["status"])
	require.Equal(t, "SignedMessage", res["eventName"])

	w = submit(2)
	require.Equal(t, http.StatusConflict, w.Code)

	w = s.get(fmt.Sprintf("/side/signatures/%s/1", msgHash.Hex()))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, msgHash.Hex(), decode(t, w)["messageHash"])

	w = s.get("/side/messages/" + msgHash.Hex())
	require.Equal(t, http.StatusOK, w.Code)
	res = decode(t, w)
	require.Equal(t, hexutil.Encode(message), res["message"])
	require.Equal(t, true, res["finalized"])
	require.EqualValues(t, 2, res["numSignatures"])
}

func TestPresenter_AnnounceAndLogs(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, 1, 1)
	payload := []byte{0xde, 0xad}
	messageID := bridge.RelayMessageID(testOriginRef, payload, s.address(0), testRecipient)

	w := s.post(s.keys[0], "/main/announce", &presenter.AnnounceRequest{
		OriginReference: testOriginRef,
		Payload:         payload,
		Recipient:       testRecipient.Hex(),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode(t, w)
	require.Equal(t, "announced", res["status"])
	require.Equal(t, messageID.Hex(), res["messageId"])

	w = s.get("/main/relayed/" + messageID.Hex())
	require.Equal(t, http.StatusOK, w.Code)
	res = decode(t, w)
	require.Equal(t, hexutil.Encode(payload), res["payload"])
	require.Equal(t, false, res["accepted"])

	w = s.get("/main/relayed/" + common.Hash{}.Hex())
	require.Equal(t, http.StatusNotFound, w.Code)

	w = s.get("/main/logs")
	require.Equal(t, http.StatusOK, w.Code)
	var logs presenter.LogsResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
	require.Equal(t, "main", logs.Ledger)
	require.Len(t, logs.Logs, 1)
	require.Contains(t, logs.Logs[0].Event, "RelayMessage")
	require.Equal(t, logs.Logs[0].LogID+1, logs.NextID)

	w = s.get(fmt.Sprintf("/main/logs?fromId=%d", logs.NextID))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
	require.Empty(t, logs.Logs)

	w = s.get("/side/logs")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
	require.Empty(t, logs.Logs)
}

func TestPresenter_LedgerSignatureIsNotRequestAuth(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, 3, 2)
	body, err := json.Marshal(confirmRequest())
	require.NoError(t, err)

	sig, err := utils.SignText(s.keys[0], body)
	require.NoError(t, err)
	w := s.post(s.keys[0], "/side/signatures", &presenter.SignatureRequest{
		Signature: sig,
		Message:   body,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.get(fmt.Sprintf("/side/signatures/%s/0", bridge.MessageHash(body).Hex()))
	require.Equal(t, http.StatusOK, w.Code)
	published, err := hexutil.Decode(decode(t, w)["signature"].(string))
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/side/confirm", bytes.NewReader(body))
	r.Header.Set(middleware.SignatureHeader, hexutil.Encode(published))
	w = httptest.NewRecorder()
	s.p.ServeHTTP(w, r)
	require.Equal(t, http.StatusForbidden, w.Code)

	messageID := bridge.ConfirmationMessageID(testOriginRef, []byte{0x12, 0x34}, testSender, testRecipient)
	w = s.get(fmt.Sprintf("/side/confirmations/%s/%s", messageID.Hex(), s.address(0).Hex()))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, false, decode(t, w)["confirmed"])
}
