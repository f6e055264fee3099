package main

import (
	"flag"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sirupsen/logrus"

	"github.com/omni/authority-bridge/bridge"
	"github.com/omni/authority-bridge/logging"
	"github.com/omni/authority-bridge/presenter/http/middleware"
	"github.com/omni/authority-bridge/utils"
)

var (
	originRef = flag.String("originRef", "", "origin reference of the message")
	payload   = flag.String("payload", "0x", "hex encoded message payload")
	sender    = flag.String("sender", "", "message sender")
	recipient = flag.String("recipient", "", "message recipient")
	bodyFile  = flag.String("body", "", "sign the contents of the given request body file instead of a relay message")
	method    = flag.String("method", "POST", "http method of the signed request")
	path      = flag.String("path", "", "http path of the signed request, e.g. /side/confirm")
)

// Hex encoded authority private key.
const keyEnv = "BRIDGE_AUTHORITY_KEY"

func main() {
	flag.Parse()

	key, err := crypto.HexToECDSA(os.Getenv(keyEnv))
	if err != nil {
		logging.New().WithError(err).Fatalf("can't parse private key from %s", keyEnv)
	}
	logger := logging.New().WithField("authority", crypto.PubkeyToAddress(key.PublicKey))

	if *bodyFile != "" {
		body, err2 := os.ReadFile(*bodyFile)
		if err2 != nil {
			logger.WithError(err2).Fatal("can't read request body")
		}
		if *path == "" {
			logger.Fatal("path should be specified when signing a request body")
		}
		sig, err2 := utils.SignText(key, middleware.RequestPreimage(*method, *path, body))
		if err2 != nil {
			logger.WithError(err2).Fatal("can't sign request body")
		}
		logger.WithField("header", middleware.SignatureHeader).WithField("value", hexutil.Encode(sig)).Info("signed request body")
		return
	}

	if *originRef == "" || *sender == "" || *recipient == "" {
		logger.Fatal("originRef, sender and recipient should be specified")
	}
	data, err := hexutil.Decode(*payload)
	if err != nil {
		logger.WithError(err).Fatal("can't decode payload")
	}

	message := bridge.RelayMessage(common.HexToHash(*originRef), data, common.HexToAddress(*sender), common.HexToAddress(*recipient))
	sig, err := utils.SignText(key, message)
	if err != nil {
		logger.WithError(err).Fatal("can't sign message")
	}
	logger.WithFields(logrus.Fields{
		"message":      hexutil.Encode(message),
		"message_hash": bridge.MessageHash(message),
		"message_id":   bridge.RelayMessageID(common.HexToHash(*originRef), data, common.HexToAddress(*sender), common.HexToAddress(*recipient)),
		"signature":    hexutil.Encode(sig),
	}).Info("signed relay message")
}
