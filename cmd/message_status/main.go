package main

import (
	"context"
	"flag"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sirupsen/logrus"

	"github.com/omni/authority-bridge/bridge"
	"github.com/omni/authority-bridge/config"
	"github.com/omni/authority-bridge/db"
	"github.com/omni/authority-bridge/logging"
	"github.com/omni/authority-bridge/repository"
)

var (
	messageID   = flag.String("messageId", "", "id of the relayed or confirmed message")
	messageHash = flag.String("messageHash", "", "hash of the signed message")
	originRef   = flag.String("originRef", "", "origin reference, computes message ids together with payload, sender and recipient")
	payload     = flag.String("payload", "0x", "hex encoded message payload")
	sender      = flag.String("sender", "", "message sender")
	recipient   = flag.String("recipient", "", "message recipient")
)

func main() {
	flag.Parse()

	logger := logging.New()

	cfg, err := config.ReadConfigFromFile("config.yml")
	if err != nil {
		logger.WithError(err).Fatal("can't read config")
	}
	logger.SetLevel(cfg.LogLevel)

	if *originRef != "" {
		computeIDs(logger)
		return
	}
	if (*messageID == "") == (*messageHash == "") {
		logger.Fatal("exactly one of --messageId or --messageHash should be specified")
	}
	if cfg.Storage != config.StoragePostgres {
		logger.WithField("storage", cfg.Storage).Fatal("message status is only available for postgres storage")
	}

	dbConn, err := db.NewDB(cfg.DBConfig)
	if err != nil {
		logger.WithError(err).Fatal("can't connect to database")
	}
	defer dbConn.Close()

	if err = dbConn.Migrate(); err != nil {
		logger.WithError(err).Fatal("can't run database migrations")
	}

	ctx := context.Background()
	repo := repository.NewRepo(dbConn)

	if *messageHash != "" {
		printSignedMessage(ctx, logger, repo, common.HexToHash(*messageHash))
		return
	}
	printMessage(ctx, logger, repo, common.HexToHash(*messageID))
}

func computeIDs(logger logging.Logger) {
	data, err := hexutil.Decode(*payload)
	if err != nil {
		logger.WithError(err).Fatal("can't decode payload")
	}
	ref := common.HexToHash(*originRef)
	from := common.HexToAddress(*sender)
	to := common.HexToAddress(*recipient)

	message := bridge.RelayMessage(ref, data, from, to)
	logger.WithFields(logrus.Fields{
		"relay_message_id":        bridge.RelayMessageID(ref, data, from, to),
		"confirmation_message_id": bridge.ConfirmationMessageID(ref, data, from, to),
		"message_hash":            bridge.MessageHash(message),
		"message":                 hexutil.Encode(message),
	}).Info("computed message ids")
}

func printMessage(ctx context.Context, logger logging.Logger, repo *repository.Repo, id common.Hash) {
	logger = logger.WithField("message_id", id)
	found := false

	relayed, err := repo.RelayedMessages.GetByMessageID(ctx, id)
	if db.IgnoreErrNotFound(err) != nil {
		logger.WithError(err).Fatal("can't get relayed message")
	}
	if relayed != nil {
		found = true
		accepted, err2 := repo.AcceptedMessages.GetByMessageID(ctx, id)
		if db.IgnoreErrNotFound(err2) != nil {
			logger.WithError(err2).Fatal("can't get accepted message")
		}
		logger.WithFields(logrus.Fields{
			"sender":    relayed.Sender,
			"recipient": relayed.Recipient,
			"accepted":  accepted != nil,
		}).Info("found announced message on main ledger")
	}

	confirmed, err := repo.ConfirmedMessages.GetByMessageID(ctx, id)
	if db.IgnoreErrNotFound(err) != nil {
		logger.WithError(err).Fatal("can't get confirmed message")
	}
	if confirmed != nil {
		found = true
		confirmations, err2 := repo.Confirmations.FindByMessageID(ctx, id)
		if err2 != nil {
			logger.WithError(err2).Fatal("can't find confirmations")
		}
		for _, c := range confirmations {
			logger.WithFields(logrus.Fields{
				"authority": c.Authority,
				"tx_id":     c.TransactionID,
			}).Info("found confirmation")
		}
		logger.WithFields(logrus.Fields{
			"sender":            confirmed.Sender,
			"recipient":         confirmed.Recipient,
			"num_confirmations": confirmed.NumConfirmations,
			"executed":          confirmed.Executed,
			"proxy":             confirmed.Proxy,
		}).Info("found confirmed message on side ledger")
	}

	if !found {
		logger.Warn("message not found")
	}
}

func printSignedMessage(ctx context.Context, logger logging.Logger, repo *repository.Repo, msgHash common.Hash) {
	logger = logger.WithField("msg_hash", msgHash)

	msg, err := repo.SignedMessages.GetByMsgHash(ctx, msgHash)
	if err != nil {
		if db.IsNotFound(err) {
			logger.Warn("signed message not found")
			return
		}
		logger.WithError(err).Fatal("can't get signed message")
	}
	sigs, err := repo.MessageSignatures.FindByMsgHash(ctx, msgHash)
	if err != nil {
		logger.WithError(err).Fatal("can't find message signatures")
	}
	for _, sig := range sigs {
		logger.WithFields(logrus.Fields{
			"index":     sig.Index,
			"authority": sig.Authority,
		}).Info("found signature")
	}
	logger.WithFields(logrus.Fields{
		"num_signatures":     msg.NumSignatures,
		"finalized":          msg.Finalized,
		"relaying_authority": msg.RelayingAuthority,
	}).Info("found signed message")
}
