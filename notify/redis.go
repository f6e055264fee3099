// Package notify pushes committed ledger logs to relayers.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gomodule/redigo/redis"
	"github.com/sirupsen/logrus"

	"github.com/omni/authority-bridge/config"
	"github.com/omni/authority-bridge/entity"
	"github.com/omni/authority-bridge/logging"
)

// LogParser decodes a log into its event signature and arguments.
type LogParser interface {
	ParseLog(log *entity.Log) (string, map[string]interface{}, error)
}

// Notification is the message published for every log.
type Notification struct {
	ID            uint                   `json:"id"`
	Ledger        string                 `json:"ledger"`
	Address       common.Address         `json:"address"`
	TransactionID string                 `json:"transactionId"`
	LogIndex      uint                   `json:"logIndex"`
	Event         string                 `json:"event,omitempty"`
	Args          map[string]interface{} `json:"args,omitempty"`
	Topics        []common.Hash          `json:"topics"`
}

type RedisNotifier struct {
	pool    *redis.Pool
	channel string
	parser  LogParser
	logger  logging.Logger
}

func timeoutDialOptions() []redis.DialOption {
	return []redis.DialOption{
		redis.DialConnectTimeout(5 * time.Second),
		redis.DialReadTimeout(5 * time.Second),
		redis.DialWriteTimeout(5 * time.Second),
	}
}

func NewRedisPool(cfg *config.RedisConfig) *redis.Pool {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	return &redis.Pool{
		MaxIdle:     5,
		IdleTimeout: time.Minute,
		Dial:        func() (redis.Conn, error) { return redis.Dial("tcp", addr, timeoutDialOptions()...) },
	}
}

func NewRedisNotifier(pool *redis.Pool, channel string, parser LogParser, logger logging.Logger) *RedisNotifier {
	return &RedisNotifier{
		pool:    pool,
		channel: channel,
		parser:  parser,
		logger:  logger,
	}
}

func (n *RedisNotifier) Publish(ctx context.Context, logs []*entity.Log) error {
	conn, err := n.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("can't get redis connection: %w", err)
	}
	defer conn.Close()

	for _, log := range logs {
		msg, err := json.Marshal(n.notification(log))
		if err != nil {
			return fmt.Errorf("can't encode notification: %w", err)
		}
		receivers, err := redis.Int(conn.Do("PUBLISH", n.channel, msg))
		if err != nil {
			return fmt.Errorf("can't publish log %d: %w", log.ID, err)
		}
		n.logger.WithFields(logrus.Fields{
			"log_id":    log.ID,
			"channel":   n.channel,
			"receivers": receivers,
		}).Debug("published log")
	}
	return nil
}

func (n *RedisNotifier) notification(log *entity.Log) *Notification {
	res := &Notification{
		ID:            log.ID,
		Ledger:        log.Ledger,
		Address:       log.Address,
		TransactionID: log.TransactionID,
		LogIndex:      log.LogIndex,
		Topics:        log.Topics(),
	}
	if n.parser == nil {
		return res
	}
	event, args, err := n.parser.ParseLog(log)
	if err != nil {
		n.logger.WithError(err).WithField("log_id", log.ID).Warn("can't decode log")
		return res
	}
	res.Event = event
	res.Args = make(map[string]interface{}, len(args))
	for k, v := range args {
		if b, ok := v.([32]byte); ok {
			v = common.Hash(b)
		}
		res.Args[k] = v
	}
	return res
}
