package abi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/omni/authority-bridge/entity"
)

var (
	ErrInvalidEvent = errors.New("invalid event")
	ErrUnknownEvent = errors.New("unknown event")
)

type ABI struct {
	abi.ABI
}

func MustReadABI(rawJSON string) ABI {
	res, err := abi.JSON(strings.NewReader(rawJSON))
	if err != nil {
		panic(err)
	}
	return ABI{res}
}

func (a *ABI) AllEvents() map[string]bool {
	events := make(map[string]bool, len(a.Events))
	for _, event := range a.Events {
		events[event.String()] = true
	}
	return events
}

func (a *ABI) FindMatchingEventABI(topics []common.Hash) *abi.Event {
	if len(topics) == 0 {
		return nil
	}
	for _, e := range a.Events {
		if e.ID == topics[0] {
			indexed := Indexed(e.Inputs)
			if len(indexed) == len(topics)-1 {
				event := e
				return &event
			}
		}
	}
	return nil
}

// ParseLog decodes a log produced by one of the abi events. An empty event
// name with a nil error means the log belongs to some other abi.
func (a *ABI) ParseLog(log *entity.Log) (string, map[string]interface{}, error) {
	topics := log.Topics()
	if len(topics) == 0 {
		return "", nil, ErrInvalidEvent
	}
	event := a.FindMatchingEventABI(topics)
	if event == nil {
		return "", nil, nil
	}

	res, err := decodeEventLog(event, topics, log.Data)
	if err != nil {
		return "", nil, fmt.Errorf("can't decode event log: %w", err)
	}
	return event.String(), res, nil
}

// PackLog encodes args of the named event into log topics and data, in the
// same layout an EVM emits them. Args follow the event inputs order.
func (a *ABI) PackLog(name string, args ...interface{}) ([]common.Hash, []byte, error) {
	event, ok := a.Events[name]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownEvent, name)
	}
	if len(args) != len(event.Inputs) {
		return nil, nil, fmt.Errorf("event %s expects %d args, got %d", name, len(event.Inputs), len(args))
	}

	var indexed [][]interface{}
	var values []interface{}
	for i, input := range event.Inputs {
		if input.Indexed {
			indexed = append(indexed, []interface{}{args[i]})
		} else {
			values = append(values, args[i])
		}
	}

	data, err := event.Inputs.NonIndexed().Pack(values...)
	if err != nil {
		return nil, nil, fmt.Errorf("can't pack event data: %w", err)
	}
	topics := []common.Hash{event.ID}
	if len(indexed) > 0 {
		rules, err := abi.MakeTopics(indexed...)
		if err != nil {
			return nil, nil, fmt.Errorf("can't pack event topics: %w", err)
		}
		for _, rule := range rules {
			topics = append(topics, rule[0])
		}
	}
	return topics, data, nil
}

func Indexed(args abi.Arguments) abi.Arguments {
	var indexed abi.Arguments
	for _, arg := range args {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return indexed
}

func decodeEventLog(event *abi.Event, topics []common.Hash, data []byte) (map[string]interface{}, error) {
	indexed := Indexed(event.Inputs)
	values := make(map[string]interface{})
	if len(indexed) < len(event.Inputs) {
		if err := event.Inputs.UnpackIntoMap(values, data); err != nil {
			return nil, fmt.Errorf("can't unpack data: %w", err)
		}
	}
	if err := abi.ParseTopicsIntoMap(values, indexed, topics[1:]); err != nil {
		return nil, fmt.Errorf("can't unpack topics: %w", err)
	}
	return values, nil
}
