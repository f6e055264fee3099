package presenter

import (
	"fmt"
	"strconv"

	ethav "github.com/KOREAN139/ethereum-address-validator"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/omni/authority-bridge/bridge"
	"github.com/omni/authority-bridge/entity"
	"github.com/omni/authority-bridge/presenter/http/render"
)

func parseAddress(field, s string) (common.Address, error) {
	if err := ethav.Validate(s); err != nil {
		return common.Address{}, fmt.Errorf("%w: invalid %s address %q: %s", render.ErrBadRequest, field, s, err)
	}
	return common.HexToAddress(s), nil
}

func parseHash(field, s string) (common.Hash, error) {
	b, err := hexutil.Decode(s)
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("%w: invalid %s %q", render.ErrBadRequest, field, s)
	}
	return common.BytesToHash(b), nil
}

func parseIndex(s string) (uint, error) {
	i, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid index %q", render.ErrBadRequest, s)
	}
	return uint(i), nil
}

func signaturesToBytes(sigs []hexutil.Bytes) [][]byte {
	res := make([][]byte, len(sigs))
	for i, sig := range sigs {
		res[i] = sig
	}
	return res
}

func resultToInfo(res *bridge.Result, caller common.Address) *OperationResult {
	info := &OperationResult{
		Result: res,
		Caller: caller,
	}
	if res.Event != nil {
		info.EventName = res.Event.EventName()
	}
	return info
}

func logToResult(log *entity.Log, event string, args map[string]interface{}) *LogResult {
	for k, v := range args {
		if h, ok := v.([32]byte); ok {
			args[k] = common.Hash(h)
		}
	}
	return &LogResult{
		LogID:         log.ID,
		Ledger:        log.Ledger,
		Address:       log.Address,
		Event:         event,
		Args:          args,
		Topics:        log.Topics(),
		Data:          log.Data,
		TransactionID: log.TransactionID,
		LogIndex:      log.LogIndex,
	}
}
