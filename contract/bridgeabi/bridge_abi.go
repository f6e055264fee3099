package bridgeabi

//nolint:golint
import (
	_ "embed"

	"github.com/omni/authority-bridge/contract/abi"
)

//go:embed main.json
var mainJSONABI string

//go:embed side.json
var sideJSONABI string

const (
	RelayMessage    = "event RelayMessage(bytes32 indexed messageID, address sender, address recipient)"
	AcceptedMessage = "event AcceptedMessage(bytes32 indexed messageID, address sender, address recipient)"
	SignedMessage   = "event SignedMessage(address indexed authorityResponsibleForRelay, bytes32 messageHash)"
)

const (
	RelayMessageEvent    = "RelayMessage"
	AcceptedMessageEvent = "AcceptedMessage"
	SignedMessageEvent   = "SignedMessage"
)

var (
	MainABI = abi.MustReadABI(mainJSONABI)
	SideABI = abi.MustReadABI(sideJSONABI)

	RelayMessageEventSignature    = MainABI.Events[RelayMessageEvent].ID
	AcceptedMessageEventSignature = SideABI.Events[AcceptedMessageEvent].ID
	SignedMessageEventSignature   = SideABI.Events[SignedMessageEvent].ID
)
