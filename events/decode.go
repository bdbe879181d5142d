package events

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	abci "github.com/cometbft/cometbft/abci/types"
	cmtjson "github.com/cometbft/cometbft/libs/json"
	rpctypes "github.com/cometbft/cometbft/rpc/jsonrpc/types"
	comettypes "github.com/cometbft/cometbft/types"

	"github.com/fiamma-chain/cosmwasm-client-go/clienterr"
)

const txEventDataType = "tendermint/event/Tx"

// txEventResult is the result payload of a CometBFT event subscription
// message. The TxResult value is nested to accommodate CometBFT's
// serialization of registered event types.
type txEventResult struct {
	Query string `json:"query"`
	Data  struct {
		Type  string          `json:"type"`
		Value json.RawMessage `json:"value"`
	} `json:"data"`
	Events map[string][]string `json:"events"`
}

// decodeTxEvents decodes one raw websocket message into zero or more
// ContractEvents matching the filter. Subscription acknowledgements and
// non-Tx events yield no events and no error.
func decodeTxEvents(raw []byte, filter Filter) ([]ContractEvent, error) {
	var response rpctypes.RPCResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, clienterr.ErrDecode.Wrapf("event message envelope: %s", err)
	}
	if response.Error != nil {
		return nil, clienterr.ErrDecode.Wrapf("node reported subscription error: %s", response.Error.Error())
	}
	if len(response.Result) == 0 {
		return nil, nil
	}

	var result txEventResult
	if err := json.Unmarshal(response.Result, &result); err != nil {
		return nil, clienterr.ErrDecode.Wrapf("event result: %s", err)
	}

	// The first message after subscribing is an empty acknowledgement.
	if result.Data.Type == "" {
		return nil, nil
	}
	if result.Data.Type != txEventDataType {
		return nil, nil
	}

	var wrapper struct {
		TxResult abci.TxResult `json:"TxResult"`
	}
	if err := cmtjson.Unmarshal(result.Data.Value, &wrapper); err != nil {
		return nil, clienterr.ErrDecode.Wrapf("tx result value: %s", err)
	}

	txHash := ""
	if hashes := result.Events["tx.hash"]; len(hashes) > 0 {
		txHash = hashes[0]
	} else {
		txHash = strings.ToUpper(hex.EncodeToString(comettypes.Tx(wrapper.TxResult.Tx).Hash()))
	}

	var contractEvents []ContractEvent
	for _, event := range wrapper.TxResult.Result.Events {
		if !filter.matchesEventType(event.Type) {
			continue
		}

		attributes := make(map[string]string, len(event.Attributes))
		for _, attribute := range event.Attributes {
			attributes[attribute.Key] = attribute.Value
		}

		if filter.ContractAddress != "" && attributes["_contract_address"] != filter.ContractAddress {
			continue
		}

		contractEvents = append(contractEvents, ContractEvent{
			Height:     wrapper.TxResult.Height,
			TxHash:     txHash,
			Type:       event.Type,
			Attributes: attributes,
		})
	}

	return contractEvents, nil
}
