package registry

import (
	"encoding/json"
)

type Token struct {
	Denom string `json:"denom"`
}

type FeeToken struct {
	Denom string `json:"denom"`

	FixedMinGasPrice float64 `json:"fixed_min_gas_price"`
	LowGasPrice      float64 `json:"low_gas_price"`
	AverageGasPrice  float64 `json:"average_gas_price"`
	HighGasPrice     float64 `json:"high_gas_price"`
}

type Fee struct {
	FeeTokens []FeeToken `json:"fee_tokens"`
}

type Staking struct {
	StakingTokens []Token `json:"staking_tokens"`
}

type ChainInfo struct {
	ChainName    string  `json:"chain_name"`
	ChainID      string  `json:"chain_id"`
	Bech32Prefix string  `json:"bech32_prefix"`
	Fees         Fee     `json:"fees"`
	Staking      Staking `json:"staking"`
}

func parseChainResponse(data []byte) (*ChainInfo, error) {
	chainInfo := &ChainInfo{}
	err := json.Unmarshal(data, chainInfo)
	if err != nil {
		return nil, err
	}
	return chainInfo, nil
}
