package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type fileConfig struct {
	NodeGrpcURI  string `yaml:"grpc"`
	WebsocketURI string `yaml:"websocket"`

	PrivateKey string `yaml:"privateKey"`

	ChainName     string  `yaml:"chainName"`
	ChainID       string  `yaml:"chainId"`
	AddressPrefix string  `yaml:"addressPrefix"`
	FeeDenom      string  `yaml:"feeDenom"`
	GasPrice      float64 `yaml:"gasPrice"`
	GasFactor     float64 `yaml:"gasFactor"`
	Memo          string  `yaml:"memo"`

	ContractAddress string `yaml:"contractAddress"`

	QueryTimeoutSeconds     int `yaml:"queryTimeoutSeconds"`
	BroadcastTimeoutSeconds int `yaml:"broadcastTimeoutSeconds"`

	RetryAttempts     uint `yaml:"retryAttempts"`
	RetryDelaySeconds int  `yaml:"retryDelaySeconds"`

	TxPollDelaySeconds int  `yaml:"txPollDelaySeconds"`
	TxPollAttempts     uint `yaml:"txPollAttempts"`

	EventBufferSize        int `yaml:"eventBufferSize"`
	DecodeFailureThreshold int `yaml:"decodeFailureThreshold"`
}

func parseConfig(filename string) (*fileConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config := &fileConfig{}
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}

	return config, nil
}

// GetClientConfig loads a config file, resolves missing chain parameters from
// the registry when a chain name is given, applies defaults and validates.
func GetClientConfigFromFile(filename string) (*Config, error) {
	fileConfig, err := parseConfig(filename)
	if err != nil {
		return nil, err
	}

	config := &Config{
		NodeGrpcURI:  fileConfig.NodeGrpcURI,
		WebsocketURI: fileConfig.WebsocketURI,

		PrivateKey: fileConfig.PrivateKey,

		ChainName:     fileConfig.ChainName,
		ChainID:       fileConfig.ChainID,
		AddressPrefix: fileConfig.AddressPrefix,
		FeeDenom:      fileConfig.FeeDenom,
		GasPrice:      fileConfig.GasPrice,
		GasFactor:     fileConfig.GasFactor,
		Memo:          fileConfig.Memo,

		ContractAddress: fileConfig.ContractAddress,

		QueryTimeout:     time.Duration(fileConfig.QueryTimeoutSeconds) * time.Second,
		BroadcastTimeout: time.Duration(fileConfig.BroadcastTimeoutSeconds) * time.Second,

		RetryAttempts: fileConfig.RetryAttempts,
		RetryDelay:    time.Duration(fileConfig.RetryDelaySeconds) * time.Second,

		TxPollDelay:    time.Duration(fileConfig.TxPollDelaySeconds) * time.Second,
		TxPollAttempts: fileConfig.TxPollAttempts,

		EventBufferSize:        fileConfig.EventBufferSize,
		DecodeFailureThreshold: fileConfig.DecodeFailureThreshold,
	}

	return config, nil
}
