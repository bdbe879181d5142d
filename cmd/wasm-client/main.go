package main

import (
	"github.com/fiamma-chain/cosmwasm-client-go/cmd/wasm-client/cmd"
)

func main() {
	cmd.Execute()
}
