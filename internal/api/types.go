package api

import "encoding/json"

// Account from POST /accounts.
type Account struct {
	Address string `json:"address"`

	// Custodial key material reference returned by the gateway. Opaque to
	// this client and never logged.
	PrivateKey string `json:"private_key,omitempty"`
	PublicKey  string `json:"public_key,omitempty"`
}

// Balance from GET /accounts/{address}/balance.
type Balance struct {
	Address string  `json:"address,omitempty"`
	Balance float64 `json:"balance"`
}

// TransactionRequest is the body for POST /transactions.
type TransactionRequest struct {
	Sender    string  `json:"sender"`
	Recipient string  `json:"recipient"`
	Amount    float64 `json:"amount"`
}

// TransactionResult from POST /transactions.
type TransactionResult struct {
	Hash    string `json:"hash,omitempty"`
	Status  string `json:"status,omitempty"`
	Version int64  `json:"version,omitempty"`
}

// GasEstimate from GET /gas-estimate. Values are in octas per gas unit.
type GasEstimate struct {
	GasEstimate              uint64 `json:"gas_estimate"`
	DeprioritizedGasEstimate uint64 `json:"deprioritized_gas_estimate,omitempty"`
	PrioritizedGasEstimate   uint64 `json:"prioritized_gas_estimate,omitempty"`
}

// ContractCallRequest is the body for POST /contract/call.
type ContractCallRequest struct {
	Contract string   `json:"contract"`
	Method   string   `json:"method"`
	Args     []string `json:"args"`
}

// ContractResult from POST /contract/call. Result is left raw because the
// shape depends entirely on the contract method invoked.
type ContractResult struct {
	Result json.RawMessage `json:"result,omitempty"`
	Status string          `json:"status,omitempty"`
}
