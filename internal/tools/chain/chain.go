// Package chain wires the onchain tools: wallet inspection, balance and
// nonce queries, native transfers, and documentation search.
package chain

import (
	"context"
	"math/big"

	"github.com/basepilot/basepilot/internal/knowledge"
	"github.com/basepilot/basepilot/internal/tools"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// RPC is the subset of ethclient.Client the toolset needs. Narrowing the
// surface keeps the tools testable without a live node.
type RPC interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// Signer abstracts the wallet the agent transacts from.
type Signer interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
	Details() string
}

// Toolset bundles the chain-facing tools around one RPC endpoint, one
// wallet and one documentation index.
type Toolset struct {
	rpc     RPC
	signer  Signer
	chainID *big.Int
	docs    *knowledge.Index
}

// NewToolset creates a toolset. docs may be nil, which disables search_docs.
func NewToolset(rpc RPC, signer Signer, chainID *big.Int, docs *knowledge.Index) *Toolset {
	return &Toolset{
		rpc:     rpc,
		signer:  signer,
		chainID: chainID,
		docs:    docs,
	}
}

// Register adds every chain tool to the registry.
func (t *Toolset) Register(r tools.Registry) {
	r.Register(tools.Tool{
		Name:        "wallet_details",
		Description: "Show the agent's wallet address and where its key is stored.",
		SchemaJSON:  emptySchema,
		Fn:          t.walletDetails,
	})
	r.Register(tools.Tool{
		Name:        "get_balance",
		Description: "Get the native token balance of an address in wei. Defaults to the agent's wallet.",
		SchemaJSON:  addressSchema,
		Fn:          t.getBalance,
	})
	r.Register(tools.Tool{
		Name:        "transaction_count",
		Description: "Get the pending transaction count (nonce) of an address. Defaults to the agent's wallet.",
		SchemaJSON:  addressSchema,
		Fn:          t.transactionCount,
	})
	r.Register(tools.Tool{
		Name:        "transfer",
		Description: "Send native tokens from the agent's wallet. Amount is in wei.",
		SchemaJSON:  transferSchema,
		Fn:          t.transfer,
		Mutating:    true,
	})
	if t.docs != nil {
		r.Register(tools.Tool{
			Name:        "search_docs",
			Description: "Search the bundled documentation snippets.",
			SchemaJSON:  searchSchema,
			Fn:          t.searchDocs,
		})
	}
	r.Register(tools.Tool{
		Name:        "chain_tool",
		Description: "Catch-all for onchain requests that did not match a specific tool.",
		SchemaJSON:  requestSchema,
		Fn:          t.catchAll,
	})
}

const emptySchema = `{
	"type": "object",
	"properties": {},
	"additionalProperties": false
}`

const addressSchema = `{
	"type": "object",
	"properties": {
		"address": {
			"type": "string",
			"description": "Hex address to query. Omit for the agent's own wallet."
		}
	},
	"additionalProperties": false
}`

const transferSchema = `{
	"type": "object",
	"properties": {
		"to": {
			"type": "string",
			"description": "Recipient hex address."
		},
		"amount": {
			"type": ["number", "string"],
			"description": "Value to send, in wei. Pass a decimal string for amounts too large for a JSON number."
		}
	},
	"required": ["to", "amount"],
	"additionalProperties": false
}`

const searchSchema = `{
	"type": "object",
	"properties": {
		"query": {
			"type": "string",
			"description": "Keywords to search for."
		},
		"limit": {
			"type": "integer",
			"minimum": 1,
			"maximum": 10,
			"description": "Maximum number of snippets to return."
		}
	},
	"required": ["query"],
	"additionalProperties": false
}`

const requestSchema = `{
	"type": "object",
	"properties": {
		"request": {
			"type": "string",
			"description": "The free-form request text."
		}
	},
	"required": ["request"],
	"additionalProperties": false
}`
