package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const transferGasLimit = 21000

func (t *Toolset) walletDetails(ctx context.Context, args map[string]any) (string, error) {
	return t.signer.Details(), nil
}

func (t *Toolset) getBalance(ctx context.Context, args map[string]any) (string, error) {
	addr, err := t.resolveAddress(args)
	if err != nil {
		return "", err
	}
	balance, err := t.rpc.BalanceAt(ctx, addr, nil)
	if err != nil {
		return "", fmt.Errorf("query balance: %w", err)
	}
	return fmt.Sprintf("balance of %s: %s wei", addr.Hex(), balance.String()), nil
}

func (t *Toolset) transactionCount(ctx context.Context, args map[string]any) (string, error) {
	addr, err := t.resolveAddress(args)
	if err != nil {
		return "", err
	}
	nonce, err := t.rpc.PendingNonceAt(ctx, addr)
	if err != nil {
		return "", fmt.Errorf("query transaction count: %w", err)
	}
	return fmt.Sprintf("transaction count of %s: %d", addr.Hex(), nonce), nil
}

func (t *Toolset) transfer(ctx context.Context, args map[string]any) (string, error) {
	toHex, _ := args["to"].(string)
	if !common.IsHexAddress(toHex) {
		return "", fmt.Errorf("invalid recipient address: %q", toHex)
	}
	to := common.HexToAddress(toHex)

	value, err := weiFromArg(args["amount"])
	if err != nil {
		return "", err
	}

	from := t.signer.Address()
	nonce, err := t.rpc.PendingNonceAt(ctx, from)
	if err != nil {
		return "", fmt.Errorf("fetch nonce: %w", err)
	}
	gasPrice, err := t.rpc.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch gas price: %w", err)
	}

	tx := types.NewTransaction(nonce, to, value, transferGasLimit, gasPrice, nil)
	signed, err := t.signer.SignTx(tx, t.chainID)
	if err != nil {
		return "", err
	}
	if err := t.rpc.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("broadcast transaction: %w", err)
	}

	return fmt.Sprintf("sent %s wei to %s, tx %s", value.String(), to.Hex(), signed.Hash().Hex()), nil
}

func (t *Toolset) searchDocs(ctx context.Context, args map[string]any) (string, error) {
	query, _ := args["query"].(string)
	limit := 3
	if raw, ok := args["limit"].(float64); ok && raw > 0 {
		limit = int(raw)
	}

	results, err := t.docs.Search(query, limit)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "no documentation found for: " + query, nil
	}

	var b strings.Builder
	for i, res := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%s\n%s", res.Title, res.Text)
	}
	return b.String(), nil
}

func (t *Toolset) catchAll(ctx context.Context, args map[string]any) (string, error) {
	request, _ := args["request"].(string)
	return fmt.Sprintf(
		"no specific tool matched the request %q; available tools: wallet_details, get_balance, transaction_count, transfer, search_docs",
		request,
	), nil
}

func (t *Toolset) resolveAddress(args map[string]any) (common.Address, error) {
	raw, ok := args["address"].(string)
	if !ok || raw == "" {
		return t.signer.Address(), nil
	}
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("invalid address: %q", raw)
	}
	return common.HexToAddress(raw), nil
}

// weiFromArg converts the decoded amount argument to an integral wei value.
// JSON numbers lose integer precision above 2^53, so large amounts must be
// passed as decimal strings and are parsed exactly.
func weiFromArg(v any) (*big.Int, error) {
	switch amount := v.(type) {
	case float64:
		if amount < 0 {
			return nil, fmt.Errorf("amount must not be negative")
		}
		value, _ := new(big.Float).SetFloat64(amount).Int(nil)
		return value, nil
	case string:
		value, ok := new(big.Int).SetString(strings.TrimSpace(amount), 10)
		if !ok {
			return nil, fmt.Errorf("amount must be a decimal wei value, got %q", amount)
		}
		if value.Sign() < 0 {
			return nil, fmt.Errorf("amount must not be negative")
		}
		return value, nil
	default:
		return nil, fmt.Errorf("amount must be a number or decimal string, got %T", v)
	}
}
