package engine

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// transactionIndicators is the fixed vocabulary marking a tool call as
// transaction-like. Matching is a case-insensitive substring check on the
// tool name.
var transactionIndicators = []string{"send", "trade", "transfer"}

// TransactionDetail is the human-readable record presented to the reviewer.
type TransactionDetail struct {
	Tool    string
	Amount  float64
	Details string // Original input, serialized
}

// Decision is the approval policy's verdict for one set of proposed calls.
// Derived, never persisted.
type Decision struct {
	Required bool
	Amount   float64
	Detail   *TransactionDetail
}

// Evaluate scans the proposed calls in order and decides whether a human must
// approve before execution. The first transaction-like call whose amount is
// at or above the threshold short-circuits the scan; calls are not re-ranked
// by amount. Calls whose payload cannot be parsed are logged and skipped.
func Evaluate(calls []ToolCall, threshold float64) Decision {
	for _, call := range calls {
		if !transactionLike(call.Tool) {
			continue
		}
		amount, err := extractAmount(call.Input)
		if err != nil {
			log.Printf("approval policy: skipping call %s: %v", call.Tool, err)
			continue
		}
		if amount >= threshold {
			return Decision{
				Required: true,
				Amount:   amount,
				Detail: &TransactionDetail{
					Tool:    call.Tool,
					Amount:  amount,
					Details: call.Input.String(),
				},
			}
		}
	}
	return Decision{}
}

func transactionLike(tool string) bool {
	name := strings.ToLower(tool)
	for _, indicator := range transactionIndicators {
		if strings.Contains(name, indicator) {
			return true
		}
	}
	return false
}

// amountRecord captures the one field the policy cares about. Weak decoding
// accepts both numbers and numeric strings; a missing field stays 0.
type amountRecord struct {
	Amount float64 `mapstructure:"amount"`
}

func extractAmount(in ToolInput) (float64, error) {
	fields, ok := in.Structured()
	if !ok {
		if err := json.Unmarshal([]byte(in.String()), &fields); err != nil {
			return 0, fmt.Errorf("payload is not a structured record: %w", err)
		}
	}

	var record amountRecord
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &record,
	})
	if err != nil {
		return 0, err
	}
	if err := decoder.Decode(fields); err != nil {
		return 0, fmt.Errorf("amount field not numeric: %w", err)
	}
	return record.Amount, nil
}
