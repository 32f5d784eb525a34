package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Runtime carries the per-run settings read from the environment.
type Runtime struct {
	MaxIterations  int           // Loop budget per turn
	Threshold      float64       // Transaction amount requiring approval
	LLMTimeout     time.Duration // Deadline for one reasoning request
	RequestTimeout time.Duration // Deadline for one whole turn over HTTP
	EthRPCURL      string        // JSON-RPC endpoint
	ChainID        *big.Int      // Chain the wallet signs for
	KeystoreDir    string        // Wallet keystore directory
	Passphrase     string        // Keystore passphrase
	APIAddr        string        // Listen address for serve mode
	SessionDB      string        // Path to the turn database
}

// Defaults mirror the environment-variable fallbacks.
const (
	DefaultMaxIterations  = 3
	DefaultThreshold      = 1000
	DefaultLLMTimeout     = 15 * time.Second
	DefaultRequestTimeout = 20 * time.Second
	DefaultChainID        = 84532 // Base Sepolia
	DefaultAPIAddr        = ":8080"
)

// RuntimeFromEnv reads the runtime settings, applying defaults for unset
// variables. Malformed values are an error rather than a silent fallback.
func RuntimeFromEnv() (Runtime, error) {
	rt := Runtime{
		MaxIterations:  DefaultMaxIterations,
		Threshold:      DefaultThreshold,
		LLMTimeout:     DefaultLLMTimeout,
		RequestTimeout: DefaultRequestTimeout,
		EthRPCURL:      os.Getenv("ETH_RPC_URL"),
		ChainID:        big.NewInt(DefaultChainID),
		KeystoreDir:    os.Getenv("KEYSTORE_DIR"),
		Passphrase:     os.Getenv("KEYSTORE_PASSPHRASE"),
		APIAddr:        DefaultAPIAddr,
	}

	if v := os.Getenv("MAX_ITERATIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Runtime{}, fmt.Errorf("invalid MAX_ITERATIONS: %q", v)
		}
		rt.MaxIterations = n
	}
	if v := os.Getenv("TRANSACTION_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return Runtime{}, fmt.Errorf("invalid TRANSACTION_THRESHOLD: %q", v)
		}
		rt.Threshold = f
	}
	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Runtime{}, fmt.Errorf("invalid LLM_TIMEOUT: %q", v)
		}
		rt.LLMTimeout = d
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Runtime{}, fmt.Errorf("invalid REQUEST_TIMEOUT: %q", v)
		}
		rt.RequestTimeout = d
	}
	if v := os.Getenv("CHAIN_ID"); v != "" {
		id, ok := new(big.Int).SetString(v, 10)
		if !ok || id.Sign() <= 0 {
			return Runtime{}, fmt.Errorf("invalid CHAIN_ID: %q", v)
		}
		rt.ChainID = id
	}
	if v := os.Getenv("API_ADDR"); v != "" {
		rt.APIAddr = v
	}

	if rt.KeystoreDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			rt.KeystoreDir = filepath.Join(home, ".basepilot", "keystore")
		} else {
			rt.KeystoreDir = "keystore"
		}
	}
	rt.SessionDB = os.Getenv("SESSION_DB")
	if rt.SessionDB == "" {
		rt.SessionDB = filepath.Join(filepath.Dir(rt.KeystoreDir), "turns.db")
	}

	return rt, nil
}

// parseSeconds accepts either a bare number of seconds or a Go duration.
func parseSeconds(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("must be positive")
		}
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("must be a positive duration")
	}
	return d, nil
}
