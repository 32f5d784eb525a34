// Package factory assembles the agent runtime from its parts: config,
// wallet, chain client, knowledge index, tool registry, reasoning
// provider, and session store. The shells (REPL, TUI, HTTP server) all
// build through here so they wire identically.
package factory

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/basepilot/basepilot/internal/config"
	"github.com/basepilot/basepilot/internal/engine"
	"github.com/basepilot/basepilot/internal/knowledge"
	"github.com/basepilot/basepilot/internal/prompts"
	"github.com/basepilot/basepilot/internal/providers"
	"github.com/basepilot/basepilot/internal/session"
	"github.com/basepilot/basepilot/internal/tools"
	"github.com/basepilot/basepilot/internal/tools/chain"
	"github.com/basepilot/basepilot/internal/wallet"
)

// Runtime bundles the initialized subsystems behind the agent. Close
// releases the chain client, knowledge index, and session database.
type Runtime struct {
	Config   config.Runtime
	Prefs    *config.Preferences
	Wallet   *wallet.Store
	Registry tools.Registry
	Reasoner engine.Reasoner
	Model    string
	Store    *session.Store

	eth  *ethclient.Client
	docs *knowledge.Index
}

// Build reads configuration, opens the wallet and chain connection, and
// constructs the tool registry and reasoning provider. Preferences from
// the config file fill in environment variables the operator left unset.
func Build(ctx context.Context) (*Runtime, error) {
	mgr, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("config manager: %w", err)
	}
	prefs, err := mgr.Load()
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	applyPreferences(prefs)

	rt, err := config.RuntimeFromEnv()
	if err != nil {
		return nil, err
	}
	if rt.EthRPCURL == "" {
		return nil, fmt.Errorf("ETH_RPC_URL is not set; point it at a JSON-RPC endpoint")
	}

	w, err := wallet.Open(rt.KeystoreDir, rt.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}

	eth, err := ethclient.DialContext(ctx, rt.EthRPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial chain rpc: %w", err)
	}

	docs, err := knowledge.NewDefaultIndex()
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("build knowledge index: %w", err)
	}

	registry := tools.Registry{}
	chain.NewToolset(eth, w, rt.ChainID, docs).Register(registry)

	reasoner, model, err := providers.NewReasonerFromEnv(providers.Options{
		System:  prompts.System(),
		Schemas: registry.Schemas(),
		Timeout: rt.LLMTimeout,
	})
	if err != nil {
		docs.Close()
		eth.Close()
		return nil, err
	}

	store, err := session.NewStore(ctx, rt.SessionDB)
	if err != nil {
		docs.Close()
		eth.Close()
		return nil, fmt.Errorf("open session store: %w", err)
	}

	return &Runtime{
		Config:   rt,
		Prefs:    prefs,
		Wallet:   w,
		Registry: registry,
		Reasoner: reasoner,
		Model:    model,
		Store:    store,
		eth:      eth,
		docs:     docs,
	}, nil
}

// NewDriver builds an engine driver over the shared reasoner and tools,
// with the given prompter deciding approvals. Turns are recorded to the
// session store and logged through the standard logger.
func (r *Runtime) NewDriver(prompter engine.Prompter) (*engine.Driver, error) {
	cfg := engine.Config{
		MaxIterations: r.Config.MaxIterations,
		Threshold:     r.Config.Threshold,
	}
	return engine.NewDriver(r.Reasoner, r.Registry, prompter, cfg,
		engine.WithRecorder(r.Store),
		engine.WithHooks(engine.LoggerHook{L: log.Default()}),
	)
}

// Close releases every resource Build acquired.
func (r *Runtime) Close() {
	if r.docs != nil {
		_ = r.docs.Close()
	}
	if r.eth != nil {
		r.eth.Close()
	}
	if r.Store != nil {
		_ = r.Store.Close()
	}
}

// applyPreferences promotes file-based preferences into the environment
// so the env-driven factories see them, without clobbering explicit
// environment settings.
func applyPreferences(prefs *config.Preferences) {
	setIfUnset := func(key, value string) {
		if value != "" && os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
	setIfUnset("LLM_PROVIDER", prefs.LLMProvider)
	setIfUnset("ETH_RPC_URL", prefs.EthRPCURL)
	if prefs.Model != "" && os.Getenv("LLM_PROVIDER") != "" {
		switch os.Getenv("LLM_PROVIDER") {
		case "anthropic":
			setIfUnset("ANTHROPIC_MODEL", prefs.Model)
		default:
			setIfUnset("OPENAI_MODEL", prefs.Model)
		}
	}
}
