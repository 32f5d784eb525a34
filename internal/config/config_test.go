package config

import (
	"testing"
	"time"
)

func clearRuntimeEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MAX_ITERATIONS", "TRANSACTION_THRESHOLD", "LLM_TIMEOUT", "REQUEST_TIMEOUT",
		"ETH_RPC_URL", "CHAIN_ID", "KEYSTORE_DIR", "KEYSTORE_PASSPHRASE",
		"API_ADDR", "SESSION_DB",
	} {
		t.Setenv(key, "")
	}
}

func TestRuntimeFromEnvDefaults(t *testing.T) {
	clearRuntimeEnv(t)

	rt, err := RuntimeFromEnv()
	if err != nil {
		t.Fatalf("RuntimeFromEnv() error: %v", err)
	}
	if rt.MaxIterations != 3 {
		t.Errorf("MaxIterations = %d, want 3", rt.MaxIterations)
	}
	if rt.Threshold != 1000 {
		t.Errorf("Threshold = %v, want 1000", rt.Threshold)
	}
	if rt.LLMTimeout != 15*time.Second {
		t.Errorf("LLMTimeout = %v, want 15s", rt.LLMTimeout)
	}
	if rt.RequestTimeout != 20*time.Second {
		t.Errorf("RequestTimeout = %v, want 20s", rt.RequestTimeout)
	}
	if rt.ChainID.Int64() != 84532 {
		t.Errorf("ChainID = %v, want 84532", rt.ChainID)
	}
	if rt.KeystoreDir == "" || rt.SessionDB == "" {
		t.Errorf("paths not defaulted: keystore=%q db=%q", rt.KeystoreDir, rt.SessionDB)
	}
}

func TestRuntimeFromEnvOverrides(t *testing.T) {
	clearRuntimeEnv(t)
	t.Setenv("MAX_ITERATIONS", "5")
	t.Setenv("TRANSACTION_THRESHOLD", "250.5")
	t.Setenv("LLM_TIMEOUT", "30")
	t.Setenv("REQUEST_TIMEOUT", "1m")
	t.Setenv("CHAIN_ID", "1")
	t.Setenv("API_ADDR", "127.0.0.1:9999")
	t.Setenv("KEYSTORE_DIR", "/tmp/ks")
	t.Setenv("SESSION_DB", "/tmp/turns.db")

	rt, err := RuntimeFromEnv()
	if err != nil {
		t.Fatalf("RuntimeFromEnv() error: %v", err)
	}
	if rt.MaxIterations != 5 || rt.Threshold != 250.5 {
		t.Errorf("loop settings = %d/%v", rt.MaxIterations, rt.Threshold)
	}
	if rt.LLMTimeout != 30*time.Second || rt.RequestTimeout != time.Minute {
		t.Errorf("timeouts = %v/%v", rt.LLMTimeout, rt.RequestTimeout)
	}
	if rt.ChainID.Int64() != 1 || rt.APIAddr != "127.0.0.1:9999" {
		t.Errorf("chain/addr = %v/%q", rt.ChainID, rt.APIAddr)
	}
	if rt.KeystoreDir != "/tmp/ks" || rt.SessionDB != "/tmp/turns.db" {
		t.Errorf("paths = %q/%q", rt.KeystoreDir, rt.SessionDB)
	}
}

func TestRuntimeFromEnvRejectsBadValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"MAX_ITERATIONS", "zero"},
		{"MAX_ITERATIONS", "0"},
		{"TRANSACTION_THRESHOLD", "-5"},
		{"LLM_TIMEOUT", "-3"},
		{"CHAIN_ID", "mainnet"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearRuntimeEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := RuntimeFromEnv(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestManagerSaveAndLoad(t *testing.T) {
	m := newManagerAt(t.TempDir())

	if m.Exists() {
		t.Error("Exists() = true before save")
	}

	prefs, err := m.Load()
	if err != nil {
		t.Fatalf("Load() before save error: %v", err)
	}
	if prefs.LLMProvider != "" {
		t.Errorf("fresh preferences not empty: %+v", prefs)
	}

	prefs.LLMProvider = "anthropic"
	prefs.DefaultMode = "chat"
	if err := m.Save(prefs); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if !m.Exists() {
		t.Error("Exists() = false after save")
	}

	loaded, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.LLMProvider != "anthropic" || loaded.DefaultMode != "chat" {
		t.Errorf("Load() = %+v", loaded)
	}
}

func TestRuntimeFromEnvZeroThreshold(t *testing.T) {
	clearRuntimeEnv(t)
	t.Setenv("TRANSACTION_THRESHOLD", "0")

	rt, err := RuntimeFromEnv()
	if err != nil {
		t.Fatalf("RuntimeFromEnv() error: %v", err)
	}
	// Zero is "approve everything", not "unset"; it must survive to the
	// engine untouched.
	if rt.Threshold != 0 {
		t.Errorf("Threshold = %v, want 0", rt.Threshold)
	}
}
