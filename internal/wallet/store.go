// Package wallet manages the agent's signing key. Keys live in a go-ethereum
// keystore directory so the wallet survives restarts.
package wallet

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Store wraps one keystore account. The first account in the directory is
// used; an empty directory gets a fresh account on open.
type Store struct {
	ks         *keystore.KeyStore
	account    accounts.Account
	passphrase string
}

// Open loads the wallet from dir, creating a new account when none exists.
func Open(dir, passphrase string) (*Store, error) {
	return open(dir, passphrase, keystore.StandardScryptN, keystore.StandardScryptP)
}

func open(dir, passphrase string, scryptN, scryptP int) (*Store, error) {
	ks := keystore.NewKeyStore(dir, scryptN, scryptP)

	var account accounts.Account
	if existing := ks.Accounts(); len(existing) > 0 {
		account = existing[0]
	} else {
		created, err := ks.NewAccount(passphrase)
		if err != nil {
			return nil, fmt.Errorf("create wallet account: %w", err)
		}
		account = created
	}

	return &Store{
		ks:         ks,
		account:    account,
		passphrase: passphrase,
	}, nil
}

// Address returns the wallet's account address.
func (s *Store) Address() common.Address {
	return s.account.Address
}

// SignTx signs a transaction with the wallet key for the given chain.
func (s *Store) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	signed, err := s.ks.SignTxWithPassphrase(s.account, s.passphrase, tx, chainID)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return signed, nil
}

// Details renders a human-readable summary of the wallet.
func (s *Store) Details() string {
	return fmt.Sprintf("address: %s\nkeystore: %s", s.account.Address.Hex(), s.account.URL.Path)
}
