package knowledge

// builtinDocs are the snippets available out of the box. They cover the
// operations the agent's tools expose so it can explain itself.
var builtinDocs = []Doc{
	{
		ID:    "wallet-basics",
		Title: "Wallet basics",
		Text: "The agent controls a single wallet backed by an encrypted keystore " +
			"directory. The wallet is created on first start and reloaded on every " +
			"later start, so the address stays stable. Use the wallet_details tool " +
			"to see the address and keystore location.",
	},
	{
		ID:    "balances",
		Title: "Checking balances",
		Text: "The get_balance tool queries the native token balance of any address " +
			"over JSON-RPC. Balances are reported in wei; divide by 1e18 for the " +
			"whole-token amount. When no address is given it defaults to the agent's " +
			"own wallet.",
	},
	{
		ID:    "transfers",
		Title: "Sending funds",
		Text: "The transfer tool builds, signs and broadcasts a native token " +
			"transfer from the agent's wallet. High-value transfers require an " +
			"explicit yes from the operator before anything is broadcast. The tool " +
			"reports the transaction hash on success.",
	},
	{
		ID:    "nonces",
		Title: "Transaction counts",
		Text: "The transaction_count tool returns the pending nonce for an address. " +
			"The nonce is the number of transactions the address has sent and is " +
			"what the next transfer will use.",
	},
	{
		ID:    "faucets",
		Title: "Test network funds",
		Text: "On test networks you can fund the agent's wallet from a public " +
			"faucet. Ask for wallet_details, then paste the address into the faucet " +
			"for the network you are on.",
	},
}
