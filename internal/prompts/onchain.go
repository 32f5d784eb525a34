package prompts

func init() {
	registry := DefaultRegistry()
	registry.Register(&Prompt{
		ID:          "onchain",
		Version:     PromptV1,
		Content:     onchainPromptContent,
		Description: "System prompt for the onchain assistant",
		Tags:        []string{"agent", "onchain", "chat"},
	})
	registry.Register(&Prompt{
		ID:          "autonomous",
		Version:     PromptV1,
		Content:     autonomousPromptContent,
		Description: "Self-directed thought injected each autonomous cycle",
		Tags:        []string{"agent", "onchain", "autonomous"},
	})
}

const onchainPromptContent = `You are a helpful agent that can interact onchain using your tools.
You can inspect the wallet you control, check balances, move funds, and search the
bundled documentation. If you ever need funds, provide your wallet details and request
them from the user. If someone asks you to do something you cannot do with your
currently available tools, you must say so plainly. Be concise and helpful with your
responses. Refrain from restating your tools' descriptions unless it is explicitly
requested.`

const autonomousPromptContent = `Be creative and do something interesting on the blockchain. ` +
	`Choose an action or set of actions and execute it that highlights your abilities.`

// System returns the chat-mode system prompt. The shipped version is
// pinned so a newer registered revision never changes behavior silently.
func System() string {
	p, err := DefaultRegistry().Get("onchain", PromptV1)
	if err != nil {
		return onchainPromptContent
	}
	return p.Content
}

// AutonomousThought returns the thought fed to the agent each autonomous cycle.
func AutonomousThought() string {
	p, err := DefaultRegistry().Get("autonomous", PromptV1)
	if err != nil {
		return autonomousPromptContent
	}
	return p.Content
}
