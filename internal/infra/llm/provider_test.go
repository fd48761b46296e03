package llm

import "testing"

// TestOpenRouterProvider_ImplementsLLMProvider fails to compile if the adapter drifts from the interface.
func TestOpenRouterProvider_ImplementsLLMProvider(t *testing.T) {
	t.Parallel()

	var _ LLMProvider = &OpenRouterProvider{}
}
