package llm

import (
	"context"
	"fmt"
	"strings"
)

// Mock is the offline backend enabled by USE_MOCK_LLM=true.
type Mock struct{}

func (Mock) Invoke(_ context.Context, prompt string) (any, error) {
	first := prompt
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	return fmt.Sprintf("MOCK RESPONSE (%d chars): %s", len(prompt), strings.TrimSpace(first)), nil
}
