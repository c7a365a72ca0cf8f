package llm

import (
	"context"
	"fmt"
	"log/slog"
)

// NewProvider builds the configured backend wrapped as retry -> logging ->
// vendor. It returns nil, nil when generation is turned off.
func NewProvider(ctx context.Context, cfg Config, logger *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "", ProviderNone:
		return nil, nil
	case ProviderMock:
		base = NewScripted(Reply{Text: `{"greeting":"Happy holidays from the test bench!","emoji":"🎄"}`})
	case ProviderAnthropic:
		base, err = NewClaude(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAI(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGemini(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouter(cfg.OpenRouter)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("llm provider %s: %w", cfg.Provider, err)
	}
	return WithRetry(WithLogging(base, cfg.Provider, cfg.Timeout, logger), cfg.Retry), nil
}
