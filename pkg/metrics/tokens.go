package metrics

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

// TokenCounter estimates how many model tokens a piece of text occupies.
type TokenCounter interface {
	Count(text string) int
}

// NewTokenCounter returns a counter for model. The tokenizer is resolved on the first Count
// call, not here: tiktoken fetches its BPE table over the network and that must stay off the
// startup path. When no table can be loaded the counter degrades to a whitespace word count.
func NewTokenCounter(model string, logger *slog.Logger) TokenCounter {
	return &lazyCounter{model: model, logger: logger, load: loadTiktoken}
}

type lazyCounter struct {
	model  string
	logger *slog.Logger
	load   func(model string) (TokenCounter, error)

	once    sync.Once
	counter TokenCounter
}

func (c *lazyCounter) Count(text string) int {
	c.once.Do(func() {
		counter, err := c.load(c.model)
		if err != nil {
			if c.logger != nil {
				c.logger.Warn("tiktoken unavailable, counting words instead", "model", c.model, "error", err)
			}
			counter = WordCounter{}
		}
		c.counter = counter
	})
	return c.counter.Count(text)
}

func loadTiktoken(model string) (TokenCounter, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
	}
	if err != nil {
		return nil, err
	}
	return &tiktokenCounter{enc: enc}, nil
}

type tiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

func (c *tiktokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.enc.Encode(text, nil, nil))
}

// WordCounter approximates tokens as whitespace separated words.
type WordCounter struct{}

// Count implements TokenCounter.
func (WordCounter) Count(text string) int {
	return len(strings.Fields(text))
}
