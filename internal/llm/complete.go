package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/parakeet-nest/parakeet/completion"
	"github.com/parakeet-nest/parakeet/enums/option"
	pkllm "github.com/parakeet-nest/parakeet/llm"

	"github.com/VarunSharma3520/autocomplete/internal/logger"
)

const defaultLimit = 8

var errCanceled = errors.New("stream canceled")

type chatStreamFunc func(url string, q pkllm.Query, onChunk func(pkllm.Answer) error, options ...string) (pkllm.Answer, error)

// Completer asks an Ollama chat model to continue the typed text and turns
// the answer into suggestions. It satisfies suggest.Fetcher.
type Completer struct {
	apiURL string
	model  string
	temp   float64
	limit  int
	logger *logger.Logger

	chatStream chatStreamFunc
}

// NewCompleter creates a Completer against the Ollama API at apiURL.
func NewCompleter(apiURL, model string, temp float64, log *logger.Logger) *Completer {
	return &Completer{
		apiURL:     apiURL,
		model:      model,
		temp:       temp,
		limit:      defaultLimit,
		logger:     log,
		chatStream: completion.ChatStream,
	}
}

// SetLimit caps the number of suggestions per answer.
func (c *Completer) SetLimit(n int) {
	if n > 0 {
		c.limit = n
	}
}

// Prompt builds the instruction sent for query.
func (c *Completer) Prompt(query string) string {
	return fmt.Sprintf(
		"Suggest up to %d completions for the text %q. "+
			"Every completion must start with that exact text. "+
			"Reply with one completion per line and nothing else.",
		c.limit, query)
}

// Fetch streams a chat completion for query and parses it into suggestions.
// The stream stops early when ctx is done.
func (c *Completer) Fetch(ctx context.Context, query string) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	q := pkllm.Query{
		Model: c.model,
		Messages: []pkllm.Message{
			{Role: "user", Content: c.Prompt(query)},
		},
		Options: pkllm.SetOptions(map[string]interface{}{
			string(option.Temperature): c.temp,
		}),
		Stream: true,
	}

	var full strings.Builder
	_, err := c.chatStream(c.apiURL, q, func(ans pkllm.Answer) error {
		select {
		case <-ctx.Done():
			return errCanceled
		default:
		}
		full.WriteString(ans.Message.Content)
		return nil
	})
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		c.logger.Error("completion stream failed", err, map[string]interface{}{"model": c.model, "query": query})
		return nil, fmt.Errorf("completion stream: %w", err)
	}

	items := ParseSuggestions(full.String(), c.limit)
	c.logger.Debug("completion parsed", map[string]interface{}{"query": query, "count": len(items)})
	return items, nil
}

// ParseSuggestions splits a model answer into at most limit suggestions, one
// per line. Bullets, numbering and surrounding quotes are stripped and
// duplicates dropped.
func ParseSuggestions(text string, limit int) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, line := range strings.Split(text, "\n") {
		s := cleanLine(line)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func cleanLine(line string) string {
	s := strings.TrimSpace(line)
	s = strings.TrimLeft(s, "-*• ")
	// "1." or "1)" numbering
	if i := strings.IndexAny(s, ".)"); i > 0 && i <= 3 && isDigits(s[:i]) {
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"'`")
	return strings.TrimSpace(s)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
