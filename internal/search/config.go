package search

import (
	"time"

	"github.com/pkg/errors"

	"tkgrep/internal/token"
	"tkgrep/internal/tokenizer"
)

// Config is the immutable run configuration shared by every file.
type Config struct {
	Pattern      string
	IgnoreCase   bool
	Target       token.Mask
	Before       int
	After        int
	OnlyCount    bool
	Color        bool
	StdoutIsTTY  bool
	Quiet        bool
	Recursive    bool
	Include      []string
	Exclude      []string
	Engine       tokenizer.Engine
	MatchTimeout time.Duration
	Marker       Marker
}

// Highlight reports whether matched text gets the marker pair. Piped output
// never does.
func (c Config) Highlight() bool {
	return c.Color && c.StdoutIsTTY
}

func (c Config) Validate() error {
	if c.Pattern == "" {
		return errors.New("PATTERN is not specified")
	}
	if c.Before < 0 {
		return errors.Errorf("%d: invalid context length argument", c.Before)
	}
	if c.After < 0 {
		return errors.Errorf("%d: invalid context length argument", c.After)
	}
	if c.MatchTimeout < 0 {
		return errors.Errorf("%s: invalid match timeout", c.MatchTimeout)
	}
	return nil
}

func (c Config) renderOptions() RenderOptions {
	return RenderOptions{
		Before:    c.Before,
		After:     c.After,
		OnlyCount: c.OnlyCount,
		Highlight: c.Highlight(),
		Marker:    c.Marker,
	}
}
