// Package ndjson reads pre-parsed GC log entries encoded as one JSON
// object per line.
package ndjson

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/crimson-sun/gcingest/internal/connector"
	"github.com/crimson-sun/gcingest/internal/model"
)

// maxLineSize bounds a single encoded entry.
const maxLineSize = 4 << 20

func init() {
	connector.Register("ndjson", func() connector.Connector {
		return &Connector{}
	})
}

// Connector implements connector.Connector for NDJSON files and stdin.
type Connector struct {
	// Stdin replaces os.Stdin when the configured path is "-".
	Stdin io.Reader
}

func (c *Connector) Read(ctx context.Context, cfg connector.ConnectorConfig, fn func(model.Entry) error) error {
	if cfg.Path == "" || cfg.Path == "-" {
		in := c.Stdin
		if in == nil {
			in = os.Stdin
		}
		return Decode(ctx, in, fn)
	}

	f, err := os.Open(cfg.Path)
	if err != nil {
		return fmt.Errorf("%w: %v", connector.ErrStreamRead, err)
	}
	defer f.Close()
	return Decode(ctx, f, fn)
}

// Decode reads entries from r and passes each to fn. Blank lines are
// ignored. Errors returned by fn are passed through unwrapped.
func Decode(ctx context.Context, r io.Reader, fn func(model.Entry) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for sc.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return err
		}
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}

		var e model.Entry
		if err := json.Unmarshal(b, &e); err != nil {
			return fmt.Errorf("%w: line %d: %v", connector.ErrStreamRead, line, err)
		}
		if e.Record == nil && e.Header == "" && e.Excluded == "" {
			return fmt.Errorf("%w: line %d: empty entry", connector.ErrStreamRead, line)
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%w: %v", connector.ErrStreamRead, err)
	}
	return nil
}
