package pathops

import (
	"context"
	"strings"

	"github.com/hpcloud/tail"
)

// LinesCallback receives the complete line sequence, or the error that ended the read.
type LinesCallback func(lines []string, err error)

// ReadLines streams path line by line on a background goroutine and calls done
// exactly once after end of input. Line terminators are stripped.
func ReadLines(ctx context.Context, path string, done LinesCallback) {
	path = NormalizeNFC(path)
	go func() {
		lines, err := readLines(ctx, path)
		done(lines, err)
	}()
}

// ReadLinesSync blocks until ReadLines completes.
func ReadLinesSync(ctx context.Context, path string) ([]string, error) {
	type result struct {
		lines []string
		err   error
	}
	ch := make(chan result, 1)
	ReadLines(ctx, path, func(lines []string, err error) {
		ch <- result{lines, err}
	})
	r := <-ch
	return r.lines, r.err
}

func readLines(ctx context.Context, path string) ([]string, error) {
	t, err := tail.TailFile(path, tail.Config{
		Follow:    false,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return nil, Normalize(err, path)
	}

	lines := []string{}
	for {
		select {
		case <-ctx.Done():
			stopTail(t)
			return nil, ctx.Err()
		case line, ok := <-t.Lines:
			if !ok {
				if err := t.Wait(); err != nil {
					return nil, Normalize(err, path)
				}
				return lines, nil
			}
			if line.Err != nil {
				stopTail(t)
				return nil, Normalize(line.Err, path)
			}
			lines = append(lines, strings.TrimSuffix(line.Text, "\r"))
		}
	}
}

// stopTail stops t and discards any line it is still trying to send. Stop
// waits for the reader goroutine, which cannot exit while blocked on Lines.
func stopTail(t *tail.Tail) {
	go func() {
		for range t.Lines {
		}
	}()
	_ = t.Stop()
}
