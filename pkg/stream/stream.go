// Package stream plays back a finished reply as a paced sequence of words to
// emulate typing. The reply is complete before the first word is emitted.
package stream

import (
	"bufio"
	"context"
	"strings"
	"time"
)

// DefaultDelay is the pause between successive chunks.
const DefaultDelay = 80 * time.Millisecond

// Emitter splits replies into word chunks separated by Delay.
type Emitter struct {
	// Delay is the pause between successive chunks. Zero disables pacing.
	Delay time.Duration
}

// Emit returns a Stream over the words of text. Each chunk is a word followed
// by a single space.
func (e Emitter) Emit(text string) *Stream {
	return &Stream{words: strings.Fields(text), delay: e.Delay}
}

// Stream is a lazy, finite sequence of chunks. It cannot be restarted: once
// drained, Next keeps returning false. A Stream is not safe for concurrent use.
type Stream struct {
	words []string
	delay time.Duration
	next  int
	timer *time.Timer
}

// Remaining returns the number of chunks not yet emitted.
func (s *Stream) Remaining() int {
	return len(s.words) - s.next
}

// Next returns the next chunk, waiting out the pacing delay for every chunk
// after the first. It returns false when the stream is drained or ctx is done.
func (s *Stream) Next(ctx context.Context) (string, bool) {
	if s.next >= len(s.words) {
		s.release()
		return "", false
	}

	if s.next > 0 && s.delay > 0 {
		if !s.wait(ctx) {
			s.release()
			return "", false
		}
	} else if ctx.Err() != nil {
		s.release()
		return "", false
	}

	chunk := s.words[s.next] + " "
	s.next++
	if s.next == len(s.words) {
		s.release()
	}
	return chunk, true
}

// WriteTo writes and flushes each chunk to w, returning the bytes written. It
// stops at the first write or flush error, which usually means the client
// went away.
func (s *Stream) WriteTo(ctx context.Context, w *bufio.Writer) (int, error) {
	var total int
	for {
		chunk, ok := s.Next(ctx)
		if !ok {
			return total, ctx.Err()
		}

		n, err := w.WriteString(chunk)
		total += n
		if err != nil {
			s.release()
			return total, err
		}
		if err := w.Flush(); err != nil {
			s.release()
			return total, err
		}
	}
}

// Collect drains the stream into a slice.
func (s *Stream) Collect(ctx context.Context) []string {
	chunks := make([]string, 0, s.Remaining())
	for {
		chunk, ok := s.Next(ctx)
		if !ok {
			return chunks
		}
		chunks = append(chunks, chunk)
	}
}

func (s *Stream) wait(ctx context.Context) bool {
	if s.timer == nil {
		s.timer = time.NewTimer(s.delay)
	} else {
		s.timer.Reset(s.delay)
	}

	select {
	case <-s.timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Stream) release() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.words = nil
	s.next = 0
}
