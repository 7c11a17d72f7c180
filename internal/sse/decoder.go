// Package sse decodes the chat endpoint's event stream on the consuming
// side: newline-delimited frames, each data frame carrying a JSON payload
// with an incremental text field, terminated by a [DONE] sentinel.
package sse

import (
	"bytes"
	"encoding/json"
	"io"
)

const (
	dataPrefix   = "data: "
	doneSentinel = "[DONE]"
)

// Event is one decoded frame of interest: either an incremental text
// fragment or the end-of-stream marker.
type Event struct {
	Text string
	Done bool
}

// Decoder reassembles frames from arbitrarily chunked byte deliveries.
// Incomplete trailing lines stay buffered until the remainder arrives;
// malformed complete frames are skipped and the stream continues. Frames are
// processed strictly in arrival order.
type Decoder struct {
	buf  bytes.Buffer
	done bool
}

// NewDecoder returns a decoder for one response stream.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Done reports whether the end-of-stream sentinel was seen.
func (d *Decoder) Done() bool {
	return d.done
}

// Feed consumes the next chunk of bytes and returns the events completed by
// it. The same frame sequence yields the same events regardless of how the
// bytes were split across calls.
func (d *Decoder) Feed(p []byte) []Event {
	d.buf.Write(p)

	var events []Event
	for {
		raw := d.buf.Bytes()
		idx := bytes.IndexByte(raw, '\n')
		if idx < 0 {
			break
		}

		line := make([]byte, idx)
		copy(line, raw[:idx])
		d.buf.Next(idx + 1)

		if event, ok := d.decodeLine(line); ok {
			events = append(events, event)
		}
	}
	return events
}

// decodeLine parses one complete frame line. Non-data frames and data frames
// without a text field are ignored.
func (d *Decoder) decodeLine(line []byte) (Event, bool) {
	line = bytes.TrimSuffix(line, []byte("\r"))
	if !bytes.HasPrefix(line, []byte(dataPrefix)) {
		return Event{}, false
	}

	payload := bytes.TrimPrefix(line, []byte(dataPrefix))
	if string(payload) == doneSentinel {
		d.done = true
		return Event{Done: true}, true
	}

	var frame struct {
		Text *string `json:"text"`
	}
	if err := json.Unmarshal(payload, &frame); err != nil || frame.Text == nil {
		return Event{}, false
	}
	return Event{Text: *frame.Text}, true
}

// Drain reads a whole response body through the decoder, invoking onText for
// each fragment, and returns the reconstructed text. It stops at the DONE
// sentinel or EOF; a transport error mid-stream is returned as-is and the
// partial text is the caller's to discard.
func Drain(r io.Reader, onText func(string)) (string, error) {
	d := NewDecoder()
	var full bytes.Buffer
	chunk := make([]byte, 4096)

	for {
		n, err := r.Read(chunk)
		if n > 0 {
			for _, event := range d.Feed(chunk[:n]) {
				if event.Done {
					return full.String(), nil
				}
				full.WriteString(event.Text)
				if onText != nil {
					onText(event.Text)
				}
			}
		}
		if err != nil {
			if err == io.EOF {
				return full.String(), nil
			}
			return "", err
		}
	}
}
