package gemini

import (
	"io"
	"strings"
	"testing"
)

// chunkReader delivers its payload in fixed-size reads so tests can prove
// decoding is independent of transport chunking.
type chunkReader struct {
	data []byte
	size int
	pos  int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if c.pos >= len(c.data) {
		return 0, io.EOF
	}
	n := c.size
	if n > len(p) {
		n = len(p)
	}
	if c.pos+n > len(c.data) {
		n = len(c.data) - c.pos
	}
	copy(p, c.data[c.pos:c.pos+n])
	c.pos += n
	return n, nil
}

const sampleStream = `data: {"candidates":[{"content":{"parts":[{"text":"Hello"}]}}]}

data: {"candidates":[{"content":{"parts":[{"text":", "}]}}]}

: keep-alive comment

data: {"candidates":[{"content":{"parts":[{"text":"world"}]}}]}

data: {this fragment is broken json

data: {"candidates":[{"content":{"parts":[{"text":"!"}]}}]}

data: [DONE]
`

func TestDecodeStream(t *testing.T) {
	var chunks []string
	got, err := decodeStream(strings.NewReader(sampleStream), func(s string) {
		chunks = append(chunks, s)
	})
	if err != nil {
		t.Fatalf("decodeStream: %v", err)
	}
	if got != "Hello, world!" {
		t.Errorf("accumulated = %q, want %q", got, "Hello, world!")
	}
	if len(chunks) != 4 {
		t.Errorf("sink received %d chunks, want 4: %v", len(chunks), chunks)
	}
	if strings.Join(chunks, "") != got {
		t.Errorf("sink chunks %v do not reassemble the accumulated text", chunks)
	}
}

func TestDecodeStreamChunkingIndependence(t *testing.T) {
	var wantChunks []string
	want, err := decodeStream(strings.NewReader(sampleStream), func(s string) {
		wantChunks = append(wantChunks, s)
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, size := range []int{1, 3, 7, 64, len(sampleStream)} {
		r := &chunkReader{data: []byte(sampleStream), size: size}
		var gotChunks []string
		got, err := decodeStream(r, func(s string) {
			gotChunks = append(gotChunks, s)
		})
		if err != nil {
			t.Fatalf("chunk size %d: %v", size, err)
		}
		if got != want {
			t.Errorf("chunk size %d: decoded %q, want %q", size, got, want)
		}
		if len(gotChunks) != len(wantChunks) {
			t.Errorf("chunk size %d: sink saw %d chunks, want %d", size, len(gotChunks), len(wantChunks))
			continue
		}
		for i := range gotChunks {
			if gotChunks[i] != wantChunks[i] {
				t.Errorf("chunk size %d: sink chunk %d = %q, want %q", size, i, gotChunks[i], wantChunks[i])
			}
		}
	}
}

func TestDecodeStreamNilSink(t *testing.T) {
	got, err := decodeStream(strings.NewReader("data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"ok\"}]}}]}\n"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "ok" {
		t.Errorf("accumulated = %q, want %q", got, "ok")
	}
}

func TestDecodeStreamEmpty(t *testing.T) {
	got, err := decodeStream(strings.NewReader(""), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("accumulated = %q, want empty", got)
	}
}
