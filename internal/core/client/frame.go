package client

import "bytes"

const (
	frameStart = '#'
	frameEnd   = '!'
	keepAlive  = '*'
)

// FrameBuffer accumulates bytes received from the login server and splits
// them into the contents of '#'...'!' frames. It is not safe for concurrent
// use.
type FrameBuffer struct {
	buf []byte
}

// Write appends received bytes to the buffer.
func (f *FrameBuffer) Write(p []byte) {
	f.buf = append(f.buf, p...)
}

// Next returns the content of the next complete frame, without its
// delimiters. Anything in front of the first '#' is discarded. A partial
// frame stays buffered until its '!' arrives. An empty frame ("#!") is
// returned as an empty string with ok set.
func (f *FrameBuffer) Next() (frame string, ok bool) {
	if len(f.buf) < 2 || bytes.IndexByte(f.buf, frameEnd) < 0 {
		return "", false
	}

	start := bytes.IndexByte(f.buf, frameStart)
	if start < 0 {
		// Only noise is buffered, no frame can ever start in it.
		f.buf = f.buf[:0]
		return "", false
	}
	f.consume(start)

	end := bytes.IndexByte(f.buf[1:], frameEnd)
	if end < 0 {
		return "", false
	}
	frame = string(f.buf[1 : end+1])
	f.consume(end + 2)
	return frame, true
}

// Len returns the number of buffered bytes.
func (f *FrameBuffer) Len() int {
	return len(f.buf)
}

// Reset drops all buffered bytes.
func (f *FrameBuffer) Reset() {
	f.buf = f.buf[:0]
}

func (f *FrameBuffer) consume(n int) {
	if n == 0 {
		return
	}
	f.buf = append(f.buf[:0], f.buf[n:]...)
}

// StripKeepAlive removes every keep-alive character from chunk and reports
// whether there was any.
func StripKeepAlive(chunk []byte) ([]byte, bool) {
	if bytes.IndexByte(chunk, keepAlive) < 0 {
		return chunk, false
	}
	return bytes.ReplaceAll(chunk, []byte{keepAlive}, nil), true
}
