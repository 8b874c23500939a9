package client

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func drainFrames(f *FrameBuffer) []string {
	frames := []string{}
	for {
		frame, ok := f.Next()
		if !ok {
			return frames
		}
		frames = append(frames, frame)
	}
}

func TestFrameBuffer(t *testing.T) {
	tests := []struct {
		name      string
		chunks    []string
		want      []string
		remaining int
	}{
		{
			name:   "single frame",
			chunks: []string{"#1ABC!"},
			want:   []string{"1ABC"},
		},
		{
			name:   "frame split across reads",
			chunks: []string{"#1A", "BC!"},
			want:   []string{"1ABC"},
		},
		{
			name:   "several frames in one read",
			chunks: []string{"#one!#two!#three!"},
			want:   []string{"one", "two", "three"},
		},
		{
			name:      "trailing partial frame stays buffered",
			chunks:    []string{"#one!#tw"},
			want:      []string{"one"},
			remaining: 3,
		},
		{
			name:   "noise before the frame is discarded",
			chunks: []string{"garbage#data!"},
			want:   []string{"data"},
		},
		{
			name:   "empty frame",
			chunks: []string{"#!#x!"},
			want:   []string{"", "x"},
		},
		{
			name:      "terminator without any start clears the buffer",
			chunks:    []string{"noise!"},
			want:      []string{},
			remaining: 0,
		},
		{
			name:      "terminator before an unfinished frame",
			chunks:    []string{"abc!#de"},
			want:      []string{},
			remaining: 3,
		},
		{
			name:      "nothing but a start",
			chunks:    []string{"#"},
			want:      []string{},
			remaining: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FrameBuffer
			got := []string{}
			for _, chunk := range tt.chunks {
				f.Write([]byte(chunk))
				got = append(got, drainFrames(&f)...)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("unexpected frames; diff:\n%s", diff)
			}
			if f.Len() != tt.remaining {
				t.Errorf("Len() = %d, want %d", f.Len(), tt.remaining)
			}
		})
	}
}

func TestFrameBuffer_Reset(t *testing.T) {
	var f FrameBuffer
	f.Write([]byte("#partial"))
	f.Reset()
	f.Write([]byte("frame!"))
	if frames := drainFrames(&f); len(frames) != 0 {
		t.Errorf("Reset() left data behind, got frames %v", frames)
	}
}

func TestStripKeepAlive(t *testing.T) {
	tests := []struct {
		name     string
		chunk    string
		want     string
		stripped bool
	}{
		{name: "no keep-alive", chunk: "#abc!", want: "#abc!", stripped: false},
		{name: "bare keep-alive", chunk: "*", want: "", stripped: true},
		{name: "interleaved keep-alives", chunk: "*#a*b!**", want: "#ab!", stripped: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stripped := StripKeepAlive([]byte(tt.chunk))
			if string(got) != tt.want || stripped != tt.stripped {
				t.Errorf("StripKeepAlive() = (%q, %v), want (%q, %v)", got, stripped, tt.want, tt.stripped)
			}
		})
	}
}
