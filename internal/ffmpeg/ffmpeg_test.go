package ffmpeg

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestParseProbeOutput(t *testing.T) {
	raw := []byte(`{
		"streams": [
			{"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080},
			{"codec_type": "audio", "codec_name": "aac"},
			{"codec_type": "audio", "codec_name": "opus"}
		],
		"format": {"format_name": "mov,mp4,m4a,3gp,3g2,mj2", "duration": "12.500000"}
	}`)
	got, err := ParseProbeOutput(raw)
	if err != nil {
		t.Fatal(err)
	}
	if got.Duration != 12500*time.Millisecond {
		t.Errorf("duration = %v", got.Duration)
	}
	if got.AudioCodec != "aac" || got.VideoCodec != "h264" || got.Width != 1920 || got.Height != 1080 {
		t.Errorf("probe = %+v", got)
	}
}

func TestParseProbeOutputErrors(t *testing.T) {
	for _, raw := range []string{`not json`, `{"format":{"duration":"abc"}}`} {
		if _, err := ParseProbeOutput([]byte(raw)); err == nil {
			t.Errorf("%q: expected error", raw)
		}
	}
}

func TestProbeWithoutBinary(t *testing.T) {
	l := logrus.New()
	l.SetOutput(io.Discard)
	p := &Prober{Binary: "ffprobe-binary-that-does-not-exist", Logger: l}

	got, err := p.Probe(context.Background(), "clip.mp4", []byte("data"))
	if err != nil {
		t.Fatalf("missing ffprobe should not be an error: %v", err)
	}
	if got.Duration != 0 {
		t.Fatalf("probe = %+v", got)
	}
}
