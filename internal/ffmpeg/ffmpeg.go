// Package ffmpeg wraps the ffprobe binary.
package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"subtitleforge/models"
)

// FFProbeOutput is the subset of `ffprobe -print_format json` we read.
type FFProbeOutput struct {
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

// Prober runs ffprobe on uploaded media. A missing binary is not an error:
// Probe then returns an empty result.
type Prober struct {
	Binary string
	Logger *logrus.Logger
}

func NewProber(logger *logrus.Logger) *Prober {
	return &Prober{Binary: "ffprobe", Logger: logger}
}

// Probe writes data to a temporary file and inspects it.
func (p *Prober) Probe(ctx context.Context, name string, data []byte) (models.MediaProbe, error) {
	bin, err := exec.LookPath(p.Binary)
	if err != nil {
		p.Logger.Debugf("ffprobe unavailable, skipping probe of %s: %v", name, err)
		return models.MediaProbe{}, nil
	}

	tmp, err := os.CreateTemp("", "probe-*"+filepath.Ext(name))
	if err != nil {
		return models.MediaProbe{}, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return models.MediaProbe{}, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return models.MediaProbe{}, fmt.Errorf("close temp file: %w", err)
	}

	return p.ProbeFile(ctx, bin, tmp.Name())
}

// ProbeFile runs bin on filePath.
func (p *Prober) ProbeFile(ctx context.Context, bin, filePath string) (models.MediaProbe, error) {
	// ffprobe -v quiet -print_format json -show_format -show_streams <input_file>
	cmd := exec.CommandContext(ctx, bin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return models.MediaProbe{}, ctx.Err()
		}
		return models.MediaProbe{}, fmt.Errorf("ffprobe failed: %v\nStderr: %s", err, stderr.String())
	}

	probe, err := ParseProbeOutput(stdout.Bytes())
	if err != nil {
		return models.MediaProbe{}, err
	}
	p.Logger.WithFields(logrus.Fields{"file": filepath.Base(filePath), "duration": probe.Duration}).Debug("Probed media")
	return probe, nil
}

// ParseProbeOutput decodes ffprobe JSON. The first audio and video streams
// are reported.
func ParseProbeOutput(raw []byte) (models.MediaProbe, error) {
	var out FFProbeOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return models.MediaProbe{}, fmt.Errorf("error unmarshalling ffprobe output: %w", err)
	}

	probe := models.MediaProbe{FormatName: out.Format.FormatName}
	if out.Format.Duration != "" {
		secs, err := strconv.ParseFloat(out.Format.Duration, 64)
		if err != nil {
			return models.MediaProbe{}, fmt.Errorf("error parsing duration string '%s': %w", out.Format.Duration, err)
		}
		probe.Duration = time.Duration(secs * float64(time.Second))
	}
	for _, s := range out.Streams {
		switch s.CodecType {
		case "audio":
			if probe.AudioCodec == "" {
				probe.AudioCodec = s.CodecName
			}
		case "video":
			if probe.VideoCodec == "" {
				probe.VideoCodec = s.CodecName
				probe.Width, probe.Height = s.Width, s.Height
			}
		}
	}
	return probe, nil
}
