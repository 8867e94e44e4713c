package subtitles

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path"
	"strings"
	"time"
)

// BundleSuffix is appended to an uploaded file name to form the key of its
// finished project bundle.
const BundleSuffix = ".fcpxmld.zip"

// ArtifactKey returns the bundle key for an uploaded file name. Names that
// already carry the suffix are returned unchanged.
func ArtifactKey(fileName string) string {
	name := strings.TrimSpace(fileName)
	if strings.HasSuffix(name, BundleSuffix) {
		return name
	}
	return name + BundleSuffix
}

// BundleFCPXMLD packages a rendered document as a zipped .fcpxmld bundle:
// <name>.fcpxmld/Info.fcpxml.
func BundleFCPXMLD(name string, fcpxml []byte, modified time.Time) ([]byte, error) {
	base := strings.TrimSuffix(path.Base(name), BundleSuffix)
	dir := base + ".fcpxmld/"

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	if _, err := zw.CreateHeader(&zip.FileHeader{Name: dir, Method: zip.Store, Modified: modified}); err != nil {
		return nil, fmt.Errorf("bundle dir: %w", err)
	}
	w, err := zw.CreateHeader(&zip.FileHeader{Name: dir + "Info.fcpxml", Method: zip.Deflate, Modified: modified})
	if err != nil {
		return nil, fmt.Errorf("bundle entry: %w", err)
	}
	if _, err := w.Write(fcpxml); err != nil {
		return nil, fmt.Errorf("bundle write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("bundle close: %w", err)
	}
	return buf.Bytes(), nil
}
