// Package zip packs stored images into a single archive.
package zip

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zip"
)

type Asset struct {
	Filename string
	Data     []byte
	Modified time.Time
}

// ArchiveAssets writes assets to w in order. WebP data is already compressed,
// so entries are stored rather than deflated.
func ArchiveAssets(w io.Writer, assets []Asset) error {
	zw := zip.NewWriter(w)
	seen := make(map[string]int, len(assets))
	for _, asset := range assets {
		name := asset.Filename
		if n := seen[name]; n > 0 {
			name = fmt.Sprintf("%d-%s", n, name)
		}
		seen[asset.Filename]++
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Store,
			Modified: asset.Modified,
		})
		if err != nil {
			return fmt.Errorf("zip: %s: %w", name, err)
		}
		if _, err := fw.Write(asset.Data); err != nil {
			return fmt.Errorf("zip: %s: %w", name, err)
		}
	}
	return zw.Close()
}

// Bytes is ArchiveAssets into memory.
func Bytes(assets []Asset) ([]byte, error) {
	var buf bytes.Buffer
	if err := ArchiveAssets(&buf, assets); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
