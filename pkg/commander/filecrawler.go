package commander

import (
	"encoding/base64"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cuemby/gradenet/pkg/wire"
)

// readDirFiles walks dir recursively and returns every regular file as a
// (path relative to dir, base64 content) payload, in the order WalkDir
// visits them.
func readDirFiles(dir string) ([]wire.FilePayload, error) {
	var payloads []wire.FilePayload

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = d.Name()
		}
		payloads = append(payloads, wire.FilePayload{
			Path:   filepath.ToSlash(rel),
			Base64: base64.StdEncoding.EncodeToString(data),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: crawl %s: %v", wire.ErrIO, dir, err)
	}
	return payloads, nil
}
