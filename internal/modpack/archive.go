// Package modpack packages generated tables into a mod archive.
package modpack

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
)

// archiveTime is stamped on every entry so identical input gives identical
// archives.
var archiveTime = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// Archive writes files (slash-separated path to content) into a zip. Entries
// are written in path order and every parent directory gets its own entry.
func Archive(files map[string]string) ([]byte, error) {
	paths := make([]string, 0, len(files))
	dirs := map[string]bool{}
	for p := range files {
		clean := path.Clean(strings.TrimPrefix(p, "/"))
		if clean != p || clean == "." || strings.HasPrefix(clean, "../") {
			return nil, fmt.Errorf("invalid archive path %q", p)
		}
		paths = append(paths, p)
		for d := path.Dir(p); d != "."; d = path.Dir(d) {
			dirs[d+"/"] = true
		}
	}
	for d := range dirs {
		paths = append(paths, d)
	}
	sort.Strings(paths)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range paths {
		hdr := &zip.FileHeader{Name: p, Method: zip.Deflate, Modified: archiveTime}
		if strings.HasSuffix(p, "/") {
			hdr.Method = zip.Store
		}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", p, err)
		}
		if content, ok := files[p]; ok {
			if _, err := io.WriteString(w, content); err != nil {
				return nil, fmt.Errorf("write %s: %w", p, err)
			}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}

// Extract reads every regular file of a zip archive.
func Extract(data []byte) (map[string]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	files := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		files[f.Name] = string(content)
	}
	return files, nil
}
