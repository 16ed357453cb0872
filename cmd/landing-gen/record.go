package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AtRiskMedia/landingkit/internal/domain/entities/product"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/media"
)

// loadRecord reads a record from path, or stdin for "-". Files ending in
// .json are decoded as JSON, everything else as YAML.
func loadRecord(path string, stdin io.Reader) (product.Record, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return product.Record{}, fmt.Errorf("failed to read record: %w", err)
	}

	var record product.Record
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &record)
	} else {
		err = yaml.Unmarshal(data, &record)
	}
	if err != nil {
		return product.Record{}, fmt.Errorf("failed to decode record %s: %w", path, err)
	}
	return record.Normalize(), nil
}

func isRemote(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "//")
}

// embedImages replaces local image paths with data URLs. Relative paths are
// resolved against baseDir. Inline data URLs go through the same downscale
// as files; remote URLs are left alone.
func embedImages(record product.Record, baseDir string, processor *media.ImageProcessor) (product.Record, error) {
	out := record.Clone()
	for i, ref := range out.Images {
		if ref == "" || isRemote(ref) {
			continue
		}
		data, err := readImage(ref, baseDir)
		if err != nil {
			return record, err
		}
		processed, err := processor.Process(data)
		if err != nil {
			return record, fmt.Errorf("image %s: %w", ref, err)
		}
		out.Images[i] = processed.DataURL
	}
	return out, nil
}

func readImage(ref, baseDir string) ([]byte, error) {
	if strings.HasPrefix(strings.ToLower(ref), "data:") {
		_, data, err := media.DecodeDataURL(ref)
		if err != nil {
			return nil, fmt.Errorf("inline image: %w", err)
		}
		return data, nil
	}
	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", ref, err)
	}
	return data, nil
}
