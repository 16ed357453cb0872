package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AtRiskMedia/landingkit/internal/domain/entities/product"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/media"
)

const yamlRecord = `
name: Trail Shoe
description: Light and grippy
price: $120
category: Sports
layout: split
features:
  - Vibram sole
  - Recycled mesh
testimonials:
  - author: Sam
    content: Best shoe I own
images:
  - shoe.png
  - https://example.com/side.png
`

func TestRunWritesHTMLFromYAML(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "shoe.yaml")
	if err := os.WriteFile(in, []byte(yamlRecord), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "page.html")

	var stdout bytes.Buffer
	if err := run([]string{"-in", in, "-out", out}, nil, &stdout); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	page, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"<h1>Trail Shoe</h1>", "Vibram sole", "Best shoe I own", `src="shoe.png"`} {
		if !strings.Contains(string(page), want) {
			t.Errorf("page missing %q", want)
		}
	}
	if !strings.Contains(stdout.String(), "wrote "+out) {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRunReactToStdoutFromJSON(t *testing.T) {
	var stdout bytes.Buffer
	err := run([]string{"-format", "react", "-out", "-"}, strings.NewReader(`{"name":"Mug"}`), &stdout)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(stdout.String(), "<h1>Mug</h1>") {
		t.Errorf("component source = %q", stdout.String())
	}
}

func TestRunRejectsUnknownFormat(t *testing.T) {
	if err := run([]string{"-format", "pdf"}, strings.NewReader("name: x"), &bytes.Buffer{}); err == nil {
		t.Error("run() accepted an unknown format")
	}
}

func TestEmbedImages(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 3))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "shoe.png"), buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	in := filepath.Join(dir, "shoe.yaml")
	if err := os.WriteFile(in, []byte(yamlRecord), 0644); err != nil {
		t.Fatal(err)
	}

	record, err := loadRecord(in, nil)
	if err != nil {
		t.Fatal(err)
	}
	embedded, err := embedImages(record, dir, media.NewImageProcessor(0, 85))
	if err != nil {
		t.Fatalf("embedImages() error = %v", err)
	}
	if !strings.HasPrefix(embedded.Images[0], "data:image/png;base64,") {
		t.Errorf("local image not embedded: %.40s", embedded.Images[0])
	}
	if embedded.Images[1] != "https://example.com/side.png" {
		t.Errorf("remote image changed: %s", embedded.Images[1])
	}
	if record.Images[0] != "shoe.png" {
		t.Errorf("embedImages mutated its input")
	}

	record.Images = []string{"missing.png"}
	if _, err := embedImages(record, dir, media.NewImageProcessor(0, 85)); err == nil {
		t.Error("missing image file should fail")
	}
}

func TestEmbedImagesDownscalesInlineDataURLs(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 20))); err != nil {
		t.Fatal(err)
	}
	record := product.NewRecord()
	record.Images = []string{media.EncodeDataURL("image/png", buf.Bytes())}

	embedded, err := embedImages(record, t.TempDir(), media.NewImageProcessor(10, 85))
	if err != nil {
		t.Fatalf("embedImages() error = %v", err)
	}
	mime, data, err := media.DecodeDataURL(embedded.Images[0])
	if err != nil {
		t.Fatalf("DecodeDataURL() error = %v", err)
	}
	if mime != "image/webp" || len(data) == 0 {
		t.Errorf("inline image was not downscaled: mime %q", mime)
	}

	record.Images = []string{"data:image/png;base64,%%%"}
	if _, err := embedImages(record, t.TempDir(), media.NewImageProcessor(10, 85)); err == nil {
		t.Error("corrupt data URL should fail")
	}
}
