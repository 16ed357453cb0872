// Command landing-gen renders a product record file into a landing page
// artifact without running the editor server.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/AtRiskMedia/landingkit/internal/application/services"
	"github.com/AtRiskMedia/landingkit/internal/domain/entities/product"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/media"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/landingkit/pkg/config"
)

func main() {
	log.SetFlags(0)
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatalf("landing-gen: %v", err)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("landing-gen", flag.ContinueOnError)
	in := fs.String("in", "-", "Record file (YAML or .json); - reads stdin")
	format := fs.String("format", string(product.FormatHTML), "Artifact format (html, react)")
	out := fs.String("out", "", "Output path; defaults to the artifact filename, - writes stdout")
	minify := fs.Bool("minify", config.ExportMinifyDefault, "Minify html output")
	embed := fs.Bool("embed-images", false, "Inline local image files as data URLs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	exportFormat, err := product.ParseExportFormat(*format)
	if err != nil {
		return err
	}

	record, err := loadRecord(*in, stdin)
	if err != nil {
		return err
	}
	if *embed {
		baseDir := "."
		if *in != "-" {
			baseDir = filepath.Dir(*in)
		}
		processor := media.NewImageProcessor(config.MediaMaxWidth, config.MediaWebPQuality)
		if record, err = embedImages(record, baseDir, processor); err != nil {
			return err
		}
	}

	exporter := services.NewExportService(nil, nil, logging.NewDiscardLogger())
	artifact, err := exporter.Export(record, exportFormat, *minify)
	if err != nil {
		return err
	}

	target := *out
	if target == "" {
		target = artifact.Filename
	}
	if target == "-" {
		_, err = stdout.Write(artifact.Body)
		return err
	}
	if err := os.WriteFile(target, artifact.Body, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	fmt.Fprintf(stdout, "wrote %s (%d bytes)\n", target, len(artifact.Body))
	return nil
}
