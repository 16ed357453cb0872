package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"

	"github.com/AtRiskMedia/landingkit/internal/domain/entities/product"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/landingkit/internal/presentation/templates"
)

// Fixed artifact names offered for download
const (
	HTMLFilename      = "landing-page.html"
	ComponentFilename = "ProductLandingPage.jsx"

	artifactContentType = "text/plain"
)

// ErrInvalidSource is returned for an unknown export source
var ErrInvalidSource = errors.New("invalid export source")

// ExportSource picks which session record an export reads
type ExportSource string

const (
	SourceDraft   ExportSource = "draft"
	SourcePreview ExportSource = "preview"
)

// ParseExportSource validates a source name; empty means draft
func ParseExportSource(value string) (ExportSource, error) {
	switch ExportSource(value) {
	case "", SourceDraft:
		return SourceDraft, nil
	case SourcePreview:
		return SourcePreview, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSource, value)
}

// Artifact is a downloadable export
type Artifact struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportOptions tunes an export
type ExportOptions struct {
	Source ExportSource
	Minify bool
}

// ExportService produces downloadable artifacts from records
type ExportService struct {
	sessions  *stores.SessionsStore
	generator *templates.Generator
	logger    *logging.ChanneledLogger

	minifierOnce sync.Once
	minifier     *minify.M
}

// NewExportService creates a new export application service
func NewExportService(sessions *stores.SessionsStore, generator *templates.Generator, logger *logging.ChanneledLogger) *ExportService {
	if generator == nil {
		generator = templates.NewGenerator()
	}
	return &ExportService{
		sessions:  sessions,
		generator: generator,
		logger:    logger,
	}
}

func (s *ExportService) getMinifier() *minify.M {
	s.minifierOnce.Do(func() {
		s.minifier = minify.New()
		s.minifier.AddFunc("text/css", css.Minify)
		s.minifier.AddFunc("text/html", html.Minify)
	})
	return s.minifier
}

// Export builds the artifact for a record. Minify applies to the html
// document only; component source is always returned as generated.
func (s *ExportService) Export(record product.Record, format product.ExportFormat, minifyHTML bool) (Artifact, error) {
	start := time.Now()

	var artifact Artifact
	switch format {
	case product.FormatHTML:
		body := s.generator.Generate(record)
		if minifyHTML {
			minified, err := s.getMinifier().String("text/html", body)
			if err != nil {
				return Artifact{}, fmt.Errorf("failed to minify document: %w", err)
			}
			body = minified
		}
		artifact = Artifact{Filename: HTMLFilename, ContentType: artifactContentType, Body: []byte(body)}
	case product.FormatReact:
		artifact = Artifact{
			Filename:    ComponentFilename,
			ContentType: artifactContentType,
			Body:        []byte(templates.GenerateComponentSource(record)),
		}
	default:
		return Artifact{}, fmt.Errorf("%w: %q", product.ErrInvalidFormat, format)
	}

	s.logger.Export().Info("Export generated",
		"format", format,
		"filename", artifact.Filename,
		"bytes", len(artifact.Body),
		"minified", minifyHTML && format == product.FormatHTML,
		"duration", time.Since(start))
	return artifact, nil
}

// ExportSession exports the draft or previewed record of a session
func (s *ExportService) ExportSession(sessionID string, format product.ExportFormat, opts ExportOptions) (Artifact, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return Artifact{}, err
	}

	var record product.Record
	session.View(func(state stores.SessionState) {
		if opts.Source == SourcePreview {
			record = state.Previewed.Clone()
		} else {
			record = state.Draft.Clone()
		}
	})
	return s.Export(record, format, opts.Minify)
}
