package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/AtRiskMedia/landingkit/internal/domain/entities/product"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/media"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/landingkit/internal/presentation/templates"
)

type recordingSurfaces struct {
	mu       sync.Mutex
	messages map[string][]messaging.RenderMessage
}

func newRecordingSurfaces() *recordingSurfaces {
	return &recordingSurfaces{messages: make(map[string][]messaging.RenderMessage)}
}

func (r *recordingSurfaces) Broadcast(sessionID string, msg messaging.RenderMessage) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[sessionID] = append(r.messages[sessionID], msg)
	return 1
}

func (r *recordingSurfaces) CloseSession(sessionID string) {}

func (r *recordingSurfaces) SurfaceCount(sessionID string) int { return 1 }

func (r *recordingSurfaces) sent(sessionID string) []messaging.RenderMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]messaging.RenderMessage(nil), r.messages[sessionID]...)
}

type fixture struct {
	sessions *stores.SessionsStore
	surfaces *recordingSurfaces
	editor   *EditorService
	preview  *PreviewService
	export   *ExportService
	intake   *ImageIntakeService
}

func newFixture() *fixture {
	logger := logging.NewDiscardLogger()
	sessions := stores.NewSessionsStore(0, nil)
	surfaces := newRecordingSurfaces()
	generator := &templates.Generator{Clock: func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }}
	return &fixture{
		sessions: sessions,
		surfaces: surfaces,
		editor:   NewEditorService(sessions, logger),
		preview:  NewPreviewService(sessions, surfaces, generator, logger),
		export:   NewExportService(sessions, generator, logger),
		intake:   NewImageIntakeService(sessions, media.NewImageProcessor(0, 85), 3, logger),
	}
}

func index(i int) *int { return &i }

func TestEditorCreateAndApply(t *testing.T) {
	f := newFixture()
	snap := f.editor.Create(nil)
	if snap.Draft.CallToAction != "Buy Now" || snap.Draft.Layout != product.LayoutCentered {
		t.Fatalf("new session draft = %+v", snap.Draft)
	}

	draft, err := f.editor.Apply(snap.ID, product.Command{Op: product.OpSetField, Field: "name", Value: "Desk Lamp"})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if draft.Name != "Desk Lamp" {
		t.Errorf("Name = %q", draft.Name)
	}

	_, err = f.editor.Apply(snap.ID, product.Command{Op: product.OpRemoveFeature, Index: index(4)})
	if !errors.Is(err, product.ErrIndexOutOfRange) {
		t.Errorf("Apply(remove_feature 4) error = %v", err)
	}
	got, _ := f.editor.Draft(snap.ID)
	if got.Name != "Desk Lamp" || len(got.Features) != 1 {
		t.Errorf("draft changed after a rejected command: %+v", got)
	}

	if _, err := f.editor.Apply("missing", product.Command{Op: product.OpAddFeature}); !errors.Is(err, stores.ErrSessionNotFound) {
		t.Errorf("Apply(missing) error = %v", err)
	}
}

func TestEditorReplaceNormalizes(t *testing.T) {
	f := newFixture()
	snap := f.editor.Create(&product.Record{Name: "Old"})

	draft, err := f.editor.Replace(snap.ID, product.Record{Name: "New", Layout: "diagonal"})
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if draft.Name != "New" || draft.Layout != product.LayoutCentered {
		t.Errorf("replaced draft = %+v", draft)
	}
	if len(draft.Features) != 1 || len(draft.Testimonials) != 1 {
		t.Errorf("replaced draft lost its placeholders")
	}
}

func TestPreviewUpdateSnapshotsDraft(t *testing.T) {
	f := newFixture()
	snap := f.editor.Create(&product.Record{Name: "First"})

	if _, err := f.editor.Apply(snap.ID, product.Command{Op: product.OpSetField, Field: "name", Value: "Second"}); err != nil {
		t.Fatal(err)
	}
	before, _ := f.editor.Get(snap.ID)
	if before.Previewed.Name != "First" {
		t.Errorf("editing the draft changed the preview: %q", before.Previewed.Name)
	}

	msg, err := f.preview.Update(snap.ID)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if msg.Revision != 1 || !strings.Contains(msg.Document, "<h1>Second</h1>") {
		t.Errorf("render = revision %d, document contains name: %v", msg.Revision, strings.Contains(msg.Document, "Second"))
	}

	sent := f.surfaces.sent(snap.ID)
	if len(sent) != 1 || sent[0].Document != msg.Document {
		t.Errorf("broadcasts = %d, want the rendered document once", len(sent))
	}

	if _, err := f.editor.Apply(snap.ID, product.Command{Op: product.OpSetField, Field: "name", Value: "Third"}); err != nil {
		t.Fatal(err)
	}
	again, err := f.preview.Refresh(snap.ID)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if again.Revision != 2 || again.Document != msg.Document {
		t.Errorf("refresh should re-render the same previewed record at the next revision")
	}
}

func TestPreviewCurrentRendersLazily(t *testing.T) {
	f := newFixture()
	snap := f.editor.Create(&product.Record{Name: "Lazy"})

	msg, err := f.preview.Current(snap.ID)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if msg.Revision != 1 || !strings.Contains(msg.Document, "Lazy") {
		t.Errorf("Current() = revision %d", msg.Revision)
	}

	again, _ := f.preview.Current(snap.ID)
	if again.Revision != 1 {
		t.Errorf("Current() re-rendered: revision %d", again.Revision)
	}

	if _, err := f.preview.Current("missing"); !errors.Is(err, stores.ErrSessionNotFound) {
		t.Errorf("Current(missing) error = %v", err)
	}
}

func TestPreviewAttachPropagatesRegisterError(t *testing.T) {
	f := newFixture()
	snap := f.editor.Create(nil)
	boom := errors.New("boom")

	var initial messaging.RenderMessage
	if err := f.preview.Attach(snap.ID, func(m messaging.RenderMessage) error {
		initial = m
		return boom
	}); !errors.Is(err, boom) {
		t.Errorf("Attach() error = %v", err)
	}
	if initial.Type != messaging.MessageRender || initial.Document == "" {
		t.Errorf("initial message = %+v", initial)
	}
}

func TestPreviewIsIdempotent(t *testing.T) {
	f := newFixture()
	r := product.Record{Name: "Same", Features: []string{"a", "b"}}
	if f.preview.RenderRecord(r) != f.preview.RenderRecord(r) {
		t.Error("rendering the same record twice differed")
	}
}

func TestExportArtifacts(t *testing.T) {
	f := newFixture()
	r := product.NewRecord()
	r.Name = "Kettle"
	r.Features = []string{"Boils fast"}

	html, err := f.export.Export(r, product.FormatHTML, false)
	if err != nil {
		t.Fatalf("Export(html) error = %v", err)
	}
	if html.Filename != "landing-page.html" || html.ContentType != "text/plain" {
		t.Errorf("html artifact = %s %s", html.Filename, html.ContentType)
	}
	if !bytes.HasPrefix(html.Body, []byte("<!DOCTYPE html>")) {
		t.Errorf("html body does not start with a doctype")
	}

	minified, err := f.export.Export(r, product.FormatHTML, true)
	if err != nil {
		t.Fatalf("Export(minified) error = %v", err)
	}
	if len(minified.Body) >= len(html.Body) || !bytes.Contains(minified.Body, []byte("Kettle")) {
		t.Errorf("minified body = %d bytes, original %d", len(minified.Body), len(html.Body))
	}

	react, err := f.export.Export(r, product.FormatReact, true)
	if err != nil {
		t.Fatalf("Export(react) error = %v", err)
	}
	if react.Filename != "ProductLandingPage.jsx" || string(react.Body) != templates.GenerateComponentSource(r) {
		t.Errorf("react artifact = %s", react.Filename)
	}

	if _, err := f.export.Export(r, "pdf", false); !errors.Is(err, product.ErrInvalidFormat) {
		t.Errorf("Export(pdf) error = %v", err)
	}
}

func TestExportSessionSources(t *testing.T) {
	f := newFixture()
	snap := f.editor.Create(&product.Record{Name: "Previewed"})
	if _, err := f.editor.Apply(snap.ID, product.Command{Op: product.OpSetField, Field: "name", Value: "Drafted"}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		source ExportSource
		want   string
	}{
		{SourceDraft, "Drafted"},
		{SourcePreview, "Previewed"},
	}
	for _, tt := range tests {
		artifact, err := f.export.ExportSession(snap.ID, product.FormatHTML, ExportOptions{Source: tt.source})
		if err != nil {
			t.Fatalf("ExportSession(%s) error = %v", tt.source, err)
		}
		if !bytes.Contains(artifact.Body, []byte("<h1>"+tt.want+"</h1>")) {
			t.Errorf("ExportSession(%s) did not export %q", tt.source, tt.want)
		}
	}

	if _, err := ParseExportSource("archive"); !errors.Is(err, ErrInvalidSource) {
		t.Errorf("ParseExportSource(archive) error = %v", err)
	}
	if src, _ := ParseExportSource(""); src != SourceDraft {
		t.Errorf("empty source = %q", src)
	}
}

func testPNG(t *testing.T, shade uint8) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = shade
	}
	img.SetGray(0, 0, color.Gray{Y: 255 - shade})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestImageIntake(t *testing.T) {
	f := newFixture()
	snap := f.editor.Create(nil)

	uploads := []Upload{
		{Filename: "a.png", Data: testPNG(t, 10)},
		{Filename: "notes.txt", Data: []byte("just some text")},
		{Filename: "b.png", Data: testPNG(t, 200)},
	}
	result, err := f.intake.Ingest(context.Background(), snap.ID, uploads)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if result.Accepted != 2 {
		t.Errorf("Accepted = %d, want 2", result.Accepted)
	}
	if len(result.Rejected) != 1 || result.Rejected[0].Filename != "notes.txt" || result.Rejected[0].Reason != "Only image files are allowed" {
		t.Errorf("Rejected = %+v", result.Rejected)
	}

	draft, _ := f.editor.Draft(snap.ID)
	if len(draft.Images) != 2 {
		t.Fatalf("len(Images) = %d, want 2", len(draft.Images))
	}
	for _, img := range draft.Images {
		if !strings.HasPrefix(img, "data:image/png;base64,") {
			t.Errorf("image = %.30s, want png data url", img)
		}
	}

	// Rejection-only batch leaves the list as it was.
	result, err = f.intake.Ingest(context.Background(), snap.ID, []Upload{{Filename: "x.txt", Data: []byte("x")}})
	if err != nil {
		t.Fatal(err)
	}
	if result.Accepted != 0 || len(result.Record.Images) != 2 {
		t.Errorf("rejected upload changed the image list: %+v", result.Record.Images)
	}

	if _, err := f.intake.Ingest(context.Background(), "missing", uploads); !errors.Is(err, stores.ErrSessionNotFound) {
		t.Errorf("Ingest(missing) error = %v", err)
	}
}
