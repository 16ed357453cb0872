package routes

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/AtRiskMedia/landingkit/internal/application/container"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/landingkit/internal/presentation/http/handlers"
)

func newTestApp(t *testing.T) (*container.Container, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c := container.NewContainer(logging.NewDiscardLogger())
	return c, SetupRoutes(c)
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid JSON response %q: %v", w.Body.String(), err)
	}
}

func createSession(t *testing.T, r http.Handler, body string) string {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/v1/sessions", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create session status = %d: %s", w.Code, w.Body.String())
	}
	var snap stores.SessionSnapshot
	decode(t, w, &snap)
	return snap.ID
}

func TestHealthAndCatalog(t *testing.T) {
	_, r := newTestApp(t)

	w := do(t, r, http.MethodGet, "/api/v1/health", "")
	if w.Code != http.StatusOK || w.Header().Get("X-Request-ID") == "" {
		t.Errorf("health status = %d, request id = %q", w.Code, w.Header().Get("X-Request-ID"))
	}

	w = do(t, r, http.MethodGet, "/api/v1/catalog", "")
	var catalog struct {
		Layouts []struct {
			Value string `json:"value"`
		} `json:"layouts"`
		Viewports []struct {
			Name  string `json:"name"`
			Width string `json:"width"`
		} `json:"viewports"`
	}
	decode(t, w, &catalog)
	if len(catalog.Layouts) != 3 || len(catalog.Viewports) != 3 {
		t.Errorf("catalog = %+v", catalog)
	}
}

func TestSessionEditingFlow(t *testing.T) {
	_, r := newTestApp(t)
	id := createSession(t, r, `{"name":"Desk Lamp","layout":"split"}`)
	base := "/api/v1/sessions/" + id

	w := do(t, r, http.MethodPost, base+"/commands", `{"op":"set_field","field":"price","value":"$49"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("set_field status = %d: %s", w.Code, w.Body.String())
	}
	var draft struct {
		Name     string   `json:"name"`
		Price    string   `json:"price"`
		Features []string `json:"features"`
	}
	decode(t, w, &draft)
	if draft.Price != "$49" || draft.Name != "Desk Lamp" {
		t.Errorf("draft = %+v", draft)
	}

	tests := []struct {
		name string
		body string
		want int
	}{
		{"unknown op", `{"op":"explode"}`, http.StatusBadRequest},
		{"missing index", `{"op":"remove_feature"}`, http.StatusBadRequest},
		{"index out of range", `{"op":"remove_feature","index":7}`, http.StatusBadRequest},
		{"bad layout", `{"op":"set_layout","layout":"diagonal"}`, http.StatusBadRequest},
		{"malformed json", `{"op":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(t, r, http.MethodPost, base+"/commands", tt.body); w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
		})
	}

	w = do(t, r, http.MethodPut, base+"/record", `{"name":"Floor Lamp","features":["Tall"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("put record status = %d", w.Code)
	}
	w = do(t, r, http.MethodGet, base+"/record", "")
	decode(t, w, &draft)
	if draft.Name != "Floor Lamp" || len(draft.Features) != 1 || draft.Features[0] != "Tall" {
		t.Errorf("record after replace = %+v", draft)
	}

	if w := do(t, r, http.MethodDelete, base, ""); w.Code != http.StatusOK {
		t.Errorf("delete status = %d", w.Code)
	}
	if w := do(t, r, http.MethodGet, base, ""); w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d", w.Code)
	}
	if w := do(t, r, http.MethodPost, base+"/commands", `{"op":"add_feature"}`); w.Code != http.StatusNotFound {
		t.Errorf("command on deleted session status = %d", w.Code)
	}
}

func TestCreateSessionBodies(t *testing.T) {
	_, r := newTestApp(t)

	tests := []struct {
		name   string
		body   io.Reader
		length int64
		want   int
		draft  string
	}{
		{"no body", nil, 0, http.StatusCreated, ""},
		{"chunked empty body", io.NopCloser(strings.NewReader("")), -1, http.StatusCreated, ""},
		{"chunked record", io.NopCloser(strings.NewReader(`{"name":"Kettle"}`)), -1, http.StatusCreated, "Kettle"},
		{"chunked garbage", io.NopCloser(strings.NewReader(`{"name":`)), -1, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", tt.body)
			req.ContentLength = tt.length
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
			if tt.want != http.StatusCreated {
				return
			}
			var snap stores.SessionSnapshot
			decode(t, w, &snap)
			if snap.Draft.Name != tt.draft {
				t.Errorf("draft name = %q, want %q", snap.Draft.Name, tt.draft)
			}
		})
	}
}

func TestMalformedSessionID(t *testing.T) {
	_, r := newTestApp(t)
	for _, path := range []string{
		"/api/v1/sessions/not-a-ulid",
		"/api/v1/sessions/01ARZ3NDEK/record",
		"/api/v1/sessions/81ARZ3NDEKTSV4RRFFQ69G5FAV/preview",
	} {
		if w := do(t, r, http.MethodGet, path, ""); w.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, w.Code)
		}
	}
}

func TestPreviewAndExport(t *testing.T) {
	_, r := newTestApp(t)
	id := createSession(t, r, `{"name":"Kettle"}`)
	base := "/api/v1/sessions/" + id

	do(t, r, http.MethodPost, base+"/commands", `{"op":"set_field","field":"name","value":"Smart Kettle"}`)

	w := do(t, r, http.MethodGet, base+"/preview", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "<h1>Kettle</h1>") {
		t.Errorf("preview before update should show the initial record")
	}
	if w.Header().Get("X-Preview-Revision") != "1" {
		t.Errorf("revision header = %q", w.Header().Get("X-Preview-Revision"))
	}

	w = do(t, r, http.MethodPost, base+"/preview", "")
	var render struct {
		Revision uint64 `json:"revision"`
	}
	decode(t, w, &render)
	if render.Revision != 2 {
		t.Errorf("revision after update = %d", render.Revision)
	}
	w = do(t, r, http.MethodGet, base+"/preview", "")
	if !strings.Contains(w.Body.String(), "<h1>Smart Kettle</h1>") {
		t.Errorf("preview after update did not show the draft")
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("preview content type = %q", ct)
	}

	exports := []struct {
		query    string
		filename string
		contains string
	}{
		{"", "landing-page.html", "<!DOCTYPE html>"},
		{"?format=html&minify=true", "landing-page.html", "Smart Kettle"},
		{"?format=react", "ProductLandingPage.jsx", "const ProductLandingPage"},
	}
	for _, tt := range exports {
		w := do(t, r, http.MethodGet, base+"/export"+tt.query, "")
		if w.Code != http.StatusOK {
			t.Errorf("export%s status = %d", tt.query, w.Code)
			continue
		}
		if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, tt.filename) {
			t.Errorf("export%s disposition = %q", tt.query, cd)
		}
		if ct := w.Header().Get("Content-Type"); ct != "text/plain" {
			t.Errorf("export%s content type = %q", tt.query, ct)
		}
		if !strings.Contains(w.Body.String(), tt.contains) {
			t.Errorf("export%s body missing %q", tt.query, tt.contains)
		}
	}

	for _, q := range []string{"?format=pdf", "?source=archive", "?minify=maybe"} {
		if w := do(t, r, http.MethodGet, base+"/export"+q, ""); w.Code != http.StatusBadRequest {
			t.Errorf("export%s status = %d, want 400", q, w.Code)
		}
	}
	if w := do(t, r, http.MethodGet, "/api/v1/sessions/missing/export", ""); w.Code != http.StatusNotFound {
		t.Errorf("export of unknown session status = %d", w.Code)
	}
}

func TestStatelessRender(t *testing.T) {
	_, r := newTestApp(t)
	w := do(t, r, http.MethodPost, "/api/v1/render", `{"name":"Solo","layout":"centered","features":["One"]}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "<h1>Solo</h1>") {
		t.Errorf("render status = %d", w.Code)
	}
}

func multipartBody(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, data := range files {
		part, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatal(err)
		}
		part.Write(data)
	}
	mw.Close()
	return &body, mw.FormDataContentType()
}

func pngFile(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestImageUpload(t *testing.T) {
	c, r := newTestApp(t)
	id := createSession(t, r, "")

	body, contentType := multipartBody(t, map[string][]byte{
		"photo.png": pngFile(t),
		"notes.txt": []byte("not an image"),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/images", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("upload status = %d: %s", w.Code, w.Body.String())
	}

	var result struct {
		Accepted int `json:"accepted"`
		Rejected []struct {
			Filename string `json:"filename"`
			Reason   string `json:"reason"`
		} `json:"rejected"`
	}
	decode(t, w, &result)
	if result.Accepted != 1 || len(result.Rejected) != 1 || result.Rejected[0].Reason != "Only image files are allowed" {
		t.Errorf("result = %+v", result)
	}

	draft, err := c.EditorService.Draft(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(draft.Images) != 1 || !strings.HasPrefix(draft.Images[0], "data:image/png;base64,") {
		t.Errorf("images = %v", draft.Images)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/images", strings.NewReader("x"))
	req.Header.Set("Content-Type", "text/plain")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("non-multipart upload status = %d", w.Code)
	}
}

func TestImageUploadTooLarge(t *testing.T) {
	c, _ := newTestApp(t)
	id := c.EditorService.Create(nil).ID

	r := gin.New()
	h := handlers.NewImageHandlers(c.ImageIntakeService, 256, c.Logger, c.PerfTracker)
	r.POST("/sessions/:id/images", h.PostImages)

	body, contentType := multipartBody(t, map[string][]byte{"big.png": bytes.Repeat([]byte{0x89}, 4096)})
	req := httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/images", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413: %s", w.Code, w.Body.String())
	}
}

func TestSurfacePage(t *testing.T) {
	_, r := newTestApp(t)
	id := createSession(t, r, "")

	w := do(t, r, http.MethodGet, "/api/v1/sessions/"+id+"/surface?viewport=mobile", "")
	if w.Code != http.StatusOK {
		t.Fatalf("surface status = %d", w.Code)
	}
	page := w.Body.String()
	for _, want := range []string{"<iframe", "sandbox", "width: 375px", "new WebSocket"} {
		if !strings.Contains(page, want) {
			t.Errorf("surface page missing %q", want)
		}
	}

	if w := do(t, r, http.MethodGet, "/api/v1/sessions/missing/surface", ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown session surface status = %d", w.Code)
	}
}

func readRender(t *testing.T, conn *websocket.Conn) messaging.RenderMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var msg messaging.RenderMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return msg
}

func TestWebsocketSurface(t *testing.T) {
	_, r := newTestApp(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	id := createSession(t, r, `{"name":"Live"}`)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/sessions/" + id + "/ws?viewport=tablet"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	if msg := readRender(t, conn); msg.Revision != 1 || !strings.Contains(msg.Document, "<h1>Live</h1>") {
		t.Fatalf("initial render = revision %d", msg.Revision)
	}

	resp, err := http.Post(srv.URL+"/api/v1/sessions/"+id+"/preview", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if msg := readRender(t, conn); msg.Revision != 2 {
		t.Errorf("render after update = revision %d", msg.Revision)
	}

	if err := conn.WriteJSON(messaging.ClientMessage{Type: messaging.MessageRefresh}); err != nil {
		t.Fatal(err)
	}
	if msg := readRender(t, conn); msg.Revision != 3 {
		t.Errorf("render after refresh = revision %d", msg.Revision)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/sessions/"+id, nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, _, err = conn.ReadMessage()
	var closeErr *websocket.CloseError
	if !errors.As(err, &closeErr) || closeErr.Code != websocket.CloseNormalClosure {
		t.Errorf("after delete ReadMessage() error = %v, want normal close", err)
	}

	if _, resp, err := websocket.DefaultDialer.Dial(url, nil); err == nil || resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("dial to deleted session should fail with 404")
	}
}

func TestSSEEvents(t *testing.T) {
	_, r := newTestApp(t)
	srv := httptest.NewServer(r)
	defer srv.Close()
	id := createSession(t, r, `{"name":"Streamed"}`)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/sessions/"+id+"/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("content type = %q", ct)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	var event string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "event:") {
			event = strings.TrimPrefix(line, "event:")
		}
		if data, ok := strings.CutPrefix(line, "data:"); ok {
			var msg messaging.RenderMessage
			if err := json.Unmarshal([]byte(data), &msg); err != nil {
				t.Fatalf("invalid event data: %v", err)
			}
			if event != "render" || msg.Revision != 1 || !strings.Contains(msg.Document, "Streamed") {
				t.Errorf("event %q revision %d", event, msg.Revision)
			}
			return
		}
	}
	t.Fatalf("no event received: %v", scanner.Err())
}

func TestLogLevels(t *testing.T) {
	_, r := newTestApp(t)

	if w := do(t, r, http.MethodPost, "/api/v1/logs/levels", `{"channel":"preview","level":"DEBUG"}`); w.Code != http.StatusOK {
		t.Fatalf("set level status = %d: %s", w.Code, w.Body.String())
	}
	var levels map[string]string
	decode(t, do(t, r, http.MethodGet, "/api/v1/logs/levels", ""), &levels)
	if levels["preview"] != "DEBUG" {
		t.Errorf("preview level = %q", levels["preview"])
	}

	for _, body := range []string{`{"channel":"nope","level":"DEBUG"}`, `{"channel":"preview","level":"LOUD"}`} {
		if w := do(t, r, http.MethodPost, "/api/v1/logs/levels", body); w.Code != http.StatusBadRequest {
			t.Errorf("SetLogLevel(%s) status = %d", body, w.Code)
		}
	}
}
