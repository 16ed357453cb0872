package server

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/landingkit/internal/application/container"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/observability/logging"
)

func startServer(t *testing.T) (*Server, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logging.NewDiscardLogger()
	s := New("0", container.NewContainer(logger), logger)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	go s.httpServer.Serve(ln)
	t.Cleanup(func() { s.httpServer.Close() })
	return s, "http://" + ln.Addr().String()
}

func TestStopEndsOpenEventStreams(t *testing.T) {
	s, base := startServer(t)

	resp, err := http.Post(base+"/api/v1/sessions", "application/json", strings.NewReader(`{"name":"Shutdown"}`))
	if err != nil {
		t.Fatal(err)
	}
	var snap stores.SessionSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("invalid session response: %v", err)
	}
	resp.Body.Close()

	stream, err := http.Get(base + "/api/v1/sessions/" + snap.ID + "/events")
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Body.Close()

	reader := bufio.NewReader(stream.Body)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("stream ended before the first event: %v", err)
		}
		if strings.HasPrefix(line, "event:render") {
			break
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	start := time.Now()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v after %v", err, time.Since(start))
	}

	done := make(chan error, 1)
	go func() {
		_, err := io.Copy(io.Discard, reader)
		done <- err
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("event stream still open after Stop")
	}
}
