package handlers

import "html/template"

type surfacePage struct {
	SessionID  string
	Viewport   string
	Width      string
	SocketPath string
	Viewports  []string
}

var surfaceTemplate = template.Must(template.New("surface").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Preview {{.SessionID}}</title>
  <style>
    body { margin: 0; font-family: system-ui, sans-serif; background: #f5f5f7; }
    .toolbar { display: flex; gap: 0.5rem; align-items: center; padding: 0.5rem 1rem; background: #fff; border-bottom: 1px solid #ddd; }
    .toolbar a { color: #333; text-decoration: none; padding: 0.25rem 0.5rem; border-radius: 4px; }
    .toolbar a.active { background: #333; color: #fff; }
    .status { margin-left: auto; color: #666; font-size: 0.85rem; }
    .stage { display: flex; justify-content: center; padding: 1rem; }
    iframe { border: 1px solid #ddd; background: #fff; height: calc(100vh - 6rem); }
  </style>
</head>
<body>
  <div class="toolbar">
    {{range .Viewports}}<a href="?viewport={{.}}"{{if eq . $.Viewport}} class="active"{{end}}>{{.}}</a>
    {{end}}<button id="refresh" type="button">Refresh</button>
    <span class="status" id="status">connecting</span>
  </div>
  <div class="stage">
    <iframe id="surface" title="Landing page preview" sandbox style="width: {{.Width}}"></iframe>
  </div>
  <script>
    (function () {
      var socketPath = {{.SocketPath}};
      var frame = document.getElementById('surface');
      var status = document.getElementById('status');
      var scheme = location.protocol === 'https:' ? 'wss://' : 'ws://';
      var ws = new WebSocket(scheme + location.host + socketPath);
      ws.onopen = function () { status.textContent = 'connected'; };
      ws.onmessage = function (event) {
        var msg = JSON.parse(event.data);
        if (msg.type !== 'render') { return; }
        frame.srcdoc = msg.document;
        status.textContent = 'revision ' + msg.revision;
      };
      ws.onclose = function () { status.textContent = 'disconnected'; };
      document.getElementById('refresh').onclick = function () {
        if (ws.readyState === WebSocket.OPEN) { ws.send(JSON.stringify({ type: 'refresh' })); }
      };
    })();
  </script>
</body>
</html>
`))
