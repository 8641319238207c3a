package server

import "html/template"

var indexTmpl = template.Must(template.New("index").Parse(indexPage))

const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>GEO Optimizer</title>
<style>
  body { font-family: system-ui, -apple-system, sans-serif; max-width: 720px; margin: 0 auto; padding: 32px; background: #0f172a; color: #e2e8f0; }
  form { display: flex; gap: 8px; }
  input { flex: 1; padding: 10px; border-radius: 6px; border: 1px solid #334155; background: #1e293b; color: inherit; }
  button { padding: 10px 18px; border-radius: 6px; border: 0; background: #38bdf8; color: #0f172a; font-weight: 700; cursor: pointer; }
  #log { margin-top: 24px; font-family: ui-monospace, monospace; white-space: pre-wrap; color: #94a3b8; }
  footer { margin-top: 32px; color: #64748b; font-size: 13px; }
  a { color: #38bdf8; }
</style>
</head>
<body>
<h1>GEO Optimizer</h1>
<p>Check how visible a website is to AI search engines.</p>
<form id="audit">
  <input id="url" name="url" placeholder="https://example.com" required>
  <button type="submit">Audit</button>
</form>
<div id="log"></div>
<footer>v{{.Version}} · <a href="/swagger/index.html">API</a> · <a href="/metrics">metrics</a></footer>
<script>
document.getElementById("audit").addEventListener("submit", function (e) {
  e.preventDefault();
  var log = document.getElementById("log");
  var target = document.getElementById("url").value;
  log.textContent = "";
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws/audit?url=" + encodeURIComponent(target));
  ws.onmessage = function (msg) {
    var ev = JSON.parse(msg.data);
    if (ev.type === "progress") {
      log.textContent += "[" + ev.percent + "%] " + ev.message + "\n";
    } else if (ev.type === "result" && ev.result) {
      location.href = "/report/" + ev.result.id;
    } else if (ev.error) {
      log.textContent += "error: " + ev.error + "\n";
    }
  };
});
</script>
</body>
</html>
`
