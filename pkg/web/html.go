package web

// indexHTML is the self-contained viewer page. Inlining it keeps the
// binary deployable without a static directory beside it.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>scribecam</title>
<style>
  body { background: #000; color: #eee; font-family: monospace; margin: 0; }
  header { padding: 12px 16px; border-bottom: 1px solid #222; display: flex; justify-content: space-between; }
  header .total { color: #888; }
  main { display: flex; gap: 16px; padding: 16px; }
  #cam { max-width: 480px; border: 1px solid #222; background: #111; min-height: 240px; }
  #captions { list-style: none; margin: 0; padding: 0; flex: 1; }
  #captions li { padding: 6px 8px; border-bottom: 1px solid #161616; }
  #captions li:first-child { color: #0f0; }
  #captions .seq { color: #555; margin-right: 8px; }
</style>
</head>
<body>
<header>
  <span>scribecam</span>
  <span class="total">Total Captions: <span id="total">0</span></span>
</header>
<main>
  <img id="cam" alt="live camera">
  <ul id="captions"></ul>
</main>
<script>
  const proto = location.protocol === "https:" ? "wss:" : "ws:";
  const total = document.getElementById("total");
  const list = document.getElementById("captions");
  const cam = document.getElementById("cam");

  const caps = new WebSocket(proto + "//" + location.host + "/ws/captions");
  caps.onmessage = (e) => {
    const ev = JSON.parse(e.data);
    const li = document.createElement("li");
    li.innerHTML = '<span class="seq">#' + ev.seq + '</span>' + (ev.raw || ev.text);
    list.prepend(li);
    while (list.children.length > 100) list.removeChild(list.lastChild);
    total.textContent = ev.seq;
  };

  const frames = new WebSocket(proto + "//" + location.host + "/ws/camera");
  frames.binaryType = "blob";
  let lastURL = null;
  frames.onmessage = (e) => {
    const url = URL.createObjectURL(e.data);
    cam.src = url;
    if (lastURL) URL.revokeObjectURL(lastURL);
    lastURL = url;
  };
</script>
</body>
</html>
`
