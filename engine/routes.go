package engine

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Home serves the upload page. It stands in for the desktop window: a
// file picker, the fixed size dropdown and a progress/status line fed
// by polling the jobs API.
// GET /
func (serverHandler *ServerHandler) Home(c echo.Context) error {
	return c.HTML(http.StatusOK, homePage)
}

const homePage = `<!DOCTYPE html>
<html>
<head>
<title>PNG to JPG Converter</title>
<style>
body { font-family: sans-serif; max-width: 640px; margin: 40px auto; padding: 0 20px; }
h1 { color: #333; }
label { display: block; margin-top: 16px; font-weight: bold; }
button { margin-top: 20px; padding: 10px 24px; font-size: 16px; background: #33cc33; border: none; cursor: pointer; }
#status { margin-top: 20px; color: #555; }
</style>
</head>
<body>
<h1>PNG to JPG Converter</h1>
<form id="form">
  <label>PNG files</label>
  <input type="file" name="files" accept=".png" multiple required>
  <label>Target size</label>
  <select name="size">
    <option value="original">Original</option>
    <option value="800x600">800x600</option>
    <option value="1024x768">1024x768</option>
    <option value="1920x1080">1920x1080</option>
  </select>
  <button type="submit">Convert</button>
</form>
<div id="status">Ready</div>
<script>
const form = document.getElementById('form');
const status = document.getElementById('status');
form.addEventListener('submit', async (e) => {
  e.preventDefault();
  status.textContent = 'Uploading...';
  const resp = await fetch('/api/convert', { method: 'POST', body: new FormData(form) });
  const body = await resp.json();
  if (!resp.ok) { status.textContent = body.error; return; }
  const poll = setInterval(async () => {
    const job = await (await fetch('/api/jobs/' + body.jobID)).json();
    status.textContent = job.currentStep || job.message;
    if (job.status === 'completed' || job.status === 'failed') {
      clearInterval(poll);
      status.textContent = job.message;
      if (job.results) {
        for (const r of job.results.filter(r => r.status === 'failed')) {
          status.textContent += '\n' + r.sourceFile + ': ' + r.error;
        }
      }
    }
  }, 500);
});
</script>
</body>
</html>
`
