package render

import (
	"html/template"
	"io"
)

type pageData struct {
	Title            string
	Body             template.HTML
	ReloadIntervalMS int64
}

// The page polls /update right away and again every ReloadIntervalMS. A
// "yes" answer reloads the page, which starts the next poll.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta http-equiv="Content-Type" content="text/html; charset=utf-8"/>
<style>
body {
  box-sizing: border-box;
  min-width: 200px;
  max-width: 980px;
  margin: 0 auto;
  padding: 45px;
}
</style>
<link rel="stylesheet" href="/style.css">
<title>{{.Title}}</title>
</head>
<body>
<article class="markdown-body">
{{.Body}}
</article>
<script type="text/javascript">
function reload_check() {
  var xhr = new XMLHttpRequest();
  xhr.overrideMimeType("text/plain");
  xhr.onreadystatechange = function () {
    if (this.readyState === 4 && this.status === 200 && this.responseText === "yes") {
      location.reload();
    }
  };
  xhr.open("GET", "/update", true);
  xhr.send();
}
reload_check();
window.setInterval(reload_check, {{.ReloadIntervalMS}});
</script>
</body>
</html>
`))

func writePage(w io.Writer, data pageData) error {
	return pageTemplate.Execute(w, data)
}
