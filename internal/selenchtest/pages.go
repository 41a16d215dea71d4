package selenchtest

import (
	"fmt"
	"net/http"
)

var homePage = `
<html>
<head>
	<title>Selench Test Suite</title>
</head>
<body>
	The home page. <br />
	<form action="/search">
		<input name="q" autofocus />
		<input name="submit" type="submit" id="submit" /> <br />
		<input id="chuk" type="checkbox" /> A checkbox.
		<select name="s">
			<option value="first_value">First Value</option>
			<option id="secondValue" value="second_value">Second Value</option>
		</select>
	</form>
	Link to the <a href="/other">other page</a>.
	A page with a <a href="/frame">frame</a>.
	A page with a <a href="/late">late element</a>.
</body>
</html>
`

var otherPage = `
<html>
<head>
	<title>Selench Test Suite - Other Page</title>
</head>
<body>
	The other page.
</body>
</html>
`

var searchPage = `
<html>
<head>
	<title>%s - Selench Search</title>
</head>
<body>
	<p id="result">You searched for "%s". Select value is: %s</p>
</body>
</html>
`

var framePage = `
<html>
<head>
	<title>Selench Test Suite - Frame Page</title>
</head>
<body>
	This page contains a frame.

	<iframe id="iframe" name="iframeName" src="/"></iframe>
	<div id="outside">Outside of the frame.</div>
</body>
</html>
`

var titleChangePage = `
<html>
<head>
	<title>Selench Test Suite - Title Change Page</title>
</head>
<body>
	This page will change its title after 1 second.

	<script>
		setTimeout(function() { document.title = 'Title changed.' }, 1000);
	</script>
</body>
</html>
`

var alertPage = `
<html>
<head>
	<title>Selench Test Suite - Alert Page</title>
</head>
<body>
	An alert will popup.

	<script>
		alert('Hello world');
	</script>
</body>
</html>
`

var latePage = `
<html>
<head>
	<title>Selench Test Suite - Late Element Page</title>
</head>
<body>
	A div will be added after 500ms.

	<script>
		setTimeout(function() {
			var div = document.createElement('div');
			div.id = 'late';
			div.textContent = 'I am late';
			document.body.appendChild(div);
		}, 500);
	</script>
</body>
</html>
`

var longPage = `
<html>
<head>
	<title>Selench Test Suite - Long Page</title>
</head>
<body>
	<div style="height: 5000px">A very tall div.</div>
	<div id="bottom">The bottom of the page.</div>
</body>
</html>
`

// Handler serves the pages the facade tests navigate.
var Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	page, ok := map[string]string{
		"/":       homePage,
		"/other":  otherPage,
		"/search": searchPage,
		"/frame":  framePage,
		"/title":  titleChangePage,
		"/alert":  alertPage,
		"/late":   latePage,
		"/long":   longPage,
	}[path]
	if !ok {
		http.NotFound(w, r)
		return
	}

	if path == "/search" {
		r.ParseForm()
		q, s := "", ""
		if v := r.Form["q"]; len(v) > 0 {
			q = v[0]
		}
		if v := r.Form["s"]; len(v) > 0 {
			s = v[0]
		}
		page = fmt.Sprintf(page, q, q, s)
	}
	// Some cookies for the tests.
	for i := 0; i < 3; i++ {
		http.SetCookie(w, &http.Cookie{
			Name:  fmt.Sprintf("cookie-%d", i),
			Value: fmt.Sprintf("value-%d", i),
		})
	}
	fmt.Fprint(w, page)
})
