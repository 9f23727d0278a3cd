package auth

import (
	"fmt"
	"net/http"
)

const successPage = `<!DOCTYPE html>
<html>
<head><title>Todoist Authorization Successful</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 4em;">
<h1>Authorization successful</h1>
<p>You can close this tab and return to your terminal.</p>
</body>
</html>`

const errorPage = `<!DOCTYPE html>
<html>
<head><title>Todoist Authorization Failed</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 4em;">
<h1>Authorization failed</h1>
<p>%s</p>
</body>
</html>`

func writeSuccessPage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, successPage)
}

func writeErrorPage(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusBadRequest)
	fmt.Fprintf(w, errorPage, msg)
}
