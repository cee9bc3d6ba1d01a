package http

import (
	_ "embed"
	"net/http"
)

//go:embed assets/loader.js
var loaderScript []byte

func serveLoaderScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(loaderScript)
}
