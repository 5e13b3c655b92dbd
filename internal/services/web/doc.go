// Package web serves the lift board over HTTP: server-rendered pages, the
// mutation endpoints the browser script calls, and the static assets.
//
// Routes come from feature modules under modules/, composed by app.Compose
// behind request id, request logging and panic recovery middleware.
package web
