//go:build js && wasm

// Package main is the WebAssembly build of the board page client. Build it
// with GOOS=js GOARCH=wasm and serve it from LIFTBOARD_WASM_DIR next to
// wasm_exec.js.
package main

import (
	"sync"
	"syscall/js"

	"github.com/louisbranch/liftboard/internal/client/dom"
)

func main() {
	release := dom.Bind()

	done := make(chan struct{})
	var once sync.Once
	onHide := js.FuncOf(func(js.Value, []js.Value) any {
		once.Do(func() { close(done) })
		return nil
	})
	js.Global().Call("addEventListener", "pagehide", onHide)

	<-done
	js.Global().Call("removeEventListener", "pagehide", onHide)
	onHide.Release()
	release()
}
