//go:build js && wasm

// Package dom binds the board client model to the browser document.
package dom

import (
	"strings"
	"syscall/js"

	"github.com/louisbranch/liftboard/internal/client/board"
)

// Bind installs the thumbnail, like and delete handlers on the current
// document. The returned release function frees the callbacks.
func Bind() (release func()) {
	document := js.Global().Get("document")
	var funcs []js.Func

	toggle := js.FuncOf(func(this js.Value, _ []js.Value) any {
		toggleThumbnail(this)
		return nil
	})
	funcs = append(funcs, toggle)
	forEach(document.Call("querySelectorAll", board.ThumbnailSelector), func(element js.Value) {
		element.Call("addEventListener", "click", toggle)
	})

	like := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			likeClicked(args[0])
		}
		return nil
	})
	funcs = append(funcs, like)
	js.Global().Set("like", like)

	remove := js.FuncOf(func(this js.Value, _ []js.Value) any {
		deleteClicked(document, this)
		return nil
	})
	funcs = append(funcs, remove)
	forEach(document.Call("querySelectorAll", "["+board.DeleteAttribute+"]"), func(element js.Value) {
		element.Call("addEventListener", "click", remove)
	})

	return func() {
		js.Global().Delete("like")
		for _, fn := range funcs {
			fn.Release()
		}
	}
}

func toggleThumbnail(element js.Value) {
	classList := element.Get("classList")
	var classes []string
	for i := 0; i < classList.Length(); i++ {
		classes = append(classes, classList.Index(i).String())
	}
	element.Set("className", strings.Join(board.ToggleThumbnail(classes), " "))
}

func likeClicked(button js.Value) {
	container := button.Get("parentElement")
	if container.IsNull() {
		return
	}
	counter := container.Call("querySelector", "#"+board.LikeCounterID)
	likeButton := container.Call("querySelector", "#"+board.LikeButtonID)
	if counter.IsNull() || likeButton.IsNull() {
		return
	}

	state := board.LikeState{
		PostID:   container.Get("id").String(),
		Count:    board.ParseCount(counter.Call("getAttribute", board.CountAttribute).String()),
		Liked:    likeButton.Get("classList").Call("contains", board.LikedClass).Bool(),
		SignedIn: js.Global().Get(board.SignedInGlobal).Truthy(),
	}
	_, view, request := board.Toggle(state, labelsOf(container))
	likeButton.Set("innerText", view.ButtonText)
	if request == nil {
		return
	}
	send(*request)
	if view.Liked {
		likeButton.Get("classList").Call("add", board.LikedClass)
	} else {
		likeButton.Get("classList").Call("remove", board.LikedClass)
	}
	if view.CounterChanged {
		counter.Set("innerText", view.CounterText)
		counter.Call("setAttribute", board.CountAttribute, view.Count)
	}
}

func deleteClicked(document js.Value, control js.Value) {
	kind := control.Call("getAttribute", board.DeleteAttribute).String()
	id := control.Call("getAttribute", board.IDAttribute).String()
	request, ok := board.Delete(kind, id)
	if !ok {
		return
	}
	send(request)
	selector := "[" + board.CardAttribute + `="` + board.CardValue(kind, id) + `"]`
	forEach(document.Call("querySelectorAll", selector), func(card js.Value) {
		card.Call("remove")
	})
}

func labelsOf(container js.Value) board.Labels {
	attr := func(name string) string {
		value := container.Call("getAttribute", name)
		if value.IsNull() {
			return ""
		}
		return value.String()
	}
	return board.Labels{
		Like:       attr(board.LabelLikeAttribute),
		Unlike:     attr(board.LabelUnlikeAttribute),
		SignIn:     attr(board.LabelSignInAttribute),
		CountOne:   attr(board.LabelCountOneAttribute),
		CountOther: attr(board.LabelCountOtherAttribute),
	}
}

// send issues request without waiting for the response.
func send(request board.Request) {
	js.Global().Call("fetch", request.Path, map[string]any{"method": request.Method})
}

func forEach(list js.Value, fn func(js.Value)) {
	for i := 0; i < list.Length(); i++ {
		fn(list.Index(i))
	}
}
