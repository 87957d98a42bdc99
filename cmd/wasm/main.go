//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/inamate/sketchcore/internal/document"
	"github.com/inamate/sketchcore/internal/editor"
	"github.com/inamate/sketchcore/internal/tool"
)

var ed *editor.Editor

func main() {
	ed = editor.New(tool.DefaultOptions(), 100, nil)

	// Create the editor API object
	sketchEditor := js.Global().Get("Object").New()

	// --- Pointer events (model coordinates) ---
	sketchEditor.Set("pointerDown", js.FuncOf(pointerDown))
	sketchEditor.Set("pointerUp", js.FuncOf(pointerUp))
	sketchEditor.Set("pointerMove", js.FuncOf(pointerMove))
	sketchEditor.Set("wheel", js.FuncOf(wheel))

	// --- Commands (frontend → editor) ---
	sketchEditor.Set("setTool", js.FuncOf(setTool))
	sketchEditor.Set("cancel", js.FuncOf(cancel))
	sketchEditor.Set("undo", js.FuncOf(undo))
	sketchEditor.Set("redo", js.FuncOf(redo))
	sketchEditor.Set("selectAll", js.FuncOf(selectAll))
	sketchEditor.Set("deleteSelected", js.FuncOf(deleteSelected))
	sketchEditor.Set("groupSelected", js.FuncOf(groupSelected))
	sketchEditor.Set("ungroupSelected", js.FuncOf(ungroupSelected))
	sketchEditor.Set("bringToFront", js.FuncOf(bringToFront))
	sketchEditor.Set("bringForward", js.FuncOf(bringForward))
	sketchEditor.Set("sendBackward", js.FuncOf(sendBackward))
	sketchEditor.Set("sendToBack", js.FuncOf(sendToBack))
	sketchEditor.Set("setSelectionState", js.FuncOf(setSelectionState))
	sketchEditor.Set("addConnector", js.FuncOf(addConnector))
	sketchEditor.Set("addLayer", js.FuncOf(addLayer))
	sketchEditor.Set("setCurrentLayer", js.FuncOf(setCurrentLayer))
	sketchEditor.Set("loadSample", js.FuncOf(loadSample))
	sketchEditor.Set("onInvalidate", js.FuncOf(onInvalidate))

	// --- Queries (frontend ← editor) ---
	sketchEditor.Set("render", js.FuncOf(render))
	sketchEditor.Set("getState", js.FuncOf(getState))
	sketchEditor.Set("hitTest", js.FuncOf(hitTest))

	// Register on global scope
	js.Global().Set("sketchEditor", sketchEditor)

	// Signal that WASM is ready
	js.Global().Set("sketchWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func result(err error) interface{} {
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func missing(what string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": "missing " + what})
}

// --- Pointer Handlers ---

// pointer reads (x, y, button) where button follows MouseEvent.button:
// 0 left, 1 middle, 2 right.
func pointer(args []js.Value) (float64, float64, editor.Button, bool) {
	if len(args) < 2 {
		return 0, 0, editor.ButtonLeft, false
	}
	button := editor.ButtonLeft
	if len(args) > 2 {
		button = editor.Button(args[2].Int())
	}
	return args[0].Float(), args[1].Float(), button, true
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	x, y, button, ok := pointer(args)
	if !ok {
		return missing("coordinates")
	}
	return result(ed.PointerDown(x, y, button))
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	x, y, button, ok := pointer(args)
	if !ok {
		return missing("coordinates")
	}
	return result(ed.PointerUp(x, y, button))
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	x, y, _, ok := pointer(args)
	if !ok {
		return missing("coordinates")
	}
	return result(ed.PointerMove(x, y))
}

func wheel(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return missing("coordinates and delta")
	}
	return result(ed.Wheel(args[0].Float(), args[1].Float(), args[2].Float()))
}

// --- Command Handlers ---

func setTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("tool")
	}
	return result(ed.SetTool(tool.Kind(args[0].String())))
}

func cancel(this js.Value, args []js.Value) interface{} {
	return result(ed.Cancel())
}

func undo(this js.Value, args []js.Value) interface{} {
	return result(ed.Undo())
}

func redo(this js.Value, args []js.Value) interface{} {
	return result(ed.Redo())
}

func selectAll(this js.Value, args []js.Value) interface{} {
	ed.SelectAll()
	return nil
}

func deleteSelected(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.DeleteSelected())
}

func groupSelected(this js.Value, args []js.Value) interface{} {
	_, err := ed.GroupSelected()
	return result(err)
}

func ungroupSelected(this js.Value, args []js.Value) interface{} {
	return result(ed.UngroupSelected())
}

// counted returns n to JS, or an error object.
func counted(n int, err error) interface{} {
	if err != nil {
		return result(err)
	}
	return js.ValueOf(n)
}

func bringToFront(this js.Value, args []js.Value) interface{} {
	return counted(ed.BringToFront())
}

func bringForward(this js.Value, args []js.Value) interface{} {
	return counted(ed.BringForward())
}

func sendBackward(this js.Value, args []js.Value) interface{} {
	return counted(ed.SendBackward())
}

func sendToBack(this js.Value, args []js.Value) interface{} {
	return counted(ed.SendToBack())
}

// setSelectionState(flag, on) where flag is "Visible" or "Locked".
func setSelectionState(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return missing("flag and value")
	}
	flag, err := document.ParseState(args[0].String())
	if err != nil {
		return result(err)
	}
	return counted(ed.SetSelectionState(flag, args[1].Bool()))
}

func addConnector(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return missing("group id and coordinates")
	}
	p, err := ed.AddConnector(args[0].String(), args[1].Float(), args[2].Float())
	if err != nil {
		return result(err)
	}
	return js.ValueOf(p.ID)
}

func addLayer(this js.Value, args []js.Value) interface{} {
	name := "Layer"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		name = args[0].String()
	}
	return js.ValueOf(ed.AddLayer(name).ID)
}

func setCurrentLayer(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("layer id")
	}
	return result(ed.SetCurrentLayer(args[0].String()))
}

func loadSample(this js.Value, args []js.Value) interface{} {
	ed.LoadSample()
	return nil
}

// onInvalidate registers a JS callback that receives region names such as
// "Working|Helper" whenever part of the drawing needs a repaint.
func onInvalidate(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		return missing("callback")
	}
	fn := args[0]
	ed.OnInvalidate(func(r editor.Region) {
		fn.Invoke(r.String())
	})
	return nil
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.RenderJSON())
}

func getState(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.SnapshotJSON())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	hit := ed.HitTest(args[0].Float(), args[1].Float())
	if hit == nil {
		return js.ValueOf("")
	}
	return js.ValueOf(hit.Base().ID)
}
