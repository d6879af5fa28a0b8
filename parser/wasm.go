//go:build js && wasm

// This file is the out-of-scope browser/emulator transport surface
// (spec.md §1 Non-goals: "UI/transport/emulator bridge is an external
// collaborator's job"). It exposes the core engine to JavaScript but
// is never compiled, loaded, or exercised by anything else in this
// module — there is no build step here producing a .wasm artifact for
// it to be hosted from.
package main

import (
	"encoding/json"
	"syscall/js"

	"pokemonsave/parser/core"
)

// parseBytes parses a save image handed in as a JS Uint8Array and
// resolves a promise with the parsed save as JSON.
func parseBytes(this js.Value, args []js.Value) interface{} {
	callArgs := args
	handler := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		resolve := args[0]
		reject := args[1]

		go func() {
			defer func() {
				if r := recover(); r != nil {
					reject.Invoke(js.ValueOf(errJSON("panic occurred during parsing", r)))
				}
			}()

			if len(callArgs) < 1 || callArgs[0].Type() != js.TypeObject {
				reject.Invoke(js.ValueOf(errJSON("missing or invalid save data argument", nil)))
				return
			}

			jsArray := callArgs[0]
			length := jsArray.Get("length").Int()
			saveData := make([]byte, length)
			js.CopyBytesToGo(saveData, jsArray)

			container, err := core.Open(saveData, nil)
			if err != nil {
				reject.Invoke(js.ValueOf(errJSON("failed to open save data", err)))
				return
			}

			parsed, err := container.Parse()
			if err != nil {
				reject.Invoke(js.ValueOf(errJSON("failed to parse save file", err)))
				return
			}

			resultBytes, err := json.Marshal(parsed.Data)
			if err != nil {
				reject.Invoke(js.ValueOf(errJSON("failed to serialize result", err)))
				return
			}
			resolve.Invoke(js.ValueOf(string(resultBytes)))
		}()

		return nil
	})

	return js.Global().Get("Promise").New(handler)
}

func errJSON(msg string, details interface{}) string {
	b, _ := json.Marshal(map[string]interface{}{"error": msg, "details": details})
	return string(b)
}

// encodeText converts a string to Gen-III character encoding.
func encodeText(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("")
	}
	text := args[0].String()
	width := 10
	if len(args) >= 2 {
		width = args[1].Int()
	}
	encoded := core.EncodePokemonText(text, width)
	jsArray := js.Global().Get("Uint8Array").New(len(encoded))
	js.CopyBytesToJS(jsArray, encoded)
	return jsArray
}

// decodeText converts Gen-III character encoding to a string.
func decodeText(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		return js.ValueOf("")
	}
	jsArray := args[0]
	length := jsArray.Get("length").Int()
	data := make([]byte, length)
	js.CopyBytesToGo(data, jsArray)
	return js.ValueOf(core.DecodePokemonText(data))
}

func getVersion(this js.Value, args []js.Value) interface{} {
	return js.ValueOf("1.0.0-go")
}

func main() {
	c := make(chan struct{})

	js.Global().Set("parseBytes", js.FuncOf(parseBytes))
	js.Global().Set("encodeText", js.FuncOf(encodeText))
	js.Global().Set("decodeText", js.FuncOf(decodeText))
	js.Global().Set("getVersion", js.FuncOf(getVersion))

	js.Global().Call("postMessage", map[string]interface{}{
		"type":    "wasm-ready",
		"version": "1.0.0-go",
	})

	<-c
}
