//go:build js && wasm

// Command yulopt-wasm is the WebAssembly build of the Yul optimiser.
// It exposes the optimiser to JavaScript via syscall/js.
package main

import (
	"encoding/json"
	"syscall/js"

	"codeberg.org/saruga/yulopt/pkg/api"
)

var version = "0.1.0"

func main() {
	js.Global().Set("__yulopt", js.ValueOf(map[string]interface{}{
		"optimize": js.FuncOf(optimizeJS),
		"steps":    js.FuncOf(stepsJS),
		"version":  version,
	}))

	// Keep the Go runtime alive
	select {}
}

// optimizeJS is the JavaScript-callable optimise function.
// Signature: __yulopt.optimize(source: string, options?: object) => object
func optimizeJS(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("optimize requires at least 1 argument (source)")
	}

	source := args[0].String()

	var opts api.Options
	if len(args) > 1 && !args[1].IsUndefined() && !args[1].IsNull() {
		jsonStr := js.Global().Get("JSON").Call("stringify", args[1]).String()
		if err := json.Unmarshal([]byte(jsonStr), &opts); err != nil {
			return makeError("invalid options: " + err.Error())
		}
	}

	return toJS(api.OptimizeWithOptions(source, opts))
}

// stepsJS returns the names of the available optimiser steps.
// Signature: __yulopt.steps() => string[]
func stepsJS(this js.Value, args []js.Value) interface{} {
	names := api.StepNames()
	out := make([]interface{}, len(names))
	for i, name := range names {
		out[i] = name
	}
	return out
}

// toJS converts a result into a plain JS object through its JSON form.
func toJS(result api.Result) interface{} {
	data, err := json.Marshal(result)
	if err != nil {
		return makeError(err.Error())
	}
	obj := js.Global().Get("JSON").Call("parse", string(data))
	if obj.Get("errors").IsUndefined() {
		obj.Set("errors", js.ValueOf([]interface{}{}))
	}
	return obj
}

// makeError creates a result object with an error.
func makeError(msg string) interface{} {
	return map[string]interface{}{
		"code": "",
		"errors": []interface{}{
			map[string]interface{}{
				"code":    "",
				"message": msg,
				"line":    0,
				"column":  0,
			},
		},
		"originalSize":  0,
		"optimizedSize": 0,
	}
}
