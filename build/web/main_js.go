//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/gosuda/agscript/build/mobile"
)

var session = mobile.NewSession(false)

func argString(args []js.Value, i int) string {
	if len(args) <= i || args[i].IsUndefined() || args[i].IsNull() {
		return ""
	}
	return args[i].String()
}

func argBool(args []js.Value, i int) bool {
	return len(args) > i && args[i].Type() == js.TypeBoolean && args[i].Bool()
}

func failure(msg string) string {
	b, _ := json.Marshal(map[string]string{"error": msg})
	return string(b)
}

// agscriptRun(source, clicksJSON, lenient) runs a script headlessly.
func run(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return failure("agscriptRun requires the script source")
	}
	return mobile.Run(argString(args, 0), argString(args, 1), argBool(args, 2))
}

// agscriptStart(source, lenient) starts the page session.
func start(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return failure("agscriptStart requires the script source")
	}
	session = mobile.NewSession(argBool(args, 1))
	return session.Start(argString(args, 0))
}

func click(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return failure("agscriptClick requires a button name")
	}
	return session.Click(argString(args, 0))
}

func eval(this js.Value, args []js.Value) any {
	return session.Eval(argString(args, 0))
}

func main() {
	js.Global().Set("agscriptRun", js.FuncOf(run))
	js.Global().Set("agscriptStart", js.FuncOf(start))
	js.Global().Set("agscriptClick", js.FuncOf(click))
	js.Global().Set("agscriptEval", js.FuncOf(eval))
	select {}
}
