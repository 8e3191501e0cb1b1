// Package main provides a C-callable static library for Yul optimisation.
//
// This is built with -buildmode=c-archive to produce libyulopt.a
// that can be linked into C/Zig/Rust programs.
//
// Build:
//
//	CGO_ENABLED=1 go build -buildmode=c-archive -o build/libyulopt.a ./cmd/yulopt-lib
//
// Exported functions:
//
//	yulopt_optimize(source, source_len, options_json, options_len, out_code, out_code_len, out_json, out_json_len) -> error_code
//	yulopt_free(ptr) -> void
//	yulopt_version() -> *char
package main

/*
#include <stdlib.h>
*/
import "C"
import (
	"encoding/json"
	"unsafe"

	"codeberg.org/saruga/yulopt/pkg/api"
)

// Version should match the release version
const version = "0.1.0"

// Error codes
const (
	YULOPT_OK              = 0
	YULOPT_ERR_JSON_ENCODE = 1
	YULOPT_ERR_NULL_INPUT  = 2
	YULOPT_ERR_JSON_DECODE = 3
)

// yulopt_optimize optimises Yul source code.
//
// Parameters:
//   - source: pointer to Yul source code (UTF-8)
//   - source_len: length of source in bytes
//   - options_json: pointer to JSON options (can be NULL for defaults)
//   - options_len: length of options JSON
//   - out_code: pointer to receive optimised code (caller must free with yulopt_free)
//   - out_code_len: pointer to receive code length
//   - out_json: pointer to receive JSON result with errors and stats (can be NULL; caller must free with yulopt_free)
//   - out_json_len: pointer to receive JSON length
//
// Returns:
//   - 0 on success, including when the result carries optimisation errors
//   - non-zero error code on failure
//
//export yulopt_optimize
func yulopt_optimize(
	source *C.char, source_len C.int,
	options_json *C.char, options_len C.int,
	out_code **C.char, out_code_len *C.int,
	out_json **C.char, out_json_len *C.int,
) C.int {
	if source == nil || out_code == nil || out_code_len == nil {
		return YULOPT_ERR_NULL_INPUT
	}

	goSource := C.GoStringN(source, source_len)

	var opts api.Options
	if options_json != nil && options_len > 0 {
		optStr := C.GoStringN(options_json, options_len)
		if err := json.Unmarshal([]byte(optStr), &opts); err != nil {
			return YULOPT_ERR_JSON_DECODE
		}
	}

	result := api.OptimizeWithOptions(goSource, opts)

	*out_code = C.CString(result.Code)
	*out_code_len = C.int(len(result.Code))

	if out_json != nil && out_json_len != nil {
		jsonBytes, err := json.Marshal(result)
		if err != nil {
			return YULOPT_ERR_JSON_ENCODE
		}
		*out_json = C.CString(string(jsonBytes))
		*out_json_len = C.int(len(jsonBytes))
	}

	return YULOPT_OK
}

// yulopt_free frees memory allocated by yulopt functions.
//
//export yulopt_free
func yulopt_free(ptr *C.char) {
	if ptr != nil {
		C.free(unsafe.Pointer(ptr))
	}
}

// yulopt_version returns the library version string.
// The returned pointer is static and must not be freed.
//
//export yulopt_version
func yulopt_version() *C.char {
	return versionCString
}

var versionCString = C.CString(version)

// main is required for c-archive build mode but is not called.
func main() {}
