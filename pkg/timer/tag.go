package timer

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// Reports must always be a single line.
var tagEscaper = strings.NewReplacer("\r", `\r`, "\n", `\n`)

// Converts a tag into the text shown in a report. Strings are used as is,
// functions are shown by their name (so that an identifier can be used as a
// tag), and everything else goes through fmt. A nil tag renders as "".
func renderTag(tag any) string {
	if tag == nil {
		return ""
	}

	var rendered string
	switch typedTag := tag.(type) {
	case string:
		rendered = typedTag
	default:
		if value := reflect.ValueOf(tag); value.Kind() == reflect.Func && !value.IsNil() {
			rendered = funcName(value.Pointer())
		} else {
			// fmt handles Stringers, including ones with nil receivers
			rendered = fmt.Sprint(tag)
		}
	}

	return tagEscaper.Replace(rendered)
}

// Gets the short name of a function, without the import path or package name.
// Closures keep their enclosing function name (e.g. "main.func1").
func funcName(pc uintptr) string {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return ""
	}

	name := fn.Name()
	if lastSlash := strings.LastIndexByte(name, '/'); lastSlash >= 0 {
		name = name[lastSlash+1:]
	}
	if firstDot := strings.IndexByte(name, '.'); firstDot >= 0 {
		name = name[firstDot+1:]
	}

	// Method values are suffixed with "-fm"
	return strings.TrimSuffix(name, "-fm")
}
