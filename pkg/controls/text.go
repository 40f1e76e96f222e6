package controls

import (
	"strings"

	"github.com/goliatone/go-wecomflow/pkg/jsonv"
)

// ReadText renders a control value as human text. Strings are returned as
// is, arrays join the non-empty reads of their elements with " | ", and
// objects prefer a string `text` member before descending into an array
// `value` member.
func ReadText(v jsonv.Value) string {
	switch t := v.(type) {
	case jsonv.String:
		return string(t)
	case jsonv.Array:
		return joinReads(t)
	case *jsonv.Object:
		if s, ok := jsonv.LookupString(t, "text"); ok {
			return s
		}
		if inner, ok := jsonv.Lookup(t, "value"); ok {
			if arr, ok := inner.(jsonv.Array); ok {
				return joinReads(arr)
			}
		}
	}
	return ""
}

func joinReads(items jsonv.Array) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if s := ReadText(item); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " | ")
}
