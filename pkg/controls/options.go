package controls

import (
	"strings"

	"github.com/goliatone/go-wecomflow/pkg/jsonv"
)

// Option is a single choice of a Selector control.
type Option struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// ResolveOptions collects the options of a selector control. It walks
// property.options (or the whole definition when that is absent) and keeps
// every object exposing a string key, first occurrence per key. When that
// finds nothing and the control sits in a container, the container's config
// is walked as well.
func ResolveOptions(c Control) []Option {
	var root jsonv.Value = c.Raw
	if opts, ok := jsonv.Lookup(c.Raw, "property", "options"); ok {
		if _, isNull := opts.(jsonv.Null); !isNull {
			root = opts
		}
	}
	out := collectOptions(root)
	if len(out) == 0 && c.Container != nil {
		if cfg, ok := c.Container.Get("config"); ok {
			out = collectOptions(cfg)
		}
	}
	return out
}

func collectOptions(root jsonv.Value) []Option {
	var out []Option
	seen := make(map[string]struct{})
	Walk(root, func(node *jsonv.Object) {
		keyVal, ok := node.Get("key")
		if !ok {
			return
		}
		key, ok := keyVal.(jsonv.String)
		if !ok {
			return
		}
		if _, dup := seen[string(key)]; dup {
			return
		}
		seen[string(key)] = struct{}{}
		out = append(out, Option{Key: string(key), Text: optionText(node, string(key))})
	})
	return out
}

func optionText(node *jsonv.Object, key string) string {
	if s := ReadText(node); s != "" {
		return s
	}
	for _, field := range []string{"label", "name"} {
		if v, ok := node.Get(field); ok && jsonv.Truthy(v) {
			if s := jsonv.Scalar(v); s != "" {
				return s
			}
		}
	}
	return key
}

// ChooseOption picks the option best matching keyword: a case-sensitive
// match on text, then on key, then case-insensitive matches on text and
// finally on key. A blank keyword never matches.
func ChooseOption(options []Option, keyword string) (Option, bool) {
	k := strings.TrimSpace(keyword)
	if k == "" {
		return Option{}, false
	}
	for _, o := range options {
		if strings.Contains(o.Text, k) {
			return o, true
		}
	}
	for _, o := range options {
		if strings.Contains(o.Key, k) {
			return o, true
		}
	}
	lower := strings.ToLower(k)
	for _, o := range options {
		if strings.Contains(strings.ToLower(o.Text), lower) {
			return o, true
		}
	}
	for _, o := range options {
		if strings.Contains(strings.ToLower(o.Key), lower) {
			return o, true
		}
	}
	return Option{}, false
}
