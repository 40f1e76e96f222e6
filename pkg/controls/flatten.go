package controls

import "github.com/goliatone/go-wecomflow/pkg/jsonv"

// Control kinds used by WeCom approval templates.
const (
	KindText            = "Text"
	KindTextarea        = "Textarea"
	KindNumber          = "Number"
	KindMoney           = "Money"
	KindDate            = "Date"
	KindDateRange       = "DateRange"
	KindSelector        = "Selector"
	KindContact         = "Contact"
	KindRelatedApproval = "RelatedApproval"
	KindFile            = "File"
	KindAttendance      = "Attendance"
	KindTable           = "Table"
)

// Control is one addressable form control found in a template tree.
type Control struct {
	ID    string
	Kind  string
	Title string
	// Raw is the node the control was read from. It is shared with the
	// template tree and must be treated as read-only.
	Raw *jsonv.Object
	// Container is the object holding Raw under its "property" member, as
	// in {"property": {...}, "config": {...}}. Nil otherwise.
	Container *jsonv.Object
}

// titlePaths lists where a control title may live, most specific first.
var titlePaths = [][]any{
	{"property", "title", 0, "text"},
	{"property", "title", "text"},
	{"title", 0, "text"},
	{"title", "text"},
	{"name"},
}

// Flatten walks root depth-first in pre-order and returns every object that
// has both a non-empty id and a non-empty control tag.
func Flatten(root jsonv.Value) []Control {
	var out []Control
	flatten(root, nil, "", &out)
	return out
}

func flatten(v jsonv.Value, parent *jsonv.Object, key string, out *[]Control) {
	switch node := v.(type) {
	case jsonv.Array:
		for _, item := range node {
			flatten(item, nil, "", out)
		}
	case *jsonv.Object:
		if node == nil {
			return
		}
		if c, ok := controlFrom(node); ok {
			if key == "property" {
				c.Container = parent
			}
			*out = append(*out, c)
		}
		for _, m := range node.Members() {
			flatten(m.Value, node, m.Key, out)
		}
	}
}

// Walk visits every object reachable from v, parents before children,
// members and array elements in order.
func Walk(v jsonv.Value, visit func(*jsonv.Object)) {
	switch node := v.(type) {
	case jsonv.Array:
		for _, item := range node {
			Walk(item, visit)
		}
	case *jsonv.Object:
		if node == nil {
			return
		}
		visit(node)
		for _, m := range node.Members() {
			Walk(m.Value, visit)
		}
	}
}

func controlFrom(node *jsonv.Object) (Control, bool) {
	idVal, _ := node.Get("id")
	kindVal, _ := node.Get("control")
	if !jsonv.Truthy(idVal) || !jsonv.Truthy(kindVal) {
		return Control{}, false
	}
	id := jsonv.Scalar(idVal)
	kind := jsonv.Scalar(kindVal)
	if id == "" || kind == "" {
		return Control{}, false
	}
	return Control{
		ID:    id,
		Kind:  kind,
		Title: resolveTitle(node),
		Raw:   node,
	}, true
}

func resolveTitle(node *jsonv.Object) string {
	for _, path := range titlePaths {
		v, ok := jsonv.Lookup(node, path...)
		if !ok || !jsonv.Truthy(v) {
			continue
		}
		if s := jsonv.Scalar(v); s != "" {
			return s
		}
	}
	return ""
}

// Required reports whether the control definition marks it mandatory via
// property.require or require, set to 1 or true.
func (c Control) Required() bool {
	for _, path := range [][]any{{"property", "require"}, {"require"}} {
		v, ok := jsonv.Lookup(c.Raw, path...)
		if !ok {
			continue
		}
		switch t := v.(type) {
		case jsonv.Bool:
			if t {
				return true
			}
		case jsonv.Number:
			if f, err := t.Float64(); err == nil && f == 1 {
				return true
			}
		}
	}
	return false
}

// Children returns the controls nested below c, excluding c itself. Cells of
// a Table usually sit in the container's config, next to the property node,
// so the container is searched when there is one.
func (c Control) Children() []Control {
	var root jsonv.Value = c.Raw
	if c.Container != nil {
		root = c.Container
	}
	var out []Control
	for _, child := range Flatten(root) {
		if child.Raw == c.Raw {
			continue
		}
		out = append(out, child)
	}
	return out
}
