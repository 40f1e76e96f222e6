package controls_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-wecomflow/pkg/controls"
	"github.com/goliatone/go-wecomflow/pkg/jsonv"
)

type row struct {
	ID    string
	Kind  string
	Title string
}

func rows(list []controls.Control) []row {
	out := make([]row, 0, len(list))
	for _, c := range list {
		out = append(out, row{ID: c.ID, Kind: c.Kind, Title: c.Title})
	}
	return out
}

const templateFixture = `{
  "controls": [
    {
      "property": {"control": "Text", "id": "Text-1", "title": [{"text": "加班事由", "lang": "zh_CN"}], "require": 1},
      "config": {}
    },
    {
      "property": {"control": "Table", "id": "Table-1", "title": {"text": "明细"}},
      "config": {
        "table": {
          "children": [
            {"property": {"control": "Money", "id": "Money-1", "title": [{"text": "金额"}]}},
            {"wrapper": [[{"deep": {"id": "Date-9", "control": "Date", "name": "日期"}}]]}
          ]
        }
      }
    },
    {"id": "", "control": "Text"},
    {"id": "Orphan-1"},
    {"id": 42, "control": "Number", "title": [{"text": ""}], "name": "数量"}
  ]
}`

func TestFlatten_FindsNestedControlsInPreOrder(t *testing.T) {
	got := controls.Flatten(jsonv.MustParse(templateFixture))

	want := []row{
		{ID: "Text-1", Kind: "Text", Title: "加班事由"},
		{ID: "Table-1", Kind: "Table", Title: "明细"},
		{ID: "Money-1", Kind: "Money", Title: "金额"},
		{ID: "Date-9", Kind: "Date", Title: "日期"},
		{ID: "42", Kind: "Number", Title: "数量"},
	}
	if diff := cmp.Diff(want, rows(got)); diff != "" {
		t.Fatalf("flatten mismatch (-want +got):\n%s", diff)
	}
}

func TestFlatten_IsStableAcrossRuns(t *testing.T) {
	root := jsonv.MustParse(templateFixture)
	first := rows(controls.Flatten(root))
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, rows(controls.Flatten(root))); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i, diff)
		}
	}
}

func TestFlatten_ParentBeforeChild(t *testing.T) {
	root := jsonv.MustParse(`{"id":"outer","control":"Table","children":[{"id":"inner","control":"Text"}]}`)
	got := rows(controls.Flatten(root))
	want := []row{{ID: "outer", Kind: "Table"}, {ID: "inner", Kind: "Text"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("pre-order mismatch (-want +got):\n%s", diff)
	}
}

func TestFlatten_IgnoresPrimitives(t *testing.T) {
	for _, doc := range []string{`null`, `"x"`, `12`, `[1,2,"id"]`} {
		if got := controls.Flatten(jsonv.MustParse(doc)); len(got) != 0 {
			t.Fatalf("%s: expected no controls, got %d", doc, len(got))
		}
	}
}

func TestControlChildren(t *testing.T) {
	all := controls.Flatten(jsonv.MustParse(templateFixture))
	table := all[1]
	if diff := cmp.Diff([]row{
		{ID: "Money-1", Kind: "Money", Title: "金额"},
		{ID: "Date-9", Kind: "Date", Title: "日期"},
	}, rows(table.Children())); diff != "" {
		t.Fatalf("children mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveOptions_DedupFirstWins(t *testing.T) {
	root := jsonv.MustParse(`{"id":"S","control":"Selector","property":{"options":[
		{"key":"a","value":[{"text":"X"}]},
		{"key":"a","value":[{"text":"Y"}]},
		{"key":"b","value":[{"text":"Z"}]}
	]}}`)
	sel := controls.Flatten(root)[0]

	got := controls.ResolveOptions(sel)
	want := []controls.Option{{Key: "a", Text: "X"}, {Key: "b", Text: "Z"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveOptions_FallbacksAndWholeNode(t *testing.T) {
	root := jsonv.MustParse(`{"id":"S","control":"Selector","config":{"selector":{"options":[
		{"key":"k1","label":"Label One"},
		{"key":"k2","name":"Name Two"},
		{"key":"k3"},
		{"key":7}
	]}}}`)
	sel := controls.Flatten(root)[0]

	got := controls.ResolveOptions(sel)
	want := []controls.Option{
		{Key: "k1", Text: "Label One"},
		{Key: "k2", Text: "Name Two"},
		{Key: "k3", Text: "k3"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestChooseOption(t *testing.T) {
	overtime := []controls.Option{{Key: "o1", Text: "周末加班"}, {Key: "o2", Text: "晚上加班"}}

	tests := []struct {
		name    string
		options []controls.Option
		keyword string
		wantKey string
		wantOK  bool
	}{
		{name: "text contains", options: overtime, keyword: "周末", wantKey: "o1", wantOK: true},
		{name: "trimmed keyword", options: overtime, keyword: "  晚上 ", wantKey: "o2", wantOK: true},
		{name: "key contains", options: overtime, keyword: "o2", wantKey: "o2", wantOK: true},
		{name: "case-insensitive fallback", options: []controls.Option{{Key: "night-shift", Text: "X"}}, keyword: "Night", wantKey: "night-shift", wantOK: true},
		{name: "case-insensitive text", options: []controls.Option{{Key: "k", Text: "Lodging"}}, keyword: "lodging", wantKey: "k", wantOK: true},
		{name: "text beats key", options: []controls.Option{{Key: "abc", Text: "zzz"}, {Key: "q", Text: "abc"}}, keyword: "abc", wantKey: "q", wantOK: true},
		{name: "empty keyword", options: overtime, keyword: "", wantOK: false},
		{name: "blank keyword", options: overtime, keyword: "   ", wantOK: false},
		{name: "no match", options: overtime, keyword: "出差", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := controls.ChooseOption(tt.options, tt.keyword)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.Key != tt.wantKey {
				t.Fatalf("key = %q, want %q", got.Key, tt.wantKey)
			}
		})
	}
}

func TestReadText(t *testing.T) {
	tests := []struct {
		doc  string
		want string
	}{
		{`"plain"`, "plain"},
		{`{"text":"t"}`, "t"},
		{`{"value":[{"text":"a"},{"text":""},"b"]}`, "a | b"},
		{`[{"text":"x"},{"other":1},"y"]`, "x | y"},
		{`{"text":5,"value":"nope"}`, ""},
		{`12`, ""},
		{`null`, ""},
	}
	for _, tt := range tests {
		if got := controls.ReadText(jsonv.MustParse(tt.doc)); got != tt.want {
			t.Errorf("ReadText(%s) = %q, want %q", tt.doc, got, tt.want)
		}
	}
}

func TestAudit_ReportsUnfilledRequired(t *testing.T) {
	root := jsonv.MustParse(`[
		{"id":"A","control":"Text","property":{"require":true}},
		{"id":"B","control":"Text","property":{"require":false}},
		{"id":"C","control":"Date","require":1},
		{"id":"D","control":"File","property":{"require":0}}
	]`)
	all := controls.Flatten(root)

	got := controls.Audit(all, []string{"B", "C"})
	if diff := cmp.Diff([]row{{ID: "A", Kind: "Text"}}, rows(got)); diff != "" {
		t.Fatalf("audit mismatch (-want +got):\n%s", diff)
	}

	if got := controls.Audit(all, nil); len(got) != 2 {
		t.Fatalf("expected A and C missing, got %d", len(got))
	}
}

func TestResolveOptions_ContainerConfig(t *testing.T) {
	root := jsonv.MustParse(`{"controls":[{
		"property":{"control":"Selector","id":"Selector-1","title":[{"text":"类别"}]},
		"config":{"selector":{"type":"single","options":[
			{"key":"option-1","value":[{"text":"晚上加班","lang":"zh_CN"}]},
			{"key":"option-2","value":[{"text":"周末加班","lang":"zh_CN"},{"text":"Weekend","lang":"en"}]}
		]}}
	}]}`)
	sel := controls.Flatten(root)[0]
	if sel.Container == nil {
		t.Fatal("expected container to be recorded")
	}

	got := controls.ResolveOptions(sel)
	want := []controls.Option{
		{Key: "option-1", Text: "晚上加班"},
		{Key: "option-2", Text: "周末加班 | Weekend"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}
