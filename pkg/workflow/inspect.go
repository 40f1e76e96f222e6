package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-wecomflow/pkg/binding"
	"github.com/goliatone/go-wecomflow/pkg/controls"
	"github.com/goliatone/go-wecomflow/pkg/jsonv"
)

// Profile names accepted by TemplateFor.
const (
	ProfileOvertime = "overtime"
	ProfileExpense  = "expense"
	ProfileInvoice  = "invoice"
)

// TemplateFor returns the configured template id of a profile.
func (s *Service) TemplateFor(profile string) (string, error) {
	var id string
	switch strings.ToLower(strings.TrimSpace(profile)) {
	case ProfileOvertime:
		id = s.settings.Templates.Overtime
	case ProfileExpense:
		id = s.settings.Templates.Expense
	case ProfileInvoice:
		id = s.settings.Templates.Invoice
	default:
		return "", fmt.Errorf("workflow: unknown profile %q", profile)
	}
	if id == "" {
		return "", fmt.Errorf("%w: template for %s", binding.ErrMissingInput, profile)
	}
	return id, nil
}

// ControlInfo describes one template control.
type ControlInfo struct {
	ID       string            `json:"id"`
	Control  string            `json:"control"`
	Title    string            `json:"title"`
	Required bool              `json:"require"`
	Options  []controls.Option `json:"options,omitempty"`
}

// Inspect lists the controls of a template in traversal order.
func (s *Service) Inspect(ctx context.Context, templateID string) ([]ControlInfo, error) {
	tree, err := s.api.TemplateDetail(ctx, templateID)
	if err != nil {
		return nil, err
	}
	all := controls.Flatten(tree)
	out := make([]ControlInfo, 0, len(all))
	for _, c := range all {
		info := ControlInfo{ID: c.ID, Control: c.Kind, Title: c.Title, Required: c.Required()}
		if c.Kind == controls.KindSelector {
			info.Options = controls.ResolveOptions(c)
		}
		out = append(out, info)
	}
	return out, nil
}

// DetailControl is one filled control of a submitted approval.
type DetailControl struct {
	ID           string   `json:"id"`
	Control      string   `json:"control"`
	Title        string   `json:"title"`
	TextPreview  string   `json:"text_preview"`
	SelectorKeys []string `json:"selector_keys"`
	RelatedSpNo  []string `json:"related_sp_no"`
	FileIDs      []string `json:"file_ids"`
}

// Detail is a normalised view of one approval.
type Detail struct {
	SpNo     string          `json:"sp_no"`
	SpName   string          `json:"sp_name"`
	SpStatus int             `json:"sp_status"`
	Controls []DetailControl `json:"controls"`
}

// Detail fetches an approval and normalises its contents.
func (s *Service) Detail(ctx context.Context, spNo string) (Detail, error) {
	spNo = strings.TrimSpace(spNo)
	if spNo == "" {
		return Detail{}, fmt.Errorf("%w: sp_no", binding.ErrMissingInput)
	}
	a, err := s.api.ApprovalDetail(ctx, spNo)
	if err != nil {
		return Detail{}, err
	}
	out := Detail{SpNo: spNo, SpName: a.SpName, SpStatus: a.SpStatus, Controls: []DetailControl{}}
	items, _ := a.Contents.(jsonv.Array)
	for _, item := range items {
		node, ok := item.(*jsonv.Object)
		if !ok || node == nil {
			continue
		}
		out.Controls = append(out.Controls, normalise(node))
	}
	return out, nil
}

func normalise(node *jsonv.Object) DetailControl {
	id, _ := jsonv.Lookup(node, "id")
	kind, _ := jsonv.Lookup(node, "control")
	value, _ := jsonv.Lookup(node, "value")

	title, ok := jsonv.LookupString(node, "title", 0, "text")
	if !ok {
		title, _ = jsonv.LookupString(node, "title", "text")
	}
	return DetailControl{
		ID:           jsonv.Scalar(id),
		Control:      jsonv.Scalar(kind),
		Title:        title,
		TextPreview:  controls.ReadText(value),
		SelectorKeys: pluck(value, []any{"selector", "options"}, "key"),
		RelatedSpNo:  pluck(value, []any{"related_approval"}, "sp_no"),
		FileIDs:      pluck(value, []any{"files"}, "file_id"),
	}
}

// pluck collects the non-empty field of every element of the array at path.
func pluck(v jsonv.Value, path []any, field string) []string {
	out := []string{}
	list, ok := jsonv.Lookup(v, path...)
	if !ok {
		return out
	}
	items, ok := list.(jsonv.Array)
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := jsonv.LookupString(item, field); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
