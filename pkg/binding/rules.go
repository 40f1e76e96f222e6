package binding

import (
	"fmt"
	"slices"
	"strings"

	"github.com/goliatone/go-wecomflow/pkg/controls"
)

// Encoder produces the wire value for a control bound to a rule. filled is
// false when the input needed by the rule is absent; the control is then left
// out of the payload.
type Encoder func(c controls.Control, in Inputs) (value any, filled bool, err error)

// Rule binds one business field to controls.
type Rule struct {
	Field string
	// Keywords are title substrings; empty matches any title.
	Keywords []string
	// Kinds are the accepted control kinds; empty accepts any kind.
	Kinds []string
	// IDs match a control by id regardless of title and kind.
	IDs    []string
	Encode Encoder
}

// Matches reports whether the rule applies to c.
func (r Rule) Matches(c controls.Control) bool {
	if slices.Contains(r.IDs, c.ID) {
		return true
	}
	if len(r.Kinds) > 0 && !slices.Contains(r.Kinds, c.Kind) {
		return false
	}
	if len(r.Keywords) == 0 {
		return len(r.Kinds) > 0
	}
	for _, kw := range r.Keywords {
		if strings.Contains(c.Title, kw) {
			return true
		}
	}
	return false
}

// Match returns the first rule in table order that applies to c.
func Match(rules []Rule, c controls.Control) (Rule, bool) {
	for _, r := range rules {
		if r.Matches(c) {
			return r, true
		}
	}
	return Rule{}, false
}

// Bind evaluates rules against every control in order and returns the
// encoded contents. Controls without a matching rule, or whose rule has no
// value to offer, are skipped.
func Bind(all []controls.Control, rules []Rule, in Inputs) ([]Content, error) {
	var out []Content
	for _, c := range all {
		rule, ok := Match(rules, c)
		if !ok {
			continue
		}
		value, filled, err := rule.Encode(c, in)
		if err != nil {
			return nil, fmt.Errorf("binding: %s (%s): %w", rule.Field, c.ID, err)
		}
		if !filled {
			continue
		}
		out = append(out, Content{Control: c.Kind, ID: c.ID, Value: value})
	}
	return out, nil
}

// FilledIDs lists the control ids present in contents, including the cells
// of table rows.
func FilledIDs(contents []Content) []string {
	ids := make([]string, 0, len(contents))
	for _, c := range contents {
		ids = append(ids, c.ID)
		if table, ok := c.Value.(TableValue); ok {
			for _, row := range table.Children {
				ids = append(ids, FilledIDs(row.List)...)
			}
		}
	}
	return ids
}

func textEncoder(pick func(Inputs) string) Encoder {
	return func(_ controls.Control, in Inputs) (any, bool, error) {
		text := SanitizeText(pick(in))
		if text == "" {
			return nil, false, nil
		}
		return TextValue{Text: text}, true, nil
	}
}

func contactEncoder(_ controls.Control, in Inputs) (any, bool, error) {
	if in.UserID == "" {
		return nil, false, nil
	}
	return ContactValue{Members: []Member{{UserID: in.UserID}}}, true, nil
}

func dateEncoder(kind string, pick func(Inputs) int64) Encoder {
	return func(_ controls.Control, in Inputs) (any, bool, error) {
		ts := pick(in)
		if ts == 0 {
			return nil, false, nil
		}
		return DateValue{Date: Date{Type: kind, Timestamp: fmt.Sprint(ts)}}, true, nil
	}
}

func amountEncoder(c controls.Control, in Inputs) (any, bool, error) {
	if in.Amount == "" {
		return nil, false, nil
	}
	if c.Kind == controls.KindNumber {
		return NumberValue{NewNumber: in.Amount}, true, nil
	}
	return MoneyValue{NewMoney: in.Amount}, true, nil
}

func fileEncoder(_ controls.Control, in Inputs) (any, bool, error) {
	if in.FileID == "" {
		return nil, false, nil
	}
	return FilesValue{Files: []FileRef{{FileID: in.FileID}}}, true, nil
}

func relatedEncoder(_ controls.Control, in Inputs) (any, bool, error) {
	if in.RelatedSpNo == "" {
		return nil, false, nil
	}
	return RelatedApprovalValue{RelatedApproval: []RelatedApproval{{SpNo: in.RelatedSpNo}}}, true, nil
}

func selectorEncoder(pick func(Inputs) Choice) Encoder {
	return func(c controls.Control, in Inputs) (any, bool, error) {
		key, err := ResolveSelectorKey(c, pick(in))
		if err != nil {
			return nil, false, err
		}
		return SelectorValue{Selector: Selector{Type: "single", Options: []SelectorKey{{Key: key}}}}, true, nil
	}
}

// ResolveSelectorKey applies the selector policy: an explicit key wins, then
// the option best matching the keyword, then the first option.
func ResolveSelectorKey(c controls.Control, choice Choice) (string, error) {
	if key := strings.TrimSpace(choice.Key); key != "" {
		return key, nil
	}
	options := controls.ResolveOptions(c)
	if hit, ok := controls.ChooseOption(options, choice.Keyword); ok {
		return hit.Key, nil
	}
	if len(options) > 0 {
		return options[0].Key, nil
	}
	return "", fmt.Errorf("%w: %s %q", ErrSelectorOptionNotFound, c.ID, c.Title)
}

func windowRange(in Inputs) (DateRange, error) {
	if _, err := Hours(in.Window.Start, in.Window.End); err != nil {
		return DateRange{}, err
	}
	return DateRange{
		Type:        "hour",
		NewBegin:    in.Window.Start,
		NewEnd:      in.Window.End,
		NewDuration: in.Window.Duration(),
	}, nil
}
