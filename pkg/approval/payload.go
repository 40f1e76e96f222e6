package approval

import "github.com/goliatone/go-wecomflow/pkg/binding"

// SummaryLimit is the number of code points WeCom shows per summary line.
const SummaryLimit = 20

// ApplyEvent is the request body of oa/applyevent.
type ApplyEvent struct {
	CreatorUserID       string        `json:"creator_userid"`
	TemplateID          string        `json:"template_id"`
	UseTemplateApprover int           `json:"use_template_approver"`
	ApplyData           ApplyData     `json:"apply_data"`
	SummaryList         []SummaryItem `json:"summary_list"`
	Notifyer            []string      `json:"notifyer,omitempty"`
}

type ApplyData struct {
	Contents []binding.Content `json:"contents"`
}

type SummaryItem struct {
	SummaryInfo []SummaryText `json:"summary_info"`
}

type SummaryText struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

// NewApplyEvent builds a payload that uses the template's own approvers.
func NewApplyEvent(creator, templateID string, contents []binding.Content, summaries ...string) ApplyEvent {
	if contents == nil {
		contents = []binding.Content{}
	}
	return ApplyEvent{
		CreatorUserID:       creator,
		TemplateID:          templateID,
		UseTemplateApprover: 1,
		ApplyData:           ApplyData{Contents: contents},
		SummaryList:         Summary(summaries...),
	}
}

// Summary converts lines into summary_list entries, each trimmed to
// SummaryLimit code points.
func Summary(lines ...string) []SummaryItem {
	out := make([]SummaryItem, 0, len(lines))
	for _, line := range lines {
		out = append(out, SummaryItem{SummaryInfo: []SummaryText{{Text: Trim20(line), Lang: "zh_CN"}}})
	}
	return out
}

// Trim20 truncates s to SummaryLimit code points.
func Trim20(s string) string {
	return TrimRunes(s, SummaryLimit)
}

// TrimRunes truncates s to at most n code points.
func TrimRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
