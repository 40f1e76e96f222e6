package workflow_test

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-wecomflow/pkg/approval"
	"github.com/goliatone/go-wecomflow/pkg/binding"
	"github.com/goliatone/go-wecomflow/pkg/jsonv"
	"github.com/goliatone/go-wecomflow/pkg/prompt"
	"github.com/goliatone/go-wecomflow/pkg/wecom"
	"github.com/goliatone/go-wecomflow/pkg/workflow"
)

type sentText struct {
	agentID int
	toUser  string
	content string
}

type upload struct {
	filename string
	data     string
}

// fakeAPI records every call and answers from canned data.
type fakeAPI struct {
	mu sync.Mutex

	tokenErr    error
	templates   map[string]string
	applyErrs   map[int]error
	pages       map[int]approval.Page
	details     map[string]wecom.Approval
	detailErrs  map[string]error
	users       map[string]bool
	sendErrs    map[string]error
	templateHit []string
	pageReqs    []approval.PageRequest
	applied     []approval.ApplyEvent
	uploads     []upload
	sent        []sentText
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		templates:  map[string]string{},
		applyErrs:  map[int]error{},
		pages:      map[int]approval.Page{},
		details:    map[string]wecom.Approval{},
		detailErrs: map[string]error{},
		users:      map[string]bool{},
		sendErrs:   map[string]error{},
	}
}

func (f *fakeAPI) Token(context.Context) (string, error) {
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	return "tok", nil
}

func (f *fakeAPI) TemplateDetail(_ context.Context, id string) (jsonv.Value, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templateHit = append(f.templateHit, id)
	doc, ok := f.templates[id]
	if !ok {
		return nil, &wecom.APIError{Scene: "gettemplatedetail", Code: 301025, Message: "template not found"}
	}
	return jsonv.MustParse(doc), nil
}

func (f *fakeAPI) ApplyEvent(_ context.Context, event approval.ApplyEvent) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.applied)
	f.applied = append(f.applied, event)
	if err := f.applyErrs[n]; err != nil {
		return "", err
	}
	return fmt.Sprintf("SP%03d", n+1), nil
}

func (f *fakeAPI) FetchPage(_ context.Context, req approval.PageRequest) (approval.Page, error) {
	f.pageReqs = append(f.pageReqs, req)
	page, ok := f.pages[req.Cursor]
	if !ok {
		return approval.Page{}, &wecom.APIError{Scene: "getapprovalinfo", Code: 40058, Message: "bad cursor"}
	}
	return page, nil
}

func (f *fakeAPI) ApprovalDetail(_ context.Context, spNo string) (wecom.Approval, error) {
	if err := f.detailErrs[spNo]; err != nil {
		return wecom.Approval{}, err
	}
	a, ok := f.details[spNo]
	if !ok {
		return wecom.Approval{}, &wecom.APIError{Scene: "getapprovaldetail", Code: 301055, Message: "no such approval"}
	}
	return a, nil
}

func (f *fakeAPI) UploadMedia(_ context.Context, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.uploads = append(f.uploads, upload{filename: filename, data: string(data)})
	return "MEDIA-1", nil
}

func (f *fakeAPI) GetUser(_ context.Context, userID string) (wecom.User, error) {
	if !f.users[userID] {
		return wecom.User{}, &wecom.APIError{Scene: "user/get", Code: 60111, Message: "userid not found"}
	}
	return wecom.User{UserID: userID, Name: "张三"}, nil
}

func (f *fakeAPI) SendText(_ context.Context, agentID int, toUser, content string) error {
	if err := f.sendErrs[toUser]; err != nil {
		return err
	}
	f.sent = append(f.sent, sentText{agentID: agentID, toUser: toUser, content: content})
	return nil
}

// scriptedPrompt answers prompts from fixed values and records output.
type scriptedPrompt struct {
	confirm   bool
	selectIdx int
	input     string
	infos     []string
	confirms  []string
	selects   []prompt.SelectConfig
}

func (p *scriptedPrompt) Input(context.Context, prompt.InputConfig) (string, error) {
	return p.input, nil
}

func (p *scriptedPrompt) Confirm(_ context.Context, cfg prompt.ConfirmConfig) (bool, error) {
	p.confirms = append(p.confirms, cfg.Message)
	return p.confirm, nil
}

func (p *scriptedPrompt) Select(_ context.Context, cfg prompt.SelectConfig) (int, error) {
	p.selects = append(p.selects, cfg)
	return p.selectIdx, nil
}

func (p *scriptedPrompt) Info(_ context.Context, msg string) error {
	p.infos = append(p.infos, msg)
	return nil
}

const (
	tplOvertime = "tpl-overtime"
	tplExpense  = "tpl-expense"
	tplInvoice  = "tpl-invoice"
)

const overtimeTemplate = `{"controls":[
  {"property":{"control":"Textarea","id":"Textarea-reason","title":[{"text":"加班原因"}],"require":1}},
  {"property":{"control":"Date","id":"Date-start","title":[{"text":"开始时间"}],"require":1}},
  {"property":{"control":"Date","id":"Date-end","title":[{"text":"结束时间"}],"require":1}},
  {"property":{"control":"Number","id":"Number-hours","title":[{"text":"时长"}]}},
  {"property":{"control":"File","id":"File-proof","title":[{"text":"证明材料"}],"require":1}}
]}`

const expenseTemplate = `{"controls":[
  {"property":{"control":"Contact","id":"Contact-1","title":[{"text":"申请人"}]}},
  {"property":{"control":"Selector","id":"Selector-project","title":[{"text":"关联项目"}],"require":1},
   "config":{"selector":{"type":"single","options":[
     {"key":"p-1","value":[{"text":"内部研发"}]},
     {"key":"p-2","value":[{"text":"温州天铭信息技术有限公司"}]}]}}},
  {"property":{"control":"Date","id":"Date-1","title":[{"text":"产生日期"}]}},
  {"property":{"control":"RelatedApproval","id":"RelatedApproval-1","title":[{"text":"关联审批单"}]}},
  {"property":{"control":"Selector","id":"Selector-category","title":[{"text":"报销类别"}],"require":1},
   "config":{"selector":{"type":"single","options":[
     {"key":"c-night","value":[{"text":"晚上加班"}]},
     {"key":"c-weekend","value":[{"text":"周末加班"}]}]}}},
  {"property":{"control":"Text","id":"Text-purpose","title":[{"text":"用途说明"}]}},
  {"property":{"control":"Money","id":"Money-1","title":[{"text":"报销金额"}]}},
  {"property":{"control":"Textarea","id":"Textarea-remark","title":[{"text":"备注"}]}}
]}`

const invoiceTemplate = `{"controls":[
  {"property":{"control":"Table","id":"Table-1","title":[{"text":"发票明细"}]},
   "config":{"table":{"children":[
     {"property":{"control":"Text","id":"Text-no","title":[{"text":"发票号码"}]}},
     {"property":{"control":"File","id":"File-inv","title":[{"text":"发票文件"}]}},
     {"property":{"control":"Money","id":"Money-amt","title":[{"text":"金额"}]}}]}}}
]}`

// thursday is 2026-02-12 10:00 in UTC+8.
var thursday = time.Date(2026, 2, 12, 10, 0, 0, 0, binding.CST)

func newService(t *testing.T, api *fakeAPI, p prompt.Driver, opts ...workflow.Option) *workflow.Service {
	t.Helper()
	api.templates[tplOvertime] = overtimeTemplate
	api.templates[tplExpense] = expenseTemplate
	api.templates[tplInvoice] = invoiceTemplate

	settings := workflow.Settings{
		UserID:    "zhangsan",
		AgentID:   1000002,
		Templates: workflow.Templates{Overtime: tplOvertime, Expense: tplExpense, Invoice: tplInvoice},
	}
	opts = append([]workflow.Option{
		workflow.WithPrompt(p),
		workflow.WithClock(func() time.Time { return thursday }),
	}, opts...)
	svc, err := workflow.New(api, settings, opts...)
	if err != nil {
		t.Fatalf("workflow.New: %v", err)
	}
	return svc
}

func summaries(event approval.ApplyEvent) []string {
	var out []string
	for _, item := range event.SummaryList {
		for _, info := range item.SummaryInfo {
			out = append(out, info.Text)
		}
	}
	return out
}

func contentByID(event approval.ApplyEvent, id string) (binding.Content, bool) {
	for _, c := range event.ApplyData.Contents {
		if c.ID == id {
			return c, true
		}
	}
	return binding.Content{}, false
}
