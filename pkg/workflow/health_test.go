package workflow_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-wecomflow/pkg/report"
	"github.com/goliatone/go-wecomflow/pkg/wecom"
	"github.com/goliatone/go-wecomflow/pkg/workflow"
)

func TestHealth_AllPassing(t *testing.T) {
	api := newFakeAPI()
	api.users["zhangsan"] = true
	svc := newService(t, api, &scriptedPrompt{})

	got, err := svc.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	want := []report.Check{
		{Name: "token", OK: true},
		{Name: "user", OK: true, Detail: "userid=zha...san"},
		{Name: "template_overtime", OK: true, Detail: "template_id=tpl-o...rtime"},
		{Name: "template_expense", OK: true, Detail: "template_id=tpl-e...pense"},
		{Name: "template_invoice", OK: true, Detail: "template_id=tpl-i...voice"},
	}
	if diff := cmp.Diff(want, got.Checks); diff != "" {
		t.Fatalf("checks mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(got.Text, "WeCom health check\n- token: ok") {
		t.Fatalf("unexpected text:\n%s", got.Text)
	}
}

func TestHealth_TokenFailureSkipsRest(t *testing.T) {
	api := newFakeAPI()
	api.tokenErr = &wecom.APIError{Scene: "gettoken", Code: 40001, Message: "invalid credential"}
	svc := newService(t, api, &scriptedPrompt{})

	got, err := svc.Health(context.Background())
	if !errors.Is(err, workflow.ErrUnhealthy) {
		t.Fatalf("expected ErrUnhealthy, got %v", err)
	}
	if len(got.Checks) != 5 {
		t.Fatalf("expected 5 checks, got %d", len(got.Checks))
	}
	if got.Checks[0].Detail != "errcode=40001, errmsg=invalid credential" {
		t.Fatalf("token detail = %q", got.Checks[0].Detail)
	}
	for _, c := range got.Checks[1:] {
		if c.OK || c.Detail != "skipped: token failed" {
			t.Fatalf("check %s should be skipped, got %+v", c.Name, c)
		}
	}
	if len(api.templateHit) != 0 {
		t.Fatal("templates must not be fetched without a token")
	}
	if !strings.Contains(got.Text, "- token: fail (errcode=40001, errmsg=invalid credential)") {
		t.Fatalf("unexpected text:\n%s", got.Text)
	}
}

func TestHealth_PartialFailures(t *testing.T) {
	api := newFakeAPI()
	svc := newService(t, api, &scriptedPrompt{})
	delete(api.templates, tplInvoice)

	got, err := svc.Health(context.Background())
	if !errors.Is(err, workflow.ErrUnhealthy) {
		t.Fatalf("expected ErrUnhealthy, got %v", err)
	}
	status := map[string]bool{}
	for _, c := range got.Checks {
		status[c.Name] = c.OK
	}
	want := map[string]bool{"token": true, "user": false, "template_overtime": true, "template_expense": true, "template_invoice": false}
	if diff := cmp.Diff(want, status); diff != "" {
		t.Fatalf("status mismatch (-want +got):\n%s", diff)
	}
	if got.Checks[1].Detail != "errcode=60111, errmsg=userid not found" {
		t.Fatalf("user detail = %q", got.Checks[1].Detail)
	}
}

func TestHealth_OmitsUnsetInvoiceTemplate(t *testing.T) {
	api := newFakeAPI()
	api.users["u1"] = true
	api.templates["t-ot"] = overtimeTemplate
	api.templates["t-ex"] = expenseTemplate
	svc, err := workflow.New(api, workflow.Settings{UserID: "u1", Templates: workflow.Templates{Overtime: "t-ot", Expense: "t-ex"}})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if len(got.Checks) != 4 {
		t.Fatalf("expected 4 checks, got %+v", got.Checks)
	}
	if got.Checks[1].Detail != "userid=**" {
		t.Fatalf("short ids should be fully masked, got %q", got.Checks[1].Detail)
	}
}
