package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-wecomflow/pkg/report"
	"github.com/goliatone/go-wecomflow/pkg/wecom"
)

// ErrUnhealthy is returned by Health when any check fails.
var ErrUnhealthy = errors.New("workflow: health check failed")

// HealthResult lists every check and the rendered summary.
type HealthResult struct {
	Checks []report.Check
	Text   string
}

// Health verifies the token, the default user and the configured templates.
// Identifiers are masked in the output; secrets and tokens never appear.
func (s *Service) Health(ctx context.Context) (HealthResult, error) {
	var checks []report.Check

	_, err := s.api.Token(ctx)
	if err != nil {
		checks = append(checks, report.Check{Name: "token", Detail: failure(err)})
	} else {
		checks = append(checks, report.Check{Name: "token", OK: true})
	}

	templates := []struct{ name, id string }{
		{"template_overtime", s.settings.Templates.Overtime},
		{"template_expense", s.settings.Templates.Expense},
	}
	if s.settings.Templates.Invoice != "" {
		templates = append(templates, struct{ name, id string }{"template_invoice", s.settings.Templates.Invoice})
	}

	if err != nil {
		checks = append(checks, report.Check{Name: "user", Detail: "skipped: token failed"})
		for _, t := range templates {
			checks = append(checks, report.Check{Name: t.name, Detail: "skipped: token failed"})
		}
	} else {
		if _, err := s.api.GetUser(ctx, s.settings.UserID); err != nil {
			checks = append(checks, report.Check{Name: "user", Detail: failure(err)})
		} else {
			checks = append(checks, report.Check{Name: "user", OK: true, Detail: "userid=" + report.Mask(s.settings.UserID, 3)})
		}
		for _, t := range templates {
			if _, err := s.api.TemplateDetail(ctx, t.id); err != nil {
				checks = append(checks, report.Check{Name: t.name, Detail: failure(err)})
				continue
			}
			checks = append(checks, report.Check{Name: t.name, OK: true, Detail: "template_id=" + report.Mask(t.id, 5)})
		}
	}

	text, rerr := s.report.Health(checks)
	if rerr != nil {
		return HealthResult{Checks: checks}, rerr
	}
	out := HealthResult{Checks: checks, Text: text}
	for _, c := range checks {
		if !c.OK {
			return out, ErrUnhealthy
		}
	}
	return out, nil
}

// failure describes err without echoing request URLs, which carry the
// access token.
func failure(err error) string {
	var apiErr *wecom.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = "unknown"
		}
		return fmt.Sprintf("errcode=%d, errmsg=%s", apiErr.Code, msg)
	}
	if errors.Is(err, wecom.ErrUnexpectedStatus) {
		return err.Error()
	}
	return "request failed"
}
