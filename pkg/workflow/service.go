// Package workflow runs the wecomflow operations: single and chained
// approval submissions, invoice claims, template inspection, approval
// listing, pending-approval reminders and health checks.
//
// A Service owns no remote state. Every method fetches what it needs through
// the API it was built with, so one Service can serve many runs.
package workflow

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-wecomflow/pkg/approval"
	"github.com/goliatone/go-wecomflow/pkg/binding"
	"github.com/goliatone/go-wecomflow/pkg/controls"
	"github.com/goliatone/go-wecomflow/pkg/docnum"
	"github.com/goliatone/go-wecomflow/pkg/jsonv"
	"github.com/goliatone/go-wecomflow/pkg/prompt"
	"github.com/goliatone/go-wecomflow/pkg/report"
	"github.com/goliatone/go-wecomflow/pkg/wecom"
)

// API is the slice of the WeCom client the workflows use.
type API interface {
	approval.Submitter
	approval.PageFetcher
	Token(ctx context.Context) (string, error)
	TemplateDetail(ctx context.Context, templateID string) (jsonv.Value, error)
	ApprovalDetail(ctx context.Context, spNo string) (wecom.Approval, error)
	UploadMedia(ctx context.Context, filename string, r io.Reader) (string, error)
	GetUser(ctx context.Context, userID string) (wecom.User, error)
	SendText(ctx context.Context, agentID int, toUser, content string) error
}

// Templates holds the approval template id of each form profile.
type Templates struct {
	Overtime string
	Expense  string
	Invoice  string
}

// Settings are the deployment values a Service submits with.
type Settings struct {
	UserID       string
	AgentID      int
	Templates    Templates
	ProjectKey   string
	CategoryKeys binding.CategoryKeys
	LookbackDays int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPrompt sets the operator prompt driver.
func WithPrompt(driver prompt.Driver) Option {
	return func(s *Service) {
		if driver != nil {
			s.prompt = driver
		}
	}
}

// WithReport sets the engine advisories and reminders are rendered with.
func WithReport(engine *report.Engine) Option {
	return func(s *Service) {
		if engine != nil {
			s.report = engine
		}
	}
}

// WithExtractor sets the invoice number extractor.
func WithExtractor(ex docnum.Extractor) Option {
	return func(s *Service) {
		if ex != nil {
			s.extractor = ex
		}
	}
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRand sets the source used for automatic overtime windows.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) {
		s.rng = rng
	}
}

// Service runs workflows against one WeCom application.
type Service struct {
	api       API
	settings  Settings
	logger    *zap.Logger
	prompt    prompt.Driver
	report    *report.Engine
	extractor docnum.Extractor
	now       func() time.Time
	rng       *rand.Rand
}

// New constructs a Service. Without WithPrompt every confirmation is
// declined, so live submissions need an explicit driver.
func New(api API, settings Settings, options ...Option) (*Service, error) {
	if api == nil {
		return nil, errors.New("workflow: api is required")
	}
	s := &Service{
		api:       api,
		settings:  settings,
		logger:    zap.NewNop(),
		prompt:    prompt.AutoDriver{Out: io.Discard},
		extractor: docnum.PatternExtractor{},
		now:       time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.report == nil {
		engine, err := report.New()
		if err != nil {
			return nil, err
		}
		s.report = engine
	}
	if s.settings.LookbackDays <= 0 {
		s.settings.LookbackDays = 3
	}
	return s, nil
}

// Submission is the outcome of a single-form run.
type Submission struct {
	Payload approval.ApplyEvent `json:"payload"`
	SpNo    string              `json:"sp_no,omitempty"`
	DryRun  bool                `json:"dry_run"`
	Missing []MissingField      `json:"missing_required,omitempty"`
}

// MissingField is a required control the run left empty.
type MissingField struct {
	ID      string `json:"id"`
	Control string `json:"control"`
	Title   string `json:"title"`
}

// form is a template fetched and bound for one profile.
type form struct {
	all      []controls.Control
	contents []binding.Content
	missing  []controls.Control
}

func (s *Service) bindTemplate(ctx context.Context, templateID string, rules []binding.Rule, in binding.Inputs) (form, error) {
	tree, err := s.api.TemplateDetail(ctx, templateID)
	if err != nil {
		return form{}, err
	}
	all := controls.Flatten(tree)
	s.logger.Debug("template flattened", zap.String("template_id", templateID), zap.Int("controls", len(all)))
	return bindControls(all, rules, in)
}

func bindControls(all []controls.Control, rules []binding.Rule, in binding.Inputs) (form, error) {
	contents, err := binding.Bind(all, rules, in)
	if err != nil {
		return form{}, err
	}
	return form{
		all:      all,
		contents: contents,
		missing:  controls.Audit(all, binding.FilledIDs(contents)),
	}, nil
}

// advise surfaces unfilled required controls to the operator. The list is
// advisory; it never blocks a submission.
func (s *Service) advise(ctx context.Context, missing []controls.Control) error {
	text, err := s.report.MissingFields(missing)
	if err != nil || text == "" {
		return err
	}
	s.logger.Warn("required controls not filled", zap.Int("count", len(missing)))
	return s.prompt.Info(ctx, text)
}

func (s *Service) confirm(ctx context.Context, message string) error {
	return prompt.ConfirmOrDecline(ctx, s.prompt, prompt.ConfirmConfig{Message: message})
}

func missingFields(list []controls.Control) []MissingField {
	if len(list) == 0 {
		return nil
	}
	out := make([]MissingField, 0, len(list))
	for _, c := range list {
		out = append(out, MissingField{ID: c.ID, Control: c.Kind, Title: c.Title})
	}
	return out
}
