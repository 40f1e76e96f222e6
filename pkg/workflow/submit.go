package workflow

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-wecomflow/pkg/approval"
	"github.com/goliatone/go-wecomflow/pkg/binding"
	"github.com/goliatone/go-wecomflow/pkg/controls"
	"github.com/goliatone/go-wecomflow/pkg/prompt"
)

// DefaultAmount is the claim amount used when none is given.
const DefaultAmount = "150"

// chainCategoryLabel is the summary category of a chained expense claim.
const chainCategoryLabel = "加班补贴"

// OvertimeRequest describes an overtime approval.
type OvertimeRequest struct {
	Reason string
	Start  string
	End    string
	Submit bool
}

// Overtime builds an overtime approval and, with Submit set, sends it.
func (s *Service) Overtime(ctx context.Context, req OvertimeRequest) (Submission, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return Submission{}, fmt.Errorf("%w: reason", binding.ErrMissingInput)
	}
	window, err := parseWindow(req.Start, req.End)
	if err != nil {
		return Submission{}, err
	}

	event, f, err := s.overtimeEvent(ctx, reason, window)
	if err != nil {
		return Submission{}, err
	}
	return s.submitOne(ctx, event, f.missing, req.Submit, "Submit overtime approval?")
}

func (s *Service) overtimeEvent(ctx context.Context, reason string, window binding.Window) (approval.ApplyEvent, form, error) {
	in := binding.Inputs{UserID: s.settings.UserID, Reason: reason, Window: window}
	f, err := s.bindTemplate(ctx, s.settings.Templates.Overtime, binding.OvertimeRules(), in)
	if err != nil {
		return approval.ApplyEvent{}, form{}, err
	}
	event := approval.NewApplyEvent(s.settings.UserID, s.settings.Templates.Overtime, f.contents,
		"加班事由:"+reason,
		"开始:"+binding.FormatCN(window.Start),
		"结束:"+binding.FormatCN(window.End),
	)
	return event, f, nil
}

// ExpenseRequest describes an expense claim. Empty fields fall back to the
// Service settings or to derived defaults.
type ExpenseRequest struct {
	Purpose         string
	Remark          string
	Date            string
	Amount          string
	RelatedSpNo     string
	ProjectKey      string
	Project         string
	CategoryKey     string
	CategoryType    string
	CategoryKeyword string
	FileID          string
	// PickCategory asks the operator to choose the category option.
	PickCategory bool
	Submit       bool
}

// Expense builds an expense claim and, with Submit set, sends it.
func (s *Service) Expense(ctx context.Context, req ExpenseRequest) (Submission, error) {
	purpose := strings.TrimSpace(req.Purpose)
	if purpose == "" {
		return Submission{}, fmt.Errorf("%w: purpose", binding.ErrMissingInput)
	}
	date, err := s.dateOrToday(req.Date)
	if err != nil {
		return Submission{}, err
	}
	category, err := binding.ResolveCategory(binding.CategoryRequest{
		Key:     req.CategoryKey,
		Type:    req.CategoryType,
		Keyword: req.CategoryKeyword,
	}, date, s.settings.CategoryKeys)
	if err != nil {
		return Submission{}, err
	}

	in := s.expenseInputs(purpose, req.Remark, req.Amount, date, category)
	in.RelatedSpNo = strings.TrimSpace(req.RelatedSpNo)
	in.FileID = strings.TrimSpace(req.FileID)
	if key := strings.TrimSpace(req.ProjectKey); key != "" {
		in.Project.Key = key
	}
	if project := strings.TrimSpace(req.Project); project != "" {
		in.Project.Keyword = project
	}

	tree, err := s.api.TemplateDetail(ctx, s.settings.Templates.Expense)
	if err != nil {
		return Submission{}, err
	}
	all := controls.Flatten(tree)
	if req.PickCategory {
		if in.Category, err = s.pickCategory(ctx, all, in.Category); err != nil {
			return Submission{}, err
		}
	}
	f, err := bindControls(all, binding.ExpenseRules(), in)
	if err != nil {
		return Submission{}, err
	}

	event := approval.NewApplyEvent(s.settings.UserID, s.settings.Templates.Expense, f.contents,
		expenseSummary(in.Category.Keyword, purpose, date, in.Amount)...)
	return s.submitOne(ctx, event, f.missing, req.Submit, "Submit expense claim?")
}

func (s *Service) expenseInputs(purpose, remark, amount string, date int64, category binding.Choice) binding.Inputs {
	remark = strings.TrimSpace(remark)
	if remark == "" {
		remark = purpose
	}
	amount = strings.TrimSpace(amount)
	if amount == "" {
		amount = DefaultAmount
	}
	return binding.Inputs{
		UserID:   s.settings.UserID,
		Purpose:  purpose,
		Remark:   remark,
		Date:     date,
		Amount:   amount,
		Project:  binding.Choice{Key: s.settings.ProjectKey},
		Category: category,
	}
}

func expenseSummary(category, purpose string, date int64, amount string) []string {
	return []string{
		"类别:" + category,
		"用途:" + purpose,
		"日期:" + binding.FormatCNDate(date) + " 金额:" + amount,
	}
}

// pickCategory lets the operator choose among the category selector's
// options, preselecting the one the current choice resolves to.
func (s *Service) pickCategory(ctx context.Context, all []controls.Control, current binding.Choice) (binding.Choice, error) {
	rules := binding.ExpenseRules()
	for _, c := range all {
		rule, ok := binding.Match(rules, c)
		if !ok || rule.Field != "category" {
			continue
		}
		options := controls.ResolveOptions(c)
		if len(options) == 0 {
			return current, nil
		}
		labels := make([]string, len(options))
		preselect := 0
		for i, o := range options {
			labels[i] = o.Text
			if o.Key == current.Key {
				preselect = i
			}
		}
		if current.Key == "" {
			if hit, ok := controls.ChooseOption(options, current.Keyword); ok {
				for i, o := range options {
					if o.Key == hit.Key {
						preselect = i
					}
				}
			}
		}
		idx, err := s.prompt.Select(ctx, prompt.SelectConfig{
			Message:      c.Title,
			Options:      labels,
			DefaultIndex: preselect,
		})
		if err != nil {
			return current, err
		}
		if idx < 0 || idx >= len(options) {
			return current, nil
		}
		return binding.Choice{Key: options[idx].Key, Keyword: options[idx].Text}, nil
	}
	return current, nil
}

// WorkflowRequest describes a chained overtime approval and expense claim.
// Start and End are optional together; when either is missing a window is
// drawn on Date (or today).
type WorkflowRequest struct {
	Reason  string
	Purpose string
	Remark  string
	Start   string
	End     string
	Date    string
	Amount  string
	Submit  bool
}

// WorkflowResult is the outcome of a chained run.
type WorkflowResult struct {
	Overtime     approval.ApplyEvent `json:"overtime"`
	Expense      approval.ApplyEvent `json:"expense"`
	OvertimeSpNo string              `json:"overtime_sp_no,omitempty"`
	ExpenseSpNo  string              `json:"expense_sp_no,omitempty"`
	AutoWindow   bool                `json:"auto_window"`
	DryRun       bool                `json:"dry_run"`
	Missing      []MissingField      `json:"missing_required,omitempty"`
}

// Workflow submits an overtime approval, then an expense claim linked to it.
// A failed claim returns the result so far and an *approval.PartialError
// carrying the overtime sp_no.
func (s *Service) Workflow(ctx context.Context, req WorkflowRequest) (WorkflowResult, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return WorkflowResult{}, fmt.Errorf("%w: reason", binding.ErrMissingInput)
	}
	purpose := strings.TrimSpace(req.Purpose)
	if purpose == "" {
		purpose = reason
	}

	var (
		window binding.Window
		date   int64
		auto   bool
		err    error
	)
	if strings.TrimSpace(req.Start) != "" && strings.TrimSpace(req.End) != "" {
		if window, err = parseWindow(req.Start, req.End); err != nil {
			return WorkflowResult{}, err
		}
		date = binding.DayStart(window.Start)
		if strings.TrimSpace(req.Date) != "" {
			if date, err = binding.ToTs(req.Date); err != nil {
				return WorkflowResult{}, err
			}
		}
	} else {
		if date, err = s.dateOrToday(req.Date); err != nil {
			return WorkflowResult{}, err
		}
		window = binding.RandomWindow(date, s.rng)
		auto = true
	}
	category, err := binding.ResolveCategory(binding.CategoryRequest{}, date, s.settings.CategoryKeys)
	if err != nil {
		return WorkflowResult{}, err
	}

	if auto {
		msg := fmt.Sprintf("auto time window selected: %s ~ %s", binding.FormatCN(window.Start), binding.FormatCN(window.End))
		if err := s.prompt.Info(ctx, msg); err != nil {
			return WorkflowResult{}, err
		}
	}

	primary, overtimeForm, err := s.overtimeEvent(ctx, reason, window)
	if err != nil {
		return WorkflowResult{}, err
	}
	expenseTree, err := s.api.TemplateDetail(ctx, s.settings.Templates.Expense)
	if err != nil {
		return WorkflowResult{}, err
	}
	expenseControls := controls.Flatten(expenseTree)
	in := s.expenseInputs(purpose, req.Remark, req.Amount, date, category)

	var expenseMissing []controls.Control
	buildExpense := func(spNo string) (approval.ApplyEvent, error) {
		in.RelatedSpNo = spNo
		f, err := bindControls(expenseControls, binding.ExpenseRules(), in)
		if err != nil {
			return approval.ApplyEvent{}, err
		}
		expenseMissing = f.missing
		return approval.NewApplyEvent(s.settings.UserID, s.settings.Templates.Expense, f.contents,
			expenseSummary(chainCategoryLabel, purpose, date, in.Amount)...), nil
	}

	// Build the claim up front so binding errors surface before anything is
	// sent.
	if _, err := buildExpense(approval.PlaceholderSpNo); err != nil {
		return WorkflowResult{}, err
	}
	missing := append(append([]controls.Control{}, overtimeForm.missing...), expenseMissing...)
	if err := s.advise(ctx, missing); err != nil {
		return WorkflowResult{}, err
	}
	if req.Submit {
		if err := s.confirm(ctx, "Submit overtime approval and linked expense claim?"); err != nil {
			return WorkflowResult{}, err
		}
	}

	chain, err := approval.SubmitChain(ctx, s.api, primary, buildExpense, !req.Submit)
	out := WorkflowResult{
		Overtime:     chain.Primary,
		Expense:      chain.Secondary,
		OvertimeSpNo: chain.PrimaryID,
		ExpenseSpNo:  chain.SecondaryID,
		AutoWindow:   auto,
		DryRun:       chain.DryRun,
		Missing:      missingFields(missing),
	}
	if chain.PrimaryID != "" {
		s.logger.Info("overtime submitted", zap.String("sp_no", chain.PrimaryID))
	}
	if err != nil {
		return out, err
	}
	if chain.SecondaryID != "" {
		s.logger.Info("expense submitted", zap.String("sp_no", chain.SecondaryID))
	}
	return out, nil
}

func (s *Service) submitOne(ctx context.Context, event approval.ApplyEvent, missing []controls.Control, submit bool, question string) (Submission, error) {
	out := Submission{Payload: event, DryRun: !submit, Missing: missingFields(missing)}
	if err := s.advise(ctx, missing); err != nil {
		return out, err
	}
	if !submit {
		return out, nil
	}
	if err := s.confirm(ctx, question); err != nil {
		return out, err
	}
	spNo, err := approval.Submit(ctx, s.api, event)
	if err != nil {
		return out, err
	}
	s.logger.Info("approval submitted", zap.String("template_id", event.TemplateID), zap.String("sp_no", spNo))
	out.SpNo = spNo
	return out, nil
}

func parseWindow(start, end string) (binding.Window, error) {
	if strings.TrimSpace(start) == "" {
		return binding.Window{}, fmt.Errorf("%w: start", binding.ErrMissingInput)
	}
	if strings.TrimSpace(end) == "" {
		return binding.Window{}, fmt.Errorf("%w: end", binding.ErrMissingInput)
	}
	startTs, err := binding.ToTs(start)
	if err != nil {
		return binding.Window{}, err
	}
	endTs, err := binding.ToTs(end)
	if err != nil {
		return binding.Window{}, err
	}
	if _, err := binding.Hours(startTs, endTs); err != nil {
		return binding.Window{}, err
	}
	return binding.Window{Start: startTs, End: endTs}, nil
}

func (s *Service) dateOrToday(input string) (int64, error) {
	if strings.TrimSpace(input) == "" {
		return binding.DayStart(s.now().Unix()), nil
	}
	return binding.ToTs(input)
}
