package workflow

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/goliatone/go-wecomflow/pkg/approval"
	"github.com/goliatone/go-wecomflow/pkg/report"
	"github.com/goliatone/go-wecomflow/pkg/wecom"
)

// Listing bounds.
const (
	DefaultListDays = 30
	DefaultListSize = 20
	maxListSize     = 100
	// remindWindow keeps only the most recent approvals of a reminder scan.
	remindWindow  = 300
	remindSamples = 10
	// failedUserCap bounds FailedUsers in a reminder result.
	failedUserCap = 20
)

// List returns the sp_no of approvals submitted in the last days days.
// Paging errors truncate the list rather than failing it.
func (s *Service) List(ctx context.Context, days, size int) []string {
	if days <= 0 {
		days = DefaultListDays
	}
	size = min(max(size, 1), maxListSize)
	return approval.ListAll(ctx, s.api, s.lookback(days), size, approval.DefaultListRounds, s.logger)
}

func (s *Service) lookback(days int) approval.Query {
	end := s.now().Unix()
	return approval.Query{StartTime: end - int64(days)*24*3600, EndTime: end}
}

// RemindRequest configures a reminder run.
type RemindRequest struct {
	// Days overrides the configured lookback.
	Days   int
	DryRun bool
}

// FailedUser is a reminder that could not be delivered.
type FailedUser struct {
	UserID  string `json:"uid"`
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// Preview is a reminder that would be sent in a dry run.
type Preview struct {
	UserID  string `json:"uid"`
	Message string `json:"message"`
}

// RemindResult summarises a reminder run.
type RemindResult struct {
	UsersWithPending int          `json:"usersWithPending"`
	Sent             int          `json:"sent"`
	Failed           int          `json:"failed"`
	FailedUsers      []FailedUser `json:"failedUsers"`
	Previews         []Preview    `json:"previews,omitempty"`
}

type pending struct {
	userID string
	total  int
	byType map[string]int
	// order keeps template names in first-seen order for stable ties.
	order   []string
	samples []report.Sample
}

// Remind tells every approver with pending approvals how many are waiting.
func (s *Service) Remind(ctx context.Context, req RemindRequest) (RemindResult, error) {
	days := req.Days
	if days <= 0 {
		days = s.settings.LookbackDays
	}
	spNos := approval.ListAll(ctx, s.api, s.lookback(days), maxListSize, approval.DefaultRemindRounds, s.logger)
	if len(spNos) > remindWindow {
		spNos = spNos[len(spNos)-remindWindow:]
	}

	users, err := s.pendingByApprover(ctx, spNos)
	if err != nil {
		return RemindResult{}, err
	}

	out := RemindResult{UsersWithPending: len(users), FailedUsers: []FailedUser{}}
	for _, p := range users {
		msg, err := s.report.Reminder(p.reminder(), s.now())
		if err != nil {
			return out, err
		}
		if req.DryRun {
			out.Previews = append(out.Previews, Preview{UserID: p.userID, Message: msg})
			continue
		}
		if err := s.api.SendText(ctx, s.settings.AgentID, p.userID, msg); err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			out.Failed++
			s.logger.Warn("reminder not delivered", zap.String("userid", p.userID), zap.Error(err))
			if len(out.FailedUsers) < failedUserCap {
				out.FailedUsers = append(out.FailedUsers, failedUser(p.userID, err))
			}
			continue
		}
		out.Sent++
	}
	return out, nil
}

// pendingByApprover aggregates, per approver, the approvals still waiting
// for them. Approvals that cannot be read are skipped.
func (s *Service) pendingByApprover(ctx context.Context, spNos []string) ([]*pending, error) {
	index := make(map[string]*pending)
	var users []*pending
	for _, spNo := range spNos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a, err := s.api.ApprovalDetail(ctx, spNo)
		if err != nil {
			s.logger.Warn("approval detail unavailable", zap.String("sp_no", spNo), zap.Error(err))
			continue
		}
		if a.SpStatus != wecom.StatusPending {
			continue
		}
		name := a.SpName
		if name == "" {
			name = "审批"
		}
		for _, record := range a.Records {
			for _, d := range record.Details {
				uid := d.Approver.UserID
				if uid == "" || d.SpStatus != wecom.StatusPending {
					continue
				}
				p, ok := index[uid]
				if !ok {
					p = &pending{userID: uid, byType: make(map[string]int)}
					index[uid] = p
					users = append(users, p)
				}
				p.add(spNo, name)
			}
		}
	}
	return users, nil
}

func (p *pending) add(spNo, name string) {
	p.total++
	if _, seen := p.byType[name]; !seen {
		p.order = append(p.order, name)
	}
	p.byType[name]++
	if len(p.samples) < remindSamples {
		p.samples = append(p.samples, report.Sample{SpNo: spNo, SpName: name})
	}
}

func (p *pending) reminder() report.Reminder {
	counts := make([]report.TypeCount, 0, len(p.order))
	for _, name := range p.order {
		counts = append(counts, report.TypeCount{Name: name, Count: p.byType[name]})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return report.Reminder{Total: p.total, ByType: counts, Samples: p.samples}
}

func failedUser(uid string, err error) FailedUser {
	out := FailedUser{UserID: uid, ErrCode: -1, ErrMsg: err.Error()}
	var apiErr *wecom.APIError
	if errors.As(err, &apiErr) {
		out.ErrCode = apiErr.Code
		out.ErrMsg = apiErr.Message
	}
	return out
}

