package wecom

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-wecomflow/pkg/approval"
	"github.com/goliatone/go-wecomflow/pkg/jsonv"
)

type templateDetailResponse struct {
	envelope
	TemplateContent json.RawMessage `json:"template_content"`
}

// TemplateDetail fetches the control tree of an approval template.
func (c *Client) TemplateDetail(ctx context.Context, templateID string) (jsonv.Value, error) {
	var resp templateDetailResponse
	body := map[string]string{"template_id": templateID}
	if err := c.postJSON(ctx, "gettemplatedetail", "/cgi-bin/oa/gettemplatedetail", body, &resp); err != nil {
		return nil, err
	}
	if len(resp.TemplateContent) == 0 {
		return jsonv.Null{}, nil
	}
	tree, err := jsonv.Parse(resp.TemplateContent)
	if err != nil {
		return nil, fmt.Errorf("wecom: gettemplatedetail: template_content: %w", err)
	}
	return tree, nil
}

type applyEventResponse struct {
	envelope
	SpNo string `json:"sp_no"`
}

// ApplyEvent submits an approval and returns its sp_no.
func (c *Client) ApplyEvent(ctx context.Context, event approval.ApplyEvent) (string, error) {
	var resp applyEventResponse
	if err := c.postJSON(ctx, "applyevent", "/cgi-bin/oa/applyevent", event, &resp); err != nil {
		return "", err
	}
	if resp.SpNo == "" {
		return "", fmt.Errorf("%w: applyevent returned no sp_no", ErrEmptyResponse)
	}
	return resp.SpNo, nil
}

type approvalInfoRequest struct {
	StartTime int64 `json:"starttime"`
	EndTime   int64 `json:"endtime"`
	Cursor    int   `json:"cursor"`
	Size      int   `json:"size"`
}

type approvalInfoResponse struct {
	envelope
	SpNoList   []string `json:"sp_no_list"`
	NextCursor int      `json:"next_cursor"`
}

// FetchPage returns one page of getapprovalinfo.
func (c *Client) FetchPage(ctx context.Context, req approval.PageRequest) (approval.Page, error) {
	body := approvalInfoRequest{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Cursor:    req.Cursor,
		Size:      req.Size,
	}
	var resp approvalInfoResponse
	if err := c.postJSON(ctx, "getapprovalinfo", "/cgi-bin/oa/getapprovalinfo", body, &resp); err != nil {
		return approval.Page{}, err
	}
	return approval.Page{Items: resp.SpNoList, NextCursor: resp.NextCursor}, nil
}

// Approval status values of sp_status.
const (
	StatusPending  = 1
	StatusApproved = 2
	StatusRejected = 3
)

// Approver identifies one approver of a record node.
type Approver struct {
	UserID string `json:"userid"`
}

// RecordDetail is one approver's state within a node.
type RecordDetail struct {
	Approver Approver `json:"approver"`
	SpStatus int      `json:"sp_status"`
}

// Record is one node of the approval flow.
type Record struct {
	SpStatus int            `json:"sp_status"`
	Details  []RecordDetail `json:"details"`
}

// Approval is the info block of getapprovaldetail. Contents holds
// apply_data.contents as an ordered tree.
type Approval struct {
	SpNo     string      `json:"sp_no"`
	SpName   string      `json:"sp_name"`
	SpStatus int         `json:"sp_status"`
	Records  []Record    `json:"sp_record"`
	Contents jsonv.Value `json:"-"`
}

type approvalDetailResponse struct {
	envelope
	Info json.RawMessage `json:"info"`
}

// ApprovalDetail fetches one approval by sp_no.
func (c *Client) ApprovalDetail(ctx context.Context, spNo string) (Approval, error) {
	var resp approvalDetailResponse
	body := map[string]string{"sp_no": spNo}
	if err := c.postJSON(ctx, "getapprovaldetail", "/cgi-bin/oa/getapprovaldetail", body, &resp); err != nil {
		return Approval{}, err
	}
	if len(resp.Info) == 0 {
		return Approval{SpNo: spNo, Contents: jsonv.Array{}}, nil
	}

	var out Approval
	if err := json.Unmarshal(resp.Info, &out); err != nil {
		return Approval{}, fmt.Errorf("wecom: getapprovaldetail: info: %w", err)
	}
	info, err := jsonv.Parse(resp.Info)
	if err != nil {
		return Approval{}, fmt.Errorf("wecom: getapprovaldetail: info: %w", err)
	}
	out.Contents = jsonv.Array{}
	if contents, ok := jsonv.Lookup(info, "apply_data", "contents"); ok {
		out.Contents = contents
	}
	if out.SpNo == "" {
		out.SpNo = spNo
	}
	return out, nil
}
