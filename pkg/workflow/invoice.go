package workflow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-wecomflow/pkg/approval"
	"github.com/goliatone/go-wecomflow/pkg/binding"
	"github.com/goliatone/go-wecomflow/pkg/controls"
	"github.com/goliatone/go-wecomflow/pkg/docnum"
	"github.com/goliatone/go-wecomflow/pkg/prompt"
)

// PlaceholderMediaID stands in for the attachment media_id when an invoice
// claim is previewed; dry runs upload nothing.
const PlaceholderMediaID = "TO_BE_FILLED_AFTER_UPLOAD"

// InvoiceRequest describes an electronic invoice claim.
type InvoiceRequest struct {
	File      string
	Amount    string
	InvoiceNo string
	Submit    bool
}

// InvoiceSubmission is the outcome of an invoice run.
type InvoiceSubmission struct {
	Submission
	InvoiceNo string `json:"invoice_no"`
	MediaID   string `json:"media_id,omitempty"`
}

// Invoice claims an electronic invoice. The invoice number comes from
// InvoiceNo, then the extractor, then the operator.
func (s *Service) Invoice(ctx context.Context, req InvoiceRequest) (InvoiceSubmission, error) {
	path := strings.TrimSpace(req.File)
	if path == "" {
		return InvoiceSubmission{}, fmt.Errorf("%w: file", binding.ErrMissingInput)
	}
	amount := strings.TrimSpace(req.Amount)
	if amount == "" {
		return InvoiceSubmission{}, fmt.Errorf("%w: amount", binding.ErrMissingInput)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return InvoiceSubmission{}, fmt.Errorf("workflow: read invoice: %w", err)
	}

	invoiceNo, err := s.invoiceNumber(ctx, req.InvoiceNo, data)
	if err != nil {
		return InvoiceSubmission{}, err
	}

	tree, err := s.api.TemplateDetail(ctx, s.settings.Templates.Invoice)
	if err != nil {
		return InvoiceSubmission{}, err
	}
	all := controls.Flatten(tree)
	build := func(mediaID string) (approval.ApplyEvent, form, error) {
		in := binding.Inputs{UserID: s.settings.UserID, InvoiceNo: invoiceNo, FileID: mediaID, Amount: amount}
		f, err := bindControls(all, binding.InvoiceRules(), in)
		if err != nil {
			return approval.ApplyEvent{}, form{}, err
		}
		return approval.NewApplyEvent(s.settings.UserID, s.settings.Templates.Invoice, f.contents,
			"发票号:"+invoiceNo,
			"金额:"+amount,
			"电子发票提交",
		), f, nil
	}

	event, f, err := build(PlaceholderMediaID)
	if err != nil {
		return InvoiceSubmission{}, err
	}
	out := InvoiceSubmission{
		Submission: Submission{Payload: event, DryRun: !req.Submit, Missing: missingFields(f.missing)},
		InvoiceNo:  invoiceNo,
	}
	if err := s.advise(ctx, f.missing); err != nil {
		return out, err
	}
	if !req.Submit {
		return out, nil
	}
	if err := s.confirm(ctx, fmt.Sprintf("Upload %s and submit invoice %s?", filepath.Base(path), invoiceNo)); err != nil {
		return out, err
	}

	mediaID, err := s.api.UploadMedia(ctx, filepath.Base(path), bytes.NewReader(data))
	if err != nil {
		return out, err
	}
	s.logger.Info("invoice uploaded", zap.String("media_id", mediaID))
	out.MediaID = mediaID
	if out.Payload, _, err = build(mediaID); err != nil {
		return out, err
	}

	spNo, err := approval.Submit(ctx, s.api, out.Payload)
	if err != nil {
		return out, err
	}
	out.SpNo = spNo
	s.logger.Info("invoice submitted", zap.String("sp_no", spNo))
	return out, nil
}

func (s *Service) invoiceNumber(ctx context.Context, override string, data []byte) (string, error) {
	invoiceNo, err := docnum.Resolve(ctx, override, s.extractor, data)
	if err == nil {
		return invoiceNo, nil
	}
	if !errors.Is(err, docnum.ErrNotFound) {
		return "", err
	}
	s.logger.Warn("invoice number extraction failed", zap.Error(err))

	typed, perr := s.prompt.Input(ctx, prompt.InputConfig{
		Message: "Invoice number",
		Help:    "The number could not be read from the attachment.",
	})
	if perr != nil {
		return "", perr
	}
	if v := strings.TrimSpace(typed); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%w; pass --invoice-no", err)
}

// Upload sends a file to temporary media storage and returns its media_id.
func (s *Service) Upload(ctx context.Context, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("%w: file", binding.ErrMissingInput)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("workflow: open upload: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return s.api.UploadMedia(ctx, filepath.Base(path), f)
}
