package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-wecomflow/internal/config"
	"github.com/goliatone/go-wecomflow/pkg/approval"
	"github.com/goliatone/go-wecomflow/pkg/workflow"
)

func overtimeCmd(a *app) *cobra.Command {
	var req workflow.OvertimeRequest
	cmd := &cobra.Command{
		Use:   "overtime",
		Short: "Build or submit an overtime approval",
		Example: `  wecomflow overtime --reason "release support" --start "2026-02-12 19:00" --end "2026-02-12 22:30"
  wecomflow overtime --reason "release support" --start 1770894000 --end 1770906600 --submit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(config.KeyDefaultUserID, config.KeyTemplateOvertime)
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			res, err := svc.Overtime(ctx, req)
			if err != nil {
				return err
			}
			return a.printJSON(res)
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Reason, "reason", "", "overtime reason")
	f.StringVar(&req.Start, "start", "", "start time: epoch seconds or 2026-02-12 19:00")
	f.StringVar(&req.End, "end", "", "end time")
	f.BoolVar(&req.Submit, "submit", false, "send the approval instead of printing it")
	return cmd
}

func expenseCmd(a *app) *cobra.Command {
	var req workflow.ExpenseRequest
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Build or submit an expense claim",
		Long: `Build an expense claim. The category selector option is taken from
--category-key, then the --category-type alias, then the weekend or weekday
default for --date. Aliases: overtime-night, overtime-weekend, inland-trip,
travel-transport, city-transport, lodging.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(config.KeyDefaultUserID, config.KeyTemplateExpense)
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			res, err := svc.Expense(ctx, req)
			if err != nil {
				return err
			}
			return a.printJSON(res)
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Purpose, "purpose", "", "claim purpose")
	f.StringVar(&req.Remark, "remark", "", "remark (defaults to the purpose)")
	f.StringVar(&req.Date, "date", "", "claim date (defaults to today)")
	f.StringVar(&req.Amount, "amount", "", "amount (default "+workflow.DefaultAmount+")")
	f.StringVar(&req.RelatedSpNo, "related-sp-no", "", "approval number to link")
	f.StringVar(&req.ProjectKey, "project-key", "", "project selector option key")
	f.StringVar(&req.Project, "project", "", "project option keyword")
	f.StringVar(&req.CategoryKey, "category-key", "", "category selector option key")
	f.StringVar(&req.CategoryType, "category-type", "", "category alias")
	f.StringVar(&req.CategoryKeyword, "category-keyword", "", "category option keyword")
	f.StringVar(&req.FileID, "file-id", "", "media_id of an uploaded attachment")
	f.BoolVar(&req.PickCategory, "pick-category", false, "choose the category option interactively")
	f.BoolVar(&req.Submit, "submit", false, "send the claim instead of printing it")
	return cmd
}

func workflowCmd(a *app) *cobra.Command {
	var req workflow.WorkflowRequest
	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Submit an overtime approval and an expense claim linked to it",
		Long: `Submit an overtime approval, then an expense claim whose related
approval is the new overtime sp_no. Without --start and --end a window is drawn
on --date (or today): it starts on a quarter hour between 08:00 and 10:45 and
lasts 8 to 10 hours in half-hour steps, so it ends between 16:00 and 20:45.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(config.KeyDefaultUserID, config.KeyTemplateOvertime, config.KeyTemplateExpense)
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			res, err := svc.Workflow(ctx, req)
			var partial *approval.PartialError
			if errors.As(err, &partial) {
				if perr := a.printJSON(res); perr != nil {
					return perr
				}
				return fmt.Errorf("%w (overtime %s is live; submit the claim with expense --related-sp-no %s)", err, partial.PrimaryID, partial.PrimaryID)
			}
			if err != nil {
				return err
			}
			return a.printJSON(res)
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Reason, "reason", "", "overtime reason")
	f.StringVar(&req.Purpose, "purpose", "", "claim purpose (defaults to the reason)")
	f.StringVar(&req.Remark, "remark", "", "claim remark")
	f.StringVar(&req.Start, "start", "", "overtime start")
	f.StringVar(&req.End, "end", "", "overtime end")
	f.StringVar(&req.Date, "date", "", "claim date (defaults to the start day)")
	f.StringVar(&req.Amount, "amount", "", "amount (default "+workflow.DefaultAmount+")")
	f.BoolVar(&req.Submit, "submit", false, "send both forms instead of printing them")
	return cmd
}

func invoiceCmd(a *app) *cobra.Command {
	var req workflow.InvoiceRequest
	cmd := &cobra.Command{
		Use:   "invoice",
		Short: "Claim an electronic invoice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(config.KeyDefaultUserID, config.KeyTemplateInvoice)
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			res, err := svc.Invoice(ctx, req)
			if err != nil {
				return err
			}
			return a.printJSON(res)
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.File, "file", "", "invoice file")
	f.StringVar(&req.Amount, "amount", "", "invoice amount")
	f.StringVar(&req.InvoiceNo, "invoice-no", "", "invoice number (skips extraction)")
	f.BoolVar(&req.Submit, "submit", false, "upload and send the claim instead of printing it")
	return cmd
}

func uploadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a file as temporary media and print its media_id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			id, err := svc.Upload(ctx, args[0])
			if err != nil {
				return err
			}
			return a.printJSON(map[string]string{"media_id": id})
		},
	}
}

func inspectCmd(a *app) *cobra.Command {
	var profile, templateID string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List the controls of an approval template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			if templateID == "" {
				if templateID, err = svc.TemplateFor(profile); err != nil {
					return err
				}
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			list, err := svc.Inspect(ctx, templateID)
			if err != nil {
				return err
			}
			return a.printJSON(map[string]any{"template_id": templateID, "controls": list})
		},
	}
	f := cmd.Flags()
	f.StringVar(&profile, "profile", workflow.ProfileOvertime, "configured template: overtime, expense or invoice")
	f.StringVar(&templateID, "template-id", "", "template id (overrides --profile)")
	return cmd
}

func detailCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "detail SP_NO",
		Short: "Show the filled controls of an approval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			d, err := svc.Detail(ctx, args[0])
			if err != nil {
				return err
			}
			return a.printJSON(d)
		},
	}
}

func listCmd(a *app) *cobra.Command {
	var days, size int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List approval numbers submitted in the last days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			list := svc.List(ctx, days, size)
			if list == nil {
				list = []string{}
			}
			return a.printJSON(map[string]any{"count": len(list), "sp_no_list": list})
		},
	}
	f := cmd.Flags()
	f.IntVar(&days, "days", workflow.DefaultListDays, "lookback in days")
	f.IntVar(&size, "size", workflow.DefaultListSize, "page size (1-100)")
	return cmd
}

func remindCmd(a *app) *cobra.Command {
	var req workflow.RemindRequest
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Message every approver about their pending approvals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			needs := []string{}
			if !req.DryRun {
				needs = append(needs, config.KeyAgentID)
			}
			svc, err := a.service(needs...)
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			res, err := svc.Remind(ctx, req)
			if err != nil {
				return err
			}
			return a.printJSON(res)
		},
	}
	f := cmd.Flags()
	f.IntVar(&req.Days, "days", 0, "lookback in days (default from settings)")
	f.BoolVar(&req.DryRun, "dry-run", false, "print the reminders instead of sending them")
	return cmd
}

func healthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check credentials, the default user and the configured templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			res, err := svc.Health(ctx)
			if res.Text != "" {
				if perr := a.printLine(res.Text); perr != nil {
					return perr
				}
			}
			return err
		},
	}
}
