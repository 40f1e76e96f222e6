package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-wecomflow/internal/config"
	"github.com/goliatone/go-wecomflow/internal/logging"
	"github.com/goliatone/go-wecomflow/pkg/prompt"
	"github.com/goliatone/go-wecomflow/pkg/report"
	"github.com/goliatone/go-wecomflow/pkg/wecom"
	"github.com/goliatone/go-wecomflow/pkg/workflow"
)

// app carries the global flags and the collaborators each command builds
// its Service from.
type app struct {
	out    io.Writer
	errOut io.Writer

	verbose    bool
	configPath string
	timeout    time.Duration
	yes        bool

	logger *zap.Logger
	cfg    *config.Config

	// newAPI and newPrompt are replaced in tests.
	newAPI    func(cfg *config.Config, logger *zap.Logger) (workflow.API, error)
	newPrompt func() prompt.Driver
	now       func() time.Time
}

func newApp(out, errOut io.Writer) *app {
	a := &app{out: out, errOut: errOut, now: time.Now}
	a.newAPI = func(cfg *config.Config, logger *zap.Logger) (workflow.API, error) {
		client, err := wecom.New(cfg.CorpID, cfg.Secret,
			wecom.WithBaseURL(cfg.BaseURL),
			wecom.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	a.newPrompt = func() prompt.Driver {
		if a.yes {
			return prompt.AutoDriver{Assume: true, Out: a.errOut}
		}
		return prompt.NewSurveyDriver(a.errOut)
	}
	return a
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "wecomflow",
		Short: "Fill and submit WeCom OA approval forms",
		Long: `wecomflow reads a WeCom approval template, binds business values to its
controls and submits the result. Without --submit every command prints the
payload it would send.

Settings come from wecomflow.yaml (or --config) and WECOM_* variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(a.verbose)
			if err != nil {
				return err
			}
			a.logger = logger
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging on stderr")
	flags.StringVar(&a.configPath, "config", "", "settings file (default "+config.DefaultPath+" when present)")
	flags.DurationVar(&a.timeout, "timeout", 2*time.Minute, "deadline for the whole command")
	flags.BoolVarP(&a.yes, "yes", "y", false, "answer every confirmation with yes")

	root.AddCommand(
		overtimeCmd(a),
		expenseCmd(a),
		workflowCmd(a),
		invoiceCmd(a),
		uploadCmd(a),
		inspectCmd(a),
		detailCmd(a),
		listCmd(a),
		remindCmd(a),
		healthCmd(a),
	)
	return root
}

// service validates the settings a command needs and builds a Service.
func (a *app) service(needs ...string) (*workflow.Service, error) {
	needs = append([]string{config.KeyCorpID, config.KeySecret}, needs...)
	if err := a.cfg.Validate(needs...); err != nil {
		return nil, err
	}
	api, err := a.newAPI(a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	engine, err := report.New(report.WithBaseDir(a.cfg.ReportDir))
	if err != nil {
		return nil, err
	}
	settings := workflow.Settings{
		UserID:  a.cfg.DefaultUserID,
		AgentID: a.cfg.AgentID,
		Templates: workflow.Templates{
			Overtime: a.cfg.Templates.Overtime,
			Expense:  a.cfg.Templates.Expense,
			Invoice:  a.cfg.Templates.Invoice,
		},
		ProjectKey:   a.cfg.Expense.ProjectKey,
		CategoryKeys: a.cfg.CategoryKeys(),
		LookbackDays: a.cfg.Remind.LookbackDays,
	}
	return workflow.New(api, settings,
		workflow.WithLogger(a.logger),
		workflow.WithPrompt(a.newPrompt()),
		workflow.WithReport(engine),
		workflow.WithClock(a.now),
	)
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func (a *app) printLine(s string) error {
	_, err := fmt.Fprintln(a.out, s)
	return err
}
