package prompt

import (
	"context"
	"fmt"
	"io"
	"os"
)

// AutoDriver answers every prompt with its default without touching the
// terminal. Confirmations return Assume.
type AutoDriver struct {
	Assume bool
	Out    io.Writer
}

func (d AutoDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if cfg.Validator != nil {
		if err := cfg.Validator(cfg.Default); err != nil {
			return "", err
		}
	}
	return cfg.Default, nil
}

func (d AutoDriver) Confirm(ctx context.Context, _ ConfirmConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return d.Assume, nil
}

func (d AutoDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		return cfg.DefaultIndex, nil
	}
	return -1, nil
}

func (d AutoDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	out := d.Out
	if out == nil {
		out = os.Stderr
	}
	_, err := fmt.Fprintln(out, msg)
	return err
}

// ConfirmOrDecline asks cfg and turns a "no" into ErrDeclined.
func ConfirmOrDecline(ctx context.Context, d Driver, cfg ConfirmConfig) error {
	ok, err := d.Confirm(ctx, cfg)
	if err != nil {
		return err
	}
	if !ok {
		return ErrDeclined
	}
	return nil
}
