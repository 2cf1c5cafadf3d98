// Copyright 2026 ApexPro Tecnologia Ltda.
// SPDX-License-Identifier: AGPL-3.0

package onboarding

import (
	"context"

	"github.com/apexpro/onboarding-service/internal/logging"
)

type compensation struct {
	name string
	undo func(context.Context) error
}

// compensator collects compensating actions as saga steps complete and runs
// them in reverse order when a later step fails. Compensation failures are
// logged, never propagated: the triggering error always wins.
type compensator struct {
	steps  []compensation
	logger logging.LoggerInterface
}

func newCompensator(logger logging.LoggerInterface) *compensator {
	return &compensator{logger: logger}
}

func (c *compensator) push(name string, undo func(context.Context) error) {
	c.steps = append(c.steps, compensation{name: name, undo: undo})
}

func (c *compensator) run(ctx context.Context) {
	// Rollback must finish even if the request context is already gone.
	ctx = context.WithoutCancel(ctx)

	for i := len(c.steps) - 1; i >= 0; i-- {
		step := c.steps[i]
		if err := step.undo(ctx); err != nil {
			c.logger.Errorf("compensation %q failed: %v", step.name, err)
		}
	}

	c.steps = nil
}
