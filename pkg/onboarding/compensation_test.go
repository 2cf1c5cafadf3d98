// Copyright 2026 ApexPro Tecnologia Ltda.
// SPDX-License-Identifier: AGPL-3.0

package onboarding

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"
)

func TestCompensator_RunsInReverseOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := NewMockLoggerInterface(ctrl)

	var ran []string
	record := func(name string) func(context.Context) error {
		return func(context.Context) error {
			ran = append(ran, name)
			return nil
		}
	}

	comp := newCompensator(mockLogger)
	comp.push("first", record("first"))
	comp.push("second", record("second"))
	comp.push("third", record("third"))

	comp.run(context.Background())

	expected := []string{"third", "second", "first"}
	if len(ran) != len(expected) {
		t.Fatalf("expected %d compensations, got %d", len(expected), len(ran))
	}
	for i := range expected {
		if ran[i] != expected[i] {
			t.Errorf("expected %q at position %d, got %q", expected[i], i, ran[i])
		}
	}
}

func TestCompensator_FailureDoesNotStopTheRest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := NewMockLoggerInterface(ctrl)
	mockLogger.EXPECT().Errorf(gomock.Any(), gomock.Any(), gomock.Any())

	var ran []string

	comp := newCompensator(mockLogger)
	comp.push("first", func(context.Context) error {
		ran = append(ran, "first")
		return nil
	})
	comp.push("second", func(context.Context) error {
		return errors.New("undo failed")
	})

	comp.run(context.Background())

	if len(ran) != 1 || ran[0] != "first" {
		t.Errorf("expected the remaining compensation to run, got %v", ran)
	}
}

func TestCompensator_SurvivesCancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := NewMockLoggerInterface(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	comp := newCompensator(mockLogger)
	comp.push("undo", func(ctx context.Context) error {
		return ctx.Err()
	})

	// The undo sees a detached context, so the push above returns nil and
	// nothing is logged.
	comp.run(ctx)
}
