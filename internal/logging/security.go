// Copyright 2026 ApexPro Tecnologia Ltda.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"go.uber.org/zap"
)

// SecurityLogger emits audit-grade events on the standard log stream with a
// stable event field so they can be filtered downstream.
type SecurityLogger struct {
	l *zap.Logger
}

func (s *SecurityLogger) SystemStartup() {
	s.l.Info("security event", zap.String("event", "sys_startup"))
}

func (s *SecurityLogger) SystemShutdown() {
	s.l.Info("security event", zap.String("event", "sys_shutdown"))
}

func (s *SecurityLogger) AuthnFailure(subject, reason string) {
	s.l.Warn("security event",
		zap.String("event", "authn_fail"),
		zap.String("subject", subject),
		zap.String("reason", reason),
	)
}
