package logging

import (
	"go.uber.org/zap"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	AuditRunStart  AuditEventType = "run_start"
	AuditRunEnd    AuditEventType = "run_end"
	AuditFileWrite AuditEventType = "file_write"
	AuditFileSkip  AuditEventType = "file_skip"
	AuditFileError AuditEventType = "file_error"
)

// AuditLogger emits one structured entry per file operation on the audit
// category. Entries carry typed zap fields so JSON output can be filtered
// by event.
type AuditLogger struct {
	operation string
}

// Audit returns an audit logger for the named operation
// (include_rewrite, namespace_rename).
func Audit(operation string) *AuditLogger {
	return &AuditLogger{operation: operation}
}

// Log writes an audit event with extra fields.
func (a *AuditLogger) Log(event AuditEventType, target string, fields ...zap.Field) {
	if !IsCategoryEnabled(CategoryAudit) {
		return
	}
	all := make([]zap.Field, 0, len(fields)+3)
	all = append(all,
		zap.String("event", string(event)),
		zap.String("op", a.operation),
		zap.String("target", target),
	)
	all = append(all, fields...)
	Base().Named(string(CategoryAudit)).Info(string(event), all...)
}

// RunStart records the steps a run is about to execute.
func (a *AuditLogger) RunStart(steps []string) {
	a.Log(AuditRunStart, "", zap.Strings("steps", steps))
}

// RunEnd records the totals of a finished run.
func (a *AuditLogger) RunEnd(visited, changed, lines int, err error) {
	fields := []zap.Field{
		zap.Int("visited", visited),
		zap.Int("changed", changed),
		zap.Int("lines", lines),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	a.Log(AuditRunEnd, "", fields...)
}

// FileWrite records a file that was overwritten with changed lines.
func (a *AuditLogger) FileWrite(path string, changed, total int) {
	a.Log(AuditFileWrite, path, zap.Int("changed", changed), zap.Int("lines", total))
}

// FileSkip records a file that was read but needed no change.
func (a *AuditLogger) FileSkip(path string, total int) {
	a.Log(AuditFileSkip, path, zap.Int("lines", total))
}

// FileError records the failure that aborted a run.
func (a *AuditLogger) FileError(path string, err error) {
	a.Log(AuditFileError, path, zap.Error(err))
}
