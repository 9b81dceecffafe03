// Package audit implementa el colector de auditoría por defecto: registra
// cada operación de cambio de estado como un evento estructurado. El motor
// solo conoce la interfaz journal.AuditSink; aquí vive el colaborador.
package audit

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/application/journal"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

var _ journal.AuditSink = (*LoggerSink)(nil)

// LoggerSink escribe el rastro de auditoría vía zerolog.
type LoggerSink struct {
	log *logger.Logger
}

// NewLoggerSink construye el sink.
func NewLoggerSink(log *logger.Logger) *LoggerSink {
	return &LoggerSink{log: log}
}

// Record registra la entrada de auditoría.
func (s *LoggerSink) Record(_ context.Context, e journal.AuditEntry) {
	s.log.Info().
		Str("actor", e.Actor.ID).
		Str("module", e.Module).
		Str("action", e.Action).
		Str("record_id", e.RecordID).
		Interface("changes", e.Changes).
		Msg("auditoría")
}
