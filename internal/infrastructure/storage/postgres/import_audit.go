package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	"stockbook/internal/core/id"
	"stockbook/internal/domain/importer"
)

const importSessionsTable = "import_sessions"

// CompressionAlgo specifies the compression algorithm used for payloads.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// ImportAuditLog persists committed import sessions, compressing row payloads
// above a size threshold. Implements importer.AuditRecorder.
type ImportAuditLog struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder

	compressThreshold int // bytes
}

// NewImportAuditLog creates an import audit log.
func NewImportAuditLog(txManager *TxManager) (*ImportAuditLog, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &ImportAuditLog{
		txManager:         txManager,
		builder:           squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024, // 10KB
	}, nil
}

type sessionRow struct {
	ID          id.ID           `db:"id"`
	Flow        string          `db:"flow"`
	Accepted    int             `db:"accepted"`
	Duplicates  int             `db:"duplicates"`
	Errors      int             `db:"errors"`
	Applied     int             `db:"applied"`
	StartedAt   time.Time       `db:"started_at"`
	FinishedAt  time.Time       `db:"finished_at"`
	Payload     []byte          `db:"payload"`
	Compression CompressionAlgo `db:"compression"`
}

// RecordSession stores one import session. Payloads above the threshold are
// zstd-compressed.
func (l *ImportAuditLog) RecordSession(ctx context.Context, session importer.Session) error {
	payload := session.Payload
	compression := CompressionNone
	if len(payload) > l.compressThreshold {
		payload = l.encoder.EncodeAll(payload, nil)
		compression = CompressionZstd
	}

	sql, args, err := l.builder.
		Insert(importSessionsTable).
		Columns("id", "flow", "accepted", "duplicates", "errors", "applied",
			"started_at", "finished_at", "payload", "compression").
		Values(session.ID, session.Flow, session.Accepted, session.Duplicates, session.Errors,
			session.Applied, session.StartedAt, session.FinishedAt, payload, compression).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := l.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// ListRecent returns the most recent sessions with payloads decompressed.
func (l *ImportAuditLog) ListRecent(ctx context.Context, limit int) ([]importer.Session, error) {
	if limit <= 0 {
		limit = 50
	}

	sql, args, err := l.builder.
		Select("id", "flow", "accepted", "duplicates", "errors", "applied",
			"started_at", "finished_at", "payload", "compression").
		From(importSessionsTable).
		OrderBy("started_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []sessionRow
	if err := pgxscan.Select(ctx, l.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select sessions: %w", err)
	}

	sessions := make([]importer.Session, 0, len(rows))
	for _, row := range rows {
		payload := row.Payload
		if row.Compression == CompressionZstd {
			decompressed, err := l.decoder.DecodeAll(row.Payload, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress session %s: %w", row.ID, err)
			}
			payload = decompressed
		}

		sessions = append(sessions, importer.Session{
			ID:         row.ID,
			Flow:       row.Flow,
			Accepted:   row.Accepted,
			Duplicates: row.Duplicates,
			Errors:     row.Errors,
			Applied:    row.Applied,
			StartedAt:  row.StartedAt,
			FinishedAt: row.FinishedAt,
			Payload:    payload,
		})
	}
	return sessions, nil
}
