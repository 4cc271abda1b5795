// Package backup streams database tables to and from NDJSON dump files.
//
// A dump starts with a meta record carrying the format version and the
// tables that follow; every other line holds one row. Imports replay
// rows as keyed upserts inside a single transaction, so re-importing a
// dump is idempotent and a failed import leaves the database untouched.
package backup

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eslsoft/phrasenet/internal/adapter/repository"
)

const (
	defaultBatchSize = 512
	formatVersion    = 1
	recordTypeMeta   = "meta"
)

var errNoTablesSelected = errors.New("backup: no tables selected")

// ProgressReporter receives per-table progress while an export runs.
type ProgressReporter interface {
	StartTable(table string, total int)
	Increment(table string, delta int)
	FinishTable(table string)
}

type noopProgress struct{}

func (noopProgress) StartTable(string, int) {}
func (noopProgress) Increment(string, int)  {}
func (noopProgress) FinishTable(string)     {}

// Service exports and imports the full persisted state of a deck.
type Service struct {
	db        *gorm.DB
	batchSize int
	tables    []repository.BackupTable
	byName    map[string]repository.BackupTable
}

// Option adjusts how a Service reads and writes dumps.
type Option func(*Service)

// WithBatchSize overrides how many rows are fetched per query during export.
func WithBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

// NewService builds a backup service over an open database handle. The
// table set comes from the repository schema registry.
func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{
		db:        db,
		batchSize: defaultBatchSize,
		tables:    repository.BackupTables(),
	}
	s.byName = make(map[string]repository.BackupTable, len(s.tables))
	for _, tbl := range s.tables {
		s.byName[tbl.Name] = tbl
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type exportOptions struct {
	tables   []string
	progress ProgressReporter
}

// ExportOption adjusts a single Export call.
type ExportOption func(*exportOptions)

// WithTables restricts an export to the named tables.
func WithTables(tables []string) ExportOption {
	return func(o *exportOptions) { o.tables = tables }
}

// WithProgressReporter streams table progress to the reporter.
func WithProgressReporter(progress ProgressReporter) ExportOption {
	return func(o *exportOptions) {
		if progress != nil {
			o.progress = progress
		}
	}
}

type importOptions struct {
	tables []string
}

// ImportOption adjusts a single Import call.
type ImportOption func(*importOptions)

// WithImportTables restricts an import to the named tables; records for
// other known tables are skipped rather than rejected.
func WithImportTables(tables []string) ImportOption {
	return func(o *importOptions) { o.tables = tables }
}

type metaRecord struct {
	Type       string           `json:"type"`
	Version    int              `json:"version"`
	ExportedAt time.Time        `json:"exported_at"`
	SchemaHash string           `json:"schema_hash"`
	Tables     []string         `json:"tables"`
	RowCounts  map[string]int64 `json:"row_counts"`
}

type rowRecord struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Export writes the selected tables to w as NDJSON, meta record first.
func (s *Service) Export(ctx context.Context, w io.Writer, opts ...ExportOption) error {
	options := exportOptions{progress: noopProgress{}}
	for _, opt := range opts {
		opt(&options)
	}

	selected, err := s.selectTables(options.tables)
	if err != nil {
		return err
	}

	counts := make(map[string]int64, len(selected))
	names := make([]string, 0, len(selected))
	for _, tbl := range selected {
		var count int64
		if err := s.db.WithContext(ctx).Table(tbl.Name).Count(&count).Error; err != nil {
			return fmt.Errorf("count %s: %w", tbl.Name, err)
		}
		counts[tbl.Name] = count
		names = append(names, tbl.Name)
	}

	meta := metaRecord{
		Type:       recordTypeMeta,
		Version:    formatVersion,
		ExportedAt: time.Now().UTC(),
		SchemaHash: s.schemaHash(),
		Tables:     names,
		RowCounts:  counts,
	}
	if err := writeRecord(w, meta); err != nil {
		return fmt.Errorf("write meta record: %w", err)
	}

	for _, tbl := range selected {
		if err := s.exportTable(ctx, w, tbl, counts[tbl.Name], options.progress); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) exportTable(ctx context.Context, w io.Writer, tbl repository.BackupTable, total int64, progress ProgressReporter) error {
	progress.StartTable(tbl.Name, int(total))
	defer progress.FinishTable(tbl.Name)

	orderBy := strings.Join(tbl.Key, ", ")
	for offset := 0; ; offset += s.batchSize {
		dest := tbl.NewSlice()
		err := s.db.WithContext(ctx).
			Table(tbl.Name).
			Order(orderBy).
			Limit(s.batchSize).
			Offset(offset).
			Find(dest).Error
		if err != nil {
			return fmt.Errorf("read %s rows: %w", tbl.Name, err)
		}

		rows := reflect.ValueOf(dest).Elem()
		for i := 0; i < rows.Len(); i++ {
			payload, err := json.Marshal(rows.Index(i).Interface())
			if err != nil {
				return fmt.Errorf("encode %s row: %w", tbl.Name, err)
			}
			if err := writeRecord(w, rowRecord{Type: tbl.Name, Payload: payload}); err != nil {
				return fmt.Errorf("write %s row: %w", tbl.Name, err)
			}
		}
		progress.Increment(tbl.Name, rows.Len())
		if rows.Len() < s.batchSize {
			return nil
		}
	}
}

// Import replays an NDJSON dump into the database. Rows are upserted by
// table key inside one transaction.
func (s *Service) Import(ctx context.Context, r io.Reader, opts ...ImportOption) error {
	var options importOptions
	for _, opt := range opts {
		opt(&options)
	}

	selected, err := s.selectTables(options.tables)
	if err != nil {
		return err
	}
	wanted := make(map[string]bool, len(selected))
	for _, tbl := range selected {
		wanted[tbl.Name] = true
	}

	maxIDs := make(map[string]int64)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reader := bufio.NewReader(r)
		metaSeen := false
		for {
			line, readErr := reader.ReadBytes('\n')
			trimmed := bytes.TrimSpace(line)
			if len(trimmed) > 0 {
				if err := s.importLine(tx, trimmed, wanted, &metaSeen, maxIDs); err != nil {
					return err
				}
			}
			if readErr == io.EOF {
				break
			}
			if readErr != nil {
				return fmt.Errorf("read backup stream: %w", readErr)
			}
		}
		if !metaSeen {
			return errors.New("backup stream has no meta record")
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.syncSequences(ctx, maxIDs)
}

func (s *Service) importLine(tx *gorm.DB, line []byte, wanted map[string]bool, metaSeen *bool, maxIDs map[string]int64) error {
	var rec rowRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		return fmt.Errorf("decode backup record: %w", err)
	}

	if rec.Type == recordTypeMeta {
		var meta metaRecord
		if err := json.Unmarshal(line, &meta); err != nil {
			return fmt.Errorf("decode meta record: %w", err)
		}
		if meta.Version != formatVersion {
			return fmt.Errorf("unsupported backup version %d, expected %d", meta.Version, formatVersion)
		}
		*metaSeen = true
		return nil
	}
	if !*metaSeen {
		return errors.New("backup stream must start with a meta record")
	}

	tbl, ok := s.byName[rec.Type]
	if !ok {
		return fmt.Errorf("unknown table %q in backup stream", rec.Type)
	}
	if !wanted[rec.Type] {
		return nil
	}

	row := tbl.NewRow()
	if err := json.Unmarshal(rec.Payload, row); err != nil {
		return fmt.Errorf("decode %s row: %w", tbl.Name, err)
	}
	if err := tx.Clauses(upsertClause(tbl)).Create(row).Error; err != nil {
		return fmt.Errorf("import %s row: %w", tbl.Name, err)
	}

	if len(tbl.Key) == 1 && tbl.Key[0] == "id" {
		if field := reflect.ValueOf(row).Elem().FieldByName("ID"); field.IsValid() && field.Int() > maxIDs[tbl.Name] {
			maxIDs[tbl.Name] = field.Int()
		}
	}
	return nil
}

func (s *Service) selectTables(names []string) ([]repository.BackupTable, error) {
	if len(names) == 0 {
		return s.tables, nil
	}
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, ok := s.byName[name]; !ok {
			return nil, fmt.Errorf("unknown table %q", name)
		}
		wanted[name] = true
	}
	if len(wanted) == 0 {
		return nil, errNoTablesSelected
	}
	// Selection keeps registry order so imports hit referenced tables first.
	selected := make([]repository.BackupTable, 0, len(wanted))
	for _, tbl := range s.tables {
		if wanted[tbl.Name] {
			selected = append(selected, tbl)
		}
	}
	return selected, nil
}

// schemaHash fingerprints the table registry. Imports do not enforce it;
// it exists to diagnose dumps taken under a different schema.
func (s *Service) schemaHash() string {
	lines := make([]string, 0, len(s.tables))
	for _, tbl := range s.tables {
		lines = append(lines, tbl.Name+"|"+strings.Join(tbl.Columns, ",")+"|"+strings.Join(tbl.Key, ","))
	}
	sort.Strings(lines)
	sum := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(sum[:])
}

// syncSequences realigns serial sequences after rows arrived with explicit
// ids. Only postgres needs this; sqlite derives the next rowid from the
// table itself.
func (s *Service) syncSequences(ctx context.Context, maxIDs map[string]int64) error {
	if s.db.Dialector.Name() != "postgres" || len(maxIDs) == 0 {
		return nil
	}
	tables := lo.Keys(maxIDs)
	sort.Strings(tables)
	for _, table := range tables {
		stmt := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', 'id'), GREATEST(%d, (SELECT COALESCE(MAX(id), 0) FROM %s)))",
			table, maxIDs[table], table,
		)
		if err := s.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("sync sequence for %s: %w", table, err)
		}
	}
	return nil
}

func upsertClause(tbl repository.BackupTable) clause.OnConflict {
	conflict := clause.OnConflict{
		Columns: lo.Map(tbl.Key, func(col string, _ int) clause.Column {
			return clause.Column{Name: col}
		}),
	}
	updates := lo.Filter(tbl.Columns, func(col string, _ int) bool {
		return !lo.Contains(tbl.Key, col)
	})
	if len(updates) == 0 {
		conflict.DoNothing = true
		return conflict
	}
	conflict.DoUpdates = clause.AssignmentColumns(updates)
	return conflict
}

func writeRecord(w io.Writer, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
