package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/strokeguard-backend/internal/platform/logger"
)

const (
	tableName  = "records"
	insertSize = 500
)

type columnType uint8

const (
	columnText columnType = iota
	columnInteger
	columnReal
)

func (t columnType) numeric() bool { return t != columnText }

type column struct {
	name string
	typ  columnType
}

type Options struct {
	Path          string
	OutcomeColumn string
	// DSN of the SQLite database to load into. Empty means a private in-memory database.
	DSN string
}

// Load reads the CSV at opts.Path into a SQLite table. A column whose cells are all whole
// numbers becomes INTEGER. A numeric column with a fraction or an empty cell becomes REAL.
// Anything else is TEXT. Empty cells become NULL.
func Load(ctx context.Context, log *logger.Logger, opts Options) (*Store, error) {
	f, err := os.Open(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return LoadReader(ctx, log, f, opts)
}

func LoadReader(ctx context.Context, log *logger.Logger, r io.Reader, opts Options) (*Store, error) {
	if log == nil {
		log = logger.Nop()
	}
	outcome := strings.TrimSpace(opts.OutcomeColumn)
	if outcome == "" {
		return nil, errors.New("dataset: outcome column required")
	}

	header, rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	cols := inferColumns(header, rows)

	var outcomeCol *column
	for i := range cols {
		if cols[i].name == outcome {
			outcomeCol = &cols[i]
		}
	}
	if outcomeCol == nil {
		return nil, fmt.Errorf("dataset: outcome column %q not in header", outcome)
	}
	if !outcomeCol.typ.numeric() {
		return nil, fmt.Errorf("dataset: outcome column %q is not numeric", outcome)
	}

	db, err := open(opts.DSN)
	if err != nil {
		return nil, err
	}
	db = db.WithContext(ctx)

	if err := createTable(db, cols); err != nil {
		closeDB(db)
		return nil, err
	}
	if err := insertRows(db, cols, rows); err != nil {
		closeDB(db)
		return nil, err
	}

	s := &Store{
		db:      db.WithContext(context.Background()),
		log:     log.With("component", "DatasetStore"),
		columns: cols,
		outcome: outcome,
		rows:    len(rows),
	}
	s.log.Info("dataset loaded", "rows", len(rows), "columns", len(cols))
	return s, nil
}

func readCSV(r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, errors.New("dataset: empty file")
		}
		return nil, nil, fmt.Errorf("dataset: read header: %w", err)
	}
	seen := make(map[string]struct{}, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			return nil, nil, fmt.Errorf("dataset: header column %d is blank", i)
		}
		if _, dup := seen[h]; dup {
			return nil, nil, fmt.Errorf("dataset: duplicate header column %q", h)
		}
		seen[h] = struct{}{}
		header[i] = h
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("dataset: read rows: %w", err)
	}
	return header, rows, nil
}

func inferColumns(header []string, rows [][]string) []column {
	cols := make([]column, len(header))
	for j, name := range header {
		typ := columnInteger
		values := 0
		for _, row := range rows {
			cell := strings.TrimSpace(row[j])
			if cell == "" {
				if typ == columnInteger {
					typ = columnReal
				}
				continue
			}
			values++
			if _, err := strconv.ParseInt(cell, 10, 64); err == nil {
				continue
			}
			if _, ok := parseNumber(cell); !ok {
				typ = columnText
				break
			}
			typ = columnReal
		}
		if values == 0 && typ == columnInteger {
			typ = columnReal
		}
		cols[j] = column{name: name, typ: typ}
	}
	return cols
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func open(dsn string) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		dsn = fmt.Sprintf("file:dataset_%s?mode=memory&cache=shared", uuid.NewString())
	}
	gormLog := gormLogger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// an in-memory database lives only while a connection holds it
	sqlDB.SetMaxIdleConns(4)
	sqlDB.SetConnMaxIdleTime(0)
	sqlDB.SetConnMaxLifetime(0)
	return db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func createTable(db *gorm.DB, cols []column) error {
	defs := make([]string, len(cols))
	for i, c := range cols {
		typ := "TEXT"
		switch c.typ {
		case columnInteger:
			typ = "INTEGER"
		case columnReal:
			typ = "REAL"
		}
		defs[i] = quoteIdent(c.name) + " " + typ
	}
	if err := db.Exec("DROP TABLE IF EXISTS " + tableName).Error; err != nil {
		return fmt.Errorf("dataset: drop table: %w", err)
	}
	if err := db.Exec("CREATE TABLE " + tableName + " (" + strings.Join(defs, ", ") + ")").Error; err != nil {
		return fmt.Errorf("dataset: create table: %w", err)
	}
	return nil
}

func insertRows(db *gorm.DB, cols []column, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	batch := make([]map[string]interface{}, 0, insertSize)
	return db.Transaction(func(tx *gorm.DB) error {
		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			if err := tx.Table(tableName).Create(batch).Error; err != nil {
				return fmt.Errorf("dataset: insert rows: %w", err)
			}
			batch = batch[:0]
			return nil
		}
		for _, row := range rows {
			rec := make(map[string]interface{}, len(cols))
			for j, c := range cols {
				cell := strings.TrimSpace(row[j])
				switch {
				case cell == "":
					rec[c.name] = nil
				case c.typ == columnInteger:
					n, _ := strconv.ParseInt(cell, 10, 64)
					rec[c.name] = n
				case c.typ == columnReal:
					f, _ := parseNumber(cell)
					rec[c.name] = f
				default:
					rec[c.name] = row[j]
				}
			}
			batch = append(batch, rec)
			if len(batch) == insertSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		return flush()
	})
}
