package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"hurdl/internal/model"
)

const responseColumns = `response_id, timestamp, department, location,
	q_1, q_2, q_3, q_4, q_5, q_6, q_7, q_8, q_9, q_10`

const pgUniqueViolation = "23505"

// ResponsesTableDDL creates the responses table
const ResponsesTableDDL = `
	CREATE TABLE IF NOT EXISTS responses (
		response_id TEXT PRIMARY KEY,
		timestamp   TIMESTAMPTZ NOT NULL,
		department  TEXT,
		location    TEXT,
		q_1 INTEGER, q_2 INTEGER, q_3 INTEGER, q_4 INTEGER,
		q_5 INTEGER, q_6 INTEGER, q_7 INTEGER, q_8 INTEGER,
		q_9 TEXT, q_10 TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_responses_timestamp ON responses (timestamp)`

// PostgresResponseRepo stores responses in a flat PostgreSQL table
type PostgresResponseRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenPostgres opens and pings a PostgreSQL connection
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// NewPostgresResponseRepo creates the PostgreSQL response repository
func NewPostgresResponseRepo(db *sql.DB, logger *zap.Logger) *PostgresResponseRepo {
	return &PostgresResponseRepo{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema creates the responses table when missing
func (r *PostgresResponseRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, ResponsesTableDDL); err != nil {
		return fmt.Errorf("%w: create responses table: %w", ErrStorage, err)
	}
	return nil
}

func (r *PostgresResponseRepo) Insert(ctx context.Context, resp *model.Response) error {
	query := `INSERT INTO responses (` + responseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	args := []any{resp.ResponseID, resp.Timestamp, resp.Department, resp.Location}
	for _, k := range model.ScaleKeys {
		if v, ok := resp.Scale(k); ok {
			args = append(args, v)
		} else {
			args = append(args, nil)
		}
	}
	for _, k := range model.TextKeys {
		if v, ok := resp.Text(k); ok {
			args = append(args, v)
		} else {
			args = append(args, nil)
		}
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicateResponse, resp.ResponseID)
		}
		return fmt.Errorf("%w: insert response %s: %w", ErrStorage, resp.ResponseID, err)
	}
	return nil
}

func (r *PostgresResponseRepo) Query(ctx context.Context, filter model.ResponseFilter) ([]*model.Response, error) {
	where, args := pgWhere(filter)
	query := `SELECT ` + responseColumns + ` FROM responses` + where + ` ORDER BY timestamp, response_id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query responses: %w", ErrStorage, err)
	}
	defer rows.Close()

	responses := []*model.Response{}
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan response: %w", ErrStorage, err)
		}
		responses = append(responses, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate responses: %w", ErrStorage, err)
	}
	return responses, nil
}

func (r *PostgresResponseRepo) Distinct(ctx context.Context, field string) ([]string, error) {
	if !distinctField(field) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	// field is one of two fixed column names
	query := fmt.Sprintf(`SELECT DISTINCT %[1]s FROM responses WHERE %[1]s IS NOT NULL AND %[1]s <> '' ORDER BY %[1]s`, field)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: distinct %s: %w", ErrStorage, field, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %w", ErrStorage, field, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate %s: %w", ErrStorage, field, err)
	}
	return values, nil
}

func pgWhere(f model.ResponseFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Start != nil {
		add("timestamp >= $%d", *f.Start)
	}
	if f.End != nil {
		add("timestamp <= $%d", *f.End)
	}
	if d := f.DepartmentFilter(); d != "" {
		add("department = $%d", d)
	}
	if l := f.LocationFilter(); l != "" {
		add("location = $%d", l)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanResponse(rows *sql.Rows) (*model.Response, error) {
	var resp model.Response
	var dept, loc sql.NullString
	scales := make([]sql.NullInt64, len(model.ScaleKeys))
	texts := make([]sql.NullString, len(model.TextKeys))

	dest := []any{&resp.ResponseID, &resp.Timestamp, &dept, &loc}
	for i := range scales {
		dest = append(dest, &scales[i])
	}
	for i := range texts {
		dest = append(dest, &texts[i])
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}

	resp.Department = dept.String
	resp.Location = loc.String
	for i, k := range model.ScaleKeys {
		if scales[i].Valid {
			resp.SetScale(k, int(scales[i].Int64))
		}
	}
	for i, k := range model.TextKeys {
		if texts[i].Valid {
			resp.SetText(k, texts[i].String)
		}
	}
	return &resp, nil
}

var _ ResponseRepo = (*PostgresResponseRepo)(nil)
