package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

type Export struct {
	ID          int64
	GeneratedAt int64
	UtcOffset   int64
	CouponCount int64
	Content     string
}

const createExport = `insert into export(generated_at, utc_offset, coupon_count, content)
values (?, ?, ?, ?)
returning id`

type CreateExportParams struct {
	GeneratedAt int64
	UtcOffset   int64
	CouponCount int64
	Content     string
}

func (q *Queries) CreateExport(ctx context.Context, arg CreateExportParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createExport, arg.GeneratedAt, arg.UtcOffset, arg.CouponCount, arg.Content)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const addCoupon = `insert into coupon(export_id, position, url) values (?, ?, ?)`

type AddCouponParams struct {
	ExportID int64
	Position int64
	Url      string
}

func (q *Queries) AddCoupon(ctx context.Context, arg AddCouponParams) error {
	_, err := q.db.ExecContext(ctx, addCoupon, arg.ExportID, arg.Position, arg.Url)
	return err
}

const getExport = `select id, generated_at, utc_offset, coupon_count, content from export where id = ?`

func (q *Queries) GetExport(ctx context.Context, id int64) (Export, error) {
	row := q.db.QueryRowContext(ctx, getExport, id)
	var e Export
	err := row.Scan(&e.ID, &e.GeneratedAt, &e.UtcOffset, &e.CouponCount, &e.Content)
	return e, err
}

const listExports = `select id, generated_at, utc_offset, coupon_count, content from export
order by id desc
limit ?`

func (q *Queries) ListExports(ctx context.Context, limit int64) ([]Export, error) {
	rows, err := q.db.QueryContext(ctx, listExports, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Export
	for rows.Next() {
		var e Export
		if err := rows.Scan(&e.ID, &e.GeneratedAt, &e.UtcOffset, &e.CouponCount, &e.Content); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getCoupons = `select url from coupon where export_id = ? order by position`

func (q *Queries) GetCoupons(ctx context.Context, exportID int64) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, getCoupons, exportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		items = append(items, url)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
