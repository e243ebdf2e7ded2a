package results

import (
	"context"
	"database/sql"
	"log/slog"
	"time"
	"udemy-coupons/services/results/db"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Migrate creates the export tables when they do not exist yet.
func Migrate(ctx context.Context, sqldb *sql.DB) error {
	_, err := sqldb.ExecContext(ctx, db.Schema)
	return err
}

// SaveToDatabase stores the rendered export and each of its coupons in one
// transaction, returning the id of the new export row.
func (e Export) SaveToDatabase(ctx context.Context, sqldb *sql.DB) (int64, error) {
	ctx, span := tracer.Start(ctx, "export:SaveToDatabase")
	defer span.End()

	if len(e.Coupons) == 0 {
		return 0, ErrNoCoupons
	}

	err := Migrate(ctx, sqldb)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to migrate schema")
		return 0, err
	}

	txqry, discard, commit, err := db.NewMakeTx(sqldb)(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to begin transaction")
		return 0, err
	}
	defer discard()

	_, offset := e.GeneratedAt.Zone()
	id, err := txqry.CreateExport(ctx, db.CreateExportParams{
		GeneratedAt: e.GeneratedAt.Unix(),
		UtcOffset:   int64(offset),
		CouponCount: int64(len(e.Coupons)),
		Content:     e.Render(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create export")
		return 0, err
	}
	for i, url := range e.Coupons {
		err = txqry.AddCoupon(ctx, db.AddCouponParams{
			ExportID: id,
			Position: int64(i),
			Url:      url,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to add coupon")
			return 0, err
		}
	}

	err = commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to commit export")
		return 0, err
	}

	span.SetAttributes(attribute.Int64("export_id", id))
	slog.DebugContext(ctx, "saved export", "export_id", id, "coupons", len(e.Coupons))
	return id, nil
}

// StoredExport is an export read back from the database. Content holds the
// bytes delivered when it was saved, its deliveries write Content as is.
type StoredExport struct {
	ID int64
	Export
	Content string
}

func (s StoredExport) CopyToClipboard() error {
	if len(s.Coupons) == 0 {
		return ErrNoCoupons
	}
	return writeClipboard(s.Content)
}

func (s StoredExport) WriteFile(dir string) (string, error) {
	if len(s.Coupons) == 0 {
		return "", ErrNoCoupons
	}
	return writeExportFile(dir, s.FileName(), s.Content)
}

func fromRow(ctx context.Context, qry *db.Queries, row db.Export) (StoredExport, error) {
	coupons, err := qry.GetCoupons(ctx, row.ID)
	if err != nil {
		return StoredExport{}, err
	}
	return StoredExport{
		ID: row.ID,
		Export: Export{
			Coupons:     coupons,
			// the zone it was rendered in, so FileName matches the saved one
			GeneratedAt: time.Unix(row.GeneratedAt, 0).In(time.FixedZone("", int(row.UtcOffset))),
		},
		Content: row.Content,
	}, nil
}

func LoadExport(ctx context.Context, sqldb *sql.DB, id int64) (StoredExport, error) {
	qry := db.New(sqldb)
	row, err := qry.GetExport(ctx, id)
	if err != nil {
		return StoredExport{}, err
	}
	return fromRow(ctx, qry, row)
}

// ListExports returns the most recent exports first.
func ListExports(ctx context.Context, sqldb *sql.DB, limit int) ([]StoredExport, error) {
	err := Migrate(ctx, sqldb)
	if err != nil {
		return nil, err
	}
	qry := db.New(sqldb)
	rows, err := qry.ListExports(ctx, int64(limit))
	if err != nil {
		return nil, err
	}
	out := make([]StoredExport, 0, len(rows))
	for _, row := range rows {
		stored, err := fromRow(ctx, qry, row)
		if err != nil {
			return nil, err
		}
		out = append(out, stored)
	}
	return out, nil
}
