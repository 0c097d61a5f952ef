package postgres

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/style-sage/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*AnalysisRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return NewAnalysisRepository(db), mock, func() { _ = db.Close() }
}

func TestCreateInsertsRecord(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	createdAt := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO analyses").
		WithArgs("a-1", "Soft / Earthy", 0.42, 0.18, []byte(`["Workwear","Smart Casual"]`), createdAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), domain.AnalysisRecord{
		ID:                "a-1",
		PaletteName:       "Soft / Earthy",
		Brightness:        0.42,
		Saturation:        0.18,
		RecommendedStyles: []string{"Workwear", "Smart Casual"},
		CreatedAt:         createdAt,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateStoresEmptyStylesAsArray(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO analyses").
		WithArgs("a-2", "Unknown", 0.0, 0.0, []byte(`[]`), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), domain.AnalysisRecord{ID: "a-2", PaletteName: "Unknown"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDScansRecord(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	createdAt := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "palette_name", "brightness", "saturation", "recommended_styles", "created_at"}).
		AddRow("a-1", "Bold / Vibrant", 0.7, 0.5, []byte(`["Streetwear"]`), createdAt)
	mock.ExpectQuery("SELECT id, palette_name, brightness, saturation").
		WithArgs("a-1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "a-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	want := &domain.AnalysisRecord{
		ID:                "a-1",
		PaletteName:       "Bold / Vibrant",
		Brightness:        0.7,
		Saturation:        0.5,
		RecommendedStyles: []string{"Streetwear"},
		CreatedAt:         createdAt,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected record:\n got %+v\nwant %+v", got, want)
	}
}

func TestGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, palette_name").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrAnalysisNotFound) {
		t.Fatalf("expected ErrAnalysisNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDPropagatesDriverError(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, palette_name").
		WithArgs("a-1").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.GetByID(context.Background(), "a-1")
	if err == nil || domain.IsKind(err, domain.ErrAnalysisNotFound) {
		t.Fatalf("expected plain driver error, got %v", err)
	}
}

func TestEnsureSchemaTakesAdvisoryLock(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs(schemaLockID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS analyses").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestConfigureDBClosesOnPingFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectClose()

	if _, err := configureDB(db); err == nil {
		t.Fatalf("expected ping error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expected db to be closed: %v", err)
	}
}

func TestConfigureDBReturnsHealthyDB(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()
	mock.ExpectPing()

	got, err := configureDB(db)
	if err != nil || got != db {
		t.Fatalf("configureDB() = %v, %v", got, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
