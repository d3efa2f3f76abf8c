package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"algotrader/src/model"
)

func TestExecutionRepositoryCreateAndUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := (&ExecutionRepository{}).WithDB(db)

	exec := &model.StrategyExecution{
		ID:           "exec-1",
		StrategyID:   7,
		InitialPrice: decimal.NewFromInt(65000),
		CurrentPrice: decimal.NewFromInt(65000),
		Status:       model.ExecutionStatusActive,
		StartedAt:    time.Now(),
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "strategy_executions" (`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Create(context.Background(), exec); err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}

	exec.Status = model.ExecutionStatusStopped

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "strategy_executions" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Update(context.Background(), exec); err != nil {
		t.Fatalf("expected update to succeed, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

func TestExecutionRepositoryFindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := (&ExecutionRepository{}).WithDB(db)

	row := sqlmock.NewRows([]string{"id", "strategy_id", "status"}).
		AddRow("exec-1", 7, model.ExecutionStatusActive)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "strategy_executions" WHERE id = $1 ORDER BY "strategy_executions"."id" LIMIT $2`)).
		WithArgs("exec-1", 1).
		WillReturnRows(row)

	found, err := repo.FindByID(context.Background(), "exec-1")
	if err != nil || found == nil {
		t.Fatalf("expected to find execution, got %+v err=%v", found, err)
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "strategy_executions" WHERE id = $1 ORDER BY "strategy_executions"."id" LIMIT $2`)).
		WithArgs("missing", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	missing, err := repo.FindByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("not-found must not be an error, got %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing execution, got %+v", missing)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

func TestExecutionRepositoryListActive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := (&ExecutionRepository{}).WithDB(db)

	rows := sqlmock.NewRows([]string{"id", "status"}).
		AddRow("exec-1", model.ExecutionStatusActive).
		AddRow("exec-2", model.ExecutionStatusActive)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "strategy_executions" WHERE status = $1 ORDER BY started_at DESC`)).
		WithArgs(model.ExecutionStatusActive).
		WillReturnRows(rows)

	active, err := repo.ListActive(context.Background())
	if err != nil {
		t.Fatalf("unexpected error listing active executions: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active executions, got %d", len(active))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}
