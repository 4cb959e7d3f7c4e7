package db

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type txProbe struct {
	ID   int
	Name string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&txProbe{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func countProbes(t *testing.T, conn *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := conn.Model(&txProbe{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return count
}

func TestWithTxCommits(t *testing.T) {
	conn := newTestDB(t)
	client := &Client{conn: conn}

	if err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Create(&txProbe{Name: "committed"}).Error
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}
	if got := countProbes(t, conn); got != 1 {
		t.Fatalf("expected 1 record, got %d", got)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	conn := newTestDB(t)
	client := &Client{conn: conn}

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Create(&txProbe{Name: "rolled"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to return an error")
	}
	if got := countProbes(t, conn); got != 0 {
		t.Fatalf("expected rollback, found %d records", got)
	}
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	conn := newTestDB(t)
	client := &Client{conn: conn}

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_ = client.WithTx(context.Background(), func(tx *gorm.DB) error {
			_ = tx.Create(&txProbe{Name: "panicked"}).Error
			panic("boom")
		})
	}()
	if got := countProbes(t, conn); got != 0 {
		t.Fatalf("expected rollback after panic, found %d records", got)
	}
}
