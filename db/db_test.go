package db

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pressly/goose/v3"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()

	tempFile, err := os.CreateTemp(t.TempDir(), "test_*.db")
	if err != nil {
		t.Fatalf("os.CreateTemp() failed: %v", err)
	}
	tempFile.Close()

	repo, err := Open(context.Background(), tempFile.Name())
	if err != nil {
		t.Fatalf("db.Open() failed: %v", err)
	}

	teardown := func() {
		repo.Close()
		os.Remove(tempFile.Name())
	}

	return repo, teardown
}

func TestOpen(t *testing.T) {
	t.Run("should create both partitions", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		got, err := repo.Partitions(context.Background())
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		want := []string{"config", "cookies"}
		if !reflect.DeepEqual(want, got) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, got)
		}
	})

	t.Run("should upgrade the store to the schema version", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		got, err := goose.GetDBVersion(repo.dbConn.DB)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if got != SchemaVersion {
			t.Fatalf("\nwanted:\n%d\ngot:\n%d", SchemaVersion, got)
		}
	})

	t.Run("should keep partitions and their data when opened twice", func(t *testing.T) {
		ctx := context.Background()
		name := filepath.Join(t.TempDir(), StoreName)

		first, err := Open(ctx, name)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if err := first.PutCookies(ctx, "jar", []byte(`{"a":"b"}`)); err != nil {
			t.Fatalf("storing cookies : %v", err)
		}
		first.Close()

		second, err := Open(ctx, name)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		defer second.Close()

		partitions, err := second.Partitions(ctx)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if !reflect.DeepEqual([]string{"config", "cookies"}, partitions) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", []string{"config", "cookies"}, partitions)
		}

		keys, err := second.CookieKeys(ctx)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if !reflect.DeepEqual([]string{"jar"}, keys) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", []string{"jar"}, keys)
		}
	})

	t.Run("should recreate a partition that went missing", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		ctx := context.Background()
		if _, err := repo.dbConn.Exec("DROP TABLE cookies"); err != nil {
			t.Fatalf("dropping cookies : %v", err)
		}

		if err := repo.EnsurePartitions(ctx); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		got, err := repo.Partitions(ctx)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if len(got) != 2 {
			t.Fatalf("\nwanted:\n2\ngot:\n%d", len(got))
		}
	})

	t.Run("should fail when the database cannot be opened", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "missing", StoreName)

		_, err := Open(context.Background(), name)
		if err == nil {
			t.Fatalf("\nwanted:\nerror\ngot:\nnil")
		}
	})
}
