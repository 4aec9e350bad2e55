package db

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tfkr-ae/ramjet/domain"
)

func TestConfigRepo_SaveConfig(t *testing.T) {
	t.Run("should read back the configuration that was saved", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		ctx := context.Background()
		want := domain.Defaults()
		want.Prefix = "/px/"
		want.SiteFlags["example\\.com"] = domain.Flags{"syncxhr": true}

		if err := repo.SaveConfig(ctx, want); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		got, err := repo.LoadConfig(ctx)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if !reflect.DeepEqual(want.Map(), got.Map()) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want.Map(), got.Map())
		}
	})

	t.Run("should replace the previous configuration", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		ctx := context.Background()
		first := domain.Defaults()
		second := domain.Defaults()
		second.Prefix = "/second/"

		if err := repo.SaveConfig(ctx, first); err != nil {
			t.Fatalf("saving first : %v", err)
		}
		if err := repo.SaveConfig(ctx, second); err != nil {
			t.Fatalf("saving second : %v", err)
		}

		var count int
		if err := repo.dbConn.Get(&count, "SELECT COUNT(*) FROM config"); err != nil {
			t.Fatalf("counting config rows : %v", err)
		}
		if count != 1 {
			t.Fatalf("\nwanted:\n1\ngot:\n%d", count)
		}

		got, err := repo.LoadConfig(ctx)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if got.Prefix != "/second/" {
			t.Fatalf("\nwanted:\n%q\ngot:\n%q", "/second/", got.Prefix)
		}
	})

	t.Run("should return ErrNoConfig when nothing was saved", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		_, err := repo.LoadConfig(context.Background())
		if !errors.Is(err, ErrNoConfig) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", ErrNoConfig, err)
		}
	})

	t.Run("should fail when the partition is missing", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		if _, err := repo.dbConn.Exec("DROP TABLE config"); err != nil {
			t.Fatalf("dropping config : %v", err)
		}

		err := repo.SaveConfig(context.Background(), domain.Defaults())
		if err == nil {
			t.Fatalf("\nwanted:\nerror\ngot:\nnil")
		}
	})
}
