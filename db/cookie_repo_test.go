package db

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestCookieRepo(t *testing.T) {
	t.Run("should store and read back cookies", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		ctx := context.Background()
		want := []byte(`[{"name":"session","value":"abc"}]`)

		if err := repo.PutCookies(ctx, "example.com", want); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		got, err := repo.GetCookies(ctx, "example.com")
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if !reflect.DeepEqual(want, got) {
			t.Fatalf("\nwanted:\n%s\ngot:\n%s", want, got)
		}
	})

	t.Run("should replace the value of an existing key", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		ctx := context.Background()
		if err := repo.PutCookies(ctx, "jar", []byte("old")); err != nil {
			t.Fatalf("storing cookies : %v", err)
		}
		if err := repo.PutCookies(ctx, "jar", []byte("new")); err != nil {
			t.Fatalf("storing cookies : %v", err)
		}

		got, err := repo.GetCookies(ctx, "jar")
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if string(got) != "new" {
			t.Fatalf("\nwanted:\n%q\ngot:\n%q", "new", got)
		}
	})

	t.Run("should list keys in order", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		ctx := context.Background()
		for _, key := range []string{"b.com", "a.com", "c.com"} {
			if err := repo.PutCookies(ctx, key, []byte("{}")); err != nil {
				t.Fatalf("storing cookies : %v", err)
			}
		}

		got, err := repo.CookieKeys(ctx)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		want := []string{"a.com", "b.com", "c.com"}
		if !reflect.DeepEqual(want, got) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, got)
		}
	})

	t.Run("should return an empty key list for an empty partition", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		got, err := repo.CookieKeys(context.Background())
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if len(got) != 0 {
			t.Fatalf("\nwanted:\n0\ngot:\n%d", len(got))
		}
	})

	t.Run("should delete an existing key", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		ctx := context.Background()
		if err := repo.PutCookies(ctx, "jar", []byte("{}")); err != nil {
			t.Fatalf("storing cookies : %v", err)
		}

		if err := repo.DeleteCookies(ctx, "jar"); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		_, err := repo.GetCookies(ctx, "jar")
		if !errors.Is(err, ErrNoCookiesForKey) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", ErrNoCookiesForKey, err)
		}
	})

	t.Run("should return ErrNoCookiesForKey when deleting a key that doesn't exist", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		err := repo.DeleteCookies(context.Background(), "jar")
		if !errors.Is(err, ErrNoCookiesForKey) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", ErrNoCookiesForKey, err)
		}
	})
}
