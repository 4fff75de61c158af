package db

import (
	"errors"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https", "https://example.com/a?b=c", false},
		{"http", "http://example.com", false},
		{"empty", "", true},
		{"ftp scheme", "ftp://example.com", true},
		{"no scheme", "example.com", true},
		{"no host", "https://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidURL) {
				t.Errorf("expected ErrInvalidURL, got %v", err)
			}
		})
	}
}

// TestAddURL tests URL creation.
func TestAddURL(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	t.Run("creates url successfully", func(t *testing.T) {
		id, created, err := db.AddURL("https://example.com", "news", 3)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if id <= 0 {
			t.Errorf("expected positive ID, got %d", id)
		}
		if !created {
			t.Error("expected created to be true")
		}

		u, err := db.GetURL(id)
		if err != nil {
			t.Fatalf("GetURL failed: %v", err)
		}
		if u.URL != "https://example.com" || u.Domain != "news" || u.Weight != 3 {
			t.Errorf("unexpected record: %+v", u)
		}
		if u.CreatedAt == "" {
			t.Error("expected CreatedAt to be set")
		}
	})

	t.Run("duplicate returns existing id", func(t *testing.T) {
		id1, _, _ := db.AddURL("https://dup.example", "news", 1)
		id2, created, err := db.AddURL("https://dup.example", "other", 5)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if created {
			t.Error("expected created to be false for duplicate")
		}
		if id1 != id2 {
			t.Errorf("expected same id, got %d and %d", id1, id2)
		}
		u, _ := db.GetURL(id1)
		if u.Domain != "news" || u.Weight != 1 {
			t.Errorf("duplicate insert must not change the row, got %+v", u)
		}
	})

	t.Run("non-positive weight uses default", func(t *testing.T) {
		id, _, err := db.AddURL("https://zero.example", "news", 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		u, _ := db.GetURL(id)
		if u.Weight != DefaultWeight {
			t.Errorf("expected weight %d, got %d", DefaultWeight, u.Weight)
		}
	})

	t.Run("rejects invalid url", func(t *testing.T) {
		_, _, err := db.AddURL("not a url", "news", 1)
		if !errors.Is(err, ErrInvalidURL) {
			t.Errorf("expected ErrInvalidURL, got %v", err)
		}
	})
}

func TestGetURL_NotFound(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	_, err := db.GetURL(99999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestImportURLs(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	db.AddURL("https://already.example", "news", 1)

	res, err := db.ImportURLs([]string{
		"https://a.example",
		"  https://b.example  ",
		"",
		"https://already.example",
		"mailto:someone@example.com",
		"https://a.example",
	}, "news", 2)
	if err != nil {
		t.Fatalf("ImportURLs failed: %v", err)
	}

	if res.Inserted != 2 {
		t.Errorf("expected 2 inserted, got %d", res.Inserted)
	}
	if res.Duplicates != 2 {
		t.Errorf("expected 2 duplicates, got %d", res.Duplicates)
	}
	if len(res.Invalid) != 1 || res.Invalid[0] != "mailto:someone@example.com" {
		t.Errorf("unexpected invalid list: %v", res.Invalid)
	}

	urls, _ := db.ListCandidates("news")
	if len(urls) != 3 {
		t.Fatalf("expected 3 urls, got %d", len(urls))
	}
	if urls[1].URL != "https://a.example" || urls[1].Weight != 2 {
		t.Errorf("unexpected imported row: %+v", urls[1])
	}
}

func TestListCandidates(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	t.Run("empty store", func(t *testing.T) {
		urls, err := db.ListCandidates("news")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(urls) != 0 {
			t.Errorf("expected empty list, got %d", len(urls))
		}
	})

	db.AddURL("https://n1.example", "news", 1)
	db.AddURL("https://s1.example", "sport", 1)
	db.AddURL("https://n2.example", "news", 4)

	t.Run("filters by domain ordered by id", func(t *testing.T) {
		urls, err := db.ListCandidates("news")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(urls) != 2 {
			t.Fatalf("expected 2 urls, got %d", len(urls))
		}
		if urls[0].ID >= urls[1].ID {
			t.Errorf("expected ascending ids, got %d then %d", urls[0].ID, urls[1].ID)
		}
		if urls[1].Weight != 4 {
			t.Errorf("expected weight 4, got %d", urls[1].Weight)
		}
	})

	t.Run("empty domain returns all", func(t *testing.T) {
		urls, _ := db.ListCandidates("")
		if len(urls) != 3 {
			t.Errorf("expected 3 urls, got %d", len(urls))
		}
	})
}

func TestSetWeightAndPage(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	id, _, _ := db.AddURL("https://example.com", "news", 1)

	if err := db.SetWeight(id, 7); err != nil {
		t.Fatalf("SetWeight failed: %v", err)
	}
	if err := db.SetPage(id, 3); err != nil {
		t.Fatalf("SetPage failed: %v", err)
	}
	u, _ := db.GetURL(id)
	if u.Weight != 7 || u.Page != 3 {
		t.Errorf("expected weight 7 page 3, got %+v", u)
	}

	if err := db.SetWeight(id, 0); !errors.Is(err, ErrInvalidWeight) {
		t.Errorf("expected ErrInvalidWeight, got %v", err)
	}
	if err := db.SetWeight(4242, 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteAndClearURLs(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	id, _, _ := db.AddURL("https://a.example", "news", 1)
	db.AddURL("https://b.example", "news", 1)
	db.AddURL("https://c.example", "news", 1)

	if err := db.DeleteURL(id); err != nil {
		t.Fatalf("DeleteURL failed: %v", err)
	}
	if err := db.DeleteURL(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}

	n, err := db.ClearURLs()
	if err != nil {
		t.Fatalf("ClearURLs failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 cleared, got %d", n)
	}
	urls, _ := db.ListCandidates("")
	if len(urls) != 0 {
		t.Errorf("expected no urls after clear, got %d", len(urls))
	}
}
