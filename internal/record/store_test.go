package record

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/joelkehle/docintake/internal/extraction"
	"github.com/joelkehle/docintake/internal/fieldscan"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "records.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	res := extraction.Result{
		Fields: fieldscan.FieldMap{
			fieldscan.KindName:  "Jane Doe",
			fieldscan.KindEmail: "jane.doe@mail.com",
		},
		Mode:           extraction.ModeRegex,
		FallbackReason: extraction.FallbackNoCredential,
	}
	saved, err := s.Save(context.Background(), "intake.txt", res)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == 0 {
		t.Fatal("no ID assigned")
	}

	got, err := s.Get(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Source != "intake.txt" || got.Mode != extraction.ModeRegex || got.FallbackReason != extraction.FallbackNoCredential {
		t.Fatalf("record = %+v", got)
	}
	if got.Fields[fieldscan.KindName] != "Jane Doe" {
		t.Fatalf("fields = %v", got.Fields)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("created_at not persisted")
	}
}

func TestGetMissingRecord(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		res := extraction.Result{Fields: fieldscan.FieldMap{}, Mode: extraction.ModeRegex}
		if _, err := s.Save(context.Background(), name, res); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	recs, err := s.List(context.Background(), 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 2 || recs[0].Source != "c.txt" || recs[1].Source != "b.txt" {
		t.Fatalf("recs = %+v", recs)
	}
}

func TestListEmptyStore(t *testing.T) {
	s := openTestStore(t)
	recs, err := s.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if recs == nil || len(recs) != 0 {
		t.Fatalf("recs = %#v, want empty non-nil slice", recs)
	}
}
