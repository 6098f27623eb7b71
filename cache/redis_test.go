package cache

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"github.com/glotmark/glotmark"
)

func TestRedisPersister_Load_Hit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	p := NewRedisPersisterFromClient(db, "", 0)

	doc, err := json.Marshal(ExportFormat{
		Version: ExportVersion,
		Entries: []Entry{{
			Key: "hello:es",
			Result: glotmark.TranslationResult{
				OriginalText:   "hello",
				TranslatedText: "hola",
				TargetLanguage: "es",
			},
		}},
	})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	mock.ExpectGet("glotmark:cache").SetVal(string(doc))

	entries, err := p.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Result.TranslatedText != "hola" {
		t.Errorf("Expected 'hola', got %q", entries[0].Result.TranslatedText)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisPersister_Load_MissingKey(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	p := NewRedisPersisterFromClient(db, "", 0)

	mock.ExpectGet("glotmark:cache").RedisNil()

	entries, err := p.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if entries != nil {
		t.Errorf("Missing key should yield an empty cache, got %v", entries)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisPersister_Load_BadDocument(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	p := NewRedisPersisterFromClient(db, "", 0)

	mock.ExpectGet("glotmark:cache").SetVal("not json")

	if _, err := p.Load(); err == nil {
		t.Error("Expected decode error for a corrupt document")
	}
}

func TestRedisPersister_Save(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	p := NewRedisPersisterFromClient(db, "team:cache", 3600)

	mock.Regexp().ExpectSet("team:cache", `\{.*"version":"1\.0".*\}`, 3600*time.Second).SetVal("OK")

	err := p.Save([]Entry{{
		Key: "hello:es",
		Result: glotmark.TranslationResult{
			OriginalText:   "hello",
			TranslatedText: "hola",
			TargetLanguage: "es",
		},
	}})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisPersister_Save_NoTTL(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	p := NewRedisPersisterFromClient(db, "", 0)

	mock.Regexp().ExpectSet("glotmark:cache", `.*`, 0).SetVal("OK")

	if err := p.Save(nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisPersister_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	p := NewRedisPersisterFromClient(db, "", 0)

	mock.ExpectPing().SetVal("PONG")

	if err := p.Ping(); err != nil {
		t.Errorf("Ping failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}
