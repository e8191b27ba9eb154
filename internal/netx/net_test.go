package netx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDownloadTo(t *testing.T) {
	t.Run("success writes file", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				t.Errorf("method = %q, want GET", r.Method)
			}
			_, _ = w.Write([]byte("hello, knowledge base"))
		}))
		defer ts.Close()

		dst := filepath.Join(t.TempDir(), "doc.txt")
		n, err := DownloadTo(context.Background(), ts.Client(), ts.URL+"/files/doc.txt", dst)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != int64(len("hello, knowledge base")) {
			t.Fatalf("n = %d", n)
		}
		got, err := os.ReadFile(dst)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(got) != "hello, knowledge base" {
			t.Fatalf("content = %q", string(got))
		}
	})

	t.Run("non-200 -> error, no file", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer ts.Close()

		dst := filepath.Join(t.TempDir(), "doc.txt")
		_, err := DownloadTo(context.Background(), ts.Client(), ts.URL, dst)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "download failed: 404") {
			t.Fatalf("error = %q, want to contain 404", err.Error())
		}
		if _, statErr := os.Stat(dst); !os.IsNotExist(statErr) {
			t.Fatalf("file must not exist, stat err = %v", statErr)
		}
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := DownloadTo(context.Background(), http.DefaultClient, "://bad", filepath.Join(t.TempDir(), "x"))
		if err == nil {
			t.Fatal("expected error for malformed url")
		}
	})
}
