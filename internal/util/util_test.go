package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureParentDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a", "b", "booth.db")
	if err := EnsureParentDir(file); err != nil {
		t.Fatalf("EnsureParentDir: %v", err)
	}
	if st, err := os.Stat(filepath.Dir(file)); err != nil || !st.IsDir() {
		t.Errorf("parent not created: %v", err)
	}
}

func TestGetBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ok" {
			w.Write([]byte("frame"))
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	b, err := GetBytes(context.Background(), srv.URL+"/ok")
	if err != nil || string(b) != "frame" {
		t.Errorf("GetBytes(/ok) = %q, %v", b, err)
	}
	if _, err := GetBytes(context.Background(), srv.URL+"/denied"); err == nil {
		t.Errorf("403 accepted")
	}
}
