package storage

import (
	"strings"
	"testing"
)

func TestObjectKey(t *testing.T) {
	k := ObjectKey("foods", "Pho Bo.JPG")
	if !strings.HasPrefix(k, "foods/") || !strings.HasSuffix(k, ".jpg") {
		t.Fatalf("key = %s", k)
	}
	if ObjectKey("foods", "a.png") == ObjectKey("foods", "a.png") {
		t.Fatal("keys must be unique")
	}
}

func TestKeyFromURL(t *testing.T) {
	key, ok := KeyFromURL("http://localhost:9000/nom/id-images/abc.png", "nom")
	if !ok || key != "id-images/abc.png" {
		t.Fatalf("key = %q, %v", key, ok)
	}
	if _, ok := KeyFromURL("http://localhost:9000/other/abc.png", "nom"); ok {
		t.Fatal("foreign bucket accepted")
	}
	if _, ok := KeyFromURL("http://localhost:9000/nom/", "nom"); ok {
		t.Fatal("empty key accepted")
	}
}
