package embedded

import (
	"testing"
	"testing/fstest"
)

func TestReadFileNotInitialized(t *testing.T) {
	Reset()
	if _, err := ReadFile("data/arena.yaml"); err == nil {
		t.Error("ReadFile should fail before Init")
	}
	if Exists("data/arena.yaml") {
		t.Error("Exists should be false before Init")
	}
}

func TestReadFile(t *testing.T) {
	InitFS(fstest.MapFS{
		"data/arena.yaml": &fstest.MapFile{Data: []byte("budget: {}")},
	})
	defer Reset()

	data, err := ReadFile("./data/arena.yaml")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "budget: {}" {
		t.Errorf("unexpected content %q", data)
	}
	if !Exists("data/arena.yaml") {
		t.Error("Exists should report embedded file")
	}
	if _, err := ReadFile("assets/x.png"); err == nil {
		t.Error("ReadFile should reject non-data prefix")
	}
}
