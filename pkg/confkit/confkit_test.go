package confkit_test

import (
	"errors"
	"path/filepath"
	"testing"

	"ashare-data/pkg/confkit"
)

func TestResolvePath(t *testing.T) {
	if got := confkit.ResolvePath("/base/dir", "/abs/file.yaml"); got != "/abs/file.yaml" {
		t.Fatalf("absolute path got %q", got)
	}
	if got := confkit.ResolvePath("/base/dir", "etc/file.yaml"); got != "/base/dir/etc/file.yaml" {
		t.Fatalf("relative path got %q", got)
	}

	t.Setenv("CONF_DIR", "expanded")
	if got := confkit.ResolvePath("/base", "${CONF_DIR}/file.yaml"); got != "/base/expanded/file.yaml" {
		t.Fatalf("env expansion got %q", got)
	}
}

func TestBaseDir(t *testing.T) {
	if got := confkit.BaseDir("/etc/config/app.yaml"); got != "/etc/config" {
		t.Fatalf("BaseDir got %q", got)
	}
}

func TestSectionHydrate(t *testing.T) {
	t.Run("empty file is a no-op", func(t *testing.T) {
		section := &confkit.Section[int]{}
		err := section.Hydrate("/base", func(string) (*int, error) {
			t.Fatal("loader should not run for an empty file")
			return nil, nil
		})
		if err != nil || section.Value != nil {
			t.Fatalf("empty hydrate: err=%v value=%v", err, section.Value)
		}
	})

	t.Run("stores resolved path and value", func(t *testing.T) {
		section := &confkit.Section[int]{File: "sub.yaml"}
		want := 42
		err := section.Hydrate("/base", func(path string) (*int, error) {
			if path != filepath.Join("/base", "sub.yaml") {
				t.Fatalf("loader path %q", path)
			}
			return &want, nil
		})
		if err != nil {
			t.Fatalf("Hydrate: %v", err)
		}
		if section.Value == nil || *section.Value != want {
			t.Fatalf("Value = %v", section.Value)
		}
		if section.File != "/base/sub.yaml" {
			t.Fatalf("File = %q", section.File)
		}
	})

	t.Run("loader errors propagate", func(t *testing.T) {
		section := &confkit.Section[int]{File: "sub.yaml"}
		boom := errors.New("boom")
		err := section.Hydrate("/base", func(string) (*int, error) { return nil, boom })
		if !errors.Is(err, boom) {
			t.Fatalf("err = %v", err)
		}
	})
}
