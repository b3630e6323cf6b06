package excel

import (
	"testing"

	"github.com/google/uuid"
)

func TestBuildSheetName(t *testing.T) {
	id := uuid.New()

	t.Run("sanitizes forbidden characters", func(t *testing.T) {
		got := buildSheetName("Caso: figura/llavero", id, map[string]struct{}{})
		if got != "Caso- figura-llavero" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("falls back to id when empty", func(t *testing.T) {
		got := buildSheetName("   ", id, map[string]struct{}{})
		if got != id.String()[:31] {
			t.Errorf("got %q, want id prefix", got)
		}
	})

	t.Run("truncates to 31 characters", func(t *testing.T) {
		got := buildSheetName("Proyecto con un nombre realmente interminable", id, map[string]struct{}{})
		if len(got) != 31 {
			t.Errorf("len = %d, want 31", len(got))
		}
	})

	t.Run("deduplicates with numeric suffix", func(t *testing.T) {
		used := map[string]struct{}{"Llavero": {}}
		got := buildSheetName("Llavero", id, used)
		if got != "Llavero-2" {
			t.Errorf("got %q", got)
		}
		used[got] = struct{}{}
		got = buildSheetName("Llavero", id, used)
		if got != "Llavero-3" {
			t.Errorf("got %q", got)
		}
	})
}

func TestGenerateWorkbook(t *testing.T) {
	g := NewGenerator()
	content, err := g.Generate(nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(content) == 0 {
		t.Fatal("empty workbook")
	}
}
