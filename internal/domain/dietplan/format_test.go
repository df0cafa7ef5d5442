package dietplan

import (
	"strings"
	"testing"
)

/* ─── Clean ─── */

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"markdown stripped", "## Plano\n\n\n\n**Café da manhã**: ovos - 2 un", "Plano Café da manhã: ovos 2 un"},
		{"single newline kept", "Almoço: arroz\nfeijão", "Almoço: arroz\nfeijão"},
		{"repeated spaces", "Jantar:   peixe \t 150g", "Jantar: peixe 150g"},
		{"bullets and quotes", "> • Ceia: `iogurte` ~ _100g_", "Ceia: iogurte 100g"},
		{"trimmed", "  \n texto \n  ", "texto"},
		{"only markup", "**--##", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Clean(tc.in); got != tc.want {
				t.Errorf("Clean(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

/* ─── Blocks ─── */

func TestBlocks_SplitsOnEveryMeal(t *testing.T) {
	text := "Plano Alimentar Café da manhã: pão Lanche da manhã: fruta Almoço: arroz Lanche da tarde: iogurte Jantar: peixe Ceia: chá"
	got := Blocks(text)
	want := []string{
		"Plano Alimentar",
		"Café da manhã: pão",
		"Lanche da manhã: fruta",
		"Almoço: arroz",
		"Lanche da tarde: iogurte",
		"Jantar: peixe",
		"Ceia: chá",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d blocks, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("block %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBlocks_CaseInsensitive(t *testing.T) {
	got := Blocks("ALMOÇO: arroz jantar: sopa")
	if len(got) != 2 || got[0] != "ALMOÇO: arroz" || got[1] != "jantar: sopa" {
		t.Errorf("unexpected blocks %q", got)
	}
}

func TestBlocks_NoHeadings(t *testing.T) {
	got := Blocks("texto livre")
	if len(got) != 1 || got[0] != "texto livre" {
		t.Errorf("unexpected blocks %q", got)
	}
	if len(Blocks("")) != 0 {
		t.Error("expected no blocks for empty text")
	}
}

/* ─── Format ─── */

func TestFormat(t *testing.T) {
	raw := "# Plano\n\n**Almoço**\n- arroz 100g\n\n\n\n**Jantar**\n- peixe 150g"
	got := Format(raw)
	parts := strings.Split(got, Separator)
	if len(parts) != 3 {
		t.Fatalf("expected 3 blocks, got %d: %q", len(parts), got)
	}
	if parts[0] != "Plano" {
		t.Errorf("title block = %q", parts[0])
	}
	if !strings.HasPrefix(parts[1], "Almoço") || !strings.HasPrefix(parts[2], "Jantar") {
		t.Errorf("unexpected blocks %q", parts)
	}
	if strings.ContainsAny(got, "*#") {
		t.Errorf("markdown left in %q", got)
	}
}

func TestFormat_Empty(t *testing.T) {
	if got := Format("** -- **"); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}
