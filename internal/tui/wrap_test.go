package tui

import (
	"strings"
	"testing"
)

func TestBuildAnswerRunesMarksMatches(t *testing.T) {
	runes := buildAnswerRunes([]rune("cat"), []rune("Cut"))
	if len(runes) != 3 {
		t.Fatalf("expected 3 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("C") {
		t.Fatalf("expected case-insensitive match to be correct")
	}
	if runes[1].s != incorrectStyle.Render("u") {
		t.Fatalf("expected mismatch to be incorrect")
	}
	if runes[2].s != correctStyle.Render("t") {
		t.Fatalf("expected correct style for last rune")
	}
}

func TestBuildAnswerRunesShowsMissingTail(t *testing.T) {
	runes := buildAnswerRunes([]rune("apple"), []rune("ap"))
	if len(runes) != 5 {
		t.Fatalf("expected 5 runes, got %d", len(runes))
	}
	if runes[2].s != pendingStyle.Render("p") || runes[4].s != pendingStyle.Render("e") {
		t.Fatalf("expected pending style for untyped runes")
	}
}

func TestBuildAnswerRunesWrongSpaceDot(t *testing.T) {
	runes := buildAnswerRunes([]rune("ab"), []rune("a b"))
	if len(runes) != 3 {
		t.Fatalf("expected 3 runes, got %d", len(runes))
	}
	if runes[1].s != incorrectStyle.Render("•") {
		t.Fatalf("expected red dot for unexpected space")
	}
	if runes[1].isSpace {
		t.Fatalf("a dotted space must not be a wrap point")
	}
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	runes := buildAnswerRunes([]rune("one two three"), nil)
	out := wrapStyledRunes(runes, 8)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
}

func TestWrapStyledRunesWideRunes(t *testing.T) {
	runes := buildAnswerRunes([]rune("日本語"), nil)
	if runes[0].width != 2 {
		t.Fatalf("expected double width rune, got %d", runes[0].width)
	}
	out := wrapStyledRunes(runes, 4)
	if lines := strings.Split(out, "\n"); len(lines) != 2 {
		t.Fatalf("expected wide runes to wrap, got %q", out)
	}
}
