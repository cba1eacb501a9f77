package main

import (
	"errors"
	"testing"

	"github.com/verte-zerg/vocquiz/internal/model"
)

func TestResolveFile(t *testing.T) {
	files := []model.File{
		{ID: "a1b2c3d4-0000", Name: "basics"},
		{ID: "a1ffffff-0000", Name: "travel"},
		{ID: "9999aaaa-0000", Name: "travel"},
	}

	f, err := resolveFile(files, "a1b2")
	if err != nil || f.Name != "basics" {
		t.Fatalf("expected prefix match on basics, got %+v err=%v", f, err)
	}
	f, err = resolveFile(files, "basics")
	if err != nil || f.ID != "a1b2c3d4-0000" {
		t.Fatalf("expected name match, got %+v err=%v", f, err)
	}
	f, err = resolveFile(files, "9999aaaa-0000")
	if err != nil || f.ID != "9999aaaa-0000" {
		t.Fatalf("expected exact id match, got %+v err=%v", f, err)
	}
	if _, err := resolveFile(files, "a1"); err == nil {
		t.Fatalf("expected ambiguous prefix to fail")
	}
	if _, err := resolveFile(files, "travel"); err == nil {
		t.Fatalf("expected ambiguous name to fail")
	}
	if _, err := resolveFile(files, "missing"); !errors.Is(err, model.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestParseQuestionTypes(t *testing.T) {
	types, err := parseQuestionTypes([]string{"jp-to-en-typing", " en-to-jp-mc", "jp-to-en-typing"})
	if err != nil {
		t.Fatalf("parse types: %v", err)
	}
	if len(types) != 2 || types[0] != model.QuestionJpToEnTyping || types[1] != model.QuestionEnToJpMC {
		t.Fatalf("unexpected types: %v", types)
	}
	if _, err := parseQuestionTypes([]string{"kanji"}); err == nil {
		t.Fatalf("expected unknown type to fail")
	}
	if _, err := parseQuestionTypes(nil); err == nil {
		t.Fatalf("expected empty types to fail")
	}
}
