// Package model defines shared data structures.
package model

import (
	"errors"
	"time"
)

// Domain errors shared by the store, importers and CLI.
var (
	ErrFileNotFound  = errors.New("file not found")
	ErrEmptyWordList = errors.New("word list is empty")
	ErrInvalidConfig = errors.New("invalid quiz configuration")
)

// Word is a single vocabulary entry.
type Word struct {
	ID       string
	English  string
	Japanese string
}

// File is an imported word list. It owns its words.
type File struct {
	ID        string
	Name      string
	Words     []Word
	CreatedAt time.Time
}

// HasWord reports whether the file contains a word with the given id.
func (f File) HasWord(wordID string) bool {
	for _, w := range f.Words {
		if w.ID == wordID {
			return true
		}
	}
	return false
}

// AnswerRecord is one answered or skipped question. Records are append-only.
type AnswerRecord struct {
	FileID    string
	WordID    string
	Correct   bool
	Timestamp time.Time
}

// QuestionType selects how a word is asked.
type QuestionType string

// Supported question types.
const (
	QuestionEnToJpMC     QuestionType = "en-to-jp-mc"
	QuestionJpToEnMC     QuestionType = "jp-to-en-mc"
	QuestionJpToEnTyping QuestionType = "jp-to-en-typing"
)

// AllQuestionTypes lists every question type in display order.
var AllQuestionTypes = []QuestionType{QuestionEnToJpMC, QuestionJpToEnMC, QuestionJpToEnTyping}

// IsMultipleChoice reports whether questions of this type carry options.
func (t QuestionType) IsMultipleChoice() bool {
	return t == QuestionEnToJpMC || t == QuestionJpToEnMC
}

// Label returns a short human-readable name.
func (t QuestionType) Label() string {
	switch t {
	case QuestionEnToJpMC:
		return "English → Japanese (choice)"
	case QuestionJpToEnMC:
		return "Japanese → English (choice)"
	case QuestionJpToEnTyping:
		return "Japanese → English (typing)"
	default:
		return string(t)
	}
}

// ParseQuestionType parses a question type name.
func ParseQuestionType(s string) (QuestionType, bool) {
	for _, t := range AllQuestionTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// SelectionKind distinguishes how the quiz pool is chosen.
type SelectionKind string

// Selection kinds.
const (
	SelectFiles     SelectionKind = "files"
	SelectWeakWords SelectionKind = "weak-words"
)

// Selection is either a list of file ids or the weak-word set.
type Selection struct {
	Kind    SelectionKind `json:"kind" validate:"oneof=files weak-words"`
	FileIDs []string      `json:"fileIds,omitempty" validate:"omitempty,dive,required"`
}

// FileSelection selects words from the given files, in order.
func FileSelection(ids ...string) Selection {
	return Selection{Kind: SelectFiles, FileIDs: ids}
}

// WeakWordSelection selects the current weak words across all files.
func WeakWordSelection() Selection {
	return Selection{Kind: SelectWeakWords}
}

// AllQuestions requests every word in the pool.
const AllQuestions = 0

// QuizConfig is an accepted quiz configuration.
type QuizConfig struct {
	Selection         Selection      `json:"selection"`
	QuestionTypes     []QuestionType `json:"questionTypes" validate:"min=1,dive,oneof=en-to-jp-mc jp-to-en-mc jp-to-en-typing"`
	NumberOfQuestions int            `json:"numberOfQuestions" validate:"gte=0"`
}

// Question is one generated quiz question. Options is empty for typed questions.
type Question struct {
	Word    Word
	Type    QuestionType
	Options []Word
}

// WordStats aggregates history for a single word.
type WordStats struct {
	WordID  string
	Correct int
	Total   int
}

// Incorrect returns the number of incorrect attempts.
func (s WordStats) Incorrect() int {
	return s.Total - s.Correct
}

// AppSettings holds user preferences that affect quiz flow.
type AppSettings struct {
	TapToContinueOnIncorrect bool
}

// DefaultAppSettings returns the settings used when nothing is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{TapToContinueOnIncorrect: true}
}

// StatsConfig narrows the stats views. An empty FileID means all files.
type StatsConfig struct {
	FileID string
}
