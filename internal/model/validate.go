package model

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks a configuration before it is handed to the quiz engine.
func (c QuizConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Selection.Kind == SelectFiles && len(c.Selection.FileIDs) == 0 {
		return fmt.Errorf("%w: select at least one file", ErrInvalidConfig)
	}
	if c.Selection.Kind == SelectWeakWords && len(c.Selection.FileIDs) > 0 {
		return fmt.Errorf("%w: weak-word selection takes no files", ErrInvalidConfig)
	}
	return nil
}
