package constants

import "github.com/go-playground/validator/v10"

// Validate is the shared validator instance DTOs run their struct tags
// through.
var Validate = validator.New()
