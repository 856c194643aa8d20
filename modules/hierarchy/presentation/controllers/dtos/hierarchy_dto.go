package dtos

import (
	"github.com/go-playground/validator/v10"

	"github.com/tanzim-io/tanzim/pkg/constants"
)

type CreateNodeDTO struct {
	TreeKind string `json:"tree_kind" validate:"required"`
	Level    string `json:"level" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Code     string `json:"code"`
	ParentID string `json:"parent_id" validate:"omitempty,uuid"`
}

type RenameNodeDTO struct {
	Name string `json:"name" validate:"required"`
	Code string `json:"code"`
}

type AssignLeafDTO struct {
	UserID     string `json:"user_id" validate:"required,uuid"`
	AdminLevel string `json:"admin_level" validate:"required"`
	TreeKind   string `json:"tree_kind" validate:"required"`
	LeafID     string `json:"leaf_id" validate:"required,uuid"`
}

func (d *CreateNodeDTO) Ok() (map[string]string, bool) {
	return validateStruct(d)
}

func (d *RenameNodeDTO) Ok() (map[string]string, bool) {
	return validateStruct(d)
}

func (d *AssignLeafDTO) Ok() (map[string]string, bool) {
	return validateStruct(d)
}

func validateStruct(v any) (map[string]string, bool) {
	errorMessages := map[string]string{}
	errs := constants.Validate.Struct(v)
	if errs == nil {
		return errorMessages, true
	}
	for _, err := range errs.(validator.ValidationErrors) {
		errorMessages[err.Field()] = err.Tag()
	}
	return errorMessages, false
}
