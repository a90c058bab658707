package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator"
	"github.com/meghashyamc/knowledgebase/logger"
	"github.com/meghashyamc/knowledgebase/session"
)

const maxTagLength = 50

type Validator struct {
	validator                *validator.Validate
	logger                   logger.Logger
	tagValidationDetailsOnce sync.Once
	tagValidationDetailsMap  map[string]tagValidationDetails
}

type tagValidationDetails struct {
	validatorFunc validator.Func
	err           error
}

func New(logger logger.Logger) (*Validator, error) {
	validator := &Validator{validator: validator.New(), logger: logger}
	validator.validator.RegisterTagNameFunc(useJSONFieldNames)
	if err := validator.registerCustomValidatorsForTags(); err != nil {
		return nil, err
	}

	return validator, nil
}

func (v *Validator) Validate(i any) error {

	if err := v.validator.Struct(i); err != nil {
		v.logger.Warn("validation failed", "err", err.Error())
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {

			tagValidationDetails, ok := v.getTagValidationDetails()[validationErrs[0].Tag()]
			if ok {
				return tagValidationDetails.err
			}

			switch validationErrs[0].Tag() {
			case "required":
				return fmt.Errorf("missing required field '%s'", validationErrs[0].Field())

			case "min", "max":
				return fmt.Errorf("value or length of field '%s' is not in the expected range", validationErrs[0].Field())

			case "url":
				return fmt.Errorf("field '%s' is not a valid URL", validationErrs[0].Field())

			}
		}
		return err
	}
	return nil
}
func (v *Validator) getTagValidationDetails() map[string]tagValidationDetails {
	v.tagValidationDetailsOnce.Do(func() {
		v.tagValidationDetailsMap = map[string]tagValidationDetails{
			"not_blank":   {validatorFunc: v.isNotBlank, err: errors.New("field must not be blank")},
			"search_type": {validatorFunc: v.isValidSearchType, err: errors.New("search_type must be one of combined, semantic, hybrid")},
			"valid_tags":  {validatorFunc: v.areValidTags, err: fmt.Errorf("tags must be non-empty and at most %d characters", maxTagLength)},
		}
	})
	return v.tagValidationDetailsMap
}

func (v *Validator) registerCustomValidatorsForTags() error {

	tagValidationDetailsMap := v.getTagValidationDetails()

	for tag, tagValidationDetails := range tagValidationDetailsMap {
		if err := v.validator.RegisterValidation(tag, tagValidationDetails.validatorFunc); err != nil {
			v.logger.Error("failed to register custom validator function", "err", err.Error())
			return err
		}
	}
	return nil
}

func useJSONFieldNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func (v *Validator) isNotBlank(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if strings.TrimSpace(value) == "" {
		v.logger.Warn("value is blank", "field", fl.FieldName())
		return false
	}

	return true
}

// isValidSearchType accepts an empty value, which means combined.
func (v *Validator) isValidSearchType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	for _, searchType := range session.SearchTypes {
		if string(searchType) == value {
			return true
		}
	}
	v.logger.Warn("unknown search type", "search_type", value)
	return false
}

func (v *Validator) areValidTags(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.Slice {
		return false
	}
	for i := 0; i < fl.Field().Len(); i++ {
		tag := strings.TrimSpace(fl.Field().Index(i).String())
		if tag == "" || len([]rune(tag)) > maxTagLength {
			v.logger.Warn("invalid tag", "tag", tag)
			return false
		}
	}

	return true
}
