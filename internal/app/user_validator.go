package app

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/user-sync-service/internal/domain"
	"github.com/jsamuelsen/user-sync-service/internal/platform/logging"
	"github.com/jsamuelsen/user-sync-service/internal/ports"
)

// Field names reported in validation errors.
const (
	FieldID     = "id"
	FieldName   = "name"
	FieldEmail  = "email"
	FieldGender = "gender"
	FieldStatus = "status"
)

// fieldRule pairs a validator tag chain with the message for each tag.
// The validator stops at the first failing tag, so a field reports at most one message.
type fieldRule struct {
	field    string
	tags     string
	messages map[string]string
	value    func(*domain.UserInput) string
}

var userFieldRules = []fieldRule{
	{
		field: FieldName,
		tags:  "notblank,max=255",
		messages: map[string]string{
			"notblank": "Name can not be left blank",
			"max":      "Name must be at most 255 characters",
		},
		value: func(in *domain.UserInput) string { return in.Name },
	},
	{
		field: FieldEmail,
		tags:  "notblank,max=255",
		messages: map[string]string{
			"notblank": "Email can not be left blank",
			"max":      "Email must be at most 255 characters",
		},
		value: func(in *domain.UserInput) string { return in.Email },
	},
	{
		field: FieldGender,
		tags:  "notblank,oneof=male female other",
		messages: map[string]string{
			"notblank": "Gender can not be left blank",
			"oneof":    "Gender must be: male, female, or other",
		},
		value: func(in *domain.UserInput) string { return in.Gender },
	},
	{
		field: FieldStatus,
		tags:  "notblank,oneof=active inactive",
		messages: map[string]string{
			"notblank": "Status can not be left blank",
			"oneof":    "Status must be: active or inactive",
		},
		value: func(in *domain.UserInput) string { return in.Status },
	},
}

// UserValidator checks candidate users before they are persisted.
// Every check runs; failures are collected in field order rather than returned early.
type UserValidator struct {
	finder   ports.UserFinder
	validate *validator.Validate
	logger   *slog.Logger
}

// NewUserValidator creates a validator that resolves update targets through finder.
func NewUserValidator(finder ports.UserFinder, logger *slog.Logger) *UserValidator {
	if finder == nil {
		panic("user finder is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New(validator.WithRequiredStructEnabled())

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &UserValidator{
		finder:   finder,
		validate: v,
		logger:   logger,
	}
}

// Validate returns the ordered field errors for the candidate.
// When isUpdate is set the id must be present and refer to a stored user.
// An empty result means the candidate is valid.
func (v *UserValidator) Validate(ctx context.Context, in *domain.UserInput, isUpdate bool) domain.ValidationErrors {
	if in == nil {
		in = &domain.UserInput{}
	}

	var errs domain.ValidationErrors

	if isUpdate {
		v.checkID(ctx, in.ID, &errs)
	}

	for _, rule := range userFieldRules {
		err := v.validate.Var(rule.value(in), rule.tags)
		if err == nil {
			continue
		}

		errs.Add(rule.field, rule.message(err))
	}

	return errs
}

func (v *UserValidator) checkID(ctx context.Context, id *int64, errs *domain.ValidationErrors) {
	if id == nil {
		errs.Add(FieldID, "Id can not be left blank")

		return
	}

	idStr := strconv.FormatInt(*id, 10)

	_, err := v.finder.FindByID(ctx, *id)

	switch {
	case err == nil:
	case domain.IsNotFound(err):
		errs.Add(FieldID, "No user found with the ID:"+idStr)
	default:
		logger := logging.FromContext(ctx)
		if logger == nil {
			logger = v.logger
		}

		logger.WarnContext(ctx, "user lookup failed during validation",
			slog.Int64("user_id", *id),
			slog.Any("error", err),
		)
		errs.Add(FieldID, "Unable to look up user with the ID:"+idStr)
	}
}

func (r fieldRule) message(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		if msg, ok := r.messages[fieldErrs[0].Tag()]; ok {
			return msg
		}
	}

	return r.field + " is invalid"
}
