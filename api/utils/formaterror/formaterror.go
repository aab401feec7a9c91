package formaterror

import (
	"errors"
	"strings"

	"Warbler/api/models"
	"Warbler/api/sqlerr"
)

// FormatError turns a save error into user-facing messages keyed by the
// offending field.
func FormatError(err error) map[string]string {
	errorMessages := make(map[string]string)
	if err == nil {
		return errorMessages
	}

	var sqlErr *sqlerr.Error
	if errors.As(sqlerr.Convert(err), &sqlErr) {
		target := strings.ToLower(sqlErr.ColumnName + " " + sqlErr.ConstraintName + " " + sqlErr.Message)
		switch {
		case sqlErr.Code == sqlerr.UniqueViolation && strings.Contains(target, "username"):
			errorMessages["Taken_username"] = "Username already taken"
		case sqlErr.Code == sqlerr.UniqueViolation && strings.Contains(target, "email"):
			errorMessages["Taken_email"] = "Email already taken"
		case strings.Contains(target, "username"):
			errorMessages["Required_username"] = "Username is required"
		case strings.Contains(target, "email"):
			errorMessages["Required_email"] = "Email is required"
		case strings.Contains(target, "text"):
			errorMessages["Required_text"] = "Message text is required"
		}
	}

	switch {
	case errors.Is(err, models.ErrInvalidCredentials):
		errorMessages["Incorrect_details"] = "Invalid username or password"
	case errors.Is(err, models.ErrInvalidPassword):
		errorMessages["Required_password"] = "Password is required and must not exceed 72 bytes"
	case errors.Is(err, models.ErrUserNotFound), errors.Is(err, models.ErrMessageNotFound):
		errorMessages["No_record"] = "No record found"
	}

	if len(errorMessages) == 0 {
		errorMessages["Incorrect_details"] = "Incorrect details"
	}
	return errorMessages
}
