package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/watertrack/internal/domain/intake"
	"github.com/rpggio/watertrack/internal/domain/profile"
	"github.com/rpggio/watertrack/internal/snapshot"
)

// errInvalidArgument marks tool arguments that could not be interpreted.
var errInvalidArgument = errors.New("invalid argument")

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to
// INTERNAL_ERROR.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	// Serializer kinds first: an imported file with invalid content also
	// wraps the domain validation error.
	case errors.Is(err, snapshot.ErrIntegrity):
		return &APIError{Code: "INTEGRITY_ERROR", Message: msg, RecoveryHint: "The file was modified or damaged after export; use an untouched export"}
	case errors.Is(err, snapshot.ErrParse):
		return &APIError{Code: "PARSE_ERROR", Message: msg, RecoveryHint: "The file is not a watertrack export"}
	case errors.Is(err, snapshot.ErrIO):
		return &APIError{Code: "IO_ERROR", Message: msg, RecoveryHint: "Check that the path exists and is accessible"}
	case errors.Is(err, snapshot.ErrNoProfile):
		return &APIError{Code: "PROFILE_REQUIRED", Message: msg, RecoveryHint: "Call save_profile first"}
	case errors.Is(err, profile.ErrProfileNotFound):
		return &APIError{Code: "PROFILE_NOT_FOUND", Message: msg, RecoveryHint: "Call save_profile first"}
	case errors.Is(err, profile.ErrInvalidInput):
		return &APIError{Code: "INVALID_PROFILE", Message: msg, RecoveryHint: "Give a target_ml or all of height_cm, weight_kg, age_years and gender"}
	case errors.Is(err, intake.ErrRecordNotFound):
		return &APIError{Code: "RECORD_NOT_FOUND", Message: msg, RecoveryHint: "Check ID spelling or call list_intake"}
	case errors.Is(err, intake.ErrSingleIntakeTooLarge):
		return &APIError{Code: "INTAKE_TOO_LARGE", Message: msg, RecoveryHint: "Split the amount into several entries"}
	case errors.Is(err, intake.ErrDailyLimitExceeded):
		return &APIError{Code: "DAILY_LIMIT_EXCEEDED", Message: msg, RecoveryHint: "The day already holds a very large volume; check for duplicate entries"}
	case errors.Is(err, intake.ErrInvalidInput):
		return &APIError{Code: "INVALID_INTAKE", Message: msg, RecoveryHint: "Volumes must be positive whole milliliters and timestamps must fall within years 0000-9999 UTC"}
	case errors.Is(err, errInvalidArgument):
		return &APIError{Code: "INVALID_ARGUMENT", Message: msg}
	default:
		return &APIError{Code: "INTERNAL_ERROR", Message: msg}
	}
}

// errorResult turns err into a tool error result carrying the APIError as JSON.
func errorResult(err error) *sdkmcp.CallToolResult {
	apiErr := MapError(err)
	text, marshalErr := json.Marshal(apiErr)
	if marshalErr != nil {
		text = []byte(apiErr.Error())
	}
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(text)}},
	}
}
