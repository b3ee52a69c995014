package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/fluxcrm/internal/auth/domain"
	"github.com/smallbiznis/fluxcrm/internal/authorization"
	documentdomain "github.com/smallbiznis/fluxcrm/internal/document/domain"
	leaddomain "github.com/smallbiznis/fluxcrm/internal/lead/domain"
	leadnotedomain "github.com/smallbiznis/fluxcrm/internal/leadnote/domain"
	leadstagedomain "github.com/smallbiznis/fluxcrm/internal/leadstage/domain"
	milestonedomain "github.com/smallbiznis/fluxcrm/internal/milestone/domain"
	organizationdomain "github.com/smallbiznis/fluxcrm/internal/organization/domain"
	orgtypedomain "github.com/smallbiznis/fluxcrm/internal/orgtype/domain"
	salesflowdomain "github.com/smallbiznis/fluxcrm/internal/salesflow/domain"
	teamdomain "github.com/smallbiznis/fluxcrm/internal/team/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrInternal        = errors.New("internal_error")
	ErrNotFound        = errors.New("not_found")
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrTooManyRequests = errors.New("too_many_requests")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	if field, ok := referenceErrorField(err); ok {
		code := err.Error()
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "reference_error",
			Message: "referenced record does not exist",
			Errors: []ValidationError{
				{
					Field:   field,
					Code:    code,
					Message: strings.ReplaceAll(code, "_", " "),
				},
			},
		}
	}

	switch {
	case isUnauthorizedError(err):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, authorization.ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: conflictMessage(err),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "too_many_requests",
			Message: "too many requests",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

// classifyErrorForLog returns the error type and code recorded on request logs.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	return payload.Type, code
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var validationErrors = []error{
	ErrInvalidRequest,
	authdomain.ErrInvalidName,
	authdomain.ErrInvalidEmail,
	authdomain.ErrInvalidPassword,
	authdomain.ErrInvalidRole,
	authorization.ErrInvalidRole,
	teamdomain.ErrInvalidID,
	teamdomain.ErrEmptyUpdate,
	teamdomain.ErrSelfModification,
	orgtypedomain.ErrInvalidID,
	orgtypedomain.ErrInvalidName,
	orgtypedomain.ErrInvalidColor,
	orgtypedomain.ErrDefaultTypeLocked,
	leadstagedomain.ErrInvalidID,
	leadstagedomain.ErrInvalidName,
	leadstagedomain.ErrInvalidOrder,
	leadstagedomain.ErrInvalidColor,
	leadstagedomain.ErrNoStages,
	leadstagedomain.ErrDefaultStageLocked,
	organizationdomain.ErrInvalidID,
	organizationdomain.ErrInvalidName,
	organizationdomain.ErrInvalidType,
	organizationdomain.ErrInvalidState,
	organizationdomain.ErrInvalidCity,
	organizationdomain.ErrEmptyUpdate,
	leaddomain.ErrInvalidID,
	leaddomain.ErrInvalidLeadName,
	leaddomain.ErrInvalidOrganizationID,
	leaddomain.ErrInvalidProduct,
	leaddomain.ErrInvalidSalesOwner,
	leaddomain.ErrInvalidStage,
	leaddomain.ErrInvalidStatus,
	leaddomain.ErrInvalidProbability,
	leaddomain.ErrInvalidOfferedPrice,
	leaddomain.ErrInvalidAgreedPrice,
	leaddomain.ErrInvalidVolume,
	leaddomain.ErrInvalidCloseDate,
	leaddomain.ErrEmptyUpdate,
	milestonedomain.ErrInvalidID,
	milestonedomain.ErrInvalidLeadID,
	milestonedomain.ErrInvalidName,
	milestonedomain.ErrInvalidStatus,
	milestonedomain.ErrInvalidDate,
	milestonedomain.ErrInvalidRange,
	milestonedomain.ErrEmptyUpdate,
	documentdomain.ErrInvalidID,
	documentdomain.ErrInvalidLeadID,
	documentdomain.ErrInvalidType,
	documentdomain.ErrInvalidStatus,
	documentdomain.ErrEmptyUpdate,
	leadnotedomain.ErrInvalidID,
	leadnotedomain.ErrInvalidLeadID,
	leadnotedomain.ErrInvalidContent,
	leadnotedomain.ErrInvalidUpdateType,
	salesflowdomain.ErrInvalidID,
	salesflowdomain.ErrInvalidPlayerType,
	salesflowdomain.ErrInvalidStepNumber,
	salesflowdomain.ErrInvalidDescription,
	salesflowdomain.ErrEmptyUpdate,
}

func isValidationError(err error) bool {
	return isAny(err, validationErrors...)
}

func isUnauthorizedError(err error) bool {
	return isAny(err,
		ErrUnauthorized,
		authdomain.ErrInvalidCredentials,
		authdomain.ErrInactiveUser,
		authdomain.ErrInvalidToken,
		teamdomain.ErrUnauthenticated,
		leadnotedomain.ErrUnauthenticated,
	)
}

func isConflictError(err error) bool {
	return isAny(err,
		ErrConflict,
		authdomain.ErrUserExists,
		orgtypedomain.ErrAlreadyExists,
		leadstagedomain.ErrAlreadyExists,
		organizationdomain.ErrHasLeads,
		salesflowdomain.ErrDuplicateStep,
		gorm.ErrDuplicatedKey,
	)
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, authdomain.ErrUserExists):
		return "email already registered"
	case errors.Is(err, orgtypedomain.ErrAlreadyExists):
		return "organization type already exists"
	case errors.Is(err, leadstagedomain.ErrAlreadyExists):
		return "lead stage already exists"
	case errors.Is(err, organizationdomain.ErrHasLeads):
		return "organization still has leads"
	case errors.Is(err, salesflowdomain.ErrDuplicateStep):
		return "step number already used for this player type"
	default:
		return "conflict"
	}
}

func isNotFoundError(err error) bool {
	return isAny(err,
		ErrNotFound,
		authdomain.ErrUserNotFound,
		teamdomain.ErrNotFound,
		orgtypedomain.ErrNotFound,
		leadstagedomain.ErrNotFound,
		organizationdomain.ErrNotFound,
		leaddomain.ErrNotFound,
		milestonedomain.ErrNotFound,
		documentdomain.ErrNotFound,
		leadnotedomain.ErrNotFound,
		salesflowdomain.ErrNotFound,
		gorm.ErrRecordNotFound,
	)
}

// referenceErrorField names the request field holding a dangling reference.
func referenceErrorField(err error) (string, bool) {
	switch {
	case errors.Is(err, leaddomain.ErrOrganizationNotFound):
		return "organization_id", true
	case isAny(err,
		milestonedomain.ErrLeadNotFound,
		documentdomain.ErrLeadNotFound,
		leadnotedomain.ErrLeadNotFound):
		return "lead_id", true
	default:
		return "", false
	}
}

func validationErrorCode(err error) string {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}

func validationErrorField(code string) string {
	switch code {
	case "invalid_request", "empty_update":
		return "request"
	case "default_type_locked", "default_stage_locked":
		return "is_default"
	case "no_stages_defined":
		return "stage"
	case "self_modification":
		return "id"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "empty_update":
		return "no fields to update"
	case "default_type_locked":
		return "default organization types cannot be deleted"
	case "default_stage_locked":
		return "default lead stages cannot be deleted"
	case "no_stages_defined":
		return "no lead stages are defined"
	case "self_modification":
		return "admins cannot remove their own access"
	default:
		return "invalid value"
	}
}
