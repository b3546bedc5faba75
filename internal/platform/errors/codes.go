package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Progress errors
	CodeProgressUserMissing    Code = "PROGRESS_USER_MISSING"
	CodeProgressNegativeSteps  Code = "PROGRESS_NEGATIVE_STEPS"
	CodeProgressBadMultiplier  Code = "PROGRESS_BAD_MULTIPLIER"
	CodeProgressSyncInFlight   Code = "PROGRESS_SYNC_IN_FLIGHT"
	CodeProgressSnapshotStale  Code = "PROGRESS_SNAPSHOT_STALE"
	CodeProgressNotHydrated    Code = "PROGRESS_NOT_HYDRATED"

	// Board errors
	CodeBoardInvalidFilter  Code = "BOARD_INVALID_FILTER"
	CodeBoardInvalidCountry Code = "BOARD_INVALID_COUNTRY"
	CodeBoardEntryMissing   Code = "BOARD_ENTRY_MISSING"

	// Account errors
	CodeAccountEmailInvalid    Code = "ACCOUNT_EMAIL_INVALID"
	CodeAccountNameTooLong     Code = "ACCOUNT_NAME_TOO_LONG"
	CodeAccountSessionInvalid  Code = "ACCOUNT_SESSION_INVALID"
	CodeAccountSessionExpired  Code = "ACCOUNT_SESSION_EXPIRED"
	CodeAccountUserNotFound    Code = "ACCOUNT_USER_NOT_FOUND"
	CodeAccountUserMismatch    Code = "ACCOUNT_USER_MISMATCH"

	// Billing errors
	CodeBillingPackageUnknown   Code = "BILLING_PACKAGE_UNKNOWN"
	CodeBillingNothingToRestore Code = "BILLING_NOTHING_TO_RESTORE"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// httpStatusByCode maps domain error codes to HTTP status codes.
var httpStatusByCode = map[Code]int{
	CodeUnknown:                 http.StatusInternalServerError,
	CodeProgressUserMissing:     http.StatusBadRequest,
	CodeProgressNegativeSteps:   http.StatusBadRequest,
	CodeProgressBadMultiplier:   http.StatusBadRequest,
	CodeProgressSyncInFlight:    http.StatusConflict,
	CodeProgressSnapshotStale:   http.StatusConflict,
	CodeProgressNotHydrated:     http.StatusNotFound,
	CodeBoardInvalidFilter:      http.StatusBadRequest,
	CodeBoardInvalidCountry:     http.StatusBadRequest,
	CodeBoardEntryMissing:       http.StatusNotFound,
	CodeAccountEmailInvalid:     http.StatusBadRequest,
	CodeAccountNameTooLong:      http.StatusBadRequest,
	CodeAccountSessionInvalid:   http.StatusUnauthorized,
	CodeAccountSessionExpired:   http.StatusUnauthorized,
	CodeAccountUserNotFound:     http.StatusNotFound,
	CodeAccountUserMismatch:     http.StatusForbidden,
	CodeBillingPackageUnknown:   http.StatusBadRequest,
	CodeBillingNothingToRestore: http.StatusNotFound,
	CodeNotFound:                http.StatusNotFound,
}

// HTTPStatus returns the HTTP status associated with a code.
// Unmapped codes default to 500.
func HTTPStatus(code Code) int {
	if status, ok := httpStatusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
