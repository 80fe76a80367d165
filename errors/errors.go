package errors

import (
	"encoding/json"
	"errors"
)

// ErrorCode represents a specific error code.
type ErrorCode string

const (
	ErrorCodeUnknown             ErrorCode = "0"
	ErrorCodeInvalidHandle       ErrorCode = "INVALID_HANDLE"
	ErrorCodeInvalidSigningBox   ErrorCode = "INVALID_SIGNING_BOX"
	ErrorCodeDebotNotFound       ErrorCode = "DEBOT_NOT_FOUND"
	ErrorCodeInvalidEndpoint     ErrorCode = "INVALID_ENDPOINT"
	ErrorCodeInterfaceCallFailed ErrorCode = "INTERFACE_CALL_FAILED"
	ErrorCodeSigningFailed       ErrorCode = "SIGNING_FAILED"
	ErrorCodeInvalidKeyPair      ErrorCode = "INVALID_KEYPAIR"
	ErrorCodeUnsupported         ErrorCode = "UNSUPPORTED"
)

// rpcErrorCode is the JSON-RPC error code reported for every ErrorResponse.
const rpcErrorCode = -32000

var (
	ErrInvalidHandle     = &ErrorResponse{Code: ErrorCodeInvalidHandle, Details: "invalid handle"}
	ErrInvalidSigningBox = &ErrorResponse{Code: ErrorCodeInvalidSigningBox, Details: "invalid signing box handle"}
	ErrDebotNotFound     = &ErrorResponse{Code: ErrorCodeDebotNotFound, Details: "debot not found"}
	ErrInvalidEndpoint   = &ErrorResponse{Code: ErrorCodeInvalidEndpoint, Details: "endpoint is empty"}
	ErrUnsupported       = &ErrorResponse{Code: ErrorCodeUnsupported, Details: "operation is not supported"}
)

// ErrorResponse represents an error response structure.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Details string    `json:"details,omitempty"`
}

// New returns an ErrorResponse with the given code and details.
func New(code ErrorCode, details string) *ErrorResponse {
	return &ErrorResponse{Code: code, Details: details}
}

// Error implements the error interface for ErrorResponse.
func (e *ErrorResponse) Error() string {
	errorJSON, _ := json.Marshal(e)
	return string(errorJSON)
}

// Is reports whether target carries the same code. Details are ignored so
// that errors decoded from the wire match the package sentinels.
func (e *ErrorResponse) Is(target error) bool {
	t, ok := target.(*ErrorResponse)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// ErrorCode is used by the JSON-RPC server when encoding the response.
func (e *ErrorResponse) ErrorCode() int {
	return rpcErrorCode
}

// ErrorData is attached to the JSON-RPC error object.
func (e *ErrorResponse) ErrorData() interface{} {
	return e.Code
}

// CreateErrorResponseFromError creates an ErrorResponse from a generic error.
func CreateErrorResponseFromError(err error) error {
	if err == nil {
		return nil
	}
	var errResp *ErrorResponse
	if errors.As(err, &errResp) {
		return errResp
	}
	return &ErrorResponse{
		Code:    ErrorCodeUnknown,
		Details: err.Error(),
	}
}

// DecodeErrorResponse turns an error whose message is a serialized
// ErrorResponse (as produced by the RPC host) back into an ErrorResponse.
// Other errors are returned unchanged.
func DecodeErrorResponse(err error) error {
	if err == nil {
		return nil
	}
	var resp ErrorResponse
	if jsonErr := json.Unmarshal([]byte(err.Error()), &resp); jsonErr != nil || resp.Code == "" {
		return err
	}
	return &resp
}
