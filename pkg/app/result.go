package app

import "github.com/aretw0/jotter/pkg/core"

// CodeInternal is reported for errors outside the domain taxonomy.
const CodeInternal = "INTERNAL"

// ErrorBody is the serializable form of a failed operation.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result is the outcome shape returned across the boundary.
type Result struct {
	Success bool       `json:"success"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ResultOf converts err into a Result. A nil error is a success.
func ResultOf(err error) Result {
	if err == nil {
		return Result{Success: true}
	}
	if de, ok := core.AsDomainError(err); ok {
		return Result{Error: &ErrorBody{Code: de.Code(), Message: de.Message()}}
	}
	return Result{Error: &ErrorBody{Code: CodeInternal, Message: err.Error()}}
}
