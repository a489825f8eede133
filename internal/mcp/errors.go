// Package mcp implements the MCP (Model Context Protocol) tool server
// exposing the rankings, records, and lookup engines over stdio.
package mcp

import (
	stderrors "errors"
	"fmt"

	"github.com/openlifting/oplengine/internal/errors"
)

// Standard JSON-RPC error codes, reused for every tool error this
// server returns.
const (
	ErrCodeInvalidParams = -32602
	ErrCodeNotFound       = -32001
	ErrCodeInternalError  = -32603
)

// MCPError represents an MCP protocol error with code and message.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// MapError converts an engine error into an MCPError, preserving the
// distinction between a caller mistake (bad query syntax, unknown
// username/meet path) and an internal failure.
func MapError(err error) *MCPError {
	if err == nil {
		return nil
	}

	var ee *errors.EngineError
	if stderrors.As(err, &ee) {
		switch ee.Category {
		case errors.CategoryQuery:
			return &MCPError{Code: ErrCodeInvalidParams, Message: ee.Message}
		case errors.CategoryReferential:
			return &MCPError{Code: ErrCodeNotFound, Message: ee.Message}
		default:
			return &MCPError{Code: ErrCodeInternalError, Message: ee.Message}
		}
	}
	return &MCPError{Code: ErrCodeInternalError, Message: err.Error()}
}

// NewInvalidParamsError builds an MCPError for a malformed tool call.
func NewInvalidParamsError(msg string) *MCPError {
	return &MCPError{Code: ErrCodeInvalidParams, Message: msg}
}

// NewNotFoundError builds an MCPError for a well-formed lookup that
// didn't resolve to anything, e.g. an unknown username or meet path.
func NewNotFoundError(msg string) *MCPError {
	return &MCPError{Code: ErrCodeNotFound, Message: msg}
}
