// Package mcp provides an MCP (Model Context Protocol) server adapter for Contexta.
// It enables AI assistants like Claude to ask grounded questions over the local corpus.
package mcp

import "errors"

// ErrMissingQuestionService is returned when the question service is not provided.
var ErrMissingQuestionService = errors.New("mcp: question service is required")
