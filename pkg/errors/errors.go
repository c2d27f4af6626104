// Unified error handling for the arm kinematics tools
//
// Copyright (C) 2026  Armkin Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package errors

import (
	"fmt"
)

// ErrorCode represents the category of error
type ErrorCode string

const (
	// Configuration errors
	ErrConfigSection    ErrorCode = "CONFIG_SECTION"
	ErrConfigOption     ErrorCode = "CONFIG_OPTION"
	ErrConfigValidation ErrorCode = "CONFIG_VALIDATION"
	ErrConfigType       ErrorCode = "CONFIG_TYPE"

	// Kinematics errors
	ErrKinematicsDomain ErrorCode = "KINEMATICS_DOMAIN"
	ErrKinematicsInput  ErrorCode = "KINEMATICS_INPUT"
	ErrKinematicsBounds ErrorCode = "KINEMATICS_BOUNDS"

	// Runtime and API errors
	ErrRuntime ErrorCode = "RUNTIME"
	ErrAPI     ErrorCode = "API"
)

// SolverError is the unified error type for the arm host tools
type SolverError struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Section is the config section or context
	Section string

	// Option is the config option name (if applicable)
	Option string

	// Err wraps the underlying error
	Err error

	// Context provides additional context
	Context map[string]interface{}
}

// Error implements the error interface
func (e *SolverError) Error() string {
	if e.Option != "" {
		return fmt.Sprintf("[%s:%s] %s", e.Code, e.Option, e.Message)
	}
	if e.Section != "" {
		return fmt.Sprintf("[%s:%s] %s", e.Code, e.Section, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *SolverError) Unwrap() error {
	return e.Err
}

// SetSection sets the context section
func (e *SolverError) SetSection(section string) *SolverError {
	e.Section = section
	return e
}

// SetOption sets the config option
func (e *SolverError) SetOption(option string) *SolverError {
	e.Option = option
	return e
}

// SetContext adds additional context
func (e *SolverError) SetContext(key string, value interface{}) *SolverError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new SolverError
func New(code ErrorCode, message string) *SolverError {
	return &SolverError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, code ErrorCode, message string) *SolverError {
	return &SolverError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Config errors

// ConfigSectionError creates an error for a missing config section
func ConfigSectionError(section string) *SolverError {
	return New(ErrConfigSection, fmt.Sprintf("section '%s' not found", section)).
		SetSection(section)
}

// ConfigOptionError creates an error for a missing config option
func ConfigOptionError(section, option string) *SolverError {
	return New(ErrConfigOption, fmt.Sprintf("option '%s' not found in section '%s'", option, section)).
		SetSection(section).
		SetOption(option)
}

// ConfigValidationError creates an error for a config validation failure
func ConfigValidationError(section, option string, reason string) *SolverError {
	return New(ErrConfigValidation, fmt.Sprintf("option '%s' in section '%s': %s", option, section, reason)).
		SetSection(section).
		SetOption(option)
}

// ConfigTypeError creates an error for a config type conversion failure
func ConfigTypeError(section, option, value string, targetType string, err error) *SolverError {
	return Wrap(err, ErrConfigType, fmt.Sprintf("option '%s' in section '%s': failed to parse '%s' as %s", option, section, value, targetType)).
		SetSection(section).
		SetOption(option)
}

// Kinematics errors

// KinematicsDomainError creates an error for a non-finite kinematics result
func KinematicsDomainError(message string) *SolverError {
	return New(ErrKinematicsDomain, message)
}

// KinematicsInputError creates an error for malformed solve input
func KinematicsInputError(message string) *SolverError {
	return New(ErrKinematicsInput, message)
}

// KinematicsBoundsError creates an error for a joint limit violation
func KinematicsBoundsError(joint string, value, min, max float64) *SolverError {
	return New(ErrKinematicsBounds, fmt.Sprintf("%s value %.6f out of bounds [%.6f, %.6f]", joint, value, min, max))
}

// Runtime and API errors

// RuntimeError creates a general runtime error
func RuntimeError(message string) *SolverError {
	return New(ErrRuntime, message)
}

// APIError creates an error for an API request failure
func APIError(message string) *SolverError {
	return New(ErrAPI, message)
}

// Is checks if error matches given error code
func Is(err error, code ErrorCode) bool {
	if solverErr, ok := err.(*SolverError); ok {
		return solverErr.Code == code
	}
	return false
}

// IsConfig checks if error is a config error
func IsConfig(err error) bool {
	return Is(err, ErrConfigSection) ||
		Is(err, ErrConfigOption) ||
		Is(err, ErrConfigValidation) ||
		Is(err, ErrConfigType)
}

// IsKinematics checks if error is a kinematics error
func IsKinematics(err error) bool {
	return Is(err, ErrKinematicsDomain) ||
		Is(err, ErrKinematicsInput) ||
		Is(err, ErrKinematicsBounds)
}
