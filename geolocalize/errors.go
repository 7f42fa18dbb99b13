// Copyright 2026 The MapLoc Authors
// SPDX-License-Identifier: Apache-2.0

package geolocalize

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Stage identifies which remote collaborator produced a failure.
type Stage string

// Pipeline stages, in execution order.
const (
	StageTextDetection    Stage = "text-detection"
	StageEntityExtraction Stage = "entity-extraction"
	StageGeocoding        Stage = "geocoding"
)

// ConfigurationError signals an unusable credential or configuration at
// construction time, before any network call is attempted.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Message
}

// InputError signals an image reference that cannot be handed to the
// text-detection service.
type InputError struct {
	URI     string
	Message string
}

func (e *InputError) Error() string {
	if e.URI == "" {
		return "input: " + e.Message
	}

	return fmt.Sprintf("input %q: %s", e.URI, e.Message)
}

// ServiceError wraps a failure from one of the three remote services,
// tagged with the stage that produced it. The pipeline fails fast: no
// partial result accompanies a ServiceError.
type ServiceError struct {
	Stage Stage
	Err   error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// FailedStage returns the pipeline stage that caused err, or "" when err
// is not a ServiceError.
func FailedStage(err error) Stage {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Stage
	}

	return ""
}

// IsConfigurationError reports whether err stems from construction-time
// configuration.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError

	return errors.As(err, &cfgErr)
}

// IsInputError reports whether err stems from an unusable image reference.
func IsInputError(err error) bool {
	var inErr *InputError

	return errors.As(err, &inErr)
}

// IsQuotaExceededError reports whether err looks like a quota or rate
// problem on the provider side.
func IsQuotaExceededError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "over_query_limit") ||
		strings.Contains(errStr, "quota exceeded") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "429")
}

// IsTimeoutError reports whether err is a timeout from any stage.
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded")
}

// HTTPStatus maps a pipeline error to the status code an HTTP front end
// should answer with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsInputError(err):
		return http.StatusBadRequest
	case FailedStage(err) != "":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
