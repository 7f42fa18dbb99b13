// Copyright 2026 The MapLoc Authors
// SPDX-License-Identifier: Apache-2.0

package geolocalize

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailedStage(t *testing.T) {
	svcErr := &ServiceError{Stage: StageGeocoding, Err: errors.New("boom")}

	assert.Equal(t, StageGeocoding, FailedStage(svcErr))
	assert.Equal(t, StageGeocoding, FailedStage(fmt.Errorf("wrapped: %w", svcErr)))
	assert.Equal(t, Stage(""), FailedStage(errors.New("plain")))
	assert.Equal(t, Stage(""), FailedStage(nil))
}

func TestServiceErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	svcErr := &ServiceError{Stage: StageTextDetection, Err: cause}

	assert.ErrorIs(t, svcErr, cause)
	assert.Equal(t, "text-detection: connection refused", svcErr.Error())
}

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		quota bool
		tout  bool
	}{
		{"nil", nil, false, false},
		{"quota by status", errors.New("google maps status: OVER_QUERY_LIMIT"), true, false},
		{"quota by message", errors.New("Quota exceeded for requests"), true, false},
		{"rate limit", errors.New("429 too many requests"), true, false},
		{"timeout", errors.New("context deadline exceeded"), false, true},
		{"client timeout", errors.New("Client.Timeout exceeded while awaiting headers"), false, true},
		{"unrelated", errors.New("malformed response"), false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.quota, IsQuotaExceededError(tc.err))
			assert.Equal(t, tc.tout, IsTimeoutError(tc.err))
		})
	}
}

func TestInputErrorMessages(t *testing.T) {
	withURI := &InputError{URI: "ftp://x", Message: "unsupported scheme"}
	assert.Contains(t, withURI.Error(), "ftp://x")

	withoutURI := &InputError{Message: "no image reference was given"}
	assert.Equal(t, "input: no image reference was given", withoutURI.Error())
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"input", &InputError{Message: "bad"}, http.StatusBadRequest},
		{"service", &ServiceError{Stage: StageGeocoding, Err: errors.New("x")}, http.StatusBadGateway},
		{"wrapped service", fmt.Errorf("w: %w", &ServiceError{Stage: StageTextDetection, Err: errors.New("x")}), http.StatusBadGateway},
		{"other", errors.New("x"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}
