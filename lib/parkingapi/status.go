// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package parkingapi

import (
	"fmt"
	"net/http"

	"github.com/bureau-foundation/parkir/lib/failure"
)

// classifyStatus maps an HTTP status to a failure kind. 2xx returns
// nil. 401 is handled by the caller because login and authenticated
// calls treat it differently.
func classifyStatus(op string, response *rawResponse) error {
	status := response.status
	if status >= 200 && status < 300 {
		return nil
	}

	var kind failure.Kind
	switch {
	case status == http.StatusForbidden:
		kind = failure.Forbidden
	case status == http.StatusNotFound:
		kind = failure.NotFound
	case status == http.StatusUnprocessableEntity:
		return &failure.Error{
			Kind:    failure.Validation,
			Op:      op,
			Fields:  response.body.Errors,
			Message: response.body.Message,
		}
	case status == http.StatusTooManyRequests:
		kind = failure.RateLimited
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		kind = failure.Timeout
	case status >= 500:
		kind = failure.Server
	default:
		kind = failure.Internal
	}
	return &failure.Error{Kind: kind, Op: op, Err: fmt.Errorf("unexpected status %d", status)}
}
