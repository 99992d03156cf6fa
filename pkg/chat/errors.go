package chat

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"chatbridge/pkg/ai"

	openai "github.com/openai/openai-go/v3"
)

// describe turns an error into the message shown to the user.
func describe(err error) string {
	if err == nil {
		return FallbackErrorMessage
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		msg := strings.TrimSpace(apiErr.Message)
		if msg == "" {
			msg = http.StatusText(apiErr.StatusCode)
		}
		return strings.TrimSpace(fmt.Sprintf("%d %s", apiErr.StatusCode, msg))
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return describe(urlErr.Err)
	}

	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return FallbackErrorMessage
	}
	return msg
}

// classify maps an error to a FailureKind.
func classify(err error) FailureKind {
	if errors.Is(err, ai.ErrMissingCredential) {
		return FailureAuth
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return FailureAuth
		}
		return FailureUnexpected
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return FailureTransport
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return FailureTransport
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return FailureTransport
	}
	return FailureUnexpected
}

// failureFromError builds the Result for a provider error.
func failureFromError(err error) Result {
	return Failed(classify(err), describe(err))
}

// failureFromPanic builds the Result for a recovered panic value.
func failureFromPanic(v any) Result {
	if err, ok := v.(error); ok {
		return Failed(FailureUnexpected, describe(err))
	}
	return Failed(FailureUnexpected, strings.TrimSpace(fmt.Sprint(v)))
}
