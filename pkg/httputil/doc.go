// Package httputil provides retry helpers for the API clients.
//
// Transient failures (connection errors, 5xx responses) are wrapped with
// [Retryable] by the client; [Retry] and [RetryWithBackoff] attempt them
// again with exponential backoff and give up immediately on anything else:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetch(ctx)
//	})
//
// Defaults: 3 attempts, 1 second initial delay, doubling.
package httputil
