// Package httputil provides retry helpers for registry clients.
//
// [Retry] re-runs an operation with exponential backoff when it fails with
// a [RetryableError]. Clients wrap transient failures (connection errors,
// 5xx responses) in RetryableError and return everything else unwrapped,
// which stops the retry loop immediately:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// Cancelling ctx aborts the wait between attempts.
package httputil
