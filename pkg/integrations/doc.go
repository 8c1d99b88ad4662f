// Package integrations provides HTTP clients for package registry APIs.
//
// # Overview
//
// The [Client] type carries the infrastructure every registry client needs:
// a shared [net/http.Client] with a timeout, default request headers,
// retries for transient failures, and response caching through [cache.Cache].
// Registry-specific parsing lives in subpackages:
//
//   - [nuget]: NuGet v3 flat container
//
// # Client Pattern
//
// Registry clients embed [*Client] and wrap each fetch in [Client.Cached]:
//
//	client := nuget.NewClient(c, "", 24*time.Hour)
//	pkg, err := client.FetchPackage(ctx, "Serilog", "3.1.1", false) // false = use cache
//
// # Errors
//
// A 404 surfaces as [ErrNotFound]; connection failures and other non-200
// statuses as [ErrNetwork]. 5xx and 429 responses are marked retryable and
// retried with backoff inside [Client.Cached].
//
// # Observability
//
// Every request emits [observability.HTTPHooks] events, which the CLI logs
// at debug level.
//
// [nuget]: github.com/matzehuels/depends/pkg/integrations/nuget
// [cache.Cache]: github.com/matzehuels/depends/pkg/cache.Cache
// [observability.HTTPHooks]: github.com/matzehuels/depends/pkg/observability.HTTPHooks
package integrations
