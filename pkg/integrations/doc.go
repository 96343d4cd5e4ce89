// Package integrations provides the HTTP client plumbing for remote APIs.
//
// The [Client] type handles default headers, JSON decoding, response
// caching through a [cache.Cache], retries for transient failures and the
// mapping of HTTP status codes to [ErrNotFound] and [ErrNetwork]. API
// clients embed it:
//
//	type Client struct {
//	    *integrations.Client
//	    baseURL string
//	}
//
// The Kustodian report and item API lives in the [kustodian] subpackage.
//
// [cache.Cache]: github.com/kustodian/sunburst/pkg/cache.Cache
// [kustodian]: github.com/kustodian/sunburst/pkg/integrations/kustodian
package integrations
