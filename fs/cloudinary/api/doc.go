// Package api defines the three remote capabilities the Cloudinary
// filesystem is built on (upload, admin and search) plus plain URL
// fetching, and provides a REST implementation of all of them.
//
// The interfaces are small so tests can substitute the in-memory
// implementation from package cldtest:
//
//	client, err := api.NewClient(creds, api.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	page, err := client.Search(ctx, api.SearchQuery{Expression: "folder:docs", MaxResults: 500})
//
// Upload and rename requests are signed with the API secret; admin and
// search requests use basic authentication. Transient failures (rate
// limits, 5xx, connection resets) are retried by the transport according
// to the configured retry policy. Every other non-2xx response surfaces
// as *Error.
package api
