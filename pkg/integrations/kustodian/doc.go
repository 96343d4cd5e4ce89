// Package kustodian is a client for the Kustodian report and item API.
//
// Three endpoints are used:
//
//	GET {base}/report/sunburst/{containerId}   nested capacity report
//	GET {base}/item/{itemId}                   catalog item record
//	GET {base}/report/dewars                   top-level container overview
//
// Reports and the overview are cached and retried. Item lookups are made
// once and never cached, so removal flags always reflect the live record.
package kustodian
