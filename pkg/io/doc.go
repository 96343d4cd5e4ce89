// Package io reads and writes capacity report documents as files.
//
// The report API serves JSON; the same document shape can be stored locally
// as JSON or YAML and rendered without network access:
//
//	text: Dewar 2
//	capacity: 10
//	children:
//	  - text: Rack A
//	    capacity: 5
//	    size: 3
//	  - text: Rack B
//	    capacity: 5
//	    size: 2
//
// [ImportTree] decodes a file and runs [capacity.Build] on it. [WriteTree]
// converts a built tree back into the document shape, so exports can be
// re-imported to an equal tree. Derived values (depth, aggregate size) are
// not written.
//
// [capacity.Build]: github.com/kustodian/sunburst/pkg/capacity.Build
package io
