// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package router wires the HTTP routes to their handlers.
//
// NewRouter builds the full application graph: the vote ledger, match store,
// vote coordinator, blob store and the SSE hub, with committed changes
// published to stream subscribers. Routes use Go 1.22 method patterns on the
// standard ServeMux.
package router
