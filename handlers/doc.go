// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package handlers contains the HTTP handlers for the BlockFighters API.
//
// Handlers are grouped by resource: identities (enrollment and self lookup),
// matches (lifecycle management), voting (ballot submission) and snapshots
// (pinned tally documents plus portrait blobs). Each handler struct carries
// its database handle, configuration and the stores it fronts; routing is
// done in the router package.
package handlers
