// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package realtime pushes match-state changes to connected viewers over
Server-Sent Events.

The Hub holds one buffered channel per subscriber and the latest marshaled
match list. Broadcast is non-blocking: a subscriber that cannot keep up
skips intermediate states and catches up on the next broadcast, which is
acceptable because every message carries the full current list rather than
a delta. A subscriber that connects after a write receives the retained
snapshot immediately.

SSE is used instead of WebSocket for simplicity and HTTP/2 compatibility;
the stream emits "matches" events plus periodic keep-alive comments.
*/
package realtime
