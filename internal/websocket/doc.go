// Package websocket pushes session change notifications to open report pages.
//
// A single Hub owns the client set. Services call Hub.Publish after every
// session change; the hub fans the encoded events.WebSocketMessage out to each
// client's buffered send channel, and slow clients are disconnected.
package websocket
