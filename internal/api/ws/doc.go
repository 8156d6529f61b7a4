// Package ws streams notifications to the UI over WebSocket.
//
// Each connection subscribes to the notification center and receives an
// event whenever a toast is shown or removed. Writes happen on one
// goroutine per connection; a slow client drops events rather than
// stalling the center.
//
// Message Types (Client → Server):
//   - ping: Keep-alive ping
//   - dismiss: Remove a notification early ({"type":"dismiss","id":"ntf_..."})
//
// Message Types (Server → Client):
//   - system: Connected, carries the connection ID
//   - notification: A notification was shown or removed
//   - pong: Reply to ping
//   - error: The last client message was rejected
//
// Example Usage:
//
//	handler := ws.NewHandler(center, metrics, logger)
//	router.GET("/stream", handler.HandleConnection)
package ws
