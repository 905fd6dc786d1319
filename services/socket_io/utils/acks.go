package socketio_utils

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// Every client request expects exactly one acknowledgement with a
// {success, message?, ...} shape. socket.io appends the ack callback as
// the last argument when the client asked for one.

// ExtractAck splits the optional trailing ack callback from the event
// arguments.
func ExtractAck(args []interface{}) (socket.Ack, []interface{}) {
	if len(args) == 0 {
		return nil, args
	}
	if ack, ok := args[len(args)-1].(socket.Ack); ok {
		return ack, args[:len(args)-1]
	}
	return nil, args
}

// Payload reads the JSON object payload of an event, tolerating requests
// that sent nothing.
func Payload(args []interface{}) map[string]interface{} {
	if len(args) == 0 {
		return map[string]interface{}{}
	}
	if payload, ok := args[0].(map[string]interface{}); ok {
		return payload
	}
	return map[string]interface{}{}
}

// ReplyOK acknowledges a successful request. Extra fields ride along
// with success=true.
func ReplyOK(ack socket.Ack, fields gin.H) {
	if ack == nil {
		return
	}
	if fields == nil {
		fields = gin.H{}
	}
	fields["success"] = true
	ack([]interface{}{fields}, nil)
}

// ReplyErr reports a rejection through the ack when there is one, and
// falls back to an "error" emit for clients that did not request an ack.
func ReplyErr(ack socket.Ack, client *socket.Socket, message string) {
	if ack != nil {
		ack([]interface{}{gin.H{"success": false, "message": message}}, nil)
		return
	}
	if client != nil {
		client.Emit("error", gin.H{"error": message})
	} else {
		log.Printf("[SOCKET-WARN] Dropped rejection with no ack and no client: %s", message)
	}
}
