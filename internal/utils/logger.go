package utils

import (
	"log"
	"strings"
)

// LogEvent writes a service event: [MODULE] action=... request_id=... msg=...
// msg is a short key=value summary; never pass customer payloads or
// passwords. Requests without an id (boot, migrations) log request_id=-.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	if req == "" {
		req = "-"
	}
	msg := strings.ReplaceAll(strings.TrimSpace(message), "\n", " ")
	log.Printf("[%s] action=%s request_id=%s msg=%s", strings.ToUpper(strings.TrimSpace(module)), action, req, msg)
}
