package router

import (
	"fmt"
	"io"
	"time"

	"github.com/ntripcaster/caster/internal/ntrip/request"
	"github.com/ntripcaster/caster/internal/ntrip/sourcetable"
)

// writeGreeting sends the successful-listener greeting "ICY 200 OK\r\n\r\n";
// the source bytes that follow are written by Attachment.Stream.
func writeGreeting(w io.Writer) error {
	_, err := io.WriteString(w, "ICY 200 OK\r\n\r\n")
	return err
}

// writeUnauthorized sends the auth-failure egress: "HTTP/1.0 401
// Unauthorized" with a WWW-Authenticate header carrying the realm derived
// from path.
func writeUnauthorized(w io.Writer, path string) error {
	_, err := fmt.Fprintf(w,
		"HTTP/1.0 401 Unauthorized\r\nWWW-Authenticate: Basic realm=\"%s\"\r\nConnection: close\r\n\r\nNot authorized\r\n",
		path)
	return err
}

// writeNotNtripClient sends the AUTHZED -> LOOKUP User-Agent
// rejection: 401 with reason "No NTRIP client".
func writeNotNtripClient(w io.Writer, path string) error {
	_, err := fmt.Fprintf(w,
		"HTTP/1.0 401 Unauthorized\r\nWWW-Authenticate: Basic realm=\"%s\"\r\nConnection: close\r\n\r\nNo NTRIP client\r\n",
		path)
	return err
}

// writeServerFull sends the capacity-failure egress: a plain-text
// diagnostic line, then close.
func writeServerFull(w io.Writer) error {
	_, err := io.WriteString(w, "ERROR - Server Full\r\n")
	return err
}

// writeSourcetable renders the sourcetable for req's User-Agent, choosing
// NTRIP plain-text or browser HTML depending on the requesting client.
func (r *Router) writeSourcetable(w io.Writer, req *request.Request) {
	userAgent, _ := req.Header("User-Agent")

	var st *sourcetable.Sourcetable
	if r.sourcetable != nil {
		st = r.sourcetable.Current()
	}

	if sourcetable.IsBrowser(userAgent) {
		_ = sourcetable.WriteHTMLResponse(w, st, sourcetable.PageInfo{
			ServerName: r.identity.ServerName,
			Port:       r.identity.Port,
			Version:    r.identity.Version,
			Now:        time.Now(),
		})
		return
	}

	_ = sourcetable.WriteNTRIPResponse(w, st, r.identity.ServerName)
}
