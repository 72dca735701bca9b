package sourcetable

import (
	"bytes"
	"fmt"
	"io"
)

const noSourcetableAvailable = "NO SOURCETABLE AVAILABLE"

// Body returns the NTRIP-client body: the filtered STR lines, each
// \r\n-terminated, followed by ENDSOURCETABLE\r\n. Non-STR lines (CAS, NET,
// free-form comments) are filtered out entirely.
func (st *Sourcetable) Body() []byte {
	var buf bytes.Buffer
	for _, e := range st.STR {
		buf.WriteString(e.Raw)
		buf.WriteString("\r\n")
	}
	buf.WriteString("ENDSOURCETABLE\r\n")
	return buf.Bytes()
}

// WriteNTRIPResponse writes the NTRIP plain-text sourcetable response onto
// w. A nil st (sourcetable file absent) writes the single-line fallback
// body with no Content-Length header.
func WriteNTRIPResponse(w io.Writer, st *Sourcetable, serverName string) error {
	if st == nil {
		_, err := io.WriteString(w, noSourcetableAvailable)
		return err
	}

	body := st.Body()
	header := fmt.Sprintf(
		"SOURCETABLE 200 OK\r\nServer: %s\r\nContent-Type: text/plain\r\nContent-Length: %d\r\n\r\n",
		serverName, len(body))

	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}
