package sourcetable

import (
	"fmt"
	"html"
	"io"
	"strings"
	"time"
)

// browserTokens are matched case-insensitively as substrings of User-Agent
// to classify the requester as a browser rather than an NTRIP client.
var browserTokens = []string{
	"Mozilla", "Chrome", "Safari", "Firefox", "Edge", "Opera", "Internet Explorer", "MSIE",
}

// IsBrowser reports whether userAgent looks like a web browser rather than
// an NTRIP client.
func IsBrowser(userAgent string) bool {
	if userAgent == "" {
		return false
	}
	lower := strings.ToLower(userAgent)
	for _, token := range browserTokens {
		if strings.Contains(lower, strings.ToLower(token)) {
			return true
		}
	}
	return false
}

// PageInfo carries the server identity fields the HTML header block
// displays.
type PageInfo struct {
	ServerName string
	Port       int
	Version    string
	Now        time.Time
}

const (
	casColumns = 11
	netColumns = 8
	strColumns = 18
)

// WriteHTMLResponse writes the browser sourcetable response onto a raw
// connection: the "HTTP/1.0 200 OK" status line and headers,
// followed by the HTML document itself. Use RenderHTML instead when writing
// through a framework that manages status line and headers itself (e.g. the
// admin HTTP surface's /sourcetable.html).
func WriteHTMLResponse(w io.Writer, st *Sourcetable, info PageInfo) error {
	if _, err := io.WriteString(w, "HTTP/1.0 200 OK\r\nContent-Type: text/html\r\nConnection: close\r\n\r\n"); err != nil {
		return err
	}
	_, err := io.WriteString(w, RenderHTML(st, info))
	return err
}

// RenderHTML builds the self-contained HTML document body: a header block,
// a general-information block, and CAS/NET/STR tables.
func RenderHTML(st *Sourcetable, info PageInfo) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html><head><title>")
	b.WriteString(html.EscapeString(info.ServerName))
	b.WriteString(" Sourcetable</title><style>")
	b.WriteString(pageCSS)
	b.WriteString("</style></head><body>\n")

	fmt.Fprintf(&b, "<div class=\"header\"><h1>%s</h1><p>Port: %d &middot; Version: %s &middot; %s</p></div>\n",
		html.EscapeString(info.ServerName), info.Port, html.EscapeString(info.Version),
		info.Now.Format(time.RFC1123))

	if st == nil {
		b.WriteString("<p>" + noSourcetableAvailable + "</p></body></html>")
		return b.String()
	}

	b.WriteString("<h2>General information</h2>\n<pre>\n")
	for _, line := range st.Info {
		b.WriteString(html.EscapeString(line))
		b.WriteString("\n")
	}
	b.WriteString("</pre>\n")

	writeTable(&b, "Casters (CAS)", casHeaders, st.CAS, casColumns)
	writeTable(&b, "Networks (NET)", netHeaders, st.NET, netColumns)
	writeTable(&b, "Streams (STR)", strHeaders, st.STR, strColumns)

	b.WriteString("</body></html>")
	return b.String()
}

var casHeaders = []string{
	"Host", "Port", "Identifier", "Operator", "NMEA", "Country",
	"Latitude", "Longitude", "FallbackHost", "FallbackPort", "Misc",
}
var netHeaders = []string{
	"Identifier", "Operator", "Authentication", "Fee", "WebNet",
	"WebStr", "WebReg", "Misc",
}
var strHeaders = []string{
	"Mountpoint", "Identifier", "Format", "FormatDetails", "Carrier",
	"NavSystem", "Network", "Country", "Latitude", "Longitude", "NMEA",
	"Solution", "Generator", "Compression", "Authentication", "Fee",
	"Bitrate", "Misc",
}

func writeTable(b *strings.Builder, title string, headers []string, entries []Entry, dedicated int) {
	fmt.Fprintf(b, "<h2>%s</h2>\n<table>\n<tr>", html.EscapeString(title))
	for _, h := range headers {
		fmt.Fprintf(b, "<th>%s</th>", html.EscapeString(h))
	}
	fmt.Fprintf(b, "<th>Misc</th></tr>\n")

	for _, e := range entries {
		cols, misc := splitRow(e.Fields, dedicated)
		b.WriteString("<tr>")
		for _, c := range cols {
			fmt.Fprintf(b, "<td>%s</td>", html.EscapeString(c))
		}
		fmt.Fprintf(b, "<td>%s</td></tr>\n", html.EscapeString(misc))
	}
	b.WriteString("</table>\n")
}

// splitRow fills the first n dedicated columns (padding/truncating with
// "-" for missing or empty fields) and concatenates any remaining fields
// with "; " into a trailing Misc value.
func splitRow(fields []string, n int) (cols []string, misc string) {
	cols = make([]string, n)
	for i := 0; i < n; i++ {
		if i < len(fields) {
			cols[i] = orDash(fields[i])
		} else {
			cols[i] = "-"
		}
	}

	if len(fields) <= n {
		return cols, "-"
	}

	overflow := make([]string, 0, len(fields)-n)
	for _, f := range fields[n:] {
		overflow = append(overflow, orDash(f))
	}
	return cols, strings.Join(overflow, "; ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

const pageCSS = `
body { font-family: sans-serif; margin: 2em; color: #222; }
table { border-collapse: collapse; margin-bottom: 2em; width: 100%; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; font-size: 0.9em; }
th { background: #f0f0f0; }
.header { border-bottom: 1px solid #ccc; margin-bottom: 1em; }
pre { background: #f7f7f7; padding: 1em; border: 1px solid #ddd; }
`
