package request

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBasicListenerRequest(t *testing.T) {
	buf := []byte("GET /MOUNT1 HTTP/1.0\r\n" +
		"User-Agent: NTRIP ExampleClient/1.0\r\n" +
		"Host: caster.example.com:2101\r\n" +
		"\r\n")

	req, err := Parse(buf)
	require.NoError(t, err)
	require.Equal(t, "GET", req.Method)
	require.Equal(t, "/MOUNT1", req.Path)
	require.Equal(t, "caster.example.com", req.Host)
	require.Equal(t, 2101, req.Port)

	ua, ok := req.Header("user-agent")
	require.True(t, ok)
	require.Equal(t, "NTRIP ExampleClient/1.0", ua)
	require.Nil(t, req.Credentials)
}

func TestParseRejectsNonGETRequestLine(t *testing.T) {
	_, err := Parse([]byte("POST /MOUNT1 HTTP/1.0\r\n\r\n"))
	require.ErrorIs(t, err, ErrMalformedRequest)
}

func TestParseRejectsGarbageFirstLine(t *testing.T) {
	_, err := Parse([]byte("not a request at all\r\n"))
	require.ErrorIs(t, err, ErrMalformedRequest)
}

func TestParseHeaderLastWriteWins(t *testing.T) {
	buf := []byte("GET /MOUNT1 HTTP/1.1\r\n" +
		"X-Repeat: first\r\n" +
		"X-Repeat: second\r\n" +
		"\r\n")

	req, err := Parse(buf)
	require.NoError(t, err)
	v, ok := req.Header("x-repeat")
	require.True(t, ok)
	require.Equal(t, "second", v)
}

func TestParseAuthorizationHeader(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("station1:secret"))
	buf := []byte("GET /MOUNT1 HTTP/1.0\r\n" +
		"Authorization: Basic " + payload + "\r\n" +
		"\r\n")

	req, err := Parse(buf)
	require.NoError(t, err)
	require.NotNil(t, req.Credentials)
	require.Equal(t, "station1", req.Credentials.Name)
	require.Equal(t, "secret", req.Credentials.Password)
}

func TestParseAuthorizationWithoutColonYieldsEmptyName(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("nopasswordseparator"))
	buf := []byte("GET /MOUNT1 HTTP/1.0\r\n" +
		"Authorization: Basic " + payload + "\r\n" +
		"\r\n")

	req, err := Parse(buf)
	require.NoError(t, err)
	require.NotNil(t, req.Credentials)
	require.Equal(t, "", req.Credentials.Name)
	require.Equal(t, "nopasswordseparator", req.Credentials.Password)
}

func TestParseHandlesTrailingPartialLine(t *testing.T) {
	buf := []byte("GET /MOUNT1 HTTP/1.0\r\nUser-Agent: NTRIP Trimble")

	req, err := Parse(buf)
	require.NoError(t, err)
	ua, ok := req.Header("user-agent")
	require.True(t, ok)
	require.Equal(t, "NTRIP Trimble", ua)
}

func TestParseAbsoluteFormTarget(t *testing.T) {
	buf := []byte("GET http://relay.example.com:2102/MOUNT2 HTTP/1.0\r\n\r\n")

	req, err := Parse(buf)
	require.NoError(t, err)
	require.Equal(t, "relay.example.com", req.Host)
	require.Equal(t, 2102, req.Port)
	require.Equal(t, "/MOUNT2", req.Path)
}

func TestParseDefaultsPathToRoot(t *testing.T) {
	buf := []byte("GET / HTTP/1.1\r\n\r\n")

	req, err := Parse(buf)
	require.NoError(t, err)
	require.Equal(t, "/", req.Path)
	require.Equal(t, 80, req.Port)
}
