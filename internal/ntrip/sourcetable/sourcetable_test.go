package sourcetable

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const sampleTable = "CAS;caster.example.com;2101;Example;ExampleOrg;0;USA;40.0;-105.0;0.0.0.0;0\n" +
	"STR;MOUNT1;Station1;RTCM 3.2;1005(1),1077(1);2;GPS+GLO;WORLD;40.0;-105.0;0;0;sNTRIP;none;B;N;9600;\n" +
	"NET;ExampleNet;ExampleOrg;N;N;http://example.com;http://example.com/str;http://example.com/reg\n" +
	"; this is a free-form comment\n"

func TestParseFiltersByRecordKind(t *testing.T) {
	st := Parse([]byte(sampleTable))
	require.Len(t, st.CAS, 1)
	require.Len(t, st.STR, 1)
	require.Len(t, st.NET, 1)
	require.Contains(t, st.Info, "; this is a free-form comment")
}

func TestNTRIPBodyContainsOnlyFilteredSTRLines(t *testing.T) {
	st := Parse([]byte(sampleTable))
	var buf bytes.Buffer
	require.NoError(t, WriteNTRIPResponse(&buf, st, "NTRIP Caster"))

	out := buf.String()
	require.Contains(t, out, "SOURCETABLE 200 OK")
	require.Contains(t, out, "Content-Type: text/plain")
	require.NotContains(t, out, "CAS;caster.example.com")
	require.NotContains(t, out, "NET;ExampleNet")
	require.Contains(t, out, "STR;MOUNT1;Station1")
	require.Contains(t, out, "ENDSOURCETABLE\r\n")
}

func TestContentLengthMatchesBodyByteCount(t *testing.T) {
	st := Parse([]byte(sampleTable))
	body := st.Body()

	expectedBody := "STR;MOUNT1;Station1;RTCM 3.2;1005(1),1077(1);2;GPS+GLO;WORLD;40.0;-105.0;0;0;sNTRIP;none;B;N;9600;\r\nENDSOURCETABLE\r\n"
	require.Equal(t, expectedBody, string(body))

	var buf bytes.Buffer
	require.NoError(t, WriteNTRIPResponse(&buf, st, "NTRIP Caster"))
	require.Contains(t, buf.String(), fmt.Sprintf("Content-Length: %d", len(expectedBody)))
}

func TestMissingSourcetableYieldsFallbackBodyNoContentLength(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteNTRIPResponse(&buf, nil, "NTRIP Caster"))
	require.Equal(t, "NO SOURCETABLE AVAILABLE", buf.String())
}

func TestIsBrowserClassification(t *testing.T) {
	require.True(t, IsBrowser("Mozilla/5.0 (Windows NT 10.0)"))
	require.True(t, IsBrowser("Mozilla/4.0 (compatible; MSIE 6.0)"))
	require.False(t, IsBrowser("NTRIP ExampleClient/1.0"))
	require.False(t, IsBrowser(""))
}

func TestWriteHTMLResponseIncludesAllTables(t *testing.T) {
	st := Parse([]byte(sampleTable))
	var buf bytes.Buffer
	info := PageInfo{ServerName: "NTRIP Caster", Port: 2101, Version: "1.0", Now: time.Unix(0, 0)}
	require.NoError(t, WriteHTMLResponse(&buf, st, info))

	out := buf.String()
	require.Contains(t, out, "HTTP/1.0 200 OK")
	require.Contains(t, out, "Content-Type: text/html")
	require.Contains(t, out, "Casters (CAS)")
	require.Contains(t, out, "Networks (NET)")
	require.Contains(t, out, "Streams (STR)")
}

func TestSplitRowOverflowsIntoMisc(t *testing.T) {
	cols, misc := splitRow([]string{"a", "", "c", "d", "e"}, 3)
	require.Equal(t, []string{"a", "-", "c"}, cols)
	require.Equal(t, "d; e", misc)
}

func TestSplitRowPadsMissingFieldsWithDash(t *testing.T) {
	cols, misc := splitRow([]string{"a"}, 3)
	require.Equal(t, []string{"a", "-", "-"}, cols)
	require.Equal(t, "-", misc)
}
