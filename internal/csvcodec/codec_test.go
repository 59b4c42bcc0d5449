package csvcodec

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeEmpty(t *testing.T) {
	assert.Equal(t, "", Encode(nil, nil))
	assert.Equal(t, "", Encode([]Row{}, []string{"a", "b"}))
}

func TestEncodeWithExplicitHeaders(t *testing.T) {
	rows := []Row{
		{"name": "Dhaka Hub", "country": "BD"},
		{"name": "Chittagong", "country": "BD"},
	}

	got := Encode(rows, []string{"name", "country"})
	assert.Equal(t, "name,country\nDhaka Hub,BD\nChittagong,BD", got)
}

func TestEncodeNoTrailingNewline(t *testing.T) {
	got := Encode([]Row{{"a": "1"}}, []string{"a"})
	assert.Equal(t, "a\n1", got)
}

func TestEncodeDerivedHeadersSorted(t *testing.T) {
	rows := []Row{
		{"zulu": "1", "alpha": "2"},
		{"mike": "3"},
	}

	got := Encode(rows, nil)
	assert.Equal(t, "alpha,mike,zulu\n2,,1\n,3,", got)
}

func TestEncodeEscaping(t *testing.T) {
	rows := []Row{{"v": `a,b"c`}}

	got := Encode(rows, []string{"v"})
	assert.Equal(t, "v\n\"a,b\"\"c\"", got)
}

func TestEncodeMissingKeyEmitsEmpty(t *testing.T) {
	rows := []Row{{"a": "x"}}

	got := Encode(rows, []string{"a", "b"})
	assert.Equal(t, "a,b\nx,", got)
}

func TestDecodeSimple(t *testing.T) {
	rows := Decode("name,country\nDhaka Hub,BD\nSylhet,BD")

	assert.Len(t, rows, 2)
	assert.Equal(t, Row{"name": "Dhaka Hub", "country": "BD"}, rows[0])
	assert.Equal(t, Row{"name": "Sylhet", "country": "BD"}, rows[1])
}

func TestDecodeQuotedFields(t *testing.T) {
	rows := Decode("name,notes\n\"Dhaka, Central\",\"said \"\"ok\"\"\"")

	assert.Len(t, rows, 1)
	assert.Equal(t, "Dhaka, Central", rows[0]["name"])
	assert.Equal(t, `said "ok"`, rows[0]["notes"])
}

func TestDecodeDropsBlankLines(t *testing.T) {
	rows := Decode("a,b\n\n1,2\n\n\n3,4\n")

	assert.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0]["a"])
	assert.Equal(t, "3", rows[1]["a"])
}

func TestDecodeCRLF(t *testing.T) {
	rows := Decode("a,b\r\n1,2\r\n")

	assert.Len(t, rows, 1)
	assert.Equal(t, Row{"a": "1", "b": "2"}, rows[0])
}

func TestDecodePadsShortRows(t *testing.T) {
	rows := Decode("a,b,c\n1,2")

	assert.Len(t, rows, 1)
	assert.Equal(t, Row{"a": "1", "b": "2", "c": ""}, rows[0])
}

func TestDecodeIgnoresExtraValues(t *testing.T) {
	rows := Decode("a,b\n1,2,3,4")

	assert.Len(t, rows, 1)
	assert.Equal(t, Row{"a": "1", "b": "2"}, rows[0])
}

func TestDecodeEmptyInput(t *testing.T) {
	assert.Nil(t, Decode(""))
	assert.Nil(t, Decode("\n\n"))
}

func TestDecodeHeaderOnly(t *testing.T) {
	rows := Decode("a,b")
	assert.Empty(t, rows)
}

func TestRoundTrip(t *testing.T) {
	in := []Row{
		{"name": "Dhaka, Central", "slug": "dhaka-central", "country": "BD"},
		{"name": `The "Hub"`, "slug": "", "country": "BD"},
	}
	headers := []string{"name", "slug", "country"}

	out := Decode(Encode(in, headers))

	assert.Equal(t, in, out)
}

func TestWriteDownloadHeaders(t *testing.T) {
	w := httptest.NewRecorder()

	WriteDownload(w, "locations.csv", []byte("id,name"), "")

	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="locations.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "id,name", w.Body.String())
}

func TestWriteDownloadQuotesFilename(t *testing.T) {
	// A filename with spaces or a stray quote must stay inside one
	// quoted parameter.
	w := httptest.NewRecorder()

	WriteDownload(w, `rates "q1" export.csv`, nil, "")

	assert.Equal(t, `attachment; filename="rates \"q1\" export.csv"`, w.Header().Get("Content-Disposition"))
}
