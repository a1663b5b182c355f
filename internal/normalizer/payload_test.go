package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cx-tal-miterani/flight-booking-client/shared/models"
)

const searchItems = `[{"id":"F1","from":"DEL","to":"BOM","departure":"2024-01-01T08:00Z","arrival":"2024-01-01T10:00Z","price":100,"seats":150},` +
	`{"id":"F2","from":"DEL","to":"BOM","departure":"2024-01-01T12:00Z","arrival":"2024-01-01T14:10Z","price":120.5,"seats":90}]`

func TestNormalizeCollection_KnownShapesAgree(t *testing.T) {
	quoted := `"` + escape(searchItems) + `"`

	shapes := []struct {
		name  string
		raw   string
		shape Shape
	}{
		{"string body", `{"statusCode":200,"body":` + quoted + `}`, ShapeStringBody},
		{"body array", `{"body":` + searchItems + `}`, ShapeArray},
		{"bare array", searchItems, ShapeArray},
		{"items wrapper", `{"Items":` + searchItems + `,"Count":2}`, ShapeItems},
		{"string body with items", `{"body":"` + escape(`{"Items":`+searchItems+`}`) + `"}`, ShapeStringBody},
	}

	var expected []Record
	for _, tt := range shapes {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.shape, p.Shape)
			require.Len(t, p.Records, 2)

			if expected == nil {
				expected = p.Records
				return
			}
			assert.Equal(t, expected, p.Records)
		})
	}
}

func TestDecode_SingleObjectFallback(t *testing.T) {
	p, err := Decode([]byte(`{"id":"F1","from":"DEL"}`))
	require.NoError(t, err)

	assert.Equal(t, ShapeSingle, p.Shape)
	require.Len(t, p.Records, 1)
	assert.Equal(t, "F1", FlightID(p.Records[0]))
}

func TestDecode_ExtraWrapperAndEnvelope(t *testing.T) {
	raw := `{"bookings":[{"bookingId":"B1"},null,{"bookingId":"B2"}],"paginationToken":"next-1"}`

	p, err := Decode([]byte(raw), "bookings")
	require.NoError(t, err)

	assert.Equal(t, ShapeItems, p.Shape)
	assert.Len(t, p.Records, 2)
	assert.Equal(t, "next-1", PaginationToken(p.Envelope))
}

func TestDecode_NullWrapperIsEmpty(t *testing.T) {
	p, err := Decode([]byte(`{"bookings":null,"paginationToken":null}`), "bookings")
	require.NoError(t, err)

	assert.Empty(t, p.Records)
	assert.Empty(t, PaginationToken(p.Envelope))
}

func TestDecode_EnvelopeMergesBodyLevels(t *testing.T) {
	raw := `{"statusCode":200,"paginationToken":"outer","body":"{\"Items\":[],\"paginationToken\":\"inner\"}"}`

	p, err := Decode([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "inner", PaginationToken(p.Envelope))
	_, hasBody := p.Envelope["body"]
	assert.False(t, hasBody)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `<html>oops</html>`},
		{"empty", ``},
		{"trailing data", `[] []`},
		{"scalar", `42`},
		{"null", `null`},
		{"body not json", `{"body":"not json"}`},
		{"body scalar", `{"body":12}`},
		{"body null", `{"body":null}`},
		{"scalar elements", `[1,2,3]`},
		{"items not array", `{"Items":{"id":"F1"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeCollection([]byte(tt.raw))
			require.Error(t, err)
			assert.True(t, models.IsMalformed(err), "expected malformed response, got %v", err)
		})
	}
}

func TestDecodeObject(t *testing.T) {
	p, err := DecodeObject([]byte(`{"body":"{\"level\":\"gold\"}"}`))
	require.NoError(t, err)
	assert.Equal(t, "gold", Level(p.Records[0]))

	_, err = DecodeObject([]byte(`[]`))
	assert.True(t, models.IsMalformed(err))

	_, err = DecodeObject([]byte(`[{"a":1},{"b":2}]`))
	assert.True(t, models.IsMalformed(err))
}

func escape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
