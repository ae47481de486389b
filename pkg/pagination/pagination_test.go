package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsFor(rawQuery string) Params {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	return Parse(c)
}

func TestParseDefaults(t *testing.T) {
	p := paramsFor("")
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)
}

func TestParseClampsLimit(t *testing.T) {
	assert.Equal(t, MaxLimit, paramsFor("limit=9999").Limit)
	assert.Equal(t, DefaultLimit, paramsFor("limit=0").Limit)
	assert.Equal(t, DefaultLimit, paramsFor("limit=-5").Limit)
}

func TestParseIgnoresMalformedValues(t *testing.T) {
	p := paramsFor("page=abc&limit=xyz")
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
}

func TestParseComputesOffset(t *testing.T) {
	p := paramsFor("page=3&limit=10")
	assert.Equal(t, 20, p.Offset)
}
