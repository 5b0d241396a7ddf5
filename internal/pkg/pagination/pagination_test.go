package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func queryContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestFromContext(t *testing.T) {
	tests := []struct {
		name     string
		rawQuery string
		want     Query
	}{
		{"defaults", "", Query{Page: DefaultPage, Size: DefaultSize}},
		{"explicit", "page=3&size=15", Query{Page: 3, Size: 15}},
		{"size capped", "size=500", Query{Page: DefaultPage, Size: MaxSize}},
		{"negative page", "page=-1", Query{Page: DefaultPage, Size: DefaultSize}},
		{"garbage falls back", "page=abc&size=xyz", Query{Page: DefaultPage, Size: DefaultSize}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromContext(queryContext(t, tt.rawQuery)))
		})
	}
}
