package publishing

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/easy-read/core/internal/modules/access"
	"github.com/easy-read/core/internal/modules/lifecycle"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestProtocolErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"concurrent change", ErrConflict, http.StatusConflict,
			"That article was just changed by someone else. Please try again."},
		{"draft with live twin", ErrLiveTwinExists, http.StatusConflict,
			"That article still has a published version. Permanently delete the published version instead."},
		{"illegal transition", lifecycle.ErrInvalidTransition, http.StatusForbidden,
			"You do not have access to do that."},
		{"unexpected error", errors.New("boom"), http.StatusInternalServerError, "boom"},
	}

	h := &Handler{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			h.protocolError(c, tt.err, access.RedirectAdminArticles)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}
