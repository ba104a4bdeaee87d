package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hedge-analytics/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	router := gin.New()
	router.GET("/t", handler)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/t", nil))
	return w
}

func TestSuccessEnvelope(t *testing.T) {
	w := perform(func(c *gin.Context) {
		response.Success(c, gin.H{"value": 42})
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Code)
	assert.Equal(t, "success", body.Message)
	assert.NotNil(t, body.Data)
}

func TestErrorEnvelopes(t *testing.T) {
	cases := []struct {
		name     string
		handler  gin.HandlerFunc
		status   int
		code     int
	}{
		{"bad request", func(c *gin.Context) { response.BadRequest(c, "bad") }, http.StatusBadRequest, -1},
		{"unauthorized", func(c *gin.Context) { response.Unauthorized(c, "no") }, http.StatusUnauthorized, -1001},
		{"not found", func(c *gin.Context) { response.NotFound(c, "gone") }, http.StatusNotFound, -1003},
		{"conflict", func(c *gin.Context) { response.Conflict(c, "dup") }, http.StatusConflict, -1004},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := perform(tc.handler)
			assert.Equal(t, tc.status, w.Code)

			var body response.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestSuccessPaginated(t *testing.T) {
	w := perform(func(c *gin.Context) {
		response.SuccessPaginated(c, []string{"a", "b", "c"}, 7, 1, 3)
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Code int `json:"code"`
		Data struct {
			Total      int64 `json:"total"`
			Page       int   `json:"page"`
			PageSize   int   `json:"page_size"`
			TotalPages int   `json:"total_pages"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.Data.Total)
	assert.Equal(t, 3, body.Data.TotalPages)
}
