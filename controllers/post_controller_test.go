package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitpress/blogapi/config"
	"github.com/fitpress/blogapi/services"
	"github.com/fitpress/blogapi/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := utils.InitLogger(config.AppConfig{LogLevel: "error"}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type errorBody struct {
	Message string                `json:"message"`
	Errors  []services.FieldError `json:"errors"`
}

// newTestRouter builds a router around controllers with no store; only
// request paths that fail before touching the database are exercised here.
func newTestRouter() *gin.Engine {
	r := gin.New()
	postController := NewPostController(services.NewPostService(nil, nil))
	commentController := NewCommentController(services.NewCommentService(nil, nil))
	r.POST("/posts", postController.CreatePost)
	r.POST("/comments", commentController.CreateComment)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCreatePostValidation(t *testing.T) {
	r := newTestRouter()

	t.Run("missing required fields", func(t *testing.T) {
		w := postJSON(t, r, "/posts", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		body := decodeError(t, w)
		assert.Equal(t, "validation failed", body.Message)
		fields := make([]string, 0, len(body.Errors))
		for _, fe := range body.Errors {
			fields = append(fields, fe.Field)
		}
		assert.ElementsMatch(t, []string{"title", "slug", "body"}, fields)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := postJSON(t, r, "/posts", `{"title": `)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid request payload", decodeError(t, w).Message)
	})
}

func TestRespondServiceError(t *testing.T) {
	run := func(err error) (*httptest.ResponseRecorder, errorBody) {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Request = httptest.NewRequest(http.MethodGet, "/under-test", nil)
		respondServiceError(ctx, err)
		var body errorBody
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		return w, body
	}

	t.Run("not found", func(t *testing.T) {
		w, body := run(services.ErrPostNotFound)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Post not found", body.Message)
	})

	t.Run("duplicate slug", func(t *testing.T) {
		w, body := run(services.ErrDuplicateSlug)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "slug already exists", body.Message)
	})

	t.Run("validation error carries fields", func(t *testing.T) {
		w, body := run(services.Invalid("slug", "is required"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.Len(t, body.Errors, 1)
		assert.Equal(t, "slug", body.Errors[0].Field)
	})

	t.Run("unclassified errors stay generic", func(t *testing.T) {
		w, body := run(errors.New("connection refused"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "internal server error", body.Message)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}
