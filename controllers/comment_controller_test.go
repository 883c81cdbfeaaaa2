package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCommentValidation(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"rating above range", `{"postId":"p","author":"a","text":"t","rating":6}`, "rating"},
		{"rating zero", `{"postId":"p","author":"a","text":"t","rating":0}`, "rating"},
		{"missing author", `{"postId":"p","text":"t","rating":3}`, "author"},
		// the error body echoes the wire name, not the Go field name
		{"missing postId", `{"author":"a","text":"t","rating":3}`, "postId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, r, "/comments", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			body := decodeError(t, w)
			require.Len(t, body.Errors, 1)
			assert.Equal(t, tt.field, body.Errors[0].Field)
		})
	}
}
