package views

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"friendsearch/internal/domain"
)

func TestRenderStatusLines(t *testing.T) {
	r := NewRenderer()

	idle := r.Render(ViewState{MinLength: 3})
	assert.Contains(t, idle, "Type at least 3 characters to search")

	searching := r.Render(ViewState{Searching: true, Spinner: "*"})
	assert.Contains(t, searching, "Searching...")

	user := domain.User{ID: "123", Name: "cedric"}
	found := r.Render(ViewState{Resolved: true, Term: "cedric", User: &user})
	assert.Contains(t, found, "cedric (123)")

	missing := r.Render(ViewState{Resolved: true, Term: "ced"})
	assert.Contains(t, missing, "No user named ced")
}

func TestRenderToast(t *testing.T) {
	r := NewRenderer()
	out := r.Render(ViewState{Toast: "Friend added id: 123"})
	assert.Contains(t, out, "Friend added id: 123")
}

func TestRenderButtonDefaultsLabel(t *testing.T) {
	r := NewRenderer()
	assert.Contains(t, r.RenderButton("", false), "Add friend")
	assert.Contains(t, r.RenderButton("Send", true), "Send")
}
