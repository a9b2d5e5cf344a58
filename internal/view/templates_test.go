package view

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine()
	assert.NoError(t, err, "Templates should parse without error")
	assert.NotNil(t, engine)
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"templates/layouts/base.html": {Data: []byte(`{{define "layouts/top"}}<html>{{end}}{{define "layouts/bottom"}}</html>{{end}}`)},
		"templates/partials/x.html":   {Data: []byte(`{{define "partials/x"}}x{{end}}`)},
		"templates/pages/hello.html":  {Data: []byte(`{{define "pages/hello.html"}}{{template "layouts/top"}}<style>{{stylesheet}}</style>{{.Title}}{{template "layouts/bottom"}}{{end}}`)},
		"static/css/dashboard.css":    {Data: []byte(`body{color:red}`)},
	}
}

func TestRenderSetsContentType(t *testing.T) {
	fsys := testFS()
	engine, err := NewEngineFS(fsys, fsys)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	require.NoError(t, engine.Render(rr, "pages/hello.html", TemplateData{Title: "<hi>"}))
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, "<html><style>body{color:red}</style>&lt;hi&gt;</html>", rr.Body.String())
}

func TestUnknownTemplateWritesNothing(t *testing.T) {
	fsys := testFS()
	engine, err := NewEngineFS(fsys, fsys)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	assert.Error(t, engine.Render(rr, "pages/missing.html", TemplateData{}))
	assert.Empty(t, rr.Body.String())
}

func TestNilEngine(t *testing.T) {
	var engine *Engine
	assert.Error(t, engine.Execute(&bytes.Buffer{}, "pages/hello.html", TemplateData{}))
}
