// Package minify wraps CSS and JS minification for the asset pipeline.
package minify

import (
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
)

const (
	mimeCSS = "text/css"
	mimeJS  = "application/javascript"
)

// Minifier minifies CSS and JS byte slices.
type Minifier struct {
	m *minify.M
}

// New creates a minifier with CSS and JS handlers registered.
func New() *Minifier {
	m := minify.New()
	m.AddFunc(mimeCSS, css.Minify)
	m.AddFunc(mimeJS, js.Minify)
	return &Minifier{m: m}
}

// CSS returns the minified form of src.
func (mf *Minifier) CSS(src []byte) ([]byte, error) {
	return mf.m.Bytes(mimeCSS, src)
}

// JS returns the minified form of src.
func (mf *Minifier) JS(src []byte) ([]byte, error) {
	return mf.m.Bytes(mimeJS, src)
}
