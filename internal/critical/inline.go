package critical

import (
	"bytes"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"assetforge/internal/fingerprint"
)

// Inline injects the cached critical CSS and JS for (pageID, viewport)
// into the document's head. A cache miss injects nothing; an unparseable
// document passes through untouched. Inline never fails a request.
func (c *Cache) Inline(pageID int, viewport fingerprint.Viewport, doc []byte) []byte {
	css, haveCSS := c.CSS(pageID, viewport)
	js, haveJS := c.JS(pageID, viewport)
	if !haveCSS && !haveJS {
		return doc
	}

	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return doc
	}
	head := findElement(root, atom.Head)
	if head == nil {
		return doc
	}

	if haveCSS && len(css) > 0 {
		head.AppendChild(textElement(atom.Style, "style", css))
	}
	if haveJS && len(js) > 0 {
		head.AppendChild(textElement(atom.Script, "script", js))
	}

	var out bytes.Buffer
	if err := html.Render(&out, root); err != nil {
		return doc
	}
	return out.Bytes()
}

func textElement(a atom.Atom, name string, content []byte) *html.Node {
	node := &html.Node{Type: html.ElementNode, DataAtom: a, Data: name}
	node.AppendChild(&html.Node{Type: html.TextNode, Data: string(content)})
	return node
}

func findElement(node *html.Node, a atom.Atom) *html.Node {
	if node.Type == html.ElementNode && node.DataAtom == a {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, a); found != nil {
			return found
		}
	}
	return nil
}
