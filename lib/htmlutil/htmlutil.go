package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Text collects the text content of a node and its descendants.
func Text(node *html.Node) string {
	var buffer bytes.Buffer
	collectText(node, &buffer)
	return buffer.String()
}

func collectText(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, buffer)
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// CleanText trims a scraped string down to something presentable:
// non-printable runes dropped, runs of whitespace collapsed.
func CleanText(s string) string {
	clean := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			clean.WriteRune(c)
		}
	}
	collapsed := innerWhitespace.ReplaceAllString(clean.String(), " ")
	return strings.Trim(collapsed, " \t\n")
}

type Anchor struct {
	Name string
	Href string
}

// Anchors extracts (text, href) pairs from a selection of <a> nodes.
func Anchors(sel *goquery.Selection) []Anchor {
	anchors := []Anchor{}
	for _, n := range sel.Nodes {
		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				break
			}
		}
		anchors = append(anchors, Anchor{
			Name: CleanText(Text(n)),
			Href: href,
		})
	}
	return anchors
}
