// Package htmlnorm turns a Confluence page's HTML body into plain text:
// scripts and styles are dropped, lists are flattened into numbered or
// bulleted inline text, and the remaining text is whitespace-collapsed.
package htmlnorm

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Parse converts html into normalized plain text. An empty or
// unparseable input returns "".
func Parse(html string) string {
	if html == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	doc.Find("script, style").Remove()
	flattenLists(doc.Selection, "ol", numbered)
	flattenLists(doc.Selection, "ul", bulleted)

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	return strings.Join(strings.Fields(root.Text()), " ")
}

// flattenLists replaces every element matching tag with the inline text
// render produced by itemFormat.
func flattenLists(doc *goquery.Selection, tag string, itemFormat func(i int, text string) string) {
	doc.Find(tag).Each(func(_ int, list *goquery.Selection) {
		var parts []string
		list.Find("li").Each(func(j int, li *goquery.Selection) {
			parts = append(parts, itemFormat(j, strings.TrimSpace(li.Text())))
		})
		list.ReplaceWithHtml(strings.Join(parts, " "))
	})
}

func numbered(i int, text string) string {
	return strconv.Itoa(i+1) + ". " + text
}

func bulleted(_ int, text string) string {
	return "• " + text
}
