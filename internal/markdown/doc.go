// Package markdown renders finished Markdown back to HTML so converted
// documents can be previewed in a browser.
package markdown
