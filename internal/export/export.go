package export

import (
	"errors"
	"fmt"
	"html"
	"strings"
)

// Format selects the output encoding of an exported document.
type Format string

const (
	FormatTXT  Format = "txt"
	FormatRTF  Format = "rtf"
	FormatHTML Format = "html"
)

// ErrUnsupportedFormat is returned for any format outside the supported
// set, before any file is written.
var ErrUnsupportedFormat = errors.New("unsupported export format")

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Scanned Document</title>
<style>body { font-family: sans-serif; margin: 2em; line-height: 1.5; }</style>
</head>
<body>
<p>%s</p>
</body>
</html>
`

// Render serializes text into the requested format. It performs no I/O.
func Render(text string, format Format) ([]byte, error) {
	switch format {
	case FormatTXT:
		return []byte(text), nil
	case FormatRTF:
		return []byte(renderRTF(text)), nil
	case FormatHTML:
		return []byte(renderHTML(text)), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// MimeType returns the content type served for a format.
func MimeType(format Format) string {
	switch format {
	case FormatRTF:
		return "application/rtf"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// IsValidFormat reports whether format is one of the supported encodings.
func IsValidFormat(format Format) bool {
	switch format {
	case FormatTXT, FormatRTF, FormatHTML:
		return true
	}
	return false
}

// renderRTF wraps text in a minimal RTF document. RTF control characters
// are escaped and newlines become paragraph breaks.
func renderRTF(text string) string {
	escaper := strings.NewReplacer(
		`\`, `\\`,
		`{`, `\{`,
		`}`, `\}`,
	)
	body := escaper.Replace(text)
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\n", `\par `)
	return `{\rtf1\ansi\deff0 {\fonttbl {\f0 Times New Roman;}}\f0\fs24 ` + body + `}`
}

// renderHTML embeds escaped text in the fixed document template with
// newlines rendered as line breaks.
func renderHTML(text string) string {
	body := html.EscapeString(text)
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\n", "<br>")
	return fmt.Sprintf(htmlTemplate, body)
}
