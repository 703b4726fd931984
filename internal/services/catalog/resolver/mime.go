package resolver

import "strings"

// DefaultMIMEType is returned for filenames with no known suffix.
const DefaultMIMEType = "text/plain"

// mimeTypes is checked in order; the first matching suffix wins.
var mimeTypes = []struct {
	suffix   string
	mimeType string
}{
	{".rs", "text/x-rust"},
	{".py", "text/x-python"},
	{".js", "text/javascript"},
	{".ts", "text/typescript"},
	{".json", "application/json"},
	{".md", "text/markdown"},
	{".toml", "text/x-toml"},
	{".yml", "text/yaml"},
	{".yaml", "text/yaml"},
}

// InferMIMEType maps a filename to a MIME type by suffix. It never fails.
func InferMIMEType(filename string) string {
	for _, m := range mimeTypes {
		if strings.HasSuffix(filename, m.suffix) {
			return m.mimeType
		}
	}
	return DefaultMIMEType
}
