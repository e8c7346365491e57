package models

// Document is a tenant attachment. Remote documents carry the object-storage
// path and public URL; local-only documents inline the file as a data URL.
type Document struct {
	Name    string `json:"name"`
	Path    string `json:"path,omitempty"`
	URL     string `json:"url,omitempty"`
	DataURL string `json:"dataUrl,omitempty"`
}

func (d Document) Remote() bool { return d.Path != "" }

// ApproxBytes estimates the decoded size of an inline document. Base64
// expands by 4/3, so the payload length times 3/4 is close enough for
// enforcing the storage budget.
func (d Document) ApproxBytes() int {
	if d.DataURL == "" {
		return 0
	}
	return len(d.DataURL) * 3 / 4
}
