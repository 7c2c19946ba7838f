package models

// Block is one element of a Portable Text body.
type Block struct {
	Type     string    `json:"_type"`
	Key      string    `json:"_key,omitempty"`
	Style    string    `json:"style,omitempty"`
	ListItem string    `json:"listItem,omitempty"`
	Level    int       `json:"level,omitempty"`
	Children []Span    `json:"children,omitempty"`
	MarkDefs []MarkDef `json:"markDefs,omitempty"`

	// image blocks
	Asset *ImageAsset `json:"asset,omitempty"`
	Alt   string      `json:"alt,omitempty"`
}

// Span is an inline run of text with decorator marks or markDef keys.
type Span struct {
	Type  string   `json:"_type"`
	Key   string   `json:"_key,omitempty"`
	Text  string   `json:"text"`
	Marks []string `json:"marks,omitempty"`
}

// MarkDef is an annotation referenced from Span.Marks by key.
type MarkDef struct {
	Key  string `json:"_key"`
	Type string `json:"_type"`
	Href string `json:"href,omitempty"`
}

// ImageAsset is an image reference with its dereferenced CDN URL.
type ImageAsset struct {
	Ref string `json:"_ref,omitempty"`
	URL string `json:"url,omitempty"`
}
