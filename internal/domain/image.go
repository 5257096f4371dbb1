package domain

// Image is a CMS image value. It stays opaque until the image URL builder
// resolves it; Asset may point at a content-lake asset (Ref) or at an
// externally hosted blob (URL).
type Image struct {
	Type    string    `json:"_type,omitempty"`
	Asset   *AssetRef `json:"asset,omitempty"`
	Crop    *Crop     `json:"crop,omitempty"`
	Hotspot *Hotspot  `json:"hotspot,omitempty"`
}

// AssetRef references the binary behind an image.
type AssetRef struct {
	Ref string `json:"_ref,omitempty"`
	URL string `json:"url,omitempty"`
}

// Crop holds the fraction trimmed from each edge, in [0, 1].
type Crop struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

// Hotspot is the focal area of an image, expressed as fractions.
type Hotspot struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsZero reports whether the image carries nothing that can be resolved.
func (i *Image) IsZero() bool {
	return i == nil || i.Asset == nil || (i.Asset.Ref == "" && i.Asset.URL == "")
}
