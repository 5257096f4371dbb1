package content

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// Profile is the site owner's static page content.
type Profile struct {
	Name     string       `yaml:"name"`
	Title    string       `yaml:"title"`
	Location string       `yaml:"location"`
	SiteName string       `yaml:"siteName"`
	Summary  string       `yaml:"summary"`
	About    []Paragraph  `yaml:"about"`
	Socials  []SocialLink `yaml:"socials"`

	Experience []Experience `yaml:"experience"`
	Works      Works        `yaml:"works"`

	TestimonialsHeading Heading `yaml:"testimonialsHeading"`
}

// Paragraph is a run of text segments; highlighted segments are emphasised.
type Paragraph []Segment

// Segment is one piece of a paragraph.
type Segment struct {
	Text      string `yaml:"text"`
	Highlight bool   `yaml:"highlight,omitempty"`
	// Companies expands to the names of the CMS companies.
	Companies bool `yaml:"companies,omitempty"`
}

// SocialLink is an external profile link.
type SocialLink struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
	Icon  string `yaml:"icon"`
}

// Experience is one entry of the experience list.
type Experience struct {
	Company     string `yaml:"company"`
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
	Role        string `yaml:"role"`
}

// Heading is a two-tone section heading.
type Heading struct {
	Lead   string `yaml:"lead"`
	Accent string `yaml:"accent"`
	Icon   string `yaml:"icon,omitempty"`
	Emoji  string `yaml:"emoji,omitempty"`
}

// Works is the project carousel section.
type Works struct {
	Heading  Heading   `yaml:"heading"`
	Video    string    `yaml:"video"`
	Subtitle string    `yaml:"subtitle"`
	Products []Product `yaml:"products"`
}

// Product is a card of the project carousel.
type Product struct {
	Image           string `yaml:"image"`
	Alt             string `yaml:"alt"`
	BackgroundColor string `yaml:"backgroundColor"`
	Width           int    `yaml:"width"`
	Height          int    `yaml:"height"`
}

// LoadProfile reads a YAML profile from fsys.
func LoadProfile(fsys fs.FS, name string) (*Profile, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", name, err)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("profile %s: name is required", name)
	}
	for i := range p.Works.Products {
		prod := &p.Works.Products[i]
		if prod.Width == 0 {
			prod.Width = 296
		}
		if prod.Height == 0 {
			prod.Height = 458
		}
	}
	return &p, nil
}
