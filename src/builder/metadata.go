package builder

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"

	"favicongen/src/common"
	"favicongen/src/config"
)

// Metadata file names, relative to the output directory
const (
	ManifestFile      = "site.webmanifest"
	BrowserConfigFile = "browserconfig.xml"
	HeadHTMLFile      = "head-instructions.html"
	LegacyIconFile    = "favicon.ico"
)

// Site holds the values the metadata files carry besides icon paths
type Site struct {
	Name            string
	ShortName       string
	ThemeColor      string
	BackgroundColor string
	TileColor       string
	Display         string
	BasePath        string
}

// SiteFromConfig extracts metadata values from a run config
func SiteFromConfig(cfg *config.Config) Site {
	return Site{
		Name:            cfg.Name,
		ShortName:       cfg.AppShortName(),
		ThemeColor:      cfg.Theme.ThemeColor,
		BackgroundColor: cfg.Theme.BackgroundColor,
		TileColor:       cfg.Theme.TileColor,
		Display:         cfg.Theme.Display,
		BasePath:        cfg.Theme.BasePath,
	}
}

// Href joins a base path and an output-relative file path into a URL path
func (s Site) Href(rel string) string {
	base := s.BasePath
	if base == "" {
		base = "/"
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + filepath.ToSlash(rel)
}

// Icon is one generated asset, by output-relative path
type Icon struct {
	Path string
	Size common.SizeSpec
}

// Assets lists the icons the metadata files reference
type Assets struct {
	Favicons   []Icon
	TouchIcons []Icon
	TouchIcon  Icon // canonical, unsized link
	Android    []Icon
	Tile70     Icon
	Tile144    Icon
	Tile150    Icon
	Tile310    Icon
	TileWide   Icon
}

// MetadataBuilder renders and writes the manifest, browserconfig and head snippet
type MetadataBuilder struct {
	site   Site
	assets Assets
	logger *slog.Logger
}

// NewMetadataBuilder creates a new metadata builder
func NewMetadataBuilder(site Site, assets Assets, logger *slog.Logger) *MetadataBuilder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &MetadataBuilder{site: site, assets: assets, logger: logger}
}

type manifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	Icons           []manifestIcon `json:"icons"`
	ThemeColor      string         `json:"theme_color"`
	BackgroundColor string         `json:"background_color"`
	Display         string         `json:"display"`
}

type manifestIcon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

// Manifest renders site.webmanifest
func (b *MetadataBuilder) Manifest() ([]byte, error) {
	m := manifest{
		Name:            b.site.Name,
		ShortName:       b.site.ShortName,
		Icons:           make([]manifestIcon, 0, len(b.assets.Android)),
		ThemeColor:      b.site.ThemeColor,
		BackgroundColor: b.site.BackgroundColor,
		Display:         b.site.Display,
	}
	for _, icon := range b.assets.Android {
		m.Icons = append(m.Icons, manifestIcon{
			Src:   b.site.Href(icon.Path),
			Sizes: icon.Size.String(),
			Type:  "image/png",
		})
	}

	data, err := sonic.ConfigStd.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return append(data, '\n'), nil
}

type browserConfig struct {
	XMLName       xml.Name      `xml:"browserconfig"`
	MSApplication msApplication `xml:"msapplication"`
}

type msApplication struct {
	Tile tile `xml:"tile"`
}

type tile struct {
	Square70  logo   `xml:"square70x70logo"`
	Square150 logo   `xml:"square150x150logo"`
	Wide310   logo   `xml:"wide310x150logo"`
	Square310 logo   `xml:"square310x310logo"`
	TileColor string `xml:"TileColor"`
}

type logo struct {
	Src string `xml:"src,attr"`
}

// BrowserConfig renders browserconfig.xml
func (b *MetadataBuilder) BrowserConfig() ([]byte, error) {
	bc := browserConfig{
		MSApplication: msApplication{
			Tile: tile{
				Square70:  logo{Src: b.site.Href(b.assets.Tile70.Path)},
				Square150: logo{Src: b.site.Href(b.assets.Tile150.Path)},
				Wide310:   logo{Src: b.site.Href(b.assets.TileWide.Path)},
				Square310: logo{Src: b.site.Href(b.assets.Tile310.Path)},
				TileColor: b.site.TileColor,
			},
		},
	}

	data, err := xml.MarshalIndent(bc, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode browserconfig: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.Write(data)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

var headTemplate = template.Must(template.New("head").Parse(
	`<link rel="icon" type="image/x-icon" href="{{.LegacyIcon}}">
{{range .Favicons}}<link rel="icon" type="image/png" sizes="{{.Sizes}}" href="{{.Href}}">
{{end}}<link rel="apple-touch-icon" href="{{.TouchIcon}}">
{{range .TouchIcons}}<link rel="apple-touch-icon" sizes="{{.Sizes}}" href="{{.Href}}">
{{end}}<link rel="manifest" href="{{.Manifest}}">
<meta name="application-name" content="{{.Name}}">
<meta name="apple-mobile-web-app-title" content="{{.ShortName}}">
<meta name="msapplication-TileColor" content="{{.TileColor}}">
<meta name="msapplication-TileImage" content="{{.TileImage}}">
<meta name="msapplication-config" content="{{.BrowserConfig}}">
<meta name="theme-color" content="{{.ThemeColor}}">
`))

type headLink struct {
	Sizes string
	Href  string
}

// HeadHTML renders head-instructions.html
func (b *MetadataBuilder) HeadHTML() ([]byte, error) {
	links := func(icons []Icon) []headLink {
		out := make([]headLink, 0, len(icons))
		for _, icon := range icons {
			out = append(out, headLink{Sizes: icon.Size.String(), Href: b.site.Href(icon.Path)})
		}
		return out
	}

	data := map[string]any{
		"LegacyIcon":    b.site.Href(LegacyIconFile),
		"Favicons":      links(b.assets.Favicons),
		"TouchIcon":     b.site.Href(b.assets.TouchIcon.Path),
		"TouchIcons":    links(b.assets.TouchIcons),
		"Manifest":      b.site.Href(ManifestFile),
		"Name":          b.site.Name,
		"ShortName":     b.site.ShortName,
		"TileColor":     b.site.TileColor,
		"TileImage":     b.site.Href(b.assets.Tile144.Path),
		"BrowserConfig": b.site.Href(BrowserConfigFile),
		"ThemeColor":    b.site.ThemeColor,
	}

	var buf bytes.Buffer
	if err := headTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render head instructions: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteManifest renders and writes site.webmanifest into dir
func (b *MetadataBuilder) WriteManifest(dir string) common.OperationResult {
	return b.write(dir, ManifestFile, b.Manifest)
}

// WriteBrowserConfig renders and writes browserconfig.xml into dir
func (b *MetadataBuilder) WriteBrowserConfig(dir string) common.OperationResult {
	return b.write(dir, BrowserConfigFile, b.BrowserConfig)
}

// WriteHeadHTML renders and writes head-instructions.html into dir
func (b *MetadataBuilder) WriteHeadHTML(dir string) common.OperationResult {
	return b.write(dir, HeadHTMLFile, b.HeadHTML)
}

func (b *MetadataBuilder) write(dir, name string, render func() ([]byte, error)) common.OperationResult {
	path := filepath.Join(dir, name)

	content, err := render()
	if err == nil {
		err = writeFile(path, content)
	}
	if err != nil {
		b.logger.Error("✗ metadata file failed", "path", path, "error", err)
	} else {
		b.logger.Debug("✓ metadata file written", "path", path)
	}
	return common.FileResult(path, err)
}

// writeFile writes content, creating the parent directory if needed
func writeFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.WriteFile(path, content, 0644)
}
