package generator

import (
	"path/filepath"

	"favicongen/src/builder"
	"favicongen/src/common"
)

// IconsDir is the icon subdirectory of the output directory
const IconsDir = "icons"

// Platform is a fixed size catalog and file naming convention
type Platform struct {
	Name    string
	Sizes   []common.SizeSpec
	Pattern string // file name relative to IconsDir, {n} is the size label
}

var (
	Favicons = Platform{
		Name:    "favicons",
		Sizes:   common.Squares(16, 32, 48, 96),
		Pattern: "favicon-{n}x{n}.png",
	}
	AppleTouchIcons = Platform{
		Name:    "apple-touch-icons",
		Sizes:   common.Squares(57, 60, 72, 76, 114, 120, 144, 152, 180),
		Pattern: "apple-touch-icon-{n}x{n}.png",
	}
	AndroidIcons = Platform{
		Name:    "android-chrome",
		Sizes:   common.Squares(192, 512),
		Pattern: "android-chrome-{n}x{n}.png",
	}
	MSTiles = Platform{
		Name:    "mstiles",
		Sizes:   common.Squares(70, 144, 150, 310),
		Pattern: "mstile-{n}x{n}.png",
	}
)

// Extra files outside the catalog patterns
var (
	// LegacySource is the favicon packed into favicon.ico
	LegacySource = common.Square(32)

	AppleTouchDefault     = common.Square(180)
	AppleTouchDefaultFile = "apple-touch-icon.png"

	MSTileWide     = common.Rect(310, 150)
	MSTileWideFile = "mstile-310x150.png"
)

// RelPath is the output-relative path of a catalog entry
func (p Platform) RelPath(size common.SizeSpec) string {
	return filepath.Join(IconsDir, size.Expand(p.Pattern))
}

func (p Platform) icons() []builder.Icon {
	icons := make([]builder.Icon, 0, len(p.Sizes))
	for _, size := range p.Sizes {
		icons = append(icons, builder.Icon{Path: p.RelPath(size), Size: size})
	}
	return icons
}

// CatalogAssets describes every icon the catalogs produce, for the metadata files
func CatalogAssets() builder.Assets {
	tile := func(n int) builder.Icon {
		size := common.Square(n)
		return builder.Icon{Path: MSTiles.RelPath(size), Size: size}
	}
	return builder.Assets{
		Favicons:   Favicons.icons(),
		TouchIcons: AppleTouchIcons.icons(),
		TouchIcon:  builder.Icon{Path: filepath.Join(IconsDir, AppleTouchDefaultFile), Size: AppleTouchDefault},
		Android:    AndroidIcons.icons(),
		Tile70:     tile(70),
		Tile144:    tile(144),
		Tile150:    tile(150),
		Tile310:    tile(310),
		TileWide:   builder.Icon{Path: filepath.Join(IconsDir, MSTileWideFile), Size: MSTileWide},
	}
}
