// Package poster resolves display images for movies independently of the prediction core.
package poster

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// Display size of every poster
const (
	Width  = 650
	Height = 200
)

// DefaultFile is the fallback poster inside the poster directory
const DefaultFile = "movies.jpg"

// PlaceholderColor fills the generated poster when no file is available
var PlaceholderColor = color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}

// Source says where a poster came from
type Source string

// Source values
const (
	SourceTitle       Source = "title"
	SourceDefault     Source = "default"
	SourcePlaceholder Source = "placeholder"
)

// Poster is an image ready for display, already scaled to Width x Height
type Poster struct {
	Image  image.Image
	Source Source
	Path   string // File the image was read from; empty for placeholders and in-memory images
}

// Provider returns the poster to show for a movie title
type Provider interface {
	Get(title string) (*Poster, error)
}

// FSProvider looks up <Dir>/<title>.jpg, then <Dir>/movies.jpg, then generates a placeholder.
type FSProvider struct {
	Dir string
}

// NewFSProvider creates a filesystem-backed provider rooted at dir
func NewFSProvider(dir string) *FSProvider {
	return &FSProvider{Dir: dir}
}

// Get returns the title's poster, falling back to the default poster and then a placeholder.
// An error is returned only when a poster file exists but cannot be decoded.
func (p *FSProvider) Get(title string) (*Poster, error) {
	if name := fileName(title); name != "" && p.Dir != "" {
		path := filepath.Join(p.Dir, name+".jpg")
		if img, ok, err := decodeFile(path); err != nil {
			return nil, err
		} else if ok {
			return &Poster{Image: Resize(img, Width, Height), Source: SourceTitle, Path: path}, nil
		}
	}

	if p.Dir != "" {
		path := filepath.Join(p.Dir, DefaultFile)
		if img, ok, err := decodeFile(path); err != nil {
			return nil, err
		} else if ok {
			return &Poster{Image: Resize(img, Width, Height), Source: SourceDefault, Path: path}, nil
		}
	}

	return Placeholder(), nil
}

// MemoryProvider serves posters from a map keyed by exact title
type MemoryProvider struct {
	images   map[string]image.Image
	fallback image.Image
}

// NewMemoryProvider creates an in-memory provider. A nil fallback yields placeholders for unknown titles.
func NewMemoryProvider(images map[string]image.Image, fallback image.Image) *MemoryProvider {
	if images == nil {
		images = make(map[string]image.Image)
	}
	return &MemoryProvider{images: images, fallback: fallback}
}

// Get returns the stored image for title, or the fallback, or a placeholder.
func (p *MemoryProvider) Get(title string) (*Poster, error) {
	if img, ok := p.images[title]; ok {
		return &Poster{Image: Resize(img, Width, Height), Source: SourceTitle}, nil
	}
	if p.fallback != nil {
		return &Poster{Image: Resize(p.fallback, Width, Height), Source: SourceDefault}, nil
	}
	return Placeholder(), nil
}

// Placeholder returns a solid gray poster
func Placeholder() *Poster {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: PlaceholderColor}, image.Point{}, draw.Src)
	return &Poster{Image: img, Source: SourcePlaceholder}
}

// Resize scales img to w x h with bilinear interpolation.
func Resize(img image.Image, w, h int) image.Image {
	src := img.Bounds()
	if src.Dx() == w && src.Dy() == h {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if src.Empty() {
		return dst
	}
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	return dst
}

// fileName strips path separators so a title cannot escape the poster directory.
func fileName(title string) string {
	name := strings.TrimSpace(title)
	name = strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	if name == "." || name == ".." {
		return ""
	}
	return name
}

// decodeFile returns ok=false when the file does not exist.
func decodeFile(path string) (image.Image, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to open poster %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode poster %s: %w", path, err)
	}
	return img, true, nil
}
