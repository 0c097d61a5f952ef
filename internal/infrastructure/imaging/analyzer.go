package imaging

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"sort"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/kirillkom/style-sage/internal/core/domain"
)

const (
	DefaultMaxSize = 512
	DefaultColors  = 5

	paletteNeutral = "Neutral / Minimalist"
	paletteSoft    = "Soft / Earthy"
	paletteBold    = "Bold / Vibrant"
	paletteUnknown = "Unknown"

	saturationEpsilon = 1e-6
)

// Analyzer computes dominant colors, brightness and saturation of a photo.
type Analyzer struct {
	maxSize int
	colors  int
}

func NewAnalyzer(maxSize, colors int) *Analyzer {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if colors <= 0 {
		colors = DefaultColors
	}
	return &Analyzer{maxSize: maxSize, colors: colors}
}

// Decode reads a JPEG, PNG, GIF or WebP image.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func (a *Analyzer) Analyze(img image.Image) domain.ImageStats {
	pixels := collectPixels(resize(img, a.maxSize))
	brightness, saturation := brightnessSaturation(pixels)
	dominant := dominantColors(pixels, a.colors)
	return domain.ImageStats{
		DominantColors: dominant,
		Brightness:     round4(brightness),
		Saturation:     round4(saturation),
		PaletteName:    PaletteName(dominant),
	}
}

// PaletteName classifies dominant colors by their mean saturation.
func PaletteName(colors []domain.DominantColor) string {
	if len(colors) == 0 {
		return paletteUnknown
	}
	var total float64
	for _, c := range colors {
		total += pixelSaturation(float64(c.RGB[0])/255, float64(c.RGB[1])/255, float64(c.RGB[2])/255)
	}
	mean := total / float64(len(colors))
	switch {
	case mean < 0.15:
		return paletteNeutral
	case mean < 0.35:
		return paletteSoft
	default:
		return paletteBold
	}
}

// resize scales img down so that its longest side is at most maxSize. Alpha
// is dropped first so transparent pixels keep their stored color.
func resize(img image.Image, maxSize int) *image.RGBA {
	flat := opaque(img)
	bounds := flat.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	longest := max(w, h)

	if longest > maxSize {
		scale := float64(maxSize) / float64(longest)
		w = max(int(float64(w)*scale), 1)
		h = max(int(float64(h)*scale), 1)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if longest > maxSize {
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), flat, bounds, xdraw.Src, nil)
	} else {
		xdraw.Draw(dst, dst.Bounds(), flat, bounds.Min, xdraw.Src)
	}
	return dst
}

// opaque copies img with every alpha forced to 255, keeping the
// non-premultiplied color channels.
func opaque(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			c.A = 255
			out.SetNRGBA(x-bounds.Min.X, y-bounds.Min.Y, c)
		}
	}
	return out
}

type rgb [3]uint8

func collectPixels(img *image.RGBA) []rgb {
	bounds := img.Bounds()
	pixels := make([]rgb, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			off := img.PixOffset(x, y)
			pixels = append(pixels, rgb{img.Pix[off], img.Pix[off+1], img.Pix[off+2]})
		}
	}
	return pixels
}

func brightnessSaturation(pixels []rgb) (float64, float64) {
	if len(pixels) == 0 {
		return 0, 0
	}
	var sumV, sumS float64
	for _, p := range pixels {
		r, g, b := float64(p[0])/255, float64(p[1])/255, float64(p[2])/255
		sumV += max(r, g, b)
		sumS += pixelSaturation(r, g, b)
	}
	n := float64(len(pixels))
	return sumV / n, sumS / n
}

func pixelSaturation(r, g, b float64) float64 {
	hi := max(r, g, b)
	lo := min(r, g, b)
	return (hi - lo) / (hi + saturationEpsilon)
}

type colorBox struct {
	pixels []rgb
}

// widest returns the channel with the largest value range and that range.
func (b colorBox) widest() (int, int) {
	lo := rgb{255, 255, 255}
	var hi rgb
	for _, p := range b.pixels {
		for c := 0; c < 3; c++ {
			lo[c] = min(lo[c], p[c])
			hi[c] = max(hi[c], p[c])
		}
	}
	channel, spread := 0, -1
	for c := 0; c < 3; c++ {
		if d := int(hi[c]) - int(lo[c]); d > spread {
			channel, spread = c, d
		}
	}
	return channel, spread
}

func (b colorBox) mean() rgb {
	var sum [3]int
	for _, p := range b.pixels {
		for c := 0; c < 3; c++ {
			sum[c] += int(p[c])
		}
	}
	n := len(b.pixels)
	var out rgb
	for c := 0; c < 3; c++ {
		out[c] = uint8((sum[c] + n/2) / n)
	}
	return out
}

// dominantColors quantizes pixels into at most k boxes by median cut and
// returns them ordered by pixel count.
func dominantColors(pixels []rgb, k int) []domain.DominantColor {
	if len(pixels) == 0 {
		return []domain.DominantColor{}
	}
	work := make([]rgb, len(pixels))
	copy(work, pixels)
	boxes := []colorBox{{pixels: work}}

	for len(boxes) < k {
		target := -1
		for i, b := range boxes {
			if _, spread := b.widest(); spread <= 0 || len(b.pixels) < 2 {
				continue
			}
			if target < 0 || len(b.pixels) > len(boxes[target].pixels) {
				target = i
			}
		}
		if target < 0 {
			break
		}
		box := boxes[target]
		channel, _ := box.widest()
		sort.Slice(box.pixels, func(i, j int) bool { return box.pixels[i][channel] < box.pixels[j][channel] })
		mid := splitPoint(box.pixels, channel)
		boxes[target] = colorBox{pixels: box.pixels[:mid]}
		boxes = append(boxes, colorBox{pixels: box.pixels[mid:]})
	}

	// Boxes whose means coincide report one color.
	type bucket struct {
		color rgb
		count int
	}
	buckets := make([]bucket, 0, len(boxes))
	index := make(map[rgb]int, len(boxes))
	for _, b := range boxes {
		c := b.mean()
		if i, ok := index[c]; ok {
			buckets[i].count += len(b.pixels)
			continue
		}
		index[c] = len(buckets)
		buckets = append(buckets, bucket{color: c, count: len(b.pixels)})
	}
	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].count > buckets[j].count })

	total := float64(len(pixels))
	colors := make([]domain.DominantColor, 0, len(buckets))
	for _, b := range buckets {
		c := b.color
		colors = append(colors, domain.DominantColor{
			RGB:        [3]int{int(c[0]), int(c[1]), int(c[2])},
			Hex:        fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]),
			Proportion: round4(float64(b.count) / total),
		})
	}
	return colors
}

// splitPoint returns a cut index into pixels, sorted by channel, that never
// separates equal channel values. pixels must span more than one value.
func splitPoint(pixels []rgb, channel int) int {
	mid := len(pixels) / 2
	v := pixels[mid][channel]
	if lo := sort.Search(len(pixels), func(i int) bool { return pixels[i][channel] >= v }); lo > 0 {
		return lo
	}
	return sort.Search(len(pixels), func(i int) bool { return pixels[i][channel] > v })
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

func (a *Analyzer) Decode(r io.Reader) (image.Image, error) {
	return Decode(r)
}
