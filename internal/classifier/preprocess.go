package classifier

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	// Register the decoders accepted by /predict.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"
)

// InputSize is the square resolution the network expects.
const InputSize = 224

// MaxPixels caps the declared size of an upload before it is decoded.
const MaxPixels = 178956970

// ImageNet statistics the backbone was pretrained with.
var (
	channelMean = [3]float32{0.485, 0.456, 0.406}
	channelStd  = [3]float32{0.229, 0.224, 0.225}
)

// Decode decodes any registered image format. Images declaring more than
// MaxPixels pixels are rejected from their header alone.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Err: image.ErrFormat}
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, &DecodeError{Err: fmt.Errorf("image is %dx%d, limit is %d pixels", cfg.Width, cfg.Height, MaxPixels)}
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return img, nil
}

// Preprocess converts img into a normalized 1x3xHxW float tensor in CHW order.
// The image is forced to RGB (alpha dropped) and resized with bilinear
// interpolation before normalization.
func Preprocess(img image.Image) []float32 {
	rgb := toRGBA(img)

	resized := image.NewRGBA(image.Rect(0, 0, InputSize, InputSize))
	draw.BiLinear.Scale(resized, resized.Bounds(), rgb, rgb.Bounds(), draw.Src, nil)

	plane := InputSize * InputSize
	out := make([]float32, 3*plane)
	for y := 0; y < InputSize; y++ {
		for x := 0; x < InputSize; x++ {
			off := resized.PixOffset(x, y)
			px := resized.Pix[off : off+3 : off+3]
			i := y*InputSize + x
			for c := 0; c < 3; c++ {
				v := float32(px[c]) / 255
				out[c*plane+i] = (v - channelMean[c]) / channelStd[c]
			}
		}
	}
	return out
}

// toRGBA copies img onto an opaque canvas, dropping alpha.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}

	// Translucent pixels keep their straight colour, not the premultiplied one
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			dst.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return dst
}
