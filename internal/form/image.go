package form

import (
	"bytes"
	"image"
	"image/png"
	"log"
	"os"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/xuri/excelize/v2"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

const (
	maxImageWidth  = 300
	maxImageHeight = 200

	// Pixel-to-sheet sizing factors, calibrated so an embedded photo is fully
	// visible without excess surrounding whitespace.
	rowHeightFactor = 0.75
	colWidthFactor  = 0.14
)

// embedImage downsamples the image at path into the bounding box, re-encodes
// it as PNG and anchors it at (row, col), growing that row and column to fit.
// A missing, unreadable or undecodable file is a logged no-op; an image
// problem must never abort the enclosing write.
func embedImage(f *excelize.File, sheet, path string, row, col int) {
	if path == "" {
		return
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Printf("embed image: read %s: %v", path, err)
		return
	}
	img, err := decodeImage(raw)
	if err != nil {
		log.Printf("embed image: decode %s: %v", path, err)
		return
	}

	img = shrinkToFit(img, maxImageWidth, maxImageHeight)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		log.Printf("embed image: encode %s: %v", path, err)
		return
	}

	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		log.Printf("embed image: anchor (%d,%d): %v", row, col, err)
		return
	}
	err = f.AddPictureFromBytes(sheet, cell, &excelize.Picture{
		Extension: ".png",
		File:      buf.Bytes(),
		Format:    &excelize.GraphicOptions{},
	})
	if err != nil {
		log.Printf("embed image: insert at %s: %v", cell, err)
		return
	}

	bounds := img.Bounds()
	_ = f.SetRowHeight(sheet, row, float64(bounds.Dy())*rowHeightFactor)
	colName, err := excelize.ColumnNumberToName(col)
	if err == nil {
		_ = f.SetColWidth(sheet, colName, colName, float64(bounds.Dx())*colWidthFactor)
	}
}

// decodeImage tries the registered stdlib decoders first and falls back to
// WebP, which image.Decode does not cover.
func decodeImage(raw []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err == nil {
		return img, nil
	}
	if decoded, webpErr := webp.Decode(bytes.NewReader(raw)); webpErr == nil {
		return decoded, nil
	}
	return nil, err
}

// shrinkToFit scales the image down to fit within maxW x maxH preserving
// aspect ratio. Images already inside the box are returned unchanged; there is
// no upscaling.
func shrinkToFit(img image.Image, maxW, maxH int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxW && h <= maxH {
		return img
	}
	scale := float64(maxW) / float64(w)
	if s := float64(maxH) / float64(h); s < scale {
		scale = s
	}
	targetW := int(float64(w) * scale)
	targetH := int(float64(h) * scale)
	if targetW < 1 {
		targetW = 1
	}
	if targetH < 1 {
		targetH = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, targetW, targetH))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}

// copySheetImages re-creates every embedded image of the source sheet in the
// target sheet at the identical anchor cell. Each copy owns its bytes; source
// and target workbooks share nothing afterwards.
func copySheetImages(src, dst *excelize.File, srcSheet, dstSheet string) error {
	cells, err := src.GetPictureCells(srcSheet)
	if err != nil {
		return err
	}
	for _, cell := range cells {
		pictures, err := src.GetPictures(srcSheet, cell)
		if err != nil {
			return err
		}
		for _, picture := range pictures {
			data := make([]byte, len(picture.File))
			copy(data, picture.File)
			err = dst.AddPictureFromBytes(dstSheet, cell, &excelize.Picture{
				Extension: picture.Extension,
				File:      data,
				Format:    picture.Format,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}
