package ocr

import (
	"fmt"
	"image"
	"image/color"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/image-editor-mcp/internal/imaging"
)

// Bounds represents a rectangular bounding box in source pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// TextRegion represents a word or text block with its location and OCR confidence.
type TextRegion struct {
	// Text is the recognized text content.
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	// Higher values indicate more certain recognition.
	Confidence float64 `json:"confidence"`

	// Bounds is the bounding box around this text in the raster.
	Bounds Bounds `json:"bounds"`
}

// OCRResult contains the complete results of text extraction from a raster.
type OCRResult struct {
	// FullText is all recognized text as a single string with original spacing/newlines.
	FullText string `json:"full_text"`

	// Regions contains individual words with their bounding boxes and confidence scores.
	// May be empty if bounding box extraction fails (text will still be in FullText).
	Regions []TextRegion `json:"regions"`
}

// whiteMatte is the background transparent pixels are flattened onto before OCR.
var whiteMatte = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Tesseract recognizes text with the Tesseract engine.
type Tesseract struct {
	// Language is the Tesseract language code, e.g. "eng". The language data must be
	// installed on the system.
	Language string
}

// Recognize runs OCR on region of r. An empty region means the whole raster.
//
// The region is clipped to the raster. Word bounds in the result are relative to the
// raster, not to the region.
func (t Tesseract) Recognize(r *imaging.Raster, region image.Rectangle) (*OCRResult, error) {
	if region.Empty() {
		return ExtractText(r, t.Language)
	}
	return ExtractTextFromRegion(r, region, t.Language)
}

// Detect finds block-level text regions in r. See DetectTextRegions.
func (t Tesseract) Detect(r *imaging.Raster, minConfidence float64) (*DetectTextRegionsResult, error) {
	return DetectTextRegions(r, minConfidence, t.Language)
}

// ExtractText performs OCR on an entire raster and returns recognized text.
//
// The raster is passed to Tesseract as an in-memory PNG. Word-level bounding boxes use
// Tesseract's RIL_WORD iterator level; empty words are filtered out. If bounding box
// extraction fails, FullText is still returned with an empty Regions slice.
func ExtractText(r *imaging.Raster, language string) (*OCRResult, error) {
	if r == nil {
		return nil, imaging.ErrInvalidRaster
	}
	data, err := imaging.EncodePNG(imaging.Flatten(r, whiteMatte).Image())
	if err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	// Get bounding boxes for words
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		// Return just text if boxes fail
		return &OCRResult{
			FullText: text,
			Regions:  []TextRegion{},
		}, nil
	}

	return &OCRResult{
		FullText: text,
		Regions:  wordRegions(boxes),
	}, nil
}

// ExtractTextFromRegion performs OCR on a rectangular region of a raster.
//
// The returned bounding boxes are adjusted to the raster's coordinates. For example,
// if the region starts at (100, 50) and a word is detected at (10, 20) within the
// cropped region, the returned bounds will be (110, 70).
func ExtractTextFromRegion(r *imaging.Raster, region image.Rectangle, language string) (*OCRResult, error) {
	cropped, err := imaging.Crop(r, region.Min, region.Max)
	if err != nil {
		return nil, err
	}

	result, err := ExtractText(cropped, language)
	if err != nil {
		return nil, err
	}

	// Crop clips to the raster, so the offset is the clipped origin.
	origin := region.Canon().Intersect(r.Bounds()).Min
	offsetRegions(result.Regions, origin.X, origin.Y)
	return result, nil
}

// DetectTextRegionsResult contains text region locations without the actual text content.
type DetectTextRegionsResult struct {
	// Regions is the list of detected text regions with bounding boxes.
	Regions []TextRegionBox `json:"regions"`

	// Count is the number of text regions detected.
	Count int `json:"count"`
}

// TextRegionBox represents a detected text region's location without its content.
type TextRegionBox struct {
	// Bounds is the bounding box around the text region.
	Bounds Bounds `json:"bounds"`

	// Confidence is Tesseract's confidence score for this being a text region (0.0 to 1.0).
	Confidence float64 `json:"confidence"`
}

// DetectTextRegions finds block-level text regions without returning their text.
//
// Regions with confidence below minConfidence are excluded.
func DetectTextRegions(r *imaging.Raster, minConfidence float64, language string) (*DetectTextRegionsResult, error) {
	if r == nil {
		return nil, imaging.ErrInvalidRaster
	}
	data, err := imaging.EncodePNG(imaging.Flatten(r, whiteMatte).Image())
	if err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	// Get bounding boxes at block level (faster than word level)
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_BLOCK)
	if err != nil {
		return nil, fmt.Errorf("failed to get text regions: %w", err)
	}

	regions := blockRegions(boxes, minConfidence)
	return &DetectTextRegionsResult{
		Regions: regions,
		Count:   len(regions),
	}, nil
}

func wordRegions(boxes []gosseract.BoundingBox) []TextRegion {
	regions := make([]TextRegion, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		regions = append(regions, TextRegion{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Bounds:     toBounds(box.Box),
		})
	}
	return regions
}

func blockRegions(boxes []gosseract.BoundingBox, minConfidence float64) []TextRegionBox {
	regions := make([]TextRegionBox, 0)
	for _, box := range boxes {
		confidence := float64(box.Confidence) / 100.0
		if confidence < minConfidence {
			continue
		}
		regions = append(regions, TextRegionBox{
			Bounds:     toBounds(box.Box),
			Confidence: confidence,
		})
	}
	return regions
}

func offsetRegions(regions []TextRegion, dx, dy int) {
	for i := range regions {
		regions[i].Bounds.X1 += dx
		regions[i].Bounds.Y1 += dy
		regions[i].Bounds.X2 += dx
		regions[i].Bounds.Y2 += dy
	}
}

func toBounds(r image.Rectangle) Bounds {
	return Bounds{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}
