// Package ocr provides Optical Character Recognition (OCR) functionality using Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2) to read text from the
// editor's current raster. Rasters are handed to Tesseract as in-memory PNGs, with any
// transparency flattened onto white first.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr
//   - macOS: brew install tesseract
//   - Windows: Download from https://github.com/UB-Mannheim/tesseract/wiki
//
// Language data files are required for each language:
//   - Ubuntu/Debian: apt-get install tesseract-ocr-eng (for English)
//   - Other languages: tesseract-ocr-<lang> packages
//
// The language is set in the [ocr] section of the editor configuration ("eng" by
// default).
//
// # Functions
//
//   - ExtractText: whole-raster OCR, returns all text with word bounding boxes
//   - ExtractTextFromRegion: OCR on a source-space rectangle; bounds are reported in
//     raster coordinates
//   - DetectTextRegions: find text blocks without returning their text
//
// Tesseract bundles these behind Recognize and Detect for the editor.
//
// # Error Handling
//
// Functions return errors for:
//   - Nil rasters and regions that do not overlap the raster
//   - Unsupported language codes
//   - Tesseract initialization failures
//
// If bounding box extraction fails (e.g., Tesseract version mismatch),
// ExtractText still returns the extracted text with an empty Regions slice.
package ocr
