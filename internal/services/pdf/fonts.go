package pdf

import (
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
)

const (
	coreFamily = "Arial"
	utf8Family = "Body"
)

// regularFontCandidates are UTF-8 TTF files probed in font_dir, in order.
// Any font with Hangul coverage renders Korean titles and column names.
var regularFontCandidates = []string{
	"NanumGothic.ttf",
	"NotoSansKR-Regular.ttf",
	"NotoSansCJKkr-Regular.ttf",
	"malgun.ttf",
}

var boldFontCandidates = []string{
	"NanumGothicBold.ttf",
	"NotoSansKR-Bold.ttf",
	"NotoSansCJKkr-Bold.ttf",
	"malgunbd.ttf",
}

// fontSet is the font family chosen for one document
type fontSet struct {
	family string
	utf8   bool
	tr     func(string) string
}

// text converts s for the active font; core fonts need cp1252
func (f fontSet) text(s string) string {
	if f.tr == nil {
		return s
	}
	return f.tr(s)
}

// findFont returns the first candidate file name present in dir
func findFont(dir string, candidates []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range candidates {
		if info, err := os.Stat(filepath.Join(dir, name)); err == nil && !info.IsDir() {
			return name
		}
	}
	return ""
}

// loadFonts registers a UTF-8 font from fontDir when one is available and
// falls back to the built-in core font otherwise.
func loadFonts(doc *fpdf.Fpdf, fontDir string, logger arbor.ILogger) fontSet {
	regular := findFont(fontDir, regularFontCandidates)
	if regular == "" {
		return fontSet{family: coreFamily, tr: doc.UnicodeTranslatorFromDescriptor("")}
	}

	bold := findFont(fontDir, boldFontCandidates)
	if bold == "" {
		bold = regular
	}

	// fpdf resolves font files relative to its font location
	doc.SetFontLocation(fontDir)
	doc.AddUTF8Font(utf8Family, "", regular)
	doc.AddUTF8Font(utf8Family, "B", bold)
	doc.AddUTF8Font(utf8Family, "I", regular)
	doc.AddUTF8Font(utf8Family, "BI", bold)

	if err := doc.Error(); err != nil {
		logger.Warn().Err(err).Str("font", regular).Msg("Failed to load UTF-8 font, using core font")
		doc.ClearError()
		return fontSet{family: coreFamily, tr: doc.UnicodeTranslatorFromDescriptor("")}
	}

	return fontSet{family: utf8Family, utf8: true}
}
