package preprocess

import (
	"image"

	"github.com/tsawler/docfuse/internal/imgproc"
	"github.com/tsawler/docfuse/model"
)

// Features are the image statistics the document type heuristic looks at.
type Features struct {
	// EdgeDensity is the fraction of pixels on a Canny-like edge map.
	EdgeDensity float64 `json:"edgeDensity"`
	// Contrast is the standard deviation of the grayscale intensities.
	Contrast float64 `json:"contrast"`
	// TextureComplexity is the variance of the Laplacian.
	TextureComplexity float64 `json:"textureComplexity"`
	// HasColor is set for images with chromatic pixels and a strongly
	// varying color channel.
	HasColor bool `json:"hasColor"`
}

const (
	cannyLow  = 50
	cannyHigh = 150

	// chromaTolerance is the channel spread below which a pixel counts as gray
	chromaTolerance = 16
	colorStdDev     = 30.0

	nutritionEdgeDensity = 0.1
	nutritionContrast    = 50.0
	customsEdgeDensity   = 0.15
	customsTexture       = 100.0
)

// Measure computes the classifier features of img.
func Measure(img image.Image) Features {
	g := imgproc.ToGray(img)
	_, contrast := imgproc.MeanStdDev(g)
	f := Features{
		EdgeDensity:       imgproc.EdgeDensity(imgproc.CannyEdges(g, cannyLow, cannyHigh)),
		Contrast:          contrast,
		TextureComplexity: imgproc.LaplacianVariance(g),
	}
	if !imgproc.IsGray(img) {
		std, chromatic := imgproc.ChannelStdDev(img, chromaTolerance)
		if chromatic {
			for _, s := range std {
				if s > colorStdDev {
					f.HasColor = true
					break
				}
			}
		}
	}
	return f
}

// Classify picks a document type from f. Colorful, edge-rich, high contrast
// images are nutrition labels; dense, textured ones are customs forms;
// everything else is a general document.
func Classify(f Features) model.DocumentType {
	switch {
	case f.HasColor && f.EdgeDensity > nutritionEdgeDensity && f.Contrast > nutritionContrast:
		return model.DocumentNutrition
	case f.EdgeDensity > customsEdgeDensity && f.TextureComplexity > customsTexture:
		return model.DocumentCustoms
	default:
		return model.DocumentGeneral
	}
}

// DetectDocumentType measures and classifies img.
func DetectDocumentType(img image.Image) model.DocumentType {
	return Classify(Measure(img))
}
