package tryon

import "fmt"

// DefaultModelName is the remote model every try-on job is submitted against
const DefaultModelName = "tryon-v1.6"

// Mode selects the remote processing quality
type Mode string

const (
	ModePerformance Mode = "performance"
	ModeBalanced    Mode = "balanced"
	ModeQuality     Mode = "quality"
)

// DefaultMode is used when the caller does not pick one
const DefaultMode = ModeQuality

// ParseMode validates a caller supplied mode. An empty string yields DefaultMode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return DefaultMode, nil
	case ModePerformance, ModeBalanced, ModeQuality:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid mode %q (must be one of performance, balanced, quality)", s)
	}
}

// Inputs holds the two image references of a job
type Inputs struct {
	ModelImage   string `json:"model_image"`
	GarmentImage string `json:"garment_image"`
}

// JobRequest is the canonical submission payload
type JobRequest struct {
	ModelName string `json:"model_name"`
	Inputs    Inputs `json:"inputs"`
	Mode      Mode   `json:"mode"`
}

// NewJobRequest builds a JobRequest for DefaultModelName.
// Image references are opaque and copied as given; a zero mode becomes DefaultMode.
func NewJobRequest(modelImage, garmentImage string, mode Mode) JobRequest {
	return NewJobRequestForModel(DefaultModelName, modelImage, garmentImage, mode)
}

// NewJobRequestForModel is NewJobRequest with an explicit model name
func NewJobRequestForModel(modelName, modelImage, garmentImage string, mode Mode) JobRequest {
	if mode == "" {
		mode = DefaultMode
	}
	if modelName == "" {
		modelName = DefaultModelName
	}
	return JobRequest{
		ModelName: modelName,
		Inputs: Inputs{
			ModelImage:   modelImage,
			GarmentImage: garmentImage,
		},
		Mode: mode,
	}
}
