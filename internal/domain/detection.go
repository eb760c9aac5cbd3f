package domain

import (
	"fmt"
	"time"
)

// Detection is a single face match produced by a camera.
type Detection struct {
	ID         string    `json:"id"`
	PersonID   string    `json:"personId,omitempty"`
	CameraID   string    `json:"cameraId"`
	Location   string    `json:"location,omitempty"`
	Confidence float64   `json:"confidence"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	DetectedAt time.Time `json:"detectedAt"`
}

// ItemID returns the detection identifier.
func (d Detection) ItemID() string { return d.ID }

// Validate reports the first schema violation in the detection.
func (d Detection) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("detection: missing id")
	}
	if d.CameraID == "" {
		return fmt.Errorf("detection %s: missing cameraId", d.ID)
	}
	if d.Confidence < 0 || d.Confidence > 1 {
		return fmt.Errorf("detection %s: confidence %v out of range [0,1]", d.ID, d.Confidence)
	}
	if d.DetectedAt.IsZero() {
		return fmt.Errorf("detection %s: missing detectedAt", d.ID)
	}
	return nil
}

// DetectionCameras derives the distinct cameras present in one page of detections.
func DetectionCameras(detections []Detection) []string {
	values := make([]string, 0, len(detections))
	for _, d := range detections {
		values = append(values, d.CameraID)
	}
	return Distinct(values)
}
