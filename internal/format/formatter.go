// Package format renders alerts, persons, detections and notifications for
// the command line.
package format

import (
	"fmt"
	"strings"
	"time"
)

// Style is the output style of a listing.
type Style string

const (
	// StyleTable renders aligned columns with a header.
	StyleTable Style = "table"
	// StyleCompact renders one line per item without a header.
	StyleCompact Style = "compact"
	// StyleJSON renders the page as a JSON document.
	StyleJSON Style = "json"
)

// ParseStyle parses an output style name.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case "", StyleTable:
		return StyleTable, nil
	case StyleCompact:
		return StyleCompact, nil
	case StyleJSON:
		return StyleJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, compact or json)", s)
	}
}

// Options controls rendering.
type Options struct {
	Style Style
	// Now anchors relative times. Defaults to time.Now.
	Now func() time.Time
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

func (o Options) style() Style {
	if o.Style == "" {
		return StyleTable
	}
	return o.Style
}
