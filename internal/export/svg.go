package export

import (
	"fmt"
	"strings"
)

const (
	background = "#0a0a0a"
	barFill    = "#3498db"
	sortedFill = "#2ecc71"
	curveColor = "#f39c12"
)

// BarsToSVG draws values as a bar chart. Bars flagged in sorted are drawn in
// the sorted color; sorted may be shorter than values or nil.
func BarsToSVG(values []float64, sorted []bool, width, height int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))

	if len(values) > 0 {
		maxVal := 0.0
		for _, v := range values {
			if v > maxVal {
				maxVal = v
			}
		}

		slot := float64(width) / float64(len(values))
		gap := slot * 0.1
		stub := float64(height) * 0.01
		if stub < 1 {
			stub = 1
		}

		for i, v := range values {
			h := stub
			if v > 0 && maxVal > 0 {
				h = v / maxVal * float64(height)
			}
			fill := barFill
			if i < len(sorted) && sorted[i] {
				fill = sortedFill
			}
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, float64(i)*slot+gap/2, float64(height)-h, slot-gap, h, fill))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// CurveToSVG draws ys against their index as a polyline, for example the
// cumulative compare count of a run.
func CurveToSVG(ys []float64, width, height int) string {
	if len(ys) < 2 {
		return ""
	}

	minY, maxY := ys[0], ys[0]
	for _, y := range ys {
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2
	stepX := float64(width) / float64(len(ys)-1)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, curveColor))

	for i, y := range ys {
		px := float64(i) * stepX
		py := float64(height) - (y-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", px, py))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px, py))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
