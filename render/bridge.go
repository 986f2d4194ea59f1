package render

import "github.com/gdamore/tcell/v2"

// RGBToTcell converts RGB to a true-color tcell.Color
func RGBToTcell(rgb RGB) tcell.Color {
	return tcell.NewRGBColor(int32(rgb.R), int32(rgb.G), int32(rgb.B))
}
